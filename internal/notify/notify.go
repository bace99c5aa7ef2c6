// Package notify delivers transient user-facing notifications, the command
// line equivalent of the storefront's toast popups.
package notify

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Notifier surfaces a short notification to the user. Implementations must
// not fail the calling operation: a notification is presentation, not state.
type Notifier interface {
	Notify(ctx context.Context, title, message string)
}

// Console writes notifications to w, one per line.
type Console struct {
	W io.Writer
}

func (c Console) Notify(_ context.Context, title, message string) {
	fmt.Fprintf(c.W, "%s: %s\n", title, message)
}

// Log routes notifications to a zap logger, for non-interactive use.
type Log struct {
	Logger *zap.Logger
}

func (l Log) Notify(_ context.Context, title, message string) {
	l.Logger.Info(title, zap.String("detail", message))
}

// Discard drops all notifications.
type Discard struct{}

func (Discard) Notify(context.Context, string, string) {}
