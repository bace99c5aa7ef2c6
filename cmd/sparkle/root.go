// Command sparkle is the Sparkle storefront for the terminal: product
// browsing and filtering, a persistent shopping cart, and a mock sign-in
// flow. All state lives under a local state directory; product data comes
// from the public fake-store catalog API.
package main

import (
	"context"
	"path/filepath"

	"github.com/go-faster/sdk/zctx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ajju853/sparkle-storefront/internal/app"
	"github.com/ajju853/sparkle-storefront/internal/notify"
)

var (
	// Global flags.
	verbose    bool
	catalogURL string
	stateDir   string

	logger     *zap.Logger
	storefront *app.App
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sparkle",
		Short: "Sparkle storefront: browse products, manage your cart, sign in",
		Long: `Sparkle is a storefront for the terminal.

It browses the public fake-store product catalog, keeps a shopping cart and
a mock sign-in session in a local state directory, and works offline from a
pulled catalog snapshot. The sign-in flow is a demo mock, not a security
boundary.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			logger, err = newLogger(verbose)
			if err != nil {
				return err
			}

			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			if catalogURL != "" {
				cfg.CatalogURL = catalogURL
			}
			if stateDir != "" {
				cfg.StateDir = stateDir
				cfg.Snapshot = filepath.Join(stateDir, "catalog.json")
			}

			storefront, err = app.New(logger, cfg, notify.Console{W: cmd.OutOrStdout()})
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&catalogURL, "catalog-url", "", "override the product catalog base URL")
	root.PersistentFlags().StringVar(&stateDir, "state-dir", "", "override the state directory")

	root.AddCommand(
		newProductsCmd(),
		newCartCmd(),
		newAuthCmd(),
		newCatalogCmd(),
	)
	return root
}

// cmdContext threads the logger through context so lower layers pick it up
// with zctx.From.
func cmdContext(cmd *cobra.Command) context.Context {
	return zctx.Base(cmd.Context(), logger)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return cfg.Build()
}
