// Package app wires the storefront together: persisted state, the cart and
// auth stores, and catalog access. Everything is constructed explicitly once
// per process; there are no package-level singletons.
package app

import (
	"net/http"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/ajju853/sparkle-storefront/internal/auth"
	"github.com/ajju853/sparkle-storefront/internal/cart"
	"github.com/ajju853/sparkle-storefront/internal/catalog"
	"github.com/ajju853/sparkle-storefront/internal/notify"
	"github.com/ajju853/sparkle-storefront/internal/storage/localstore"
)

// App bundles the storefront's stores and catalog access for the command
// layer.
type App struct {
	Cart     *cart.Store
	Auth     *auth.Service
	Client   *catalog.Client
	State    *localstore.Store
	Notify   notify.Notifier
	snapshot string
}

// New creates all dependencies. It is the single wiring point for the
// storefront.
func New(lg *zap.Logger, cfg *Config, n notify.Notifier) (*App, error) {
	state, err := localstore.Open(cfg.StateDir)
	if err != nil {
		return nil, errors.Wrap(err, "open state store")
	}

	scheme, err := credentialScheme(cfg.Credentials)
	if err != nil {
		return nil, err
	}

	client := catalog.NewClient(cfg.CatalogURL, &http.Client{Timeout: cfg.HTTPTimeout})

	return &App{
		Cart:     cart.NewStore(state, lg.Named("cart"), n),
		Auth:     auth.NewService(state, scheme, lg.Named("auth"), n),
		Client:   client,
		State:    state,
		Notify:   n,
		snapshot: cfg.Snapshot,
	}, nil
}

// Source picks where product reads come from: the live catalog, or the local
// snapshot when offline browsing was requested.
func (a *App) Source(offline bool) catalog.Source {
	if offline {
		return catalog.OpenSnapshot(a.snapshot)
	}
	return a.Client
}

// SnapshotPath is where `catalog pull` writes the offline snapshot.
func (a *App) SnapshotPath() string {
	return a.snapshot
}

func credentialScheme(name string) (auth.CredentialScheme, error) {
	switch name {
	case "plaintext":
		return auth.Plaintext{}, nil
	case "bcrypt":
		return auth.Bcrypt{}, nil
	default:
		return nil, errors.Errorf("unknown credential scheme %q", name)
	}
}
