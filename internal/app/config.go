package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete storefront configuration, loadable from
// environment variables (SPARKLE_ prefix) or YAML config files. The command
// line owns its own flags, so flag parsing is disabled here.
type Config struct {
	CatalogURL  string        `default:"https://fakestoreapi.com" usage:"Product catalog base URL" flag:"catalog-url"`
	HTTPTimeout time.Duration `default:"10s" usage:"Catalog request timeout" flag:"http-timeout"`
	StateDir    string        `usage:"State directory (default: <user config dir>/sparkle)" flag:"state-dir"`
	Snapshot    string        `usage:"Catalog snapshot path (default: <state-dir>/catalog.json)" flag:"snapshot"`
	LogLevel    string        `default:"info" usage:"Log level (debug, info, warn, error)" flag:"log-level"`
	Credentials string        `default:"plaintext" usage:"Credential scheme: plaintext or bcrypt" flag:"credentials"`
}

// LoadConfig loads configuration from environment variables and YAML config
// files, then fills in the state-dir and snapshot defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SPARKLE",
		SkipFlags: true,
		Files:     []string{"sparkle.yaml", "/etc/sparkle/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	if cfg.StateDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, errors.Wrap(err, "resolve user config dir")
		}
		cfg.StateDir = filepath.Join(base, "sparkle")
	}
	if cfg.Snapshot == "" {
		cfg.Snapshot = filepath.Join(cfg.StateDir, "catalog.json")
	}

	return &cfg, nil
}
