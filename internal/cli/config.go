package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/formpath/formpath/pkg/errors"
	"github.com/formpath/formpath/pkg/export"
	"github.com/formpath/formpath/pkg/store"
)

// Config is the on-disk CLI configuration, read from formpath.toml.
// Every field has a working default so a missing file is fine.
type Config struct {
	// Lang selects the interface language: "en" or "es".
	Lang string `toml:"lang"`

	Output    OutputConfig    `toml:"output"`
	Store     StoreConfig     `toml:"store"`
	Reference ReferenceConfig `toml:"reference"`
}

// OutputConfig controls where exported PDFs land.
type OutputConfig struct {
	Dir string `toml:"dir"`
}

// StoreConfig selects and configures the answer-persistence backend.
type StoreConfig struct {
	// Backend is one of "file", "redis", "mongo". Default "file".
	Backend string `toml:"backend"`

	// Dir is the file backend's directory; empty uses the user config dir.
	Dir string `toml:"dir"`

	Redis struct {
		Addr     string `toml:"addr"`
		Password string `toml:"password"`
		DB       int    `toml:"db"`
	} `toml:"redis"`

	Mongo struct {
		URI        string `toml:"uri"`
		Database   string `toml:"database"`
		Collection string `toml:"collection"`
	} `toml:"mongo"`
}

// ReferenceConfig says where official reference PDFs come from. When Dir is
// set it wins over BaseURL.
type ReferenceConfig struct {
	Dir     string `toml:"dir"`
	BaseURL string `toml:"base_url"`
}

// defaultReferenceURL is where official form PDFs are published.
const defaultReferenceURL = "https://www.uscis.gov/sites/default/files/document/forms"

// loadConfig reads the config file at path, or the default location when path
// is empty. A missing file yields the defaults.
func loadConfig(path string) (Config, error) {
	cfg := Config{Lang: "en"}
	cfg.Store.Backend = "file"
	cfg.Output.Dir = "."
	cfg.Reference.BaseURL = defaultReferenceURL

	if path == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return cfg, nil // no config dir, run on defaults
		}
		path = filepath.Join(base, "formpath", "formpath.toml")
		if _, err := os.Stat(path); err != nil {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "reading %s", path)
	}
	if cfg.Lang != "en" && cfg.Lang != "es" {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unsupported lang %q (want en or es)", cfg.Lang)
	}
	return cfg, nil
}

// openStore builds the configured persistence backend.
func openStore(ctx context.Context, cfg Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "", "file":
		return store.NewFileStore(cfg.Store.Dir)
	case "redis":
		return store.NewRedisStore(ctx, store.RedisConfig{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
	case "mongo":
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.Store.Mongo.URI,
			Database:   cfg.Store.Mongo.Database,
			Collection: cfg.Store.Mongo.Collection,
		})
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", cfg.Store.Backend)
	}
}

// referenceSource builds the reference-document source from config.
func referenceSource(cfg Config) export.Source {
	if cfg.Reference.Dir != "" {
		return &export.DirSource{Dir: cfg.Reference.Dir}
	}
	return &export.HTTPSource{BaseURL: cfg.Reference.BaseURL}
}
