package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/formpath/formpath/pkg/errors"
	"github.com/formpath/formpath/pkg/export"
)

func TestLoadConfigDefaults(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for explicitly named missing file")
	}

	// Only the default path may be missing silently.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Lang != "en" || cfg.Store.Backend != "file" || cfg.Output.Dir != "." {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Reference.BaseURL != defaultReferenceURL {
		t.Fatalf("base url = %q", cfg.Reference.BaseURL)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "formpath.toml")
	data := `
lang = "es"

[output]
dir = "/tmp/out"

[store]
backend = "redis"

[store.redis]
addr = "localhost:6379"

[reference]
dir = "/srv/forms"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Lang != "es" {
		t.Fatalf("lang = %q", cfg.Lang)
	}
	if cfg.Store.Backend != "redis" || cfg.Store.Redis.Addr != "localhost:6379" {
		t.Fatalf("store config not applied: %+v", cfg.Store)
	}
	if _, ok := referenceSource(cfg).(*export.DirSource); !ok {
		t.Fatal("reference.dir should select the directory source")
	}
}

func TestLoadConfigRejectsUnknownLang(t *testing.T) {
	path := filepath.Join(t.TempDir(), "formpath.toml")
	if err := os.WriteFile(path, []byte(`lang = "fr"`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := loadConfig(path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("want INVALID_CONFIG, got %v", err)
	}
}

func TestMsgsFallsBackToEnglish(t *testing.T) {
	if msgs("de").next != msgs("en").next {
		t.Fatal("unknown language should fall back to english")
	}
	if msgs("es").yes == msgs("en").yes {
		t.Fatal("spanish catalog should differ from english")
	}
}
