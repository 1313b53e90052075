package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/freeboard/pkg/errors"
	"github.com/matzehuels/freeboard/pkg/storage"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
workspace = "team"

[canvas]
width = 1200

[storage]
backend = "sqlite"
path = "/tmp/layouts.db"

[server]
shutdown_timeout = "2s"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workspace != "team" || cfg.Canvas.Width != 1200 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Canvas.Padding != 20 || cfg.Canvas.MaxDepth != 5 || cfg.Server.Addr != DefaultAddr {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.Storage.Backend != storage.BackendSQLite || cfg.Storage.Path != "/tmp/layouts.db" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Server.ShutdownTimeout != 2*time.Second {
		t.Errorf("shutdown_timeout = %v", cfg.Server.ShutdownTimeout)
	}

	r := cfg.Resolver()
	if r.Canvas.Width != 1200 || r.Gap != 10 || r.MaxDepth != 5 {
		t.Errorf("Resolver() = %+v", r)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"syntax", "workspace = ", errors.ErrCodeInvalidInput},
		{"workspace", `workspace = "a/b"`, errors.ErrCodeInvalidWorkspace},
		{"narrow canvas", "[canvas]\nwidth = 100", errors.ErrCodeInvalidInput},
		{"zero depth", "[canvas]\nmax_depth = 0", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			os.WriteFile(path, []byte(tt.data), 0o600)
			if _, err := Load(path); !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestWriteThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Workspace = "lab"
	cfg.Catalog.Path = "widgets.yaml"
	if err := Write(path, cfg); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Workspace != "lab" || got.Catalog.Path != "widgets.yaml" {
		t.Errorf("Load() = %+v", got)
	}
}

func TestPathHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	p, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if p != "/xdg/freeboard/config.toml" {
		t.Errorf("Path() = %s", p)
	}
}
