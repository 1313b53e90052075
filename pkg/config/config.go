// Package config loads freeboard settings from a TOML file.
//
// Every key is optional; missing keys keep their defaults:
//
//	workspace = "home"
//
//	[canvas]
//	width = 1600
//	padding = 20
//	push_gap = 10
//	max_depth = 5
//
//	[storage]
//	backend = "file"          # memory, file, sqlite, redis, mongo, http
//	path = "~/.local/share/freeboard/layouts"
//
//	[server]
//	addr = "127.0.0.1:8750"
//	shutdown_timeout = "5s"
//
//	[catalog]
//	path = "widgets.yaml"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/freeboard/pkg/errors"
	"github.com/matzehuels/freeboard/pkg/geom"
	"github.com/matzehuels/freeboard/pkg/push"
	"github.com/matzehuels/freeboard/pkg/storage"
)

const appName = "freeboard"

// Defaults.
const (
	DefaultWorkspace       = "home"
	DefaultAddr            = "127.0.0.1:8750"
	DefaultShutdownTimeout = 5 * time.Second
)

// Config is the top-level configuration.
type Config struct {
	Workspace string         `toml:"workspace"`
	Canvas    Canvas         `toml:"canvas"`
	Storage   storage.Config `toml:"storage"`
	Server    Server         `toml:"server"`
	Catalog   Catalog        `toml:"catalog"`
}

// Canvas configures geometry and push resolution.
type Canvas struct {
	Width    int `toml:"width"`
	Padding  int `toml:"padding"`
	PushGap  int `toml:"push_gap"`
	MaxDepth int `toml:"max_depth"`
}

// Server configures the HTTP layout endpoint.
type Server struct {
	Addr            string        `toml:"addr"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// Catalog points at an optional YAML widget catalog.
type Catalog struct {
	Path string `toml:"path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Workspace: DefaultWorkspace,
		Canvas: Canvas{
			Width:    geom.DefaultWidth,
			Padding:  geom.DefaultPadding,
			PushGap:  push.DefaultGap,
			MaxDepth: push.DefaultMaxDepth,
		},
		Storage: storage.Config{Backend: storage.BackendFile},
		Server:  Server{Addr: DefaultAddr, ShutdownTimeout: DefaultShutdownTimeout},
	}
}

// Path returns the default config file location,
// $XDG_CONFIG_HOME/freeboard/config.toml or ~/.config/freeboard/config.toml.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	return cfg, cfg.Validate()
}

// Write stores cfg at path, creating parent directories.
func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}

// Validate rejects settings the engine cannot work with.
func (c Config) Validate() error {
	if err := errors.ValidateWorkspaceID(c.Workspace); err != nil {
		return err
	}
	cv := c.Canvas
	if cv.Padding < 0 || cv.PushGap < 0 || cv.MaxDepth < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas padding, push_gap and max_depth must be positive")
	}
	if cv.Width < 2*cv.Padding+200 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas width %d is too small for padding %d", cv.Width, cv.Padding)
	}
	return nil
}

// Geometry returns the configured canvas.
func (c Config) Geometry() geom.Canvas {
	return geom.Canvas{Width: c.Canvas.Width, Padding: c.Canvas.Padding}
}

// Resolver returns a push resolver for the configured canvas.
func (c Config) Resolver() *push.Resolver {
	return &push.Resolver{Canvas: c.Geometry(), Gap: c.Canvas.PushGap, MaxDepth: c.Canvas.MaxDepth}
}
