// Package cli implements the freeboard command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/freeboard/pkg/buildinfo"
	"github.com/matzehuels/freeboard/pkg/config"
	"github.com/matzehuels/freeboard/pkg/layout"
	"github.com/matzehuels/freeboard/pkg/observability"
	"github.com/matzehuels/freeboard/pkg/storage"
	"github.com/matzehuels/freeboard/pkg/widget"
	"github.com/matzehuels/freeboard/pkg/widget/builtin"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "freeboard"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	workspace  string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the observability
// hooks log gestures, loads, saves and remote requests.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetGestureHooks(hooks)
		observability.SetStoreHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Freeboard arranges widgets on a freeform canvas",
		Long:         `Freeboard is a freeform widget board. Widgets are placed at pixel coordinates, pushed out of the way while dragging or resizing, and their layout is persisted per workspace.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/freeboard/config.toml)")
	root.PersistentFlags().StringVarP(&c.workspace, "workspace", "w", "", "workspace id (overrides config)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.boardCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.widgetCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Environment
// =============================================================================

// env is everything a command needs to work on one workspace.
type env struct {
	cfg      config.Config
	repo     storage.Repository
	registry *widget.Registry
	store    *layout.Store
}

// close waits for pending layout writes and releases the repository.
func (e *env) close() {
	e.store.Flush()
	e.repo.Close()
}

// loadConfig reads the config file named by --config, or the default one,
// and applies --workspace.
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.configPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return config.Default(), nil
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if c.workspace != "" {
		cfg.Workspace = c.workspace
		if err := cfg.Validate(); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// newRegistry returns the builtin widgets plus the configured catalog.
func (c *CLI) newRegistry(cfg config.Config) (*widget.Registry, error) {
	reg := widget.NewRegistry()
	if err := builtin.Register(reg); err != nil {
		return nil, err
	}
	if cfg.Catalog.Path == "" {
		return reg, nil
	}
	cat, err := widget.LoadCatalog(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	if err := reg.RegisterCatalog(cat); err != nil {
		return nil, err
	}
	c.Logger.Debug("catalog loaded", "path", cfg.Catalog.Path, "widgets", len(cat.Widgets))
	return reg, nil
}

// openEnv opens storage and loads the configured workspace. Callers must
// close the returned env.
func (c *CLI) openEnv(ctx context.Context) (*env, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	reg, err := c.newRegistry(cfg)
	if err != nil {
		return nil, err
	}
	repo, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	store := layout.NewStore(repo, layout.Options{Canvas: cfg.Geometry(), Logger: c.Logger})
	store.Load(ctx, cfg.Workspace)
	return &env{cfg: cfg, repo: repo, registry: reg, store: store}, nil
}
