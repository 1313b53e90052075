package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/freeboard/internal/server"
	"github.com/matzehuels/freeboard/pkg/storage"
)

// serveCommand creates the serve command, which exposes layouts over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve workspace layouts over HTTP",
		Long: `Serve the layout API. Every workspace is loaded on first use and
edited through the same push resolution as the interactive board.

  GET    /api/widgets
  GET    /api/workspaces/{workspace}/layout
  POST   /api/workspaces/{workspace}/layout
  POST   /api/workspaces/{workspace}/widgets
  DELETE /api/workspaces/{workspace}/widgets/{instance}
  PATCH  /api/workspaces/{workspace}/widgets/{instance}/settings
  POST   /api/workspaces/{workspace}/widgets/{instance}/move
  POST   /api/workspaces/{workspace}/widgets/{instance}/resize`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			reg, err := c.newRegistry(cfg)
			if err != nil {
				return err
			}
			repo, err := storage.Open(cmd.Context(), cfg.Storage)
			if err != nil {
				return err
			}
			defer repo.Close()

			if addr == "" {
				addr = cfg.Server.Addr
			}
			srv := server.New(server.Options{
				Port:     repo,
				Registry: reg,
				Resolver: cfg.Resolver(),
				Logger:   c.Logger,
			})
			c.Logger.Info("serving layouts", "addr", addr, "backend", cfg.Storage.Backend, "widgets", reg.Len())
			return srv.Run(cmd.Context(), addr, cfg.Server.ShutdownTimeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
