package cli

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/freeboard/pkg/config"
	"github.com/matzehuels/freeboard/pkg/errors"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())

	return cmd
}

// configFile returns the --config path or the default location.
func (c *CLI) configFile() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.Path()
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configFile()
			if err != nil {
				return err
			}
			printFile(path)
			return nil
		},
	}
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configFile()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
			}
			if err := config.Write(path, config.Default()); err != nil {
				return err
			}
			printSuccess("Wrote default configuration")
			printFile(path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			printKeyValue("Workspace", cfg.Workspace)
			printKeyValue("Canvas", strconv.Itoa(cfg.Canvas.Width)+" wide, padding "+strconv.Itoa(cfg.Canvas.Padding))
			printKeyValue("Push", "gap "+strconv.Itoa(cfg.Canvas.PushGap)+", depth "+strconv.Itoa(cfg.Canvas.MaxDepth))
			printKeyValue("Backend", cfg.Storage.Backend)
			if cfg.Storage.Path != "" {
				printKeyValue("Path", cfg.Storage.Path)
			}
			if cfg.Storage.URL != "" {
				printKeyValue("URL", cfg.Storage.URL)
			}
			printKeyValue("Server", cfg.Server.Addr)
			if cfg.Catalog.Path != "" {
				printKeyValue("Catalog", cfg.Catalog.Path)
			}
			return nil
		},
	}
}
