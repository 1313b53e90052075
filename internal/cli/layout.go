package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/freeboard/pkg/layout"
)

// layoutCommand creates the layout command for inspecting and moving
// workspace layouts in and out of storage.
func (c *CLI) layoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect, import and export workspace layouts",
	}

	cmd.AddCommand(c.layoutShowCommand())
	cmd.AddCommand(c.layoutExportCommand())
	cmd.AddCommand(c.layoutImportCommand())
	cmd.AddCommand(c.layoutMigrateCommand())

	return cmd
}

// layoutShowCommand creates the "layout show" subcommand.
func (c *CLI) layoutShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the widgets of the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			l := e.store.Layout()
			printKeyValue("Workspace", l.WorkspaceID)
			printKeyValue("Backend", e.cfg.Storage.Backend)
			printKeyValue("Widgets", strconv.Itoa(len(l.Widgets)))
			if len(l.Widgets) == 0 {
				printNextStep("Add one with", appName+" widget add note")
				return nil
			}
			printTable([]string{"Instance", "Widget", "X", "Y", "Size"}, widgetRows(l))
			return nil
		},
	}
}

// layoutExportCommand creates the "layout export" subcommand.
func (c *CLI) layoutExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the workspace layout as JSON (stdout without a file)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			l := e.store.Layout()
			if len(args) == 0 {
				return layout.WriteJSON(l, stdout)
			}
			if err := layout.ExportJSON(l, args[0]); err != nil {
				return err
			}
			printSuccess("Exported %d widgets", len(l.Widgets))
			printFile(args[0])
			return nil
		},
	}
}

// layoutImportCommand creates the "layout import" subcommand.
func (c *CLI) layoutImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the workspace layout with a JSON file",
		Long: `Replace the workspace layout with a JSON file.

Legacy slot-index layouts are migrated to freeform coordinates first. The
result must be a valid layout: no overlaps and every widget on the canvas.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			l, err := layout.ImportJSON(args[0], e.cfg.Workspace, e.store.Canvas())
			if err != nil {
				return err
			}
			if err := e.store.Replace(cmd.Context(), l); err != nil {
				return err
			}
			printSuccess("Imported %d widgets into %s", len(l.Widgets), l.WorkspaceID)
			return nil
		},
	}
}

// layoutMigrateCommand creates the "layout migrate" subcommand. It converts a
// file offline and never touches storage.
func (c *CLI) layoutMigrateCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "migrate <legacy.json>",
		Short: "Convert a legacy slot-index layout file to freeform coordinates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			prog := newProgress(c.Logger)
			l, migrated, err := layout.Parse(data, "", cfg.Geometry())
			if err != nil {
				return err
			}
			if !migrated {
				printWarning("%s is already a freeform layout", args[0])
			} else {
				prog.done(fmt.Sprintf("Migrated %d widgets", len(l.Widgets)))
			}

			if output == "" {
				return layout.WriteJSON(l, stdout)
			}
			if err := layout.ExportJSON(l, output); err != nil {
				return err
			}
			printFile(output)
			printNextStep("Load it with", appName+" layout import "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func widgetRows(l *layout.Layout) [][]string {
	rows := make([][]string, 0, len(l.Widgets))
	for _, w := range l.Widgets {
		rows = append(rows, []string{
			w.InstanceID,
			w.WidgetID,
			strconv.Itoa(w.X),
			strconv.Itoa(w.Y),
			fmt.Sprintf("%dx%d", w.Width, w.Height),
		})
	}
	return rows
}
