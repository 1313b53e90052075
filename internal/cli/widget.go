package cli

import (
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/freeboard/pkg/errors"
	"github.com/matzehuels/freeboard/pkg/geom"
	"github.com/matzehuels/freeboard/pkg/interact"
	"github.com/matzehuels/freeboard/pkg/widget"
)

// widgetCommand creates the widget command for editing the workspace from
// the shell.
func (c *CLI) widgetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "widget",
		Short: "List widget types and edit workspace widgets",
	}

	cmd.AddCommand(c.widgetListCommand())
	cmd.AddCommand(c.widgetAddCommand())
	cmd.AddCommand(c.widgetRemoveCommand())
	cmd.AddCommand(c.widgetMoveCommand())
	cmd.AddCommand(c.widgetResizeCommand())
	cmd.AddCommand(c.widgetActivateCommand())

	return cmd
}

// widgetListCommand creates the "widget list" subcommand.
func (c *CLI) widgetListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered widget types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			reg, err := c.newRegistry(cfg)
			if err != nil {
				return err
			}

			var rows [][]string
			for _, d := range reg.Descriptors() {
				sizes := make([]string, len(d.Sizes))
				for i, s := range d.Sizes {
					sizes[i] = string(s)
				}
				rows = append(rows, []string{d.ID, d.Name, string(d.DefaultSize), strings.Join(sizes, ", ")})
			}
			printTable([]string{"ID", "Name", "Default", "Sizes"}, rows)
			return nil
		},
	}
}

// widgetAddCommand creates the "widget add" subcommand.
func (c *CLI) widgetAddCommand() *cobra.Command {
	var (
		size     string
		x, y     int
		settings map[string]string
	)

	cmd := &cobra.Command{
		Use:   "add <widget-id>",
		Short: "Add a widget instance to the workspace",
		Long: `Add a widget instance to the workspace.

Without --x and --y the widget goes to the first free spot, scanning
row-major from the top-left corner of the canvas.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			inst, err := e.registry.CreateInstance(args[0])
			if err != nil {
				return err
			}
			if size != "" {
				sc, err := widget.ParseSizeClass(size)
				if err != nil {
					return err
				}
				inst.Width, inst.Height = sc.Dimensions()
			}
			if cmd.Flags().Changed("x") || cmd.Flags().Changed("y") {
				inst.X, inst.Y = x, y
			}
			for k, v := range settings {
				inst.Settings[k] = settingValue(v)
			}

			placed, err := e.store.AddInstance(cmd.Context(), inst)
			if err != nil {
				return err
			}
			printSuccess("Added %s as %s", placed.WidgetID, StyleHighlight.Render(placed.InstanceID))
			printDetail("%s", placed.Rect())
			return nil
		},
	}

	cmd.Flags().StringVarP(&size, "size", "s", "", "size class: small, medium, large")
	cmd.RegisterFlagCompletionFunc("size", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{string(widget.SizeSmall), string(widget.SizeMedium), string(widget.SizeLarge)}, cobra.ShellCompDirectiveNoFileComp
	})
	cmd.Flags().IntVar(&x, "x", 0, "left edge")
	cmd.Flags().IntVar(&y, "y", 0, "top edge")
	cmd.Flags().StringToStringVar(&settings, "set", nil, "initial setting, key=value (repeatable)")
	return cmd
}

// widgetRemoveCommand creates the "widget remove" subcommand.
func (c *CLI) widgetRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <instance-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a widget instance",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.store.RemoveInstance(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Removed %s", args[0])
			return nil
		},
	}
}

// widgetMoveCommand creates the "widget move" subcommand.
func (c *CLI) widgetMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <instance-id> <x> <y>",
		Short: "Move a widget, pushing neighbours out of the way",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			nums, err := intArgs(args[1:])
			if err != nil {
				return err
			}
			return c.runGesture(cmd, args[0], func(coord *interact.Coordinator) (interact.Outcome, interact.Preview, error) {
				return coord.Drag(cmd.Context(), args[0], geom.Point{X: nums[0], Y: nums[1]})
			})
		},
	}
}

// widgetResizeCommand creates the "widget resize" subcommand.
func (c *CLI) widgetResizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resize <instance-id> <width> <height>",
		Short: "Resize a widget, pushing neighbours out of the way",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			nums, err := intArgs(args[1:])
			if err != nil {
				return err
			}
			return c.runGesture(cmd, args[0], func(coord *interact.Coordinator) (interact.Outcome, interact.Preview, error) {
				return coord.Resize(cmd.Context(), args[0], nums[0], nums[1])
			})
		},
	}
}

// widgetActivateCommand creates the "widget activate" subcommand, which runs
// the primary action of a widget such as incrementing a counter.
func (c *CLI) widgetActivateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "activate <instance-id>",
		Short: "Run the primary action of a widget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			views := interact.NewViews(e.registry, e.store, nil, c.Logger)
			defer views.Close()
			views.Sync(cmd.Context())
			if err := views.Activate(args[0]); err != nil {
				return err
			}
			out, _ := views.Render(args[0])
			printSuccess("Activated %s", args[0])
			for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
				printDetail("%s", line)
			}
			return nil
		},
	}
}

// runGesture opens the workspace, runs one gesture through a coordinator and
// reports which widgets moved.
func (c *CLI) runGesture(cmd *cobra.Command, id string, gesture func(*interact.Coordinator) (interact.Outcome, interact.Preview, error)) error {
	e, err := c.openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()

	coord := interact.NewCoordinator(e.store, e.cfg.Resolver(), nil, c.Logger)
	out, pv, err := gesture(coord)
	if err != nil {
		return err
	}
	if out != interact.Committed {
		if pv.Blocked {
			return errors.New(errors.ErrCodeInvalidGeometry, "no room for %s at %s; layout unchanged", id, pv.Rect)
		}
		printInfo("%s did not change", id)
		return nil
	}

	printSuccess("%s %s", id, pv.Rect)
	pushed := make([]string, 0, len(pv.Pushed))
	for pid := range pv.Pushed {
		pushed = append(pushed, pid)
	}
	sort.Strings(pushed)
	for _, pid := range pushed {
		printDetail("pushed %s to %s", pid, pv.Pushed[pid])
	}
	return nil
}

func intArgs(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%q is not an integer", a)
		}
		out[i] = n
	}
	return out, nil
}

// settingValue interprets a --set value as an int or bool when it parses as
// one, and as a string otherwise.
func settingValue(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
