package cli

import "github.com/spf13/cobra"

// completionCommand creates the completion command. Scripts go to the same
// writer as the rest of the command output.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for freeboard.

Completions cover every subcommand and flag, so "freeboard widget <TAB>"
offers add, move, resize and the rest, and "freeboard widget add --size"
offers small, medium and large.

  bash        source <(freeboard completion bash)
  zsh         freeboard completion zsh > "${fpath[1]}/_freeboard"
  fish        freeboard completion fish > ~/.config/fish/completions/freeboard.fish
  powershell  freeboard completion powershell | Out-String | Invoke-Expression

Start a new shell after installing the script.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(stdout, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(stdout)
			}
			return nil
		},
	}

	return cmd
}
