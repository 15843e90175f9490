package cli

import (
	"fmt"

	"github.com/ringods/projen-pulumi/pkg/constants"
	"github.com/ringods/projen-pulumi/pkg/logger"
	"github.com/ringods/projen-pulumi/pkg/workflow"
	"github.com/spf13/cobra"
)

var completionLog = logger.New("cli:completion")

// NewCompletionCommand creates the completion command
func NewCompletionCommand() *cobra.Command {
	name := constants.CLIName
	cmd := &cobra.Command{
		Use:   "completion [shell]",
		Short: "Generate shell completion scripts for " + name + " commands",
		Long: `Generate shell completion scripts to enable tab completion for ` + name + ` commands
and for the values of the --runtime flag.

Supported shells: bash, zsh, fish, powershell

Examples:
  # Generate completion script for bash
  ` + name + ` completion bash > ~/.bash_completion.d/` + name + `

  # Generate completion script for zsh
  ` + name + ` completion zsh > "${fpath[1]}/_` + name + `"

  # Generate completion script for fish
  ` + name + ` completion fish > ~/.config/fish/completions/` + name + `.fish

  # Generate completion script for PowerShell
  ` + name + ` completion powershell | Out-String | Invoke-Expression`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := args[0]
			completionLog.Printf("Generating %s completion script", shell)

			out := cmd.OutOrStdout()
			switch shell {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletion(out)
			default:
				return fmt.Errorf("unsupported shell: %s", shell)
			}
		},
	}

	return cmd
}

// completeRuntimes offers the known runtimes for the --runtime flag.
func completeRuntimes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, 0, len(workflow.KnownRuntimes))
	for _, r := range workflow.KnownRuntimes {
		names = append(names, string(r))
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
