package main

import (
	"fmt"
	"os"

	"github.com/ringods/projen-pulumi/pkg/cli"
	"github.com/ringods/projen-pulumi/pkg/constants"
	"github.com/spf13/cobra"
)

// Set by the build via -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   constants.CLIName,
	Short: "Generate GitHub Actions workflows that test and deploy Pulumi stacks",
	Long: `Generate a GitHub Actions workflow for a Pulumi project.

The workflow discovers the stacks of the project, runs a test job against the
test stack and deploys every other stack in parallel through a matrix. Runtime
setup and dependency installation follow the configured Pulumi runtime.

Configuration is read from .projen-pulumi.yaml or .projen-pulumi.toml, then from
PROJEN_PULUMI_* environment variables, then from command line flags.

Common tasks:
  ` + constants.CLIName + ` init          # Create a config file
  ` + constants.CLIName + ` synth         # Generate the workflow
  ` + constants.CLIName + ` discover      # Show the stacks the workflow deploys
  ` + constants.CLIName + ` lint          # Check the workflow with actionlint`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var (
	initCmd       = cli.NewInitCommand()
	synthCmd      = cli.NewSynthCommand()
	discoverCmd   = cli.NewDiscoverCommand()
	lintCmd       = cli.NewLintCommand()
	completionCmd = cli.NewCompletionCommand()
	versionCmd    = cli.NewVersionCommand()
)

func init() {
	cli.AddGlobalFlags(rootCmd)
	rootCmd.AddCommand(initCmd, synthCmd, discoverCmd, lintCmd, completionCmd, versionCmd)
}

func main() {
	cli.SetVersionInfo(version)
	rootCmd.Version = cli.GetVersion()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatCommandError(err))
		os.Exit(1)
	}
}
