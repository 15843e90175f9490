package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ringods/projen-pulumi/pkg/console"
	"github.com/ringods/projen-pulumi/pkg/constants"
	"github.com/ringods/projen-pulumi/pkg/envutil"
	"github.com/ringods/projen-pulumi/pkg/logger"
	"github.com/ringods/projen-pulumi/pkg/stacks"
	"github.com/spf13/cobra"
)

var discoverLog = logger.New("cli:discover_command")

const (
	defaultDiscoverTimeout = 60 * time.Second
	minDiscoverTimeout     = 5 * time.Second
	maxDiscoverTimeout     = 10 * time.Minute
)

// NewDiscoverCommand creates the discover command
func NewDiscoverCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List the Pulumi stacks the deploy job would run for",
		Long: `List the stacks of the Pulumi project and show which of them the generated
workflow deploys. The test stack is excluded from deployment.

With --json the command prints the same JSON array the discover job publishes
as its 'stacks' output.

The Pulumi CLI must be installed and logged in. The lookup times out after
` + constants.EnvDiscoverTimeout + ` seconds (default 60).

Examples:
  ` + constants.CLIName + ` discover                     # Show stacks as a table
  ` + constants.CLIName + ` discover --json              # Print the deploy matrix
  ` + constants.CLIName + ` discover --test-stack ci     # Use a different test stack`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOutput, _ := cmd.Flags().GetBool("json")
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			return RunDiscover(cmd.Context(), dir, globalOptionsFromFlags(cmd), jsonOutput, cmd.OutOrStdout())
		},
	}

	addJSONFlag(cmd)

	return cmd
}

// RunDiscover lists the stacks of the project in dir through the Pulumi
// workspace of its work directory.
func RunDiscover(ctx context.Context, dir string, opts GlobalOptions, jsonOutput bool, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, _, err := loadProjectConfig(dir, opts)
	if err != nil {
		return err
	}

	timeout := envutil.GetSecondsFromEnv(constants.EnvDiscoverTimeout, defaultDiscoverTimeout, minDiscoverTimeout, maxDiscoverTimeout, discoverLog)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	lister := stacks.WorkspaceLister{WorkDir: filepath.Join(dir, cfg.WorkDir)}
	console.LogVerbose(opts.Verbose, fmt.Sprintf("Listing stacks in %s (timeout %s)", lister.WorkDir, timeout))
	return discoverWith(ctx, lister, cfg.TestStack, jsonOutput, out)
}

func discoverWith(ctx context.Context, lister stacks.Lister, testStack string, jsonOutput bool, out io.Writer) error {
	result, err := stacks.Discover(ctx, lister, testStack)
	if err != nil {
		return fmt.Errorf("failed to discover stacks: %w", err)
	}
	discoverLog.Printf("Discovered %d stacks, %d to deploy", len(result.All), len(result.Deploy))

	if jsonOutput {
		fmt.Fprintln(out, result.Output())
		return nil
	}

	if len(result.All) == 0 {
		fmt.Fprintln(os.Stderr, console.FormatInfoMessage("No stacks found. The deploy job will be skipped."))
		return nil
	}

	rows := make([][]string, 0, len(result.All))
	for _, name := range result.All {
		role := "deploy"
		if name == result.TestStack {
			role = "test"
		}
		rows = append(rows, []string{name, role})
	}
	fmt.Fprintln(out, console.RenderTable(console.TableConfig{
		Headers: []string{"Stack", "Job"},
		Rows:    rows,
	}))

	if !result.TestStackFound {
		fmt.Fprintln(os.Stderr, console.FormatWarningMessage(fmt.Sprintf("Test stack '%s' does not exist; every stack will be deployed", result.TestStack)))
	}
	if len(result.Deploy) == 0 {
		fmt.Fprintln(os.Stderr, console.FormatInfoMessage("Only the test stack exists. The deploy job will be skipped."))
	}
	return nil
}
