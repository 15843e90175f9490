package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ringods/projen-pulumi/pkg/console"
	"github.com/ringods/projen-pulumi/pkg/constants"
	"github.com/ringods/projen-pulumi/pkg/logger"
	"github.com/spf13/cobra"
)

var lintLog = logger.New("cli:lint_command")

// NewLintCommand creates the lint command
func NewLintCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint [workflow-file]...",
		Short: "Check the generated workflow with actionlint",
		Long: `Run actionlint on workflow files. Without arguments the workflow generated by
synth is checked.

Every issue links to the documentation of the actionlint check that reported it.
The command fails when any issue is found.

Examples:
  ` + constants.CLIName + ` lint                                   # Lint the generated workflow
  ` + constants.CLIName + ` lint .github/workflows/*.yml           # Lint several workflows`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			return RunLint(dir, args, globalOptionsFromFlags(cmd))
		},
	}

	return cmd
}

// RunLint lints files, or the configured workflow of the project in dir
// when files is empty.
func RunLint(dir string, files []string, opts GlobalOptions) error {
	if len(files) == 0 {
		cfg, _, err := loadProjectConfig(dir, opts)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, cfg.WorkflowPath())
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("workflow %s does not exist, run '%s synth' first", cfg.WorkflowPath(), constants.CLIName)
			}
			return err
		}
		files = []string{path}
	}
	lintLog.Printf("Linting %d files", len(files))

	results := lintWorkflowFiles(files, runtime.NumCPU())
	var failed []string
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(r.Err.Error()))
			failed = append(failed, r.File)
			continue
		}
		console.LogVerbose(opts.Verbose, fmt.Sprintf("Checked %s", console.ToRelativePath(r.File)))
		for _, e := range r.Errors {
			fmt.Fprintln(os.Stderr, formatActionlintError(e))
		}
	}

	stats := collectActionlintStats(results)
	displayActionlintSummary(os.Stderr, stats)

	if len(failed) > 0 {
		return fmt.Errorf("could not lint %d file(s)", len(failed))
	}
	if stats.TotalErrors > 0 {
		return fmt.Errorf("actionlint found %d issue(s)", stats.TotalErrors)
	}
	return nil
}
