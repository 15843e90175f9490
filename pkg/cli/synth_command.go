package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ringods/projen-pulumi/pkg/console"
	"github.com/ringods/projen-pulumi/pkg/constants"
	"github.com/ringods/projen-pulumi/pkg/gitutil"
	"github.com/ringods/projen-pulumi/pkg/logger"
	"github.com/ringods/projen-pulumi/pkg/scaffold"
	"github.com/ringods/projen-pulumi/pkg/workflow"
	"github.com/spf13/cobra"
)

var synthLog = logger.New("cli:synth_command")

// SynthConfig holds the options of a synth run.
type SynthConfig struct {
	Dir        string
	Global     GlobalOptions
	DryRun     bool
	PinActions bool
	Watch      bool
	// Resolver overrides the GitHub backed resolver used by PinActions.
	Resolver *workflow.ActionResolver
}

// NewSynthCommand creates the synth command
func NewSynthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Generate the Pulumi deployment workflow and project scaffolding",
		Long: `Generate the GitHub Actions workflow that tests and deploys the Pulumi stacks of this project.

The workflow has three jobs: discover lists the stacks of the project, test runs
against the test stack and deploy runs 'pulumi up' for every other stack. The
.gitignore, .gitattributes and justfile are updated alongside the workflow.

Examples:
  ` + constants.CLIName + ` synth                        # Write the workflow and scaffolding
  ` + constants.CLIName + ` synth --dry-run              # Print the workflow without writing files
  ` + constants.CLIName + ` synth --pin-actions          # Pin actions to commit SHAs
  ` + constants.CLIName + ` synth --watch                # Regenerate when the config file changes
  ` + constants.CLIName + ` synth --runtime python       # Override the configured runtime`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			pin, _ := cmd.Flags().GetBool("pin-actions")
			watch, _ := cmd.Flags().GetBool("watch")
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			return RunSynth(cmd.Context(), SynthConfig{
				Dir:        dir,
				Global:     globalOptionsFromFlags(cmd),
				DryRun:     dryRun,
				PinActions: pin,
				Watch:      watch,
			}, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Bool("dry-run", false, "Print the generated workflow to stdout instead of writing files")
	cmd.Flags().Bool("pin-actions", false, "Pin every action to the commit SHA of its version tag")
	cmd.Flags().BoolP("watch", "w", false, "Regenerate whenever the config file changes")
	cmd.MarkFlagsMutuallyExclusive("dry-run", "watch")

	return cmd
}

// RunSynth generates the workflow once, or keeps regenerating it in watch
// mode until ctx is cancelled or the process is interrupted.
func RunSynth(ctx context.Context, config SynthConfig, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	synthLog.Printf("Running synth: dir=%s, dryRun=%v, pin=%v, watch=%v", config.Dir, config.DryRun, config.PinActions, config.Watch)

	if !config.Watch {
		return synthOnce(ctx, config, out)
	}
	if IsRunningInCI() {
		return errors.New("watch mode is not available in CI environments")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(os.Stderr, console.FormatInfoMessage("Watching for config changes. Press Ctrl+C to stop."))
	paths, err := watchedConfigPaths(config.Dir, config.Global.ConfigPath)
	if err != nil {
		return err
	}
	return watchAndSynth(ctx, paths, defaultWatchDebounce, func() error {
		if err := synthOnce(ctx, config, out); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		}
		return nil
	})
}

func synthOnce(ctx context.Context, config SynthConfig, out io.Writer) error {
	cfg, _, err := loadProjectConfig(config.Dir, config.Global)
	if err != nil {
		return err
	}

	opts := scaffold.SynthOptions{
		DryRun:  config.DryRun,
		Verbose: config.Global.Verbose,
	}
	if config.PinActions {
		resolver := config.Resolver
		if resolver == nil {
			cache := workflow.NewActionCache(gitutil.FindGitRoot(config.Dir))
			if err := cache.Load(); err != nil {
				return fmt.Errorf("failed to load action lock file: %w", err)
			}
			resolver = workflow.NewActionResolver(cache, nil)
		}
		opts.Resolver = resolver
	}

	start := time.Now()
	result, err := scaffold.NewProject(config.Dir).Synth(ctx, cfg, opts)
	if err != nil {
		return err
	}
	synthLog.Printf("Synth finished in %s", time.Since(start))

	if config.DryRun {
		change, _ := result.Change(cfg.WorkflowPath())
		fmt.Fprint(out, change.Content)
		return nil
	}

	reportChanges(result.Changes, config.Global.Verbose)
	return nil
}

// reportChanges prints one line per file Synth touched.
func reportChanges(changes []scaffold.FileChange, verbose bool) {
	written := 0
	for _, c := range changes {
		switch c.Status {
		case scaffold.StatusCreated:
			written++
			fmt.Fprintln(os.Stderr, console.FormatSuccessMessage("Created "+c.Path))
		case scaffold.StatusUpdated:
			written++
			fmt.Fprintln(os.Stderr, console.FormatSuccessMessage("Updated "+c.Path))
		case scaffold.StatusSkipped:
			fmt.Fprintln(os.Stderr, console.FormatWarningMessage(fmt.Sprintf("Skipped %s: %s", c.Path, c.Reason)))
		case scaffold.StatusUnchanged:
			console.LogVerbose(verbose, "Unchanged "+c.Path)
		}
	}
	if written == 0 {
		fmt.Fprintln(os.Stderr, console.FormatInfoMessage("Everything is up to date"))
	}
}

// watchedConfigPaths lists the absolute paths of the config files whose
// changes trigger a rerun. An explicit path is resolved the same way it is
// loaded, against the working directory.
func watchedConfigPaths(dir, explicitPath string) ([]string, error) {
	if explicitPath != "" {
		abs, err := filepath.Abs(explicitPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path %s: %w", explicitPath, err)
		}
		return []string{abs}, nil
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory %s: %w", dir, err)
	}
	paths := make([]string, 0, len(constants.ConfigFileNames))
	for _, name := range constants.ConfigFileNames {
		paths = append(paths, filepath.Join(absDir, name))
	}
	return paths, nil
}
