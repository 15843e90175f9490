package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/ringods/projen-pulumi/pkg/console"
	"github.com/ringods/projen-pulumi/pkg/constants"
	"github.com/ringods/projen-pulumi/pkg/logger"
	"github.com/ringods/projen-pulumi/pkg/parser"
	"github.com/ringods/projen-pulumi/pkg/scaffold"
	"github.com/ringods/projen-pulumi/pkg/workflow"
	"github.com/spf13/cobra"
)

var initLog = logger.New("cli:init_command")

// InitOptions holds the options of an init run.
type InitOptions struct {
	Global      GlobalOptions
	Format      string
	Interactive bool
}

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a projen-pulumi config file in the current directory",
		Long: `Create a config file holding the runtime, test stack and work directory of the
Pulumi project. Values come from the --runtime, --test-stack and --work-dir flags,
or from prompts with --interactive. Unset values take their defaults.

Examples:
  ` + constants.CLIName + ` init                              # Write .projen-pulumi.yaml with defaults
  ` + constants.CLIName + ` init --runtime python             # Configure a Python project
  ` + constants.CLIName + ` init --format toml                # Write .projen-pulumi.toml
  ` + constants.CLIName + ` init --interactive                # Answer prompts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			interactive, _ := cmd.Flags().GetBool("interactive")
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			path, err := RunInit(dir, InitOptions{
				Global:      globalOptionsFromFlags(cmd),
				Format:      format,
				Interactive: interactive,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, console.FormatSuccessMessage("Created "+console.ToRelativePath(path)))
			fmt.Fprintln(os.Stderr, console.FormatInfoMessage("Next, generate the workflow:"))
			fmt.Fprintln(os.Stderr, console.FormatCommandMessage(constants.CLIName+" synth"))
			return nil
		},
	}

	cmd.Flags().String("format", string(parser.FormatYAML), "Config file format: yaml or toml")
	cmd.Flags().BoolP("interactive", "i", false, "Prompt for the config values")

	return cmd
}

// RunInit writes a config file for the project in dir and returns its path.
func RunInit(dir string, opts InitOptions) (string, error) {
	format, err := parseConfigFormat(opts.Format)
	if err != nil {
		return "", err
	}

	cfg := applyFlagOverrides(workflow.WorkflowConfig{}, opts.Global).WithDefaults()
	if opts.Interactive {
		if !console.IsStdinTerminal() || IsRunningInCI() {
			return "", errors.New("interactive mode requires a terminal, pass the values as flags instead")
		}
		if cfg, err = promptForConfig(cfg); err != nil {
			return "", err
		}
	}

	if _, err := cfg.Validate(); err != nil {
		return "", err
	}
	if err := ValidateWorkDir(cfg.WorkDir); err != nil {
		return "", err
	}

	initLog.Printf("Writing %s config: runtime=%s, testStack=%s, workDir=%s", format, cfg.Runtime, cfg.TestStack, cfg.WorkDir)
	path, err := scaffold.NewProject(dir).Init(cfg, format)
	if errors.Is(err, scaffold.ErrConfigExists) {
		return path, fmt.Errorf("%w: edit or remove %s first", scaffold.ErrConfigExists, console.ToRelativePath(path))
	}
	return path, err
}

func parseConfigFormat(s string) (parser.ConfigFormat, error) {
	switch parser.ConfigFormat(s) {
	case "", parser.FormatYAML:
		return parser.FormatYAML, nil
	case parser.FormatTOML:
		return parser.FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported config format '%s', use yaml or toml", s)
	}
}

// promptForConfig asks for the runtime, test stack and work directory,
// starting from the values in cfg.
func promptForConfig(cfg workflow.WorkflowConfig) (workflow.WorkflowConfig, error) {
	runtime := string(cfg.Runtime)
	testStack := cfg.TestStack
	workDir := cfg.WorkDir

	runtimes := make([]string, 0, len(workflow.KnownRuntimes))
	for _, r := range workflow.KnownRuntimes {
		runtimes = append(runtimes, string(r))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which runtime does the Pulumi program use?").
				Options(huh.NewOptions(runtimes...)...).
				Value(&runtime),
			huh.NewInput().
				Title("Test stack:").
				Description("The test job runs against this stack. It is never deployed.").
				Value(&testStack).
				Validate(ValidateStackName),
			huh.NewInput().
				Title("Pulumi project directory:").
				Description("Relative to the repository root, for example: infra").
				Value(&workDir).
				Validate(ValidateWorkDir),
		),
	).WithAccessible(console.IsAccessibleMode())

	if err := form.Run(); err != nil {
		return cfg, fmt.Errorf("failed to read config values: %w", err)
	}

	cfg.Runtime = workflow.ParseRuntimeKind(runtime)
	cfg.TestStack = testStack
	cfg.WorkDir = workDir
	return cfg, nil
}
