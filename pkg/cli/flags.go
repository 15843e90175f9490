package cli

import (
	"github.com/spf13/cobra"
)

// GlobalOptions are the flags every command accepts. Empty values leave the
// config file and environment settings in place.
type GlobalOptions struct {
	ConfigPath string
	Runtime    string
	TestStack  string
	WorkDir    string
	Verbose    bool
}

// AddGlobalFlags registers the shared flags as persistent flags of root.
func AddGlobalFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "Path to the config file (default: .projen-pulumi.yaml or .projen-pulumi.toml)")
	flags.String("runtime", "", "Pulumi runtime: nodejs, python, go, dotnet, java or yaml")
	flags.String("test-stack", "", "Stack used for tests and excluded from deployment")
	flags.String("work-dir", "", "Directory of the Pulumi project, relative to the repository root")
	flags.BoolP("verbose", "v", false, "Enable verbose output")
	_ = root.RegisterFlagCompletionFunc("runtime", completeRuntimes)
}

// globalOptionsFromFlags reads the shared flags from cmd. Missing flags
// read as empty values.
func globalOptionsFromFlags(cmd *cobra.Command) GlobalOptions {
	configPath, _ := cmd.Flags().GetString("config")
	runtime, _ := cmd.Flags().GetString("runtime")
	testStack, _ := cmd.Flags().GetString("test-stack")
	workDir, _ := cmd.Flags().GetString("work-dir")
	verbose, _ := cmd.Flags().GetBool("verbose")
	return GlobalOptions{
		ConfigPath: configPath,
		Runtime:    runtime,
		TestStack:  testStack,
		WorkDir:    workDir,
		Verbose:    verbose,
	}
}

func addJSONFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false, "Output results in JSON format")
}
