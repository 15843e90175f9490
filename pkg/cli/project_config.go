package cli

import (
	"fmt"
	"os"

	"github.com/ringods/projen-pulumi/pkg/console"
	"github.com/ringods/projen-pulumi/pkg/logger"
	"github.com/ringods/projen-pulumi/pkg/workflow"
)

var projectConfigLog = logger.New("cli:project_config")

// loadProjectConfig resolves the config for the project in dir. Flags take
// precedence over the environment, which takes precedence over the config
// file. Validation warnings are printed to stderr.
func loadProjectConfig(dir string, opts GlobalOptions) (workflow.WorkflowConfig, string, error) {
	cfg, path, err := workflow.LoadProjectConfig(dir, opts.ConfigPath)
	if err != nil {
		return workflow.WorkflowConfig{}, path, err
	}
	if path != "" {
		console.LogVerbose(opts.Verbose, "Using config file "+console.ToRelativePath(path))
	}

	cfg = applyFlagOverrides(cfg, opts)
	projectConfigLog.Printf("Effective config: runtime=%s, testStack=%s, workDir=%s", cfg.Runtime, cfg.TestStack, cfg.WorkDir)

	warnings, err := cfg.Validate()
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, console.FormatWarningMessage(w))
	}
	if err != nil {
		return workflow.WorkflowConfig{}, path, err
	}
	return cfg, path, nil
}

func applyFlagOverrides(cfg workflow.WorkflowConfig, opts GlobalOptions) workflow.WorkflowConfig {
	if opts.Runtime != "" {
		cfg.Runtime = workflow.ParseRuntimeKind(opts.Runtime)
	}
	if opts.TestStack != "" {
		cfg.TestStack = opts.TestStack
	}
	if opts.WorkDir != "" {
		cfg.WorkDir = opts.WorkDir
	}
	return cfg
}
