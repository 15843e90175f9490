package workflow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/ringods/projen-pulumi/pkg/constants"
	"github.com/ringods/projen-pulumi/pkg/envutil"
	"github.com/ringods/projen-pulumi/pkg/logger"
	"github.com/ringods/projen-pulumi/pkg/parser"
)

var configLog = logger.New("workflow:config")

// WorkflowConfig holds the options the workflow is generated from. The zero
// value is usable: empty fields take their defaults in WithDefaults.
type WorkflowConfig struct {
	Runtime        RuntimeKind       `mapstructure:"runtime" json:"runtime,omitempty" yaml:"runtime,omitempty" toml:"runtime,omitempty"`
	TestStack      string            `mapstructure:"testStack" json:"testStack,omitempty" yaml:"testStack,omitempty" toml:"testStack,omitempty"`
	WorkDir        string            `mapstructure:"workDir" json:"workDir,omitempty" yaml:"workDir,omitempty" toml:"workDir,omitempty"`
	Branch         string            `mapstructure:"branch" json:"branch,omitempty" yaml:"branch,omitempty" toml:"branch,omitempty"`
	WorkflowName   string            `mapstructure:"workflowName" json:"workflowName,omitempty" yaml:"workflowName,omitempty" toml:"workflowName,omitempty"`
	RunsOn         string            `mapstructure:"runsOn" json:"runsOn,omitempty" yaml:"runsOn,omitempty" toml:"runsOn,omitempty"`
	ActionVersions map[string]string `mapstructure:"actionVersions" json:"actionVersions,omitempty" yaml:"actionVersions,omitempty" toml:"actionVersions,omitempty"`
}

// NewWorkflowConfig returns a config with every field set to its default.
func NewWorkflowConfig() WorkflowConfig {
	return WorkflowConfig{}.WithDefaults()
}

// WithDefaults fills empty fields. Runtime values outside the known set are
// kept so the caller can report them; they resolve to nodejs at synthesis.
func (c WorkflowConfig) WithDefaults() WorkflowConfig {
	if c.Runtime == "" {
		c.Runtime = DefaultRuntime
	}
	if c.TestStack == "" {
		c.TestStack = constants.DefaultTestStack
	}
	if c.WorkDir == "" {
		c.WorkDir = constants.DefaultWorkDir
	}
	if c.Branch == "" {
		c.Branch = constants.DefaultBranch
	}
	if c.WorkflowName == "" {
		c.WorkflowName = constants.DefaultWorkflowName
	}
	if c.RunsOn == "" {
		c.RunsOn = constants.DefaultRunsOn
	}
	return c
}

// WorkflowPath is the workflow file location relative to the project root.
func (c WorkflowConfig) WorkflowPath() string {
	name := c.WorkflowName
	if name == "" {
		name = constants.DefaultWorkflowName
	}
	return filepath.Join(constants.WorkflowsDir, name+".yml")
}

// ApplyEnvOverrides layers the PROJEN_PULUMI_* environment variables on top
// of c.
func (c WorkflowConfig) ApplyEnvOverrides() WorkflowConfig {
	if v := envutil.GetStringFromEnv(constants.EnvRuntime, "", configLog); v != "" {
		c.Runtime = ParseRuntimeKind(v)
	}
	c.TestStack = envutil.GetStringFromEnv(constants.EnvTestStack, c.TestStack, configLog)
	c.WorkDir = envutil.GetStringFromEnv(constants.EnvWorkDir, c.WorkDir, configLog)
	return c
}

// FindConfigFile returns the first config file present in dir.
func FindConfigFile(dir string) (string, bool) {
	for _, name := range constants.ConfigFileNames {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			configLog.Printf("Found config file: %s", path)
			return path, true
		}
	}
	configLog.Printf("No config file in %s", dir)
	return "", false
}

// LoadConfig reads, schema-checks and decodes a config file. Fields the file
// leaves out stay empty; call WithDefaults to fill them.
func LoadConfig(path string) (WorkflowConfig, error) {
	configLog.Printf("Loading config from %s", path)

	content, err := os.ReadFile(path)
	if err != nil {
		return WorkflowConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}

	doc, err := parser.ParseConfigDocument(path, content)
	if err != nil {
		var parseErr *parser.ParseError
		if errors.As(err, &parseErr) {
			return WorkflowConfig{}, &ConfigurationError{
				File:       path,
				Line:       parseErr.Line,
				Column:     parseErr.Column,
				Reason:     parseErr.Message,
				Suggestion: "Fix the syntax error and run the command again",
				Cause:      err,
			}
		}
		return WorkflowConfig{}, err
	}

	if err := parser.ValidateConfigSchema(doc, path, content); err != nil {
		var schemaErr *parser.SchemaValidationError
		if errors.As(err, &schemaErr) && len(schemaErr.Violations) > 0 {
			first := schemaErr.Violations[0]
			return WorkflowConfig{}, &ConfigurationError{
				File:       path,
				Line:       first.Line,
				Column:     first.Column,
				ConfigKey:  strings.TrimPrefix(first.Path, "/"),
				Reason:     first.Message,
				Suggestion: "Supported keys are runtime, testStack, workDir, branch, workflowName, runsOn and actionVersions",
				Cause:      err,
			}
		}
		return WorkflowConfig{}, err
	}

	var cfg WorkflowConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &cfg,
		TagName:     "mapstructure",
		ErrorUnused: true,
	})
	if err != nil {
		return WorkflowConfig{}, err
	}
	if err := decoder.Decode(doc); err != nil {
		return WorkflowConfig{}, &ConfigurationError{
			File:   path,
			Reason: err.Error(),
			Cause:  err,
		}
	}

	cfg.Runtime = ParseRuntimeKind(string(cfg.Runtime))
	configLog.Printf("Loaded config: runtime=%s, testStack=%s, workDir=%s, %d action overrides",
		cfg.Runtime, cfg.TestStack, cfg.WorkDir, len(cfg.ActionVersions))
	return cfg, nil
}

// LoadProjectConfig resolves the effective config for the project in dir:
// defaults, then the config file (explicitPath or the first one found), then
// the environment. It returns the config file used, or "" when there was none.
func LoadProjectConfig(dir, explicitPath string) (WorkflowConfig, string, error) {
	path := explicitPath
	if path == "" {
		path, _ = FindConfigFile(dir)
	}

	var cfg WorkflowConfig
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return WorkflowConfig{}, path, err
		}
		cfg = loaded
	}

	return cfg.ApplyEnvOverrides().WithDefaults(), path, nil
}

// Validate checks values the schema cannot express. Warnings describe
// settings that are accepted but probably unintended.
func (c WorkflowConfig) Validate() (warnings []string, err error) {
	if err := ValidateWorkflowName(c.WorkflowName); err != nil {
		return nil, err
	}
	if err := ValidateRequired("testStack", c.TestStack); err != nil {
		return nil, err
	}

	if c.Runtime != "" && !c.Runtime.IsKnown() {
		warnings = append(warnings, fmt.Sprintf("unknown runtime '%s', using %s defaults", c.Runtime, DefaultRuntime))
	}

	for _, repo := range sortedKeys(c.ActionVersions) {
		version := c.ActionVersions[repo]
		if !isValidVersionTag(version) {
			return warnings, NewConfigurationError(
				"actionVersions."+repo,
				version,
				"action versions must be semver tags",
				"Use a tag such as 'v4' or 'v4.2.1'",
			)
		}
		builtin, ok := constants.DefaultActionVersions[repo]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("actionVersions: '%s' is not used by the generated workflow", repo))
			continue
		}
		if !isSemverCompatible(version, builtin) {
			warnings = append(warnings, fmt.Sprintf("actionVersions: %s@%s changes the major version of the tested pin %s", repo, version, builtin))
		}
	}

	configLog.Printf("Config validation finished with %d warnings", len(warnings))
	return warnings, nil
}
