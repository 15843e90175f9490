//go:build !integration

package workflow

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ringods/projen-pulumi/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewWorkflowConfigDefaults(t *testing.T) {
	cfg := NewWorkflowConfig()
	assert.Equal(t, RuntimeNodeJS, cfg.Runtime)
	assert.Equal(t, "dev", cfg.TestStack)
	assert.Equal(t, ".", cfg.WorkDir)
	assert.Equal(t, "main", cfg.Branch)
	assert.Equal(t, "pulumi", cfg.WorkflowName)
	assert.Equal(t, "ubuntu-latest", cfg.RunsOn)
	assert.Equal(t, filepath.Join(".github", "workflows", "pulumi.yml"), cfg.WorkflowPath())
}

func TestWithDefaultsKeepsSetValues(t *testing.T) {
	cfg := WorkflowConfig{Runtime: "cobol", TestStack: "qa"}.WithDefaults()
	assert.Equal(t, RuntimeKind("cobol"), cfg.Runtime)
	assert.Equal(t, "qa", cfg.TestStack)
}

func TestLoadConfigYAML(t *testing.T) {
	dir := testutil.TempDir(t, "config-*")
	path := writeConfig(t, dir, ".projen-pulumi.yaml", `runtime: Python
testStack: staging
workDir: infra
actionVersions:
  actions/checkout: v5
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, RuntimePython, cfg.Runtime)
	assert.Equal(t, "staging", cfg.TestStack)
	assert.Equal(t, "infra", cfg.WorkDir)
	assert.Empty(t, cfg.Branch, "unset fields stay empty until WithDefaults")
	assert.Equal(t, map[string]string{"actions/checkout": "v5"}, cfg.ActionVersions)
}

func TestLoadConfigTOML(t *testing.T) {
	dir := testutil.TempDir(t, "config-*")
	path := writeConfig(t, dir, ".projen-pulumi.toml", `runtime = "go"
branch = "trunk"

[actionVersions]
"pulumi/actions" = "v6.1.0"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, RuntimeGo, cfg.Runtime)
	assert.Equal(t, "trunk", cfg.Branch)
	assert.Equal(t, "v6.1.0", cfg.ActionVersions["pulumi/actions"])
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		content   string
		wantKey   string
		wantLine  int
		wantInErr string
	}{
		{
			name:      "unknown key",
			file:      ".projen-pulumi.yaml",
			content:   "runtime: go\ntestStak: dev\n",
			wantLine:  2,
			wantInErr: "testStak",
		},
		{
			name:      "wrong type",
			file:      ".projen-pulumi.yaml",
			content:   "workDir:\n  - a\n",
			wantKey:   "workDir",
			wantLine:  1,
			wantInErr: "workDir",
		},
		{
			name:      "toml syntax",
			file:      ".projen-pulumi.toml",
			content:   "runtime =\n",
			wantLine:  1,
			wantInErr: ".projen-pulumi.toml:1:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, testutil.TempDir(t, "config-*"), tt.file, tt.content)
			_, err := LoadConfig(path)
			require.Error(t, err)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "expected *ConfigurationError, got %T: %v", err, err)
			assert.Equal(t, path, cfgErr.File)
			assert.Equal(t, tt.wantLine, cfgErr.Line)
			if tt.wantKey != "" {
				assert.Equal(t, tt.wantKey, cfgErr.ConfigKey)
			}
			assert.Contains(t, err.Error(), tt.wantInErr)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(testutil.TempDir(t, "config-*"), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFindConfigFile(t *testing.T) {
	dir := testutil.TempDir(t, "config-*")
	_, found := FindConfigFile(dir)
	assert.False(t, found)

	toml := writeConfig(t, dir, ".projen-pulumi.toml", "")
	path, found := FindConfigFile(dir)
	assert.True(t, found)
	assert.Equal(t, toml, path)

	yamlPath := writeConfig(t, dir, ".projen-pulumi.yaml", "")
	path, _ = FindConfigFile(dir)
	assert.Equal(t, yamlPath, path, "YAML takes precedence over TOML")
}

func TestLoadProjectConfigLayering(t *testing.T) {
	dir := testutil.TempDir(t, "config-*")
	writeConfig(t, dir, ".projen-pulumi.yaml", "runtime: python\ntestStack: staging\n")

	t.Setenv("PROJEN_PULUMI_RUNTIME", "")
	t.Setenv("PROJEN_PULUMI_TEST_STACK", "qa")
	t.Setenv("PROJEN_PULUMI_WORK_DIR", "")

	cfg, path, err := LoadProjectConfig(dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".projen-pulumi.yaml"), path)
	assert.Equal(t, RuntimePython, cfg.Runtime, "file value kept when env is empty")
	assert.Equal(t, "qa", cfg.TestStack, "env overrides file")
	assert.Equal(t, ".", cfg.WorkDir, "default fills the rest")
}

func TestLoadProjectConfigWithoutFile(t *testing.T) {
	t.Setenv("PROJEN_PULUMI_RUNTIME", "DotNet")
	t.Setenv("PROJEN_PULUMI_TEST_STACK", "")
	t.Setenv("PROJEN_PULUMI_WORK_DIR", "")

	cfg, path, err := LoadProjectConfig(testutil.TempDir(t, "config-*"), "")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, RuntimeDotnet, cfg.Runtime)
	assert.Equal(t, "dev", cfg.TestStack)
}

func TestWorkflowConfigValidate(t *testing.T) {
	tests := []struct {
		name         string
		cfg          WorkflowConfig
		wantErr      string
		wantWarnings int
	}{
		{name: "defaults", cfg: NewWorkflowConfig()},
		{
			name:         "unknown runtime warns",
			cfg:          WorkflowConfig{Runtime: "cobol"}.WithDefaults(),
			wantWarnings: 1,
		},
		{
			name: "compatible override",
			cfg:  WorkflowConfig{ActionVersions: map[string]string{"actions/checkout": "v4.2.1"}}.WithDefaults(),
		},
		{
			name:         "major bump warns",
			cfg:          WorkflowConfig{ActionVersions: map[string]string{"actions/checkout": "v5"}}.WithDefaults(),
			wantWarnings: 1,
		},
		{
			name:         "unused action warns",
			cfg:          WorkflowConfig{ActionVersions: map[string]string{"actions/cache": "v4"}}.WithDefaults(),
			wantWarnings: 1,
		},
		{
			name:    "branch name is not a tag",
			cfg:     WorkflowConfig{ActionVersions: map[string]string{"pulumi/actions": "main"}}.WithDefaults(),
			wantErr: "semver tags",
		},
		{
			name:    "bad workflow name",
			cfg:     WorkflowConfig{WorkflowName: "my workflow"}.WithDefaults(),
			wantErr: "workflowName",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings, err := tt.cfg.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, warnings, tt.wantWarnings, "warnings: %v", warnings)
		})
	}
}
