//go:build !integration

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ringods/projen-pulumi/pkg/constants"
	"github.com/ringods/projen-pulumi/pkg/testutil"
	"github.com/ringods/projen-pulumi/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	t.Setenv(constants.EnvRuntime, "")
	t.Setenv(constants.EnvTestStack, "")
	t.Setenv(constants.EnvWorkDir, "")
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "should write config file")
	return path
}

func TestLoadProjectConfigPrecedence(t *testing.T) {
	tests := []struct {
		name          string
		file          string
		env           map[string]string
		opts          GlobalOptions
		wantRuntime   workflow.RuntimeKind
		wantTestStack string
		wantWorkDir   string
	}{
		{
			name:          "defaults without file",
			wantRuntime:   workflow.RuntimeNodeJS,
			wantTestStack: "dev",
			wantWorkDir:   ".",
		},
		{
			name:          "file values",
			file:          "runtime: python\ntestStack: ci\nworkDir: infra\n",
			wantRuntime:   workflow.RuntimePython,
			wantTestStack: "ci",
			wantWorkDir:   "infra",
		},
		{
			name:          "environment beats file",
			file:          "runtime: python\ntestStack: ci\n",
			env:           map[string]string{constants.EnvTestStack: "staging"},
			wantRuntime:   workflow.RuntimePython,
			wantTestStack: "staging",
			wantWorkDir:   ".",
		},
		{
			name:          "flags beat environment",
			file:          "runtime: python\n",
			env:           map[string]string{constants.EnvRuntime: "go"},
			opts:          GlobalOptions{Runtime: "Java", WorkDir: "deploy"},
			wantRuntime:   workflow.RuntimeJava,
			wantTestStack: "dev",
			wantWorkDir:   "deploy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			dir := testutil.TempDir(t, "config-*")
			if tt.file != "" {
				writeConfig(t, dir, constants.ConfigFileYAML, tt.file)
			}

			cfg, _, err := loadProjectConfig(dir, tt.opts)
			require.NoError(t, err, "config should load")
			assert.Equal(t, tt.wantRuntime, cfg.Runtime, "runtime")
			assert.Equal(t, tt.wantTestStack, cfg.TestStack, "test stack")
			assert.Equal(t, tt.wantWorkDir, cfg.WorkDir, "work dir")
		})
	}
}

func TestLoadProjectConfigExplicitPath(t *testing.T) {
	clearConfigEnv(t)
	dir := testutil.TempDir(t, "config-*")
	writeConfig(t, dir, constants.ConfigFileYAML, "runtime: python\n")
	other := writeConfig(t, dir, "custom.toml", "runtime = \"dotnet\"\n")

	cfg, path, err := loadProjectConfig(dir, GlobalOptions{ConfigPath: other})
	require.NoError(t, err, "explicit config should load")
	assert.Equal(t, other, path, "explicit path should be used")
	assert.Equal(t, workflow.RuntimeDotnet, cfg.Runtime)
}

func TestLoadProjectConfigSchemaError(t *testing.T) {
	clearConfigEnv(t)
	dir := testutil.TempDir(t, "config-*")
	writeConfig(t, dir, constants.ConfigFileYAML, "runtime: nodejs\nstacks: [prod]\n")

	_, _, err := loadProjectConfig(dir, GlobalOptions{})
	require.Error(t, err, "unknown keys should be rejected")

	var cfgErr *workflow.ConfigurationError
	require.ErrorAs(t, err, &cfgErr, "error should carry the config location")
	assert.Equal(t, 2, cfgErr.Line, "error should point at the offending key")
}

func TestLoadProjectConfigUnknownRuntimeWarns(t *testing.T) {
	clearConfigEnv(t)
	dir := testutil.TempDir(t, "config-*")

	cfg, _, err := loadProjectConfig(dir, GlobalOptions{Runtime: "ruby"})
	require.NoError(t, err, "unknown runtime should only warn")
	assert.Equal(t, workflow.RuntimeKind("ruby"), cfg.Runtime, "value is kept for reporting")
}
