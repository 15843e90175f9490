//go:build !integration

package scaffold

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ringods/projen-pulumi/pkg/parser"
	"github.com/ringods/projen-pulumi/pkg/testutil"
	"github.com/ringods/projen-pulumi/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestProjectSynthWritesFiles(t *testing.T) {
	root := testutil.TempDir(t, "project-*")
	project := NewProject(root)

	result, err := project.Synth(context.Background(), workflow.WorkflowConfig{Runtime: workflow.RuntimePython}, SynthOptions{})
	require.NoError(t, err)
	require.Len(t, result.Changes, 4)
	for _, change := range result.Changes {
		assert.Equal(t, StatusCreated, change.Status, change.Path)
	}

	wf := readFile(t, filepath.Join(root, ".github", "workflows", "pulumi.yml"))
	assert.Contains(t, wf, "uses: actions/setup-python@v5")
	assert.Contains(t, wf, "run: uv sync")

	assert.Contains(t, readFile(t, filepath.Join(root, ".gitignore")), ".venv/")
	assert.Contains(t, readFile(t, filepath.Join(root, ".gitattributes")), ".github/workflows/pulumi.yml linguist-generated=true")
	assert.Contains(t, readFile(t, filepath.Join(root, "justfile")), "uv sync")

	// Running again changes nothing
	result, err = project.Synth(context.Background(), workflow.WorkflowConfig{Runtime: workflow.RuntimePython}, SynthOptions{})
	require.NoError(t, err)
	for _, change := range result.Changes {
		assert.Equal(t, StatusUnchanged, change.Status, change.Path)
	}
}

func TestProjectSynthKeepsLinesAppendedToGitIgnore(t *testing.T) {
	root := testutil.TempDir(t, "project-*")
	project := NewProject(root)
	gitignore := filepath.Join(root, ".gitignore")

	_, err := project.Synth(context.Background(), workflow.WorkflowConfig{}, SynthOptions{})
	require.NoError(t, err)

	f, err := os.OpenFile(gitignore, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(".env\nsecrets.json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = project.Synth(context.Background(), workflow.WorkflowConfig{}, SynthOptions{})
	require.NoError(t, err)

	content := readFile(t, gitignore)
	assert.Contains(t, content, ".env\n", "user entries must survive a second synth")
	assert.Contains(t, content, "secrets.json\n", "user entries must survive a second synth")
	assert.Contains(t, content, "node_modules/\n")
}

func TestProjectSynthDryRun(t *testing.T) {
	root := testutil.TempDir(t, "project-*")
	result, err := NewProject(root).Synth(context.Background(), workflow.WorkflowConfig{}, SynthOptions{DryRun: true})
	require.NoError(t, err)

	change, ok := result.Change(filepath.Join(".github", "workflows", "pulumi.yml"))
	require.True(t, ok)
	assert.Equal(t, StatusCreated, change.Status)
	assert.Contains(t, change.Content, "name: pulumi\n")

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "dry run must not write")
}

func TestProjectSynthUpdatesChangedWorkflow(t *testing.T) {
	root := testutil.TempDir(t, "project-*")
	project := NewProject(root)

	_, err := project.Synth(context.Background(), workflow.WorkflowConfig{TestStack: "dev"}, SynthOptions{})
	require.NoError(t, err)

	result, err := project.Synth(context.Background(), workflow.WorkflowConfig{TestStack: "qa"}, SynthOptions{})
	require.NoError(t, err)

	wfPath := filepath.Join(".github", "workflows", "pulumi.yml")
	change, _ := result.Change(wfPath)
	assert.Equal(t, StatusUpdated, change.Status)
	gitignore, _ := result.Change(".gitignore")
	assert.Equal(t, StatusUnchanged, gitignore.Status)
	assert.Contains(t, readFile(t, filepath.Join(root, wfPath)), "TEST_STACK: qa")
}

func TestProjectSynthKeepsForeignJustfile(t *testing.T) {
	root := testutil.TempDir(t, "project-*")
	require.NoError(t, os.WriteFile(filepath.Join(root, "justfile"), []byte("build:\n    make\n"), 0644))

	result, err := NewProject(root).Synth(context.Background(), workflow.WorkflowConfig{}, SynthOptions{})
	require.NoError(t, err)

	change, ok := result.Change("justfile")
	require.True(t, ok)
	assert.Equal(t, StatusSkipped, change.Status)
	assert.NotEmpty(t, change.Reason)
	assert.Equal(t, "build:\n    make\n", readFile(t, filepath.Join(root, "justfile")))
}

func TestProjectSynthRollsBackOnFailure(t *testing.T) {
	root := testutil.TempDir(t, "project-*")
	// A dangling symlink reads as missing but cannot be written through
	require.NoError(t, os.Symlink(filepath.Join(root, "missing", "target"), filepath.Join(root, ".gitattributes")))

	_, err := NewProject(root).Synth(context.Background(), workflow.WorkflowConfig{}, SynthOptions{})
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(root, ".github", "workflows", "pulumi.yml"))
	assert.True(t, os.IsNotExist(statErr), "workflow should be rolled back")
	_, statErr = os.Stat(filepath.Join(root, ".gitignore"))
	assert.True(t, os.IsNotExist(statErr), ".gitignore should be rolled back")
}

func TestProjectInit(t *testing.T) {
	for _, format := range []parser.ConfigFormat{parser.FormatYAML, parser.FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			root := testutil.TempDir(t, "init-*")
			project := NewProject(root)

			path, err := project.Init(workflow.WorkflowConfig{Runtime: workflow.RuntimeGo, TestStack: "qa"}, format)
			require.NoError(t, err)
			assert.Equal(t, format, parser.DetectConfigFormat(path))

			cfg, err := workflow.LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, workflow.RuntimeGo, cfg.Runtime)
			assert.Equal(t, "qa", cfg.TestStack)
			assert.Equal(t, ".", cfg.WorkDir)

			_, err = project.Init(workflow.WorkflowConfig{}, format)
			assert.True(t, errors.Is(err, ErrConfigExists))
		})
	}
}
