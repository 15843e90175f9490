//go:build !integration

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rhysd/actionlint"
	"github.com/ringods/projen-pulumi/pkg/testutil"
	"github.com/ringods/projen-pulumi/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const brokenWorkflow = `name: broken
on: push
jobs:
  build:
    needs: missing-job
    runs-on: ubuntu-latest
    steps:
      - run: echo hello
`

func TestGetActionlintDocsURL(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{kind: "", want: "https://github.com/rhysd/actionlint/blob/main/docs/checks.md"},
		{kind: "runner-label", want: "https://github.com/rhysd/actionlint/blob/main/docs/checks.md#check-runner-labels"},
		{kind: "shellcheck", want: "https://github.com/rhysd/actionlint/blob/main/docs/checks.md#check-shellcheck-integ"},
		{kind: "expression", want: "https://github.com/rhysd/actionlint/blob/main/docs/checks.md#check-syntax-expression"},
		{kind: "syntax-check", want: "https://github.com/rhysd/actionlint/blob/main/docs/checks.md#check-syntax-expression"},
		{kind: "job-needs", want: "https://github.com/rhysd/actionlint/blob/main/docs/checks.md#check-job-needs"},
		{kind: "check-matrix", want: "https://github.com/rhysd/actionlint/blob/main/docs/checks.md#check-matrix"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			assert.Equal(t, tt.want, getActionlintDocsURL(tt.kind))
		})
	}
}

func TestLintGeneratedWorkflows(t *testing.T) {
	for _, runtime := range workflow.KnownRuntimes {
		t.Run(string(runtime), func(t *testing.T) {
			cfg := workflow.WorkflowConfig{Runtime: runtime, WorkDir: "infra"}.WithDefaults()
			rendered, err := workflow.RenderWorkflow(workflow.Synthesize(cfg))
			require.NoError(t, err)

			errs, err := lintWorkflowContent("pulumi.yml", []byte(rendered))
			require.NoError(t, err)
			for _, e := range errs {
				t.Errorf("unexpected actionlint issue: %s", e.Error())
			}
		})
	}
}

func TestLintWorkflowFiles(t *testing.T) {
	dir := testutil.TempDir(t, "lint-*")
	good := filepath.Join(dir, "good.yml")
	bad := filepath.Join(dir, "bad.yml")
	missing := filepath.Join(dir, "missing.yml")

	rendered, err := workflow.RenderWorkflow(workflow.Synthesize(workflow.NewWorkflowConfig()))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(good, []byte(rendered), 0644))
	require.NoError(t, os.WriteFile(bad, []byte(brokenWorkflow), 0644))

	results := lintWorkflowFiles([]string{missing, good, bad}, 2)
	require.Len(t, results, 3)

	assert.Equal(t, bad, results[0].File, "results should be sorted by file")
	assert.NoError(t, results[0].Err)
	assert.NotEmpty(t, results[0].Errors, "broken workflow should have issues")

	assert.Equal(t, good, results[1].File)
	assert.Empty(t, results[1].Errors)

	assert.Equal(t, missing, results[2].File)
	assert.Error(t, results[2].Err, "missing file should fail to read")

	stats := collectActionlintStats(results)
	assert.Equal(t, 2, stats.TotalWorkflows, "unreadable files are not counted")
	assert.Equal(t, len(results[0].Errors), stats.TotalErrors)
}

func TestDisplayActionlintSummary(t *testing.T) {
	var buf bytes.Buffer
	displayActionlintSummary(&buf, ActionlintStats{})
	assert.Empty(t, buf.String(), "nothing to summarize")

	displayActionlintSummary(&buf, ActionlintStats{
		TotalWorkflows: 2,
		TotalErrors:    3,
		ErrorsByKind:   map[string]int{"expression": 2, "job-needs": 1},
	})
	out := buf.String()
	assert.Contains(t, out, "Checked 2 workflow(s)")
	assert.Contains(t, out, "Found 3 issue(s)")
	assert.Contains(t, out, "expression: 2")
	assert.Contains(t, out, "job-needs: 1")
}

func TestFormatActionlintError(t *testing.T) {
	msg := formatActionlintError(&actionlint.Error{
		Message:  "property \"foo\" is not defined",
		Filepath: "pulumi.yml",
		Line:     7,
		Column:   9,
		Kind:     "expression",
	})
	assert.Contains(t, msg, "pulumi.yml:7:9")
	assert.Contains(t, msg, "[expression]")
	assert.Contains(t, msg, "#check-syntax-expression")
}
