//go:build !integration

package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfigSchemaAccepts(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]any
	}{
		{name: "empty", doc: map[string]any{}},
		{
			name: "all fields",
			doc: map[string]any{
				"runtime":        "python",
				"testStack":      "dev",
				"workDir":        "infra",
				"branch":         "main",
				"workflowName":   "deploy-infra",
				"runsOn":         "ubuntu-latest",
				"actionVersions": map[string]any{"actions/checkout": "v5"},
			},
		},
		{
			// Runtimes are not enumerated so unknown values fall back later
			name: "unknown runtime",
			doc:  map[string]any{"runtime": "cobol"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, ValidateConfigSchema(tt.doc, "c.yaml", nil))
		})
	}
}

func TestValidateConfigSchemaRejects(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		doc         map[string]any
		wantPath    string
		wantMessage string
		wantLine    int
	}{
		{
			name:        "unknown key",
			content:     "runtime: python\nruntme: go\n",
			doc:         map[string]any{"runtime": "python", "runtme": "go"},
			wantPath:    "",
			wantMessage: "runtme",
			wantLine:    2,
		},
		{
			name:     "bad workflow name",
			content:  "workflowName: my workflow\n",
			doc:      map[string]any{"workflowName": "my workflow"},
			wantPath: "/workflowName",
			wantLine: 1,
		},
		{
			name:     "non-string test stack",
			content:  "testStack: 3\n",
			doc:      map[string]any{"testStack": 3},
			wantPath: "/testStack",
			wantLine: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfigSchema(tt.doc, "c.yaml", []byte(tt.content))
			require.Error(t, err)

			var schemaErr *SchemaValidationError
			require.True(t, errors.As(err, &schemaErr), "expected *SchemaValidationError, got %T", err)
			require.NotEmpty(t, schemaErr.Violations)

			v := schemaErr.Violations[0]
			assert.Equal(t, tt.wantPath, v.Path)
			assert.Equal(t, tt.wantLine, v.Line)
			if tt.wantMessage != "" {
				assert.Contains(t, v.Message, tt.wantMessage)
			}
		})
	}
}

func TestGetConfigSchemaIsCached(t *testing.T) {
	first, err := getConfigSchema()
	require.NoError(t, err)
	second, err := getConfigSchema()
	require.NoError(t, err)
	assert.Same(t, first, second)
}
