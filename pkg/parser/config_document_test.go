//go:build !integration

package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectConfigFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     ConfigFormat
	}{
		{".projen-pulumi.yaml", FormatYAML},
		{".projen-pulumi.yml", FormatYAML},
		{".projen-pulumi.toml", FormatTOML},
		{"CONFIG.TOML", FormatTOML},
		{"config", FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectConfigFormat(tt.filename))
		})
	}
}

func TestParseConfigDocument(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		want     map[string]any
	}{
		{
			name:     "yaml scalars",
			filename: "c.yaml",
			content:  "runtime: python\ntestStack: staging\n",
			want:     map[string]any{"runtime": "python", "testStack": "staging"},
		},
		{
			name:     "yaml nested action versions",
			filename: "c.yaml",
			content:  "actionVersions:\n  actions/checkout: v5\n",
			want: map[string]any{
				"actionVersions": map[string]any{"actions/checkout": "v5"},
			},
		},
		{
			name:     "toml with table",
			filename: "c.toml",
			content:  "runtime = \"go\"\n\n[actionVersions]\n\"pulumi/actions\" = \"v6.1.0\"\n",
			want: map[string]any{
				"runtime":        "go",
				"actionVersions": map[string]any{"pulumi/actions": "v6.1.0"},
			},
		},
		{
			name:     "empty file",
			filename: "c.yaml",
			content:  "   \n",
			want:     map[string]any{},
		},
		{
			name:     "comment only yaml",
			filename: "c.yaml",
			content:  "# nothing configured yet\n",
			want:     map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseConfigDocument(tt.filename, []byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc)
		})
	}
}

func TestParseConfigDocumentErrors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		wantLine int
	}{
		{
			name:     "yaml not a mapping",
			filename: "c.yaml",
			content:  "- python\n- go\n",
			wantLine: 1,
		},
		{
			name:     "toml missing value",
			filename: "c.toml",
			content:  "runtime =\n",
			wantLine: 1,
		},
		{
			name:     "yaml unterminated flow sequence",
			filename: "c.yaml",
			content:  "runtime: python\nactionVersions: [\n",
			wantLine: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfigDocument(tt.filename, []byte(tt.content))
			require.Error(t, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "expected *ParseError, got %T", err)
			assert.Equal(t, tt.filename, parseErr.File)
			assert.NotEmpty(t, parseErr.Message)
			if tt.wantLine >= 0 {
				assert.Equal(t, tt.wantLine, parseErr.Line)
			}
			assert.Contains(t, err.Error(), tt.filename)
		})
	}
}
