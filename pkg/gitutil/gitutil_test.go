//go:build !integration

package gitutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindGitRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0755))
	nested := filepath.Join(root, "infra", "stacks")
	require.NoError(t, os.MkdirAll(nested, 0755))

	assert.Equal(t, root, FindGitRoot(nested))
	assert.Equal(t, root, FindGitRoot(root))
}

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"HTTP 401: Unauthorized", true},
		{"HTTP 403: Forbidden", true},
		{"To use GitHub CLI, set the GH_TOKEN environment variable", true},
		{"HTTP 404: Not Found", false},
		{"connection reset by peer", false},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAuthError(tt.msg))
		})
	}
}

func TestIsHexString(t *testing.T) {
	assert.True(t, IsHexString("11bd71901bbe5b1630ceea73d27597364c9af683"))
	assert.True(t, IsHexString("ABCdef"))
	assert.False(t, IsHexString(""))
	assert.False(t, IsHexString("v4.2.1"))
	assert.False(t, IsHexString("g123"))
}
