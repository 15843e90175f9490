//go:build !integration

package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	names []string
	err   error
}

func (f fakeLister) ListStacks(context.Context) ([]string, error) {
	return f.names, f.err
}

func TestDiscoverWithJSONOutput(t *testing.T) {
	tests := []struct {
		name      string
		stacks    []string
		testStack string
		want      string
	}{
		{
			name:      "test stack excluded",
			stacks:    []string{"dev", "prod", "staging"},
			testStack: "dev",
			want:      `["prod","staging"]`,
		},
		{
			name:      "only test stack",
			stacks:    []string{"dev"},
			testStack: "dev",
			want:      `[]`,
		},
		{
			name:      "no stacks",
			testStack: "dev",
			want:      `[]`,
		},
		{
			name:      "missing test stack keeps all",
			stacks:    []string{"prod", "infra"},
			testStack: "dev",
			want:      `["prod","infra"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := discoverWith(context.Background(), fakeLister{names: tt.stacks}, tt.testStack, true, &out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(out.String()))
		})
	}
}

func TestDiscoverWithTable(t *testing.T) {
	var out bytes.Buffer
	err := discoverWith(context.Background(), fakeLister{names: []string{"dev", "prod"}}, "dev", false, &out)
	require.NoError(t, err)

	table := out.String()
	assert.Contains(t, table, "Stack")
	assert.Contains(t, table, "prod")
	assert.Contains(t, table, "deploy")
	assert.Contains(t, table, "test")
}

func TestDiscoverWithListerError(t *testing.T) {
	var out bytes.Buffer
	err := discoverWith(context.Background(), fakeLister{err: errors.New("pulumi: not logged in")}, "dev", true, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to discover stacks")
	assert.Contains(t, err.Error(), "not logged in")
	assert.Empty(t, out.String(), "nothing should be printed on failure")
}
