//go:build !integration

package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidVersionTag(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"v4", true},
		{"v4.2", true},
		{"v4.2.1", true},
		{"v1.0.0-beta.1", true},
		{"4.2.1", false},
		{"main", false},
		{"11bd71901bbe5b1630ceea73d27597364c9af683", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			assert.Equal(t, tt.want, isValidVersionTag(tt.version))
		})
	}
}

func TestIsSemverCompatible(t *testing.T) {
	tests := []struct {
		pin, requested string
		want           bool
	}{
		{"v5.0.0", "v5", true},
		{"v5.1.0", "v5.0.0", true},
		{"v6.0.0", "v5", false},
		{"4.2.1", "v4", true},
	}
	for _, tt := range tests {
		t.Run(tt.pin+"_"+tt.requested, func(t *testing.T) {
			assert.Equal(t, tt.want, isSemverCompatible(tt.pin, tt.requested))
		})
	}
}
