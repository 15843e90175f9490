//go:build !integration

package envutil

import (
	"testing"
	"time"

	"github.com/ringods/projen-pulumi/pkg/logger"
	"github.com/stretchr/testify/assert"
)

var testLog = logger.New("envutil:test")

func TestGetIntFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
	}{
		{"unset", "", 30},
		{"valid", "45", 45},
		{"lower bound", "1", 1},
		{"upper bound", "600", 600},
		{"not a number", "soon", 30},
		{"below range", "0", 30},
		{"above range", "601", 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PROJEN_PULUMI_TEST_INT", tt.value)
			assert.Equal(t, tt.expected, GetIntFromEnv("PROJEN_PULUMI_TEST_INT", 30, 1, 600, testLog))
		})
	}
}

func TestGetStringFromEnv(t *testing.T) {
	t.Setenv("PROJEN_PULUMI_TEST_STRING", "  staging ")
	assert.Equal(t, "staging", GetStringFromEnv("PROJEN_PULUMI_TEST_STRING", "dev", nil))

	t.Setenv("PROJEN_PULUMI_TEST_STRING", "   ")
	assert.Equal(t, "dev", GetStringFromEnv("PROJEN_PULUMI_TEST_STRING", "dev", testLog))
}

func TestGetSecondsFromEnv(t *testing.T) {
	t.Setenv("PROJEN_PULUMI_TEST_SECONDS", "90")
	got := GetSecondsFromEnv("PROJEN_PULUMI_TEST_SECONDS", 60*time.Second, time.Second, 10*time.Minute, nil)
	assert.Equal(t, 90*time.Second, got)

	t.Setenv("PROJEN_PULUMI_TEST_SECONDS", "")
	got = GetSecondsFromEnv("PROJEN_PULUMI_TEST_SECONDS", 60*time.Second, time.Second, 10*time.Minute, nil)
	assert.Equal(t, 60*time.Second, got)
}
