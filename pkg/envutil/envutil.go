// Package envutil provides utilities for reading and validating environment variables.
package envutil

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ringods/projen-pulumi/pkg/console"
	"github.com/ringods/projen-pulumi/pkg/logger"
)

// GetStringFromEnv returns the trimmed value of envVar, or defaultValue when
// the variable is unset or blank.
func GetStringFromEnv(envVar, defaultValue string, log *logger.Logger) string {
	envValue := strings.TrimSpace(os.Getenv(envVar))
	if envValue == "" {
		return defaultValue
	}
	if log != nil {
		log.Printf("Using %s=%s", envVar, envValue)
	}
	return envValue
}

// GetIntFromEnv is a generic helper that reads an integer value from an environment variable,
// validates it against min/max bounds, and returns a default value if invalid.
//
// Returns the parsed integer value, or defaultValue if:
//   - Environment variable is not set
//   - Value cannot be parsed as an integer
//   - Value is outside the [minValue, maxValue] range
//
// Invalid values trigger warning messages to stderr.
func GetIntFromEnv(envVar string, defaultValue, minValue, maxValue int, log *logger.Logger) int {
	envValue := os.Getenv(envVar)
	if envValue == "" {
		return defaultValue
	}

	val, err := strconv.Atoi(envValue)
	if err != nil {
		fmt.Fprintln(os.Stderr, console.FormatWarningMessage(
			fmt.Sprintf("Invalid %s value '%s' (must be a number), using default %d", envVar, envValue, defaultValue),
		))
		return defaultValue
	}

	if val < minValue || val > maxValue {
		fmt.Fprintln(os.Stderr, console.FormatWarningMessage(
			fmt.Sprintf("%s value %d is out of bounds (must be %d-%d), using default %d", envVar, val, minValue, maxValue, defaultValue),
		))
		return defaultValue
	}

	if log != nil {
		log.Printf("Using %s=%d", envVar, val)
	}
	return val
}

// GetSecondsFromEnv reads a whole number of seconds through GetIntFromEnv.
func GetSecondsFromEnv(envVar string, defaultValue, minValue, maxValue time.Duration, log *logger.Logger) time.Duration {
	seconds := GetIntFromEnv(envVar, int(defaultValue/time.Second), int(minValue/time.Second), int(maxValue/time.Second), log)
	return time.Duration(seconds) * time.Second
}
