package workflow

import (
	"fmt"
	"strings"

	"github.com/ringods/projen-pulumi/pkg/logger"
)

var errorHelpersLog = logger.New("workflow:error_helpers")

// WorkflowValidationError represents an invalid value for a single field
type WorkflowValidationError struct {
	Field      string
	Value      string
	Reason     string
	Suggestion string
}

// Error implements the error interface
func (e *WorkflowValidationError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "validation failed for field '%s'", e.Field)
	if e.Value != "" {
		fmt.Fprintf(&b, "\n\nValue: %s", truncateValue(e.Value))
	}
	fmt.Fprintf(&b, "\nReason: %s", e.Reason)
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\nSuggestion: %s", e.Suggestion)
	}

	return b.String()
}

// NewValidationError creates a new validation error with context
func NewValidationError(field, value, reason, suggestion string) *WorkflowValidationError {
	errorHelpersLog.Printf("Creating validation error: field=%s, reason=%s", field, reason)
	return &WorkflowValidationError{
		Field:      field,
		Value:      value,
		Reason:     reason,
		Suggestion: suggestion,
	}
}

// ConfigurationError represents a problem in the project's config file. File,
// Line and Column are zero when the location is unknown.
type ConfigurationError struct {
	File       string
	Line       int
	Column     int
	ConfigKey  string
	Value      string
	Reason     string
	Suggestion string
	Cause      error
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	var b strings.Builder

	if e.File != "" {
		b.WriteString(e.File)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d:%d", e.Line, max(e.Column, 1))
		}
		b.WriteString(": ")
	}

	if e.ConfigKey != "" {
		fmt.Fprintf(&b, "configuration error in '%s': %s", e.ConfigKey, e.Reason)
	} else {
		fmt.Fprintf(&b, "configuration error: %s", e.Reason)
	}

	if e.Value != "" {
		fmt.Fprintf(&b, "\n\nValue: %s", truncateValue(e.Value))
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\nSuggestion: %s", e.Suggestion)
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a new configuration error with context
func NewConfigurationError(configKey, value, reason, suggestion string) *ConfigurationError {
	errorHelpersLog.Printf("Creating configuration error: configKey=%s, reason=%s", configKey, reason)
	return &ConfigurationError{
		ConfigKey:  configKey,
		Value:      value,
		Reason:     reason,
		Suggestion: suggestion,
	}
}

// WrapErrorWithContext wraps an error with additional context using fmt.Errorf %w
// This preserves error unwrapping while adding context
func WrapErrorWithContext(err error, context, suggestion string) error {
	if err == nil {
		return nil
	}

	if suggestion != "" {
		return fmt.Errorf("%s (suggestion: %s): %w", context, suggestion, err)
	}

	return fmt.Errorf("%s: %w", context, err)
}

func truncateValue(value string) string {
	if len(value) > 100 {
		return value[:97] + "..."
	}
	return value
}
