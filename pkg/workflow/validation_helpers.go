// This file provides validation helpers for configuration values.
//
//   - ValidateRequired() - Validates that a required field is not empty
//   - ValidateWorkflowName() - Validates a workflow file stem
//   - fileExists() - Checks if a file exists at the given path

package workflow

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ringods/projen-pulumi/pkg/logger"
)

var validationHelpersLog = logger.New("workflow:validation_helpers")

var workflowNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateRequired validates that a required field is not empty
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		validationHelpersLog.Printf("Required field validation failed: field=%s", field)
		return NewValidationError(
			field,
			value,
			"field is required and cannot be empty",
			fmt.Sprintf("Provide a non-empty value for '%s'", field),
		)
	}
	return nil
}

// ValidateWorkflowName validates that name can be used as a workflow file
// stem under .github/workflows.
func ValidateWorkflowName(name string) error {
	if err := ValidateRequired("workflowName", name); err != nil {
		return err
	}
	if !workflowNamePattern.MatchString(name) {
		validationHelpersLog.Printf("Workflow name validation failed: %s", name)
		return NewValidationError(
			"workflowName",
			name,
			"workflow name may only contain letters, digits, '.', '_' and '-'",
			"Use a name like 'pulumi' or 'deploy-infra'",
		)
	}
	return nil
}

// fileExists checks if a regular file exists at the given path
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
