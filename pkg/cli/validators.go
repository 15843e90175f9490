package cli

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ringods/projen-pulumi/pkg/logger"
)

var validatorsLog = logger.New("cli:validators")

// stackNameRegex matches the characters Pulumi allows in a stack name,
// including the optional org/project/ prefix.
var stackNameRegex = regexp.MustCompile(`^[A-Za-z0-9_.\-/]+$`)

// ValidateStackName checks that s can name a Pulumi stack.
func ValidateStackName(s string) error {
	if strings.TrimSpace(s) == "" {
		validatorsLog.Print("Stack name validation failed: empty name")
		return errors.New("stack name cannot be empty")
	}
	if !stackNameRegex.MatchString(s) {
		validatorsLog.Printf("Stack name validation failed: invalid characters in %s", s)
		return errors.New("stack name may only contain letters, digits, '-', '_', '.' and '/'")
	}
	return nil
}

// ValidateWorkDir checks that s is a relative path inside the repository.
func ValidateWorkDir(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("work directory cannot be empty")
	}
	if filepath.IsAbs(s) {
		validatorsLog.Printf("Work directory validation failed: absolute path %s", s)
		return errors.New("work directory must be relative to the repository root")
	}
	clean := filepath.ToSlash(filepath.Clean(s))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		validatorsLog.Printf("Work directory validation failed: %s leaves the repository", s)
		return errors.New("work directory must stay inside the repository")
	}
	return nil
}
