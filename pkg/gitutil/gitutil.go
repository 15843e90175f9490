package gitutil

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ringods/projen-pulumi/pkg/logger"
)

var log = logger.New("gitutil:gitutil")

// FindGitRoot walks up from dir to the first directory containing .git.
// It returns dir itself when no repository is found.
func FindGitRoot(dir string) string {
	log.Printf("Finding git root starting from: %s", dir)
	start, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	for current := start; ; {
		if _, err := os.Stat(filepath.Join(current, ".git")); err == nil {
			log.Printf("Found git root at: %s", current)
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			log.Print("Reached filesystem root, no .git directory found")
			return dir
		}
		current = parent
	}
}

// IsAuthError checks if an error message indicates an authentication issue.
// This is used to detect when GitHub API calls fail due to missing or invalid credentials.
func IsAuthError(errMsg string) bool {
	log.Printf("Checking if error is auth-related: %s", errMsg)
	lowerMsg := strings.ToLower(errMsg)
	isAuth := strings.Contains(lowerMsg, "gh_token") ||
		strings.Contains(lowerMsg, "github_token") ||
		strings.Contains(lowerMsg, "authentication") ||
		strings.Contains(lowerMsg, "not logged into") ||
		strings.Contains(lowerMsg, "unauthorized") ||
		strings.Contains(lowerMsg, "forbidden") ||
		strings.Contains(lowerMsg, "permission denied")
	if isAuth {
		log.Print("Detected authentication error")
	}
	return isAuth
}

// IsHexString checks if a string contains only hexadecimal characters.
// This is used to validate Git commit SHAs.
func IsHexString(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
