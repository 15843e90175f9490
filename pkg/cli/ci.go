package cli

import (
	"os"

	"github.com/ringods/projen-pulumi/pkg/logger"
)

var ciLog = logger.New("cli:ci")

// ciEnvVars are set by the common CI providers.
var ciEnvVars = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"BUILDKITE",
}

// IsRunningInCI reports whether the process runs under a CI provider.
// Interactive prompts and watch mode are refused there.
func IsRunningInCI() bool {
	for _, v := range ciEnvVars {
		if os.Getenv(v) != "" {
			ciLog.Printf("CI environment detected via %s", v)
			return true
		}
	}
	return false
}
