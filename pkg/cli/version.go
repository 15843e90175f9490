package cli

import (
	"fmt"
	"runtime"

	"github.com/ringods/projen-pulumi/pkg/constants"
	"github.com/spf13/cobra"
)

var version = "dev"

// SetVersionInfo records the version stamped into the binary at build time.
func SetVersionInfo(v string) {
	if v != "" {
		version = v
	}
}

// GetVersion returns the version set by SetVersionInfo.
func GetVersion() string {
	return version
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (%s, %s/%s)\n", constants.CLIName, GetVersion(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
