package workflow

import (
	"strings"

	"github.com/ringods/projen-pulumi/pkg/logger"
	"golang.org/x/mod/semver"
)

var semverLog = logger.New("workflow:semver")

// canonicalTag ensures the 'v' prefix the semver package expects
func canonicalTag(version string) string {
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// isValidVersionTag reports whether version is an action tag like "v4" or
// "v4.2.1". Branch names and SHAs are rejected.
func isValidVersionTag(version string) bool {
	return strings.HasPrefix(version, "v") && semver.IsValid(version)
}

// isSemverCompatible checks if pinVersion is semver-compatible with requestedVersion
// Semver compatibility means the major version must match
// Examples:
//   - isSemverCompatible("v5.0.0", "v5") -> true
//   - isSemverCompatible("v5.1.0", "v5.0.0") -> true
//   - isSemverCompatible("v6.0.0", "v5") -> false
func isSemverCompatible(pinVersion, requestedVersion string) bool {
	pinMajor := semver.Major(canonicalTag(pinVersion))
	requestedMajor := semver.Major(canonicalTag(requestedVersion))

	compatible := pinMajor == requestedMajor
	semverLog.Printf("Checking semver compatibility: pin=%s (major=%s), requested=%s (major=%s) -> %v",
		pinVersion, pinMajor, requestedVersion, requestedMajor, compatible)

	return compatible
}
