package workflow

import (
	"maps"
	"strings"

	"github.com/ringods/projen-pulumi/pkg/constants"
	"github.com/ringods/projen-pulumi/pkg/logger"
)

var actionPinsLog = logger.New("workflow:action_pins")

// ActionPins maps an action repository to the version tag it is used at.
type ActionPins map[string]string

// NewActionPins returns the built-in pins with overrides applied on top.
func NewActionPins(overrides map[string]string) ActionPins {
	pins := maps.Clone(ActionPins(constants.DefaultActionVersions))
	for repo, version := range overrides {
		actionPinsLog.Printf("Overriding %s version: %s -> %s", repo, pins[repo], version)
		pins[repo] = version
	}
	return pins
}

// Ref returns "repo@version". Repos without a pin are returned bare, which
// actionlint reports, so a missing pin never goes unnoticed.
func (p ActionPins) Ref(repo string) string {
	version, ok := p[repo]
	if !ok || version == "" {
		actionPinsLog.Printf("No pin for action %s", repo)
		return repo
	}
	return repo + "@" + version
}

// SplitActionRef splits "owner/repo@version" into its parts. The version is
// empty when the reference carries none.
func SplitActionRef(ref string) (repo, version string) {
	repo, version, _ = strings.Cut(ref, "@")
	return repo, version
}
