package workflow

import (
	"strings"

	"github.com/ringods/projen-pulumi/pkg/constants"
	"github.com/ringods/projen-pulumi/pkg/logger"
)

var runtimeLog = logger.New("workflow:runtime")

// RuntimeKind is the language runtime of the Pulumi program.
type RuntimeKind string

const (
	RuntimePython RuntimeKind = "python"
	RuntimeJava   RuntimeKind = "java"
	RuntimeGo     RuntimeKind = "go"
	RuntimeYAML   RuntimeKind = "yaml"
	RuntimeNodeJS RuntimeKind = "nodejs"
	RuntimeDotnet RuntimeKind = "dotnet"
)

// DefaultRuntime is used when no runtime is configured and as the fallback
// for values outside the known set.
const DefaultRuntime = RuntimeNodeJS

// KnownRuntimes lists every runtime with its own resolution, in the order
// shown to users.
var KnownRuntimes = []RuntimeKind{
	RuntimeNodeJS,
	RuntimePython,
	RuntimeGo,
	RuntimeDotnet,
	RuntimeJava,
	RuntimeYAML,
}

// IsKnown reports whether r has a dedicated resolution.
func (r RuntimeKind) IsKnown() bool {
	for _, k := range KnownRuntimes {
		if r == k {
			return true
		}
	}
	return false
}

// ParseRuntimeKind normalizes case and surrounding whitespace. It never
// fails: unknown values are kept as-is and resolve to the default later.
func ParseRuntimeKind(s string) RuntimeKind {
	return RuntimeKind(strings.ToLower(strings.TrimSpace(s)))
}

// RuntimeResolution is what a runtime contributes to every job: an optional
// toolchain setup step and the dependency install command.
type RuntimeResolution struct {
	Runtime        RuntimeKind
	InstallCommand string
	Setup          *Step // nil when the runtime needs no toolchain
}

// ResolveRuntime maps a runtime to its setup step and install command.
// Unrecognized runtimes resolve to the nodejs defaults.
func ResolveRuntime(runtime RuntimeKind, pins ActionPins) RuntimeResolution {
	switch runtime {
	case RuntimePython:
		return RuntimeResolution{
			Runtime:        RuntimePython,
			InstallCommand: "uv sync",
			Setup: &Step{
				Name: "Setup Python",
				Uses: pins.Ref(constants.SetupPythonAction),
				With: map[string]any{"python-version": constants.DefaultPythonVersion},
			},
		}
	case RuntimeGo:
		return RuntimeResolution{
			Runtime:        RuntimeGo,
			InstallCommand: "go mod download",
			Setup: &Step{
				Name: "Setup Go",
				Uses: pins.Ref(constants.SetupGoAction),
				With: map[string]any{"go-version": constants.DefaultGoVersion},
			},
		}
	case RuntimeDotnet:
		return RuntimeResolution{
			Runtime:        RuntimeDotnet,
			InstallCommand: "dotnet restore",
			Setup: &Step{
				Name: "Setup .NET",
				Uses: pins.Ref(constants.SetupDotnetAction),
				With: map[string]any{"dotnet-version": constants.DefaultDotnetVersion},
			},
		}
	case RuntimeJava:
		return RuntimeResolution{
			Runtime:        RuntimeJava,
			InstallCommand: "mvn -B dependency:resolve -DskipTests",
			Setup: &Step{
				Name: "Setup Java",
				Uses: pins.Ref(constants.SetupJavaAction),
				With: map[string]any{
					"distribution": constants.DefaultJavaDistro,
					"java-version": constants.DefaultJavaVersion,
				},
			},
		}
	case RuntimeYAML:
		return RuntimeResolution{
			Runtime:        RuntimeYAML,
			InstallCommand: `echo "No dependencies to install for YAML runtime"`,
		}
	case RuntimeNodeJS:
		return nodeJSResolution(pins)
	default:
		runtimeLog.Printf("Unrecognized runtime %q, falling back to %s", runtime, DefaultRuntime)
		return nodeJSResolution(pins)
	}
}

func nodeJSResolution(pins ActionPins) RuntimeResolution {
	return RuntimeResolution{
		Runtime:        RuntimeNodeJS,
		InstallCommand: "npm ci",
		Setup: &Step{
			Name: "Setup Node.js",
			Uses: pins.Ref(constants.SetupNodeAction),
			With: map[string]any{"node-version": constants.DefaultNodeVersion},
		},
	}
}
