// Package constants holds names, defaults and version pins shared by the
// generator, the scaffolder and the CLI.
package constants

// CLIName is the executable name used in help text and generated headers.
const CLIName = "projen-pulumi"

// Configuration defaults.
const (
	DefaultTestStack    = "dev"
	DefaultWorkDir      = "."
	DefaultBranch       = "main"
	DefaultWorkflowName = "pulumi"
	DefaultRunsOn       = "ubuntu-latest"
)

// Config file names, in lookup order.
const (
	ConfigFileYAML = ".projen-pulumi.yaml"
	ConfigFileTOML = ".projen-pulumi.toml"
)

// ConfigFileNames lists the config files probed when --config is not given.
var ConfigFileNames = []string{ConfigFileYAML, ConfigFileTOML}

// Environment variables that override config file values.
const (
	EnvRuntime         = "PROJEN_PULUMI_RUNTIME"
	EnvTestStack       = "PROJEN_PULUMI_TEST_STACK"
	EnvWorkDir         = "PROJEN_PULUMI_WORK_DIR"
	EnvDiscoverTimeout = "PROJEN_PULUMI_DISCOVER_TIMEOUT"
)

// Job, step and output identifiers of the generated workflow.
const (
	DiscoverJobName    = "discover"
	TestJobName        = "test"
	DeployJobName      = "deploy"
	DiscoverStepID     = "discover"
	StacksOutputName   = "stacks"
	MatrixStackKey     = "stack"
	EmptyStackListJSON = "[]"
	TestStackEnvVar    = "TEST_STACK"
)

// Secrets referenced by the generated workflow.
const (
	PulumiAccessTokenSecret = "PULUMI_ACCESS_TOKEN"
	GitHubTokenSecret       = "GITHUB_TOKEN"
)

// Runtime tool versions passed to the setup actions.
const (
	DefaultNodeVersion   = "lts/*"
	DefaultPythonVersion = "3.x"
	DefaultGoVersion     = "stable"
	DefaultDotnetVersion = "8.x"
	DefaultJavaVersion   = "21"
	DefaultJavaDistro    = "temurin"
)

// Action repositories used by the generated workflow.
const (
	CheckoutAction     = "actions/checkout"
	SetupNodeAction    = "actions/setup-node"
	SetupPythonAction  = "actions/setup-python"
	SetupGoAction      = "actions/setup-go"
	SetupDotnetAction  = "actions/setup-dotnet"
	SetupJavaAction    = "actions/setup-java"
	PulumiDeployAction = "pulumi/actions"
)

// DefaultActionVersions pins every action the workflow uses to a major tag.
var DefaultActionVersions = map[string]string{
	CheckoutAction:     "v4",
	SetupNodeAction:    "v4",
	SetupPythonAction:  "v5",
	SetupGoAction:      "v5",
	SetupDotnetAction:  "v4",
	SetupJavaAction:    "v4",
	PulumiDeployAction: "v6",
}

// Scaffolding file locations, relative to the project root.
const (
	WorkflowsDir       = ".github/workflows"
	ActionLockFile     = ".github/projen-pulumi/actions-lock.json"
	GitIgnoreFile      = ".gitignore"
	GitAttributesFile  = ".gitattributes"
	JustfileName       = "justfile"
	ManagedBlockMarker    = "# managed by projen-pulumi"
	ManagedBlockEndMarker = "# end managed by projen-pulumi"
)
