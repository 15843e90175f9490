package workflow

import (
	"fmt"
	"strings"

	"github.com/ringods/projen-pulumi/pkg/constants"
	"github.com/ringods/projen-pulumi/pkg/logger"
)

var stepLog = logger.New("workflow:step")

// Step is one entry of a job's steps list. Exactly one of Uses and Run is
// set.
type Step struct {
	Name             string
	ID               string
	Uses             string // "owner/repo@version"
	With             map[string]any
	WorkingDirectory string
	Env              map[string]string
	Run              string
}

// clone returns a deep copy so jobs never share mutable maps.
func (s Step) clone() Step {
	c := s
	if s.With != nil {
		c.With = make(map[string]any, len(s.With))
		for k, v := range s.With {
			c.With[k] = v
		}
	}
	if s.Env != nil {
		c.Env = make(map[string]string, len(s.Env))
		for k, v := range s.Env {
			c.Env[k] = v
		}
	}
	return c
}

func cloneSteps(steps []Step) []Step {
	out := make([]Step, len(steps))
	for i, s := range steps {
		out[i] = s.clone()
	}
	return out
}

func generateCheckoutStep(pins ActionPins) Step {
	return Step{
		Name: "Checkout",
		Uses: pins.Ref(constants.CheckoutAction),
	}
}

func generateInstallStep(command, workDir string) Step {
	return Step{
		Name:             "Install dependencies",
		WorkingDirectory: workDir,
		Run:              command,
	}
}

// generateDiscoverStep lists the project's stacks, drops the test stack and
// publishes the rest as a JSON array on the step's "stacks" output.
func generateDiscoverStep(testStack, workDir string) Step {
	jq := shellJoinArgs([]string{
		"jq", "-c",
		"--arg", "test", `"$` + constants.TestStackEnvVar + `"`,
		"[.[].name | select(. != $test)]",
	})

	var run strings.Builder
	run.WriteString("curl -fsSL https://get.pulumi.com | sh\n")
	run.WriteString("export PATH=\"$HOME/.pulumi/bin:$PATH\"\n")
	fmt.Fprintf(&run, "stacks=$(pulumi stack ls --json | %s)\n", jq)
	fmt.Fprintf(&run, "echo \"%s=${stacks}\" >> \"$GITHUB_OUTPUT\"\n", constants.StacksOutputName)

	stepLog.Printf("Generated discover step excluding test stack %q", testStack)
	return Step{
		Name:             "Discover stacks",
		ID:               constants.DiscoverStepID,
		WorkingDirectory: workDir,
		Env: map[string]string{
			constants.TestStackEnvVar:         testStack,
			constants.PulumiAccessTokenSecret: secretExpression(constants.PulumiAccessTokenSecret),
		},
		Run: run.String(),
	}
}

// generateDeployStep runs "pulumi up" for stack through the Pulumi action,
// without confirmation prompts or pull request comments.
func generateDeployStep(pins ActionPins, stack, workDir string) Step {
	return Step{
		Name: "Deploy " + stack,
		Uses: pins.Ref(constants.PulumiDeployAction),
		With: map[string]any{
			"command":       "up",
			"stack-name":    stack,
			"work-dir":      workDir,
			"comment-on-pr": false,
			"github-token":  secretExpression(constants.GitHubTokenSecret),
		},
		Env: map[string]string{
			constants.PulumiAccessTokenSecret: secretExpression(constants.PulumiAccessTokenSecret),
			"PULUMI_SKIP_CONFIRMATIONS":       "true",
		},
	}
}

func secretExpression(name string) string {
	return wrapExpression(&PropertyAccessNode{PropertyPath: "secrets." + name})
}

// renderStep writes s as a list item indented for a job's steps block.
func renderStep(yaml *strings.Builder, s Step) {
	fmt.Fprintf(yaml, "      - name: %s\n", yamlScalar(s.Name))
	if s.ID != "" {
		fmt.Fprintf(yaml, "        id: %s\n", yamlScalar(s.ID))
	}
	if s.Uses != "" {
		fmt.Fprintf(yaml, "        uses: %s\n", s.Uses)
	}
	if len(s.With) > 0 {
		yaml.WriteString("        with:\n")
		for _, k := range sortedKeys(s.With) {
			fmt.Fprintf(yaml, "          %s: %s\n", k, yamlValue(s.With[k]))
		}
	}
	if s.WorkingDirectory != "" {
		fmt.Fprintf(yaml, "        working-directory: %s\n", yamlScalar(s.WorkingDirectory))
	}
	if len(s.Env) > 0 {
		yaml.WriteString("        env:\n")
		for _, k := range sortedKeys(s.Env) {
			fmt.Fprintf(yaml, "          %s: %s\n", k, yamlScalar(s.Env[k]))
		}
	}
	if s.Run != "" {
		writeRun(yaml, s.Run)
	}
}

func writeRun(yaml *strings.Builder, run string) {
	if !strings.Contains(run, "\n") {
		fmt.Fprintf(yaml, "        run: %s\n", yamlScalar(run))
		return
	}
	yaml.WriteString("        run: |\n")
	for _, line := range strings.Split(strings.TrimRight(run, "\n"), "\n") {
		if line == "" {
			yaml.WriteString("\n")
			continue
		}
		fmt.Fprintf(yaml, "          %s\n", line)
	}
}
