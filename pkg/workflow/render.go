package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/ringods/projen-pulumi/pkg/constants"
	"github.com/ringods/projen-pulumi/pkg/logger"
)

var renderLog = logger.New("workflow:render")

// GeneratedHeader opens every rendered workflow.
const GeneratedHeader = "# Code generated by " + constants.CLIName + ". DO NOT EDIT.\n" +
	"# To regenerate, run: " + constants.CLIName + " synth\n"

// RenderWorkflow renders graph as a GitHub Actions workflow document. Equal
// graphs render to identical bytes.
func RenderWorkflow(graph *JobGraph) (string, error) {
	jm, err := graph.JobManager()
	if err != nil {
		return "", fmt.Errorf("invalid job graph: %w", err)
	}

	var yaml strings.Builder
	yaml.WriteString(GeneratedHeader)
	yaml.WriteString("\n")
	fmt.Fprintf(&yaml, "name: %s\n", yamlScalar(graph.Config.WorkflowName))
	// "on" is quoted so YAML 1.1 readers do not turn it into true
	yaml.WriteString("\"on\":\n")
	yaml.WriteString("  push:\n")
	yaml.WriteString("    branches:\n")
	fmt.Fprintf(&yaml, "      - %s\n", yamlScalar(graph.Config.Branch))
	yaml.WriteString("jobs:\n")
	yaml.WriteString(jm.RenderToYAML())

	renderLog.Printf("Rendered workflow %s (%d bytes)", graph.Config.WorkflowName, yaml.Len())
	return yaml.String(), nil
}

// PinActions returns a copy of graph whose action references are pinned to
// commit SHAs, keeping the tag as a trailing comment:
//
//	uses: actions/checkout@<sha> # v4
//
// graph itself is not modified.
func PinActions(ctx context.Context, graph *JobGraph, resolver *ActionResolver) (*JobGraph, error) {
	pinned := *graph
	pinned.CommonSetupSteps = cloneSteps(graph.CommonSetupSteps)
	if err := pinSteps(ctx, pinned.CommonSetupSteps, resolver); err != nil {
		return nil, err
	}
	pinned.Jobs = make([]*Job, len(graph.Jobs))

	for i, job := range graph.Jobs {
		copied := *job
		copied.Steps = cloneSteps(job.Steps)
		if err := pinSteps(ctx, copied.Steps, resolver); err != nil {
			return nil, err
		}
		pinned.Jobs[i] = &copied
	}

	renderLog.Printf("Pinned actions in %d jobs", len(pinned.Jobs))
	return &pinned, nil
}

// pinSteps rewrites version-tagged uses: references in steps to commit SHAs.
func pinSteps(ctx context.Context, steps []Step, resolver *ActionResolver) error {
	for i := range steps {
		step := &steps[i]
		if step.Uses == "" {
			continue
		}
		repo, version := SplitActionRef(step.Uses)
		if version == "" || !isValidVersionTag(version) {
			renderLog.Printf("Leaving %s unpinned", step.Uses)
			continue
		}
		sha, err := resolver.ResolveSHA(ctx, repo, version)
		if err != nil {
			return err
		}
		step.Uses = fmt.Sprintf("%s@%s # %s", repo, sha, version)
	}
	return nil
}
