package workflow

import (
	"github.com/ringods/projen-pulumi/pkg/constants"
	"github.com/ringods/projen-pulumi/pkg/logger"
)

var synthLog = logger.New("workflow:synthesizer")

// JobGraph is the synthesized deployment workflow: discover, test and
// deploy, in that order.
type JobGraph struct {
	Config           WorkflowConfig
	Runtime          RuntimeResolution
	CommonSetupSteps []Step
	Jobs             []*Job
}

// Job returns the job called name, or nil.
func (g *JobGraph) Job(name string) *Job {
	for _, job := range g.Jobs {
		if job.Name == name {
			return job
		}
	}
	return nil
}

// JobManager loads the graph's jobs into a fresh JobManager.
func (g *JobGraph) JobManager() (*JobManager, error) {
	jm := NewJobManager()
	for _, job := range g.Jobs {
		if err := jm.AddJob(job); err != nil {
			return nil, err
		}
	}
	if err := jm.ValidateDependencies(); err != nil {
		return nil, err
	}
	return jm, nil
}

// DiscoverOutputExpression is the expression downstream jobs use to read the
// discovered stack list.
var DiscoverOutputExpression = BuildPropertyAccess(
	"needs." + constants.DiscoverJobName + ".outputs." + constants.StacksOutputName,
)

// DeployCondition skips the deploy job when discovery found no stacks
// besides the test stack.
func DeployCondition() ConditionNode {
	return BuildNotEquals(DiscoverOutputExpression, &StringLiteralNode{Value: constants.EmptyStackListJSON})
}

// Synthesize builds the job graph for config. It has no side effects and
// never fails; empty fields take their defaults and an unrecognized runtime
// resolves like nodejs.
func Synthesize(config WorkflowConfig) *JobGraph {
	config = config.WithDefaults()
	pins := NewActionPins(config.ActionVersions)
	runtime := ResolveRuntime(config.Runtime, pins)

	synthLog.Printf("Synthesizing workflow: runtime=%s (resolved %s), testStack=%s, workDir=%s",
		config.Runtime, runtime.Runtime, config.TestStack, config.WorkDir)

	common := []Step{generateCheckoutStep(pins)}
	if runtime.Setup != nil {
		common = append(common, *runtime.Setup)
	}
	common = append(common, generateInstallStep(runtime.InstallCommand, config.WorkDir))

	discover := &Job{
		Name:   constants.DiscoverJobName,
		RunsOn: config.RunsOn,
		Outputs: map[string]string{
			constants.StacksOutputName: wrapExpression(BuildPropertyAccess(
				"steps." + constants.DiscoverStepID + ".outputs." + constants.StacksOutputName,
			)),
		},
		Steps: append(cloneSteps(common), generateDiscoverStep(config.TestStack, config.WorkDir)),
	}

	test := &Job{
		Name:   constants.TestJobName,
		Needs:  []string{constants.DiscoverJobName},
		RunsOn: config.RunsOn,
		Steps:  append(cloneSteps(common), generateDeployStep(pins, config.TestStack, config.WorkDir)),
	}

	matrixStack := wrapExpression(BuildPropertyAccess("matrix." + constants.MatrixStackKey))
	deploy := &Job{
		Name:   constants.DeployJobName,
		Needs:  []string{constants.DiscoverJobName, constants.TestJobName},
		If:     DeployCondition().Render(),
		RunsOn: config.RunsOn,
		Strategy: &Strategy{
			Matrix: map[string]string{
				constants.MatrixStackKey: wrapExpression(BuildFromJSON(DiscoverOutputExpression)),
			},
		},
		Steps: append(cloneSteps(common), generateDeployStep(pins, matrixStack, config.WorkDir)),
	}

	jobs := []*Job{discover, test, deploy}
	synthLog.Printf("Synthesized %d jobs with %d common setup steps", len(jobs), len(common))
	return &JobGraph{
		Config:           config,
		Runtime:          runtime,
		CommonSetupSteps: common,
		Jobs:             jobs,
	}
}
