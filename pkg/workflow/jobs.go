package workflow

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ringods/projen-pulumi/pkg/logger"
)

var jobLog = logger.New("workflow:jobs")

// Job is one entry under the workflow's jobs key.
type Job struct {
	Name     string
	Needs    []string
	If       string
	RunsOn   string
	Strategy *Strategy
	Outputs  map[string]string
	Steps    []Step
}

// Strategy holds a job's matrix. Each matrix key is bound to an expression
// that evaluates to a list at run time.
type Strategy struct {
	Matrix map[string]string
}

// JobManager collects jobs, validates their dependency edges and renders
// them in insertion order.
type JobManager struct {
	jobs  map[string]*Job
	order []string
}

// NewJobManager creates an empty job manager
func NewJobManager() *JobManager {
	return &JobManager{jobs: make(map[string]*Job)}
}

// AddJob registers job. Names must be non-empty and unique.
func (jm *JobManager) AddJob(job *Job) error {
	if job.Name == "" {
		return fmt.Errorf("job name cannot be empty")
	}
	if _, exists := jm.jobs[job.Name]; exists {
		jobLog.Printf("Rejected duplicate job: %s", job.Name)
		return fmt.Errorf("job '%s' already exists", job.Name)
	}
	jobLog.Printf("Adding job: %s (needs=%v)", job.Name, job.Needs)
	jm.jobs[job.Name] = job
	jm.order = append(jm.order, job.Name)
	return nil
}

// ValidateDependencies checks that every needs entry names a registered job
// and that the needs graph has no cycle.
func (jm *JobManager) ValidateDependencies() error {
	for _, name := range jm.order {
		for _, dep := range jm.jobs[name].Needs {
			if _, ok := jm.jobs[dep]; !ok {
				return fmt.Errorf("job '%s' depends on non-existent job '%s'", name, dep)
			}
		}
	}
	if _, err := jm.GetTopologicalOrder(); err != nil {
		return err
	}
	return nil
}

// GetTopologicalOrder returns job names so that every job follows all of its
// needs. Ties keep insertion order.
func (jm *JobManager) GetTopologicalOrder() ([]string, error) {
	inDegree := make(map[string]int, len(jm.jobs))
	dependents := make(map[string][]string)
	for _, name := range jm.order {
		for _, dep := range jm.jobs[name].Needs {
			if _, ok := jm.jobs[dep]; !ok {
				continue
			}
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var ready, result []string
	for _, name := range jm.order {
		if inDegree[name] == 0 {
			ready = append(ready, name)
		}
	}
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		result = append(result, name)
		for _, next := range dependents[name] {
			inDegree[next]--
			if inDegree[next] == 0 {
				ready = append(ready, next)
			}
		}
	}

	if len(result) != len(jm.order) {
		var cyclic []string
		for _, name := range jm.order {
			if !slices.Contains(result, name) {
				cyclic = append(cyclic, name)
			}
		}
		return nil, fmt.Errorf("dependency cycle between jobs: %s", strings.Join(cyclic, ", "))
	}
	return result, nil
}

// RenderToYAML renders every job as the body of a workflow's jobs key.
func (jm *JobManager) RenderToYAML() string {
	var yaml strings.Builder
	for _, name := range jm.order {
		renderJob(&yaml, jm.jobs[name])
	}
	return yaml.String()
}

func renderJob(yaml *strings.Builder, job *Job) {
	fmt.Fprintf(yaml, "  %s:\n", job.Name)

	switch len(job.Needs) {
	case 0:
	case 1:
		fmt.Fprintf(yaml, "    needs: %s\n", job.Needs[0])
	default:
		yaml.WriteString("    needs:\n")
		for _, dep := range job.Needs {
			fmt.Fprintf(yaml, "      - %s\n", dep)
		}
	}

	if job.If != "" {
		fmt.Fprintf(yaml, "    if: %s\n", yamlScalar(job.If))
	}
	if job.RunsOn != "" {
		fmt.Fprintf(yaml, "    runs-on: %s\n", yamlScalar(job.RunsOn))
	}

	if job.Strategy != nil {
		yaml.WriteString("    strategy:\n")
		if len(job.Strategy.Matrix) > 0 {
			yaml.WriteString("      matrix:\n")
			for _, k := range sortedKeys(job.Strategy.Matrix) {
				fmt.Fprintf(yaml, "        %s: %s\n", k, yamlScalar(job.Strategy.Matrix[k]))
			}
		}
	}

	if len(job.Outputs) > 0 {
		yaml.WriteString("    outputs:\n")
		for _, k := range sortedKeys(job.Outputs) {
			fmt.Fprintf(yaml, "      %s: %s\n", k, yamlScalar(job.Outputs[k]))
		}
	}

	if len(job.Steps) > 0 {
		yaml.WriteString("    steps:\n")
		for _, step := range job.Steps {
			renderStep(yaml, step)
		}
	}
}
