// Package scaffold writes the generated workflow and the supporting
// repository files into a project directory.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/ringods/projen-pulumi/pkg/constants"
	"github.com/ringods/projen-pulumi/pkg/logger"
	"github.com/ringods/projen-pulumi/pkg/parser"
	"github.com/ringods/projen-pulumi/pkg/workflow"
)

var projectLog = logger.New("scaffold:project")

// ErrConfigExists is returned by Init when the project already has a config
// file.
var ErrConfigExists = errors.New("config file already exists")

// FileStatus describes what Synth did, or would do, to a file.
type FileStatus string

const (
	StatusCreated   FileStatus = "created"
	StatusUpdated   FileStatus = "updated"
	StatusUnchanged FileStatus = "unchanged"
	StatusSkipped   FileStatus = "skipped"
)

// FileChange is one file produced by Synth.
type FileChange struct {
	Path    string // relative to the project root
	Status  FileStatus
	Content string
	Reason  string // set for skipped files
}

// SynthOptions controls a Synth run.
type SynthOptions struct {
	// DryRun computes every file without writing anything.
	DryRun bool
	// Resolver pins actions to commit SHAs when set.
	Resolver *workflow.ActionResolver
	Verbose  bool
}

// SynthResult lists the files Synth produced, in write order.
type SynthResult struct {
	Graph   *workflow.JobGraph
	Changes []FileChange
}

// Change returns the change for path, if any.
func (r *SynthResult) Change(path string) (FileChange, bool) {
	for _, c := range r.Changes {
		if c.Path == path {
			return c, true
		}
	}
	return FileChange{}, false
}

// Project is a Pulumi project rooted at Root.
type Project struct {
	Root string
}

// NewProject returns a project rooted at root.
func NewProject(root string) *Project {
	return &Project{Root: root}
}

// Synth generates the workflow for cfg and writes it together with the
// ignore, attributes and justfile scaffolding. Files are only rewritten when
// their content changes. If any write fails the files written so far are
// rolled back.
func (p *Project) Synth(ctx context.Context, cfg workflow.WorkflowConfig, opts SynthOptions) (*SynthResult, error) {
	cfg = cfg.WithDefaults()
	projectLog.Printf("Synthesizing project in %s (dryRun=%v, pin=%v)", p.Root, opts.DryRun, opts.Resolver != nil)

	graph := workflow.Synthesize(cfg)
	if opts.Resolver != nil {
		pinned, err := workflow.PinActions(ctx, graph, opts.Resolver)
		if err != nil {
			return nil, workflow.WrapErrorWithContext(err, "failed to pin actions", "check GitHub authentication with 'gh auth status'")
		}
		graph = pinned
	}

	rendered, err := workflow.RenderWorkflow(graph)
	if err != nil {
		return nil, err
	}

	changes, err := p.plan(cfg, graph, rendered)
	if err != nil {
		return nil, err
	}
	result := &SynthResult{Graph: graph, Changes: changes}
	if opts.DryRun {
		return result, nil
	}

	tracker := NewFileTracker(p.Root)
	for i := range result.Changes {
		change := &result.Changes[i]
		if change.Status == StatusSkipped || change.Status == StatusUnchanged {
			continue
		}
		status, err := tracker.WriteFile(change.Path, []byte(change.Content))
		if err != nil {
			if rbErr := tracker.RollbackAllFiles(opts.Verbose); rbErr != nil {
				projectLog.Printf("Rollback failed: %v", rbErr)
				return nil, fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
			return nil, err
		}
		change.Status = status
	}

	if opts.Resolver != nil {
		if err := opts.Resolver.Cache().Save(); err != nil {
			return nil, fmt.Errorf("failed to save action lock file: %w", err)
		}
	}

	projectLog.Printf("Synth wrote %d files", len(tracker.GetAllFiles()))
	return result, nil
}

// plan computes the content and status of every managed file.
func (p *Project) plan(cfg workflow.WorkflowConfig, graph *workflow.JobGraph, rendered string) ([]FileChange, error) {
	var changes []FileChange
	add := func(rel, content string) error {
		existing, err := p.read(rel)
		if err != nil {
			return err
		}
		changes = append(changes, FileChange{Path: rel, Status: statusFor(existing, content), Content: content})
		return nil
	}

	workflowPath := cfg.WorkflowPath()
	if err := add(workflowPath, rendered); err != nil {
		return nil, err
	}

	gitignore, err := p.read(constants.GitIgnoreFile)
	if err != nil {
		return nil, err
	}
	if err := add(constants.GitIgnoreFile, renderGitIgnore(gitignore.content, graph.Runtime.Runtime)); err != nil {
		return nil, err
	}

	gitattributes, err := p.read(constants.GitAttributesFile)
	if err != nil {
		return nil, err
	}
	if err := add(constants.GitAttributesFile, renderGitAttributes(gitattributes.content, workflowPath)); err != nil {
		return nil, err
	}

	justfile, err := p.read(constants.JustfileName)
	if err != nil {
		return nil, err
	}
	if justfile.exists && !isManagedJustfile(justfile.content) {
		projectLog.Print("Existing justfile is not managed, leaving it alone")
		changes = append(changes, FileChange{
			Path:   constants.JustfileName,
			Status: StatusSkipped,
			Reason: "justfile exists and is not managed by " + constants.CLIName,
		})
	} else if err := add(constants.JustfileName, renderJustfile(cfg, graph.Runtime)); err != nil {
		return nil, err
	}

	return changes, nil
}

type existingFile struct {
	content string
	exists  bool
}

func (p *Project) read(rel string) (existingFile, error) {
	data, err := os.ReadFile(filepath.Join(p.Root, rel))
	if errors.Is(err, os.ErrNotExist) {
		return existingFile{}, nil
	}
	if err != nil {
		return existingFile{}, fmt.Errorf("failed to read %s: %w", rel, err)
	}
	return existingFile{content: string(data), exists: true}, nil
}

func statusFor(existing existingFile, content string) FileStatus {
	switch {
	case !existing.exists:
		return StatusCreated
	case existing.content == content:
		return StatusUnchanged
	default:
		return StatusUpdated
	}
}

// Init writes a config file holding cfg. It refuses to overwrite an
// existing config file of either format.
func (p *Project) Init(cfg workflow.WorkflowConfig, format parser.ConfigFormat) (string, error) {
	if existing, found := workflow.FindConfigFile(p.Root); found {
		return existing, fmt.Errorf("%w: %s", ErrConfigExists, existing)
	}

	cfg = cfg.WithDefaults()
	header := fmt.Sprintf("# %s configuration\n", constants.CLIName)

	var (
		name string
		body []byte
		err  error
	)
	switch format {
	case parser.FormatTOML:
		name = constants.ConfigFileTOML
		body, err = toml.Marshal(cfg)
	default:
		name = constants.ConfigFileYAML
		body, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	path := filepath.Join(p.Root, name)
	if err := os.WriteFile(path, append([]byte(header), body...), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	projectLog.Printf("Wrote config file %s", path)
	return path, nil
}
