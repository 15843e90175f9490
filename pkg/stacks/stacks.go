// Package stacks computes the set of Pulumi stacks the deploy job fans out
// over: every stack of the project except the test stack.
package stacks

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/pulumi/pulumi/sdk/v3/go/auto"
	"github.com/ringods/projen-pulumi/pkg/logger"
)

var log = logger.New("stacks:stacks")

// Filter returns names without testStack, preserving order. The result is
// never nil so it always encodes as a JSON array.
func Filter(names []string, testStack string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == testStack {
			continue
		}
		out = append(out, name)
	}
	log.Printf("Filtered %d stacks to %d (test stack %q)", len(names), len(out), testStack)
	return out
}

// stackListEntry is one element of `pulumi stack ls --json`.
type stackListEntry struct {
	Name    string `json:"name"`
	Current bool   `json:"current"`
}

// ParseStackList extracts stack names from `pulumi stack ls --json` output.
func ParseStackList(data []byte) ([]string, error) {
	var entries []stackListEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse stack list: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		names = append(names, e.Name)
	}
	return names, nil
}

// EncodeOutput renders names the way the discover step writes them to
// $GITHUB_OUTPUT: a compact JSON array, "[]" when empty.
func EncodeOutput(names []string) string {
	if len(names) == 0 {
		return "[]"
	}
	// []string always marshals
	data, _ := json.Marshal(names)
	return string(data)
}

// Lister lists the stacks of a Pulumi project.
type Lister interface {
	ListStacks(ctx context.Context) ([]string, error)
}

// WorkspaceLister lists stacks through the Pulumi Automation API. It needs
// the pulumi CLI on PATH and a logged-in backend.
type WorkspaceLister struct {
	WorkDir string
}

// ListStacks implements Lister.
func (l WorkspaceLister) ListStacks(ctx context.Context) ([]string, error) {
	log.Printf("Opening Pulumi workspace in %s", l.WorkDir)
	ws, err := auto.NewLocalWorkspace(ctx, auto.WorkDir(l.WorkDir))
	if err != nil {
		return nil, fmt.Errorf("failed to open Pulumi workspace in %s: %w", l.WorkDir, err)
	}
	summaries, err := ws.ListStacks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stacks: %w", err)
	}
	names := make([]string, 0, len(summaries))
	for _, s := range summaries {
		names = append(names, s.Name)
	}
	log.Printf("Workspace reports %d stacks", len(names))
	return names, nil
}

// Result is the outcome of a discovery run.
type Result struct {
	All            []string
	Deploy         []string
	TestStack      string
	TestStackFound bool
}

// Output is the value the discover job publishes for this result.
func (r Result) Output() string {
	return EncodeOutput(r.Deploy)
}

// Discover lists stacks and splits off the test stack.
func Discover(ctx context.Context, lister Lister, testStack string) (Result, error) {
	all, err := lister.ListStacks(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{
		All:            all,
		Deploy:         Filter(all, testStack),
		TestStack:      testStack,
		TestStackFound: slices.Contains(all, testStack),
	}, nil
}
