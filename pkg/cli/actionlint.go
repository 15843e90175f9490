package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rhysd/actionlint"
	"github.com/ringods/projen-pulumi/pkg/console"
	"github.com/ringods/projen-pulumi/pkg/logger"
	"github.com/sourcegraph/conc/pool"
)

var actionlintLog = logger.New("cli:actionlint")

const actionlintChecksURL = "https://github.com/rhysd/actionlint/blob/main/docs/checks.md"

// getActionlintDocsURL returns the documentation URL for a given actionlint error kind
func getActionlintDocsURL(kind string) string {
	if kind == "" {
		return actionlintChecksURL
	}

	anchor := kind
	switch kind {
	case "runner-label":
		anchor = "check-runner-labels"
	case "shellcheck":
		anchor = "check-shellcheck-integ"
	case "expression", "syntax-check":
		anchor = "check-syntax-expression"
	default:
		if !strings.HasPrefix(anchor, "check-") {
			anchor = "check-" + anchor
		}
	}
	return actionlintChecksURL + "#" + anchor
}

// ActionlintStats aggregates the results of a lint run.
type ActionlintStats struct {
	TotalWorkflows int
	TotalErrors    int
	ErrorsByKind   map[string]int
}

// lintResult is the outcome of linting one workflow file.
type lintResult struct {
	File   string
	Errors []*actionlint.Error
	Err    error
}

// lintWorkflowFiles lints files concurrently with the in-process actionlint
// linter. Results are sorted by file name.
func lintWorkflowFiles(files []string, maxGoroutines int) []lintResult {
	p := pool.NewWithResults[lintResult]().WithMaxGoroutines(max(maxGoroutines, 1))
	for _, file := range files {
		file := file
		p.Go(func() lintResult {
			content, err := os.ReadFile(file)
			if err != nil {
				return lintResult{File: file, Err: fmt.Errorf("failed to read %s: %w", file, err)}
			}
			errs, err := lintWorkflowContent(file, content)
			return lintResult{File: file, Errors: errs, Err: err}
		})
	}

	results := p.Wait()
	sort.Slice(results, func(i, j int) bool { return results[i].File < results[j].File })
	return results
}

// lintWorkflowContent runs actionlint on a single document. Shellcheck and
// pyflakes integration stay disabled so the result does not depend on tools
// installed on the host.
func lintWorkflowContent(path string, content []byte) ([]*actionlint.Error, error) {
	linter, err := actionlint.NewLinter(io.Discard, &actionlint.LinterOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create actionlint linter: %w", err)
	}
	errs, err := linter.Lint(path, content, nil)
	if err != nil {
		return nil, fmt.Errorf("actionlint failed on %s: %w", path, err)
	}
	actionlintLog.Printf("Linted %s: %d issues", path, len(errs))
	return errs, nil
}

// collectActionlintStats folds lint results into aggregate statistics.
func collectActionlintStats(results []lintResult) ActionlintStats {
	stats := ActionlintStats{ErrorsByKind: make(map[string]int)}
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		stats.TotalWorkflows++
		stats.TotalErrors += len(r.Errors)
		for _, e := range r.Errors {
			stats.ErrorsByKind[e.Kind]++
		}
	}
	return stats
}

// formatActionlintError renders one issue with a link to its check.
func formatActionlintError(e *actionlint.Error) string {
	msg := console.FormatError(console.CompilerError{
		Position: console.ErrorPosition{File: e.Filepath, Line: e.Line, Column: e.Column},
		Type:     "error",
		Message:  fmt.Sprintf("[%s] %s", e.Kind, e.Message),
	})
	return msg + "\n  " + getActionlintDocsURL(e.Kind)
}

// displayActionlintSummary displays aggregate statistics for a lint run
func displayActionlintSummary(w io.Writer, stats ActionlintStats) {
	if stats.TotalWorkflows == 0 {
		return
	}

	separator := strings.Repeat("━", 60)
	fmt.Fprintf(w, "\n%s\n", separator)
	fmt.Fprintf(w, "%s\n", console.FormatInfoMessage("Actionlint Summary"))
	fmt.Fprintf(w, "%s\n\n", separator)
	fmt.Fprintf(w, "%s\n", console.FormatSuccessMessage(fmt.Sprintf("Checked %d workflow(s)", stats.TotalWorkflows)))

	if stats.TotalErrors == 0 {
		fmt.Fprintf(w, "%s\n", console.FormatSuccessMessage("No issues found"))
	} else {
		fmt.Fprintf(w, "%s\n", console.FormatWarningMessage(fmt.Sprintf("Found %d issue(s)", stats.TotalErrors)))
		kinds := make([]string, 0, len(stats.ErrorsByKind))
		for kind := range stats.ErrorsByKind {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		fmt.Fprintf(w, "\n%s\n", console.FormatInfoMessage("Issues by type:"))
		for _, kind := range kinds {
			fmt.Fprintf(w, "  • %s: %d\n", kind, stats.ErrorsByKind[kind])
		}
	}

	fmt.Fprintf(w, "\n%s\n", separator)
}
