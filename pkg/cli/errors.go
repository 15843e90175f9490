package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/ringods/projen-pulumi/pkg/console"
	"github.com/ringods/projen-pulumi/pkg/workflow"
)

// contextLines is how many source lines are shown around a config error.
const contextLines = 3

// FormatCommandError renders an error returned by a command. Config file
// errors with a known position are shown with the surrounding source lines.
func FormatCommandError(err error) string {
	var cfgErr *workflow.ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.File == "" || cfgErr.Line <= 0 {
		return console.FormatErrorMessage(err.Error())
	}

	message := cfgErr.Reason
	if cfgErr.ConfigKey != "" {
		message = "'" + cfgErr.ConfigKey + "': " + message
	}
	out := console.FormatError(console.CompilerError{
		Position: console.ErrorPosition{File: cfgErr.File, Line: cfgErr.Line, Column: cfgErr.Column},
		Type:     "error",
		Message:  message,
		Context:  readContextLines(cfgErr.File, cfgErr.Line),
	})
	if cfgErr.Suggestion != "" {
		out += "\n" + console.FormatInfoMessage(cfgErr.Suggestion)
	}
	return out
}

// readContextLines returns up to contextLines lines centered on line. The
// window is shifted so that it starts where console.FormatError numbers it.
func readContextLines(path string, line int) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	start := max(line-contextLines/2, 1)
	end := min(start+contextLines-1, len(lines))
	if start > end {
		return nil
	}
	return lines[start-1 : end]
}
