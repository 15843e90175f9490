// Package console formats user-facing terminal output.
//
// All Format* helpers return strings; callers decide which stream to write
// them to (diagnostics go to stderr, machine-readable output to stdout).
package console

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/ringods/projen-pulumi/pkg/logger"
)

var consoleLog = logger.New("console:console")

var (
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	verboseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	commandStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	locationStyle = lipgloss.NewStyle().Bold(true)
	contextStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
)

// ErrorPosition is a location in a source file. Zero Line/Column mean the
// position is unknown.
type ErrorPosition struct {
	File   string
	Line   int
	Column int
}

// CompilerError is a diagnostic tied to a file position.
type CompilerError struct {
	Position ErrorPosition
	Type     string // "error" or "warning"
	Message  string
	Context  []string // source lines around Position.Line
	Hint     string
}

// FormatSuccessMessage formats a success line.
func FormatSuccessMessage(message string) string {
	return successStyle.Render("✓ ") + message
}

// FormatInfoMessage formats an informational line.
func FormatInfoMessage(message string) string {
	return infoStyle.Render("ℹ ") + message
}

// FormatWarningMessage formats a warning line.
func FormatWarningMessage(message string) string {
	return warningStyle.Render("⚠ ") + message
}

// FormatErrorMessage formats an error line.
func FormatErrorMessage(message string) string {
	return errorStyle.Render("✗ ") + message
}

// FormatVerboseMessage formats a line only shown in verbose mode.
func FormatVerboseMessage(message string) string {
	return verboseStyle.Render(message)
}

// FormatCommandMessage formats a command the user may want to run.
func FormatCommandMessage(command string) string {
	return commandStyle.Render("⚡ " + command)
}

// FormatLocationMessage formats a line pointing at a file or directory.
func FormatLocationMessage(message string) string {
	return "📁 " + message
}

// LogVerbose writes message to stderr when verbose is set.
func LogVerbose(verbose bool, message string) {
	if verbose {
		fmt.Fprintln(os.Stderr, FormatVerboseMessage(message))
	}
}

// FormatError renders a diagnostic as "file:line:col: type: message"
// followed by numbered context lines when present.
func FormatError(err CompilerError) string {
	var b strings.Builder

	errType := err.Type
	if errType == "" {
		errType = "error"
	}

	location := ToRelativePath(err.Position.File)
	if err.Position.Line > 0 {
		location = fmt.Sprintf("%s:%d:%d", location, err.Position.Line, max(err.Position.Column, 1))
	}

	typeStyle := errorStyle
	if errType == "warning" {
		typeStyle = warningStyle
	}
	fmt.Fprintf(&b, "%s: %s %s", locationStyle.Render(location), typeStyle.Render(errType+":"), err.Message)

	if len(err.Context) > 0 && err.Position.Line > 0 {
		start := max(err.Position.Line-len(err.Context)/2, 1)
		width := len(fmt.Sprint(start + len(err.Context) - 1))
		for i, line := range err.Context {
			fmt.Fprintf(&b, "\n%s %s", contextStyle.Render(fmt.Sprintf("%*d |", width, start+i)), line)
		}
	}

	return b.String()
}

// FormatErrorWithSuggestions formats an error line followed by a bulleted
// list of suggestions. An empty list omits the section.
func FormatErrorWithSuggestions(message string, suggestions []string) string {
	var b strings.Builder
	b.WriteString(FormatErrorMessage(message))
	if len(suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, s := range suggestions {
			b.WriteString("\n  • " + s)
		}
	}
	return b.String()
}

// ToRelativePath returns path relative to the working directory when that
// is shorter to read. Relative paths are returned unchanged.
func ToRelativePath(path string) string {
	if path == "" || !filepath.IsAbs(path) {
		return path
	}
	wd, err := os.Getwd()
	if err != nil {
		consoleLog.Printf("Could not get working directory: %v", err)
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil {
		return path
	}
	return rel
}

// TableConfig describes a table for RenderTable.
type TableConfig struct {
	Headers []string
	Rows    [][]string
}

// RenderTable renders a bordered table. An empty config renders nothing.
func RenderTable(config TableConfig) string {
	if len(config.Headers) == 0 && len(config.Rows) == 0 {
		return ""
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(config.Headers...).
		Rows(config.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}
