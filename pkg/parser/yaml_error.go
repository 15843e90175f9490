package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/ringods/projen-pulumi/pkg/logger"
)

var yamlErrorLog = logger.New("parser:yaml_error")

// ExtractYAMLError extracts line and column information from YAML parsing errors.
// Line and column are zero when the error carries no usable position.
func ExtractYAMLError(err error) (line int, column int, message string) {
	errStr := err.Error()

	line, column, message = extractFromGoccyFormat(errStr)
	if line > 0 || column > 0 {
		yamlErrorLog.Printf("Extracted error location from goccy format: line=%d, column=%d", line, column)
		return line, column, message
	}

	yamlErrorLog.Print("No location in YAML error, returning first line of message")
	return 0, 0, firstLine(errStr)
}

// extractFromGoccyFormat extracts line/column from goccy/go-yaml's [line:column] message format
func extractFromGoccyFormat(errStr string) (line int, column int, message string) {
	// goccy format looks like "[5:10] mapping value is not allowed in this context"
	// followed by an annotated source excerpt we do not need.
	start := strings.Index(errStr, "[")
	end := strings.Index(errStr, "]")
	if start < 0 || end <= start {
		return 0, 0, ""
	}

	locationPart := errStr[start+1 : end]
	messagePart := firstLine(strings.TrimSpace(errStr[end+1:]))

	lineStr, columnStr, ok := strings.Cut(locationPart, ":")
	if !ok {
		return 0, 0, ""
	}
	if _, parseErr := fmt.Sscanf(strings.TrimSpace(lineStr), "%d", &line); parseErr != nil {
		return 0, 0, ""
	}
	if _, parseErr := fmt.Sscanf(strings.TrimSpace(columnStr), "%d", &column); parseErr != nil {
		return 0, 0, ""
	}

	// Avoid pointing at 1:1 when the parser had no real location
	if line <= 1 && column <= 1 {
		return 0, 0, messagePart
	}
	return line, column, messagePart
}

// ExtractTOMLError extracts the position of a go-toml decode error.
func ExtractTOMLError(err error) (line int, column int, message string) {
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		line, column = decodeErr.Position()
		yamlErrorLog.Printf("Extracted error location from TOML decode error: line=%d, column=%d", line, column)
		return line, column, decodeErr.Error()
	}
	return 0, 0, firstLine(err.Error())
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
