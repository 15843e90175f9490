package parser

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/ringods/projen-pulumi/pkg/logger"
)

var configDocLog = logger.New("parser:config_document")

// ConfigFormat is the syntax of a config file.
type ConfigFormat string

const (
	FormatYAML ConfigFormat = "yaml"
	FormatTOML ConfigFormat = "toml"
)

// DetectConfigFormat picks the format from the file extension. Anything that
// is not .toml is read as YAML.
func DetectConfigFormat(filename string) ConfigFormat {
	if strings.EqualFold(filepath.Ext(filename), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// ParseError is a syntax error in a config file. Line and Column are zero
// when the parser reported no position.
type ParseError struct {
	File    string
	Line    int
	Column  int
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, max(e.Column, 1), e.Message)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ParseConfigDocument parses a YAML or TOML config file into a generic map.
// An empty or comment-only file yields an empty map.
func ParseConfigDocument(filename string, content []byte) (map[string]any, error) {
	format := DetectConfigFormat(filename)
	configDocLog.Printf("Parsing %s config document: %s (%d bytes)", format, filename, len(content))

	doc := make(map[string]any)
	if len(bytes.TrimSpace(content)) == 0 {
		return doc, nil
	}

	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(content, &doc); err != nil {
			line, column, message := ExtractTOMLError(err)
			return nil, &ParseError{File: filename, Line: line, Column: column, Message: message, Cause: err}
		}
	default:
		var raw any
		if err := yaml.Unmarshal(content, &raw); err != nil {
			line, column, message := ExtractYAMLError(err)
			return nil, &ParseError{File: filename, Line: line, Column: column, Message: message, Cause: err}
		}
		switch v := raw.(type) {
		case nil:
		case map[string]any:
			doc = v
		default:
			return nil, &ParseError{
				File:    filename,
				Line:    1,
				Column:  1,
				Message: fmt.Sprintf("config must be a mapping, got %T", raw),
			}
		}
	}

	configDocLog.Printf("Parsed %d top-level keys", len(doc))
	return doc, nil
}
