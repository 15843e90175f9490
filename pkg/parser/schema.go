package parser

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ringods/projen-pulumi/pkg/logger"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

var schemaLog = logger.New("parser:schema")

//go:embed schemas/config.json
var configSchemaJSON string

const configSchemaURL = "config.json"

var (
	configSchemaOnce sync.Once
	configSchema     *jsonschema.Schema
	configSchemaErr  error
)

// getConfigSchema compiles the embedded config schema once per process.
func getConfigSchema() (*jsonschema.Schema, error) {
	configSchemaOnce.Do(func() {
		schemaLog.Print("Compiling config schema")
		var schemaDoc any
		if err := json.Unmarshal([]byte(configSchemaJSON), &schemaDoc); err != nil {
			configSchemaErr = fmt.Errorf("failed to parse config schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(configSchemaURL, schemaDoc); err != nil {
			configSchemaErr = fmt.Errorf("failed to add config schema: %w", err)
			return
		}
		configSchema, configSchemaErr = compiler.Compile(configSchemaURL)
	})
	return configSchema, configSchemaErr
}

// SchemaViolation is one schema failure, positioned in the source file
// when it could be located.
type SchemaViolation struct {
	Path    string
	Message string
	Line    int
	Column  int
}

// SchemaValidationError lists every schema violation in a config file.
type SchemaValidationError struct {
	File       string
	Violations []SchemaViolation
}

func (e *SchemaValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: config does not match schema", e.File)
	for _, v := range e.Violations {
		path := v.Path
		if path == "" {
			path = "/"
		}
		if v.Line > 0 {
			fmt.Fprintf(&b, "\n  %d:%d %s: %s", v.Line, v.Column, path, v.Message)
		} else {
			fmt.Fprintf(&b, "\n  %s: %s", path, v.Message)
		}
	}
	return b.String()
}

// ValidateConfigSchema validates a parsed config document. content is the
// raw file text, used only to position violations.
func ValidateConfigSchema(doc map[string]any, filename string, content []byte) error {
	schema, err := getConfigSchema()
	if err != nil {
		return err
	}

	// Round-trip through JSON so TOML and YAML scalar types match what the
	// validator expects.
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to normalize config document: %w", err)
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("failed to normalize config document: %w", err)
	}

	err = schema.Validate(instance)
	if err == nil {
		schemaLog.Printf("Config %s passed schema validation", filename)
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return err
	}

	format := DetectConfigFormat(filename)
	var violations []SchemaViolation
	for _, unit := range validationErr.BasicOutput().Errors {
		if unit.Error == nil {
			continue
		}
		message := unit.Error.String()
		if strings.HasPrefix(message, "validation failed") {
			continue
		}
		loc := LocateConfigPath(string(content), format, unit.InstanceLocation, message)
		v := SchemaViolation{Path: unit.InstanceLocation, Message: message}
		if loc.Found {
			v.Line, v.Column = loc.Line, loc.Column
		}
		violations = append(violations, v)
	}
	if len(violations) == 0 {
		violations = append(violations, SchemaViolation{Message: err.Error()})
	}
	sort.SliceStable(violations, func(i, j int) bool {
		return violations[i].Line < violations[j].Line
	})

	schemaLog.Printf("Config %s has %d schema violations", filename, len(violations))
	return &SchemaValidationError{File: filename, Violations: violations}
}
