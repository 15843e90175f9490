package parser

import (
	"regexp"
	"strings"

	"github.com/ringods/projen-pulumi/pkg/logger"
)

var jsonPathLog = logger.New("parser:json_path_locator")

// JSONPathLocation represents a location in config source corresponding to a JSON path
type JSONPathLocation struct {
	Line   int
	Column int
	Found  bool
}

var (
	additionalPropsPattern = regexp.MustCompile(`additional propert(?:y|ies) (.+?) not allowed`)
	quotedNamePattern      = regexp.MustCompile(`'([^']+)'`)
)

// extractAdditionalPropertyNames extracts property names from additional properties error messages
// Example: "additional properties 'invalid_prop', 'another_invalid' not allowed" -> ["invalid_prop", "another_invalid"]
func extractAdditionalPropertyNames(errorMessage string) []string {
	match := additionalPropsPattern.FindStringSubmatch(errorMessage)
	if len(match) < 2 {
		return nil
	}

	var properties []string
	for _, propMatch := range quotedNamePattern.FindAllStringSubmatch(match[1], -1) {
		if prop := strings.TrimSpace(propMatch[1]); prop != "" {
			properties = append(properties, prop)
		}
	}
	return properties
}

// parseJSONPointer splits "/a/b~1c" into ["a", "b/c"].
func parseJSONPointer(pointer string) []string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return nil
	}
	parts := strings.Split(pointer, "/")
	for i, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		parts[i] = strings.ReplaceAll(part, "~0", "~")
	}
	return parts
}

// LocateConfigPath finds the line and column of the key addressed by a JSON
// pointer. For additional-property errors the offending key is located
// instead of the object holding it.
func LocateConfigPath(content string, format ConfigFormat, pointer string, errorMessage string) JSONPathLocation {
	segments := parseJSONPointer(pointer)
	if names := extractAdditionalPropertyNames(errorMessage); len(names) > 0 {
		segments = append(segments, names[0])
	}
	jsonPathLog.Printf("Locating %v in %s source", segments, format)

	if len(segments) == 0 {
		return JSONPathLocation{Line: 1, Column: 1, Found: true}
	}

	var loc JSONPathLocation
	if format == FormatTOML {
		loc = locateInTOML(content, segments)
	} else {
		loc = locateInYAML(content, segments)
	}
	if !loc.Found {
		return JSONPathLocation{Line: 1, Column: 1}
	}
	jsonPathLog.Printf("Located at line=%d, column=%d", loc.Line, loc.Column)
	return loc
}

func locateInYAML(content string, segments []string) JSONPathLocation {
	parentIndent := -1
	depth := 0
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if depth > 0 && indent <= parentIndent {
			// Left the parent mapping without finding the key
			break
		}
		if !hasKey(trimmed, segments[depth], ":") {
			continue
		}
		depth++
		if depth == len(segments) {
			return JSONPathLocation{Line: i + 1, Column: indent + 1, Found: true}
		}
		parentIndent = indent
	}
	return JSONPathLocation{}
}

func locateInTOML(content string, segments []string) JSONPathLocation {
	table := ""
	want := strings.Join(segments[:len(segments)-1], ".")
	key := segments[len(segments)-1]
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if strings.HasPrefix(trimmed, "[") {
			table = strings.Trim(trimmed, "[] ")
			continue
		}
		if table == want && hasKey(trimmed, key, "=") {
			return JSONPathLocation{Line: i + 1, Column: indent + 1, Found: true}
		}
		// Inline tables such as actionVersions = { ... } point at the parent key
		if table == "" && len(segments) > 1 && hasKey(trimmed, segments[0], "=") {
			return JSONPathLocation{Line: i + 1, Column: indent + 1, Found: true}
		}
	}
	return JSONPathLocation{}
}

// hasKey reports whether line starts with key, bare or quoted, followed by sep.
func hasKey(line, key, sep string) bool {
	for _, candidate := range []string{key, `"` + key + `"`, "'" + key + "'"} {
		if rest, ok := strings.CutPrefix(line, candidate); ok {
			if strings.HasPrefix(strings.TrimSpace(rest), sep) {
				return true
			}
		}
	}
	return false
}
