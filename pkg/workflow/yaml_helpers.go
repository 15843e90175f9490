package workflow

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// yamlScalar renders s as a plain scalar when YAML reads it back as the same
// string, and single-quoted otherwise.
func yamlScalar(s string) string {
	if needsQuoting(s) {
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	}
	return s
}

// yamlValue renders a step input. Booleans and integers stay typed; strings
// go through yamlScalar.
func yamlValue(v any) string {
	switch val := v.(type) {
	case string:
		return yamlScalar(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	default:
		return yamlScalar(fmt.Sprint(val))
	}
}

var yamlReservedWords = map[string]bool{
	"true": true, "false": true, "yes": true, "no": true,
	"on": true, "off": true, "y": true, "n": true,
	"null": true, "~": true,
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	if yamlReservedWords[strings.ToLower(s)] {
		return true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	if strings.TrimSpace(s) != s {
		return true
	}
	if strings.ContainsAny(s[:1], "-?:,[]{}#&*!|>'\"%@`") {
		return true
	}
	if strings.Contains(s, ": ") || strings.Contains(s, " #") || strings.HasSuffix(s, ":") {
		return true
	}
	return strings.ContainsAny(s, "\n\t")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
