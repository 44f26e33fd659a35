package schema

import (
	"strings"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
)

// Naming utilities for deriving column names from Go field names and default
// result-shape identifiers from struct names.

// pluralizeClient is a singleton instance for consistent pluralization behavior.
var pluralizeClient = pluralizer.NewClient()

// DefaultShapeName derives the default result-shape identifier for a struct
// name: pluralized snake_case ("OrderLine" -> "order_lines").
func DefaultShapeName(structName string) string {
	return pluralize(toSnakeCase(structName))
}

// toSnakeCase converts any naming convention to snake_case.
// Handles acronym runs, digits, and already-snake inputs.
func toSnakeCase(name string) string {
	if name == "" {
		return ""
	}

	// Common acronym fields short-circuit the rune walk.
	switch name {
	case "ID":
		return "id"
	case "UUID":
		return "uuid"
	case "URL":
		return "url"
	case "JSON":
		return "json"
	case "SQL":
		return "sql"
	}

	// Already snake_case: lowercase and return.
	if strings.Contains(name, "_") && !hasUpperCase(name) {
		return strings.ToLower(name)
	}

	var result strings.Builder
	result.Grow(len(name) + 8)

	runes := []rune(name)
	for i, r := range runes {
		needsUnderscore := false
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			// aB -> a_b, a1B -> a1_b, ABc -> a_bc
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				needsUnderscore = true
			} else if unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
				needsUnderscore = true
			}
		}
		if needsUnderscore {
			result.WriteByte('_')
		}
		result.WriteRune(unicode.ToLower(r))
	}

	return result.String()
}

// pluralize converts singular nouns to their plural forms.
func pluralize(name string) string {
	if name == "" {
		return ""
	}

	// Irregulars the library trips over.
	switch strings.ToLower(name) {
	case "person":
		return "people"
	case "datum":
		return "data"
	case "criterion":
		return "criteria"
	}

	return strings.ToLower(pluralizeClient.Pluralize(name, 2, false))
}

// hasUpperCase returns true if the string contains any uppercase letters.
func hasUpperCase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
