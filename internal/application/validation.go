package application

import (
	"fmt"
	"strings"

	"unsort/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "noteID" -> "note ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"noteID":     "note ID",
		"categoryID": "category ID",
		"clusterID":  "cluster ID",
		"itemID":     "item ID",
		"text":       "text",
		"name":       "name",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidateSection checks that name is one of the fixed cluster sections.
func ValidateSection(fieldName, name string) (domain.Section, error) {
	section, ok := domain.ParseSection(name)
	if !ok {
		names := make([]string, 0, len(domain.Sections))
		for _, s := range domain.Sections {
			names = append(names, string(s))
		}
		return "", &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("unknown section %q (expected one of %s)", name, strings.Join(names, ", ")),
		}
	}
	return section, nil
}

// ValidateClusterID checks that id is present and fits on one line.
func ValidateClusterID(fieldName, id string) error {
	if err := ValidateRequired(fieldName, id); err != nil {
		return err
	}
	if strings.ContainsAny(id, "\n\r") {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("invalid %s: %q", formatFieldName(fieldName), id),
		}
	}
	return nil
}
