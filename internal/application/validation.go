package application

import (
	"fmt"
	"regexp"
	"strings"
)

var shortIDPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

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
// for more readable error messages (e.g., "boardID" -> "board ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"boardID":  "board ID",
		"listID":   "list ID",
		"cardID":   "card ID",
		"shortID":  "short ID",
		"adminID":  "admin ID",
		"apiKey":   "API key",
		"apiToken": "API token",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidateShortID checks that id looks like a remote card short link.
// Returns a ValidationError if it does not.
func ValidateShortID(fieldName, id string) error {
	if err := ValidateRequired(fieldName, id); err != nil {
		return err
	}
	if !shortIDPattern.MatchString(id) {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be alphanumeric, got: %s", formatFieldName(fieldName), id),
		}
	}
	return nil
}
