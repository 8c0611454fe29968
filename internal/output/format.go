package output

import (
	"fmt"
	"strings"
)

// OutputFormat specifies a structured output format.
type OutputFormat string

const (
	// FormatYAML outputs in YAML format.
	FormatYAML OutputFormat = "yaml"

	// FormatJSON outputs in JSON format.
	FormatJSON OutputFormat = "json"
)

// String returns the string representation of the output format.
func (f OutputFormat) String() string {
	return string(f)
}

// IsValid checks if the output format is valid.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatYAML, FormatJSON:
		return true
	default:
		return false
	}
}

// ParseOutputFormat parses a case-insensitive format name. An empty string
// means FormatYAML.
func ParseOutputFormat(s string) (OutputFormat, error) {
	if s == "" {
		return FormatYAML, nil
	}
	f := OutputFormat(strings.ToLower(s))
	if !f.IsValid() {
		return "", fmt.Errorf("unknown output format %q (valid: %s)", s, strings.Join(ValidFormats(), ", "))
	}
	return f, nil
}

// ValidFormats returns a slice of valid output format strings.
func ValidFormats() []string {
	return []string{"yaml", "json"}
}
