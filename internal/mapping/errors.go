package mapping

import (
	"fmt"
	"strings"
)

// ConfigLoadError is returned when the field mappings cannot be read or parsed.
// The application cannot run without them.
type ConfigLoadError struct {
	Source string
	Err    error
}

func (e *ConfigLoadError) Error() string {
	return fmt.Sprintf("failed to load field mappings from %s: %v", e.Source, e.Err)
}

func (e *ConfigLoadError) Unwrap() error {
	return e.Err
}

// InvalidFieldSelectionError lists requested fields that are neither mapped
// nor base fields.
type InvalidFieldSelectionError struct {
	Invalid []string
}

func (e *InvalidFieldSelectionError) Error() string {
	return fmt.Sprintf("invalid fields: %s", strings.Join(e.Invalid, ", "))
}
