package models

import "encoding/json"

// SprintKind tags the shape of a sprint value.
type SprintKind int

const (
	// SprintNone means no sprint; encoded as null.
	SprintNone SprintKind = iota
	// SprintText is a sprint Jira returned as a bare string.
	SprintText
	// SprintObject is a structured sprint.
	SprintObject
)

// Sprint is the structured form of a sprint. Every attribute is nullable.
type Sprint struct {
	Name      *string `json:"name"`
	State     *string `json:"state"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

// SprintValue holds one of: nothing, a bare string or a structured sprint.
type SprintValue struct {
	Kind   SprintKind
	Text   string
	Sprint *Sprint
}

// NoSprint returns the empty sprint value.
func NoSprint() SprintValue {
	return SprintValue{Kind: SprintNone}
}

// SprintFromText wraps a bare sprint string.
func SprintFromText(s string) SprintValue {
	return SprintValue{Kind: SprintText, Text: s}
}

// SprintFromObject wraps a structured sprint.
func SprintFromObject(s Sprint) SprintValue {
	return SprintValue{Kind: SprintObject, Sprint: &s}
}

// MarshalJSON encodes the variant as null, a string or an object.
func (v SprintValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case SprintText:
		return json.Marshal(v.Text)
	case SprintObject:
		if v.Sprint == nil {
			return []byte("null"), nil
		}
		return json.Marshal(v.Sprint)
	default:
		return []byte("null"), nil
	}
}
