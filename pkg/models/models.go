// Package models defines data structures shared across the application.
package models

import (
	"bytes"
	"encoding/json"
)

// RawIssue is a single issue as returned by the Jira search endpoint.
type RawIssue struct {
	// Key is the issue identifier (e.g., "ABC-123")
	Key string `json:"key"`

	// Fields holds the undecoded Jira fields keyed by Jira field id
	Fields map[string]any `json:"fields"`
}

// SearchResult is one page of a Jira search.
type SearchResult struct {
	// Total is the number of matches reported by Jira, which may exceed len(Issues)
	Total int `json:"total"`

	StartAt    int `json:"startAt"`
	MaxResults int `json:"maxResults"`

	Issues []RawIssue `json:"issues"`
}

// Subtask is the minimal projection of a subtask.
type Subtask struct {
	Key     string `json:"key"`
	Summary string `json:"summary"`
}

// Field is an additional ticket attribute resolved through the field mappings.
type Field struct {
	Key   string
	Value any
}

// Ticket represents a normalized Jira issue.
type Ticket struct {
	Key         string
	Summary     string
	Description string
	Status      string
	Priority    string

	// Assignee is nil when the issue is unassigned
	Assignee *string

	Reporter string
	Created  string
	Updated  string

	// Fields are the additional mapped attributes, in requested order
	Fields []Field
}

// Get returns the value of an additional field.
func (t Ticket) Get(key string) (any, bool) {
	for _, f := range t.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// MarshalJSON flattens the base attributes and the additional fields into a
// single object. An additional field named like a base attribute replaces it
// only when its value is not null.
func (t Ticket) MarshalJSON() ([]byte, error) {
	var assignee any
	if t.Assignee != nil {
		assignee = *t.Assignee
	}

	base := []Field{
		{Key: "key", Value: t.Key},
		{Key: "summary", Value: t.Summary},
		{Key: "description", Value: t.Description},
		{Key: "status", Value: t.Status},
		{Key: "priority", Value: t.Priority},
		{Key: "assignee", Value: assignee},
		{Key: "reporter", Value: t.Reporter},
		{Key: "created", Value: t.Created},
		{Key: "updated", Value: t.Updated},
	}

	index := make(map[string]int, len(base))
	for i, f := range base {
		index[f.Key] = i
	}

	fields := base
	for _, f := range t.Fields {
		if i, ok := index[f.Key]; ok {
			if !isNull(f.Value) {
				fields[i].Value = f.Value
			}
			continue
		}
		index[f.Key] = len(fields)
		fields = append(fields, f)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func isNull(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case SprintValue:
		return val.Kind == SprintNone
	}
	return false
}

// ExtractionResult is the bundle produced by one query execution.
type ExtractionResult struct {
	// Timestamp identifies the run and is safe to use in file names
	Timestamp string `json:"timestamp"`

	Query string `json:"query"`

	// TotalTickets is the match count reported by Jira
	TotalTickets int `json:"totalTickets"`

	// ExtractedAt is the RFC3339 time the extraction started
	ExtractedAt string `json:"extractedAt"`

	ExtractionTimeMs int64    `json:"extractionTimeMs"`
	MaxResults       int      `json:"maxResults"`
	Tickets          []Ticket `json:"tickets"`

	// FieldsUsed is the effective semantic field list
	FieldsUsed []string `json:"fieldsUsed"`

	// FieldMappingsUsed lists the fields that resolved through a mapping
	FieldMappingsUsed []string `json:"fieldMappingsUsed"`
}
