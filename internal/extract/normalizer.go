// Package extract turns Jira search results into normalized tickets.
package extract

import (
	"sort"

	"github.com/danielolaszy/jiralens/internal/mapping"
	"github.com/danielolaszy/jiralens/pkg/models"
)

const unknown = "Unknown"

// standardJiraFields are requested on every search because the base ticket
// attributes are read from them.
var standardJiraFields = []string{
	"summary", "description", "status", "priority", "assignee",
	"reporter", "created", "updated", "issuetype",
}

// Normalizer converts raw Jira issues into tickets using the field mappings.
type Normalizer struct {
	registry *mapping.Registry
}

// NewNormalizer creates a normalizer backed by reg.
func NewNormalizer(reg *mapping.Registry) *Normalizer {
	return &Normalizer{registry: reg}
}

// JiraFields returns the Jira fields needed to resolve keys. Order carries no
// meaning; the result is sorted only to keep requests stable.
func (n *Normalizer) JiraFields(keys []string) []string {
	set := make(map[string]struct{}, len(standardJiraFields)+len(keys))
	for _, f := range standardJiraFields {
		set[f] = struct{}{}
	}
	for _, k := range keys {
		if m, ok := n.registry.Lookup(k); ok {
			set[m.JiraField] = struct{}{}
		}
	}

	fields := make([]string, 0, len(set))
	for f := range set {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Normalize builds a ticket from raw. Keys that have no mapping are skipped;
// missing data degrades to empty strings, "Unknown" or nil.
func (n *Normalizer) Normalize(raw models.RawIssue, keys []string) models.Ticket {
	fields := raw.Fields
	if fields == nil {
		fields = map[string]any{}
	}

	ticket := models.Ticket{
		Key:         raw.Key,
		Summary:     stringOr(fields["summary"], ""),
		Description: stringOr(fields["description"], ""),
		Status:      stringOr(nestedString(fields["status"], "name"), unknown),
		Priority:    stringOr(nestedString(fields["priority"], "name"), unknown),
		Assignee:    nestedString(fields["assignee"], "displayName"),
		Reporter:    stringOr(nestedString(fields["reporter"], "displayName"), unknown),
		Created:     stringOr(fields["created"], ""),
		Updated:     stringOr(fields["updated"], ""),
	}

	for _, key := range keys {
		if mapping.IsBaseKey(key) {
			continue
		}
		m, ok := n.registry.Lookup(key)
		if !ok {
			continue
		}
		ticket.Fields = append(ticket.Fields, models.Field{
			Key:   key,
			Value: transform(m.Transform, fields[m.JiraField]),
		})
	}

	return ticket
}

func transform(kind mapping.TransformKind, raw any) any {
	switch kind {
	case mapping.TransformName:
		return nullable(nestedString(raw, "name"))
	case mapping.TransformDisplayName:
		return nullable(nestedString(raw, "displayName"))
	case mapping.TransformSubtasks:
		return subtasks(raw)
	case mapping.TransformSprint:
		return sprint(raw)
	default:
		return raw
	}
}

func subtasks(raw any) []models.Subtask {
	list, ok := raw.([]any)
	if !ok {
		return []models.Subtask{}
	}

	out := make([]models.Subtask, 0, len(list))
	for _, item := range list {
		obj, _ := item.(map[string]any)
		var st models.Subtask
		if obj != nil {
			st.Key = stringOr(obj["key"], "")
			if f, ok := obj["fields"].(map[string]any); ok {
				st.Summary = stringOr(f["summary"], "")
			}
		}
		out = append(out, st)
	}
	return out
}

// sprint keeps only the first sprint when Jira returns several.
func sprint(raw any) models.SprintValue {
	if list, ok := raw.([]any); ok {
		if len(list) == 0 {
			return models.NoSprint()
		}
		raw = list[0]
	}

	switch v := raw.(type) {
	case string:
		if v == "" {
			return models.NoSprint()
		}
		return models.SprintFromText(v)
	case map[string]any:
		return models.SprintFromObject(models.Sprint{
			Name:      nonEmpty(v["name"]),
			State:     nonEmpty(v["state"]),
			StartDate: nonEmpty(v["startDate"]),
			EndDate:   nonEmpty(v["endDate"]),
		})
	default:
		return models.NoSprint()
	}
}

// nestedString returns obj[attr] when obj is an object and the attribute is a
// non-empty string.
func nestedString(obj any, attr string) *string {
	m, ok := obj.(map[string]any)
	if !ok {
		return nil
	}
	return nonEmpty(m[attr])
}

func nonEmpty(v any) *string {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func stringOr(v any, fallback string) string {
	switch s := v.(type) {
	case string:
		if s != "" {
			return s
		}
	case *string:
		if s != nil && *s != "" {
			return *s
		}
	}
	return fallback
}
