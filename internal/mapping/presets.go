package mapping

import "sort"

// BaseKeys are present on every ticket regardless of the field selection.
var BaseKeys = []string{"key", "summary", "status"}

// DefaultPreset is used when no fields are requested.
const DefaultPreset = "basic"

var presets = map[string][]string{
	"sprint":   {"storyPoints", "team", "status", "assignee", "sprint", "issueType", "priority"},
	"bugs":     {"priority", "severity", "reporter", "rootCause", "status", "assignee", "issueType"},
	"features": {"epic", "parentTask", "subtasksCount", "acceptanceCriteria", "progress", "status", "issueType"},
	"basic":    {"status", "priority", "assignee", "reporter", "team", "issueType"},
}

// Presets returns a copy of the preset table.
func Presets() map[string][]string {
	out := make(map[string][]string, len(presets))
	for name, fields := range presets {
		out[name] = append([]string(nil), fields...)
	}
	return out
}

// PresetNames returns the preset names in alphabetical order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetExists reports whether name is a known preset.
func PresetExists(name string) bool {
	_, ok := presets[name]
	return ok
}

// PresetFields returns the fields of a preset, or an empty slice for an
// unknown preset.
func PresetFields(name string) []string {
	fields, ok := presets[name]
	if !ok {
		return []string{}
	}
	return append([]string(nil), fields...)
}

// IsBaseKey reports whether key is one of BaseKeys.
func IsBaseKey(key string) bool {
	for _, k := range BaseKeys {
		if k == key {
			return true
		}
	}
	return false
}
