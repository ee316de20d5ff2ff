// Package mapping provides the field mapping registry that translates semantic
// field names (e.g. "storyPoints") into Jira field identifiers.
package mapping

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/danielolaszy/jiralens/internal/logging"
	"gopkg.in/yaml.v3"
)

// FieldType is the declared type of a mapped field. It is informational and
// only used to document the schema.
type FieldType string

const (
	TypeNumber  FieldType = "number"
	TypeString  FieldType = "string"
	TypeDate    FieldType = "date"
	TypeObject  FieldType = "object"
	TypeArray   FieldType = "array"
	TypeBoolean FieldType = "boolean"
)

// Mapping describes how one semantic field is read from Jira.
type Mapping struct {
	JiraField   string    `yaml:"jiraField"`
	Type        FieldType `yaml:"type"`
	Description string    `yaml:"description"`
	Nullable    bool      `yaml:"nullable"`
	Values      []string  `yaml:"values"`

	// Transform is resolved from JiraField when the mappings are loaded.
	Transform TransformKind `yaml:"-"`
}

// EnumeratedField pairs a field with its closed set of values.
type EnumeratedField struct {
	Key    string
	Values []string
}

// Source provides the raw mapping document.
type Source interface {
	Read() ([]byte, error)
	String() string
}

// FileSource reads the mappings from a file. JSON and YAML are both accepted.
type FileSource struct {
	Path string
}

func (s FileSource) Read() ([]byte, error) {
	return os.ReadFile(s.Path)
}

func (s FileSource) String() string {
	return s.Path
}

// ResolvePath returns the mappings file to use. An explicit path always wins;
// otherwise the first existing default location is returned.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidates := []string{
		filepath.Join("config", "field-mappings.json"),
		filepath.Join("config", "field-mappings.yaml"),
		"field-mappings.json",
		"field-mappings.yaml",
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return "field-mappings.json"
}

// Option configures a Registry.
type Option func(*Registry)

// WithSprintField sets the Jira field that carries sprints.
func WithSprintField(id string) Option {
	return func(r *Registry) {
		if id != "" {
			r.sprintField = id
		}
	}
}

// Registry holds the field mappings. The source is read once, on first use,
// and the table is read-only afterwards.
type Registry struct {
	source      Source
	sprintField string

	once     sync.Once
	mappings map[string]Mapping
	err      error
}

// NewRegistry creates a registry backed by src.
func NewRegistry(src Source, opts ...Option) *Registry {
	r := &Registry{
		source:      src,
		sprintField: DefaultSprintField,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load reads and parses the mappings. Only the first call touches the source;
// later calls return the cached outcome.
func (r *Registry) Load() error {
	r.once.Do(func() {
		r.mappings, r.err = r.read()
		if r.err != nil {
			logging.Error("failed to load field mappings", "source", r.source.String(), "error", r.err)
			return
		}
		logging.Info("loaded field mappings", "source", r.source.String(), "count", len(r.mappings))
	})
	return r.err
}

func (r *Registry) read() (map[string]Mapping, error) {
	data, err := r.source.Read()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigLoadError{Source: r.source.String(), Err: fmt.Errorf("file not found")}
		}
		return nil, &ConfigLoadError{Source: r.source.String(), Err: err}
	}

	var parsed map[string]Mapping
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, &ConfigLoadError{Source: r.source.String(), Err: err}
	}
	if len(parsed) == 0 {
		return nil, &ConfigLoadError{Source: r.source.String(), Err: fmt.Errorf("no field mappings defined")}
	}

	for key, m := range parsed {
		if strings.TrimSpace(m.JiraField) == "" {
			return nil, &ConfigLoadError{Source: r.source.String(), Err: fmt.Errorf("field %q has no jiraField", key)}
		}
		m.Transform = TransformFor(m.JiraField, r.sprintField)
		parsed[key] = m
	}
	return parsed, nil
}

func (r *Registry) table() map[string]Mapping {
	if err := r.Load(); err != nil {
		return nil
	}
	return r.mappings
}

// SprintField returns the Jira field treated as the sprint field.
func (r *Registry) SprintField() string {
	return r.sprintField
}

// Lookup returns the mapping for key. An unmapped key is not an error.
func (r *Registry) Lookup(key string) (Mapping, bool) {
	m, ok := r.table()[key]
	return m, ok
}

// Exists reports whether key is mapped.
func (r *Registry) Exists(key string) bool {
	_, ok := r.Lookup(key)
	return ok
}

// Keys returns every mapped key in alphabetical order.
func (r *Registry) Keys() []string {
	table := r.table()
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ListByType returns the keys declared with type t.
func (r *Registry) ListByType(t FieldType) []string {
	var keys []string
	for _, k := range r.Keys() {
		if r.mappings[k].Type == t {
			keys = append(keys, k)
		}
	}
	return keys
}

// ListEnumerated returns the mappings that declare a closed set of values.
func (r *Registry) ListEnumerated() []EnumeratedField {
	var out []EnumeratedField
	for _, k := range r.Keys() {
		if values := r.mappings[k].Values; len(values) > 0 {
			out = append(out, EnumeratedField{Key: k, Values: append([]string(nil), values...)})
		}
	}
	return out
}

// Describe returns a one-line description of key, or "" if it is unmapped.
func (r *Registry) Describe(key string) string {
	m, ok := r.Lookup(key)
	if !ok {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s** (%s): %s", key, m.Type, m.Description)
	if len(m.Values) > 0 {
		fmt.Fprintf(&b, " Values: %s", strings.Join(m.Values, ", "))
	}
	if m.Nullable {
		b.WriteString(" [nullable]")
	}
	return b.String()
}

// SchemaMarkdown documents the given fields as a markdown section. Unmapped
// keys are skipped. A nil keys slice documents every mapped field.
func (r *Registry) SchemaMarkdown(keys []string) string {
	if keys == nil {
		keys = r.Keys()
	}

	var b strings.Builder
	b.WriteString("## Data Schema\n\n")
	b.WriteString("Each ticket contains the following fields:\n\n")
	for _, k := range keys {
		m, ok := r.Lookup(k)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "- **%s** (`%s`): %s", k, m.Type, m.Description)
		if len(m.Values) > 0 {
			fmt.Fprintf(&b, "\n  - Values: %s", strings.Join(m.Values, ", "))
		}
		if m.Nullable {
			b.WriteString(" _(nullable)_")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Presets returns the fixed preset table.
func (r *Registry) Presets() map[string][]string {
	return Presets()
}

// PresetExists reports whether name is a known preset.
func (r *Registry) PresetExists(name string) bool {
	return PresetExists(name)
}

// PresetFields returns the fields of a preset, empty for unknown names.
func (r *Registry) PresetFields(name string) []string {
	return PresetFields(name)
}

// ValidateFields checks that every key is either mapped or a base key.
func (r *Registry) ValidateFields(keys []string) error {
	var invalid []string
	for _, k := range keys {
		if IsBaseKey(k) || r.Exists(k) {
			continue
		}
		invalid = append(invalid, k)
	}
	if len(invalid) > 0 {
		return &InvalidFieldSelectionError{Invalid: invalid}
	}
	return nil
}
