package extract

import (
	"testing"

	"github.com/danielolaszy/jiralens/internal/mapping"
	"github.com/danielolaszy/jiralens/pkg/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMappings = `{
  "status":      {"jiraField": "status", "type": "string", "description": "Status"},
  "priority":    {"jiraField": "priority", "type": "string", "description": "Priority", "nullable": true},
  "assignee":    {"jiraField": "assignee", "type": "string", "description": "Assignee", "nullable": true},
  "reporter":    {"jiraField": "reporter", "type": "string", "description": "Reporter", "nullable": true},
  "issueType":   {"jiraField": "issuetype", "type": "string", "description": "Issue type"},
  "storyPoints": {"jiraField": "customfield_10016", "type": "number", "description": "Story points", "nullable": true},
  "sprint":      {"jiraField": "customfield_10021", "type": "object", "description": "Sprint", "nullable": true},
  "subtasks":    {"jiraField": "subtasks", "type": "array", "description": "Subtasks"},
  "labels":      {"jiraField": "labels", "type": "array", "description": "Labels"}
}`

type staticSource struct {
	data  string
	reads int
}

func (s *staticSource) Read() ([]byte, error) {
	s.reads++
	return []byte(s.data), nil
}

func (s *staticSource) String() string { return "static" }

func newTestRegistry(t *testing.T) *mapping.Registry {
	t.Helper()
	reg := mapping.NewRegistry(&staticSource{data: testMappings})
	require.NoError(t, reg.Load())
	return reg
}

func strPtr(s string) *string { return &s }

func TestNormalizeBaseFields(t *testing.T) {
	n := NewNormalizer(newTestRegistry(t))

	testCases := []struct {
		name     string
		raw      models.RawIssue
		expected models.Ticket
	}{
		{
			name: "All base fields present",
			raw: models.RawIssue{
				Key: "ABC-1",
				Fields: map[string]any{
					"summary":     "Login fails",
					"description": "Steps to reproduce",
					"status":      map[string]any{"name": "In Progress"},
					"priority":    map[string]any{"name": "High"},
					"assignee":    map[string]any{"displayName": "Jane Doe"},
					"reporter":    map[string]any{"displayName": "John Roe"},
					"created":     "2024-01-02T10:00:00.000+0000",
					"updated":     "2024-01-03T10:00:00.000+0000",
				},
			},
			expected: models.Ticket{
				Key:         "ABC-1",
				Summary:     "Login fails",
				Description: "Steps to reproduce",
				Status:      "In Progress",
				Priority:    "High",
				Assignee:    strPtr("Jane Doe"),
				Reporter:    "John Roe",
				Created:     "2024-01-02T10:00:00.000+0000",
				Updated:     "2024-01-03T10:00:00.000+0000",
			},
		},
		{
			name: "Missing values fall back to defaults",
			raw: models.RawIssue{
				Key: "ABC-2",
				Fields: map[string]any{
					"summary":     nil,
					"description": nil,
					"status":      map[string]any{},
					"priority":    nil,
					"assignee":    nil,
				},
			},
			expected: models.Ticket{
				Key:      "ABC-2",
				Status:   "Unknown",
				Priority: "Unknown",
				Reporter: "Unknown",
			},
		},
		{
			name: "No fields object at all",
			raw:  models.RawIssue{Key: "ABC-3"},
			expected: models.Ticket{
				Key:      "ABC-3",
				Status:   "Unknown",
				Priority: "Unknown",
				Reporter: "Unknown",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := n.Normalize(tc.raw, []string{"key", "summary", "status"})
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeSkipsUnmappedFields(t *testing.T) {
	n := NewNormalizer(newTestRegistry(t))
	raw := models.RawIssue{
		Key: "ABC-1",
		Fields: map[string]any{
			"summary":           "Login fails",
			"status":            map[string]any{"name": "Open"},
			"priority":          map[string]any{"name": "High"},
			"customfield_10001": "Core",
		},
	}

	ticket := n.Normalize(raw, []string{"key", "summary", "status", "priority", "team"})

	priority, ok := ticket.Get("priority")
	require.True(t, ok)
	assert.Equal(t, "High", priority)

	_, ok = ticket.Get("team")
	assert.False(t, ok, "unmapped fields must be omitted")
	_, ok = ticket.Get("status")
	assert.False(t, ok, "base keys are never resolved through the mappings")

	assert.Equal(t, "ABC-1", ticket.Key)
	assert.Equal(t, "Login fails", ticket.Summary)
	assert.Equal(t, "Open", ticket.Status)
	assert.Equal(t, "", ticket.Description)
	assert.Nil(t, ticket.Assignee)
	assert.Equal(t, "Unknown", ticket.Reporter)
}

func TestNormalizeTransforms(t *testing.T) {
	n := NewNormalizer(newTestRegistry(t))

	testCases := []struct {
		name     string
		key      string
		fields   map[string]any
		expected any
	}{
		{
			name:     "Name projection",
			key:      "issueType",
			fields:   map[string]any{"issuetype": map[string]any{"name": "Bug", "id": "1"}},
			expected: "Bug",
		},
		{
			name:     "Name projection missing value",
			key:      "issueType",
			fields:   map[string]any{},
			expected: nil,
		},
		{
			name:     "Name projection missing name",
			key:      "priority",
			fields:   map[string]any{"priority": map[string]any{"id": "3"}},
			expected: nil,
		},
		{
			name:     "Display name projection",
			key:      "assignee",
			fields:   map[string]any{"assignee": map[string]any{"displayName": "Jane", "accountId": "x"}},
			expected: "Jane",
		},
		{
			name:     "Display name projection unassigned",
			key:      "assignee",
			fields:   map[string]any{"assignee": nil},
			expected: nil,
		},
		{
			name:     "Display name projection empty name",
			key:      "assignee",
			fields:   map[string]any{"assignee": map[string]any{"displayName": ""}},
			expected: nil,
		},
		{
			name:     "Name projection non-string name",
			key:      "priority",
			fields:   map[string]any{"priority": map[string]any{"name": 3.0}},
			expected: nil,
		},
		{
			name: "Subtasks projection",
			key:  "subtasks",
			fields: map[string]any{"subtasks": []any{
				map[string]any{"key": "ABC-2", "fields": map[string]any{"summary": "Child", "status": map[string]any{"name": "Done"}}},
				map[string]any{"key": "ABC-3"},
			}},
			expected: []models.Subtask{{Key: "ABC-2", Summary: "Child"}, {Key: "ABC-3"}},
		},
		{
			name:     "Subtasks null",
			key:      "subtasks",
			fields:   map[string]any{"subtasks": nil},
			expected: []models.Subtask{},
		},
		{
			name:     "Subtasks not a list",
			key:      "subtasks",
			fields:   map[string]any{"subtasks": "ABC-2"},
			expected: []models.Subtask{},
		},
		{
			name:     "Raw pass-through",
			key:      "storyPoints",
			fields:   map[string]any{"customfield_10016": 8.0},
			expected: 8.0,
		},
		{
			name:     "Raw pass-through list",
			key:      "labels",
			fields:   map[string]any{"labels": []any{"backend", "urgent"}},
			expected: []any{"backend", "urgent"},
		},
		{
			name:     "Raw pass-through missing",
			key:      "storyPoints",
			fields:   map[string]any{},
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ticket := n.Normalize(models.RawIssue{Key: "ABC-1", Fields: tc.fields}, []string{tc.key})

			got, ok := ticket.Get(tc.key)
			require.True(t, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestNormalizeSprint(t *testing.T) {
	n := NewNormalizer(newTestRegistry(t))

	testCases := []struct {
		name     string
		raw      any
		expected models.SprintValue
	}{
		{
			name:     "Null",
			raw:      nil,
			expected: models.NoSprint(),
		},
		{
			name:     "Empty list",
			raw:      []any{},
			expected: models.NoSprint(),
		},
		{
			name: "Single object",
			raw:  map[string]any{"name": "Sprint 7", "state": "active", "startDate": "2024-01-01", "endDate": "2024-01-14"},
			expected: models.SprintFromObject(models.Sprint{
				Name:      strPtr("Sprint 7"),
				State:     strPtr("active"),
				StartDate: strPtr("2024-01-01"),
				EndDate:   strPtr("2024-01-14"),
			}),
		},
		{
			name: "List keeps only the first sprint",
			raw: []any{
				map[string]any{"name": "Sprint 7", "state": "closed"},
				map[string]any{"name": "Sprint 8", "state": "active"},
			},
			expected: models.SprintFromObject(models.Sprint{
				Name:  strPtr("Sprint 7"),
				State: strPtr("closed"),
			}),
		},
		{
			name:     "Bare string",
			raw:      "com.atlassian.greenhopper.service.sprint.Sprint@1[name=Sprint 7,state=ACTIVE]",
			expected: models.SprintFromText("com.atlassian.greenhopper.service.sprint.Sprint@1[name=Sprint 7,state=ACTIVE]"),
		},
		{
			name:     "List of strings",
			raw:      []any{"Sprint 7", "Sprint 8"},
			expected: models.SprintFromText("Sprint 7"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ticket := n.Normalize(models.RawIssue{
				Key:    "ABC-1",
				Fields: map[string]any{"customfield_10021": tc.raw},
			}, []string{"sprint"})

			got, ok := ticket.Get("sprint")
			require.True(t, ok)
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("sprint mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJiraFields(t *testing.T) {
	n := NewNormalizer(newTestRegistry(t))

	got := n.JiraFields([]string{"key", "summary", "status", "priority", "storyPoints", "sprint", "team", "storyPoints"})

	assert.ElementsMatch(t, []string{
		"summary", "description", "status", "priority", "assignee", "reporter",
		"created", "updated", "issuetype", "customfield_10016", "customfield_10021",
	}, got)
}

func TestJiraFieldsStandardSetOnly(t *testing.T) {
	n := NewNormalizer(newTestRegistry(t))

	assert.ElementsMatch(t, standardJiraFields, n.JiraFields(nil))
}
