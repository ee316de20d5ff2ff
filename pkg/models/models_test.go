package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestTicketMarshalJSON(t *testing.T) {
	ticket := Ticket{
		Key:      "ABC-1",
		Summary:  "Login fails",
		Status:   "Open",
		Priority: "Unknown",
		Reporter: "Unknown",
		Fields: []Field{
			{Key: "storyPoints", Value: 5.0},
			{Key: "priority", Value: "High"},
			{Key: "reporter", Value: nil},
			{Key: "subtasks", Value: []Subtask{}},
		},
	}

	data, err := json.Marshal(ticket)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "ABC-1", decoded["key"])
	assert.Equal(t, "", decoded["description"])
	assert.Nil(t, decoded["assignee"])
	assert.Contains(t, decoded, "assignee")
	assert.Equal(t, "High", decoded["priority"])
	assert.Equal(t, "Unknown", decoded["reporter"])
	assert.Equal(t, 5.0, decoded["storyPoints"])
	assert.Equal(t, []any{}, decoded["subtasks"])
}

func TestTicketMarshalJSONKeepsOrder(t *testing.T) {
	ticket := Ticket{
		Key:      "ABC-2",
		Assignee: strPtr("Jane"),
		Fields: []Field{
			{Key: "team", Value: "Core"},
			{Key: "epic", Value: "ABC-0"},
		},
	}

	data, err := json.Marshal(ticket)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"key": "ABC-2", "summary": "", "description": "", "status": "", "priority": "",
		"assignee": "Jane", "reporter": "", "created": "", "updated": "",
		"team": "Core", "epic": "ABC-0"
	}`, string(data))
	assert.Regexp(t, `"team":"Core","epic":"ABC-0"}$`, string(data))
}

func TestTicketGet(t *testing.T) {
	ticket := Ticket{Fields: []Field{{Key: "team", Value: "Core"}}}

	v, ok := ticket.Get("team")
	assert.True(t, ok)
	assert.Equal(t, "Core", v)

	_, ok = ticket.Get("missing")
	assert.False(t, ok)
}

func TestSprintValueMarshalJSON(t *testing.T) {
	testCases := []struct {
		name     string
		value    SprintValue
		expected string
	}{
		{
			name:     "None",
			value:    NoSprint(),
			expected: `null`,
		},
		{
			name:     "Text",
			value:    SprintFromText("Sprint 7"),
			expected: `"Sprint 7"`,
		},
		{
			name:     "Object with missing attributes",
			value:    SprintFromObject(Sprint{Name: strPtr("Sprint 7"), State: strPtr("active")}),
			expected: `{"name":"Sprint 7","state":"active","startDate":null,"endDate":null}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.value)
			require.NoError(t, err)
			assert.JSONEq(t, tc.expected, string(data))
		})
	}
}

func TestTicketMarshalJSONSprintNoneDoesNotReplaceBase(t *testing.T) {
	ticket := Ticket{Key: "ABC-3", Status: "Done", Fields: []Field{{Key: "status", Value: NoSprint()}}}

	data, err := json.Marshal(ticket)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Done", decoded["status"])
}
