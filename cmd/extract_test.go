package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--env-file", "", "--mappings", filepath.Join("..", "config", "field-mappings.json")))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestExtractRequiresQuery(t *testing.T) {
	t.Setenv("JQL_QUERY", "")

	_, err := executeRoot(t, "extract")
	var missing *missingFlagError
	require.True(t, errors.As(err, &missing))
	assert.EqualError(t, err, "--jql or JQL_QUERY is required")
}

func TestExtractFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("JQL_QUERY", "project = ENV")
	t.Setenv("OUTPUT_DIR", t.TempDir())
	searcher := &stubSearcher{result: twoIssues()}
	useSearcher(t, searcher)

	out, err := executeRoot(t, "extract", "--jql", "project = FLAG", "--preset", "bugs", "--question", "Why?")
	require.NoError(t, err)
	assert.Equal(t, 1, searcher.calls)
	assert.Contains(t, out, "Tickets extracted: 2 of 5")
}

func TestExtractRejectsUnknownFields(t *testing.T) {
	_, err := executeRoot(t, "extract", "--jql", "project = ABC", "--fields", "priority,velocity")
	assert.EqualError(t, err, "invalid fields: velocity")
}

func TestPresetsCommand(t *testing.T) {
	out, err := executeRoot(t, "presets")
	require.NoError(t, err)
	assert.Contains(t, out, "sprint: storyPoints, team, status, assignee, sprint, issueType, priority")
}

func TestFieldsCommandFiltersByType(t *testing.T) {
	out, err := executeRoot(t, "fields", "--type", "number")
	require.NoError(t, err)
	assert.Contains(t, out, "**storyPoints** (number)")
	assert.NotContains(t, out, "**assignee**")
}

func TestUnknownPresetOnlyFailsWhereApplied(t *testing.T) {
	t.Setenv("FIELD_PRESET", "everything")
	t.Setenv("JQL_QUERY", "")

	out, err := executeRoot(t, "presets")
	require.NoError(t, err)
	assert.Contains(t, out, "Field presets")

	_, err = executeRoot(t, "extract", "--jql", "project = ABC", "--fields", "", "--preset", "everything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown preset "everything"`)
}

func TestOverrideRunRejectsUnknownPreset(t *testing.T) {
	t.Setenv("JQL_QUERY", "project = ABC")
	t.Setenv("JIRA_FIELDS", "")
	t.Setenv("FIELD_PRESET", "everything")
	searcher := &stubSearcher{result: twoIssues()}
	useSearcher(t, searcher)

	_, err := executeRoot(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown preset "everything"`)
	assert.Zero(t, searcher.calls)
}
