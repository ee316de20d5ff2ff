package cmd

import (
	"github.com/danielolaszy/jiralens/internal/config"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Run a single extraction without prompts",
	Long: `Run one JQL query, normalize the matching tickets and write the data file,
the analysis prompt and the response template.

Flags take precedence over JQL_QUERY, JIRA_FIELDS, FIELD_PRESET and
ANALYSIS_QUESTION. An explicit field list wins over a preset; with neither the
basic preset is used.

Example:
  jiralens extract --jql 'project = ABC AND type = Bug' --preset bugs --question "Which components regress most?"
  jiralens extract --jql 'assignee = currentUser()' --fields storyPoints,sprint --max 200`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		jql := a.cfg.Overrides.JQL
		if cmd.Flags().Changed("jql") {
			jql, _ = cmd.Flags().GetString("jql")
		}
		if jql == "" {
			return &missingFlagError{Flag: "jql", Env: "JQL_QUERY"}
		}

		preset := a.cfg.Overrides.Preset
		if cmd.Flags().Changed("preset") {
			preset, _ = cmd.Flags().GetString("preset")
		}
		fieldList := a.cfg.Overrides.Fields
		if cmd.Flags().Changed("fields") {
			raw, _ := cmd.Flags().GetString("fields")
			fieldList = config.ParseFieldList(raw)
		}
		fields, err := resolveFields(a.registry, preset, fieldList)
		if err != nil {
			return err
		}

		question := a.cfg.Overrides.Question
		if cmd.Flags().Changed("question") {
			question, _ = cmd.Flags().GetString("question")
		}

		maxResults, _ := cmd.Flags().GetInt("max")

		return a.runExtraction(cmd.Context(), runRequest{
			JQL:      jql,
			Fields:   fields,
			Question: question,
			Max:      maxResults,
		})
	},
}

// missingFlagError is returned when a value is given neither as a flag nor in
// the environment.
type missingFlagError struct {
	Flag string
	Env  string
}

func (e *missingFlagError) Error() string {
	return "--" + e.Flag + " or " + e.Env + " is required"
}

func init() {
	extractCmd.Flags().String("jql", "", "JQL query to run")
	extractCmd.Flags().String("fields", "", "comma separated field keys")
	extractCmd.Flags().String("preset", "", "field preset (basic, bugs, features, sprint)")
	extractCmd.Flags().String("question", "", "analysis question for the prompt document")
	extractCmd.Flags().Int("max", 0, "maximum number of tickets to fetch (default MAX_TICKETS)")
}
