package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/danielolaszy/jiralens/internal/config"
	"github.com/danielolaszy/jiralens/internal/extract"
	"github.com/danielolaszy/jiralens/internal/history"
	"github.com/danielolaszy/jiralens/internal/jira"
	"github.com/danielolaszy/jiralens/internal/logging"
	"github.com/danielolaszy/jiralens/internal/mapping"
	"github.com/danielolaszy/jiralens/internal/report"
	"github.com/danielolaszy/jiralens/pkg/models"
)

// runRequest is one extraction as asked for by the operator.
type runRequest struct {
	JQL      string
	Fields   []string
	Question string
	Max      int
}

// resolveFields picks the field selection. An explicit list wins over a preset
// and is validated against the registry; preset contents are used as they are.
// Neither yields nil, which selects the default preset.
func resolveFields(reg *mapping.Registry, preset string, fields []string) ([]string, error) {
	if len(fields) > 0 {
		if err := reg.ValidateFields(fields); err != nil {
			return nil, err
		}
		return fields, nil
	}
	if preset == "" {
		return nil, nil
	}
	if !reg.PresetExists(preset) {
		return nil, fmt.Errorf("unknown preset %q, available presets: %s", preset, strings.Join(mapping.PresetNames(), ", "))
	}
	return reg.PresetFields(preset), nil
}

// parseFieldAnswer interprets an interactive answer: a preset name or a comma
// separated list of fields.
func parseFieldAnswer(reg *mapping.Registry, answer string) ([]string, error) {
	answer = strings.TrimSpace(answer)
	if reg.PresetExists(answer) {
		return reg.PresetFields(answer), nil
	}
	return resolveFields(reg, "", config.ParseFieldList(answer))
}

// runExtraction fetches, saves and records one extraction, then prints a
// summary. Nothing is written when the fetch fails.
func (a *app) runExtraction(ctx context.Context, req runRequest) error {
	searcher, err := newSearcher(a.cfg)
	if err != nil {
		return err
	}

	if req.Max <= 0 {
		req.Max = a.cfg.MaxTickets
	}

	result, err := extract.NewExtractor(searcher, a.registry).Extract(ctx, req.JQL, req.Max, req.Fields)
	if err != nil {
		return err
	}

	schema := a.registry.SchemaMarkdown(result.FieldsUsed)
	files, err := report.NewWriter(a.cfg.OutputDir).SaveAll(result, req.Question, schema)
	if err != nil {
		return err
	}

	if _, err := history.NewRecorder(a.cfg.OutputDir).Append(history.Entry{
		Query:        result.Query,
		Fields:       result.FieldsUsed,
		TicketCount:  len(result.Tickets),
		TotalTickets: result.TotalTickets,
		Question:     req.Question,
		Files:        files,
	}); err != nil {
		logging.Warn("failed to record history", "error", err)
	}

	a.printSummary(result, files)
	return nil
}

func (a *app) printSummary(result *models.ExtractionResult, files report.Files) {
	lines := []string{
		fmt.Sprintf("Tickets extracted: %d of %d", len(result.Tickets), result.TotalTickets),
		fmt.Sprintf("Fields: %s", strings.Join(result.FieldsUsed, ", ")),
		fmt.Sprintf("Duration: %dms", result.ExtractionTimeMs),
		"",
		fmt.Sprintf("Data:     %s", files.Data),
		fmt.Sprintf("Prompt:   %s", files.Prompt),
		fmt.Sprintf("Response: %s", files.Response),
	}
	a.prompter.Panel("Extraction complete", lines)

	if result.TotalTickets > len(result.Tickets) {
		a.prompter.Warn("The query matched more tickets than were fetched; raise MAX_TICKETS or narrow the query.")
	}
	a.prompter.Linef("Next: open %s in your AI assistant and paste the answer into %s.", files.Prompt, files.Response)
}

var menuOptions = []string{
	"Run an extraction",
	"List available fields",
	"List field presets",
	"Show today's history",
	"Exit",
}

// interactive checks the Jira connection, then runs the menu loop until the
// operator exits or input ends. Recoverable errors are reported and the menu
// is shown again.
func (a *app) interactive(ctx context.Context) error {
	a.prompter.Panel("jiralens", []string{"Extract Jira tickets for AI-assisted analysis."})

	user, err := checkConnection(ctx, a.cfg)
	if err != nil {
		return err
	}
	a.prompter.Success("Connected to %s as %s", a.cfg.Jira.BaseURL, user.DisplayName)

	for {
		choice, err := a.prompter.Choose("What would you like to do?", menuOptions)
		if err == nil {
			switch choice {
			case 0:
				err = a.interactiveExtraction(ctx)
			case 1:
				err = printFields(a.prompter, a.registry, "", false)
			case 2:
				printPresets(a.prompter, a.registry)
			case 3:
				err = printHistory(a.prompter, a.cfg.OutputDir)
			default:
				a.prompter.Linef("Bye.")
				return nil
			}
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return nil
		case isRecoverable(err):
			a.prompter.Warn("%v", err)
			if hint := hintFor(err); hint != "" {
				a.prompter.Linef("Hint: %s", hint)
			}
		default:
			return err
		}
	}
}

func (a *app) interactiveExtraction(ctx context.Context) error {
	jql, err := a.askUntilAnswered(a.prompter.AskJQL)
	if err != nil {
		return err
	}

	var fields []string
	for {
		answer, err := a.prompter.AskFields(mapping.PresetNames(), mapping.DefaultPreset)
		if err != nil {
			return err
		}
		fields, err = parseFieldAnswer(a.registry, answer)
		if err == nil {
			break
		}
		if !isRecoverable(err) {
			return err
		}
		a.prompter.Warn("%v", err)
	}

	question, err := a.askUntilAnswered(a.prompter.AskQuestion)
	if err != nil {
		return err
	}

	err = a.runExtraction(ctx, runRequest{JQL: jql, Fields: fields, Question: question, Max: a.cfg.MaxTickets})
	var queryErr *jira.QuerySyntaxError
	if errors.As(err, &queryErr) {
		logging.Warn("query rejected by jira", "jql", jql, "messages", queryErr.Messages)
	}
	return err
}

// askUntilAnswered repeats ask while the answer is blank.
func (a *app) askUntilAnswered(ask func() (string, error)) (string, error) {
	for {
		answer, err := ask()
		if err == nil || !isRecoverable(err) {
			return answer, err
		}
		a.prompter.Warn("%v", err)
	}
}
