// Package cmd provides the command-line interface for jiralens.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	gojira "github.com/andygrunwald/go-jira"
	"github.com/danielolaszy/jiralens/internal/config"
	"github.com/danielolaszy/jiralens/internal/extract"
	"github.com/danielolaszy/jiralens/internal/jira"
	"github.com/danielolaszy/jiralens/internal/logging"
	"github.com/danielolaszy/jiralens/internal/mapping"
	"github.com/danielolaszy/jiralens/internal/prompt"
	"github.com/spf13/cobra"
)

var (
	envFile      string
	mappingsPath string
	debugFlag    bool
)

// newSearcher builds the Jira search client. Tests replace it.
var newSearcher = func(cfg *config.Config) (extract.Searcher, error) {
	if err := config.ValidateJiraConfig(cfg); err != nil {
		return nil, err
	}
	client, err := jira.NewClient(cfg.Jira)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// checkConnection verifies the Jira credentials against the current user
// endpoint. Tests replace it.
var checkConnection = func(ctx context.Context, cfg *config.Config) (*gojira.User, error) {
	if err := config.ValidateJiraConfig(cfg); err != nil {
		return nil, err
	}
	client, err := jira.NewClient(cfg.Jira)
	if err != nil {
		return nil, err
	}
	return client.ValidateConnection(ctx)
}

// app carries what every command needs once configuration is loaded.
type app struct {
	cfg      *config.Config
	registry *mapping.Registry
	prompter *prompt.Prompter
}

var rootCmd = &cobra.Command{
	Use:   "jiralens",
	Short: "Extract Jira tickets into an analysis-ready dataset",
	Long: `jiralens runs a JQL query against Jira, normalizes the matching tickets
into a flat record per ticket and writes the result together with an analysis
prompt for an AI assistant.

Without arguments an interactive menu is shown. When JQL_QUERY is set a single
extraction runs with the values from the environment instead.

Example:
  jiralens
  jiralens extract --jql 'project = ABC AND sprint in openSprints()' --preset sprint \
    --question "Where are the bottlenecks?"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		if a.cfg.Overrides.Active() {
			logging.Info("query override present, running a single extraction")
			fields, err := resolveFields(a.registry, a.cfg.Overrides.Preset, a.cfg.Overrides.Fields)
			if err != nil {
				return err
			}
			return a.runExtraction(cmd.Context(), runRequest{
				JQL:      a.cfg.Overrides.JQL,
				Fields:   fields,
				Question: a.cfg.Overrides.Question,
				Max:      a.cfg.MaxTickets,
			})
		}

		return a.interactive(cmd.Context())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file with default environment variables")
	rootCmd.PersistentFlags().StringVar(&mappingsPath, "mappings", "", "field mappings file (overrides FIELD_MAPPINGS_PATH)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(historyCmd)
}

// newApp loads the configuration and the field mappings. Missing Jira
// credentials are not an error here; only commands that talk to Jira need them.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return nil, err
	}
	if mappingsPath != "" {
		cfg.MappingsPath = mappingsPath
	}
	if cfg.Debug || debugFlag {
		logging.SetDebug(os.Stderr, true)
	}

	path := mapping.ResolvePath(cfg.MappingsPath)
	registry := mapping.NewRegistry(mapping.FileSource{Path: path}, mapping.WithSprintField(cfg.Jira.SprintField))
	if err := registry.Load(); err != nil {
		return nil, err
	}

	logging.Debug("configuration loaded",
		"jira_base_url", cfg.Jira.BaseURL,
		"mappings", path,
		"output_dir", cfg.OutputDir,
		"max_tickets", cfg.MaxTickets)

	return &app{
		cfg:      cfg,
		registry: registry,
		prompter: prompt.New(cmd.InOrStdin(), cmd.OutOrStdout()),
	}, nil
}

// reportError prints err for the operator, followed by a hint when one is known.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	if hint := hintFor(err); hint != "" {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}

func hintFor(err error) string {
	if hint := jira.Hint(err); hint != "" {
		return hint
	}
	var loadErr *mapping.ConfigLoadError
	if errors.As(err, &loadErr) {
		return "set FIELD_MAPPINGS_PATH or pass --mappings"
	}
	var fieldErr *mapping.InvalidFieldSelectionError
	if errors.As(err, &fieldErr) {
		return "run 'jiralens fields' to list the available fields"
	}
	return ""
}

// isRecoverable reports whether the interactive session can continue after err.
func isRecoverable(err error) bool {
	var fieldErr *mapping.InvalidFieldSelectionError
	return jira.IsRecoverable(err) || prompt.IsRecoverable(err) || errors.As(err, &fieldErr)
}
