// Package config provides centralized configuration management for the application.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/danielolaszy/jiralens/internal/mapping"
	"github.com/spf13/viper"
)

// Config holds all configuration parameters for the application.
type Config struct {
	Jira JiraConfig

	// MaxTickets caps the number of issues fetched per query
	MaxTickets int

	Debug bool

	// MappingsPath is the field mappings file; empty means the default locations
	MappingsPath string

	// OutputDir is where data/, prompts/ and history/ are created
	OutputDir string

	Overrides Overrides
}

// JiraConfig holds JIRA specific configuration.
type JiraConfig struct {
	BaseURL  string
	Email    string
	APIToken string

	// InsecureSkipVerify accepts self-signed certificates
	InsecureSkipVerify bool

	Timeout     time.Duration
	SprintField string
}

// Overrides are preset answers that bypass the interactive prompts.
type Overrides struct {
	JQL      string
	Fields   []string
	Preset   string
	Question string
}

// Active reports whether a query override is present, in which case a single
// non-interactive extraction runs.
func (o Overrides) Active() bool {
	return o.JQL != ""
}

const (
	defaultMaxTickets = 1000
	defaultTimeout    = 30 * time.Second
)

// LoadConfig loads configuration from environment variables. Values from the
// optional env file are used for variables that are not set in the
// environment.
func LoadConfig(envFile string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat %s: %w", envFile, err)
		}
	}

	v.BindEnv("jira_base_url", "JIRA_BASE_URL")
	v.BindEnv("jira_email", "JIRA_EMAIL")
	v.BindEnv("jira_api_token", "JIRA_API_TOKEN")
	v.BindEnv("jira_insecure_skip_verify", "JIRA_INSECURE_SKIP_VERIFY")
	v.BindEnv("jira_timeout", "JIRA_TIMEOUT")
	v.BindEnv("jira_sprint_field", "JIRA_SPRINT_FIELD")
	v.BindEnv("max_tickets", "MAX_TICKETS")
	v.BindEnv("debug", "DEBUG")
	v.BindEnv("field_mappings_path", "FIELD_MAPPINGS_PATH")
	v.BindEnv("output_dir", "OUTPUT_DIR")
	v.BindEnv("jql_query", "JQL_QUERY")
	v.BindEnv("jira_fields", "JIRA_FIELDS")
	v.BindEnv("field_preset", "FIELD_PRESET")
	v.BindEnv("analysis_question", "ANALYSIS_QUESTION")

	v.SetDefault("jira_timeout", defaultTimeout)
	v.SetDefault("jira_sprint_field", mapping.DefaultSprintField)
	v.SetDefault("max_tickets", defaultMaxTickets)
	v.SetDefault("output_dir", ".")

	config := &Config{
		Jira: JiraConfig{
			BaseURL:            strings.TrimRight(v.GetString("jira_base_url"), "/"),
			Email:              v.GetString("jira_email"),
			APIToken:           v.GetString("jira_api_token"),
			InsecureSkipVerify: v.GetBool("jira_insecure_skip_verify"),
			Timeout:            v.GetDuration("jira_timeout"),
			SprintField:        v.GetString("jira_sprint_field"),
		},
		MaxTickets:   v.GetInt("max_tickets"),
		Debug:        v.GetBool("debug"),
		MappingsPath: v.GetString("field_mappings_path"),
		OutputDir:    v.GetString("output_dir"),
		Overrides: Overrides{
			JQL:      strings.TrimSpace(v.GetString("jql_query")),
			Fields:   ParseFieldList(v.GetString("jira_fields")),
			Preset:   strings.TrimSpace(v.GetString("field_preset")),
			Question: strings.TrimSpace(v.GetString("analysis_question")),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// validateConfig checks values that have defaults but may be overridden badly.
func validateConfig(config *Config) error {
	if config.MaxTickets <= 0 {
		return fmt.Errorf("MAX_TICKETS must be a positive number, got %d", config.MaxTickets)
	}
	if config.Jira.Timeout <= 0 {
		return fmt.Errorf("JIRA_TIMEOUT must be a positive duration, got %s", config.Jira.Timeout)
	}
	return nil
}

// ValidateJiraConfig validates JIRA-specific configuration.
func ValidateJiraConfig(config *Config) error {
	var missingVars []string

	if config.Jira.BaseURL == "" {
		missingVars = append(missingVars, "JIRA_BASE_URL")
	}
	if config.Jira.Email == "" {
		missingVars = append(missingVars, "JIRA_EMAIL")
	}
	if config.Jira.APIToken == "" {
		missingVars = append(missingVars, "JIRA_API_TOKEN")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	return nil
}

// ParseFieldList splits a comma separated field list, dropping blanks.
func ParseFieldList(s string) []string {
	var fields []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
