// Package report writes extraction results and the analysis prompt documents
// generated from them.
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/danielolaszy/jiralens/internal/logging"
	"github.com/danielolaszy/jiralens/pkg/models"
)

const (
	dataDir   = "data/raw"
	promptDir = "prompts"
)

// Files are the paths written for one extraction.
type Files struct {
	Data     string `json:"data"`
	Prompt   string `json:"prompt"`
	Response string `json:"response"`
}

// Writer stores results below a base directory.
type Writer struct {
	baseDir string
	now     func() time.Time
}

// NewWriter creates a writer rooted at baseDir.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir, now: time.Now}
}

func (w *Writer) ensureDir(rel string) (string, error) {
	dir := filepath.Join(w.baseDir, rel)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return dir, nil
}

// SaveData writes the raw extraction as indented JSON.
func (w *Writer) SaveData(result *models.ExtractionResult) (string, error) {
	dir, err := w.ensureDir(dataDir)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode extraction: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("jira-data-%s.json", result.Timestamp))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	logging.Info("saved extracted data", "path", path, "tickets", len(result.Tickets))
	return path, nil
}

// SavePrompt writes the analysis prompt for question, embedding the schema
// description and the tickets.
func (w *Writer) SavePrompt(result *models.ExtractionResult, question, schema string) (string, error) {
	tickets, err := json.MarshalIndent(result.Tickets, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode tickets: %w", err)
	}

	return w.render(promptTemplate, fmt.Sprintf("copilot-prompt-%s.md", result.Timestamp), map[string]any{
		"Result":      result,
		"Question":    question,
		"Schema":      schema,
		"TicketsJSON": string(tickets),
	})
}

// SaveResponseTemplate writes the skeleton the analysis answer is filled into.
func (w *Writer) SaveResponseTemplate(result *models.ExtractionResult) (string, error) {
	return w.render(responseTemplate, fmt.Sprintf("copilot-response-%s.md", result.Timestamp), map[string]any{
		"Result":      result,
		"GeneratedAt": w.now().Format(time.RFC3339),
	})
}

func (w *Writer) render(tmpl *template.Template, name string, data map[string]any) (string, error) {
	dir, err := w.ensureDir(promptDir)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	logging.Info("generated document", "path", path)
	return path, nil
}

// SaveAll writes the data file, the prompt and the response template. On
// failure the files already written are removed again.
func (w *Writer) SaveAll(result *models.ExtractionResult, question, schema string) (Files, error) {
	var files Files
	var err error

	if files.Data, err = w.SaveData(result); err != nil {
		return Files{}, err
	}
	if files.Prompt, err = w.SavePrompt(result, question, schema); err != nil {
		w.remove(files.Data)
		return Files{}, err
	}
	if files.Response, err = w.SaveResponseTemplate(result); err != nil {
		w.remove(files.Data, files.Prompt)
		return Files{}, err
	}
	return files, nil
}

func (w *Writer) remove(paths ...string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logging.Warn("failed to remove partial output", "path", path, "error", err)
		}
	}
}
