// Package history keeps an append-only, per-day log of extractions.
package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/danielolaszy/jiralens/internal/report"
	"github.com/google/uuid"
)

const historyDir = "history"

// Entry records one completed extraction.
type Entry struct {
	ID           string       `json:"id"`
	RecordedAt   time.Time    `json:"recordedAt"`
	Query        string       `json:"query"`
	Fields       []string     `json:"fields"`
	TicketCount  int          `json:"ticketCount"`
	TotalTickets int          `json:"totalTickets"`
	Question     string       `json:"question"`
	Files        report.Files `json:"files"`
}

// Recorder appends entries to history/history-YYYY-MM-DD.jsonl.
type Recorder struct {
	dir string
	now func() time.Time
}

// NewRecorder creates a recorder below baseDir.
func NewRecorder(baseDir string) *Recorder {
	return &Recorder{
		dir: filepath.Join(baseDir, historyDir),
		now: time.Now,
	}
}

func (r *Recorder) pathFor(day time.Time) string {
	return filepath.Join(r.dir, fmt.Sprintf("history-%s.jsonl", day.Format("2006-01-02")))
}

// Append writes entry as one line of today's log. A missing ID or timestamp
// is filled in.
func (r *Recorder) Append(entry Entry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = r.now()
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create history directory: %w", err)
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("failed to encode history entry: %w", err)
	}

	path := r.pathFor(entry.RecordedAt)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(append(line, '\n')); err != nil {
		return "", fmt.Errorf("failed to append history entry: %w", err)
	}
	return path, nil
}

// Read returns the entries recorded on day, oldest first. A day without a log
// yields no entries.
func (r *Recorder) Read(day time.Time) ([]Entry, error) {
	file, err := os.Open(r.pathFor(day))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("failed to decode history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	return entries, nil
}
