package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/danielolaszy/jiralens/internal/logging"
	"github.com/danielolaszy/jiralens/internal/mapping"
	"github.com/danielolaszy/jiralens/pkg/models"
)

// TimestampLayout formats the run timestamp used in file names.
const TimestampLayout = "2006-01-02T15-04-05"

// Searcher runs a JQL query against Jira.
type Searcher interface {
	Search(ctx context.Context, jql string, maxResults int, fields []string) (*models.SearchResult, error)
}

// Extractor runs one query and normalizes its results.
type Extractor struct {
	searcher   Searcher
	registry   *mapping.Registry
	normalizer *Normalizer
	now        func() time.Time
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithClock replaces the time source.
func WithClock(now func() time.Time) ExtractorOption {
	return func(e *Extractor) {
		e.now = now
	}
}

// NewExtractor creates an extractor.
func NewExtractor(searcher Searcher, reg *mapping.Registry, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		searcher:   searcher,
		registry:   reg,
		normalizer: NewNormalizer(reg),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EffectiveFields resolves the field list for a request: the basic preset when
// nothing was requested, always preceded by the base keys, without duplicates.
func (e *Extractor) EffectiveFields(requested []string) []string {
	if len(requested) == 0 {
		requested = e.registry.PresetFields(mapping.DefaultPreset)
	}

	seen := make(map[string]bool, len(mapping.BaseKeys)+len(requested))
	fields := make([]string, 0, len(mapping.BaseKeys)+len(requested))
	for _, group := range [][]string{mapping.BaseKeys, requested} {
		for _, f := range group {
			if seen[f] {
				continue
			}
			seen[f] = true
			fields = append(fields, f)
		}
	}
	return fields
}

// Extract runs jql and returns the normalized result. A failed search is
// returned as is and no result is produced.
func (e *Extractor) Extract(ctx context.Context, jql string, maxResults int, requested []string) (*models.ExtractionResult, error) {
	started := e.now()

	fields := e.EffectiveFields(requested)
	jiraFields := e.normalizer.JiraFields(fields)

	logging.Info("starting data extraction",
		"jql", jql,
		"max_results", maxResults,
		"fields", fields)

	search, err := e.searcher.Search(ctx, jql, maxResults, jiraFields)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	tickets := make([]models.Ticket, 0, len(search.Issues))
	for _, issue := range search.Issues {
		tickets = append(tickets, e.normalizer.Normalize(issue, fields))
	}

	mapped := []string{}
	for _, f := range fields {
		if !mapping.IsBaseKey(f) && e.registry.Exists(f) {
			mapped = append(mapped, f)
		}
	}

	finished := e.now()
	result := &models.ExtractionResult{
		Timestamp:         started.UTC().Format(TimestampLayout),
		Query:             jql,
		TotalTickets:      search.Total,
		ExtractedAt:       started.UTC().Format(time.RFC3339),
		ExtractionTimeMs:  finished.Sub(started).Milliseconds(),
		MaxResults:        maxResults,
		Tickets:           tickets,
		FieldsUsed:        fields,
		FieldMappingsUsed: mapped,
	}

	logging.Info("data extraction completed",
		"total", result.TotalTickets,
		"extracted", len(result.Tickets),
		"duration_ms", result.ExtractionTimeMs)

	return result, nil
}
