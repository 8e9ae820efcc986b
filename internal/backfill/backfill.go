// Package backfill synthesizes STAR highlights for experience records that came back
// from extraction with too few bullets.
package backfill

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/normalize"
	"github.com/jonathan/resume-studio/internal/prompts"
	"github.com/jonathan/resume-studio/internal/types"
)

// Defaults for Backfiller
const (
	DefaultMinHighlights = 3
	DefaultMaxHighlights = 6
	DefaultExcerptChars  = 2000
)

// Backfiller issues one narrow LLM call per sparse experience record
type Backfiller struct {
	client        llm.Client
	logger        *slog.Logger
	minHighlights int
	maxHighlights int
	excerptChars  int
}

// Option configures a Backfiller
type Option func(*Backfiller)

// WithLogger sets the logger used to report per-record failures
func WithLogger(logger *slog.Logger) Option {
	return func(b *Backfiller) { b.logger = logger }
}

// WithThreshold sets the highlight count below which a record is backfilled
func WithThreshold(minHighlights int) Option {
	return func(b *Backfiller) { b.minHighlights = minHighlights }
}

// New creates a Backfiller
func New(client llm.Client, opts ...Option) *Backfiller {
	b := &Backfiller{
		client:        client,
		logger:        slog.Default(),
		minHighlights: DefaultMinHighlights,
		maxHighlights: DefaultMaxHighlights,
		excerptChars:  DefaultExcerptChars,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Report summarizes one Run
type Report struct {
	Attempted int
	Filled    int
	Failed    int
}

// Run returns a copy of items where every record with fewer than the threshold of
// highlights has been sent for backfill. Records are processed one at a time; a failed
// call leaves that record unchanged and never stops the batch. A result replaces the
// existing highlights only when it reaches the threshold itself.
func (b *Backfiller) Run(ctx context.Context, items []types.ExperienceItem, sourceText string) ([]types.ExperienceItem, Report) {
	var report Report
	excerpt := excerptOf(sourceText, b.excerptChars)

	out := make([]types.ExperienceItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
		if len(item.Highlights) >= b.minHighlights {
			continue
		}

		report.Attempted++
		highlights, err := b.expand(ctx, item, excerpt)
		if err != nil {
			report.Failed++
			b.logger.Warn("highlight backfill failed", "experience_id", item.ID, "error", err)
			continue
		}
		if len(highlights) < b.minHighlights {
			b.logger.Debug("highlight backfill returned too few highlights", "experience_id", item.ID, "count", len(highlights))
			continue
		}

		out[i].Highlights = highlights
		report.Filled++
	}
	return out, report
}

func (b *Backfiller) expand(ctx context.Context, item types.ExperienceItem, excerpt string) ([]string, error) {
	current, err := normalize.Marshal(item.Highlights)
	if err != nil {
		return nil, err
	}
	if item.Highlights == nil {
		current = "[]"
	}

	user := prompts.Format(prompts.Resume(prompts.KeyBackfillUser), map[string]string{
		"Role":          item.Role,
		"Company":       item.Company,
		"Location":      item.Location,
		"Highlights":    current,
		"Description":   item.Description,
		"ResumeExcerpt": excerpt,
	})

	raw, err := b.client.Complete(ctx, llm.UserRequest(prompts.Resume(prompts.KeyBackfillSystem), user))
	if err != nil {
		return nil, fmt.Errorf("backfill request for %s: %w", item.ID, err)
	}

	obj, err := normalize.ParseObject(raw)
	if err != nil {
		return nil, err
	}
	highlights := normalize.StringList(obj["highlights"])
	if len(highlights) > b.maxHighlights {
		highlights = highlights[:b.maxHighlights]
	}
	return highlights, nil
}

// excerptOf returns the first n characters of s
func excerptOf(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
