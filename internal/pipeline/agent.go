// Package pipeline orchestrates the AI operations of a resume session:
// extraction, tailoring and per-record optimization.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonathan/resume-studio/internal/backfill"
	"github.com/jonathan/resume-studio/internal/ingestion"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/normalize"
	"github.com/jonathan/resume-studio/internal/prompts"
	"github.com/jonathan/resume-studio/internal/types"
)

// Agent runs AI operations against one LLM client. It holds no document state:
// callers pass the current document in and apply the result to their store.
type Agent struct {
	client     llm.Client
	backfiller *backfill.Backfiller
	reconciler *normalize.Reconciler
	limits     normalize.Limits
	logger     *slog.Logger
	onProgress ProgressCallback
}

// Option configures an Agent
type Option func(*Agent)

// WithLogger sets the agent and backfill logger
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) { a.logger = logger }
}

// WithProgress registers a progress callback
func WithProgress(cb ProgressCallback) Option {
	return func(a *Agent) { a.onProgress = cb }
}

// WithMatcher replaces the identity matching strategy used by Tailor
func WithMatcher(m normalize.Matcher) Option {
	return func(a *Agent) { a.reconciler = &normalize.Reconciler{Matcher: m} }
}

// WithLimits overrides the outbound payload budgets
func WithLimits(l normalize.Limits) Option {
	return func(a *Agent) { a.limits = l }
}

// NewAgent creates an Agent
func NewAgent(client llm.Client, opts ...Option) *Agent {
	a := &Agent{
		client:     client,
		reconciler: normalize.NewReconciler(),
		limits:     normalize.DefaultLimits,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.reconciler.Limits = a.limits
	a.backfiller = backfill.New(client, backfill.WithLogger(a.logger))
	return a
}

// ExtractOptions customizes one extraction
type ExtractOptions struct {
	// SystemPrompt replaces the default parser instructions when set
	SystemPrompt string
}

// Extract turns a payload into structured resume data. Every record gets a fresh
// identifier, then sparse experience records are backfilled one at a time.
func (a *Agent) Extract(ctx context.Context, payload *ingestion.Payload, opts ExtractOptions) (*types.Extraction, error) {
	if payload == nil || (payload.Kind == ingestion.KindText && strings.TrimSpace(payload.Text) == "") {
		return nil, ErrEmptyPayload
	}

	system := opts.SystemPrompt
	if strings.TrimSpace(system) == "" {
		system = prompts.Resume(prompts.KeyParserSystem)
	}

	var req llm.Request
	switch payload.Kind {
	case ingestion.KindBinary:
		req = llm.UserRequest(system, prompts.Resume(prompts.KeyParserUserFile))
		req.Inline = &llm.InlineData{MIMEType: payload.MediaType, Data: payload.Data}
	default:
		text := normalize.ClampText(payload.Text, a.limits.ResumeText)
		req = llm.UserRequest(system, prompts.Format(prompts.Resume(prompts.KeyParserUserText), map[string]string{
			"ResumeText": text,
		}))
	}
	req.Structured = true

	a.emit(StepExtract, CategoryStarted, fmt.Sprintf("Extracting resume with %s", a.client.Model()), nil)
	raw, err := a.client.Complete(ctx, req)
	if err != nil {
		a.emit(StepExtract, CategoryFailed, err.Error(), nil)
		return nil, &StepError{Step: StepExtract, Cause: err}
	}

	extraction, err := normalize.Extract(raw)
	if err != nil {
		a.logger.Error("extraction response was not JSON", "model", a.client.Model(), "bytes", len(raw))
		a.emit(StepExtract, CategoryFailed, err.Error(), nil)
		return nil, &StepError{Step: StepExtract, Cause: err}
	}
	a.emit(StepExtract, CategoryCompleted,
		fmt.Sprintf("Extracted %d experience and %d education records", len(extraction.Experience), len(extraction.Education)), nil)

	if len(extraction.Experience) > 0 {
		a.emit(StepBackfill, CategoryStarted, "Checking highlight coverage", nil)
		var report backfill.Report
		extraction.Experience, report = a.backfiller.Run(ctx, extraction.Experience, payload.Text)
		category := CategoryCompleted
		if report.Failed > 0 {
			category = CategoryWarning
		}
		a.emit(StepBackfill, category,
			fmt.Sprintf("Backfilled %d of %d sparse records", report.Filled, report.Attempted), report)
	}

	return extraction, nil
}

// Tailor rewrites doc against a job description. Records keep their identifiers
// positionally; the input document is not modified.
func (a *Agent) Tailor(ctx context.Context, doc *types.ResumeDocument, jobDescription string, target types.Language) (*types.ResumeDocument, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, ErrEmptyJobDescription
	}
	if doc == nil {
		doc = types.NewResumeDocument()
	}
	if !target.Valid() {
		target = doc.Language
	}

	safe, err := normalize.Marshal(a.limits.SanitizeForTailor(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	user := prompts.Format(prompts.Resume(prompts.KeyTailorUser), map[string]string{
		"Resume":         safe,
		"JobDescription": normalize.ClampText(jobDescription, a.limits.JobDescription),
		"TargetLanguage": string(target),
	})
	req := llm.UserRequest(prompts.Resume(prompts.KeyWriterSystem), user)
	req.Structured = true

	a.emit(StepTailor, CategoryStarted, "Tailoring resume to job description", nil)
	raw, err := a.client.Complete(ctx, req)
	if err != nil {
		a.emit(StepTailor, CategoryFailed, err.Error(), nil)
		return nil, &StepError{Step: StepTailor, Cause: err}
	}

	tailored, err := a.reconciler.Tailor(doc, raw)
	if err != nil {
		a.emit(StepTailor, CategoryFailed, err.Error(), nil)
		return nil, &StepError{Step: StepTailor, Cause: err}
	}
	a.emit(StepTailor, CategoryCompleted, fmt.Sprintf("Tailored %d experience records", len(tailored.Experience)), nil)
	return tailored, nil
}

// OptimizeExperience rewrites one record's highlights and description with STAR
// bullets. The identifier is always kept. On failure the record is returned
// unchanged along with the error.
func (a *Agent) OptimizeExperience(ctx context.Context, item types.ExperienceItem) (types.ExperienceItem, error) {
	highlights, err := normalize.Marshal(item.Highlights)
	if err != nil {
		return item, err
	}
	user := prompts.Format(prompts.Resume(prompts.KeyOptimizeUser), map[string]string{
		"Role":        item.Role,
		"Company":     item.Company,
		"Highlights":  highlights,
		"Description": item.Description,
	})

	a.emit(StepOptimize, CategoryStarted, fmt.Sprintf("Optimizing %s at %s", item.Role, item.Company), nil)
	raw, err := a.client.Complete(ctx, llm.UserRequest(prompts.Resume(prompts.KeyWriterSystem), user))
	if err != nil {
		a.emit(StepOptimize, CategoryFailed, err.Error(), nil)
		return item, &StepError{Step: StepOptimize, Cause: err}
	}

	optimized, err := normalize.Optimize(item, raw)
	if err != nil {
		a.emit(StepOptimize, CategoryFailed, err.Error(), nil)
		return item, &StepError{Step: StepOptimize, Cause: err}
	}
	a.emit(StepOptimize, CategoryCompleted, fmt.Sprintf("Optimized %d highlights", len(optimized.Highlights)), nil)
	return optimized, nil
}
