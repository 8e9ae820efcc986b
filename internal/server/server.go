// Package server provides the HTTP API of a resume editing session: one
// in-memory document, the AI operations that fill and rewrite it, and the
// editable HTML surface that commits field edits back.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-studio/internal/ingestion"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/pipeline"
	"github.com/jonathan/resume-studio/internal/settings"
	"github.com/jonathan/resume-studio/internal/status"
	"github.com/jonathan/resume-studio/internal/store"
)

// maxUploadSize bounds multipart uploads (resume files and avatars)
const maxUploadSize = 20 << 20

// ClientFactory builds the gateway client for one AI operation
type ClientFactory func(ctx context.Context, cfg *llm.Config, apiKey string) (llm.Client, error)

// Exporter turns rendered HTML into a PDF
type Exporter interface {
	Export(ctx context.Context, html string) ([]byte, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer   *http.Server
	store        *store.Store
	tracker      *status.Tracker
	input        *ingestion.Input
	settings     settings.Store
	llmConfig    *llm.Config
	apiKey       string
	systemPrompt string
	newClient    ClientFactory
	exporter     Exporter
	logger       *slog.Logger
}

// Config holds server configuration
type Config struct {
	Port int
	// LLM is the gateway configuration; persisted settings override its base URL
	LLM *llm.Config
	// APIKey is used when no key has been saved in settings
	APIKey string
	// SystemPrompt replaces the default parser instructions when set
	SystemPrompt string
	Settings     settings.Store
	Exporter     Exporter
	NewClient    ClientFactory
	Logger       *slog.Logger
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Settings == nil {
		return nil, fmt.Errorf("settings store is required")
	}

	s := &Server{
		store:        store.New(),
		tracker:      status.NewTracker(),
		input:        &ingestion.Input{},
		settings:     cfg.Settings,
		llmConfig:    cfg.LLM,
		apiKey:       cfg.APIKey,
		systemPrompt: cfg.SystemPrompt,
		newClient:    cfg.NewClient,
		exporter:     cfg.Exporter,
		logger:       cfg.Logger,
	}
	if s.llmConfig == nil {
		s.llmConfig = llm.DefaultConfig()
	}
	if s.newClient == nil {
		s.newClient = llm.NewClient
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.store.OnChange(func(c store.Change) {
		s.logger.Debug("document changed", "section", c.Section, "version", c.Version)
	})

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // AI calls and PDF export are slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleEditor)

	// Session status
	mux.HandleFunc("GET /api/status", s.handleStatus)

	// Ingestion input
	mux.HandleFunc("GET /api/input", s.handleGetInput)
	mux.HandleFunc("PUT /api/input", s.handleSetInput)
	mux.HandleFunc("DELETE /api/input", s.handleClearInput)

	// AI operations
	mux.HandleFunc("POST /api/extract", s.handleExtract)
	mux.HandleFunc("POST /api/extract/stream", s.handleExtractStream)
	mux.HandleFunc("POST /api/tailor", s.handleTailor)
	mux.HandleFunc("POST /api/tailor/stream", s.handleTailorStream)
	mux.HandleFunc("POST /api/document/experience/{id}/optimize", s.handleOptimizeExperience)

	// Document
	mux.HandleFunc("GET /api/document", s.handleGetDocument)
	mux.HandleFunc("PUT /api/document", s.handleReplaceDocument)
	mux.HandleFunc("POST /api/document/reset", s.handleResetDocument)
	mux.HandleFunc("POST /api/document/fields", s.handleCommitField)
	mux.HandleFunc("PUT /api/document/language", s.handleSetLanguage)
	mux.HandleFunc("PUT /api/document/template", s.handleSetTemplate)
	mux.HandleFunc("PUT /api/document/profile", s.handleSetProfile)
	mux.HandleFunc("PUT /api/document/skills", s.handleSetSkills)
	mux.HandleFunc("POST /api/document/avatar", s.handleSetAvatar)
	mux.HandleFunc("DELETE /api/document/avatar", s.handleClearAvatar)

	// Experience and education records
	mux.HandleFunc("POST /api/document/experience", s.handleAddExperience)
	mux.HandleFunc("PUT /api/document/experience/{id}", s.handleUpdateExperience)
	mux.HandleFunc("DELETE /api/document/experience/{id}", s.handleDeleteExperience)
	mux.HandleFunc("POST /api/document/education", s.handleAddEducation)
	mux.HandleFunc("PUT /api/document/education/{id}", s.handleUpdateEducation)
	mux.HandleFunc("DELETE /api/document/education/{id}", s.handleDeleteEducation)

	// Rendering
	mux.HandleFunc("GET /api/render", s.handleRender)
	mux.HandleFunc("GET /api/export/pdf", s.handleExportPDF)

	// Settings
	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handleUpdateSettings)

	return mux
}

// Handler returns the server's root handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Store returns the session document store
func (s *Server) Store() *store.Store {
	return s.store
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if closeErr := s.settings.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	s.logger.Info("server stopped")
	return err
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr, "duration", time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStatus returns the loading state of the session
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.tracker.Snapshot())
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail writes err with the status HTTPStatus assigns to it
func (s *Server) fail(w http.ResponseWriter, err error) {
	code := HTTPStatus(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", code, "error", err)
	}
	s.errorResponse(w, code, err.Error())
}

// decodeJSON reads a JSON request body into v
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// agent builds a pipeline agent for one AI operation. A key saved in settings
// wins over the configured one; a saved base URL overrides the configured one.
func (s *Server) agent(ctx context.Context, model string, onProgress pipeline.ProgressCallback) (*pipeline.Agent, func(), error) {
	stored, err := s.settings.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	apiKey := stored.APIKey
	if apiKey == "" {
		apiKey = s.apiKey
	}
	cfg := s.llmConfig.WithModel(model)
	if stored.APIBaseURL != "" {
		cfg = cfg.WithBaseURL(stored.APIBaseURL)
	}

	client, err := s.newClient(ctx, cfg, apiKey)
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if err := client.Close(); err != nil {
			s.logger.Warn("failed to close LLM client", "error", err)
		}
	}

	opts := []pipeline.Option{pipeline.WithLogger(s.logger)}
	if onProgress != nil {
		opts = append(opts, pipeline.WithProgress(onProgress))
	}
	return pipeline.NewAgent(client, opts...), release, nil
}
