package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/jonathan/resume-studio/internal/ingestion"
	"github.com/jonathan/resume-studio/internal/pipeline"
	"github.com/jonathan/resume-studio/internal/status"
	"github.com/jonathan/resume-studio/internal/store"
	"github.com/jonathan/resume-studio/internal/types"
)

// InputResponse describes the session's pending extraction input
type InputResponse struct {
	Text string             `json:"text"`
	File *ingestion.Payload `json:"file,omitempty"`
}

// ExtractRequest represents the JSON body (or multipart form values) for /api/extract
type ExtractRequest struct {
	Text         string `json:"text,omitempty"`
	SystemPrompt string `json:"systemPrompt,omitempty"`
	Model        string `json:"model,omitempty"`
}

// TailorRequest represents the request body for /api/tailor
type TailorRequest struct {
	JobDescription string         `json:"jobDescription"`
	Language       types.Language `json:"language,omitempty"`
}

// DocumentResponse carries the document after a write
type DocumentResponse struct {
	Version  uint64                `json:"version"`
	Document *types.ResumeDocument `json:"document"`
}

// handleGetInput returns the pending text or file
func (s *Server) handleGetInput(w http.ResponseWriter, _ *http.Request) {
	resp := InputResponse{Text: s.input.Text()}
	if file := s.input.File(); file != nil {
		summary := *file
		summary.Text = ""
		summary.Data = ""
		resp.File = &summary
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleSetInput replaces the pending input with pasted text (JSON) or an uploaded file (multipart)
func (s *Server) handleSetInput(w http.ResponseWriter, r *http.Request) {
	if _, err := s.readExtractRequest(r); err != nil {
		s.fail(w, err)
		return
	}
	s.handleGetInput(w, r)
}

// handleClearInput drops pending text and file
func (s *Server) handleClearInput(w http.ResponseWriter, _ *http.Request) {
	s.input.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// readExtractRequest applies any text or file carried by r to the session
// input and returns the remaining options. An empty body leaves the input as is.
func (s *Server) readExtractRequest(r *http.Request) (ExtractRequest, error) {
	var req ExtractRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			return req, &ErrValidation{Field: "file", Message: err.Error()}
		}
		req.Text = r.FormValue("text")
		req.SystemPrompt = r.FormValue("systemPrompt")
		req.Model = r.FormValue("model")

		file, header, err := r.FormFile("file")
		switch {
		case err == nil:
			defer file.Close() //nolint:errcheck
			content, err := io.ReadAll(file)
			if err != nil {
				return req, &ErrValidation{Field: "file", Message: err.Error()}
			}
			payload, err := ingestion.Classify(header.Filename, header.Header.Get("Content-Type"), content)
			if err != nil {
				return req, err
			}
			s.input.SetFile(payload)
			return req, nil
		case !errors.Is(err, http.ErrMissingFile):
			return req, &ErrValidation{Field: "file", Message: err.Error()}
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}

	if strings.TrimSpace(req.Text) != "" {
		s.input.SetText(req.Text)
	}
	return req, nil
}

// handleExtract parses the session input and merges the result into the document
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	req, err := s.readExtractRequest(r)
	if err != nil {
		s.fail(w, err)
		return
	}

	if err := s.extract(r.Context(), req, nil); err != nil {
		s.fail(w, err)
		return
	}
	s.documentResponse(w, http.StatusOK)
}

// handleExtractStream is handleExtract with progress streamed as SSE
func (s *Server) handleExtractStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.readExtractRequest(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.stream(w, r, func(ctx context.Context, onProgress pipeline.ProgressCallback) error {
		return s.extract(ctx, req, onProgress)
	})
}

func (s *Server) extract(ctx context.Context, req ExtractRequest, onProgress pipeline.ProgressCallback) error {
	payload, err := s.input.Payload()
	if err != nil {
		return err
	}

	finish, err := s.tracker.Begin(status.OpParse, "Analyzing resume...")
	if err != nil {
		return err
	}

	agent, release, err := s.agent(ctx, req.Model, onProgress)
	if err != nil {
		finish(err, err.Error())
		return err
	}
	defer release()

	prompt := req.SystemPrompt
	if strings.TrimSpace(prompt) == "" {
		prompt = s.systemPrompt
	}
	extraction, err := agent.Extract(ctx, payload, pipeline.ExtractOptions{SystemPrompt: prompt})
	if err != nil {
		finish(err, err.Error())
		return err
	}

	s.store.MergeExtraction(extraction)
	finish(nil, "Resume parsed")
	return nil
}

// handleTailor rewrites the document against a job description
func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	var req TailorRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}

	if err := s.tailor(r.Context(), req, nil); err != nil {
		s.fail(w, err)
		return
	}
	s.documentResponse(w, http.StatusOK)
}

// handleTailorStream is handleTailor with progress streamed as SSE
func (s *Server) handleTailorStream(w http.ResponseWriter, r *http.Request) {
	var req TailorRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	s.stream(w, r, func(ctx context.Context, onProgress pipeline.ProgressCallback) error {
		return s.tailor(ctx, req, onProgress)
	})
}

func (s *Server) tailor(ctx context.Context, req TailorRequest, onProgress pipeline.ProgressCallback) error {
	if strings.TrimSpace(req.JobDescription) == "" {
		return pipeline.ErrEmptyJobDescription
	}
	if req.Language != "" && !req.Language.Valid() {
		return &ErrValidation{Field: "language", Message: "unsupported language " + string(req.Language)}
	}

	finish, err := s.tracker.Begin(status.OpTailor, "Tailoring resume...")
	if err != nil {
		return err
	}

	agent, release, err := s.agent(ctx, "", onProgress)
	if err != nil {
		finish(err, err.Error())
		return err
	}
	defer release()

	tailored, err := agent.Tailor(ctx, s.store.Snapshot(), req.JobDescription, req.Language)
	if err == nil {
		err = s.store.Replace(tailored)
	}
	if err != nil {
		finish(err, err.Error())
		return err
	}

	finish(nil, "Resume tailored")
	return nil
}

// handleOptimizeExperience rewrites one experience record's highlights
func (s *Server) handleOptimizeExperience(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	doc := s.store.Snapshot()
	idx := doc.FindExperience(id)
	if idx < 0 {
		s.fail(w, &store.NotFoundError{Section: store.SectionExperience, ID: id})
		return
	}

	finish, err := s.tracker.Begin(status.OpOptimize, "Optimizing experience...")
	if err != nil {
		s.fail(w, err)
		return
	}

	err = s.optimize(r.Context(), doc.Experience[idx])
	if err != nil {
		finish(err, err.Error())
		s.fail(w, err)
		return
	}
	finish(nil, "Experience optimized")
	s.documentResponse(w, http.StatusOK)
}

func (s *Server) optimize(ctx context.Context, item types.ExperienceItem) error {
	agent, release, err := s.agent(ctx, "", nil)
	if err != nil {
		return err
	}
	defer release()

	optimized, err := agent.OptimizeExperience(ctx, item)
	if err != nil {
		return err
	}
	return s.store.ReplaceExperienceItem(optimized)
}

// stream runs op with its progress forwarded as SSE events, ending with a
// complete or error event
func (s *Server) stream(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, onProgress pipeline.ProgressCallback) error) {
	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	err = op(r.Context(), func(event pipeline.ProgressEvent) {
		if err := sse.WriteProgress(event); err != nil {
			s.logger.Warn("failed to write SSE event", "error", err)
		}
	})
	if err != nil {
		sse.WriteError(err.Error())
		return
	}
	sse.WriteComplete(s.store.Version(), s.store.Snapshot())
}

// documentResponse writes the current document and version
func (s *Server) documentResponse(w http.ResponseWriter, code int) {
	s.jsonResponse(w, code, DocumentResponse{
		Version:  s.store.Version(),
		Document: s.store.Snapshot(),
	})
}
