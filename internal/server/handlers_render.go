package server

import (
	"net/http"
	"strconv"

	"github.com/jonathan/resume-studio/internal/rendering"
	"github.com/jonathan/resume-studio/internal/settings"
)

// SettingsResponse is the settings view; the key is never returned in full
type SettingsResponse struct {
	APIKey        string `json:"apiKey"`
	APIKeyPresent bool   `json:"apiKeyPresent"`
	APIBaseURL    string `json:"apiBaseUrl"`
}

// handleEditor serves the editable resume surface
func (s *Server) handleEditor(w http.ResponseWriter, _ *http.Request) {
	s.renderHTML(w, rendering.Options{Editable: true, CommitURL: rendering.DefaultCommitURL})
}

// handleRender serves the resume as HTML; ?editable=true adds inline editing
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	editable, _ := strconv.ParseBool(r.URL.Query().Get("editable"))
	s.renderHTML(w, rendering.Options{Editable: editable, CommitURL: rendering.DefaultCommitURL})
}

func (s *Server) renderHTML(w http.ResponseWriter, opts rendering.Options) {
	html, err := rendering.RenderHTML(s.store.Snapshot(), opts)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(html)); err != nil {
		s.logger.Error("failed to write HTML response", "error", err)
	}
}

// handleExportPDF prints the static rendering to an A4 PDF
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "PDF export is not configured")
		return
	}

	html, err := rendering.RenderHTML(s.store.Snapshot(), rendering.Options{})
	if err != nil {
		s.fail(w, err)
		return
	}
	pdf, err := s.exporter.Export(r.Context(), html)
	if err != nil {
		s.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="resume.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		s.logger.Error("failed to write PDF response", "error", err)
	}
}

// parseCrop reads zoom, offsetX and offsetY form values; missing values are zero
func parseCrop(r *http.Request) (rendering.Crop, error) {
	var crop rendering.Crop
	fields := map[string]*float64{
		"zoom":    &crop.Zoom,
		"offsetX": &crop.OffsetX,
		"offsetY": &crop.OffsetY,
	}
	for name, target := range fields {
		raw := r.FormValue(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return crop, &ErrValidation{Field: name, Message: "must be a number"}
		}
		*target = v
	}
	return crop, nil
}

// handleGetSettings returns the persisted settings with the key masked
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	stored, err := s.settings.Load(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, settingsResponse(stored))
}

// handleUpdateSettings saves the API key and base URL. An empty key keeps the saved one.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var update settings.Settings
	if err := decodeJSON(r, &update); err != nil {
		s.fail(w, err)
		return
	}

	stored, err := s.settings.Load(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	merged := stored.Merge(update)
	if err := s.settings.Save(r.Context(), merged); err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, settingsResponse(merged))
}

func settingsResponse(st settings.Settings) SettingsResponse {
	return SettingsResponse{
		APIKey:        st.MaskedKey(),
		APIKeyPresent: st.APIKey != "",
		APIBaseURL:    st.APIBaseURL,
	}
}
