package server

import (
	"io"
	"net/http"

	"github.com/jonathan/resume-studio/internal/rendering"
	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/store"
	"github.com/jonathan/resume-studio/internal/types"
)

// FieldCommitRequest is posted by the editable surface when a field loses focus
type FieldCommitRequest struct {
	Path  string `json:"path"`
	Value string `json:"value"`
}

// FieldCommitResponse reports whether the commit wrote anything
type FieldCommitResponse struct {
	Changed bool   `json:"changed"`
	Version uint64 `json:"version"`
}

// handleGetDocument returns the session document
func (s *Server) handleGetDocument(w http.ResponseWriter, _ *http.Request) {
	s.documentResponse(w, http.StatusOK)
}

// handleReplaceDocument replaces the whole document after schema validation
func (s *Server) handleReplaceDocument(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read request body: "+err.Error())
		return
	}

	doc, err := schemas.DecodeDocument(data)
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := s.store.Replace(doc); err != nil {
		s.fail(w, err)
		return
	}
	s.documentResponse(w, http.StatusOK)
}

// handleResetDocument discards the session document
func (s *Server) handleResetDocument(w http.ResponseWriter, _ *http.Request) {
	s.store.Reset()
	s.documentResponse(w, http.StatusOK)
}

// handleCommitField applies one edit from the editable surface
func (s *Server) handleCommitField(w http.ResponseWriter, r *http.Request) {
	var req FieldCommitRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}

	changed, err := rendering.Commit(s.store, req.Path, req.Value)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, FieldCommitResponse{Changed: changed, Version: s.store.Version()})
}

// handleSetLanguage switches the document language
func (s *Server) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language types.Language `json:"language"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if err := s.store.SetLanguage(req.Language); err != nil {
		s.fail(w, err)
		return
	}
	s.documentResponse(w, http.StatusOK)
}

// handleSetTemplate switches the layout variant
func (s *Server) handleSetTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Template types.TemplateID `json:"template"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if err := s.store.SetTemplate(req.Template); err != nil {
		s.fail(w, err)
		return
	}
	s.documentResponse(w, http.StatusOK)
}

// handleSetProfile replaces the profile. The stored avatar is kept; it only
// changes through the avatar endpoints.
func (s *Server) handleSetProfile(w http.ResponseWriter, r *http.Request) {
	var profile types.Profile
	if err := decodeJSON(r, &profile); err != nil {
		s.fail(w, err)
		return
	}
	_, err := s.store.Update(store.SectionProfile, func(doc *types.ResumeDocument) (bool, error) {
		profile.Avatar = doc.Profile.Avatar
		changed := doc.Profile != profile
		doc.Profile = profile
		return changed, nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	s.documentResponse(w, http.StatusOK)
}

// handleSetSkills replaces the skills from comma-separated text
func (s *Server) handleSetSkills(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text   *string  `json:"text"`
		Skills []string `json:"skills"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if req.Text != nil {
		s.store.SetSkillsText(*req.Text)
	} else {
		s.store.SetSkills(req.Skills)
	}
	s.documentResponse(w, http.StatusOK)
}

// handleSetAvatar crops an uploaded image (multipart field "image") into the profile
func (s *Server) handleSetAvatar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.fail(w, &ErrValidation{Field: "image", Message: err.Error()})
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		s.fail(w, &ErrValidation{Field: "image", Message: err.Error()})
		return
	}
	defer file.Close() //nolint:errcheck

	src, err := io.ReadAll(file)
	if err != nil {
		s.fail(w, &ErrValidation{Field: "image", Message: err.Error()})
		return
	}

	crop, err := parseCrop(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	if _, err := rendering.ApplyAvatar(s.store, src, crop); err != nil {
		s.fail(w, err)
		return
	}
	s.documentResponse(w, http.StatusOK)
}

// handleClearAvatar removes the profile picture
func (s *Server) handleClearAvatar(w http.ResponseWriter, _ *http.Request) {
	if _, err := rendering.ClearAvatar(s.store); err != nil {
		s.fail(w, err)
		return
	}
	s.documentResponse(w, http.StatusOK)
}

// handleAddExperience prepends a blank experience record
func (s *Server) handleAddExperience(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusCreated, s.store.AddExperience())
}

// handleUpdateExperience replaces an experience record; the path id wins over the body
func (s *Server) handleUpdateExperience(w http.ResponseWriter, r *http.Request) {
	var item types.ExperienceItem
	if err := decodeJSON(r, &item); err != nil {
		s.fail(w, err)
		return
	}
	item.ID = r.PathValue("id")
	if item.Highlights == nil {
		item.Highlights = []string{}
	}
	if err := s.store.ReplaceExperienceItem(item); err != nil {
		s.fail(w, err)
		return
	}
	s.documentResponse(w, http.StatusOK)
}

// handleDeleteExperience removes an experience record
func (s *Server) handleDeleteExperience(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteExperience(r.PathValue("id")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAddEducation prepends a placeholder education record
func (s *Server) handleAddEducation(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusCreated, s.store.AddEducation())
}

// handleUpdateEducation replaces an education record; the path id wins over the body
func (s *Server) handleUpdateEducation(w http.ResponseWriter, r *http.Request) {
	var item types.EducationItem
	if err := decodeJSON(r, &item); err != nil {
		s.fail(w, err)
		return
	}
	item.ID = r.PathValue("id")
	if err := s.store.ReplaceEducationItem(item); err != nil {
		s.fail(w, err)
		return
	}
	s.documentResponse(w, http.StatusOK)
}

// handleDeleteEducation removes an education record
func (s *Server) handleDeleteEducation(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteEducation(r.PathValue("id")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
