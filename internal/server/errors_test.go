package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-studio/internal/ingestion"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/normalize"
	"github.com/jonathan/resume-studio/internal/pipeline"
	"github.com/jonathan/resume-studio/internal/rendering"
	"github.com/jonathan/resume-studio/internal/status"
	"github.com/jonathan/resume-studio/internal/store"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "language", Message: "unsupported"}
	assert.Equal(t, "validation error: language - unsupported", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "AuthenticationError",
			err:      &llm.AuthenticationError{Provider: llm.ProviderDeepSeek},
			expected: http.StatusUnauthorized,
		},
		{
			name:     "TransportError wrapped in StepError",
			err:      &pipeline.StepError{Step: pipeline.StepTailor, Cause: &llm.TransportError{StatusCode: 500}},
			expected: http.StatusBadGateway,
		},
		{
			name:     "EmptyResponseError",
			err:      &llm.EmptyResponseError{Provider: llm.ProviderGemini},
			expected: http.StatusBadGateway,
		},
		{
			name:     "MalformedResponseError",
			err:      &normalize.MalformedResponseError{Raw: "nope"},
			expected: http.StatusBadGateway,
		},
		{
			name:     "UnsupportedFileError",
			err:      &ingestion.UnsupportedFileError{Kind: ingestion.ErrWordDocument, Guidance: ingestion.WordGuidance},
			expected: http.StatusUnsupportedMediaType,
		},
		{
			name:     "FieldError",
			err:      &rendering.FieldError{Path: "profile.x", Message: "unknown"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "NotFoundError",
			err:      fmt.Errorf("optimize: %w", &store.NotFoundError{Section: store.SectionExperience, ID: "x"}),
			expected: http.StatusNotFound,
		},
		{
			name:     "ErrBusy",
			err:      status.ErrBusy,
			expected: http.StatusConflict,
		},
		{
			name:     "empty job description",
			err:      pipeline.ErrEmptyJobDescription,
			expected: http.StatusBadRequest,
		},
		{
			name:     "empty input",
			err:      ingestion.ErrEmptyInput,
			expected: http.StatusBadRequest,
		},
		{
			name:     "unknown error",
			err:      errors.New("boom"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
