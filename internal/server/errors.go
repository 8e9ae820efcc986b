package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-studio/internal/ingestion"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/normalize"
	"github.com/jonathan/resume-studio/internal/pipeline"
	"github.com/jonathan/resume-studio/internal/rendering"
	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/status"
	"github.com/jonathan/resume-studio/internal/store"
	"github.com/jonathan/resume-studio/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		transportErr *llm.TransportError
		emptyErr     *llm.EmptyResponseError
		payloadErr   *llm.UnsupportedPayloadError
		malformedErr *normalize.MalformedResponseError
		fileErr      *ingestion.UnsupportedFileError
		fieldErr     *rendering.FieldError
		cropErr      *rendering.CropError
		notFoundErr  *store.NotFoundError
		storeErr     *store.ValidationError
		schemaErr    *schemas.ValidationError
		documentErr  *types.DocumentError
		requestErr   *ErrValidation
		validateErrs validator.ValidationErrors
	)

	switch {
	case llm.IsAuthentication(err):
		return http.StatusUnauthorized
	case errors.As(err, &transportErr), errors.As(err, &emptyErr), errors.As(err, &malformedErr):
		return http.StatusBadGateway
	case errors.As(err, &fileErr), errors.As(err, &payloadErr):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.Is(err, status.ErrBusy):
		return http.StatusConflict
	case errors.As(err, &fieldErr), errors.As(err, &cropErr),
		errors.As(err, &storeErr), errors.As(err, &schemaErr),
		errors.As(err, &documentErr), errors.As(err, &requestErr),
		errors.As(err, &validateErrs),
		errors.Is(err, ingestion.ErrEmptyInput),
		errors.Is(err, pipeline.ErrEmptyPayload),
		errors.Is(err, pipeline.ErrEmptyJobDescription):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
