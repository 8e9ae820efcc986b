// Package ingestion classifies user-supplied resume input into a text or binary
// payload for the extraction call.
package ingestion

import (
	"errors"
	"fmt"
)

var (
	// ErrWordDocument is returned for .doc/.docx uploads
	ErrWordDocument = errors.New("word documents are not supported")
	// ErrUnsupportedType is returned for every other unrecognized upload
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrEmptyInput is returned when neither text nor a file was supplied
	ErrEmptyInput = errors.New("no resume text or file provided")
)

// Guidance messages shown to the user for rejected uploads
const (
	WordGuidance        = "Word documents (.docx) cannot be analyzed directly. Please 'Save as PDF' and upload the PDF."
	UnsupportedGuidance = "Please use PDF, Images, or Text."
)

// UnsupportedFileError describes a rejected upload
type UnsupportedFileError struct {
	Name      string
	MediaType string
	Guidance  string
	Kind      error
}

func (e *UnsupportedFileError) Error() string {
	if errors.Is(e.Kind, ErrWordDocument) {
		return e.Guidance
	}
	return fmt.Sprintf("Unsupported file type: %s. %s", e.MediaType, e.Guidance)
}

func (e *UnsupportedFileError) Unwrap() error {
	return e.Kind
}
