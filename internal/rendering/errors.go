// Package rendering turns a resume document into HTML, either static or with
// editable leaf fields, and carries edits made on that surface back into the store.
package rendering

import "fmt"

// TemplateError represents an error parsing or executing an HTML template
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError represents a general rendering failure
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// FieldError reports a field path that does not address an editable field
type FieldError struct {
	Path    string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Path, e.Message)
}

// CropError reports an avatar image or crop that cannot be applied
type CropError struct {
	Message string
	Cause   error
}

func (e *CropError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("crop error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("crop error: %s", e.Message)
}

func (e *CropError) Unwrap() error {
	return e.Cause
}
