// Package store owns the resume document of a session. Every write replaces a
// whole section with a fresh copy and bumps a version counter.
package store

import "fmt"

// NotFoundError reports a record id missing from a section
type NotFoundError struct {
	Section Section
	ID      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s record %q not found", e.Section, e.ID)
}

// ValidationError wraps a document rejected by Replace
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}
