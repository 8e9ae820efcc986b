// Package normalize turns raw LLM output into resume records and reconciles it
// with the document already held in the store.
package normalize

import "fmt"

// MalformedResponseError is returned when the response text is not a JSON object,
// even after looking inside a fenced code block. It is fatal to the operation.
type MalformedResponseError struct {
	Raw   string
	Cause error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid JSON response from AI: %v", e.Cause)
	}
	return "invalid JSON response from AI"
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}
