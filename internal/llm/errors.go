package llm

import (
	"errors"
	"fmt"
)

// AuthenticationError is returned when no API key is configured. No request is sent.
type AuthenticationError struct {
	Provider Provider
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("API key is missing for provider %s; configure it in settings", e.Provider)
}

// TransportError is returned when the provider answers with a non-success status
// or the request cannot be completed
type TransportError struct {
	StatusCode int
	Body       string
	Cause      error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("LLM API error (%d): %s", e.StatusCode, e.Body)
	}
	if e.Cause != nil {
		return fmt.Sprintf("LLM API request failed: %v", e.Cause)
	}
	return "LLM API request failed"
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// EmptyResponseError is returned when the call succeeds but carries no text
type EmptyResponseError struct {
	Provider Provider
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("empty response from %s", e.Provider)
}

// UnsupportedPayloadError is returned when a binary payload is sent to a text-only provider
type UnsupportedPayloadError struct {
	Provider Provider
	MIMEType string
}

func (e *UnsupportedPayloadError) Error() string {
	return fmt.Sprintf("provider %s cannot accept binary payload %s; use the gemini provider for file extraction", e.Provider, e.MIMEType)
}

// IsAuthentication reports whether err is an AuthenticationError
func IsAuthentication(err error) bool {
	var target *AuthenticationError
	return errors.As(err, &target)
}
