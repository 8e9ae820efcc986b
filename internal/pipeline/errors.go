package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyJobDescription is returned when tailoring is requested without a job description
	ErrEmptyJobDescription = errors.New("job description is empty")
	// ErrEmptyPayload is returned when extraction is requested without text or file
	ErrEmptyPayload = errors.New("nothing to extract")
)

// StepError wraps a failure in one agent step
type StepError struct {
	Step  string
	Cause error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Cause)
}

func (e *StepError) Unwrap() error {
	return e.Cause
}
