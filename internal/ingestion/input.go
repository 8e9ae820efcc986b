package ingestion

import (
	"strings"
	"sync"
)

// Input holds what the user has supplied for extraction. Pasted text and a chosen
// file are mutually exclusive: setting one clears the other.
type Input struct {
	mu   sync.Mutex
	text string
	file *Payload
}

// SetText replaces the pasted text and drops any chosen file
func (in *Input) SetText(text string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.text = text
	in.file = nil
}

// SetFile replaces the chosen file and drops any pasted text
func (in *Input) SetFile(p *Payload) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.file = p
	in.text = ""
}

// Clear drops both text and file
func (in *Input) Clear() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.text = ""
	in.file = nil
}

// Text returns the pasted text
func (in *Input) Text() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.text
}

// File returns the chosen file, or nil
func (in *Input) File() *Payload {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.file
}

// Payload returns the current input ready for extraction
func (in *Input) Payload() (*Payload, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.file != nil {
		return in.file, nil
	}
	if strings.TrimSpace(in.text) == "" {
		return nil, ErrEmptyInput
	}
	return TextPayload(in.text), nil
}
