// Package settings persists the only configuration that survives a session:
// the API key and the optional base URL override.
package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-studio/internal/llm"
)

// Fixed storage keys
const (
	KeyAPIKey     = "api_key"
	KeyAPIBaseURL = "api_base_url"
)

// Settings is the persisted configuration
type Settings struct {
	APIKey     string `toml:"api_key" json:"apiKey"`
	APIBaseURL string `toml:"api_base_url" json:"apiBaseUrl" validate:"omitempty,http_url"`
}

// Store loads and saves Settings
type Store interface {
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
	Close() error
}

// Validate checks the base URL when one is set
func (s Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return &Error{Message: "invalid settings", Cause: err}
	}
	return nil
}

// Normalized trims both values and resolves a non-empty base URL the way the
// gateway does: trailing slash stripped, https:// added when no scheme is given
func (s Settings) Normalized() Settings {
	baseURL := strings.TrimSpace(s.APIBaseURL)
	if baseURL != "" {
		baseURL = llm.ResolveBaseURL(baseURL)
	}
	return Settings{
		APIKey:     strings.TrimSpace(s.APIKey),
		APIBaseURL: baseURL,
	}
}

// Merge applies an update the way the settings form does: an empty key keeps
// the stored key, while the base URL is always taken as given
func (s Settings) Merge(update Settings) Settings {
	update = update.Normalized()
	out := s
	if update.APIKey != "" {
		out.APIKey = update.APIKey
	}
	out.APIBaseURL = update.APIBaseURL
	return out
}

// MaskedKey returns the API key with all but its last four characters hidden
func (s Settings) MaskedKey() string {
	key := s.APIKey
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

// Open returns the PostgreSQL store when databaseURL is set, otherwise the
// TOML file store in dir
func Open(ctx context.Context, databaseURL, dir string) (Store, error) {
	if databaseURL != "" {
		pg, err := ConnectPostgres(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		return pg, nil
	}
	fs, err := NewFileStore(dir)
	if err != nil {
		return nil, err
	}
	return fs, nil
}

// Error wraps settings persistence failures
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("settings: %s: %v", e.Message, e.Cause)
	}
	return "settings: " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}
