// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/types"
)

// Environment variables read by FromEnv
const (
	EnvAPIKey         = "RESUME_API_KEY"
	EnvDeepSeekAPIKey = "DEEPSEEK_API_KEY"
	EnvGeminiAPIKey   = "GEMINI_API_KEY"
	EnvBaseURL        = "RESUME_API_BASE_URL"
	EnvProvider       = "RESUME_PROVIDER"
	EnvModel          = "RESUME_MODEL"
	EnvDatabaseURL    = "DATABASE_URL"
	EnvChromePath     = "CHROME_PATH"
)

// DefaultPort is the HTTP port used by serve
const DefaultPort = 8080

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Provider
	Provider string `json:"provider,omitempty"`     // deepseek or gemini
	Model    string `json:"model,omitempty"`        // model id override
	APIKey   string `json:"api_key,omitempty"`      // provider API key
	BaseURL  string `json:"api_base_url,omitempty"` // chat-completions base URL override

	// Extraction
	SystemPromptFile string `json:"system_prompt_file,omitempty"` // replaces the default parser instructions

	// Document
	Language string `json:"language,omitempty"` // target language for tailoring
	Template string `json:"template,omitempty"` // layout variant for rendering

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL settings store
	SettingsDir string `json:"settings_dir,omitempty"` // TOML settings directory

	// Server
	Port       int    `json:"port,omitempty"`
	ChromePath string `json:"chrome_path,omitempty"` // headless Chrome for PDF export

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables. The provider-specific
// key variable is consulted when RESUME_API_KEY is unset.
func FromEnv() Config {
	cfg := Config{
		Provider:    os.Getenv(EnvProvider),
		Model:       os.Getenv(EnvModel),
		APIKey:      os.Getenv(EnvAPIKey),
		BaseURL:     os.Getenv(EnvBaseURL),
		DatabaseURL: os.Getenv(EnvDatabaseURL),
		ChromePath:  os.Getenv(EnvChromePath),
	}
	if cfg.APIKey == "" {
		if llm.Provider(cfg.Provider) == llm.ProviderGemini {
			cfg.APIKey = os.Getenv(EnvGeminiAPIKey)
		} else {
			cfg.APIKey = os.Getenv(EnvDeepSeekAPIKey)
		}
	}
	return cfg
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	switch llm.Provider(c.Provider) {
	case "", llm.ProviderDeepSeek, llm.ProviderGemini:
	default:
		return fmt.Errorf("config error: unknown provider %q", c.Provider)
	}

	if c.Language != "" && !types.Language(c.Language).Valid() {
		return fmt.Errorf("config error: unsupported language %q", c.Language)
	}
	if c.Template != "" && !types.TemplateID(c.Template).Valid() {
		return fmt.Errorf("config error: unknown template %q", c.Template)
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	// Validate file paths exist (if specified)
	if c.SystemPromptFile != "" {
		if _, err := os.Stat(c.SystemPromptFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: system prompt file not found: %s", c.SystemPromptFile)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	fill := func(field *string, def string) {
		if *field == "" {
			*field = def
		}
	}
	fill(&result.Provider, defaults.Provider)
	fill(&result.Model, defaults.Model)
	fill(&result.APIKey, defaults.APIKey)
	fill(&result.BaseURL, defaults.BaseURL)
	fill(&result.SystemPromptFile, defaults.SystemPromptFile)
	fill(&result.Language, defaults.Language)
	fill(&result.Template, defaults.Template)
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.SettingsDir, defaults.SettingsDir)
	fill(&result.ChromePath, defaults.ChromePath)

	// Int fields: use default if zero
	if result.Port == 0 {
		if defaults.Port > 0 {
			result.Port = defaults.Port
		} else {
			result.Port = DefaultPort
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// LLMConfig returns the gateway configuration for this Config
func (c *Config) LLMConfig() *llm.Config {
	base := llm.DefaultConfig()
	if llm.Provider(c.Provider) == llm.ProviderGemini {
		base = llm.DefaultGeminiConfig()
	}
	return base.WithModel(c.Model).WithBaseURL(c.BaseURL)
}

// SystemPrompt reads the custom parser instructions, or returns "" when none
// are configured
func (c *Config) SystemPrompt() (string, error) {
	if c.SystemPromptFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.SystemPromptFile)
	if err != nil {
		return "", fmt.Errorf("failed to read system prompt file %s: %w", c.SystemPromptFile, err)
	}
	return string(data), nil
}
