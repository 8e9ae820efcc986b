// Package llm provides the gateway to remote large-language-model providers.
// A Client issues exactly one request per call and never retries; retry policy belongs to callers.
package llm

import "strings"

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderDeepSeek speaks the OpenAI-compatible chat-completions protocol
	ProviderDeepSeek Provider = "deepseek"
	// ProviderGemini is the Google Gemini multimodal provider
	ProviderGemini Provider = "gemini"
)

const (
	// DefaultBaseURL is used when no base URL override is configured
	DefaultBaseURL = "https://api.deepseek.com"
	// DefaultModel is the chat-completions model used when none is configured
	DefaultModel = "deepseek-chat"
	// DefaultGeminiModel is the multimodal model used when none is configured
	DefaultGeminiModel = "gemini-2.5-flash"
	// DefaultTemperature keeps extraction output close to deterministic
	DefaultTemperature = 0.2

	chatCompletionsPath = "/v1/chat/completions"
)

// Config holds the model configuration for a gateway client
type Config struct {
	Provider    Provider
	Model       string
	BaseURL     string
	Temperature float32
}

// DefaultConfig returns the default chat-completions configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderDeepSeek,
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
	}
}

// DefaultGeminiConfig returns the default multimodal configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider:    ProviderGemini,
		Model:       DefaultGeminiModel,
		Temperature: DefaultTemperature,
	}
}

// GetModel returns the configured model, falling back to the provider default
func (c *Config) GetModel() string {
	if m := strings.TrimSpace(c.Model); m != "" {
		return m
	}
	if c.Provider == ProviderGemini {
		return DefaultGeminiModel
	}
	return DefaultModel
}

// WithModel returns a copy of the config using model. An empty model keeps the current one.
func (c *Config) WithModel(model string) *Config {
	next := *c
	if strings.TrimSpace(model) != "" {
		next.Model = strings.TrimSpace(model)
	}
	return &next
}

// WithBaseURL returns a copy of the config using the given base URL override
func (c *Config) WithBaseURL(baseURL string) *Config {
	next := *c
	next.BaseURL = baseURL
	return &next
}

// ResolveBaseURL normalizes a user-supplied base URL: trimmed, trailing slash stripped,
// https:// prepended when no scheme is given. An empty value yields DefaultBaseURL.
func ResolveBaseURL(baseURL string) string {
	clean := strings.TrimSpace(baseURL)
	if clean == "" {
		return DefaultBaseURL
	}
	clean = strings.TrimSuffix(clean, "/")
	if !strings.HasPrefix(clean, "http") {
		clean = "https://" + clean
	}
	return clean
}

// resolveOptionalBaseURL is ResolveBaseURL without the default fallback
func resolveOptionalBaseURL(baseURL string) string {
	if strings.TrimSpace(baseURL) == "" {
		return ""
	}
	return ResolveBaseURL(baseURL)
}
