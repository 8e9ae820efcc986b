package llm

import (
	"context"
)

// Role is the author of a chat message
type Role string

// Chat roles
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat turn
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// InlineData is a binary document sent alongside the text instructions
type InlineData struct {
	MIMEType string
	Data     string // base64
}

// Request describes one gateway call
type Request struct {
	// System holds the system instructions
	System string
	// Messages are the user/assistant turns following the system instructions
	Messages []Message
	// Inline is an optional binary part; only multimodal providers accept it
	Inline *InlineData
	// Structured asks providers that support it for schema-constrained resume JSON
	Structured bool
}

// UserRequest is a convenience constructor for a system + single user turn request
func UserRequest(system, user string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: user}},
	}
}

// Client is an abstraction over LLM providers
type Client interface {
	// Complete issues exactly one request and returns the raw response text
	Complete(ctx context.Context, req Request) (string, error)
	// Model returns the model id requests are sent to
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration.
// An empty apiKey fails with AuthenticationError before any network activity.
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		c, err := NewGeminiClient(ctx, config, apiKey)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		c, err := NewChatClient(config, apiKey)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}
