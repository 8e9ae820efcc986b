package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ChatClient implements Client for OpenAI-compatible chat-completions endpoints
type ChatClient struct {
	http    *http.Client
	config  *Config
	apiKey  string
	baseURL string
}

// ChatOption customizes a ChatClient
type ChatOption func(*ChatClient)

// WithHTTPClient replaces the HTTP client used for requests
func WithHTTPClient(c *http.Client) ChatOption {
	return func(cc *ChatClient) {
		cc.http = c
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature"`
	Stream      bool      `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewChatClient creates a chat-completions client. The transport's own defaults govern timeouts.
func NewChatClient(config *Config, apiKey string, opts ...ChatOption) (*ChatClient, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, &AuthenticationError{Provider: ProviderDeepSeek}
	}

	c := &ChatClient{
		http:    http.DefaultClient,
		config:  config,
		apiKey:  apiKey,
		baseURL: ResolveBaseURL(config.BaseURL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Complete posts one chat-completions request
func (c *ChatClient) Complete(ctx context.Context, req Request) (string, error) {
	if req.Inline != nil {
		return "", &UnsupportedPayloadError{Provider: ProviderDeepSeek, MIMEType: req.Inline.MIMEType}
	}

	messages := make([]Message, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: req.System})
	}
	messages = append(messages, req.Messages...)

	body, err := json.Marshal(chatRequest{
		Model:       c.config.GetModel(),
		Messages:    messages,
		Temperature: c.temperature(),
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatCompletionsPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", &TransportError{Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{StatusCode: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &TransportError{StatusCode: resp.StatusCode, Body: string(respBody), Cause: err}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", &EmptyResponseError{Provider: ProviderDeepSeek}
	}
	return parsed.Choices[0].Message.Content, nil
}

// Model returns the model requests are sent to
func (c *ChatClient) Model() string {
	return c.config.GetModel()
}

// Close is a no-op; the HTTP client is shared
func (c *ChatClient) Close() error {
	return nil
}

func (c *ChatClient) temperature() float32 {
	if c.config.Temperature == 0 {
		return DefaultTemperature
	}
	return c.config.Temperature
}
