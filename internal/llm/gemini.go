package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiClient implements Client for Google Gemini. It accepts inline binary documents
// and can constrain output to the resume response schema.
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if config == nil {
		config = DefaultGeminiConfig()
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, &AuthenticationError{Provider: ProviderGemini}
	}

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if endpoint := resolveOptionalBaseURL(config.BaseURL); endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Complete issues one generateContent call
func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	model := c.client.GenerativeModel(c.config.GetModel())
	temperature := c.config.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}
	model.SetTemperature(temperature)
	model.ResponseMIMEType = "application/json"
	if req.Structured {
		model.ResponseSchema = ResumeResponseSchema()
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}

	parts := make([]genai.Part, 0, len(req.Messages)+1)
	if req.Inline != nil {
		data, err := base64.StdEncoding.DecodeString(req.Inline.Data)
		if err != nil {
			return "", fmt.Errorf("failed to decode inline data: %w", err)
		}
		parts = append(parts, genai.Blob{MIMEType: req.Inline.MIMEType, Data: data})
	}
	for _, m := range req.Messages {
		if m.Content != "" {
			parts = append(parts, genai.Text(m.Content))
		}
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return "", &TransportError{StatusCode: apiErr.Code, Body: apiErr.Body, Cause: err}
		}
		return "", &TransportError{Cause: err}
	}

	text := extractTextFromResponse(resp)
	if text == "" {
		return "", &EmptyResponseError{Provider: ProviderGemini}
	}
	return text, nil
}

// Model returns the model requests are sent to
func (c *GeminiClient) Model() string {
	return c.config.GetModel()
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse joins the text parts of the first candidate
func extractTextFromResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

// ResumeResponseSchema is the strict schema for extraction and tailoring output:
// language, profile, experience[], education[], skills[]
func ResumeResponseSchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	strList := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeArray, Items: str(""), Description: desc}
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"language": str("Detect the language code (en, zh, fr, pt, ar)."),
			"profile": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":     str(""),
					"email":    str(""),
					"phone":    str(""),
					"location": str(""),
					"summary":  str(""),
				},
			},
			"experience": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"company":     str(""),
						"role":        str(""),
						"startDate":   str(""),
						"endDate":     str(""),
						"location":    str(""),
						"description": str(""),
						"highlights":  strList("3-6 STAR method bullet points."),
						"tags":        strList(""),
					},
				},
			},
			"education": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"school": str(""),
						"degree": str(""),
						"year":   str(""),
					},
				},
			},
			"skills": strList(""),
		},
	}
}
