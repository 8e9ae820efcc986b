package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"provider": "gemini",
		"model": "gemini-2.5-pro",
		"language": "fr",
		"template": "swiss",
		"port": 9090,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, "fr", cfg.Language)
	assert.Equal(t, "swiss", cfg.Template)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty is valid", cfg: Config{}},
		{name: "full", cfg: Config{Provider: "deepseek", Language: "ar", Template: "centric", Port: 8080}},
		{name: "unknown provider", cfg: Config{Provider: "openai"}, wantErr: "provider"},
		{name: "unknown language", cfg: Config{Language: "de"}, wantErr: "language"},
		{name: "unknown template", cfg: Config{Template: "neon"}, wantErr: "template"},
		{name: "bad port", cfg: Config{Port: 70000}, wantErr: "port"},
		{name: "missing prompt file", cfg: Config{SystemPromptFile: "/nonexistent/prompt.txt"}, wantErr: "system prompt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Config{
		Provider: "deepseek",
		Model:    "deepseek-chat",
		Template: "classic",
		Port:     9000,
	}

	partial := Config{
		Model:    "deepseek-reasoner",
		Language: "pt",
	}

	merged := partial.MergeWithDefaults(defaults)

	// Custom values should be preserved
	assert.Equal(t, "deepseek-reasoner", merged.Model)
	assert.Equal(t, "pt", merged.Language)

	// Default values should fill in empty fields
	assert.Equal(t, "deepseek", merged.Provider)
	assert.Equal(t, "classic", merged.Template)
	assert.Equal(t, 9000, merged.Port)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{Model: "m"}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "m", merged.Model)
	assert.Equal(t, DefaultPort, merged.Port)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvDeepSeekAPIKey, "ds-key")
	t.Setenv(EnvGeminiAPIKey, "gm-key")
	t.Setenv(EnvProvider, "")
	t.Setenv(EnvBaseURL, "proxy.example.com")

	cfg := FromEnv()
	assert.Equal(t, "ds-key", cfg.APIKey)
	assert.Equal(t, "proxy.example.com", cfg.BaseURL)

	t.Setenv(EnvProvider, "gemini")
	assert.Equal(t, "gm-key", FromEnv().APIKey)

	t.Setenv(EnvAPIKey, "explicit")
	assert.Equal(t, "explicit", FromEnv().APIKey)
}

func TestLLMConfig(t *testing.T) {
	chat := (&Config{BaseURL: "https://proxy.example.com"}).LLMConfig()
	assert.Equal(t, llm.ProviderDeepSeek, chat.Provider)
	assert.Equal(t, llm.DefaultModel, chat.GetModel())
	assert.Equal(t, "https://proxy.example.com", chat.BaseURL)

	gemini := (&Config{Provider: "gemini", Model: "gemini-2.5-pro"}).LLMConfig()
	assert.Equal(t, llm.ProviderGemini, gemini.Provider)
	assert.Equal(t, "gemini-2.5-pro", gemini.GetModel())
}

func TestSystemPrompt(t *testing.T) {
	empty, err := (&Config{}).SystemPrompt()
	require.NoError(t, err)
	assert.Empty(t, empty)

	path := filepath.Join(t.TempDir(), "prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte("You parse resumes."), 0644))
	got, err := (&Config{SystemPromptFile: path}).SystemPrompt()
	require.NoError(t, err)
	assert.Equal(t, "You parse resumes.", got)
}
