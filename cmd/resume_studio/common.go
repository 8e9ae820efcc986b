package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/pipeline"
	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/settings"
	"github.com/jonathan/resume-studio/internal/types"
)

// loadConfig merges the config file, explicitly set flags and the environment,
// in that order of priority after flags
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if globalConfigPath != "" {
		loaded, err := config.LoadConfig(globalConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.Provider = globalProvider
	}
	if flags.Changed("model") {
		cfg.Model = globalModel
	}
	if flags.Changed("api-key") {
		cfg.APIKey = globalAPIKey
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = globalBaseURL
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = globalDatabaseURL
	}
	if flags.Changed("settings-dir") {
		cfg.SettingsDir = globalSettingsDir
	}
	if flags.Changed("verbose") {
		cfg.Verbose = globalVerbose
	}

	cfg = cfg.MergeWithDefaults(config.FromEnv())
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	setupLogger(cmd.ErrOrStderr(), cfg.Verbose)
	return cfg, nil
}

// setupLogger installs the default text logger on w
func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// resolveCredentials picks the API key and base URL for a run. An --api-key
// flag wins; otherwise a saved key wins over the config file and environment.
// A saved base URL fills in only when none is configured.
func resolveCredentials(cmd *cobra.Command, cfg config.Config, saved settings.Settings) (apiKey, baseURL string) {
	apiKey = cfg.APIKey
	if !cmd.Flags().Changed("api-key") && saved.APIKey != "" {
		apiKey = saved.APIKey
	}
	baseURL = cfg.BaseURL
	if baseURL == "" {
		baseURL = saved.APIBaseURL
	}
	return apiKey, baseURL
}

// newAgent builds a pipeline agent from cfg and the saved settings. Progress is
// printed when verbose output is on.
func newAgent(ctx context.Context, cmd *cobra.Command, cfg config.Config) (*pipeline.Agent, func(), error) {
	store, err := settings.Open(ctx, cfg.DatabaseURL, cfg.SettingsDir)
	if err != nil {
		return nil, nil, err
	}
	saved, err := store.Load(ctx)
	_ = store.Close()
	if err != nil {
		return nil, nil, err
	}

	apiKey, baseURL := resolveCredentials(cmd, cfg, saved)
	client, err := llm.NewClient(ctx, cfg.LLMConfig().WithBaseURL(baseURL), apiKey)
	if err != nil {
		return nil, nil, err
	}

	opts := []pipeline.Option{pipeline.WithLogger(slog.Default())}
	if cfg.Verbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		opts = append(opts, pipeline.WithProgress(printer.PrintProgress))
	}
	release := func() { _ = client.Close() }
	return pipeline.NewAgent(client, opts...), release, nil
}

// loadDocument reads a document file, or returns a fresh document for an empty path
func loadDocument(path string) (*types.ResumeDocument, error) {
	if path == "" {
		return types.NewResumeDocument(), nil
	}
	return schemas.LoadDocument(path)
}

// writeDocument writes doc as indented JSON to path, or to w when path is empty
func writeDocument(w io.Writer, path string, doc *types.ResumeDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	data = append(data, '\n')
	return writeOutput(w, path, data)
}

// writeOutput writes data to path, or to w when path is empty
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
