package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/rendering"
	"github.com/jonathan/resume-studio/internal/server"
	"github.com/jonathan/resume-studio/internal/settings"
)

var (
	servePort       int
	serveChromePath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the resume editing server",
	Long: `Start an HTTP server that owns one in-memory resume session, exposes the AI
operations as JSON endpoints and serves the editable resume at /.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().StringVar(&serveChromePath, "chrome-path", "", "Path to Chrome or Chromium for PDF export")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("chrome-path") {
		cfg.ChromePath = serveChromePath
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := settings.Open(ctx, cfg.DatabaseURL, cfg.SettingsDir)
	if err != nil {
		return fmt.Errorf("failed to open settings: %w", err)
	}

	prompt, err := cfg.SystemPrompt()
	if err != nil {
		_ = store.Close()
		return err
	}

	exporter := rendering.NewPDFExporter()
	if cfg.ChromePath != "" {
		exporter.ChromePath = cfg.ChromePath
	}

	srv, err := server.New(server.Config{
		Port:         cfg.Port,
		LLM:          cfg.LLMConfig(),
		APIKey:       cfg.APIKey,
		SystemPrompt: prompt,
		Settings:     store,
		Exporter:     exporter,
	})
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Run(ctx)
}
