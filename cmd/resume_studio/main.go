// Package main provides the entry point for Resume Studio: an HTTP editing
// session and a CLI for extracting, tailoring and rendering resumes.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_studio",
	Short: "Resume Studio AI resume builder",
	Long: `Resume Studio extracts structured resumes from text, PDF or image uploads,
tailors them to job descriptions and renders them as editable HTML or PDF.

Configuration can be loaded from a JSON file using --config. Command-line flags
override config file values, which override environment variables.`,
	SilenceUsage: true,
}

// Global flags shared by every command
var (
	globalConfigPath  string
	globalProvider    string
	globalModel       string
	globalAPIKey      string
	globalBaseURL     string
	globalDatabaseURL string
	globalSettingsDir string
	globalVerbose     bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globalConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	flags.StringVar(&globalProvider, "provider", "", "LLM provider: deepseek or gemini (defaults to RESUME_PROVIDER, then deepseek)")
	flags.StringVar(&globalModel, "model", "", "Model id override")
	flags.StringVar(&globalAPIKey, "api-key", "", "Provider API key (overrides saved settings and RESUME_API_KEY)")
	flags.StringVar(&globalBaseURL, "base-url", "", "Chat-completions base URL override")
	flags.StringVar(&globalDatabaseURL, "db-url", "", "PostgreSQL URL for the settings store (defaults to DATABASE_URL)")
	flags.StringVar(&globalSettingsDir, "settings-dir", "", "Directory of the settings file (defaults to ~/.resume-studio)")
	flags.BoolVarP(&globalVerbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
