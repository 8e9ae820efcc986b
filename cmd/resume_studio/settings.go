package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the saved API key and base URL",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved settings with the key masked",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save the API key and base URL",
	Long: `Save the API key and base URL. An omitted --key keeps the saved key; the base
URL is always replaced, so omitting --url clears it.`,
	RunE: runSettingsSet,
}

var (
	settingsKey string
	settingsURL string
)

func init() {
	settingsSetCmd.Flags().StringVar(&settingsKey, "key", "", "API key to save")
	settingsSetCmd.Flags().StringVar(&settingsURL, "url", "", "API base URL to save")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := settings.Open(cmd.Context(), cfg.DatabaseURL, cfg.SettingsDir)
	if err != nil {
		return err
	}
	defer store.Close() //nolint:errcheck

	saved, err := store.Load(cmd.Context())
	if err != nil {
		return err
	}
	printSettings(cmd, saved)
	return nil
}

func runSettingsSet(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := settings.Open(cmd.Context(), cfg.DatabaseURL, cfg.SettingsDir)
	if err != nil {
		return err
	}
	defer store.Close() //nolint:errcheck

	saved, err := store.Load(cmd.Context())
	if err != nil {
		return err
	}
	merged := saved.Merge(settings.Settings{APIKey: settingsKey, APIBaseURL: settingsURL})
	if err := store.Save(cmd.Context(), merged); err != nil {
		return err
	}
	printSettings(cmd, merged)
	return nil
}

func printSettings(cmd *cobra.Command, s settings.Settings) {
	key := s.MaskedKey()
	if key == "" {
		key = "(not set)"
	}
	url := s.APIBaseURL
	if url == "" {
		url = "(default)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n%s: %s\n", settings.KeyAPIKey, key, settings.KeyAPIBaseURL, url)
}
