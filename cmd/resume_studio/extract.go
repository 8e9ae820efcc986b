package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/ingestion"
	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/pipeline"
	"github.com/jonathan/resume-studio/internal/store"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a structured resume from text, a PDF or an image",
	Long: `Extract a structured resume document from pasted text (--text or stdin) or a
file (--in). PDF and image files are sent to the multimodal provider; Word
documents are rejected. The result is merged into --doc when given.`,
	RunE: runExtract,
}

var (
	extractInput  string
	extractText   string
	extractDoc    string
	extractOutput string
)

func init() {
	extractCmd.Flags().StringVarP(&extractInput, "in", "i", "", "Path to resume file, or - for stdin")
	extractCmd.Flags().StringVar(&extractText, "text", "", "Resume text")
	extractCmd.Flags().StringVar(&extractDoc, "doc", "", "Existing document JSON to merge into")
	extractCmd.Flags().StringVarP(&extractOutput, "out", "o", "", "Path to output document JSON (default stdout)")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	input := &ingestion.Input{}
	if err := readExtractInput(cmd.InOrStdin(), input); err != nil {
		return err
	}
	payload, err := input.Payload()
	if err != nil {
		return fmt.Errorf("either --in or --text must be provided: %w", err)
	}

	doc, err := loadDocument(extractDoc)
	if err != nil {
		return err
	}
	prompt, err := cfg.SystemPrompt()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	agent, release, err := newAgent(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer release()

	extraction, err := agent.Extract(ctx, payload, pipeline.ExtractOptions{SystemPrompt: prompt})
	if err != nil {
		return err
	}
	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintExtraction(extraction)
	}

	s := store.New()
	if err := s.Replace(doc); err != nil {
		return err
	}
	s.MergeExtraction(extraction)
	return writeDocument(cmd.OutOrStdout(), extractOutput, s.Snapshot())
}

// readExtractInput fills input from --in or --text; a file wins over text
func readExtractInput(stdin io.Reader, input *ingestion.Input) error {
	switch {
	case extractInput == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		input.SetText(string(data))
	case extractInput != "":
		payload, err := ingestion.ReadFile(extractInput)
		if err != nil {
			return err
		}
		input.SetFile(payload)
	case extractText != "":
		input.SetText(extractText)
	}
	return nil
}

// readFile reads a flag-named file, or stdin for "-"
func readFile(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
