package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/types"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor a resume document to a job description",
	Long: `Rewrite a resume document against a job description, optionally translating
it. Records keep their identifiers; the avatar is never sent to the provider.`,
	RunE: runTailor,
}

var (
	tailorDoc      string
	tailorJob      string
	tailorJobText  string
	tailorLanguage string
	tailorOutput   string
)

func init() {
	tailorCmd.Flags().StringVar(&tailorDoc, "doc", "", "Path to document JSON (required)")
	tailorCmd.Flags().StringVarP(&tailorJob, "job", "j", "", "Path to job description file, or - for stdin")
	tailorCmd.Flags().StringVar(&tailorJobText, "job-text", "", "Job description text")
	tailorCmd.Flags().StringVarP(&tailorLanguage, "language", "l", "", "Target language: en, fr, pt, ar or zh (defaults to the document language)")
	tailorCmd.Flags().StringVarP(&tailorOutput, "out", "o", "", "Path to output document JSON (default stdout)")
	_ = tailorCmd.MarkFlagRequired("doc")

	rootCmd.AddCommand(tailorCmd)
}

func runTailor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	jobDescription := tailorJobText
	if tailorJob != "" {
		if jobDescription, err = readFile(cmd.InOrStdin(), tailorJob); err != nil {
			return err
		}
	}

	language := types.Language(tailorLanguage)
	if language == "" {
		language = types.Language(cfg.Language)
	}
	if language != "" && !language.Valid() {
		return fmt.Errorf("unsupported language %q", language)
	}

	doc, err := loadDocument(tailorDoc)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	agent, release, err := newAgent(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer release()

	tailored, err := agent.Tailor(ctx, doc, jobDescription, language)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintDocument(tailored)
	}
	return writeDocument(cmd.OutOrStdout(), tailorOutput, tailored)
}
