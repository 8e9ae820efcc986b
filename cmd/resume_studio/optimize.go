package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/store"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Rewrite one experience record with STAR bullets",
	RunE:  runOptimize,
}

var (
	optimizeDoc    string
	optimizeID     string
	optimizeOutput string
)

func init() {
	optimizeCmd.Flags().StringVar(&optimizeDoc, "doc", "", "Path to document JSON (required)")
	optimizeCmd.Flags().StringVar(&optimizeID, "id", "", "Experience record id (required)")
	optimizeCmd.Flags().StringVarP(&optimizeOutput, "out", "o", "", "Path to output document JSON (default stdout)")
	_ = optimizeCmd.MarkFlagRequired("doc")
	_ = optimizeCmd.MarkFlagRequired("id")

	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	doc, err := loadDocument(optimizeDoc)
	if err != nil {
		return err
	}
	s := store.New()
	if err := s.Replace(doc); err != nil {
		return err
	}

	idx := doc.FindExperience(optimizeID)
	if idx < 0 {
		return &store.NotFoundError{Section: store.SectionExperience, ID: optimizeID}
	}

	ctx := cmd.Context()
	agent, release, err := newAgent(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer release()

	optimized, err := agent.OptimizeExperience(ctx, doc.Experience[idx])
	if err != nil {
		return err
	}
	if err := s.ReplaceExperienceItem(optimized); err != nil {
		return err
	}
	return writeDocument(cmd.OutOrStdout(), optimizeOutput, s.Snapshot())
}
