package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/rendering"
	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a resume document as HTML",
	RunE:  runRender,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a resume document as an A4 PDF using headless Chrome",
	Long: `Export a resume document as an A4 PDF. Chrome is located through --chrome-path,
the CHROME_PATH environment variable or the default install locations.`,
	RunE: runExport,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a resume document against its JSON Schema",
	RunE:  runValidate,
}

var (
	renderDoc      string
	renderOutput   string
	renderTemplate string
	renderEditable bool

	exportDoc        string
	exportOutput     string
	exportTemplate   string
	exportChromePath string
	exportTimeout    time.Duration

	validateDoc string
)

func init() {
	renderCmd.Flags().StringVar(&renderDoc, "doc", "", "Path to document JSON (required)")
	renderCmd.Flags().StringVarP(&renderOutput, "out", "o", "", "Path to output HTML file (default stdout)")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "Layout variant override")
	renderCmd.Flags().BoolVar(&renderEditable, "editable", false, "Render contenteditable fields")
	_ = renderCmd.MarkFlagRequired("doc")

	exportCmd.Flags().StringVar(&exportDoc, "doc", "", "Path to document JSON (required)")
	exportCmd.Flags().StringVarP(&exportOutput, "out", "o", "resume.pdf", "Path to output PDF file")
	exportCmd.Flags().StringVarP(&exportTemplate, "template", "t", "", "Layout variant override")
	exportCmd.Flags().StringVar(&exportChromePath, "chrome-path", "", "Path to Chrome or Chromium (overrides CHROME_PATH)")
	exportCmd.Flags().DurationVar(&exportTimeout, "timeout", rendering.DefaultPDFTimeout, "Maximum time for PDF generation")
	_ = exportCmd.MarkFlagRequired("doc")

	validateCmd.Flags().StringVar(&validateDoc, "doc", "", "Path to document JSON (required)")
	_ = validateCmd.MarkFlagRequired("doc")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(validateCmd)
}

// documentForRender loads path and applies a template override: flag, then config
func documentForRender(path, flagTemplate, cfgTemplate string) (*types.ResumeDocument, error) {
	doc, err := loadDocument(path)
	if err != nil {
		return nil, err
	}
	template := types.TemplateID(flagTemplate)
	if template == "" {
		template = types.TemplateID(cfgTemplate)
	}
	if template != "" {
		if !template.Valid() {
			return nil, fmt.Errorf("unknown template %q", template)
		}
		doc.Template = template
	}
	return doc, nil
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	doc, err := documentForRender(renderDoc, renderTemplate, cfg.Template)
	if err != nil {
		return err
	}

	html, err := rendering.RenderHTML(doc, rendering.Options{Editable: renderEditable, CommitURL: rendering.DefaultCommitURL})
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), renderOutput, []byte(html))
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	doc, err := documentForRender(exportDoc, exportTemplate, cfg.Template)
	if err != nil {
		return err
	}

	html, err := rendering.RenderHTML(doc, rendering.Options{})
	if err != nil {
		return err
	}

	exporter := rendering.NewPDFExporter()
	if exportChromePath != "" {
		exporter.ChromePath = exportChromePath
	} else if cfg.ChromePath != "" {
		exporter.ChromePath = cfg.ChromePath
	}
	exporter.Timeout = exportTimeout

	ctx, cancel := context.WithTimeout(cmd.Context(), exportTimeout)
	defer cancel()
	pdf, err := exporter.Export(ctx, html)
	if err != nil {
		return err
	}
	if err := writeOutput(cmd.OutOrStdout(), exportOutput, pdf); err != nil {
		return err
	}
	if cfg.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d bytes to %s\n", len(pdf), exportOutput)
	}
	return nil
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	doc, err := schemas.LoadDocument(validateDoc)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintDocument(doc)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", validateDoc)
	return nil
}
