package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papyrus-labs/quire/internal/config"
	"github.com/papyrus-labs/quire/internal/document"
	"github.com/papyrus-labs/quire/internal/extract"
	"github.com/papyrus-labs/quire/internal/output"
	"github.com/papyrus-labs/quire/internal/providers"
)

var textFile string

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract structure, metadata, and references from a thesis document",
	Long: `Extract runs the full pipeline over one document and prints the
assembled record.

DOCX sources are read directly, including their embedded navigation
anchors for outline reconstruction. PDF sources carry no extractable
text here; convert them externally and pass the conversion with --text.
Without a configured LLM provider the pipeline still runs, pattern-only.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		doc, err := document.Open(args[0])
		if err != nil {
			return err
		}
		if textFile != "" {
			raw, err := os.ReadFile(textFile)
			if err != nil {
				return fmt.Errorf("text file: %w", err)
			}
			doc.SetText(string(raw))
		}
		if doc.Format == document.FormatPDF && doc.Text == "" {
			return fmt.Errorf("%s has no extractable text, convert it and pass --text", args[0])
		}

		registry := providers.NewRegistryFromConfig(cfg.ProviderRegistry())
		registry.SetLogger(logger)

		var client providers.LLMClient
		if c, err := registry.GetLLM(cfg.Defaults.LLMProvider); err == nil {
			client = c
		} else {
			logger.Warn("no usable LLM provider, running pattern-only",
				"provider", cfg.Defaults.LLMProvider)
		}

		rec, err := extract.New(cfg, client, logger).Run(cmd.Context(), doc)
		if err != nil {
			return err
		}
		return output.Write(rec)
	},
}

func init() {
	extractCmd.Flags().StringVar(
		&textFile, "text", "", "plain-text conversion to use as the document body (required for PDF)",
	)
}
