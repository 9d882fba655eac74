package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgallion1/reportmerge/internal/config"
	"github.com/dgallion1/reportmerge/internal/llm"
	"github.com/dgallion1/reportmerge/internal/merge"
	"github.com/dgallion1/reportmerge/internal/pipeline"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Merge a template and notes into a PDF report",
	Long: `Generate reads the template and notes documents, merges the notes into
the template's sections and writes the rendered PDF to --out.

In heuristic mode each notes line that starts with one of the template's
upper-case headers switches the section the following lines belong to. In
llm mode the merge is delegated to the configured model; long inputs are
either chunked or summarized first depending on --strategy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		templatePath, _ := cmd.Flags().GetString("template")
		notesPath, _ := cmd.Flags().GetString("notes")
		out, _ := cmd.Flags().GetString("out")
		return runGenerate(cmd.Context(), cfg, newLogger(viper.GetViper()), templatePath, notesPath, out, cmd.ErrOrStderr())
	},
}

func init() {
	generateCmd.Flags().String("template", "", "path to the template document")
	generateCmd.Flags().String("notes", "", "path to the notes document")
	generateCmd.Flags().String("out", pipeline.ReportFilename, "output PDF path")
	generateCmd.Flags().String("mode", "", "merge mode: heuristic or llm (default from MERGE_MODE)")
	generateCmd.Flags().String("strategy", "", "llm over-budget strategy: chunk or summarize")
	generateCmd.Flags().Int("word-budget", 0, "combined words allowed in a single llm merge call")
	generateCmd.Flags().Int("chunk-tokens", 0, "per-chunk token budget for the chunk strategy")
	generateCmd.Flags().String("layout", "", "YAML page layout file")
	generateCmd.MarkFlagRequired("template")
	generateCmd.MarkFlagRequired("notes")

	viper.BindPFlag("mode", generateCmd.Flags().Lookup("mode"))
	viper.BindPFlag("strategy", generateCmd.Flags().Lookup("strategy"))
	viper.BindPFlag("word-budget", generateCmd.Flags().Lookup("word-budget"))
	viper.BindPFlag("chunk-tokens", generateCmd.Flags().Lookup("chunk-tokens"))
	viper.BindPFlag("layout", generateCmd.Flags().Lookup("layout"))

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(ctx context.Context, cfg config.Config, log *slog.Logger, templatePath, notesPath, out string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	template, err := readDocument(templatePath)
	if err != nil {
		return err
	}
	notes, err := readDocument(notesPath)
	if err != nil {
		return err
	}

	var completer merge.Completer
	if cfg.LLMEnabled() {
		claude := llm.NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		defer claude.Close()
		completer = claude
	}

	opts, err := pipeline.ConfigOptions(cfg)
	if err != nil {
		return err
	}
	p := pipeline.New(cfg, completer, log, opts...)
	report, err := p.Run(ctx, pipeline.Input{Template: template, Notes: notes})
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, report.PDF, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(w, "wrote %s (%d bytes, %d headers, mode %s)\n", out, len(report.PDF), len(report.Headers), report.Mode)
	return nil
}

func readDocument(path string) (pipeline.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return pipeline.Document{Filename: filepath.Base(path), Data: data}, nil
}
