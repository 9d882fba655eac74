package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dgallion1/reportmerge/internal/config"
	"github.com/dgallion1/reportmerge/internal/parser"
	"github.com/dgallion1/reportmerge/internal/sections"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List the headers detected in a template",
	Long: `Sections extracts the template's text and prints every upper-case header
line in document order, one per line. Duplicates are printed each time they
occur.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		templatePath, _ := cmd.Flags().GetString("template")
		return runSections(config.Load(), templatePath, cmd.OutOrStdout())
	},
}

func init() {
	sectionsCmd.Flags().String("template", "", "path to the template document")
	sectionsCmd.MarkFlagRequired("template")

	rootCmd.AddCommand(sectionsCmd)
}

func runSections(cfg config.Config, templatePath string, w io.Writer) error {
	doc, err := readDocument(templatePath)
	if err != nil {
		return err
	}
	ps, err := parser.ForFile(doc.Filename, parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext})
	if err != nil {
		return err
	}
	text, err := ps.Parse(bytes.NewReader(doc.Data))
	if err != nil {
		return err
	}
	for _, h := range sections.Identify(nil, text) {
		fmt.Fprintln(w, h)
	}
	return nil
}
