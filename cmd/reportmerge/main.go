// Package main is the entry point for the reportmerge CLI, which runs the
// same pipeline as the HTTP server against local files.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgallion1/reportmerge/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the reportmerge CLI.
var rootCmd = &cobra.Command{
	Use:   "reportmerge",
	Short: "Merge a report template and free-form notes into a PDF",
	Long: `reportmerge places each block of notes under the matching upper-case
header of a template document and renders the result as a PDF.

Templates and notes may be PDF, plain text, Markdown, HTML or DOCX. Merging
is either heuristic (header alignment) or delegated to a text-generation
model when ANTHROPIC_API_KEY is configured.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./reportmerge.yaml or ~/.config/reportmerge/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log pipeline progress to stderr")
	rootCmd.PersistentFlags().String("anthropic-api-key", "", "Anthropic API key for llm mode")
	rootCmd.PersistentFlags().String("model", "", "Anthropic model identifier")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("anthropic-api-key", rootCmd.PersistentFlags().Lookup("anthropic-api-key"))
	viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("reportmerge")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "reportmerge"))
		}
	}

	viper.SetEnvPrefix("REPORTMERGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig starts from the environment configuration shared with the
// server and layers any flag, REPORTMERGE_* or config-file values on top.
func loadConfig(v *viper.Viper) (config.Config, error) {
	cfg := config.Load()
	if s := v.GetString("anthropic-api-key"); s != "" {
		cfg.AnthropicAPIKey = s
	}
	if s := v.GetString("model"); s != "" {
		cfg.AnthropicModel = s
	}
	if s := v.GetString("mode"); s != "" {
		cfg.MergeMode = s
	}
	if s := v.GetString("strategy"); s != "" {
		cfg.LLMStrategy = s
	}
	if n := v.GetInt("word-budget"); n > 0 {
		cfg.LLMWordBudget = n
	}
	if n := v.GetInt("chunk-tokens"); n > 0 {
		cfg.LLMChunkTokens = n
	}
	if s := v.GetString("layout"); s != "" {
		cfg.LayoutFile = s
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(v *viper.Viper) *slog.Logger {
	level := slog.LevelWarn
	if v.GetBool("verbose") {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
