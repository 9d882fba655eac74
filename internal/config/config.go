package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Merge modes.
const (
	ModeHeuristic = "heuristic"
	ModeLLM       = "llm"
)

// LLM strategies used when the inputs exceed the word budget.
const (
	StrategyChunk     = "chunk"
	StrategySummarize = "summarize"
)

type Config struct {
	Port string

	// Auth
	ReportmergeAPIKey string

	// Claude merging
	AnthropicAPIKey string
	AnthropicModel  string

	// Merge behavior
	MergeMode      string
	LLMStrategy    string
	LLMWordBudget  int
	LLMChunkTokens int
	LLMMaxTokens   int
	LLMStatsWindow time.Duration

	// Upload limits
	MaxUploadBytes int64

	// PDF
	PDFFallbackPdftotext bool
	LayoutFile           string // optional YAML page layout for rendered reports
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		ReportmergeAPIKey: os.Getenv("REPORTMERGE_API_KEY"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),

		MergeMode:      envOr("MERGE_MODE", ModeHeuristic),
		LLMStrategy:    envOr("LLM_STRATEGY", StrategyChunk),
		LLMWordBudget:  envInt("LLM_WORD_BUDGET", 4000),
		LLMChunkTokens: envInt("LLM_CHUNK_TOKENS", 1500),
		LLMMaxTokens:   envInt("LLM_MAX_TOKENS", 4096),
		LLMStatsWindow: envDuration("LLM_STATS_WINDOW", 1*time.Hour),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
		LayoutFile:           os.Getenv("REPORT_LAYOUT_FILE"),
	}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults replaces non-positive numeric settings with their defaults.
func (c *Config) applyDefaults() {
	if c.LLMWordBudget <= 0 {
		c.LLMWordBudget = 4000
	}
	if c.LLMChunkTokens <= 0 {
		c.LLMChunkTokens = 1500
	}
	if c.LLMMaxTokens <= 0 {
		c.LLMMaxTokens = 4096
	}
	if c.LLMStatsWindow <= 0 {
		c.LLMStatsWindow = 1 * time.Hour
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 52428800
	}
}

// LLMEnabled reports whether an Anthropic credential is configured.
func (c Config) LLMEnabled() bool {
	return c.AnthropicAPIKey != ""
}

func (c Config) Validate() error {
	switch c.MergeMode {
	case ModeHeuristic, ModeLLM:
	default:
		return fmt.Errorf("MERGE_MODE must be %q or %q, got %q", ModeHeuristic, ModeLLM, c.MergeMode)
	}
	switch c.LLMStrategy {
	case StrategyChunk, StrategySummarize:
	default:
		return fmt.Errorf("LLM_STRATEGY must be %q or %q, got %q", StrategyChunk, StrategySummarize, c.LLMStrategy)
	}
	if c.MergeMode == ModeLLM && !c.LLMEnabled() {
		return fmt.Errorf("ANTHROPIC_API_KEY is required when MERGE_MODE=%s", ModeLLM)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
