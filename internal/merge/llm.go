package merge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/reportmerge/internal/chunker"
	"github.com/dgallion1/reportmerge/internal/config"
	"github.com/dgallion1/reportmerge/internal/llm"
)

// Completer returns a single text completion for a request.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// LLMOptions controls how inputs are budgeted before they are sent.
type LLMOptions struct {
	Strategy    string // config.StrategyChunk or config.StrategySummarize
	WordBudget  int    // combined words allowed in a single merge call
	ChunkTokens int    // per-chunk token budget for the chunk strategy
	MaxTokens   int    // completion budget per call
}

// OptionsFromConfig copies the LLM settings out of cfg.
func OptionsFromConfig(cfg config.Config) LLMOptions {
	return LLMOptions{
		Strategy:    cfg.LLMStrategy,
		WordBudget:  cfg.LLMWordBudget,
		ChunkTokens: cfg.LLMChunkTokens,
		MaxTokens:   cfg.LLMMaxTokens,
	}
}

// LLM delegates section placement and connective prose to a completer. The
// completion is used as the merged report without validation.
type LLM struct {
	client Completer
	opts   LLMOptions
	log    *slog.Logger
}

func NewLLM(client Completer, opts LLMOptions, log *slog.Logger) *LLM {
	if opts.Strategy == "" {
		opts.Strategy = config.StrategyChunk
	}
	if opts.WordBudget <= 0 {
		opts.WordBudget = 4000
	}
	if opts.ChunkTokens <= 0 {
		opts.ChunkTokens = chunker.DefaultMaxTokens
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 4096
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &LLM{client: client, opts: opts, log: log}
}

func (m *LLM) Merge(ctx context.Context, template, notes string) (string, error) {
	tw, nw := chunker.WordCount(template), chunker.WordCount(notes)
	log := m.log.With("template_words", tw, "notes_words", nw, "strategy", m.opts.Strategy)

	if tw+nw <= m.opts.WordBudget {
		log.Info("merging in one call")
		return m.mergeOnce(ctx, template, notes)
	}

	switch m.opts.Strategy {
	case config.StrategySummarize:
		return m.mergeSummarized(ctx, log, template, notes, tw, nw)
	default:
		return m.mergeChunked(ctx, log, template, notes)
	}
}

func (m *LLM) mergeOnce(ctx context.Context, template, notes string) (string, error) {
	return m.client.Complete(ctx, llm.Request{
		Kind:      "merge",
		System:    llm.MergeInstruction,
		User:      llm.BuildMergePrompt(template, notes),
		MaxTokens: m.opts.MaxTokens,
	})
}

func (m *LLM) mergeChunked(ctx context.Context, log *slog.Logger, template, notes string) (string, error) {
	pairs := chunker.Pairs(template, notes, m.opts.ChunkTokens)
	log.Info("merging in chunks", "pairs", len(pairs))

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		out, err := m.mergeOnce(ctx, p.Template, p.Notes)
		if err != nil {
			return "", fmt.Errorf("merge chunk %d: %w", p.Index, err)
		}
		parts = append(parts, out)
	}
	return strings.Join(parts, "\n"), nil
}

func (m *LLM) mergeSummarized(ctx context.Context, log *slog.Logger, template, notes string, tw, nw int) (string, error) {
	var err error
	if tw > m.opts.WordBudget {
		log.Info("summarizing template")
		if template, err = m.summarize(ctx, template); err != nil {
			return "", fmt.Errorf("summarize template: %w", err)
		}
	}
	if nw > m.opts.WordBudget {
		log.Info("summarizing notes")
		if notes, err = m.summarize(ctx, notes); err != nil {
			return "", fmt.Errorf("summarize notes: %w", err)
		}
	}
	return m.mergeOnce(ctx, template, notes)
}

func (m *LLM) summarize(ctx context.Context, text string) (string, error) {
	return m.client.Complete(ctx, llm.Request{
		Kind:      "summarize",
		System:    llm.SummarizeInstruction,
		User:      text,
		MaxTokens: m.opts.MaxTokens,
	})
}
