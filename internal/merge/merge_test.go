package merge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/reportmerge/internal/config"
	"github.com/dgallion1/reportmerge/internal/llm"
	"github.com/dgallion1/reportmerge/internal/sections"
)

// --- fake completer ---

type fakeCompleter struct {
	calls  []llm.Request
	failAt int // 1-based call number that fails; 0 never fails
	reply  func(req llm.Request) string
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	f.calls = append(f.calls, req)
	if f.failAt == len(f.calls) {
		return "", fmt.Errorf("%w: status 500", llm.ErrRemoteService)
	}
	if f.reply != nil {
		return f.reply(req), nil
	}
	return fmt.Sprintf("%s-%d", req.Kind, len(f.calls)), nil
}

func (f *fakeCompleter) kinds() []string {
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.Kind
	}
	return out
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestHeuristic_Merge(t *testing.T) {
	h := NewHeuristic(nil, nil)
	got, err := h.Merge(context.Background(), "TITLE\nSUMMARY\n", "TITLE\nHello\nSUMMARY\nWorld\n")
	require.NoError(t, err)
	assert.Equal(t, "TITLE\nHello\n\nSUMMARY\nWorld\n\n", got)
}

func TestHeuristic_PassThroughWithoutMatches(t *testing.T) {
	h := NewHeuristic(nil, nil)
	template := "TITLE\nbody text\n"
	got, err := h.Merge(context.Background(), template, "unrelated notes\n")
	require.NoError(t, err)
	assert.Equal(t, template, got)
}

type stubDetector struct{}

func (stubDetector) Detect(string) []sections.Header { return []sections.Header{"TITLE"} }

// The regex detector finds nothing in this template; the stub supplies the
// header instead.
func TestHeuristic_CustomDetector(t *testing.T) {
	template := "TITLE: overview\nbody\n"
	require.Empty(t, sections.RegexDetector{}.Detect(template))

	h := NewHeuristic(stubDetector{}, nil)
	got, err := h.Merge(context.Background(), template, "TITLE\nnote line\n")
	require.NoError(t, err)
	assert.Equal(t, "TITLE\nnote line\n: overview\nbody\n", got)
}

func TestLLM_UnderBudgetSingleCall(t *testing.T) {
	fc := &fakeCompleter{reply: func(req llm.Request) string { return "MERGED REPORT" }}
	m := NewLLM(fc, LLMOptions{WordBudget: 100, MaxTokens: 256}, nil)

	got, err := m.Merge(context.Background(), "TITLE\nSUMMARY\n", "TITLE\nHello\n")
	require.NoError(t, err)
	assert.Equal(t, "MERGED REPORT", got)

	require.Len(t, fc.calls, 1)
	req := fc.calls[0]
	assert.Equal(t, "merge", req.Kind)
	assert.Equal(t, llm.MergeInstruction, req.System)
	assert.Equal(t, 256, req.MaxTokens)
	assert.Contains(t, req.User, "TEMPLATE:\nTITLE\nSUMMARY\n")
	assert.Contains(t, req.User, "NOTES:\nTITLE\nHello\n")
}

func TestLLM_ChunkStrategyOneCallPerPair(t *testing.T) {
	fc := &fakeCompleter{}
	// 10 tokens per chunk is 8 words; 20 template words make 3 chunks, 10
	// notes words make 2.
	m := NewLLM(fc, LLMOptions{Strategy: config.StrategyChunk, WordBudget: 15, ChunkTokens: 10}, nil)

	got, err := m.Merge(context.Background(), words(20), words(10))
	require.NoError(t, err)

	require.Len(t, fc.calls, 3)
	assert.Equal(t, []string{"merge", "merge", "merge"}, fc.kinds())
	assert.Equal(t, "merge-1\nmerge-2\nmerge-3", got)
	assert.Contains(t, fc.calls[2].User, "NOTES:\n")
	assert.True(t, strings.HasSuffix(fc.calls[2].User, "NOTES:\n"), "third pair has no notes chunk")
}

func TestLLM_ChunkStrategyFailureAborts(t *testing.T) {
	fc := &fakeCompleter{failAt: 2}
	m := NewLLM(fc, LLMOptions{Strategy: config.StrategyChunk, WordBudget: 15, ChunkTokens: 10}, nil)

	_, err := m.Merge(context.Background(), words(20), words(10))
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrRemoteService)
	assert.Contains(t, err.Error(), "merge chunk 1")
	assert.Len(t, fc.calls, 2, "no further chunks after a failure")
}

func TestLLM_SummarizeOnlyOversizedSide(t *testing.T) {
	fc := &fakeCompleter{reply: func(req llm.Request) string {
		if req.Kind == "summarize" {
			return "SHORT NOTES"
		}
		return "FINAL"
	}}
	m := NewLLM(fc, LLMOptions{Strategy: config.StrategySummarize, WordBudget: 50}, nil)

	got, err := m.Merge(context.Background(), words(10), words(60))
	require.NoError(t, err)
	assert.Equal(t, "FINAL", got)

	assert.Equal(t, []string{"summarize", "merge"}, fc.kinds())
	assert.Equal(t, llm.SummarizeInstruction, fc.calls[0].System)
	assert.Equal(t, words(60), fc.calls[0].User)
	assert.Contains(t, fc.calls[1].User, "NOTES:\nSHORT NOTES")
	assert.Contains(t, fc.calls[1].User, "TEMPLATE:\n"+words(10))
}

func TestLLM_SummarizeBothSides(t *testing.T) {
	fc := &fakeCompleter{}
	m := NewLLM(fc, LLMOptions{Strategy: config.StrategySummarize, WordBudget: 50}, nil)

	_, err := m.Merge(context.Background(), words(60), words(70))
	require.NoError(t, err)
	assert.Equal(t, []string{"summarize", "summarize", "merge"}, fc.kinds())
	assert.Contains(t, fc.calls[2].User, "TEMPLATE:\nsummarize-1")
	assert.Contains(t, fc.calls[2].User, "NOTES:\nsummarize-2")
}

func TestLLM_SummarizeNeitherSideOversized(t *testing.T) {
	fc := &fakeCompleter{}
	m := NewLLM(fc, LLMOptions{Strategy: config.StrategySummarize, WordBudget: 50}, nil)

	_, err := m.Merge(context.Background(), words(40), words(40))
	require.NoError(t, err)
	assert.Equal(t, []string{"merge"}, fc.kinds())
}

func TestLLM_SummarizeFailure(t *testing.T) {
	fc := &fakeCompleter{failAt: 1}
	m := NewLLM(fc, LLMOptions{Strategy: config.StrategySummarize, WordBudget: 50}, nil)

	_, err := m.Merge(context.Background(), words(60), words(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrRemoteService))
	assert.Contains(t, err.Error(), "summarize template")
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(config.Config{
		LLMStrategy:    config.StrategySummarize,
		LLMWordBudget:  10,
		LLMChunkTokens: 20,
		LLMMaxTokens:   30,
	})
	assert.Equal(t, LLMOptions{Strategy: config.StrategySummarize, WordBudget: 10, ChunkTokens: 20, MaxTokens: 30}, opts)
}
