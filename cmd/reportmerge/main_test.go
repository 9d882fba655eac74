package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/reportmerge/internal/config"
	"github.com/dgallion1/reportmerge/internal/pipeline"
	"github.com/dgallion1/reportmerge/internal/render"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ANTHROPIC_API_KEY", "MERGE_MODE", "LLM_STRATEGY"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_STRATEGY", "chunk")

	v := viper.New()
	v.Set("strategy", "summarize")
	v.Set("word-budget", 100)

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, config.StrategySummarize, cfg.LLMStrategy)
	assert.Equal(t, 100, cfg.LLMWordBudget)
	assert.Equal(t, config.ModeHeuristic, cfg.MergeMode)
}

func TestLoadConfig_LLMModeNeedsKey(t *testing.T) {
	clearEnv(t)

	v := viper.New()
	v.Set("mode", "llm")
	_, err := loadConfig(v)
	assert.Error(t, err)

	v.Set("anthropic-api-key", "sk-test")
	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.True(t, cfg.LLMEnabled())
}

func TestLoadConfig_RejectsUnknownMode(t *testing.T) {
	clearEnv(t)

	v := viper.New()
	v.Set("mode", "magic")
	_, err := loadConfig(v)
	assert.Error(t, err)
}

func TestRunGenerate_Heuristic(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	tmpl := writeFile(t, dir, "template.txt", []byte("TITLE\nSUMMARY\n"))
	notes := writeFile(t, dir, "notes.md", []byte("TITLE\n\nHello\n"))
	out := filepath.Join(dir, "out.pdf")

	var stderr bytes.Buffer
	err := runGenerate(context.Background(), config.Load(), nil, tmpl, notes, out, &stderr)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Contains(t, stderr.String(), "2 headers")
	assert.Contains(t, stderr.String(), "mode heuristic")
}

func TestRunGenerate_UnreadableInput(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	tmpl := writeFile(t, dir, "template.pdf", []byte("not a pdf"))
	notes := writeFile(t, dir, "notes.txt", []byte("TITLE\nHello\n"))

	cfg := config.Load()
	cfg.PDFFallbackPdftotext = false
	err := runGenerate(context.Background(), cfg, nil, tmpl, notes, filepath.Join(dir, "out.pdf"), &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, pipeline.KindDocumentUnreadable, pipeline.KindOf(err))
	assert.NoFileExists(t, filepath.Join(dir, "out.pdf"))
}

func TestRunGenerate_MissingFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	err := runGenerate(context.Background(), config.Load(), nil,
		filepath.Join(dir, "missing.txt"), filepath.Join(dir, "also-missing.txt"),
		filepath.Join(dir, "out.pdf"), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRunSections(t *testing.T) {
	dir := t.TempDir()
	pdf, err := render.Render("TITLE\nintro text\nSUMMARY\n", render.DefaultLayout())
	require.NoError(t, err)
	tmpl := writeFile(t, dir, "template.pdf", pdf)

	var out bytes.Buffer
	require.NoError(t, runSections(config.Config{}, tmpl, &out))
	assert.Contains(t, out.String(), "TITLE\n")
	assert.Contains(t, out.String(), "SUMMARY\n")
}

func TestRunSections_TextTemplate(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeFile(t, dir, "template.txt", []byte("A\nbody\nB\nA\n"))

	var out bytes.Buffer
	require.NoError(t, runSections(config.Config{}, tmpl, &out))
	assert.Equal(t, "A\nB\nA\n", out.String())
}

func TestRunSections_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeFile(t, dir, "template.xlsx", []byte("x"))
	assert.Error(t, runSections(config.Config{}, tmpl, &bytes.Buffer{}))
}
