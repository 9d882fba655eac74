// Package pipeline runs one report request from uploaded documents to the
// rendered PDF: extract, merge, render. Stages run in order and each reads
// only what the previous one produced.
package pipeline

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/reportmerge/internal/config"
	"github.com/dgallion1/reportmerge/internal/merge"
	"github.com/dgallion1/reportmerge/internal/parser"
	"github.com/dgallion1/reportmerge/internal/render"
	"github.com/dgallion1/reportmerge/internal/sections"
)

const (
	// ReportFilename is the download name of every generated report.
	ReportFilename = "generated_report.pdf"
	// ReportContentType is the media type of the generated report.
	ReportContentType = "application/pdf"
)

// Document is one uploaded file.
type Document struct {
	Filename string
	Data     []byte
}

// Input is a single report request.
type Input struct {
	Template Document
	Notes    Document
	Mode     string // config.ModeHeuristic or config.ModeLLM; empty means default

	RequestID string // added to log lines when set
}

// Report is the successful result of Run.
type Report struct {
	PDF         []byte
	Filename    string
	ContentType string
	Mode        string
	Merged      string
	Headers     []sections.Header
	TemplateSHA string
	NotesSHA    string
}

// Pipeline holds the per-process collaborators. It keeps no per-request
// state and may be shared.
type Pipeline struct {
	heuristic   merge.Merger
	llm         merge.Merger
	detector    sections.HeadingDetector
	parseOpts   parser.Options
	layout      render.Layout
	defaultMode string
	log         *slog.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLayout renders reports with l instead of render.DefaultLayout.
func WithLayout(l render.Layout) Option {
	return func(p *Pipeline) { p.layout = l }
}

// ConfigOptions returns the options implied by cfg, loading the layout file
// when one is set.
func ConfigOptions(cfg config.Config) ([]Option, error) {
	var opts []Option
	if cfg.LayoutFile != "" {
		l, err := render.LoadLayout(cfg.LayoutFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithLayout(l))
	}
	return opts, nil
}

// New builds a pipeline from cfg. completer may be nil, in which case only
// heuristic merging is available.
func New(cfg config.Config, completer merge.Completer, log *slog.Logger, opts ...Option) *Pipeline {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	detector := sections.RegexDetector{}
	p := &Pipeline{
		heuristic:   merge.NewHeuristic(detector, log),
		detector:    detector,
		parseOpts:   parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
		layout:      render.DefaultLayout(),
		defaultMode: cfg.MergeMode,
		log:         log,
	}
	if p.defaultMode == "" {
		p.defaultMode = config.ModeHeuristic
	}
	if completer != nil {
		p.llm = merge.NewLLM(completer, merge.OptionsFromConfig(cfg), log)
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// DefaultMode returns the mode used when a request does not name one.
func (p *Pipeline) DefaultMode() string {
	return p.defaultMode
}

// Supports reports whether mode can be served, returning ErrUnknownMode or
// ErrLLMUnavailable when it cannot.
func (p *Pipeline) Supports(mode string) error {
	_, err := p.merger(mode)
	return err
}

func (p *Pipeline) merger(mode string) (merge.Merger, error) {
	if mode == "" {
		mode = p.defaultMode
	}
	switch mode {
	case config.ModeHeuristic:
		return p.heuristic, nil
	case config.ModeLLM:
		if p.llm == nil {
			return nil, ErrLLMUnavailable
		}
		return p.llm, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// Run processes one request. An unusable mode is reported with
// ErrUnknownMode or ErrLLMUnavailable before any work starts; every later
// failure is a *Error.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Report, error) {
	m, err := p.merger(in.Mode)
	if err != nil {
		return nil, err
	}
	mode := in.Mode
	if mode == "" {
		mode = p.defaultMode
	}

	report := &Report{
		Filename:    ReportFilename,
		ContentType: ReportContentType,
		Mode:        mode,
		TemplateSHA: contentHashHex(in.Template.Data)[:16],
		NotesSHA:    contentHashHex(in.Notes.Data)[:16],
	}
	log := p.log.With("mode", mode, "template_sha", report.TemplateSHA, "notes_sha", report.NotesSHA)
	if in.RequestID != "" {
		log = log.With("request_id", in.RequestID)
	}
	start := time.Now()

	// Phase 1: Extract
	templateText, err := p.extract(in.Template)
	if err != nil {
		log.Error("template extraction failed", "error", err)
		return nil, &Error{Kind: KindDocumentUnreadable, Stage: StageExtract, Input: "template", Err: err}
	}
	notesText, err := p.extract(in.Notes)
	if err != nil {
		log.Error("notes extraction failed", "error", err)
		return nil, &Error{Kind: KindDocumentUnreadable, Stage: StageExtract, Input: "notes", Err: err}
	}
	report.Headers = sections.Identify(p.detector, templateText)
	log.Info("extracted documents",
		"template_chars", len(templateText),
		"notes_chars", len(notesText),
		"headers", len(report.Headers),
	)

	// Phase 2: Merge
	merged, err := m.Merge(ctx, templateText, notesText)
	if err != nil {
		log.Error("merge failed", "error", err)
		return nil, &Error{Kind: KindRemoteServiceFailure, Stage: StageMerge, Err: err}
	}
	report.Merged = merged

	// Phase 3: Render
	pdf, err := render.Render(merged, p.layout)
	if err != nil {
		log.Error("render failed", "error", err)
		return nil, &Error{Kind: KindRenderFailure, Stage: StageRender, Err: err}
	}
	report.PDF = pdf

	log.Info("report generated",
		"merged_chars", len(merged),
		"pdf_bytes", len(pdf),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

func (p *Pipeline) extract(doc Document) (string, error) {
	ps, err := parser.ForFile(doc.Filename, p.parseOpts)
	if err != nil {
		return "", fmt.Errorf("%w: %w", parser.ErrDocumentUnreadable, err)
	}
	return ps.Parse(bytes.NewReader(doc.Data))
}

// contentHashHex computes SHA-256 of content and returns hex string.
func contentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
