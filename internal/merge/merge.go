// Package merge combines template text and notes text into report text,
// either by splicing aligned notes under template headers or by delegating
// the placement to a text-generation model.
package merge

import (
	"context"
	"log/slog"

	"github.com/dgallion1/reportmerge/internal/sections"
)

// Merger produces merged report text from template and notes text.
type Merger interface {
	Merge(ctx context.Context, template, notes string) (string, error)
}

// Heuristic aligns notes to the template's headers and splices them in.
type Heuristic struct {
	Detector sections.HeadingDetector
	Log      *slog.Logger
}

func NewHeuristic(d sections.HeadingDetector, log *slog.Logger) *Heuristic {
	if d == nil {
		d = sections.RegexDetector{}
	}
	return &Heuristic{Detector: d, Log: log}
}

func (h *Heuristic) Merge(_ context.Context, template, notes string) (string, error) {
	headers := sections.Identify(h.Detector, template)
	m := sections.Align(headers, notes)
	if h.Log != nil {
		h.Log.Info("aligned notes",
			"headers", len(headers),
			"distinct_headers", m.Len(),
			"attributed", m.Attributed(),
		)
	}
	return sections.Splice(template, m), nil
}
