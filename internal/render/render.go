// Package render lays merged report text out as a PDF document.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
)

// ErrRender is returned when the document cannot be produced.
var ErrRender = errors.New("render report")

// Placeholder replaces characters the core fonts cannot encode.
const Placeholder = '?'

// Layout controls page geometry and typography. Sizes are in points.
type Layout struct {
	PageSize   string  `yaml:"page_size"` // fpdf size name, e.g. "Letter" or "A4"
	Margin     float64 `yaml:"margin"`
	FontFamily string  `yaml:"font_family"`
	TitleSize  float64 `yaml:"title_size"`
	BodySize   float64 `yaml:"body_size"`
	LineHeight float64 `yaml:"line_height"`
	TitleGap   float64 `yaml:"title_gap"` // space after a title line
	Title      string  `yaml:"title"`     // document metadata title
}

func DefaultLayout() Layout {
	return Layout{
		PageSize:   "Letter",
		Margin:     72,
		FontFamily: "Helvetica",
		TitleSize:  14,
		BodySize:   11,
		LineHeight: 15,
		TitleGap:   6,
		Title:      "Generated Report",
	}
}

// Render writes text as a PDF. Blank lines are skipped, lines with no
// lower-case letters become bold titles, and everything else is wrapped body
// text. Content flows down the page and a new page starts only when the
// bottom margin is reached.
func Render(text string, layout Layout) ([]byte, error) {
	layout = withDefaults(layout)

	pdf := fpdf.New("P", "pt", layout.PageSize, "")
	pdf.SetMargins(layout.Margin, layout.Margin, layout.Margin)
	pdf.SetAutoPageBreak(true, layout.Margin)
	pdf.SetTitle(layout.Title, true)
	pdf.SetCreator("reportmerge", false)
	pdf.AddPage()

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if IsTitle(trimmed) {
			pdf.SetFont(layout.FontFamily, "B", layout.TitleSize)
			pdf.MultiCell(0, layout.LineHeight, Encode(trimmed), "", "L", false)
			pdf.Ln(layout.TitleGap)
			continue
		}
		pdf.SetFont(layout.FontFamily, "", layout.BodySize)
		pdf.MultiCell(0, layout.LineHeight, Encode(strings.TrimRightFunc(line, unicode.IsSpace)), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return buf.Bytes(), nil
}

func withDefaults(l Layout) Layout {
	d := DefaultLayout()
	if l.PageSize == "" {
		l.PageSize = d.PageSize
	}
	if l.Margin <= 0 {
		l.Margin = d.Margin
	}
	if l.FontFamily == "" {
		l.FontFamily = d.FontFamily
	}
	if l.TitleSize <= 0 {
		l.TitleSize = d.TitleSize
	}
	if l.BodySize <= 0 {
		l.BodySize = d.BodySize
	}
	if l.LineHeight <= 0 {
		l.LineHeight = d.LineHeight
	}
	if l.TitleGap < 0 {
		l.TitleGap = 0
	}
	return l
}

// IsTitle reports whether line has at least one upper-case letter and no
// lower-case ones.
func IsTitle(line string) bool {
	hasUpper := false
	for _, r := range line {
		switch {
		case unicode.IsLower(r):
			return false
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			hasUpper = true
		}
	}
	return hasUpper
}

// Encode converts s to Windows-1252, the encoding of the core PDF fonts.
// Tabs become four spaces; other control characters and runes outside the
// code page become Placeholder.
func Encode(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r == '\t' {
			sb.WriteString("    ")
			continue
		}
		if r < 0x20 || r == 0x7f {
			sb.WriteByte(Placeholder)
			continue
		}
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			sb.WriteByte(Placeholder)
			continue
		}
		sb.WriteByte(b)
	}
	return sb.String()
}
