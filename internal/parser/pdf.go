package parser

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. It uses the Go library and, if that cannot
// open the document, optionally falls back to pdftotext.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	text, err := extractPDFText(data)
	if err != nil && p.FallbackPdftotext {
		if fallback, ferr := extractPdftotext(data); ferr == nil {
			return fallback, nil
		}
	}
	if err != nil {
		return "", unreadable("pdf", err)
	}
	return text, nil
}

// extractPDFText returns every page's text joined by "\n", in page order,
// with a final newline. Pages without extractable text contribute an empty
// string. The library panics on some malformed inputs; those are reported as
// errors.
func extractPDFText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		pages = append(pages, pageText(reader.Page(i)))
	}
	return terminate(strings.Join(pages, "\n")), nil
}

// terminate ends non-empty text with a newline so that a header on the last
// line is still followed by a line break.
func terminate(text string) string {
	if text == "" || strings.HasSuffix(text, "\n") {
		return text
	}
	return text + "\n"
}

// rowTolerance is how far apart, in points, two glyph baselines may be and
// still belong to the same visual line.
const rowTolerance = 2.0

type textRow struct {
	y     float64
	texts []pdflib.Text
}

// pageText rebuilds the page line by line: glyphs are grouped into rows by
// baseline, rows are read top to bottom and glyphs left to right. Pages with
// no positioned text fall back to the library's plain-text extraction.
func pageText(page pdflib.Page) string {
	if page.V.IsNull() {
		return ""
	}
	texts := page.Content().Text
	if len(texts) == 0 {
		plain, err := page.GetPlainText(nil)
		if err != nil {
			return ""
		}
		return plain
	}

	rows := groupIntoRows(texts)
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, rowText(row.texts))
	}
	return strings.Join(lines, "\n")
}

// groupIntoRows places each glyph in the first row whose baseline is within
// rowTolerance, then orders rows from the top of the page down.
func groupIntoRows(texts []pdflib.Text) []textRow {
	var rows []textRow
	for _, t := range texts {
		placed := false
		for i := range rows {
			if math.Abs(rows[i].y-t.Y) < rowTolerance {
				rows[i].texts = append(rows[i].texts, t)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, textRow{y: t.Y, texts: []pdflib.Text{t}})
		}
	}
	// PDF coordinates grow upwards.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })
	return rows
}

// rowText joins a row's glyphs in reading order. A space is inserted where
// the gap between two glyphs is wider than a fifth of the font size and the
// document did not encode one.
func rowText(texts []pdflib.Text) string {
	sort.SliceStable(texts, func(i, j int) bool { return texts[i].X < texts[j].X })

	var sb strings.Builder
	for i, t := range texts {
		if i > 0 {
			prev := texts[i-1]
			gap := t.X - (prev.X + prev.W)
			if gap > t.FontSize/5 && !endsWithSpace(prev.S) && !strings.HasPrefix(t.S, " ") {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(t.S)
	}
	return strings.TrimRight(sb.String(), " \t\r")
}

func endsWithSpace(s string) bool {
	return strings.HasSuffix(s, " ")
}

func extractPdftotext(data []byte) (string, error) {
	// pdftotext reads from a path, so the payload goes to a temp file.
	tmp, err := os.CreateTemp("", "reportmerge-pdf-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	cmd := exec.Command("pdftotext", "-layout", tmpPath, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	pages := strings.Split(strings.TrimSuffix(string(out), "\f"), "\f")
	return terminate(strings.Join(pages, "\n")), nil
}
