// Package sections finds upper-case section headers in a template, attributes
// note lines to them, and splices the attributed notes back into the template.
package sections

import (
	"regexp"
	"strings"
)

// Header is a section boundary marker captured verbatim from template text,
// including any leading or trailing spaces that the pattern matched.
type Header string

// HeadingDetector finds candidate headers in template text.
type HeadingDetector interface {
	Detect(template string) []Header
}

var headingRe = regexp.MustCompile(`([A-Z ]+)\n`)

// RegexDetector matches runs of upper-case letters and spaces that end at a
// line break. The match is not anchored to the start of a line, so
// "Intro TEXT\n" yields " TEXT".
type RegexDetector struct{}

func (RegexDetector) Detect(template string) []Header {
	matches := headingRe.FindAllStringSubmatch(template, -1)
	headers := make([]Header, 0, len(matches))
	for _, m := range matches {
		headers = append(headers, Header(m[1]))
	}
	return headers
}

// Identify returns the headers d finds in template, in order of appearance.
// Duplicates are kept. A nil detector means RegexDetector.
func Identify(d HeadingDetector, template string) []Header {
	if d == nil {
		d = RegexDetector{}
	}
	return d.Detect(template)
}

// Lines splits text on "\n". A trailing newline ends the last line rather
// than starting an empty one.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
