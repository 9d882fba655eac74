package sections

import (
	"regexp"
	"strings"
)

// Map associates each header with the note text attributed to it. Keys keep
// the order in which they were first added; duplicate headers share one key.
type Map struct {
	order []Header
	notes map[Header]*strings.Builder
}

// NewMap returns a map with an empty entry for every distinct header.
func NewMap(headers []Header) *Map {
	m := &Map{notes: make(map[Header]*strings.Builder, len(headers))}
	for _, h := range headers {
		m.add(h)
	}
	return m
}

func (m *Map) add(h Header) {
	if _, ok := m.notes[h]; ok {
		return
	}
	m.order = append(m.order, h)
	m.notes[h] = &strings.Builder{}
}

// Has reports whether h is a key of the map.
func (m *Map) Has(h Header) bool {
	_, ok := m.notes[h]
	return ok
}

// Notes returns the text attributed to h, or "" if h is not a key.
func (m *Map) Notes(h Header) string {
	if b, ok := m.notes[h]; ok {
		return b.String()
	}
	return ""
}

// Headers returns the keys in insertion order.
func (m *Map) Headers() []Header {
	out := make([]Header, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of distinct headers.
func (m *Map) Len() int {
	return len(m.order)
}

// Attributed returns the number of headers with non-empty notes.
func (m *Map) Attributed() int {
	n := 0
	for _, h := range m.order {
		if m.notes[h].Len() > 0 {
			n++
		}
	}
	return n
}

// AsStrings returns a plain copy of the mapping, mostly useful in tests and
// logs.
func (m *Map) AsStrings() map[string]string {
	out := make(map[string]string, len(m.order))
	for _, h := range m.order {
		out[string(h)] = m.notes[h].String()
	}
	return out
}

var leadingUpperRe = regexp.MustCompile(`^[A-Z ]+`)

// Align attributes each note line to the most recent line whose leading
// upper-case run equals a header exactly. Header lines themselves are
// consumed; lines seen before any header are dropped.
func Align(headers []Header, notes string) *Map {
	m := NewMap(headers)
	var current *strings.Builder

	for _, line := range Lines(notes) {
		if prefix := leadingUpperRe.FindString(line); prefix != "" {
			if b, ok := m.notes[Header(prefix)]; ok {
				current = b
				continue
			}
		}
		if current != nil {
			current.WriteString(line)
			current.WriteString("\n")
		}
	}
	return m
}
