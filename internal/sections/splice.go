package sections

import "strings"

// Splice inserts each header's notes after every occurrence of the header
// text in template. Headers are processed in map order and each pass works on
// the output of the previous one, so a header that is a substring of another
// header, or of inserted notes, is matched there too. Headers with no notes
// are left untouched.
func Splice(template string, m *Map) string {
	merged := template
	for _, h := range m.order {
		notes := m.notes[h].String()
		if notes == "" {
			continue
		}
		merged = strings.ReplaceAll(merged, string(h), string(h)+"\n"+notes)
	}
	return merged
}
