package chunker

import (
	"strings"
	"unicode"
)

// DefaultMaxTokens is used when SplitWords is given a non-positive budget.
const DefaultMaxTokens = 1500

// SplitWords breaks text into chunks whose estimated token count does not
// exceed maxTokens. Chunks end on word boundaries and keep the original line
// breaks between the words they contain. A single word always forms at least
// one chunk, even if it alone exceeds the budget.
func SplitWords(text string, maxTokens int) []string {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	words := wordSpans(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	start := 0 // index into words of the current chunk's first word
	for i := range words {
		count := i - start + 1
		if count > 1 && wordsToTokens(count) > maxTokens {
			chunks = append(chunks, span(text, words[start], words[i-1]))
			start = i
		}
	}
	chunks = append(chunks, span(text, words[start], words[len(words)-1]))
	return chunks
}

// wordSpans returns the [start, end) byte offsets of every run of
// non-space runes, using the same notion of space as strings.Fields.
func wordSpans(text string) [][]int {
	var spans [][]int
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				spans = append(spans, []int{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, []int{start, len(text)})
	}
	return spans
}

// span returns the text from the start of first to the end of last.
func span(text string, first, last []int) string {
	return strings.TrimSpace(text[first[0]:last[1]])
}

// Pair is one template chunk and the notes chunk merged alongside it.
type Pair struct {
	Index    int
	Template string
	Notes    string
}

// Pairs splits both texts with SplitWords and lines the chunks up by
// position. When one side has fewer chunks, its missing entries are empty.
func Pairs(template, notes string, maxTokens int) []Pair {
	tc := SplitWords(template, maxTokens)
	nc := SplitWords(notes, maxTokens)

	n := max(len(tc), len(nc))
	pairs := make([]Pair, 0, n)
	for i := range n {
		p := Pair{Index: i}
		if i < len(tc) {
			p.Template = tc[i]
		}
		if i < len(nc) {
			p.Notes = nc[i]
		}
		pairs = append(pairs, p)
	}
	return pairs
}
