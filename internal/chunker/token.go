package chunker

import "strings"

// tokensPerWord is the rough ratio used for English prose.
const tokensPerWord = 1.33

// WordCount returns the number of whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// EstimateTokens gives a rough token count from the word count.
// Exact tokenization is not required for budgeting API calls.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	tokens := wordsToTokens(WordCount(text))
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

func wordsToTokens(words int) int {
	return int(float64(words) * tokensPerWord)
}
