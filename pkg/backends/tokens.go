package backends

import "strings"

// CountTokens approximates the token count of text as its number of
// whitespace-separated words.
func CountTokens(text string) int {
	return len(strings.Fields(text))
}
