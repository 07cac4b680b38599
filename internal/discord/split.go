package discord

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageLength is the Discord limit for a single message, in characters.
const MaxMessageLength = 2000

// SplitMessage cuts text into chunks of at most limit runes, preferring line breaks.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 {
		limit = MaxMessageLength
	}
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}
	var chunks []string
	rest := []rune(text)
	for len(rest) > limit {
		cut := limit
		if i := lastIndexRune(rest[:limit], '\n'); i > 0 {
			cut = i
		}
		chunks = append(chunks, strings.TrimRight(string(rest[:cut]), "\n"))
		rest = rest[cut:]
		for len(rest) > 0 && rest[0] == '\n' {
			rest = rest[1:]
		}
	}
	if len(rest) > 0 {
		chunks = append(chunks, string(rest))
	}
	return chunks
}

func lastIndexRune(rs []rune, r rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == r {
			return i
		}
	}
	return -1
}
