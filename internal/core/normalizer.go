package core

import (
	"strings"
	"unicode"
)

// Normalize lowercases text, replaces every rune that is neither a word
// character nor whitespace with a space, collapses whitespace runs and trims
// the result.
func Normalize(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		if isWordRune(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, strings.ToLower(text))

	return strings.Join(strings.Fields(cleaned), " ")
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
