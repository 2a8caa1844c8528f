package search

import "strings"

// SplitPhrase splits a free-text search phrase into words. Spaces separate
// words; text between matching single or double quotes is kept together,
// spaces included. An unterminated quote runs to the end of the input.
func SplitPhrase(s string) []string {
	var (
		out   []string
		word  strings.Builder
		quote rune
	)
	for _, c := range s {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				word.WriteRune(c)
			}
		case c == '"' || c == '\'':
			quote = c
		case c == ' ':
			if word.Len() > 0 {
				out = append(out, word.String())
				word.Reset()
			}
		default:
			word.WriteRune(c)
		}
	}
	if word.Len() > 0 {
		out = append(out, word.String())
	}
	return out
}
