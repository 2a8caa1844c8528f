package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitPhrase(t *testing.T) {
	cases := map[string][]string{
		"":                     nil,
		"   ":                  nil,
		"one":                  {"one"},
		"one  two":             {"one", "two"},
		`p "ack" g e 2`:        {"p", "ack", "g", "e", "2"},
		`te s "t-1"`:           {"te", "s", "t-1"},
		`"two words" 'and' it`: {"two words", "and", "it"},
		`ab"c d"e`:             {"abc de"},
		`"it's"`:               {"it's"},
		`'unterminated quote`:  {"unterminated quote"},
	}
	for in, want := range cases {
		require.Equal(t, want, SplitPhrase(in), in)
	}
}
