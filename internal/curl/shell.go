// Package curl turns loosely formatted cURL transcripts into parsed requests.
//
// Every function in this package is total: malformed input degrades to default
// values instead of returning an error.
package curl

import (
	"strings"
	"unicode"
)

// Split breaks s into shell-like tokens.
//
// A single or double quote opens a quoted run closed only by the same character;
// the quote characters themselves are dropped. Whitespace outside quotes ends a
// token. Backslashes have no special meaning and an unbalanced quote keeps the
// rest of the input as literal text.
func Split(s string) []string {
	var (
		tokens []string
		buf    strings.Builder
		quote  rune
	)

	for _, ch := range s {
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				buf.WriteRune(ch)
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case unicode.IsSpace(ch):
			if buf.Len() > 0 {
				tokens = append(tokens, buf.String())
				buf.Reset()
			}
		default:
			buf.WriteRune(ch)
		}
	}

	if buf.Len() > 0 {
		tokens = append(tokens, buf.String())
	}

	return tokens
}
