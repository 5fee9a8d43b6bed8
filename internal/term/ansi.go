// Package term tokenizes rendered terminal text into atomic display units
// and provides the escape sequences the watch diff uses to mark changed
// regions.
package term

import (
	"strings"

	"github.com/muesli/termenv"
)

// Inverse, Uninverse and Reset are the SGR sequences wrapped around changed
// regions by the watch diff. Escape sequences inside watched output are
// passed through verbatim; these are the only sequences this tool emits
// itself.
const (
	Inverse   = termenv.CSI + termenv.ReverseSeq + "m"
	Uninverse = termenv.CSI + "27m"
	Reset     = termenv.CSI + termenv.ResetSeq + "m"
)

const esc = '\x1b'

// Kind classifies a Token.
type Kind int

const (
	// Char is a single visible character.
	Char Kind = iota
	// Newline is a line break.
	Newline
	// Escape is one complete SGR escape sequence, never split.
	Escape
)

// Token is one atomic display unit of a rendered text block.
type Token struct {
	Kind Kind
	Text string
}

// Tokenize scans text left to right into tokens. An ESC introducer consumes
// everything through the terminating 'm' as a single Escape token; a
// sequence left unterminated at end of input still becomes one Escape
// token, so concatenating the Text of all tokens always reproduces the
// input exactly.
func Tokenize(text string) []Token {
	tokens := make([]Token, 0, len(text))
	runes := []rune(text)

	for i := 0; i < len(runes); {
		switch runes[i] {
		case esc:
			j := i + 1
			for j < len(runes) {
				if runes[j] == 'm' {
					j++
					break
				}
				j++
			}
			tokens = append(tokens, Token{Kind: Escape, Text: string(runes[i:j])})
			i = j
		case '\n':
			tokens = append(tokens, Token{Kind: Newline, Text: "\n"})
			i++
		default:
			tokens = append(tokens, Token{Kind: Char, Text: string(runes[i])})
			i++
		}
	}
	return tokens
}

// Join concatenates token text back into a string.
func Join(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// ColorEnabled reports whether the active terminal supports color output.
// Diff highlighting is pointless on a terminal that strips SGR sequences.
func ColorEnabled() bool {
	return termenv.ColorProfile() != termenv.Ascii
}
