package watch

import (
	"strings"
	"testing"

	"github.com/calebh/cadm/internal/term"
	"github.com/stretchr/testify/assert"
)

func highlight(prev, cur string) string {
	return Highlight(term.Tokenize(prev), term.Tokenize(cur))
}

func TestHighlightEqualFramesIsNoOp(t *testing.T) {
	frames := []string{
		"",
		"abc",
		"line one\nline two\n",
		"stats: 42 ok\n",
	}

	for _, f := range frames {
		out := highlight(f, f)
		assert.Equal(t, f, out, "identical frames must produce no markers")
		assert.NotContains(t, out, term.Inverse)
	}
}

func TestHighlightSingleChangedChar(t *testing.T) {
	out := highlight("abc", "abd")
	assert.Equal(t, "ab"+term.Inverse+"d"+term.Reset, out)
}

func TestHighlightChangeClosedByEqualTail(t *testing.T) {
	out := highlight("aXc", "aYc")
	assert.Equal(t, "a"+term.Inverse+"Y"+term.Uninverse+"c", out)
}

func TestHighlightMultilineChange(t *testing.T) {
	prev := "count: 1\nstate: ok\n"
	cur := "count: 2\nstate: ok\n"

	out := highlight(prev, cur)
	assert.Equal(t, "count: "+term.Inverse+"2"+term.Uninverse+"\nstate: ok\n", out)
}

func TestHighlightCurrentLineShorterResyncs(t *testing.T) {
	// The second line shrank; the walk must resync at the line boundary
	// instead of smearing the comparison across lines.
	prev := "aaa\nbbbb\nccc\n"
	cur := "aaa\nbb\nccc\n"

	out := highlight(prev, cur)
	assert.True(t, strings.HasPrefix(out, "aaa\nbb"), "unchanged prefix must pass through: %q", out)
	assert.Contains(t, out, "ccc\n")
}

func TestHighlightCurrentLineLongerHighlightsGrowth(t *testing.T) {
	prev := "ab\nxy\n"
	cur := "abcd\nxy\n"

	out := highlight(prev, cur)
	// "ab" matches, "cd" grew past the previous line end.
	assert.Equal(t, "ab"+term.Inverse+"cd"+term.Uninverse+"\nxy\n", out)
}

func TestHighlightTailOfNewOutput(t *testing.T) {
	prev := "one\n"
	cur := "one\nnew row\n"

	out := highlight(prev, cur)
	// Everything past the previous frame is changed; spaces and newlines
	// close the highlight rather than extend it.
	assert.Equal(t, "one\n"+term.Inverse+"new"+term.Uninverse+" "+term.Inverse+"row"+term.Uninverse+"\n", out)
}

func TestHighlightPreservesCurrentEscapes(t *testing.T) {
	prev := "ok\n"
	cur := "\x1b[32mok\x1b[0m\n"

	out := highlight(prev, cur)
	assert.Equal(t, cur, out)
	// Identical visible characters: styling-only differences never open
	// a highlight.
	assert.NotContains(t, out, term.Inverse)
}

func TestHighlightIgnoresPreviousEscapes(t *testing.T) {
	prev := "\x1b[31mok\x1b[0m"
	cur := "ok"

	out := highlight(prev, cur)
	assert.Equal(t, "ok", out)
}

func TestHighlightTrailingOpenHighlightIsReset(t *testing.T) {
	out := highlight("a", "b")
	assert.True(t, strings.HasSuffix(out, term.Reset), "open highlight must be closed at stream end: %q", out)
}

func TestHighlightAgainstEmptyPrevious(t *testing.T) {
	out := highlight("", "ab cd")
	assert.Equal(t,
		term.Inverse+"ab"+term.Uninverse+" "+term.Inverse+"cd"+term.Reset,
		out)
}
