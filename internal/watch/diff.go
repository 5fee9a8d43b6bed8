package watch

import (
	"strings"

	"github.com/calebh/cadm/internal/term"
)

// Highlight compares the token stream of the previous frame against the
// current one and returns the current frame's text with changed regions
// wrapped in inverse-video escapes. Escape sequences already present in the
// current frame are passed through verbatim and never influence the
// comparison: only visible token equality drives highlighting.
//
// The walk is line-synchronized. When the current frame reaches a line end
// before the previous frame does, the newline is held back and reprocessed
// until the previous frame catches up to its own line end. When the
// previous frame's unit is a newline and the current line keeps going, the
// extra characters are consumed (and highlighted) until the current
// newline arrives.
func Highlight(prev, cur []term.Token) string {
	var b strings.Builder
	highlight := false

	closeHighlight := func() {
		if highlight {
			b.WriteString(term.Uninverse)
			highlight = false
		}
	}
	openHighlight := func() {
		if !highlight {
			b.WriteString(term.Inverse)
			highlight = true
		}
	}

	j := 0
	for _, p := range prev {
		// Escapes from the previous frame carried no visible change
		// marker; skip them.
		if p.Kind == term.Escape {
			continue
		}

	inner:
		for j < len(cur) {
			c := cur[j]

			if c.Kind == term.Escape {
				b.WriteString(c.Text)
				j++
				continue inner
			}

			if c.Kind == term.Newline && p.Kind != term.Newline {
				// Line-boundary resync: hold the newline back for the
				// next previous unit.
				closeHighlight()
				break inner
			}

			if c.Kind == term.Newline || c.Text == p.Text {
				closeHighlight()
			} else {
				openHighlight()
			}

			b.WriteString(c.Text)
			j++

			if p.Kind == term.Newline && c.Kind != term.Newline {
				// The current line is longer than the previous one; keep
				// consuming it against the same held newline.
				continue inner
			}
			break inner
		}
	}

	// Previous frame exhausted: everything left in the current frame is
	// new. Whitespace closes an open highlight instead of extending it.
	for ; j < len(cur); j++ {
		c := cur[j]
		if c.Text == " " || c.Kind == term.Newline {
			closeHighlight()
		} else {
			openHighlight()
		}
		b.WriteString(c.Text)
	}

	if highlight {
		b.WriteString(term.Reset)
	}

	return b.String()
}
