// Package watch re-executes a command on an interval and highlights what
// changed between successive outputs, in place, on a plain terminal.
package watch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/calebh/cadm/internal/logger"
	"github.com/calebh/cadm/internal/term"
)

// DefaultInterval is the sleep between iterations when none is given.
const DefaultInterval = 2 * time.Second

// Options configures a watch Loop.
type Options struct {
	// Command is the literal command line shown in the banner.
	Command string
	// Interval is the sleep between iterations.
	Interval time.Duration
	// Iterations bounds the loop; zero means run until interrupted.
	Iterations int
	// Diff enables change highlighting against the previous frame.
	Diff bool
	// Out receives banners and rendered frames. The render callback never
	// writes here directly; its output is captured per iteration.
	Out io.Writer
}

// RenderFunc produces one frame of watched output. Everything it writes to
// w is the frame; errors terminate the loop.
type RenderFunc func(w io.Writer) error

// Loop drives the render/diff/print/sleep cycle.
type Loop struct {
	opts Options
	log  logger.Logger

	// now and colorEnabled are swappable for tests.
	now          func() time.Time
	colorEnabled func() bool
}

// New creates a watch loop. A nil Out defaults to os.Stdout and a
// non-positive interval to DefaultInterval.
func New(opts Options, log logger.Logger) *Loop {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Loop{
		opts:         opts,
		log:          log,
		now:          time.Now,
		colorEnabled: term.ColorEnabled,
	}
}

// Run executes render once per cycle until the iteration budget is
// exhausted or ctx is cancelled. Cancellation (the interrupt path) is a
// clean termination, not an error; render failures propagate.
//
// Only the two most recent frames exist at any time: the previous frame is
// the diff baseline and is dropped as soon as the next diff completes.
func (l *Loop) Run(ctx context.Context, render RenderFunc) error {
	diff := l.opts.Diff && l.colorEnabled()
	if l.opts.Diff && !diff {
		l.log.Debug("diff highlighting disabled: terminal has no color support")
	}

	var previous string
	for count := 1; ; count++ {
		var frame bytes.Buffer
		if err := render(&frame); err != nil {
			return err
		}
		output := frame.String()

		result := output
		if diff && previous != "" {
			result = Highlight(term.Tokenize(previous), term.Tokenize(output))
		}
		previous = output

		l.printBanner(count)
		fmt.Fprintln(l.opts.Out, result)

		if l.opts.Iterations > 0 && count >= l.opts.Iterations {
			return nil
		}

		select {
		case <-ctx.Done():
			l.log.Debug("watch interrupted after %d iteration(s)", count)
			return nil
		case <-time.After(l.opts.Interval):
		}
	}
}

// printBanner emits the timestamp/command/interval/iteration header that
// precedes each frame.
func (l *Loop) printBanner(count int) {
	ts := l.now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(l.opts.Out, "[ %s '%s' sleep: %s iteration: %d",
		ts, l.opts.Command, l.opts.Interval, count)
	if l.opts.Iterations > 0 {
		fmt.Fprintf(l.opts.Out, " of %d", l.opts.Iterations)
	}
	fmt.Fprintln(l.opts.Out, " ]")
}
