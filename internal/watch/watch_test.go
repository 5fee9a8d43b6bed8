package watch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/calebh/cadm/internal/logger"
	"github.com/calebh/cadm/internal/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoop(opts Options) *Loop {
	l := New(opts, logger.Noop())
	l.colorEnabled = func() bool { return true }
	l.now = func() time.Time {
		return time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	}
	return l
}

func TestRunStopsAtIterationBudget(t *testing.T) {
	var out bytes.Buffer
	calls := 0

	l := newTestLoop(Options{
		Command:    "info network",
		Interval:   time.Millisecond,
		Iterations: 3,
		Out:        &out,
	})

	err := l.Run(context.Background(), func(w io.Writer) error {
		calls++
		fmt.Fprintf(w, "frame %d\n", calls)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, out.String(), "iteration: 1 of 3")
	assert.Contains(t, out.String(), "iteration: 3 of 3")
}

func TestRunBannerContents(t *testing.T) {
	var out bytes.Buffer

	l := newTestLoop(Options{
		Command:    "show statistics",
		Interval:   5 * time.Second,
		Iterations: 1,
		Out:        &out,
	})

	err := l.Run(context.Background(), func(w io.Writer) error {
		fmt.Fprintln(w, "body")
		return nil
	})

	require.NoError(t, err)
	banner := strings.SplitN(out.String(), "\n", 2)[0]
	assert.Contains(t, banner, "2026-08-26 10:00:00")
	assert.Contains(t, banner, "'show statistics'")
	assert.Contains(t, banner, "sleep: 5s")
	assert.Contains(t, banner, "iteration: 1 of 1")
}

func TestRunDiffsSuccessiveFrames(t *testing.T) {
	var out bytes.Buffer
	frames := []string{"count: 1\n", "count: 2\n"}
	i := 0

	l := newTestLoop(Options{
		Command:    "info",
		Interval:   time.Millisecond,
		Iterations: 2,
		Diff:       true,
		Out:        &out,
	})

	err := l.Run(context.Background(), func(w io.Writer) error {
		fmt.Fprint(w, frames[i])
		i++
		return nil
	})

	require.NoError(t, err)
	assert.Contains(t, out.String(), term.Inverse+"2", "changed digit must be highlighted")
}

func TestRunNoDiffLeavesOutputRaw(t *testing.T) {
	var out bytes.Buffer
	i := 0

	l := newTestLoop(Options{
		Command:    "info",
		Interval:   time.Millisecond,
		Iterations: 2,
		Diff:       false,
		Out:        &out,
	})

	err := l.Run(context.Background(), func(w io.Writer) error {
		i++
		fmt.Fprintf(w, "count: %d\n", i)
		return nil
	})

	require.NoError(t, err)
	assert.NotContains(t, out.String(), term.Inverse)
}

func TestRunDiffDisabledWithoutColor(t *testing.T) {
	var out bytes.Buffer
	i := 0

	l := newTestLoop(Options{
		Command:    "info",
		Interval:   time.Millisecond,
		Iterations: 2,
		Diff:       true,
		Out:        &out,
	})
	l.colorEnabled = func() bool { return false }

	err := l.Run(context.Background(), func(w io.Writer) error {
		i++
		fmt.Fprintf(w, "count: %d\n", i)
		return nil
	})

	require.NoError(t, err)
	assert.NotContains(t, out.String(), term.Inverse)
}

func TestRunTerminatesCleanlyOnInterrupt(t *testing.T) {
	var out bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())

	l := newTestLoop(Options{
		Command:  "info",
		Interval: time.Hour, // the cancel must cut the sleep short
		Out:      &out,
	})

	done := make(chan error, 1)
	go func() {
		done <- l.Run(ctx, func(w io.Writer) error {
			fmt.Fprintln(w, "frame")
			return nil
		})
	}()

	// Let the first frame print, then interrupt mid-sleep.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err, "interrupt is a clean termination")
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancellation")
	}
	assert.Contains(t, out.String(), "frame")
}

func TestRunPropagatesRenderErrors(t *testing.T) {
	var out bytes.Buffer

	l := newTestLoop(Options{
		Command:    "info",
		Interval:   time.Millisecond,
		Iterations: 5,
		Out:        &out,
	})

	renderErr := fmt.Errorf("node query blew up")
	calls := 0
	err := l.Run(context.Background(), func(w io.Writer) error {
		calls++
		return renderErr
	})

	assert.ErrorIs(t, err, renderErr)
	assert.Equal(t, 1, calls, "loop must stop on the first render failure")
}

func TestRunUnboundedBannerOmitsBudget(t *testing.T) {
	var out bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())

	l := newTestLoop(Options{
		Command:  "info",
		Interval: time.Hour,
		Out:      &out,
	})

	done := make(chan error, 1)
	go func() {
		done <- l.Run(ctx, func(w io.Writer) error {
			fmt.Fprintln(w, "x")
			return nil
		})
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	assert.Contains(t, out.String(), "iteration: 1 ]")
	assert.NotContains(t, out.String(), " of ")
}
