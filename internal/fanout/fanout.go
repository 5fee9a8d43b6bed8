// Package fanout runs one operation against every node of a cluster in
// parallel and collects a per-node result-or-error map. One unreachable
// node never aborts the batch: its failure is captured as data alongside
// the successes.
package fanout

import (
	"context"
	"fmt"
	"sync"
)

// Result holds the outcome of one node's operation: either Value or Err.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok reports whether the operation succeeded for this node.
func (r Result[T]) Ok() bool {
	return r.Err == nil
}

// Run invokes op once per node identifier, each in its own goroutine, and
// blocks until all complete. The returned map has exactly one entry per
// distinct requested identifier. Iteration order of the map is
// unspecified; callers must sort before display.
//
// Run itself imposes no timeout. Timeout policy belongs to op, which
// receives the caller's context.
func Run[T any](ctx context.Context, ids []string, op func(ctx context.Context, id string) (T, error)) map[string]Result[T] {
	results := make(map[string]Result[T], len(ids))
	if len(ids) == 0 {
		return results
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			v, err := call(ctx, id, op)

			mu.Lock()
			results[id] = Result[T]{Value: v, Err: err}
			mu.Unlock()
		}(id)
	}

	wg.Wait()
	return results
}

// call runs op for one node, converting a panic into an ordinary error so
// a misbehaving operation cannot take down sibling workers.
func call[T any](ctx context.Context, id string, op func(ctx context.Context, id string) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v = zero
			err = fmt.Errorf("operation panicked for node %s: %v", id, r)
		}
	}()
	return op(ctx, id)
}
