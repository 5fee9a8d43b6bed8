package fanout

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCollectsAllNodes(t *testing.T) {
	ids := []string{"n1", "n2", "n3"}

	results := Run(context.Background(), ids, func(_ context.Context, id string) (string, error) {
		return "stats-from-" + id, nil
	})

	require.Len(t, results, 3)
	for _, id := range ids {
		r, ok := results[id]
		require.True(t, ok, "missing entry for %s", id)
		assert.True(t, r.Ok())
		assert.Equal(t, "stats-from-"+id, r.Value)
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	ids := []string{"n1", "n2", "n3"}

	results := Run(context.Background(), ids, func(_ context.Context, id string) (string, error) {
		if id == "n2" {
			return "", fmt.Errorf("connection refused")
		}
		return "ok", nil
	})

	require.Len(t, results, 3, "failed node must still have an entry")
	assert.True(t, results["n1"].Ok())
	assert.True(t, results["n3"].Ok())
	assert.False(t, results["n2"].Ok())
	assert.ErrorContains(t, results["n2"].Err, "connection refused")
}

func TestRunRecoversPanics(t *testing.T) {
	results := Run(context.Background(), []string{"n1", "n2"}, func(_ context.Context, id string) (int, error) {
		if id == "n1" {
			panic("bad response")
		}
		return 7, nil
	})

	require.Len(t, results, 2)
	assert.False(t, results["n1"].Ok())
	assert.ErrorContains(t, results["n1"].Err, "bad response")
	assert.Equal(t, 7, results["n2"].Value)
}

func TestRunExecutesConcurrently(t *testing.T) {
	const nodes = 8
	const latency = 50 * time.Millisecond

	ids := make([]string, nodes)
	for i := range ids {
		ids[i] = fmt.Sprintf("n%d", i)
	}

	var inflight, peak atomic.Int32
	start := time.Now()
	Run(context.Background(), ids, func(_ context.Context, id string) (struct{}, error) {
		cur := inflight.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		time.Sleep(latency)
		inflight.Add(-1)
		return struct{}{}, nil
	})
	elapsed := time.Since(start)

	// Wall-clock time tracks the slowest node, not the sum of latencies.
	assert.Less(t, elapsed, time.Duration(nodes)*latency/2)
	assert.Greater(t, peak.Load(), int32(1), "workers should overlap")
}

func TestRunDeduplicatesIDs(t *testing.T) {
	var calls atomic.Int32
	results := Run(context.Background(), []string{"n1", "n1", "n2"}, func(_ context.Context, id string) (string, error) {
		calls.Add(1)
		return id, nil
	})

	assert.Len(t, results, 2)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRunEmpty(t *testing.T) {
	results := Run(context.Background(), nil, func(_ context.Context, id string) (string, error) {
		t.Fatal("operation must not be invoked")
		return "", nil
	})
	assert.Empty(t, results)
}

func TestRunPassesContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := Run(ctx, []string{"n1"}, func(ctx context.Context, id string) (string, error) {
		return "", ctx.Err()
	})

	assert.ErrorIs(t, results["n1"].Err, context.Canceled)
}
