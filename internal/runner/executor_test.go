package runner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/crossbench/internal/apperr"
	"github.com/DjordjeVuckovic/crossbench/internal/connector"
	"github.com/DjordjeVuckovic/crossbench/internal/sampler"
	"github.com/DjordjeVuckovic/crossbench/internal/translate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type zeroProbe struct{}

func (zeroProbe) CPUPercent() (float64, error) { return 0, nil }
func (zeroProbe) RSS() (uint64, error)         { return 0, nil }

func newTestExecutor(t *testing.T, size int) *Executor {
	t.Helper()
	e, err := NewExecutor(size, sampler.New(zeroProbe{}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Release(time.Second) })
	return e
}

func fn(f func(ctx context.Context, q translate.NativeQuery) (*connector.ExecuteResult, error)) connector.Func {
	return connector.Func{Name: translate.Redis, Fn: f}
}

var kv = translate.KeyValueQuery{Key: "42"}

func TestRun_ReturnsOneOutcomePerAttempt(t *testing.T) {
	e := newTestExecutor(t, 4)
	var calls atomic.Int32
	conn := fn(func(context.Context, translate.NativeQuery) (*connector.ExecuteResult, error) {
		calls.Add(1)
		return &connector.ExecuteResult{TotalHits: 1}, nil
	})

	outcomes, err := e.Run(context.Background(), conn, kv, 25)
	require.NoError(t, err)

	assert.Len(t, outcomes, 25)
	assert.Equal(t, int32(25), calls.Load())
	seen := map[int]bool{}
	for _, o := range outcomes {
		assert.True(t, o.OK())
		assert.Equal(t, 1, o.Hits)
		seen[o.Attempt] = true
	}
	assert.Len(t, seen, 25)
}

func TestRun_BoundedByPoolSize(t *testing.T) {
	e := newTestExecutor(t, 3)
	var inFlight, peak atomic.Int32
	conn := fn(func(context.Context, translate.NativeQuery) (*connector.ExecuteResult, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return &connector.ExecuteResult{}, nil
	})

	outcomes, err := e.Run(context.Background(), conn, kv, 12)
	require.NoError(t, err)
	assert.Len(t, outcomes, 12)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestRun_FailuresDoNotAbortSiblings(t *testing.T) {
	e := newTestExecutor(t, 8)
	var n atomic.Int32
	conn := fn(func(context.Context, translate.NativeQuery) (*connector.ExecuteResult, error) {
		if n.Add(1)%2 == 0 {
			return nil, errors.New("timeout")
		}
		return &connector.ExecuteResult{}, nil
	})

	outcomes, err := e.Run(context.Background(), conn, kv, 10)
	require.NoError(t, err)

	failed := 0
	for _, o := range outcomes {
		if !o.OK() {
			failed++
		}
	}
	assert.Len(t, outcomes, 10)
	assert.Equal(t, 5, failed)
}

func TestRun_AllFailingThenAggregateErrors(t *testing.T) {
	e := newTestExecutor(t, 2)
	conn := fn(func(context.Context, translate.NativeQuery) (*connector.ExecuteResult, error) {
		return nil, errors.New("connection refused")
	})

	outcomes, err := e.Run(context.Background(), conn, kv, 4)
	require.NoError(t, err)
	assert.Len(t, outcomes, 4)

	_, err = Aggregate(outcomes)
	var aggErr *apperr.AggregationError
	require.ErrorAs(t, err, &aggErr)
	assert.Equal(t, 4, aggErr.Attempts)
	assert.Equal(t, "connection refused", aggErr.LastErr)
}

func TestRun_PanicBecomesFailure(t *testing.T) {
	e := newTestExecutor(t, 2)
	conn := fn(func(context.Context, translate.NativeQuery) (*connector.ExecuteResult, error) {
		panic("driver bug")
	})

	outcomes, err := e.Run(context.Background(), conn, kv, 3)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	for _, o := range outcomes {
		assert.ErrorContains(t, o.Err, "panic: driver bug")
	}
}

func TestRun_InvalidArguments(t *testing.T) {
	e := newTestExecutor(t, 2)
	var argErr *apperr.InvalidArgumentError

	_, err := e.Run(context.Background(), nil, kv, 1)
	assert.ErrorAs(t, err, &argErr)

	conn := fn(func(context.Context, translate.NativeQuery) (*connector.ExecuteResult, error) {
		return &connector.ExecuteResult{}, nil
	})
	_, err = e.Run(context.Background(), conn, kv, 0)
	assert.ErrorAs(t, err, &argErr)
}
