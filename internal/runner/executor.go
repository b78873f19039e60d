package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/crossbench/internal/apperr"
	"github.com/DjordjeVuckovic/crossbench/internal/connector"
	"github.com/DjordjeVuckovic/crossbench/internal/sampler"
	"github.com/DjordjeVuckovic/crossbench/internal/translate"
	"github.com/panjf2000/ants/v2"
)

const DefaultPoolSize = 64

// Outcome is the result of one measured attempt. Err is set on failure and
// Metrics is then zero.
type Outcome struct {
	Attempt int
	Metrics sampler.Metrics
	Hits    int
	Err     error
}

func (o Outcome) OK() bool { return o.Err == nil }

// Executor fans a query out over a bounded worker pool shared by all
// requests. Attempts beyond the pool size wait for a free worker.
type Executor struct {
	pool    *ants.Pool
	sampler *sampler.Sampler
}

func NewExecutor(poolSize int, s *sampler.Sampler) (*Executor, error) {
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}
	pool, err := ants.NewPool(poolSize, ants.WithPanicHandler(func(v any) {
		slog.Error("benchmark worker panic", "panic", v)
	}))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &Executor{pool: pool, sampler: s}, nil
}

func (e *Executor) Sampler() *sampler.Sampler { return e.sampler }

// Release waits up to timeout for in-flight attempts before shutting the
// pool down.
func (e *Executor) Release(timeout time.Duration) error {
	return e.pool.ReleaseTimeout(timeout)
}

// Run executes q against conn concurrency times and returns exactly that
// many outcomes, in completion order. A failed attempt never stops its
// siblings.
func (e *Executor) Run(ctx context.Context, conn connector.Connector, q translate.NativeQuery, concurrency int) ([]Outcome, error) {
	if conn == nil {
		return nil, apperr.NewInvalidArgument("connector is required")
	}
	if concurrency < 1 {
		return nil, apperr.NewInvalidArgument("concurrency must be at least 1, got %d", concurrency)
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		outcomes = make([]Outcome, 0, concurrency)
	)
	record := func(o Outcome) {
		mu.Lock()
		outcomes = append(outcomes, o)
		mu.Unlock()
	}

	for i := 0; i < concurrency; i++ {
		attempt := i
		wg.Add(1)
		err := e.pool.Submit(func() {
			defer wg.Done()
			record(e.Once(ctx, conn, q, attempt))
		})
		if err != nil {
			wg.Done()
			record(Outcome{Attempt: attempt, Err: fmt.Errorf("schedule attempt: %w", err)})
		}
	}
	wg.Wait()

	return outcomes, nil
}

// Once performs a single measured execution. A panic inside the connector
// is converted into a failed outcome.
func (e *Executor) Once(ctx context.Context, conn connector.Connector, q translate.NativeQuery, attempt int) (out Outcome) {
	out.Attempt = attempt
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Attempt: attempt, Err: apperr.NewConnector(string(conn.Backend()), fmt.Errorf("panic: %v", r))}
		}
	}()

	var hits int
	m, err := e.sampler.Measure(ctx, func(ctx context.Context) error {
		res, err := conn.Execute(ctx, q)
		if err != nil {
			return err
		}
		if res != nil {
			hits = res.TotalHits
		}
		return nil
	})
	if err != nil {
		out.Err = err
		return out
	}

	out.Metrics = m
	out.Hits = hits
	return out
}
