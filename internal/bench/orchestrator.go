package bench

import (
	"context"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/crossbench/internal/apperr"
	"github.com/DjordjeVuckovic/crossbench/internal/connector"
	"github.com/DjordjeVuckovic/crossbench/internal/history"
	"github.com/DjordjeVuckovic/crossbench/internal/runner"
	"github.com/DjordjeVuckovic/crossbench/internal/sampler"
	"github.com/DjordjeVuckovic/crossbench/internal/telemetry"
	"github.com/DjordjeVuckovic/crossbench/internal/translate"
	"github.com/google/uuid"
)

// Orchestrator validates a request, translates it once and runs every
// backend's query, isolating failures per backend.
type Orchestrator struct {
	registry       *connector.Registry
	executor       *runner.Executor
	history        history.Store
	recorder       telemetry.Recorder
	maxConcurrency int
	now            func() time.Time
}

type Option func(*Orchestrator)

func WithHistory(s history.Store) Option {
	return func(o *Orchestrator) { o.history = s }
}

func WithRecorder(r telemetry.Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

func WithMaxConcurrency(n int) Option {
	return func(o *Orchestrator) { o.maxConcurrency = n }
}

func New(registry *connector.Registry, executor *runner.Executor, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry:       registry,
		executor:       executor,
		recorder:       telemetry.Nop{},
		maxConcurrency: DefaultMaxConcurrency,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) Registry() *connector.Registry { return o.registry }

func (o *Orchestrator) History() history.Store { return o.history }

// Run never returns an error: request-level failures are carried in
// Result.Err and per-backend failures in each BackendResult.
func (o *Orchestrator) Run(ctx context.Context, req Request) *Result {
	done := o.recorder.Track()
	defer done()

	res := &Result{ID: uuid.New(), StartedAt: o.now()}
	start := time.Now()

	if err := o.run(ctx, req, res); err != nil {
		res.Err = err
		res.Backends = nil
		slog.Warn("Benchmark failed", "id", res.ID, "error", err)
	}
	res.Elapsed = time.Since(start)

	o.recorder.ObserveBenchmark(string(res.Plan.Dialect), res.Plan.Parallel, res.Elapsed, res.Err)
	o.record(ctx, req, res)
	return res
}

func (o *Orchestrator) run(ctx context.Context, req Request, res *Result) error {
	plan, err := req.Validate(o.maxConcurrency)
	if err != nil {
		return err
	}
	res.Plan = plan

	queries, err := translate.Translate(plan.Dialect, plan.Raw)
	if err != nil {
		return err
	}

	slog.Info("Benchmark started",
		"id", res.ID,
		"dialect", plan.Dialect,
		"parallel", plan.Parallel,
		"concurrency", plan.Concurrency)

	for _, b := range translate.Backends {
		res.Backends = append(res.Backends, o.runBackend(ctx, plan, b, queries[b]))
	}
	return nil
}

func (o *Orchestrator) runBackend(ctx context.Context, plan Plan, b translate.Backend, q translate.NativeQuery) BackendResult {
	br := BackendResult{Backend: b}
	if q != nil {
		br.Query = q.String()
	}

	conn, ok := o.registry.Lookup(b)
	if !ok {
		br.Err = &apperr.UnsupportedBackendError{Backend: string(b)}
		return br
	}

	var outcomes []runner.Outcome
	if plan.Parallel {
		var err error
		outcomes, err = o.executor.Run(ctx, conn, q, plan.Concurrency)
		if err != nil {
			br.Err = err
			return br
		}
	} else {
		outcomes = []runner.Outcome{o.executor.Once(ctx, conn, q, 0)}
	}

	for _, out := range outcomes {
		o.recorder.ObserveAttempt(string(b), out.Metrics.Elapsed, out.Err)
	}

	summary, err := runner.Aggregate(outcomes)
	br.Summary = summary
	if err != nil {
		// a single sequential attempt reports its own error
		if !plan.Parallel && len(outcomes) == 1 {
			err = outcomes[0].Err
		}
		br.Err = err
		slog.Warn("Backend failed", "backend", b, "error", err)
		return br
	}

	slog.Info("Backend finished",
		"backend", b,
		"execution_time", summary.ElapsedSeconds,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed)
	return br
}

func (o *Orchestrator) record(ctx context.Context, req Request, res *Result) {
	if o.history == nil {
		return
	}

	entry := history.Entry{
		ID:          res.ID,
		StartedAt:   res.StartedAt,
		DurationMs:  sampler.Round(float64(res.Elapsed)/float64(time.Millisecond), 3),
		Dialect:     string(res.Plan.Dialect),
		Query:       res.Plan.Raw,
		Parallel:    res.Plan.Parallel,
		Concurrency: res.Plan.Concurrency,
		SamplerMode: string(o.executor.Sampler().Mode()),
	}
	if entry.Query == "" {
		entry.Query, _ = translate.NormalizeRaw(req.Query)
	}
	if res.Err != nil {
		entry.Error = res.ErrorMessage()
	}
	for _, br := range res.Backends {
		be := history.BackendEntry{
			Backend:       string(br.Backend),
			Query:         br.Query,
			ExecutionTime: br.Summary.ElapsedSeconds,
			CPUUsage:      br.Summary.CPUDelta,
			MemoryUsage:   br.Summary.MemoryDeltaBytes,
			Attempts:      br.Summary.Attempts,
			Failed:        br.Summary.Failed,
		}
		if br.Err != nil {
			be.Error = br.Err.Error()
		}
		entry.Backends = append(entry.Backends, be)
	}

	if err := o.history.Save(ctx, entry); err != nil {
		slog.Error("Failed to save run history", "id", res.ID, "error", err)
	}
}
