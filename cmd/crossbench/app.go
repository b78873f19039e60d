package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/crossbench/internal/bench"
	"github.com/DjordjeVuckovic/crossbench/internal/config"
	"github.com/DjordjeVuckovic/crossbench/internal/connector"
	"github.com/DjordjeVuckovic/crossbench/internal/history"
	"github.com/DjordjeVuckovic/crossbench/internal/runner"
	"github.com/DjordjeVuckovic/crossbench/internal/sampler"
	"github.com/DjordjeVuckovic/crossbench/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const releaseTimeout = 10 * time.Second

// app holds the components shared by every command.
type app struct {
	registry     *connector.Registry
	executor     *runner.Executor
	history      history.Store
	elastic      *history.Elastic
	metrics      *telemetry.Prometheus
	orchestrator *bench.Orchestrator
}

func newApp(ctx context.Context, c *config.Config) (*app, error) {
	reg, err := connector.Open(ctx, c.Connectors)
	if err != nil {
		return nil, fmt.Errorf("open connectors: %w", err)
	}

	probe, err := sampler.NewProcessProbe()
	if err != nil {
		_ = reg.Close()
		return nil, fmt.Errorf("create process probe: %w", err)
	}
	mode, _ := sampler.ParseMode(c.Bench.SamplerMode)
	s := sampler.New(probe, sampler.WithMode(mode))

	exec, err := runner.NewExecutor(c.Bench.WorkerPoolSize, s)
	if err != nil {
		_ = reg.Close()
		return nil, err
	}

	a := &app{registry: reg, executor: exec}

	switch c.History.Backend {
	case config.HistoryElasticsearch:
		es, err := history.NewElastic(ctx, c.History.Elasticsearch)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("open history: %w", err)
		}
		a.elastic = es
		a.history = es
	default:
		a.history = history.NewMemory(c.History.Capacity)
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = telemetry.NewPrometheus(promReg)

	a.orchestrator = bench.New(reg, exec,
		bench.WithHistory(a.history),
		bench.WithRecorder(a.metrics),
		bench.WithMaxConcurrency(c.Bench.MaxConcurrency),
	)

	slog.Info("crossbench ready",
		"backends", reg.Backends(),
		"sampler_mode", s.Mode(),
		"worker_pool_size", c.Bench.WorkerPoolSize,
		"history", c.History.Backend,
	)
	return a, nil
}

// Close drains the worker pool before closing backend connections.
func (a *app) Close() error {
	var errs []error
	if err := a.executor.Release(releaseTimeout); err != nil {
		errs = append(errs, fmt.Errorf("release worker pool: %w", err))
	}
	if err := a.registry.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
