package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives benchmark events. Implementations must be safe for
// concurrent use.
type Recorder interface {
	ObserveAttempt(backend string, elapsed time.Duration, err error)
	ObserveBenchmark(dialect string, parallel bool, elapsed time.Duration, err error)
	// Track marks a benchmark as in flight until the returned func is called.
	Track() func()
}

type Nop struct{}

func (Nop) ObserveAttempt(string, time.Duration, error)          {}
func (Nop) ObserveBenchmark(string, bool, time.Duration, error) {}
func (Nop) Track() func()                                       { return func() {} }

// Prometheus records benchmark events as Prometheus metrics.
type Prometheus struct {
	attempts        *prometheus.CounterVec
	attemptDuration *prometheus.HistogramVec
	benchmarks      *prometheus.CounterVec
	benchDuration   *prometheus.HistogramVec
	inFlight        prometheus.Gauge

	gatherer prometheus.Gatherer
}

func NewPrometheus(reg *prometheus.Registry) *Prometheus {
	p := &Prometheus{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crossbench_attempts_total",
			Help: "Measured query executions by backend and outcome.",
		}, []string{"backend", "outcome"}),
		attemptDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crossbench_attempt_duration_seconds",
			Help:    "Wall time of successful query executions.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"backend"}),
		benchmarks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crossbench_benchmarks_total",
			Help: "Benchmark requests by source dialect, mode and outcome.",
		}, []string{"dialect", "mode", "outcome"}),
		benchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crossbench_benchmark_duration_seconds",
			Help:    "End to end duration of benchmark requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"mode"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "crossbench_benchmarks_in_flight",
			Help: "Benchmark requests currently executing.",
		}),
		gatherer: reg,
	}
	reg.MustRegister(p.attempts, p.attemptDuration, p.benchmarks, p.benchDuration, p.inFlight)
	return p
}

func (p *Prometheus) ObserveAttempt(backend string, elapsed time.Duration, err error) {
	if err != nil {
		p.attempts.WithLabelValues(backend, "error").Inc()
		return
	}
	p.attempts.WithLabelValues(backend, "ok").Inc()
	p.attemptDuration.WithLabelValues(backend).Observe(elapsed.Seconds())
}

func (p *Prometheus) ObserveBenchmark(dialect string, parallel bool, elapsed time.Duration, err error) {
	m := mode(parallel)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	p.benchmarks.WithLabelValues(dialect, m, outcome).Inc()
	p.benchDuration.WithLabelValues(m).Observe(elapsed.Seconds())
}

func (p *Prometheus) Track() func() {
	p.inFlight.Inc()
	return p.inFlight.Dec
}

func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}

func mode(parallel bool) string {
	if parallel {
		return "parallel"
	}
	return "sequential"
}

var _ Recorder = (*Prometheus)(nil)
var _ Recorder = Nop{}
