package sampler

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"
)

type Mode string

const (
	// ModeProcess samples process-wide counters around each call. Overlapping
	// calls see each other's CPU and memory usage.
	ModeProcess Mode = "process"
	// ModeExclusive serializes measured calls so no two measurements overlap.
	ModeExclusive Mode = "exclusive"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeProcess:
		return ModeProcess, nil
	case ModeExclusive:
		return ModeExclusive, nil
	}
	return "", fmt.Errorf("unknown sampler mode %q, expected %q or %q", s, ModeProcess, ModeExclusive)
}

type Metrics struct {
	ElapsedSeconds   float64 `json:"execution_time"`
	CPUDelta         float64 `json:"cpu_usage"`
	MemoryDeltaBytes int64   `json:"memory_usage"`
	// Elapsed is the unrounded wall time; ElapsedSeconds is rounded to 4 dp.
	Elapsed time.Duration `json:"-"`
}

// Probe reads resource counters of the current process.
type Probe interface {
	CPUPercent() (float64, error)
	RSS() (uint64, error)
}

type Sampler struct {
	probe Probe
	mode  Mode
	now   func() time.Time

	exclusive sync.Mutex
}

type Option func(*Sampler)

func WithMode(m Mode) Option {
	return func(s *Sampler) { s.mode = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *Sampler) { s.now = now }
}

func New(probe Probe, opts ...Option) *Sampler {
	s := &Sampler{
		probe: probe,
		mode:  ModeProcess,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sampler) Mode() Mode { return s.mode }

// Measure runs fn and reports wall time plus CPU and RSS deltas around it.
// An error from fn is returned as is and no metrics are produced.
func (s *Sampler) Measure(ctx context.Context, fn func(ctx context.Context) error) (Metrics, error) {
	if s.mode == ModeExclusive {
		s.exclusive.Lock()
		defer s.exclusive.Unlock()
	}

	cpuBefore := s.cpu()
	memBefore := s.rss()

	start := s.now()
	if err := fn(ctx); err != nil {
		return Metrics{}, err
	}
	elapsed := s.now().Sub(start)

	cpuAfter := s.cpu()
	memAfter := s.rss()

	memDelta := int64(memAfter) - int64(memBefore)
	if memDelta < 0 {
		memDelta = 0
	}

	return Metrics{
		ElapsedSeconds:   Round(elapsed.Seconds(), 4),
		CPUDelta:         Round(cpuAfter-cpuBefore, 2),
		MemoryDeltaBytes: memDelta,
		Elapsed:          elapsed,
	}, nil
}

func (s *Sampler) cpu() float64 {
	v, err := s.probe.CPUPercent()
	if err != nil {
		slog.Warn("cpu sample failed", "error", err)
		return 0
	}
	return v
}

func (s *Sampler) rss() uint64 {
	v, err := s.probe.RSS()
	if err != nil {
		slog.Warn("memory sample failed", "error", err)
		return 0
	}
	return v
}

func Round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
