package runner

import (
	"time"

	"github.com/DjordjeVuckovic/crossbench/internal/apperr"
	"github.com/DjordjeVuckovic/crossbench/internal/sampler"
)

// Summary holds the averaged metrics of the successful attempts plus
// attempt counts and the latency distribution.
type Summary struct {
	sampler.Metrics
	Attempts  int
	Succeeded int
	Failed    int
	Hits      int
	Latency   LatencyStats
}

// Aggregate averages metrics over successful outcomes only. When no attempt
// succeeded it returns an AggregationError carrying the last failure.
func Aggregate(outcomes []Outcome) (Summary, error) {
	s := Summary{Attempts: len(outcomes)}

	var (
		elapsed, cpu float64
		mem          int64
		total        time.Duration
		durations    = make([]time.Duration, 0, len(outcomes))
		lastErr      error
	)
	for _, o := range outcomes {
		if !o.OK() {
			s.Failed++
			lastErr = o.Err
			continue
		}
		s.Succeeded++
		elapsed += o.Metrics.ElapsedSeconds
		cpu += o.Metrics.CPUDelta
		mem += o.Metrics.MemoryDeltaBytes
		s.Hits = o.Hits
		d := o.Metrics.Elapsed
		total += d
		durations = append(durations, d)
	}

	if s.Succeeded == 0 {
		aggErr := &apperr.AggregationError{Attempts: len(outcomes)}
		if lastErr != nil {
			aggErr.LastErr = lastErr.Error()
		}
		return s, aggErr
	}

	n := s.Succeeded
	s.Metrics = sampler.Metrics{
		ElapsedSeconds:   sampler.Round(elapsed/float64(n), 4),
		CPUDelta:         sampler.Round(cpu/float64(n), 2),
		MemoryDeltaBytes: mem / int64(n),
		Elapsed:          total / time.Duration(n),
	}
	s.Latency = ComputeLatencyStats(durations)
	return s, nil
}
