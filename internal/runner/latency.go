package runner

import (
	"encoding/json"
	"math"
	"slices"
	"time"
)

type LatencyStats struct {
	Min         time.Duration
	Max         time.Duration
	Mean        time.Duration
	Median      time.Duration
	Stddev      time.Duration
	Percentiles map[int]time.Duration
	SampleCount int
}

var reportedPercentiles = []int{50, 90, 95, 99}

func ComputeLatencyStats(durations []time.Duration) LatencyStats {
	stats := LatencyStats{Percentiles: make(map[int]time.Duration, len(reportedPercentiles))}
	if len(durations) == 0 {
		return stats
	}

	sorted := slices.Clone(durations)
	slices.Sort(sorted)

	stats.Min = sorted[0]
	stats.Max = sorted[len(sorted)-1]
	stats.Median = percentile(sorted, 50)
	stats.SampleCount = len(sorted)

	var sum int64
	for _, d := range sorted {
		sum += int64(d)
	}
	stats.Mean = time.Duration(sum / int64(len(sorted)))

	// sample standard deviation
	if len(sorted) > 1 {
		mean := float64(stats.Mean)
		var sq float64
		for _, d := range sorted {
			diff := float64(d) - mean
			sq += diff * diff
		}
		stats.Stddev = time.Duration(math.Sqrt(sq / float64(len(sorted)-1)))
	}

	for _, p := range reportedPercentiles {
		stats.Percentiles[p] = percentile(sorted, p)
	}
	return stats
}

// percentile interpolates linearly between the two closest ranks.
func percentile(sorted []time.Duration, p int) time.Duration {
	switch len(sorted) {
	case 0:
		return 0
	case 1:
		return sorted[0]
	}

	rank := float64(p) / 100.0 * float64(len(sorted)-1)
	lower := int(rank)
	if lower+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := rank - float64(lower)
	return time.Duration(float64(sorted[lower])*(1-weight) + float64(sorted[lower+1])*weight)
}

func (s LatencyStats) P(p int) time.Duration { return s.Percentiles[p] }

func (s LatencyStats) IsZero() bool { return s.SampleCount == 0 }

// MarshalJSON reports durations in milliseconds.
func (s LatencyStats) MarshalJSON() ([]byte, error) {
	ms := func(d time.Duration) float64 {
		return math.Round(float64(d)/float64(time.Millisecond)*1000) / 1000
	}
	out := struct {
		Min     float64 `json:"min_ms"`
		Max     float64 `json:"max_ms"`
		Mean    float64 `json:"mean_ms"`
		Median  float64 `json:"median_ms"`
		Stddev  float64 `json:"stddev_ms"`
		P90     float64 `json:"p90_ms"`
		P95     float64 `json:"p95_ms"`
		P99     float64 `json:"p99_ms"`
		Samples int     `json:"samples"`
	}{
		Min:     ms(s.Min),
		Max:     ms(s.Max),
		Mean:    ms(s.Mean),
		Median:  ms(s.Median),
		Stddev:  ms(s.Stddev),
		P90:     ms(s.P(90)),
		P95:     ms(s.P(95)),
		P99:     ms(s.P(99)),
		Samples: s.SampleCount,
	}
	return json.Marshal(out)
}
