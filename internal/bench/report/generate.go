package report

import (
	"time"

	"github.com/DjordjeVuckovic/crossbench/internal/bench"
)

func Generate(res *bench.Result, samplerMode string) *Report {
	r := &Report{
		Meta: Meta{
			RunID:       res.ID.String(),
			Timestamp:   res.StartedAt,
			DurationMs:  float64(res.Elapsed) / float64(time.Millisecond),
			SamplerMode: samplerMode,
			Environment: NewEnvironmentInfo(),
		},
		Request: RequestInfo{
			Dialect:     string(res.Plan.Dialect),
			Query:       res.Plan.Raw,
			Parallel:    res.Plan.Parallel,
			Concurrency: res.Plan.Concurrency,
		},
		Error: res.ErrorMessage(),
	}

	for _, br := range res.Backends {
		s := br.Summary
		entry := BackendReport{
			Backend:       br.Backend.String(),
			Query:         br.Query,
			ExecutionTime: s.ElapsedSeconds,
			CPUUsage:      s.CPUDelta,
			MemoryUsage:   s.MemoryDeltaBytes,
			Attempts:      s.Attempts,
			Succeeded:     s.Succeeded,
			Failed:        s.Failed,
			Hits:          s.Hits,
		}
		if !s.Latency.IsZero() {
			lat := s.Latency
			entry.Latency = &lat
		}
		if br.Err != nil {
			entry.Error = br.Err.Error()
		}
		r.Backends = append(r.Backends, entry)
	}
	return r
}
