package report

import (
	"runtime"
	"time"

	"github.com/DjordjeVuckovic/crossbench/internal/runner"
)

type Report struct {
	Meta     Meta            `json:"meta"`
	Request  RequestInfo     `json:"request"`
	Error    string          `json:"error,omitempty"`
	Backends []BackendReport `json:"backends,omitempty"`
}

type Meta struct {
	RunID       string          `json:"run_id"`
	Timestamp   time.Time       `json:"timestamp"`
	DurationMs  float64         `json:"duration_ms"`
	SamplerMode string          `json:"sampler_mode"`
	Environment EnvironmentInfo `json:"environment"`
}

type RequestInfo struct {
	Dialect     string `json:"dialect"`
	Query       string `json:"query"`
	Parallel    bool   `json:"parallel"`
	Concurrency int    `json:"concurrency"`
}

type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
}

func NewEnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}
}

type BackendReport struct {
	Backend       string               `json:"backend"`
	Query         string               `json:"query"`
	ExecutionTime float64              `json:"execution_time"`
	CPUUsage      float64              `json:"cpu_usage"`
	MemoryUsage   int64                `json:"memory_usage"`
	Attempts      int                  `json:"attempts"`
	Succeeded     int                  `json:"succeeded"`
	Failed        int                  `json:"failed"`
	Hits          int                  `json:"hits"`
	Latency       *runner.LatencyStats `json:"latency,omitempty"`
	Error         string               `json:"error,omitempty"`
}
