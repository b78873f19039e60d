package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/crossbench/internal/bench"
	"github.com/DjordjeVuckovic/crossbench/internal/runner"
	"github.com/DjordjeVuckovic/crossbench/internal/sampler"
	"github.com/DjordjeVuckovic/crossbench/internal/translate"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *bench.Result {
	return &bench.Result{
		ID:        uuid.New(),
		StartedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Elapsed:   1500 * time.Millisecond,
		Plan: bench.Plan{
			Raw:         "alpha",
			Dialect:     translate.KeyValue,
			Parallel:    true,
			Concurrency: 2,
		},
		Backends: []bench.BackendResult{
			{
				Backend: translate.MySQL,
				Query:   "SELECT * FROM sample WHERE name = 'alpha';",
				Summary: runner.Summary{
					Metrics:   sampler.Metrics{ElapsedSeconds: 0.0021, CPUDelta: 1.5, MemoryDeltaBytes: 2048},
					Attempts:  2,
					Succeeded: 2,
					Hits:      1,
					Latency:   runner.ComputeLatencyStats([]time.Duration{2 * time.Millisecond, 3 * time.Millisecond}),
				},
			},
			{
				Backend: translate.Redis,
				Query:   "alpha",
				Summary: runner.Summary{Attempts: 2, Failed: 2},
				Err:     errors.New("all 2 attempts failed: timeout"),
			},
		},
	}
}

func TestGenerate(t *testing.T) {
	r := Generate(sampleResult(), "process")

	assert.Equal(t, "keyvalue", r.Request.Dialect)
	assert.Equal(t, 1500.0, r.Meta.DurationMs)
	require.Len(t, r.Backends, 2)

	mysql := r.Backends[0]
	assert.Equal(t, "mysql", mysql.Backend)
	assert.Equal(t, 0.0021, mysql.ExecutionTime)
	require.NotNil(t, mysql.Latency)
	assert.Equal(t, 2, mysql.Latency.SampleCount)

	redis := r.Backends[1]
	assert.Nil(t, redis.Latency)
	assert.Equal(t, "all 2 attempts failed: timeout", redis.Error)
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(Generate(sampleResult(), "exclusive"), &buf)

	out := buf.String()
	assert.Contains(t, out, "parallel x2")
	assert.Contains(t, out, "sampler: exclusive")
	assert.Contains(t, out, "0.0021")
	assert.Contains(t, out, "2.0 KiB")
	assert.Contains(t, out, "all 2 attempts failed: timeout")
	assert.Contains(t, out, "SELECT * FROM sample WHERE name = 'alpha';")
}

func TestWriteTable_FailedRequest(t *testing.T) {
	res := &bench.Result{ID: uuid.New(), Err: errors.New("No query provided in the request")}

	var buf bytes.Buffer
	WriteTable(Generate(res, "process"), &buf)
	assert.Contains(t, buf.String(), "Benchmark failed: No query provided in the request")
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteJSON(Generate(sampleResult(), "process"), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Len(t, out["backends"], 2)
}

func TestEncodeJSON_FailedRequest(t *testing.T) {
	res := &bench.Result{ID: uuid.New(), Err: errors.New("No source database specified")}

	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(Generate(res, "exclusive"), &buf))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "Benchmark failed: No source database specified", out["error"])
	assert.NotContains(t, out, "backends")
	assert.Equal(t, "exclusive", out["meta"].(map[string]any)["sampler_mode"])
}

func TestWriteJSON_BadPath(t *testing.T) {
	err := WriteJSON(Generate(sampleResult(), "process"), filepath.Join(t.TempDir(), "missing", "report.json"))
	assert.ErrorContains(t, err, "create report file")
}

func TestFmtBytes(t *testing.T) {
	assert.Equal(t, "512 B", fmtBytes(512))
	assert.Equal(t, "1.5 KiB", fmtBytes(1536))
	assert.Equal(t, "3.0 MiB", fmtBytes(3*1024*1024))
}
