package bench

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/crossbench/internal/apperr"
	"github.com/DjordjeVuckovic/crossbench/internal/connector"
	"github.com/DjordjeVuckovic/crossbench/internal/history"
	"github.com/DjordjeVuckovic/crossbench/internal/runner"
	"github.com/DjordjeVuckovic/crossbench/internal/sampler"
	"github.com/DjordjeVuckovic/crossbench/internal/translate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type zeroProbe struct{}

func (zeroProbe) CPUPercent() (float64, error) { return 0, nil }
func (zeroProbe) RSS() (uint64, error)         { return 0, nil }

// recordingConn remembers every query it was asked to execute.
type recordingConn struct {
	backend translate.Backend
	err     error

	mu   sync.Mutex
	seen []translate.NativeQuery
}

func (c *recordingConn) Backend() translate.Backend { return c.backend }

func (c *recordingConn) Execute(_ context.Context, q translate.NativeQuery) (*connector.ExecuteResult, error) {
	c.mu.Lock()
	c.seen = append(c.seen, q)
	c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return &connector.ExecuteResult{TotalHits: 1}, nil
}

func (c *recordingConn) Ping(context.Context) error { return nil }
func (c *recordingConn) Close() error               { return nil }

func (c *recordingConn) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

func newOrchestrator(t *testing.T, conns []connector.Connector, opts ...Option) *Orchestrator {
	t.Helper()
	reg, err := connector.NewRegistry(conns...)
	require.NoError(t, err)
	exec, err := runner.NewExecutor(4, sampler.New(zeroProbe{}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = exec.Release(time.Second) })
	return New(reg, exec, opts...)
}

func allBackends() map[translate.Backend]*recordingConn {
	out := make(map[translate.Backend]*recordingConn)
	for _, b := range translate.Backends {
		out[b] = &recordingConn{backend: b}
	}
	return out
}

func asConnectors(m map[translate.Backend]*recordingConn) []connector.Connector {
	var out []connector.Connector
	for _, c := range m {
		out = append(out, c)
	}
	return out
}

func decode(t *testing.T, res *Result) map[string]map[string]any {
	t.Helper()
	b, err := json.Marshal(res)
	require.NoError(t, err)
	var out map[string]map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func TestRun_DocumentRequestEndToEnd(t *testing.T) {
	conns := allBackends()
	o := newOrchestrator(t, asConnectors(conns))

	res := o.Run(context.Background(), NewRequest("document", `{"id": "42"}`, false, 1))
	require.NoError(t, res.Err)

	mysql, ok := res.Backend(translate.MySQL)
	require.True(t, ok)
	assert.Equal(t, "SELECT * FROM sample WHERE id = '42';", mysql.Query)

	redis, _ := res.Backend(translate.Redis)
	assert.Equal(t, "42", redis.Query)
	assert.Equal(t, translate.KeyValueQuery{Key: "42"}, conns[translate.Redis].seen[0])

	out := decode(t, res)
	require.Len(t, out, 4)
	for _, b := range translate.Backends {
		entry := out[b.String()]
		assert.Contains(t, entry, "execution_time", b)
		assert.Contains(t, entry, "cpu_usage", b)
		assert.Contains(t, entry, "memory_usage", b)
		assert.Equal(t, 1, conns[b].calls(), b)
	}
}

func TestRun_ObjectQueryIsAccepted(t *testing.T) {
	conns := allBackends()
	o := newOrchestrator(t, asConnectors(conns))

	res := o.Run(context.Background(), Request{
		Query:    json.RawMessage(`{"name": "alpha", "age": 3}`),
		Database: "mongodb",
	})
	require.NoError(t, res.Err)

	doc := conns[translate.Mongo].seen[0].(translate.DocumentQuery)
	assert.Equal(t, 2, doc.Len())
	assert.Equal(t, "alpha", conns[translate.Redis].seen[0].String())
}

func TestRun_MissingQuery(t *testing.T) {
	o := newOrchestrator(t, asConnectors(allBackends()))

	res := o.Run(context.Background(), Request{Database: "document"})

	var ve *apperr.ValidationError
	require.ErrorAs(t, res.Err, &ve)
	assert.Empty(t, res.Backends)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Benchmark failed: No query provided in the request"}`, string(b))
}

func TestRun_TopLevelFailures(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "missing database",
			req:  NewRequest("", "42", false, 1),
			want: "Benchmark failed: No source database specified",
		},
		{
			name: "unknown dialect",
			req:  NewRequest("cassandra", "42", false, 1),
			want: "Benchmark failed: query translation not supported for database: cassandra",
		},
		{
			name: "malformed document",
			req:  NewRequest("document", "{not json", false, 1),
			want: "Benchmark failed: invalid document query format, must be valid JSON",
		},
		{
			name: "non-positive concurrency",
			req:  NewRequest("keyvalue", "42", true, 0),
			want: "Benchmark failed: concurrency must be a positive integer, got 0",
		},
		{
			name: "concurrency above ceiling",
			req:  NewRequest("keyvalue", "42", true, 11),
			want: "Benchmark failed: concurrency 11 exceeds the maximum of 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newOrchestrator(t, asConnectors(allBackends()), WithMaxConcurrency(10))
			res := o.Run(context.Background(), tt.req)

			require.True(t, res.Failed())
			assert.True(t, apperr.IsClientError(res.Err))
			assert.Contains(t, res.ErrorMessage(), tt.want)
			assert.Empty(t, res.Backends)
		})
	}
}

func TestRun_UnsupportedBackendIsIsolated(t *testing.T) {
	conns := allBackends()
	delete(conns, translate.Mongo)
	o := newOrchestrator(t, asConnectors(conns))

	res := o.Run(context.Background(), NewRequest("keyvalue", "alpha", false, 1))
	require.NoError(t, res.Err)

	out := decode(t, res)
	assert.Equal(t, map[string]any{"error": "Unsupported database: mongodb"}, out["mongodb"])
	for _, b := range []translate.Backend{translate.MySQL, translate.Postgres, translate.Redis} {
		assert.Contains(t, out[b.String()], "execution_time", b)
	}
}

func TestRun_ConnectorFailureIsIsolated(t *testing.T) {
	conns := allBackends()
	conns[translate.Postgres].err = apperr.NewConnector("postgresql", errors.New("connection refused"))
	o := newOrchestrator(t, asConnectors(conns))

	res := o.Run(context.Background(), NewRequest("relational", "SELECT * FROM sample WHERE name = 'alpha'", false, 1))
	require.NoError(t, res.Err)

	out := decode(t, res)
	assert.Equal(t, map[string]any{"error": "postgresql error: connection refused"}, out["postgresql"])
	assert.Contains(t, out["mysql"], "execution_time")
	assert.Equal(t, translate.RelationalQuery{
		Text:        "SELECT * FROM sample WHERE name = 'alpha'",
		Passthrough: true,
	}, conns[translate.MySQL].seen[0])
}

func TestRun_ParallelRunsEveryAttempt(t *testing.T) {
	conns := allBackends()
	o := newOrchestrator(t, asConnectors(conns))

	res := o.Run(context.Background(), NewRequest("keyvalue", "alpha", true, 7))
	require.NoError(t, res.Err)

	for _, b := range translate.Backends {
		assert.Equal(t, 7, conns[b].calls(), b)
		br, _ := res.Backend(b)
		assert.Equal(t, 7, br.Summary.Attempts)
		assert.Equal(t, 7, br.Summary.Succeeded)
	}
}

func TestRun_ParallelAllFailing(t *testing.T) {
	conns := allBackends()
	conns[translate.Redis].err = errors.New("timeout")
	o := newOrchestrator(t, asConnectors(conns))

	res := o.Run(context.Background(), NewRequest("keyvalue", "alpha", true, 3))
	require.NoError(t, res.Err)

	br, _ := res.Backend(translate.Redis)
	var aggErr *apperr.AggregationError
	require.ErrorAs(t, br.Err, &aggErr)
	assert.Equal(t, 3, br.Summary.Failed)

	out := decode(t, res)
	assert.Equal(t, map[string]any{"error": "all 3 attempts failed: timeout"}, out["redis"])
	assert.Contains(t, out["mongodb"], "execution_time")
}

func TestRun_RecordsHistory(t *testing.T) {
	store := history.NewMemory(10)
	conns := allBackends()
	delete(conns, translate.Redis)
	o := newOrchestrator(t, asConnectors(conns), WithHistory(store))

	ok := o.Run(context.Background(), NewRequest("document", `{"id":"1"}`, false, 1))
	failed := o.Run(context.Background(), Request{Database: "document"})

	entries, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, failed.ID, entries[0].ID)
	assert.Equal(t, "Benchmark failed: No query provided in the request", entries[0].Error)

	assert.Equal(t, ok.ID, entries[1].ID)
	assert.Equal(t, "document", entries[1].Dialect)
	assert.Equal(t, "process", entries[1].SamplerMode)
	require.Len(t, entries[1].Backends, 4)
	assert.Equal(t, "Unsupported database: redis", entries[1].Backends[3].Error)
}
