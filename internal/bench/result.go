package bench

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/DjordjeVuckovic/crossbench/internal/runner"
	"github.com/DjordjeVuckovic/crossbench/internal/translate"
	"github.com/google/uuid"
)

// BackendResult is one backend's entry: a summary or an error, never both.
type BackendResult struct {
	Backend translate.Backend
	Query   string
	Summary runner.Summary
	Err     error
}

func (b BackendResult) OK() bool { return b.Err == nil }

func (b BackendResult) MarshalJSON() ([]byte, error) {
	if b.Err != nil {
		return json.Marshal(map[string]string{"error": b.Err.Error()})
	}
	return json.Marshal(b.Summary.Metrics)
}

type Result struct {
	ID        uuid.UUID
	StartedAt time.Time
	Elapsed   time.Duration
	Plan      Plan
	Backends  []BackendResult
	// Err is a failure of the whole request; Backends is then empty.
	Err error
}

func (r *Result) Failed() bool { return r.Err != nil }

func (r *Result) Backend(b translate.Backend) (BackendResult, bool) {
	for _, br := range r.Backends {
		if br.Backend == b {
			return br, true
		}
	}
	return BackendResult{}, false
}

// ErrorMessage is the payload text of a failed request.
func (r *Result) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return "Benchmark failed: " + r.Err.Error()
}

// MarshalJSON renders {"<backend>": {...}, ...} in backend order, or
// {"error": "Benchmark failed: ..."} for a failed request.
func (r *Result) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(map[string]string{"error": r.ErrorMessage()})
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, br := range r.Backends {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(br.Backend.String())
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(br)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
