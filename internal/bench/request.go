package bench

import (
	"encoding/json"
	"fmt"

	"github.com/DjordjeVuckovic/crossbench/internal/apperr"
	"github.com/DjordjeVuckovic/crossbench/internal/translate"
)

const (
	DefaultConcurrency    = 1
	DefaultMaxConcurrency = 1000
)

// Request is the benchmark payload. Query may be a JSON string or, for
// document queries, a JSON object.
type Request struct {
	Query       json.RawMessage `json:"query" swaggertype:"object"`
	Database    string          `json:"database" example:"mongodb"`
	Parallel    *bool           `json:"parallel,omitempty"`
	Concurrency *int            `json:"concurrency,omitempty"`
}

// NewRequest builds a request around a plain-text query.
func NewRequest(database, query string, parallel bool, concurrency int) Request {
	raw, _ := json.Marshal(query)
	return Request{
		Query:       raw,
		Database:    database,
		Parallel:    &parallel,
		Concurrency: &concurrency,
	}
}

// Plan is a validated request with defaults applied.
type Plan struct {
	Raw         string
	Database    string
	Dialect     translate.Dialect
	Parallel    bool
	Concurrency int
}

func (r Request) Validate(maxConcurrency int) (Plan, error) {
	raw, ok := translate.NormalizeRaw(r.Query)
	if !ok {
		return Plan{}, apperr.NewValidation("No query provided in the request")
	}
	if r.Database == "" {
		return Plan{}, apperr.NewValidation("No source database specified")
	}

	dialect, err := translate.ParseDialect(r.Database)
	if err != nil {
		return Plan{}, err
	}

	p := Plan{
		Raw:         raw,
		Database:    r.Database,
		Dialect:     dialect,
		Concurrency: DefaultConcurrency,
	}
	if r.Parallel != nil {
		p.Parallel = *r.Parallel
	}
	if r.Concurrency != nil {
		p.Concurrency = *r.Concurrency
	}

	if p.Parallel {
		if p.Concurrency < 1 {
			return Plan{}, apperr.NewValidation(fmt.Sprintf("concurrency must be a positive integer, got %d", p.Concurrency))
		}
		if maxConcurrency > 0 && p.Concurrency > maxConcurrency {
			return Plan{}, apperr.NewValidation(fmt.Sprintf("concurrency %d exceeds the maximum of %d", p.Concurrency, maxConcurrency))
		}
	}
	return p, nil
}
