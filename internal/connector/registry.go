package connector

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/DjordjeVuckovic/crossbench/internal/translate"
)

// Registry is the fixed table of connectors, one per backend at most.
// It is read-only once built and safe for concurrent use.
type Registry struct {
	connectors map[translate.Backend]Connector
}

func NewRegistry(conns ...Connector) (*Registry, error) {
	r := &Registry{connectors: make(map[translate.Backend]Connector, len(conns))}
	for _, c := range conns {
		b := c.Backend()
		if !slices.Contains(translate.Backends, b) {
			return nil, fmt.Errorf("unknown backend %q", b)
		}
		if _, dup := r.connectors[b]; dup {
			return nil, fmt.Errorf("backend %q registered twice", b)
		}
		r.connectors[b] = c
	}
	return r, nil
}

func (r *Registry) Lookup(b translate.Backend) (Connector, bool) {
	c, ok := r.connectors[b]
	return c, ok
}

// Backends returns the registered backends in reporting order.
func (r *Registry) Backends() []translate.Backend {
	out := make([]translate.Backend, 0, len(r.connectors))
	for _, b := range translate.Backends {
		if _, ok := r.connectors[b]; ok {
			out = append(out, b)
		}
	}
	return out
}

func (r *Registry) Ping(ctx context.Context) map[translate.Backend]error {
	out := make(map[translate.Backend]error, len(r.connectors))
	for b, c := range r.connectors {
		out[b] = c.Ping(ctx)
	}
	return out
}

func (r *Registry) Close() error {
	var errs []error
	for b, c := range r.connectors {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", b, err))
		}
	}
	return errors.Join(errs...)
}
