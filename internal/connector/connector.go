package connector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/crossbench/internal/apperr"
	"github.com/DjordjeVuckovic/crossbench/internal/translate"
)

type ExecOptions struct {
	TimeoutSeconds int
}

type ExecuteResult struct {
	TotalHits    int
	Hits         []map[string]interface{}
	RowsAffected int64
}

// Connector executes native queries against a single backend.
// Execute must report every failure as an error; it never retries.
type Connector interface {
	Backend() translate.Backend
	Execute(ctx context.Context, q translate.NativeQuery) (*ExecuteResult, error)
	Ping(ctx context.Context) error
	Close() error
}

// Func adapts a function to the Connector interface.
type Func struct {
	Name translate.Backend
	Fn   func(ctx context.Context, q translate.NativeQuery) (*ExecuteResult, error)
}

func (f Func) Backend() translate.Backend { return f.Name }

func (f Func) Execute(ctx context.Context, q translate.NativeQuery) (*ExecuteResult, error) {
	return f.Fn(ctx, q)
}

func (f Func) Ping(context.Context) error { return nil }
func (f Func) Close() error               { return nil }

// unavailable stands in for a backend whose connection could not be opened,
// so each execution reports the connect error instead of the backend
// silently disappearing from results.
type unavailable struct {
	backend translate.Backend
	err     error
}

func (u *unavailable) Backend() translate.Backend { return u.backend }

func (u *unavailable) Execute(context.Context, translate.NativeQuery) (*ExecuteResult, error) {
	return nil, apperr.NewConnector(string(u.backend), u.err)
}

func (u *unavailable) Ping(context.Context) error { return u.err }
func (u *unavailable) Close() error               { return nil }

func newQueryCtx(ctx context.Context, opts ExecOptions) (context.Context, context.CancelFunc) {
	if opts.TimeoutSeconds > 0 {
		return context.WithTimeout(ctx, time.Duration(opts.TimeoutSeconds)*time.Second)
	}
	return ctx, func() {
		// no-op
	}
}

func isSelect(sql string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(sql)), "select")
}

// mismatch is a ConnectorError wrapping an InvalidArgumentError, so it is
// reported like any other execution failure of the backend.
func mismatch(b translate.Backend, q translate.NativeQuery) error {
	return apperr.NewConnector(string(b), apperr.NewInvalidArgument("%s connector cannot execute %s", b, describe(q)))
}

func describe(q translate.NativeQuery) string {
	if q == nil {
		return "a nil query"
	}
	return fmt.Sprintf("%T", q)
}
