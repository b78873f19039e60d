package connector

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/crossbench/internal/translate"
)

// Config selects which backends are registered. A nil section leaves that
// backend out of the registry.
type Config struct {
	QueryTimeoutSeconds int  `yaml:"query_timeout_seconds"`
	FailFast            bool `yaml:"fail_fast"`

	Postgres *PostgresConfig `yaml:"postgresql"`
	MySQL    *MySQLConfig    `yaml:"mysql"`
	Mongo    *MongoConfig    `yaml:"mongodb"`
	Redis    *RedisConfig    `yaml:"redis"`
}

// Open connects every configured backend. Unless FailFast is set, a backend
// that cannot be reached is still registered and reports its connect error
// on every execution.
func Open(ctx context.Context, cfg Config) (*Registry, error) {
	opts := ExecOptions{TimeoutSeconds: cfg.QueryTimeoutSeconds}
	var conns []Connector

	abort := func(b translate.Backend, err error) error {
		for _, c := range conns {
			_ = c.Close()
		}
		return fmt.Errorf("connect %s: %w", b, err)
	}

	add := func(b translate.Backend, open func() (Connector, error)) error {
		c, err := open()
		if err != nil {
			if cfg.FailFast {
				return abort(b, err)
			}
			slog.Warn("backend unavailable", "backend", b, "error", err)
			c = &unavailable{backend: b, err: err}
		} else {
			slog.Info("backend connected", "backend", b)
		}
		conns = append(conns, c)
		return nil
	}

	if cfg.MySQL != nil {
		if err := add(translate.MySQL, func() (Connector, error) {
			return OpenMySQL(ctx, *cfg.MySQL, opts)
		}); err != nil {
			return nil, err
		}
	}
	if cfg.Postgres != nil {
		if err := add(translate.Postgres, func() (Connector, error) {
			pool, err := NewConnectionPool(ctx, *cfg.Postgres)
			if err != nil {
				return nil, err
			}
			return NewPostgres(pool, opts), nil
		}); err != nil {
			return nil, err
		}
	}
	if cfg.Mongo != nil {
		if err := add(translate.Mongo, func() (Connector, error) {
			return OpenMongo(ctx, *cfg.Mongo, opts)
		}); err != nil {
			return nil, err
		}
	}
	if cfg.Redis != nil {
		if err := add(translate.Redis, func() (Connector, error) {
			return OpenRedis(ctx, *cfg.Redis, opts)
		}); err != nil {
			return nil, err
		}
	}

	return NewRegistry(conns...)
}
