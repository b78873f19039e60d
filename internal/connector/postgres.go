package connector

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/crossbench/internal/apperr"
	"github.com/DjordjeVuckovic/crossbench/internal/translate"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresConfig struct {
	ConnStr  string `yaml:"conn_str"`
	MaxConns int32  `yaml:"max_conns"`
}

type ConnectionPool struct {
	conn *pgxpool.Pool
}

func NewConnectionPool(ctx context.Context, cfg PostgresConfig) (*ConnectionPool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	dbpool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return &ConnectionPool{conn: dbpool}, nil
}

func (p *ConnectionPool) GetConn() *pgxpool.Pool {
	return p.conn
}

func (p *ConnectionPool) Close() {
	p.conn.Close()
}

func (p *ConnectionPool) Ping(ctx context.Context) error {
	c, err := p.conn.Acquire(ctx)
	if err != nil {
		return err
	}
	defer c.Release()
	return c.Ping(ctx)
}

type Postgres struct {
	pool *ConnectionPool
	opts ExecOptions
}

func NewPostgres(pool *ConnectionPool, opts ExecOptions) *Postgres {
	return &Postgres{pool: pool, opts: opts}
}

func (p *Postgres) Backend() translate.Backend { return translate.Postgres }

func (p *Postgres) Pool() *ConnectionPool { return p.pool }

func (p *Postgres) Execute(ctx context.Context, q translate.NativeQuery) (*ExecuteResult, error) {
	rq, ok := q.(translate.RelationalQuery)
	if !ok {
		return nil, mismatch(translate.Postgres, q)
	}
	sql, args := pgStatement(rq)

	queryCtx, cancel := newQueryCtx(ctx, p.opts)
	defer cancel()

	res, err := p.exec(queryCtx, sql, args)
	if err != nil {
		return nil, apperr.NewConnector(string(translate.Postgres), err)
	}
	return res, nil
}

func (p *Postgres) exec(ctx context.Context, sql string, args []any) (*ExecuteResult, error) {
	db := p.pool.GetConn()
	if !isSelect(sql) {
		tag, err := db.Exec(ctx, sql, args...)
		if err != nil {
			return nil, err
		}
		return &ExecuteResult{RowsAffected: tag.RowsAffected()}, nil
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}

		rowMap := make(map[string]interface{})
		for i, fd := range rows.FieldDescriptions() {
			rowMap[fd.Name] = values[i]
		}
		results = append(results, rowMap)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &ExecuteResult{
		TotalHits: len(results),
		Hits:      results,
	}, nil
}

func (p *Postgres) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// pgStatement binds the compared value as $1. Passthrough SQL runs verbatim.
func pgStatement(q translate.RelationalQuery) (string, []any) {
	if q.Passthrough {
		return q.Text, nil
	}
	sql := fmt.Sprintf("SELECT * FROM %s WHERE %s = $1",
		pgx.Identifier{q.Table}.Sanitize(), pgx.Identifier{q.Column}.Sanitize())
	return sql, []any{q.Value}
}

var _ Connector = (*Postgres)(nil)
