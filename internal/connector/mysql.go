package connector

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/crossbench/internal/apperr"
	"github.com/DjordjeVuckovic/crossbench/internal/translate"
	_ "github.com/go-sql-driver/mysql"
)

type MySQLConfig struct {
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type MySQL struct {
	db   *sql.DB
	opts ExecOptions
}

func OpenMySQL(ctx context.Context, cfg MySQLConfig, opts ExecOptions) (*MySQL, error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping mysql: %w", err)
	}
	return &MySQL{db: db, opts: opts}, nil
}

func NewMySQL(db *sql.DB, opts ExecOptions) *MySQL {
	return &MySQL{db: db, opts: opts}
}

func (m *MySQL) Backend() translate.Backend { return translate.MySQL }

func (m *MySQL) DB() *sql.DB { return m.db }

func (m *MySQL) Execute(ctx context.Context, q translate.NativeQuery) (*ExecuteResult, error) {
	rq, ok := q.(translate.RelationalQuery)
	if !ok {
		return nil, mismatch(translate.MySQL, q)
	}
	stmt, args := mysqlStatement(rq)

	queryCtx, cancel := newQueryCtx(ctx, m.opts)
	defer cancel()

	res, err := m.exec(queryCtx, stmt, args)
	if err != nil {
		return nil, apperr.NewConnector(string(translate.MySQL), err)
	}
	return res, nil
}

func (m *MySQL) exec(ctx context.Context, stmt string, args []any) (*ExecuteResult, error) {
	if !isSelect(stmt) {
		r, err := m.db.ExecContext(ctx, stmt, args...)
		if err != nil {
			return nil, err
		}
		n, err := r.RowsAffected()
		if err != nil {
			return nil, err
		}
		return &ExecuteResult{RowsAffected: n}, nil
	}

	rows, err := m.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]interface{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		rowMap := make(map[string]interface{}, len(cols))
		for i, col := range cols {
			// text columns come back as raw bytes
			if b, ok := values[i].([]byte); ok {
				rowMap[col] = string(b)
				continue
			}
			rowMap[col] = values[i]
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

func (m *MySQL) Ping(ctx context.Context) error { return m.db.PingContext(ctx) }
func (m *MySQL) Close() error                   { return m.db.Close() }

func mysqlStatement(q translate.RelationalQuery) (string, []any) {
	if q.Passthrough {
		return q.Text, nil
	}
	stmt := fmt.Sprintf("SELECT * FROM %s WHERE %s = ?", quoteMySQL(q.Table), quoteMySQL(q.Column))
	return stmt, []any{q.Value}
}

func quoteMySQL(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

var _ Connector = (*MySQL)(nil)
