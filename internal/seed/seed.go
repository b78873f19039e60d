package seed

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/DjordjeVuckovic/crossbench/internal/connector"
	"github.com/DjordjeVuckovic/crossbench/internal/translate"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

const createMySQLTable = "CREATE TABLE IF NOT EXISTS `sample` (" +
	"`id` VARCHAR(64) PRIMARY KEY, " +
	"`name` VARCHAR(255) NOT NULL, " +
	"`value` VARCHAR(255), " +
	"INDEX `idx_sample_name` (`name`))"

const createPGTable = `CREATE TABLE IF NOT EXISTS sample (
	id    VARCHAR(64) PRIMARY KEY,
	name  VARCHAR(255) NOT NULL,
	value VARCHAR(255)
)`

// All replaces the sample data of every registered backend concurrently.
// The first failure cancels the remaining loads.
func All(ctx context.Context, reg *connector.Registry, ds *Dataset) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, b := range reg.Backends() {
		conn, _ := reg.Lookup(b)
		g.Go(func() error {
			if err := One(gctx, conn, ds); err != nil {
				return fmt.Errorf("seed %s: %w", b, err)
			}
			slog.Info("Seeded backend", "backend", b, "records", len(ds.Records))
			return nil
		})
	}
	return g.Wait()
}

func One(ctx context.Context, conn connector.Connector, ds *Dataset) error {
	switch c := conn.(type) {
	case *connector.Postgres:
		return seedPostgres(ctx, c.Pool().GetConn(), ds)
	case *connector.MySQL:
		return seedMySQL(ctx, c.DB(), ds)
	case *connector.Mongo:
		return seedMongo(ctx, c.Collection(), ds)
	case *connector.Redis:
		return seedRedis(ctx, c.Client(), ds)
	default:
		if err := conn.Ping(ctx); err != nil {
			return err
		}
		return fmt.Errorf("backend %s does not support seeding", conn.Backend())
	}
}

func seedPostgres(ctx context.Context, db *pgxpool.Pool, ds *Dataset) error {
	if _, err := db.Exec(ctx, createPGTable); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	if _, err := db.Exec(ctx, "TRUNCATE TABLE sample"); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	rows := make([][]interface{}, len(ds.Records))
	for i, r := range ds.Records {
		rows[i] = []interface{}{r.ID, r.Name, r.Value}
	}

	_, err := db.CopyFrom(
		ctx,
		pgx.Identifier{translate.SampleTable},
		[]string{"id", "name", "value"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to bulk insert records: %w", err)
	}
	return nil
}

func seedMySQL(ctx context.Context, db *sql.DB, ds *Dataset) error {
	if _, err := db.ExecContext(ctx, createMySQLTable); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM `sample`"); err != nil {
		return fmt.Errorf("clear table: %w", err)
	}

	placeholders := make([]string, len(ds.Records))
	args := make([]any, 0, len(ds.Records)*3)
	for i, r := range ds.Records {
		placeholders[i] = "(?, ?, ?)"
		args = append(args, r.ID, r.Name, r.Value)
	}
	stmt := "INSERT INTO `sample` (`id`, `name`, `value`) VALUES " + strings.Join(placeholders, ", ")
	if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert records: %w", err)
	}
	return tx.Commit()
}

func seedMongo(ctx context.Context, coll *mongo.Collection, ds *Dataset) error {
	if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("clear collection: %w", err)
	}

	docs := make([]interface{}, len(ds.Records))
	for i, r := range ds.Records {
		docs[i] = r
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert documents: %w", err)
	}
	return nil
}

// seedRedis stores each record as JSON under both its id and its name, so
// lookups translated from either field find it.
func seedRedis(ctx context.Context, client *redis.Client, ds *Dataset) error {
	pipe := client.Pipeline()
	for _, r := range ds.Records {
		body, err := json.Marshal(r)
		if err != nil {
			return err
		}
		pipe.Set(ctx, r.ID, body, 0)
		pipe.Set(ctx, r.Name, body, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("pipeline set: %w", err)
	}
	return nil
}
