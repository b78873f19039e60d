package connector

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DjordjeVuckovic/crossbench/internal/apperr"
	"github.com/DjordjeVuckovic/crossbench/internal/translate"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const DefaultMongoDatabase = "crossbench"

type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
	opts   ExecOptions
}

func OpenMongo(ctx context.Context, cfg MongoConfig, opts ExecOptions) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	database := cfg.Database
	if database == "" {
		database = DefaultMongoDatabase
	}
	collection := cfg.Collection
	if collection == "" {
		collection = translate.SampleTable
	}
	return &Mongo{
		client: client,
		coll:   client.Database(database).Collection(collection),
		opts:   opts,
	}, nil
}

func (m *Mongo) Backend() translate.Backend { return translate.Mongo }

func (m *Mongo) Collection() *mongo.Collection { return m.coll }

func (m *Mongo) Execute(ctx context.Context, q translate.NativeQuery) (*ExecuteResult, error) {
	dq, ok := q.(translate.DocumentQuery)
	if !ok {
		return nil, mismatch(translate.Mongo, q)
	}

	queryCtx, cancel := newQueryCtx(ctx, m.opts)
	defer cancel()

	cursor, err := m.coll.Find(queryCtx, mongoFilter(dq))
	if err != nil {
		return nil, apperr.NewConnector(string(translate.Mongo), err)
	}

	var docs []bson.M
	if err := cursor.All(queryCtx, &docs); err != nil {
		return nil, apperr.NewConnector(string(translate.Mongo), err)
	}

	hits := make([]map[string]interface{}, 0, len(docs))
	for _, d := range docs {
		hits = append(hits, map[string]interface{}(d))
	}
	return &ExecuteResult{TotalHits: len(hits), Hits: hits}, nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close() error {
	return m.client.Disconnect(context.Background())
}

// mongoFilter builds an ordered equality filter from the document query.
func mongoFilter(q translate.DocumentQuery) bson.D {
	filter := make(bson.D, 0, len(q.Fields))
	for _, f := range q.Fields {
		filter = append(filter, bson.E{Key: f.Key, Value: bsonValue(f.Value)})
	}
	return filter
}

// bsonValue replaces json.Number with the narrowest numeric type so that
// filters match documents stored with native numbers.
func bsonValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		m := make(bson.M, len(t))
		for k, e := range t {
			m[k] = bsonValue(e)
		}
		return m
	case []any:
		a := make(bson.A, 0, len(t))
		for _, e := range t {
			a = append(a, bsonValue(e))
		}
		return a
	default:
		return v
	}
}

var _ Connector = (*Mongo)(nil)
