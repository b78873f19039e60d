package connector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DjordjeVuckovic/crossbench/internal/apperr"
	"github.com/DjordjeVuckovic/crossbench/internal/translate"
	"github.com/go-redis/redis/v8"
)

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type Redis struct {
	client *redis.Client
	opts   ExecOptions
}

func OpenRedis(ctx context.Context, cfg RedisConfig, opts ExecOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Redis{client: client, opts: opts}, nil
}

func (r *Redis) Backend() translate.Backend { return translate.Redis }

func (r *Redis) Client() *redis.Client { return r.client }

// Execute looks the key up with GET. A missing key is a successful
// lookup with no hits.
func (r *Redis) Execute(ctx context.Context, q translate.NativeQuery) (*ExecuteResult, error) {
	kq, ok := q.(translate.KeyValueQuery)
	if !ok {
		return nil, mismatch(translate.Redis, q)
	}

	queryCtx, cancel := newQueryCtx(ctx, r.opts)
	defer cancel()

	val, err := r.client.Get(queryCtx, kq.Key).Result()
	if errors.Is(err, redis.Nil) {
		return &ExecuteResult{}, nil
	}
	if err != nil {
		return nil, apperr.NewConnector(string(translate.Redis), err)
	}

	return &ExecuteResult{
		TotalHits: 1,
		Hits:      []map[string]interface{}{redisHit(kq.Key, val)},
	}, nil
}

func (r *Redis) Ping(ctx context.Context) error { return r.client.Ping(ctx).Err() }
func (r *Redis) Close() error                   { return r.client.Close() }

// redisHit decodes JSON-encoded values; anything else is kept as a string.
func redisHit(key, val string) map[string]interface{} {
	var decoded any
	if err := json.Unmarshal([]byte(val), &decoded); err != nil {
		return map[string]interface{}{"key": key, "value": val}
	}
	if obj, ok := decoded.(map[string]any); ok {
		return obj
	}
	return map[string]interface{}{"key": key, "value": decoded}
}

var _ Connector = (*Redis)(nil)
