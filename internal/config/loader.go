package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/DjordjeVuckovic/crossbench/internal/bench"
	"github.com/DjordjeVuckovic/crossbench/internal/connector"
	"github.com/DjordjeVuckovic/crossbench/internal/history"
	"github.com/DjordjeVuckovic/crossbench/internal/runner"
	"github.com/DjordjeVuckovic/crossbench/internal/sampler"
	"github.com/DjordjeVuckovic/crossbench/pkg/config/env"
	"github.com/DjordjeVuckovic/crossbench/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path, when given, and then applies
// environment overrides. An empty path yields a config built from the
// environment alone.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config YAML: %w", err)
	}
	if err := applyEnv(&c); err != nil {
		return nil, err
	}
	if err := validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// applyEnv lets deployment variables win over the file. Setting a
// connection variable also enables that backend.
func applyEnv(c *Config) error {
	env.String("LOG_LEVEL", &c.LogLevel)
	env.String("PORT", &c.Server.Port)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Server.CorsOrigins = utils.SplitCSV(v)
	}
	if err := env.Bool("USE_HTTP2", &c.Server.UseHttp2); err != nil {
		return err
	}

	env.String("SAMPLER_MODE", &c.Bench.SamplerMode)
	if err := env.Int("WORKER_POOL_SIZE", &c.Bench.WorkerPoolSize); err != nil {
		return err
	}
	if err := env.Int("MAX_CONCURRENCY", &c.Bench.MaxConcurrency); err != nil {
		return err
	}

	conns := &c.Connectors
	if v := os.Getenv("MYSQL_DSN"); v != "" {
		if conns.MySQL == nil {
			conns.MySQL = &connector.MySQLConfig{}
		}
		conns.MySQL.DSN = v
	}
	if v := os.Getenv("PG_CONNECTION_STRING"); v != "" {
		if conns.Postgres == nil {
			conns.Postgres = &connector.PostgresConfig{}
		}
		conns.Postgres.ConnStr = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		if conns.Mongo == nil {
			conns.Mongo = &connector.MongoConfig{}
		}
		conns.Mongo.URI = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		if conns.Redis == nil {
			conns.Redis = &connector.RedisConfig{}
		}
		conns.Redis.Addr = v
	}
	if err := env.Int("QUERY_TIMEOUT_SECONDS", &conns.QueryTimeoutSeconds); err != nil {
		return err
	}

	if v := os.Getenv("ES_ADDRESSES"); v != "" {
		c.History.Elasticsearch.Addresses = utils.SplitCSV(v)
		if c.History.Backend == "" {
			c.History.Backend = HistoryElasticsearch
		}
	}
	env.String("HISTORY_BACKEND", &c.History.Backend)
	return nil
}

func validate(c *Config) error {
	if err := c.Server.Normalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	if _, err := sampler.ParseMode(c.Bench.SamplerMode); err != nil {
		return fmt.Errorf("bench: %w", err)
	}
	if c.Bench.WorkerPoolSize < 0 {
		return fmt.Errorf("bench: worker_pool_size must not be negative")
	}
	if c.Bench.WorkerPoolSize == 0 {
		c.Bench.WorkerPoolSize = runner.DefaultPoolSize
	}
	if c.Bench.MaxConcurrency < 0 {
		return fmt.Errorf("bench: max_concurrency must not be negative")
	}
	if c.Bench.MaxConcurrency == 0 {
		c.Bench.MaxConcurrency = bench.DefaultMaxConcurrency
	}

	conns := c.Connectors
	if conns.QueryTimeoutSeconds < 0 {
		return fmt.Errorf("connectors: query_timeout_seconds must not be negative")
	}
	if conns.MySQL != nil && conns.MySQL.DSN == "" {
		return fmt.Errorf("connectors: mysql has no dsn")
	}
	if conns.Postgres != nil && conns.Postgres.ConnStr == "" {
		return fmt.Errorf("connectors: postgresql has no conn_str")
	}
	if conns.Mongo != nil && conns.Mongo.URI == "" {
		return fmt.Errorf("connectors: mongodb has no uri")
	}
	if conns.Redis != nil && conns.Redis.Addr == "" {
		return fmt.Errorf("connectors: redis has no addr")
	}
	if conns.MySQL == nil && conns.Postgres == nil && conns.Mongo == nil && conns.Redis == nil {
		slog.Warn("No backends configured, every benchmark will report them as unsupported")
	}

	h := &c.History
	switch h.Backend {
	case "":
		h.Backend = HistoryMemory
	case HistoryMemory, HistoryElasticsearch:
	default:
		return fmt.Errorf("history: unknown backend %q", h.Backend)
	}
	if h.Capacity <= 0 {
		h.Capacity = history.DefaultMemoryCapacity
	}
	if h.Backend == HistoryElasticsearch {
		if len(h.Elasticsearch.Addresses) == 0 {
			return fmt.Errorf("history: elasticsearch has no addresses")
		}
		if h.Elasticsearch.Index == "" {
			h.Elasticsearch.Index = history.DefaultIndex
		}
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
