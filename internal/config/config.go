package config

import (
	"github.com/DjordjeVuckovic/crossbench/internal/api/server"
	"github.com/DjordjeVuckovic/crossbench/internal/connector"
	"github.com/DjordjeVuckovic/crossbench/internal/history"
)

const (
	HistoryMemory        = "memory"
	HistoryElasticsearch = "elasticsearch"
)

type Config struct {
	LogLevel   string           `yaml:"log_level"`
	Server     server.Config    `yaml:"server"`
	Bench      BenchConfig      `yaml:"bench"`
	Connectors connector.Config `yaml:"connectors"`
	History    HistoryConfig    `yaml:"history"`
}

type BenchConfig struct {
	// SamplerMode is "process" (default) or "exclusive".
	SamplerMode    string `yaml:"sampler_mode"`
	WorkerPoolSize int    `yaml:"worker_pool_size"`
	MaxConcurrency int    `yaml:"max_concurrency"`
}

type HistoryConfig struct {
	Backend       string                `yaml:"backend"`
	Capacity      int                   `yaml:"capacity"`
	Elasticsearch history.ElasticConfig `yaml:"elasticsearch"`
}
