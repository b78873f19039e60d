package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/refresh"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
)

const DefaultIndex = "crossbench-runs"

type ElasticConfig struct {
	Addresses []string `yaml:"addresses"`
	Index     string   `yaml:"index"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	// WaitForRefresh makes saved entries visible to Recent immediately.
	WaitForRefresh bool `yaml:"wait_for_refresh"`
}

// Elastic stores run history in an Elasticsearch index.
type Elastic struct {
	client    *elasticsearch.TypedClient
	indexName string
	refresh   bool
}

func newClient(config ElasticConfig) (*elasticsearch.TypedClient, error) {
	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
	}

	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	return elasticsearch.NewTypedClient(cfg)
}

func NewElastic(ctx context.Context, config ElasticConfig) (*Elastic, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	index := config.Index
	if index == "" {
		index = DefaultIndex
	}
	e := &Elastic{client: client, indexName: index, refresh: config.WaitForRefresh}

	if err := e.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}
	return e, nil
}

func (e *Elastic) Save(ctx context.Context, entry Entry) error {
	req := e.client.Index(e.indexName).Id(entry.ID.String()).Document(entry)
	if e.refresh {
		req = req.Refresh(refresh.Waitfor)
	}
	if _, err := req.Do(ctx); err != nil {
		return fmt.Errorf("failed to index run %s: %w", entry.ID, err)
	}
	return nil
}

func (e *Elastic) Recent(ctx context.Context, size int) ([]Entry, error) {
	if size <= 0 {
		size = 20
	}

	desc := sortorder.Desc
	res, err := e.client.Search().
		Index(e.indexName).
		Query(&types.Query{MatchAll: &types.MatchAllQuery{}}).
		Size(size).
		Sort(&types.SortOptions{
			SortOptions: map[string]types.FieldSort{
				"started_at": {Order: &desc},
			},
		}).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search runs: %w", err)
	}

	entries := make([]Entry, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var entry Entry
		if err := json.Unmarshal(hit.Source_, &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (e *Elastic) EnsureIndex(ctx context.Context) error {
	exists, err := e.client.Indices.Exists(e.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists {
		slog.Info("Index already exists", "index", e.indexName)
		return nil
	}

	mappings := types.TypeMapping{
		Properties: map[string]types.Property{
			"id":           types.NewKeywordProperty(),
			"started_at":   types.NewDateProperty(),
			"duration_ms":  types.NewDoubleNumberProperty(),
			"dialect":      types.NewKeywordProperty(),
			"query":        types.NewTextProperty(),
			"parallel":     types.NewBooleanProperty(),
			"concurrency":  types.NewIntegerNumberProperty(),
			"sampler_mode": types.NewKeywordProperty(),
			"error":        types.NewTextProperty(),
		},
	}

	createRes, err := e.client.Indices.Create(e.indexName).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", e.indexName)
	return nil
}

func (e *Elastic) Healthy(ctx context.Context) bool {
	ok, err := e.client.Ping().Do(ctx)
	return err == nil && ok
}

var _ Store = (*Elastic)(nil)
