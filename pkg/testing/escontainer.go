package testing

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/elasticsearch"
	"github.com/testcontainers/testcontainers-go/wait"
)

const esImage = "docker.elastic.co/elasticsearch/elasticsearch:8.12.0"

// ESContainer is a single-node Elasticsearch used as a run history store.
type ESContainer struct {
	Container testcontainers.Container
	Address   string
}

// Addresses returns the node list in the shape client configs expect.
func (c *ESContainer) Addresses() []string { return []string{c.Address} }

// NewESContainer starts Elasticsearch without security and terminates it
// when the test ends. Skipped in -short mode.
func NewESContainer(ctx context.Context, tb testing.TB) *ESContainer {
	tb.Helper()
	if testing.Short() {
		tb.Skip("skipping elasticsearch container in short mode")
	}

	c, err := elasticsearch.Run(ctx, esImage,
		elasticsearch.WithPassword(""),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/").WithPort("9200").WithStartupTimeout(90*time.Second),
		),
	)
	if err != nil {
		tb.Fatalf("start elasticsearch container: %v", err)
	}
	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(c); err != nil {
			tb.Logf("terminate elasticsearch container: %v", err)
		}
	})

	endpoint, err := c.PortEndpoint(ctx, "9200/tcp", "http")
	if err != nil {
		tb.Fatalf("resolve elasticsearch endpoint: %v", err)
	}
	return &ESContainer{Container: c, Address: endpoint}
}
