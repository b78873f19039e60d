package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/DjordjeVuckovic/crossbench/docs"
	"github.com/DjordjeVuckovic/crossbench/internal/api/router"
	"github.com/DjordjeVuckovic/crossbench/internal/api/server"
	pkgserver "github.com/DjordjeVuckovic/crossbench/pkg/server"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

const healthTimeout = 3 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API.

Example:
  crossbench serve --config ./configs/crossbench.yaml
  PORT=9000 crossbench serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	health := pkgserver.NewComponentHealthChecker(healthTimeout)

	s := server.New(&cfg.Server, health).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "crossbench API is running")
	})

	a, err := newApp(s.Context(), cfg)
	if err != nil {
		return err
	}

	for _, b := range a.registry.Backends() {
		conn, _ := a.registry.Lookup(b)
		health.Add(b.String(), conn.Ping)
	}
	if a.elastic != nil {
		es := a.elastic
		health.Add("history", func(ctx context.Context) error {
			if !es.Healthy(ctx) {
				return errors.New("elasticsearch unreachable")
			}
			return nil
		})
	}

	router.NewBenchRouter(s.Echo, a.orchestrator,
		router.WithHistory(a.history),
		router.WithMetricsHandler(a.metrics.Handler()),
	).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	serveErr := s.Start()
	if err := a.Close(); err != nil {
		slog.Error("Failed to release resources", "error", err)
	}
	return serveErr
}
