package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/DjordjeVuckovic/crossbench/internal/apperr"
	"github.com/DjordjeVuckovic/crossbench/internal/bench"
	"github.com/DjordjeVuckovic/crossbench/internal/history"
	"github.com/DjordjeVuckovic/crossbench/pkg/pagination"
	"github.com/labstack/echo/v4"
)

type BenchRouter struct {
	e            *echo.Echo
	orchestrator *bench.Orchestrator
	history      history.Store
	metrics      http.Handler
}

type BenchRouterOption func(*BenchRouter)

func WithHistory(s history.Store) BenchRouterOption {
	return func(r *BenchRouter) { r.history = s }
}

func WithMetricsHandler(h http.Handler) BenchRouterOption {
	return func(r *BenchRouter) { r.metrics = h }
}

func NewBenchRouter(e *echo.Echo, o *bench.Orchestrator, opts ...BenchRouterOption) *BenchRouter {
	r := &BenchRouter{e: e, orchestrator: o}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *BenchRouter) Bind() {
	r.e.POST("/run", r.runHandler)
	if r.history != nil {
		r.e.GET("/runs", r.runsHandler)
	}
	if r.metrics != nil {
		r.e.GET("/metrics", echo.WrapHandler(r.metrics))
	}
}

// runHandler benchmarks one query across every backend.
// @Summary Run a cross-backend benchmark
// @Description Translates the query from its source dialect and measures it on mysql, postgresql, mongodb and redis.
// @Tags bench
// @Accept json
// @Produce json
// @Param request body bench.Request true "Benchmark request"
// @Success 200 {object} map[string]sampler.Metrics
// @Failure 400 {object} map[string]string
// @Router /run [post]
func (r *BenchRouter) runHandler(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apperr.NewValidationWrap("failed to read request body", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return noData(c)
	}

	var req bench.Request
	if err := json.Unmarshal(body, &req); err != nil {
		return apperr.NewValidationWrap("invalid JSON body", err)
	}
	if req.Query == nil && req.Database == "" && req.Parallel == nil && req.Concurrency == nil {
		return noData(c)
	}

	res := r.orchestrator.Run(c.Request().Context(), req)
	if res.Failed() {
		status := http.StatusInternalServerError
		if apperr.IsClientError(res.Err) {
			status = http.StatusBadRequest
		}
		return c.JSON(status, res)
	}
	return c.JSON(http.StatusOK, res)
}

// runsHandler lists recent benchmark runs, newest first.
// @Summary Recent benchmark runs
// @Tags bench
// @Produce json
// @Param size query int false "Number of runs" default(20)
// @Success 200 {array} history.Entry
// @Router /runs [get]
func (r *BenchRouter) runsHandler(c echo.Context) error {
	size, err := pagination.ParseSize(c.QueryParam("size"))
	if err != nil {
		return apperr.NewValidation(err.Error())
	}

	entries, err := r.history.Recent(c.Request().Context(), size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

func noData(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": "No JSON data provided"})
}
