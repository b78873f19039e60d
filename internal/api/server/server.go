package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DjordjeVuckovic/crossbench/internal/apperr"
	mw "github.com/DjordjeVuckovic/crossbench/internal/middleware"
	pkgserver "github.com/DjordjeVuckovic/crossbench/pkg/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const (
	GracefulShutdownTimeout = 10 * time.Second
)

type Server struct {
	Echo *echo.Echo

	cfg      *Config
	health   pkgserver.HealthChecker
	ctx      context.Context
	stop     context.CancelFunc
	shutdown chan struct{}
}

func New(cfg *Config, health pkgserver.HealthChecker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.DisableHTTP2 = !cfg.UseHttp2

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	return &Server{
		Echo:     e,
		cfg:      cfg,
		health:   health,
		ctx:      ctx,
		stop:     stop,
		shutdown: make(chan struct{}),
	}
}

func (s *Server) SetupMiddlewares() *Server {
	s.Echo.Use(mw.Logger(mw.WithSkipper(func(c echo.Context) bool {
		return c.Path() == "/metrics"
	})))
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.cfg.CorsOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))
	return s
}

func (s *Server) SetupErrorHandler() *Server {
	s.Echo.HTTPErrorHandler = apperr.GlobalErrorHandler()
	return s
}

func (s *Server) SetupHealthChecks(path string) *Server {
	s.Echo.GET(path, s.healthHandler)
	return s
}

func (s *Server) SetupOpenApi(path string) *Server {
	s.Echo.GET(path, echoSwagger.WrapHandler)
	return s
}

// healthHandler reports each component's status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} pkgserver.Health
// @Failure 503 {object} pkgserver.Health
// @Router /health [get]
func (s *Server) healthHandler(c echo.Context) error {
	h := s.health.Check(c.Request().Context())
	if !h.Healthy() {
		return c.JSON(http.StatusServiceUnavailable, h)
	}
	return c.JSON(http.StatusOK, h)
}

// Context is cancelled when the process receives an interrupt.
func (s *Server) Context() context.Context { return s.ctx }

// ShutdownSignal is closed once the server has stopped accepting requests.
func (s *Server) ShutdownSignal() <-chan struct{} { return s.shutdown }

func (s *Server) Start() error {
	defer s.stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "port", s.cfg.Port)
		if err := s.Echo.Start(":" + s.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		close(s.shutdown)
		return err
	case <-s.ctx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
	defer cancel()

	err := s.Echo.Shutdown(ctx)
	close(s.shutdown)
	return err
}
