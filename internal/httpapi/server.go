// Package httpapi exposes dashboards over a small JSON HTTP API so the web
// dashboard can load and persist layouts.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sparksai/dashlayout/internal/app"
	"github.com/sparksai/dashlayout/internal/daemon"
)

const shutdownTimeout = 5 * time.Second

// Option customizes the API server
type Option func(*options)

type options struct {
	daemon *daemon.Server
}

// WithDaemon reports the embedded daemon's counters on /healthz
func WithDaemon(s *daemon.Server) Option {
	return func(o *options) { o.daemon = s }
}

// New builds an echo instance with every route registered
func New(a *app.App, opts ...Option) *echo.Echo {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				slog.Warn("request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			slog.Debug("request", attrs...)
			return nil
		},
	}))

	e.GET("/healthz", healthz(o.daemon))
	Register(e, a.CatalogService, a.DashboardService)
	return e
}

// Serve runs e on addr until ctx is cancelled, then shuts it down
func Serve(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http api listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
