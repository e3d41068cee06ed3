package app

import (
	"log/slog"

	"github.com/sparksai/dashlayout/internal/config"
	"github.com/sparksai/dashlayout/internal/events"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	eventClient events.EventPublisher
	logger      *slog.Logger
	cfg         *config.Config
	liveUpdates bool
}

// WithEventPublisher sets the event publisher for the application
func WithEventPublisher(ec events.EventPublisher) Option {
	return func(c *appConfig) {
		c.eventClient = ec
	}
}

// WithLogger sets the logger for the application
func WithLogger(logger *slog.Logger) Option {
	return func(c *appConfig) {
		c.logger = logger
	}
}

// WithConfig supplies loaded settings; defaults are used otherwise
func WithConfig(cfg *config.Config) Option {
	return func(c *appConfig) {
		c.cfg = cfg
	}
}

// WithLiveUpdates makes Open connect to the event daemon. A daemon that is
// not running is logged and otherwise ignored.
func WithLiveUpdates() Option {
	return func(c *appConfig) {
		c.liveUpdates = true
	}
}
