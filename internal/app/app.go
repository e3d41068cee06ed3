// Package app wires storage, services and the event client together.
package app

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/sparksai/dashlayout/internal/config"
	"github.com/sparksai/dashlayout/internal/database"
	"github.com/sparksai/dashlayout/internal/events"
	catalogservice "github.com/sparksai/dashlayout/internal/services/catalog"
	dashboardservice "github.com/sparksai/dashlayout/internal/services/dashboard"
)

// App holds all application services and provides dependency injection.
type App struct {
	db     *sql.DB
	ownsDB bool

	// Repository layer (direct database access)
	repo database.DataStore

	// Event system for live updates
	eventClient events.EventPublisher

	logger *slog.Logger
	Config *config.Config

	// Service layer (business logic)
	CatalogService   catalogservice.Service
	DashboardService dashboardservice.Service
}

// New creates an App over an already opened and migrated database.
// The caller keeps ownership of db.
func New(db *sql.DB, opts ...Option) *App {
	c := appConfig{}
	for _, opt := range opts {
		opt(&c)
	}
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	repo := database.NewRepository(db)
	return &App{
		db:               db,
		repo:             repo,
		eventClient:      c.eventClient,
		logger:           c.logger,
		Config:           c.cfg,
		CatalogService:   catalogservice.NewService(repo, c.eventClient),
		DashboardService: dashboardservice.NewService(repo, c.eventClient, c.cfg.ReportsPerRow),
	}
}

// Open initializes the database named by the config and builds the App.
// With WithLiveUpdates it also connects to the event daemon.
func Open(ctx context.Context, opts ...Option) (*App, error) {
	c := appConfig{}
	for _, opt := range opts {
		opt(&c)
	}
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	db, err := database.InitDB(ctx, c.cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if c.liveUpdates && c.eventClient == nil {
		c.eventClient = connectEvents(ctx, c.cfg, c.logger)
	}

	a := New(db,
		WithConfig(c.cfg),
		WithLogger(c.logger),
		WithEventPublisher(c.eventClient),
	)
	a.ownsDB = true
	return a, nil
}

// connectEvents dials the daemon, returning nil when it is unavailable
func connectEvents(ctx context.Context, cfg *config.Config, logger *slog.Logger) events.EventPublisher {
	client, err := events.NewClient(cfg.SocketPath,
		events.WithDebounce(time.Duration(cfg.EventDebounceMs)*time.Millisecond))
	if err != nil {
		logger.Debug("live updates disabled", "error", err)
		return nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := client.Connect(dialCtx); err != nil {
		de := events.ClassifyDaemonError(err)
		logger.Debug("live updates disabled", "reason", de.Kind, "hint", de.Hint, "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// Repo returns the underlying repository for direct database access
func (a *App) Repo() database.DataStore {
	return a.repo
}

// EventClient returns the connected event publisher, or nil
func (a *App) EventClient() events.EventPublisher {
	return a.eventClient
}

// Logger returns the application logger
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Close flushes pending events and closes resources the App opened
func (a *App) Close() error {
	var errs []error
	if a.eventClient != nil {
		errs = append(errs, a.eventClient.Close())
	}
	if a.ownsDB && a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
