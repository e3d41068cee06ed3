// Package cli holds the plumbing shared by every dashlayout subcommand:
// app lookup, output formatting, exit codes and error mapping.
package cli

import (
	"context"
	"fmt"

	"github.com/sparksai/dashlayout/internal/app"
	"github.com/sparksai/dashlayout/internal/config"
)

type contextKey string

const appKey contextKey = "app"

// WithApp returns a context carrying a prebuilt App. Commands run with
// such a context use it instead of opening the configured database.
func WithApp(ctx context.Context, a *app.App) context.Context {
	return context.WithValue(ctx, appKey, a)
}

// CLI represents the CLI application context
type CLI struct {
	App *app.App // Application container with services

	owned bool
}

// NewCLI loads the config, opens the database and connects to the daemon
// when it is running.
func NewCLI(ctx context.Context) (*CLI, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	a, err := app.Open(ctx, app.WithConfig(cfg), app.WithLiveUpdates())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return &CLI{App: a, owned: true}, nil
}

// GetCLIFromContext returns the App injected with WithApp, or opens a new one
func GetCLIFromContext(ctx context.Context) (*CLI, error) {
	if ctx != nil {
		if a, ok := ctx.Value(appKey).(*app.App); ok && a != nil {
			return &CLI{App: a}, nil
		}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return NewCLI(ctx)
}

// Config returns the settings the App was built with
func (c *CLI) Config() *config.Config {
	return c.App.Config
}

// Close cleans up CLI resources. An injected App is left open.
func (c *CLI) Close() error {
	if !c.owned {
		return nil
	}
	return c.App.Close()
}
