package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sparksai/dashlayout/internal/config"
	"github.com/sparksai/dashlayout/internal/daemon"
	"github.com/sparksai/dashlayout/internal/logging"
)

func main() {
	// Set up signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancel()

	logging.InitStderr(os.Getenv("DASHLAYOUT_DEBUG") != "")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Creates the socket directory and clears a stale socket
	server, err := daemon.NewServer(cfg.SocketPath, daemon.Options{})
	if err != nil {
		slog.Error("failed to create daemon", "error", err)
		os.Exit(1)
	}

	slog.Info("dashlayout daemon starting", "socket_path", cfg.SocketPath, "pid", os.Getpid())

	// Blocks until shutdown
	if err := server.Start(ctx); err != nil {
		slog.Error("daemon error", "error", err)
		os.Exit(1)
	}

	slog.Info("dashlayout daemon stopped")
}
