// Package serve runs the HTTP API, optionally with an embedded event daemon
//
// e.g., dashlayout serve --addr :8080 --with-daemon
package serve

import (
	"context"
	"log/slog"

	"github.com/sparksai/dashlayout/internal/cli"
	"github.com/sparksai/dashlayout/internal/config"
	"github.com/sparksai/dashlayout/internal/daemon"
	"github.com/sparksai/dashlayout/internal/httpapi"
	"github.com/sparksai/dashlayout/internal/logging"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dashboards over HTTP",
		Long: `Serve the JSON API used by the web dashboard.

Layout edits made through the API are announced to the event daemon, so
open arrangers refresh. --with-daemon runs the daemon in this process
instead of relying on dashlayout-daemon.

Examples:
  dashlayout serve
  dashlayout serve --addr 0.0.0.0:9000 --with-daemon
`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default from config)")
	cmd.Flags().Bool("with-daemon", false, "Run the event daemon in this process")
	cmd.Flags().BoolP("verbose", "v", false, "Log every request")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	formatter := &cli.OutputFormatter{}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logging.InitStderr(verbose)

	cfg, err := config.Load()
	if err != nil {
		return formatter.Fail(err, "")
	}

	g, gctx := errgroup.WithContext(ctx)
	var apiOpts []httpapi.Option

	// The daemon must be listening before the App dials it
	withDaemon, _ := cmd.Flags().GetBool("with-daemon")
	if withDaemon {
		server, err := daemon.NewServer(cfg.SocketPath, daemon.Options{})
		if err != nil {
			return formatter.Fail(err, "is another daemon already running?")
		}
		g.Go(func() error { return server.Start(gctx) })
		apiOpts = append(apiOpts, httpapi.WithDaemon(server))
	}

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		cancel()
		_ = g.Wait()
		return formatter.Fail(err, "")
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cliInstance.Config().HTTPAddr
	}

	e := httpapi.New(cliInstance.App, apiOpts...)
	g.Go(func() error { return httpapi.Serve(gctx, e, addr) })

	if err := g.Wait(); err != nil {
		return formatter.Fail(err, "")
	}
	return nil
}
