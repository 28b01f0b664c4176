package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/vistoria/internal/config"
	"github.com/nao1215/vistoria/internal/web"
)

// shutdownTimeout bounds the graceful shutdown of the server.
const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard and the reports over HTTP",
		Long: `Serve starts an HTTP server exposing the dashboard, the inspection
list and the reports:

  GET /healthz
  GET /api/dashboard
  GET /api/records
  GET /api/records/{index}
  GET /api/records/{index}/report?format=text|markdown|json

When the configuration file declares users, the /api routes require
HTTP basic authentication. Without users the server only listens on a
loopback address. Fetched datasets are cached for the cache TTL.`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	addSourceFlags(cmd)
	cmd.Flags().String("addr", config.DefaultServerAddress, "Listen address")

	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	fetcher, release, err := newFetcher(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer release()

	srv := web.NewServer(fetcher,
		web.WithLogger(logger),
		web.WithMapping(loadMapping(cfg, logger)),
		web.WithUsers(cfg.Users),
	)
	if err := srv.CheckBind(cfg.ServerAddress); err != nil {
		return fmt.Errorf("%w (add users to the configuration file or listen on 127.0.0.1)", err)
	}
	if len(cfg.Users) == 0 {
		logger.Warn("no users configured, the API is open to local clients",
			"addr", cfg.ServerAddress)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.ServerAddress)
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s (Ctrl+C to stop)\n", cfg.ServerAddress)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("received shutdown signal, stopping server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return <-errCh
}
