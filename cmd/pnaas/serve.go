package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rpggio/pnaas/internal/domain/project"
	"github.com/rpggio/pnaas/internal/mcp"
	"github.com/rpggio/pnaas/internal/metrics"
	"github.com/rpggio/pnaas/internal/transport"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var stdio bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server, or the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// stdout carries JSON-RPC in stdio mode.
			logW := cmd.OutOrStdout()
			if stdio {
				logW = cmd.ErrOrStderr()
			}
			if err := a.setup(logW); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if stdio {
				return a.serveStdio(ctx)
			}
			return a.serveHTTP(ctx)
		},
	}
	cmd.Flags().BoolVar(&stdio, "stdio", false, "serve MCP over stdin/stdout instead of HTTP")
	return cmd
}

func (a *app) serveStdio(ctx context.Context) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	projectSvc := project.NewService(store, a.logger)
	server := mcp.NewServer(mcp.Config{Projects: projectSvc, Version: version, Logger: a.logger})

	a.logger.Info("starting stdio transport")
	if err := mcp.RunStdio(ctx, server); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *app) serveHTTP(ctx context.Context) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	m := metrics.New()
	projectSvc := project.NewService(store, a.logger, project.WithObserver(m))
	m.TrackProjects(projectSvc.Count)

	opts := transport.Options{
		Projects:     projectSvc,
		Logger:       a.logger,
		Metrics:      m,
		ServeMetrics: a.cfg.Metrics.Enabled,
		TrustProxy:   a.cfg.Server.TrustProxy,
		Health:       store.Ping,
	}
	if token := a.cfg.Responses.Token; token != "" {
		opts.ResponseAuth = transport.StaticToken(token)
	}
	if a.cfg.MCP.Enabled {
		server := mcp.NewServer(mcp.Config{Projects: projectSvc, Version: version, Logger: a.logger})
		opts.MCP = mcp.NewHTTPHandler(server)
	}

	httpServer := &http.Server{
		Addr:              a.cfg.Server.Addr(),
		Handler:           transport.NewServer(opts),
		ReadTimeout:       a.cfg.Server.ReadTimeout,
		ReadHeaderTimeout: a.cfg.Server.ReadTimeout,
		WriteTimeout:      a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening",
			"addr", httpServer.Addr,
			"db", store.Dialect,
			"driver", store.Driver,
			"metrics", a.cfg.Metrics.Enabled,
			"mcp", a.cfg.MCP.Enabled,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("shutdown error", "error", err)
		return err
	}
	return nil
}
