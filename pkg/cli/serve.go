package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/newsdesk/pkg/cli/config"
	controller "github.com/m-mizutani/newsdesk/pkg/controller/http"
	"github.com/m-mizutani/newsdesk/pkg/controller/scheduler"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		a         app
		serverCfg config.Server
	)

	flags := append(serverCfg.Flags(), a.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run the pipeline on a schedule and serve the HTTP trigger",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting newsdesk server",
				slog.String("addr", serverCfg.Addr),
				slog.String("schedule", serverCfg.Schedule),
				slog.String("workspace", a.workspace.Dir),
			)

			comps, err := a.build(ctx)
			if err != nil {
				return err
			}
			defer comps.Close(ctx)

			pipelineUC := a.pipeline(comps)

			sched, err := scheduler.New(ctx, serverCfg.Schedule, pipelineUC)
			if err != nil {
				return err
			}

			server, err := controller.NewServer(
				ctx,
				pipelineUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithDispatchSecret(serverCfg.DispatchSecret),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}
			if serverCfg.DispatchSecret == "" {
				logger.Warn("Dispatch secret is not set, POST /dispatch is disabled")
			}

			sched.Start()
			logger.Info("Scheduler started", slog.Time("next_run", sched.Next()))

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), serverCfg.ShutdownTimeout)
			defer cancel()

			// Shutdown also waits for runs started by POST /dispatch, so the
			// components are closed only after every run has returned.
			serverErr := server.Shutdown(shutdownCtx)
			if err := sched.Stop(shutdownCtx); err != nil {
				return err
			}
			if serverErr != nil {
				return goerr.Wrap(serverErr, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
