package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/contractcheck/internal/core"
	"github.com/JonMunkholm/contractcheck/internal/metrics"
	"github.com/JonMunkholm/contractcheck/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve reports and validate contracts on demand",
	Long: `Start the report server.

Routes:
  GET  /                     stored reports
  GET  /reports/{name}       one report as HTML
  GET  /api/reports[/{name}] reports as JSON
  POST /api/validate/{file}  validate a contract from the contract directory
  GET  /metrics              Prometheus metrics
  GET  /healthz              validation capacity`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := newApp(ctx, cfg, core.WithRecorder(metrics.NewRecorder(reg)))
	if err != nil {
		return err
	}
	defer a.Close()

	limiter := core.NewValidationLimiter(cfg.Workers.MaxConcurrent, cfg.Workers.MaxWaitTime)
	server := web.NewServer(cfg.Server, web.Deps{
		Checker:   a.checker,
		Reports:   a.issues,
		Publisher: a.publisher,
		Limiter:   limiter,
		Gatherer:  reg,
		Timeout:   cfg.Workers.Timeout,
	})

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := limiter.Status(); status.Active > 0 {
			slog.Info("waiting for validations to complete", "active", status.Active)
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("server stopped")
	return nil
}
