package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"budgetchat/internal/chat"
	"budgetchat/internal/echo"
	"budgetchat/internal/means"
	"budgetchat/internal/primetime"
)

type service interface {
	Start() error
	Stop()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	var services []service
	if cfg.ChatAddr != "" {
		services = append(services, chat.NewServer(cfg.ChatAddr, cfg.BusDepth, logger))
	}
	if cfg.EchoAddr != "" {
		services = append(services, echo.NewServer(cfg.EchoAddr, logger))
	}
	if cfg.PrimeAddr != "" {
		services = append(services, primetime.NewServer(cfg.PrimeAddr, logger))
	}
	if cfg.MeansAddr != "" {
		services = append(services, means.NewServer(cfg.MeansAddr, logger))
	}
	if len(services) == 0 {
		return errors.New("all services disabled")
	}

	started := make([]service, 0, len(services))
	for _, s := range services {
		if err := s.Start(); err != nil {
			for _, t := range started {
				t.Stop()
			}
			return fmt.Errorf("start service: %w", err)
		}
		started = append(started, s)
	}

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		logger.Info("metrics endpoint started", "addr", cfg.MetricsAddr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down")
	for _, s := range started {
		s.Stop()
	}
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(context.Background())
	}
	logger.Info("shutdown complete")
	return nil
}
