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
	"time"

	"github.com/NaanProphet/sanscript/internal/health"
	"github.com/NaanProphet/sanscript/internal/logger"
	"github.com/NaanProphet/sanscript/internal/schemes"
	"github.com/NaanProphet/sanscript/internal/transliteration"
	"github.com/NaanProphet/sanscript/internal/web"
	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
	slog.Info("exiting without error")
}

func mainE() error {
	_ = godotenv.Load()

	fs := ff.NewFlagSet("sanscript-web")

	var (
		port        = fs.IntLong("port", 3000, "HTTP server port")
		metricsPort = fs.IntLong("metrics-port", 9090, "Prometheus metrics port")
		healthPort  = fs.IntLong("health-port", 8081, "health check port")
		schemesDir  = fs.StringLong("schemes-dir", "", "directory of extra scheme *.yaml files")
		rateLimit   = fs.IntLong("rate-limit", 60, "POST requests allowed per client IP per window")
		rateWindow  = fs.DurationLong("rate-window", time.Minute, "rate limit window")
		maxBatch    = fs.IntLong("max-batch", 100, "maximum texts per batch request")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVars()); err != nil {
		fmt.Printf("%s\n", ffhelp.Flags(fs))
		return fmt.Errorf("parsing flags: %w", err)
	}

	log := logger.New()

	reg, err := schemes.NewRegistry()
	if err != nil {
		return fmt.Errorf("loading built-in schemes: %w", err)
	}
	if *schemesDir != "" {
		if err := schemes.LoadDir(reg, *schemesDir); err != nil {
			return fmt.Errorf("loading schemes from %s: %w", *schemesDir, err)
		}
	}
	log.Info("schemes loaded", "count", len(reg.Names()))

	tr := transliteration.New(reg, transliteration.WithLogger(log))

	router := web.NewRouter(tr, log, web.Config{
		RateLimit:  *rateLimit,
		RateWindow: *rateWindow,
		MaxBatch:   *maxBatch,
	})
	defer router.Close()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", *metricsPort),
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	healthServer := health.New(*healthPort, map[string]health.Check{
		"schemes": func(context.Context) error {
			if len(tr.Schemes()) == 0 {
				return errors.New("no schemes registered")
			}
			return nil
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.InfoContext(ctx, "starting web server", "port", *port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		log.InfoContext(ctx, "starting metrics server", "port", *metricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(healthServer.Start)

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down gracefully", "cause", context.Cause(ctx))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return errors.Join(
			server.Shutdown(shutdownCtx),
			metricsServer.Shutdown(shutdownCtx),
			healthServer.Shutdown(shutdownCtx),
		)
	})

	return g.Wait()
}
