// cmd/web/main.go
//
// Forms gateway – HTTP entry point.
//
// Request life-cycle
// ------------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Load typed configuration (YAML + env overlay, Vault references
//     resolved, validated).
//
//  4. Build the provider clients (Mailgun, Zoom, CAPTCHA) and compose the
//     submission pipeline.
//
//  5. Expose Prometheus /metrics on its own listener, build the gateway
//     router, and serve both under one errgroup with graceful shutdown on
//     SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/virtualscienceforum/forms/internal/captcha"
	"github.com/virtualscienceforum/forms/internal/config"
	"github.com/virtualscienceforum/forms/internal/forms"
	"github.com/virtualscienceforum/forms/internal/logger"
	"github.com/virtualscienceforum/forms/internal/mailer"
	"github.com/virtualscienceforum/forms/internal/mailgun"
	"github.com/virtualscienceforum/forms/internal/server"
	"github.com/virtualscienceforum/forms/internal/web"
	"github.com/virtualscienceforum/forms/internal/zoom"
)

const (
	serverEnvPath = "/usr/local/etc/vsf-forms/global.env"
	metricsAddr   = ":9090"
)

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	//
	// ── 1.  Configuration ───────────────────────────────────────────────
	//
	cfg, err := config.Load(ctx)
	if err != nil {
		logOut.Fatalf("load config: %v", err)
	}

	//
	// ── 2.  Provider clients and pipeline ───────────────────────────────
	//
	mg := mailgun.New(cfg.Mailgun.BaseURL, cfg.Mailgun.Domain, cfg.Mailgun.APIKey)

	pipeline := &forms.Pipeline{
		Captcha:  captcha.New(cfg.Captcha.BaseURL, cfg.Captcha.Secret),
		Lists:    mg,
		Meetings: zoom.New(cfg.Zoom.BaseURL, cfg.Zoom.MeetingID, cfg.Zoom.APIKey, cfg.Zoom.APISecret),
		Mailer:   mailer.New(mg, cfg.Mailgun.From),
	}

	//
	// ── 3.  Servers: gateway + metrics ──────────────────────────────────
	//
	gateway := server.New(cfg.HTTP.ListenAddr, web.NewRouter(pipeline, cfg.HTTP.AllowedOrigins))

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := server.New(metricsAddr, metricsMux)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logOut.Infow("gateway listening", "addr", cfg.HTTP.ListenAddr)
		if err := gateway.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logOut.Infow("metrics listening", "addr", metricsAddr)
		if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
		return gateway.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logOut.Fatalf("gateway: %v", err)
	}
	logOut.Infow("gateway stopped")
}
