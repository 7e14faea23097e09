// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/frontdesk-hq/frontdesk/internal/api/bookings"
	"github.com/frontdesk-hq/frontdesk/internal/api/businesses"
	"github.com/frontdesk-hq/frontdesk/internal/api/dashboard"
	"github.com/frontdesk-hq/frontdesk/internal/api/faqs"
	"github.com/frontdesk-hq/frontdesk/internal/api/nav"
	"github.com/frontdesk-hq/frontdesk/internal/api/services"
	"github.com/frontdesk-hq/frontdesk/internal/backend"
	"github.com/frontdesk-hq/frontdesk/internal/config"
	"github.com/frontdesk-hq/frontdesk/internal/health"
	"github.com/frontdesk-hq/frontdesk/internal/ratelimit"
	"github.com/frontdesk-hq/frontdesk/internal/scheduler"
	"github.com/frontdesk-hq/frontdesk/internal/templates"
	"github.com/frontdesk-hq/frontdesk/internal/templates/layouts"
)

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Features.EnableDebug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config/config.yaml"
}

func main() {
	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg)

	client := backend.New(cfg.Backend)
	apiHealth := health.NewStatus()

	templates.SetCurrency(cfg.Display.Currency)
	layouts.Configure(layouts.Options{AppName: cfg.App.Name, Health: apiHealth})

	importLimiter := ratelimit.New(&ratelimit.Config{
		Every: cfg.ImportInterval(),
		Burst: cfg.RateLimit.ImportBurst,
	})
	defer importLimiter.Close()

	dashboard.InitHandlers(client)
	nav.InitHandlers(client)
	businesses.InitHandlers(client, cfg.Display.PhoneRegion)
	services.InitHandlers(client)
	faqs.InitHandlers(client, importLimiter, cfg.App.TrustProxy)
	bookings.InitHandlers(client)

	if err := scheduler.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize scheduler")
	}
	if err := scheduler.RegisterHealthCheckJob(client, apiHealth, cfg.Scheduler.HealthCheckCron, cfg.Backend.Timeout()); err != nil {
		log.Fatal().Err(err).Msg("Failed to register backend health job")
	}
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	// Create server instance
	server := newServer(cfg, apiHealth)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Run server
	g.Go(func() error {
		log.Info().
			Int("port", cfg.App.Port).
			Str("backend", cfg.Backend.BaseURL).
			Str("environment", cfg.App.Environment).
			Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Wait for interrupt signal
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := scheduler.Stop(); err != nil {
			log.Warn().Err(err).Msg("Scheduler shutdown failed")
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
