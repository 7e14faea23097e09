// cmd/devapi/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/frontdesk-hq/frontdesk/internal/api"
	"github.com/frontdesk-hq/frontdesk/internal/config"
	"github.com/frontdesk-hq/frontdesk/internal/db"
	"github.com/frontdesk-hq/frontdesk/internal/devapi"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to the YAML configuration")
		seed       = flag.Bool("seed", false, "Insert sample businesses when the database is empty")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if cfg.DevAPI.Port == 0 {
		log.Fatal().Msg("devapi.port is not configured")
	}

	database, err := db.NewFromConfig(cfg.DevAPI.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open devapi database")
	}
	defer database.Close()

	store := devapi.NewStore(database)
	if *seed {
		if err := devapi.Seed(context.Background(), store, uuid.NewString, time.Now()); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed devapi database")
		}
		log.Info().Msg("Seed data ready")
	}

	server := &http.Server{
		Addr: ":" + strconv.Itoa(cfg.DevAPI.Port),
		Handler: api.ChainMiddleware(
			devapi.NewServer(store).Routes(),
			api.WithLogging,
			api.WithRecovery,
			api.WithRequestID,
		),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Int("port", cfg.DevAPI.Port).Str("database", cfg.DevAPI.Database.Filename).Msg("Starting devapi")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("devapi server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()

		log.Info().Msg("Shutting down devapi")
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("devapi terminated with error")
		os.Exit(1)
	}
}
