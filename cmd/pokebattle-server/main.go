// Package main runs the battle HTTP and websocket server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/samdwyer/pokebattle/internal/config"
	"github.com/samdwyer/pokebattle/internal/game"
	"github.com/samdwyer/pokebattle/internal/logging"
	"github.com/samdwyer/pokebattle/internal/server"
	"github.com/samdwyer/pokebattle/internal/telemetry"
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, telemetry.Settings{Endpoint: cfg.OTLPEndpoint, ServiceName: "pokebattle-server"})
	if err != nil {
		logger.Warn().Err(err).Msg("telemetry setup failed, running without tracing")
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("telemetry shutdown failed")
			}
		}()
	}

	provider, err := cfg.Provider(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("roster provider")
	}
	opts, err := cfg.RegistryOptions(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("battle options")
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.New(game.NewRegistry(opts), provider, logger).Handler(),
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.Addr).
			Str("data_source", cfg.DataSource).
			Str("policy", cfg.Policy).
			Bool("tracing", cfg.OTLPEndpoint != "").
			Msg("server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
}
