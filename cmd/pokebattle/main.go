// Package main is the entry point for the terminal battle client.
package main

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/samdwyer/pokebattle/internal/config"
	"github.com/samdwyer/pokebattle/internal/entity"
	"github.com/samdwyer/pokebattle/internal/game"
	"github.com/samdwyer/pokebattle/internal/gamedata"
	"github.com/samdwyer/pokebattle/internal/logging"
	"github.com/samdwyer/pokebattle/internal/telemetry"
	"github.com/samdwyer/pokebattle/internal/ui"
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

	// The terminal owns stdout and stderr while the battle runs, so
	// structured logs go to a file when one is named and are dropped otherwise.
	var logOut io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	logger, err := logging.New(logOut, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx, telemetry.Settings{Endpoint: cfg.OTLPEndpoint, ServiceName: "pokebattle"})
	if err != nil {
		log.Printf("Warning: telemetry setup failed: %v", err)
		log.Printf("Battle will run without observability")
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}

	provider, err := cfg.Provider(logger)
	if err != nil {
		log.Fatalf("Failed to load creature data: %v", err)
	}
	types, err := gamedata.LoadTypeRegistry()
	if err != nil {
		log.Fatalf("Failed to load type colors: %v", err)
	}
	opts, err := cfg.RegistryOptions(logger)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	registry := game.NewRegistry(opts)

	id, err := registry.CreateAsync(ctx, func(ctx context.Context) (*entity.Roster, *entity.Roster, error) {
		challenger, err := gamedata.RandomRoster(ctx, provider, entity.SideChallenger, entity.DefaultTeamSize)
		if err != nil {
			return nil, nil, err
		}
		opponent, err := gamedata.RandomRoster(ctx, provider, entity.SideOpponent, entity.DefaultTeamSize)
		if err != nil {
			return nil, nil, err
		}
		return challenger, opponent, nil
	})
	if err != nil {
		log.Fatalf("Failed to start battle: %v", err)
	}

	app, err := ui.NewApp(registry, id, types)
	if err != nil {
		log.Fatalf("Failed to initialize terminal: %v", err)
	}
	if err := app.Run(ctx); err != nil {
		log.Fatalf("Battle error: %v", err)
	}
}
