// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/samdwyer/pokebattle/internal/combat"
)

// Data sources for new rosters.
const (
	SourceCatalog = "catalog"
	SourcePokeAPI = "pokeapi"
)

// Config holds settings shared by the server and the terminal client.
type Config struct {
	Addr            string        `env:"POKEBATTLE_ADDR"             envDefault:":8080"`
	DataSource      string        `env:"POKEBATTLE_DATA_SOURCE"      envDefault:"catalog"`
	PokeAPIBaseURL  string        `env:"POKEBATTLE_POKEAPI_URL"      envDefault:"https://pokeapi.co/api/v2"`
	PokeAPITimeout  time.Duration `env:"POKEBATTLE_POKEAPI_TIMEOUT"  envDefault:"10s"`
	Policy          string        `env:"POKEBATTLE_POLICY"           envDefault:"random"`
	ReplyOnSwitch   bool          `env:"POKEBATTLE_REPLY_ON_SWITCH"`
	Seed            int64         `env:"POKEBATTLE_SEED"` // 0 = fresh seed per battle
	LogLevel        string        `env:"POKEBATTLE_LOG_LEVEL"        envDefault:"info"`
	LogFormat       string        `env:"POKEBATTLE_LOG_FORMAT"       envDefault:"json"`
	LogFile         string        `env:"POKEBATTLE_LOG_FILE"` // terminal client only
	ShutdownTimeout time.Duration `env:"POKEBATTLE_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"` // empty disables tracing
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown enum values and non-positive durations.
func (c Config) Validate() error {
	switch c.DataSource {
	case SourceCatalog, SourcePokeAPI:
	default:
		return fmt.Errorf("POKEBATTLE_DATA_SOURCE: unknown source %q", c.DataSource)
	}
	if _, err := combat.PolicyByName(c.Policy); err != nil {
		return fmt.Errorf("POKEBATTLE_POLICY: %w", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		return fmt.Errorf("POKEBATTLE_LOG_FORMAT: unknown format %q", c.LogFormat)
	}
	if c.PokeAPITimeout <= 0 {
		return fmt.Errorf("POKEBATTLE_POKEAPI_TIMEOUT must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("POKEBATTLE_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}
