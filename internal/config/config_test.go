package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.DataSource != SourceCatalog {
		t.Errorf("DataSource = %q, want catalog", cfg.DataSource)
	}
	if cfg.Policy != "random" || cfg.ReplyOnSwitch || cfg.Seed != 0 {
		t.Errorf("engine defaults = %q/%v/%d", cfg.Policy, cfg.ReplyOnSwitch, cfg.Seed)
	}
	if cfg.PokeAPITimeout != 10*time.Second || cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("timeouts = %v/%v", cfg.PokeAPITimeout, cfg.ShutdownTimeout)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("POKEBATTLE_ADDR", ":9999")
	t.Setenv("POKEBATTLE_DATA_SOURCE", "pokeapi")
	t.Setenv("POKEBATTLE_POLICY", "greedy")
	t.Setenv("POKEBATTLE_REPLY_ON_SWITCH", "true")
	t.Setenv("POKEBATTLE_SEED", "42")
	t.Setenv("POKEBATTLE_LOG_FORMAT", "console")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr != ":9999" || cfg.DataSource != SourcePokeAPI || cfg.Policy != "greedy" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.ReplyOnSwitch || cfg.Seed != 42 || cfg.LogFormat != "console" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("POKEBATTLE_SEED", "not-an-int")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		DataSource:      SourceCatalog,
		Policy:          "random",
		LogFormat:       "json",
		PokeAPITimeout:  time.Second,
		ShutdownTimeout: time.Second,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown source", func(c *Config) { c.DataSource = "sqlite" }},
		{"unknown policy", func(c *Config) { c.Policy = "minimax" }},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }},
		{"zero pokeapi timeout", func(c *Config) { c.PokeAPITimeout = 0 }},
		{"negative shutdown timeout", func(c *Config) { c.ShutdownTimeout = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() expected error")
			}
		})
	}
}
