package config

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/samdwyer/pokebattle/internal/combat"
	"github.com/samdwyer/pokebattle/internal/gamedata"
	"github.com/samdwyer/pokebattle/internal/pokeapi"
)

func TestProvider(t *testing.T) {
	tests := []struct {
		source string
		check  func(gamedata.Provider) bool
	}{
		{SourceCatalog, func(p gamedata.Provider) bool { _, ok := p.(*gamedata.Catalog); return ok }},
		{SourcePokeAPI, func(p gamedata.Provider) bool { _, ok := p.(*pokeapi.Client); return ok }},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			cfg := Config{DataSource: tt.source, PokeAPIBaseURL: "http://localhost:1", Seed: 3}
			p, err := cfg.Provider(zerolog.Nop())
			if err != nil {
				t.Fatalf("Provider() error = %v", err)
			}
			if !tt.check(p) {
				t.Errorf("Provider() = %T", p)
			}
		})
	}
}

func TestRegistryOptions(t *testing.T) {
	cfg := Config{Policy: "greedy", ReplyOnSwitch: true, Seed: 9}
	opts, err := cfg.RegistryOptions(zerolog.Nop())
	if err != nil {
		t.Fatalf("RegistryOptions() error = %v", err)
	}
	if _, ok := opts.Policy.(combat.GreedyPolicy); !ok {
		t.Errorf("Policy = %T, want GreedyPolicy", opts.Policy)
	}
	if !opts.ReplyOnSwitch || opts.Seed != 9 {
		t.Errorf("opts = %+v", opts)
	}

	if _, err := (Config{Policy: "psychic"}).RegistryOptions(zerolog.Nop()); err == nil {
		t.Error("expected error for unknown policy")
	}
}
