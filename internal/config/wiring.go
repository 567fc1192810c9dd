package config

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/samdwyer/pokebattle/internal/combat"
	"github.com/samdwyer/pokebattle/internal/game"
	"github.com/samdwyer/pokebattle/internal/gamedata"
	"github.com/samdwyer/pokebattle/internal/pokeapi"
)

// Provider builds the roster source named by DataSource.
func (c Config) Provider(logger zerolog.Logger) (gamedata.Provider, error) {
	rng, err := combat.NewRand(c.Seed)
	if err != nil {
		return nil, err
	}
	if c.DataSource == SourcePokeAPI {
		client := &http.Client{Timeout: c.PokeAPITimeout}
		return pokeapi.NewClient(c.PokeAPIBaseURL, client, rng, logger.With().Str("component", "pokeapi").Logger()), nil
	}
	catalog, err := gamedata.NewCatalog(rng)
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

// RegistryOptions returns the battle engine settings.
func (c Config) RegistryOptions(logger zerolog.Logger) (game.Options, error) {
	policy, err := combat.PolicyByName(c.Policy)
	if err != nil {
		return game.Options{}, err
	}
	return game.Options{
		Policy:        policy,
		ReplyOnSwitch: c.ReplyOnSwitch,
		Seed:          c.Seed,
		Logger:        logger.With().Str("component", "battle").Logger(),
	}, nil
}
