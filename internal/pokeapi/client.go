// Package pokeapi fetches creatures from a PokeAPI-compatible HTTP service.
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/samdwyer/pokebattle/internal/entity"
)

const (
	// DefaultBaseURL is the public PokeAPI v2 endpoint.
	DefaultBaseURL = "https://pokeapi.co/api/v2"

	// MaxSpeciesID is the highest id Random draws from.
	MaxSpeciesID = 1025

	// Substituted when the API reports no power or accuracy.
	defaultPower    = 40
	defaultAccuracy = 100
)

// ErrNotFound is returned when the API has no creature for an id.
var ErrNotFound = errors.New("pokeapi: not found")

// Client is a gamedata.Provider backed by PokeAPI.
type Client struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewClient creates a client. A nil httpClient uses http.DefaultClient; an
// empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, httpClient *http.Client, rng *rand.Rand, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
		logger:  logger,
		rng:     rng,
	}
}

// Creature fetches one creature and its first four moves.
func (c *Client) Creature(ctx context.Context, id string) (*entity.Creature, error) {
	var p pokemonResponse
	if err := c.get(ctx, c.baseURL+"/pokemon/"+id, &p); err != nil {
		return nil, fmt.Errorf("fetch creature %s: %w", id, err)
	}

	creature := &entity.Creature{
		ID:     strconv.Itoa(p.ID),
		Name:   displayName(p.Name),
		Sprite: p.Sprites.FrontDefault,
	}
	for _, t := range p.Types {
		creature.Types = append(creature.Types, t.Type.Name)
	}
	for _, s := range p.Stats {
		switch s.Stat.Name {
		case "hp":
			creature.MaxHP = s.BaseStat
			creature.HP = s.BaseStat
		case "attack":
			creature.Attack = s.BaseStat
		case "defense":
			creature.Defense = s.BaseStat
		case "speed":
			creature.Speed = s.BaseStat
		}
	}

	slots := p.Moves
	if len(slots) > entity.MaxMoves {
		slots = slots[:entity.MaxMoves]
	}
	for _, slot := range slots {
		creature.Moves = append(creature.Moves, c.move(ctx, slot.Move.URL))
	}
	if len(creature.Moves) == 0 {
		creature.Moves = append(creature.Moves, tackle())
	}
	return creature, nil
}

// move fetches a move, substituting Tackle when the fetch fails.
func (c *Client) move(ctx context.Context, url string) *entity.Move {
	var m moveResponse
	if err := c.get(ctx, url, &m); err != nil {
		c.logger.Warn().Err(err).Str("url", url).Msg("move fetch failed, using Tackle")
		return tackle()
	}

	move := &entity.Move{
		Name:          displayName(m.Name),
		Power:         defaultPower,
		Accuracy:      defaultAccuracy,
		Type:          m.Type.Name,
		MaxUses:       m.PP,
		RemainingUses: m.PP,
	}
	if m.Power != nil {
		move.Power = *m.Power
	}
	if m.Accuracy != nil {
		move.Accuracy = *m.Accuracy
	}
	return move
}

// Roster implements gamedata.Provider. Creatures are fetched in parallel;
// any failure fails the whole roster.
func (c *Client) Roster(ctx context.Context, side entity.Side, ids []string) (*entity.Roster, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%s roster: no species requested", side)
	}
	if len(ids) > entity.MaxTeamSize {
		return nil, fmt.Errorf("%s roster: %d species requested, max %d", side, len(ids), entity.MaxTeamSize)
	}

	team := make([]*entity.Creature, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			creature, err := c.Creature(gctx, id)
			if err != nil {
				return err
			}
			team[i] = creature
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s roster: %w", side, err)
	}
	return entity.NewRoster(side, team), nil
}

// Random implements gamedata.Provider. It draws distinct ids in
// 1..MaxSpeciesID and skips ids that fail to load, giving up after a
// bounded number of attempts.
func (c *Client) Random(ctx context.Context, n int) ([]*entity.Creature, error) {
	if n <= 0 || n > MaxSpeciesID {
		return nil, fmt.Errorf("invalid count %d", n)
	}

	used := make(map[int]bool, n)
	result := make([]*entity.Creature, 0, n)
	for attempts := 0; len(result) < n && attempts < 3*n; attempts++ {
		id := c.randomID(used)
		creature, err := c.Creature(ctx, strconv.Itoa(id))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn().Err(err).Int("id", id).Msg("skipping creature")
			continue
		}
		result = append(result, creature)
	}
	if len(result) < n {
		return nil, fmt.Errorf("fetched %d of %d random creatures", len(result), n)
	}
	return result, nil
}

func (c *Client) randomID(used map[int]bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		id := c.rng.Intn(MaxSpeciesID) + 1
		if !used[id] {
			used[id] = true
			return id
		}
	}
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%s returned %s", url, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// displayName turns "thunder-shock" into "Thunder Shock".
func displayName(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "-", " "))
}

func tackle() *entity.Move {
	return &entity.Move{Name: "Tackle", Power: 40, Accuracy: 100, Type: "normal", MaxUses: 35, RemainingUses: 35}
}

// =============================================================================
// Wire types
// =============================================================================

type pokemonResponse struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
	} `json:"sprites"`
	Types []struct {
		Slot int `json:"slot"`
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Stats []struct {
		BaseStat int `json:"base_stat"`
		Stat     struct {
			Name string `json:"name"`
		} `json:"stat"`
	} `json:"stats"`
	Moves []struct {
		Move struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"move"`
	} `json:"moves"`
}

type moveResponse struct {
	Name     string `json:"name"`
	Power    *int   `json:"power"`
	Accuracy *int   `json:"accuracy"`
	PP       int    `json:"pp"`
	Type     struct {
		Name string `json:"name"`
	} `json:"type"`
}
