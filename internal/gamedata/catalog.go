package gamedata

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/samdwyer/pokebattle/internal/entity"
)

// Catalog is the embedded creature provider.
type Catalog struct {
	species *SpeciesRegistry
	moves   *MoveRegistry
	types   *TypeRegistry

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewCatalog loads the embedded data and checks that every species only
// references known moves. rng drives Random.
func NewCatalog(rng *rand.Rand) (*Catalog, error) {
	species, err := LoadSpeciesRegistry()
	if err != nil {
		return nil, err
	}
	moves, err := LoadMoveRegistry()
	if err != nil {
		return nil, err
	}
	types, err := LoadTypeRegistry()
	if err != nil {
		return nil, err
	}

	for _, s := range species.All() {
		if len(s.Moves) == 0 || len(s.Moves) > entity.MaxMoves {
			return nil, fmt.Errorf("species %s has %d moves", s.ID, len(s.Moves))
		}
		for _, id := range s.Moves {
			if moves.GetByID(id) == nil {
				return nil, fmt.Errorf("species %s references unknown move %q", s.ID, id)
			}
		}
	}

	return &Catalog{species: species, moves: moves, types: types, rng: rng}, nil
}

// Types returns the type registry for rendering.
func (c *Catalog) Types() *TypeRegistry {
	return c.types
}

// Species returns the species registry.
func (c *Catalog) Species() *SpeciesRegistry {
	return c.species
}

// Creature builds a fresh battle creature for a species id.
func (c *Catalog) Creature(id string) (*entity.Creature, error) {
	s := c.species.GetByID(id)
	if s == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpecies, id)
	}
	return c.newCreature(s), nil
}

func (c *Catalog) newCreature(s *SpeciesDef) *entity.Creature {
	moves := make([]*entity.Move, 0, len(s.Moves))
	for _, m := range c.moves.GetMultiple(s.Moves) {
		moves = append(moves, m.NewMove())
	}
	return &entity.Creature{
		ID:      s.ID,
		Name:    s.Name,
		Types:   append([]string(nil), s.Types...),
		MaxHP:   s.HP,
		HP:      s.HP,
		Attack:  s.Attack,
		Defense: s.Defense,
		Speed:   s.Speed,
		Moves:   moves,
		Sprite:  s.SpriteURL(),
	}
}

// Roster implements Provider.
func (c *Catalog) Roster(ctx context.Context, side entity.Side, ids []string) (*entity.Roster, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%s roster: no species requested", side)
	}
	if len(ids) > entity.MaxTeamSize {
		return nil, fmt.Errorf("%s roster: %d species requested, max %d", side, len(ids), entity.MaxTeamSize)
	}
	team := make([]*entity.Creature, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		creature, err := c.Creature(id)
		if err != nil {
			return nil, fmt.Errorf("%s roster: %w", side, err)
		}
		team = append(team, creature)
	}
	return entity.NewRoster(side, team), nil
}

// Random implements Provider.
func (c *Catalog) Random(ctx context.Context, n int) ([]*entity.Creature, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid count %d", n)
	}
	c.mu.Lock()
	picks := c.species.SampleRandom(c.rng, n)
	c.mu.Unlock()

	result := make([]*entity.Creature, 0, len(picks))
	for _, s := range picks {
		result = append(result, c.newCreature(s))
	}
	return result, nil
}
