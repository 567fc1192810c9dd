package gamedata

import (
	"context"
	"errors"

	"github.com/samdwyer/pokebattle/internal/entity"
)

// ErrUnknownSpecies is returned when a requested id has no species.
var ErrUnknownSpecies = errors.New("unknown species")

// Provider supplies fully populated creatures for new battles.
type Provider interface {
	// Roster builds a team for side from species ids, in order.
	Roster(ctx context.Context, side entity.Side, ids []string) (*entity.Roster, error)
	// Random returns n distinct creatures for selection screens.
	Random(ctx context.Context, n int) ([]*entity.Creature, error)
}

// RandomRoster builds a team of n random creatures for side.
func RandomRoster(ctx context.Context, p Provider, side entity.Side, n int) (*entity.Roster, error) {
	team, err := p.Random(ctx, n)
	if err != nil {
		return nil, err
	}
	return entity.NewRoster(side, team), nil
}
