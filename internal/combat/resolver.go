// Package combat provides the move resolution rules for creature battles:
// accuracy, damage, type effectiveness, critical hits and the automated
// opponent's move selection.
package combat

import (
	"math"

	"github.com/samdwyer/pokebattle/internal/entity"
)

const (
	// critSides is the die rolled for a critical hit; a 1 crits.
	critSides = 16
	// critMultiplier is applied after the type multiplier.
	critMultiplier = 1.5
)

// Outcome describes the result of one move.
type Outcome struct {
	Attacker      string  `json:"attacker"`
	Defender      string  `json:"defender"`
	Move          string  `json:"move"`
	Hit           bool    `json:"isHit"`
	Damage        int     `json:"damage"`
	Critical      bool    `json:"isCritical"`
	Effectiveness float64 `json:"effectiveness"`
	TargetFainted bool    `json:"targetFainted"`
	Status        bool    `json:"isStatus,omitempty"` // Power-0 move
}

// Resolver applies moves between two creatures.
//
// Every resolved attempt spends exactly one use of the move, whether it
// hits or misses; uses never drop below zero.
type Resolver struct {
	rng RandomSource
}

// NewResolver creates a resolver drawing rolls from rng.
func NewResolver(rng RandomSource) *Resolver {
	return &Resolver{rng: rng}
}

// Resolve executes move from attacker against defender, mutating the
// defender's HP and the move's remaining uses.
func (r *Resolver) Resolve(attacker, defender *entity.Creature, move *entity.Move) Outcome {
	out := Outcome{
		Attacker:      attacker.Name,
		Defender:      defender.Name,
		Move:          move.Name,
		Effectiveness: Neutral,
		Status:        move.IsStatus(),
	}
	defer move.Spend()

	if roll(r.rng, 100) > move.Accuracy {
		return out
	}
	out.Hit = true

	if move.IsStatus() {
		return out
	}

	damage := BaseDamage(move.Power, attacker.Attack, defender.Defense)

	out.Effectiveness = Effectiveness(move.Type, defender.Types)
	damage = int(math.Floor(float64(damage) * out.Effectiveness))

	if roll(r.rng, critSides) == 1 {
		damage = int(math.Floor(float64(damage) * critMultiplier))
		out.Critical = true
	}

	out.Damage = defender.TakeDamage(damage)
	out.TargetFainted = !defender.IsAlive()
	return out
}

// BaseDamage computes floor(power*attack/defense*0.5)+1. Defense must be positive.
func BaseDamage(power, attack, defense int) int {
	return int(math.Floor(float64(power)*float64(attack)/float64(defense)*0.5)) + 1
}

// ExpectedDamage estimates the damage of move against defender without
// rolling, weighting by accuracy. Used by policies for previews.
func ExpectedDamage(attacker, defender *entity.Creature, move *entity.Move) float64 {
	if move == nil || move.IsStatus() {
		return 0
	}
	base := float64(BaseDamage(move.Power, attacker.Attack, defender.Defense))
	return base * Effectiveness(move.Type, defender.Types) * float64(move.Accuracy) / 100
}
