package combat

import (
	"fmt"
	"strings"

	"github.com/samdwyer/pokebattle/internal/entity"
)

// Policy picks the automated side's move.
// Implementations must return a valid index into attacker.Moves.
type Policy interface {
	ChooseMove(attacker, defender *entity.Creature, rng RandomSource) int
}

// Policy names accepted by PolicyByName.
const (
	PolicyRandom = "random"
	PolicyGreedy = "greedy"
)

// PolicyByName returns the policy registered under name.
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyRandom:
		return RandomPolicy{}, nil
	case PolicyGreedy:
		return GreedyPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown policy %q", name)
	}
}

// RandomPolicy picks uniformly among all move slots, ignoring uses, power and accuracy.
type RandomPolicy struct{}

// ChooseMove implements Policy.
func (RandomPolicy) ChooseMove(attacker, _ *entity.Creature, rng RandomSource) int {
	mustHaveMoves(attacker)
	return rng.Intn(len(attacker.Moves))
}

// GreedyPolicy picks the move with the highest expected damage against the
// defender, skipping exhausted moves while any others remain. Ties are
// broken at random.
type GreedyPolicy struct{}

// ChooseMove implements Policy.
func (GreedyPolicy) ChooseMove(attacker, defender *entity.Creature, rng RandomSource) int {
	mustHaveMoves(attacker)

	candidates := make([]int, 0, len(attacker.Moves))
	for i, m := range attacker.Moves {
		if m.RemainingUses > 0 {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return rng.Intn(len(attacker.Moves))
	}

	best := -1.0
	var bestIdx []int
	for _, i := range candidates {
		score := ExpectedDamage(attacker, defender, attacker.Moves[i])
		switch {
		case score > best:
			best = score
			bestIdx = []int{i}
		case score == best:
			bestIdx = append(bestIdx, i)
		}
	}
	if len(bestIdx) == 1 {
		return bestIdx[0]
	}
	return bestIdx[rng.Intn(len(bestIdx))]
}

// mustHaveMoves panics when a creature reaches a policy without moves;
// rosters are validated on load, so this is a programming error.
func mustHaveMoves(c *entity.Creature) {
	if c == nil || len(c.Moves) == 0 {
		panic("combat: policy invoked for creature without moves")
	}
}
