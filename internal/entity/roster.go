package entity

import (
	"errors"
	"fmt"
)

// DefaultTeamSize is the conventional number of creatures per roster.
const DefaultTeamSize = 3

// MaxTeamSize bounds roster size on validation.
const MaxTeamSize = 6

// MaxMoves is the largest move list a creature may carry.
const MaxMoves = 4

// Roster is one side's party of creatures.
type Roster struct {
	Side   Side        `json:"side"`
	Team   []*Creature `json:"team"`
	Active int         `json:"activeIndex"`
}

// NewRoster creates a roster for the given side with the first creature active.
func NewRoster(side Side, team []*Creature) *Roster {
	return &Roster{
		Side:   side,
		Team:   team,
		Active: 0,
	}
}

// ActiveCreature returns the creature currently in play.
func (r *Roster) ActiveCreature() *Creature {
	if r.Active < 0 || r.Active >= len(r.Team) {
		return nil
	}
	return r.Team[r.Active]
}

// HasAliveCreature reports whether any team member can still fight.
func (r *Roster) HasAliveCreature() bool {
	for _, c := range r.Team {
		if c.IsAlive() {
			return true
		}
	}
	return false
}

// AliveCount returns the number of team members still alive.
func (r *Roster) AliveCount() int {
	count := 0
	for _, c := range r.Team {
		if c.IsAlive() {
			count++
		}
	}
	return count
}

// FirstAlive returns the index of the first living team member, or -1.
func (r *Roster) FirstAlive() int {
	for i, c := range r.Team {
		if c.IsAlive() {
			return i
		}
	}
	return -1
}

// TotalHP returns the sum of the team's current HP.
func (r *Roster) TotalHP() int {
	total := 0
	for _, c := range r.Team {
		total += c.HP
	}
	return total
}

// Clone returns a deep copy of the roster.
func (r *Roster) Clone() *Roster {
	if r == nil {
		return nil
	}
	out := &Roster{Side: r.Side, Active: r.Active, Team: make([]*Creature, len(r.Team))}
	for i, c := range r.Team {
		out.Team[i] = c.Clone()
	}
	return out
}

// Validate checks that a freshly loaded roster is fully populated.
func (r *Roster) Validate() error {
	if r == nil {
		return errors.New("roster is nil")
	}
	if len(r.Team) == 0 {
		return fmt.Errorf("%s roster is empty", r.Side)
	}
	if len(r.Team) > MaxTeamSize {
		return fmt.Errorf("%s roster has %d creatures, max %d", r.Side, len(r.Team), MaxTeamSize)
	}
	if r.Active < 0 || r.Active >= len(r.Team) {
		return fmt.Errorf("%s active index %d out of range", r.Side, r.Active)
	}
	for i, c := range r.Team {
		if err := validateCreature(c); err != nil {
			return fmt.Errorf("%s team[%d]: %w", r.Side, i, err)
		}
	}
	return nil
}

func validateCreature(c *Creature) error {
	if c == nil {
		return errors.New("creature is nil")
	}
	if len(c.Types) == 0 || len(c.Types) > 2 {
		return fmt.Errorf("%s has %d types", c.Name, len(c.Types))
	}
	if c.MaxHP <= 0 || c.HP != c.MaxHP {
		return fmt.Errorf("%s has hp %d/%d", c.Name, c.HP, c.MaxHP)
	}
	if c.Attack <= 0 || c.Defense <= 0 {
		return fmt.Errorf("%s has non-positive attack or defense", c.Name)
	}
	if len(c.Moves) == 0 || len(c.Moves) > MaxMoves {
		return fmt.Errorf("%s has %d moves", c.Name, len(c.Moves))
	}
	for _, m := range c.Moves {
		if m == nil {
			return fmt.Errorf("%s has a nil move", c.Name)
		}
		if m.Accuracy < 1 || m.Accuracy > 100 {
			return fmt.Errorf("%s: move %s accuracy %d", c.Name, m.Name, m.Accuracy)
		}
		if m.Power < 0 || m.MaxUses < 0 || m.RemainingUses != m.MaxUses {
			return fmt.Errorf("%s: move %s is not freshly loaded", c.Name, m.Name)
		}
	}
	return nil
}
