// Package entity provides the battle roster model: creatures, their moves and the parties that field them.
package entity

// Move is a usable action with a finite use budget.
type Move struct {
	Name          string `json:"name"`
	Power         int    `json:"power"`    // 0 for status moves
	Accuracy      int    `json:"accuracy"` // 1-100
	Type          string `json:"type"`
	MaxUses       int    `json:"maxUses"`
	RemainingUses int    `json:"remainingUses"`
}

// IsStatus returns true for moves that never deal damage.
func (m *Move) IsStatus() bool { return m.Power == 0 }

// Spend consumes one use, never going below zero.
func (m *Move) Spend() {
	if m.RemainingUses > 0 {
		m.RemainingUses--
	}
}

// Creature is a single combatant in a roster.
type Creature struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Types   []string `json:"types"`
	MaxHP   int      `json:"maxHp"`
	HP      int      `json:"currentHp"`
	Attack  int      `json:"attack"`
	Defense int      `json:"defense"`
	Speed   int      `json:"speed"`
	Moves   []*Move  `json:"moves"`
	Sprite  string   `json:"spriteUrl,omitempty"`
}

// IsAlive returns true if the creature has HP remaining.
func (c *Creature) IsAlive() bool { return c.HP > 0 }

// TakeDamage reduces HP and returns actual damage taken.
func (c *Creature) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if actual > c.HP {
		actual = c.HP
	}
	c.HP -= actual
	return actual
}

// Move returns the move in the given slot, or nil when out of range.
func (c *Creature) Move(index int) *Move {
	if index < 0 || index >= len(c.Moves) {
		return nil
	}
	return c.Moves[index]
}

// Clone returns a deep copy of the creature. Nil creatures and moves stay nil.
func (c *Creature) Clone() *Creature {
	if c == nil {
		return nil
	}
	out := *c
	out.Types = append([]string(nil), c.Types...)
	out.Moves = make([]*Move, len(c.Moves))
	for i, m := range c.Moves {
		if m == nil {
			continue
		}
		mv := *m
		out.Moves[i] = &mv
	}
	return &out
}
