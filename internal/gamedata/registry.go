package gamedata

import (
	"errors"
	"math/rand"

	"github.com/gdamore/tcell/v2"
)

// SpeciesRegistry holds loaded species definitions and provides sampling utilities.
type SpeciesRegistry struct {
	species []SpeciesDef
	byID    map[string]*SpeciesDef
}

// NewSpeciesRegistry creates a registry from loaded species definitions.
func NewSpeciesRegistry(species []SpeciesDef) *SpeciesRegistry {
	r := &SpeciesRegistry{
		species: species,
		byID:    make(map[string]*SpeciesDef, len(species)),
	}
	for i := range species {
		r.byID[species[i].ID] = &species[i]
	}
	return r
}

// LoadSpeciesRegistry loads and creates a registry from the embedded species.yaml.
func LoadSpeciesRegistry() (*SpeciesRegistry, error) {
	species, err := LoadSpecies()
	if err != nil {
		return nil, err
	}
	if len(species) == 0 {
		return nil, errors.New("no species loaded from species.yaml")
	}
	return NewSpeciesRegistry(species), nil
}

// GetByID returns the species definition with the given ID, or nil if not found.
func (r *SpeciesRegistry) GetByID(id string) *SpeciesDef {
	return r.byID[id]
}

// SampleRandom picks n distinct species. n is capped at the registry size.
func (r *SpeciesRegistry) SampleRandom(rng *rand.Rand, n int) []*SpeciesDef {
	if n > len(r.species) {
		n = len(r.species)
	}
	if n <= 0 {
		return nil
	}
	result := make([]*SpeciesDef, 0, n)
	for _, i := range rng.Perm(len(r.species))[:n] {
		result = append(result, &r.species[i])
	}
	return result
}

// All returns all species definitions.
func (r *SpeciesRegistry) All() []SpeciesDef {
	return r.species
}

// Count returns the number of species in the registry.
func (r *SpeciesRegistry) Count() int {
	return len(r.species)
}

// =============================================================================
// MoveRegistry
// =============================================================================

// MoveRegistry holds loaded move definitions and provides lookup utilities.
type MoveRegistry struct {
	moves map[string]*MoveDef
	all   []MoveDef
}

// NewMoveRegistry creates a registry from loaded move definitions.
func NewMoveRegistry(moves []MoveDef) *MoveRegistry {
	registry := &MoveRegistry{
		moves: make(map[string]*MoveDef),
		all:   moves,
	}
	for i := range moves {
		registry.moves[moves[i].ID] = &moves[i]
	}
	return registry
}

// LoadMoveRegistry loads and creates a registry from the embedded moves.yaml.
func LoadMoveRegistry() (*MoveRegistry, error) {
	moves, err := LoadMoves()
	if err != nil {
		return nil, err
	}
	if len(moves) == 0 {
		return nil, errors.New("no moves loaded from moves.yaml")
	}
	return NewMoveRegistry(moves), nil
}

// GetByID returns the move definition with the given ID, or nil if not found.
func (r *MoveRegistry) GetByID(id string) *MoveDef {
	return r.moves[id]
}

// GetMultiple returns move definitions for a list of IDs.
// Missing IDs are silently skipped.
func (r *MoveRegistry) GetMultiple(ids []string) []*MoveDef {
	result := make([]*MoveDef, 0, len(ids))
	for _, id := range ids {
		if move := r.moves[id]; move != nil {
			result = append(result, move)
		}
	}
	return result
}

// Count returns the number of moves in the registry.
func (r *MoveRegistry) Count() int {
	return len(r.all)
}

// =============================================================================
// TypeRegistry
// =============================================================================

// TypeRegistry maps elemental types to display colors.
type TypeRegistry struct {
	types map[string]*TypeDef
}

// NewTypeRegistry creates a registry from loaded type definitions.
func NewTypeRegistry(types []TypeDef) *TypeRegistry {
	r := &TypeRegistry{types: make(map[string]*TypeDef, len(types))}
	for i := range types {
		r.types[types[i].ID] = &types[i]
	}
	return r
}

// LoadTypeRegistry loads and creates a registry from the embedded types.yaml.
func LoadTypeRegistry() (*TypeRegistry, error) {
	types, err := LoadTypes()
	if err != nil {
		return nil, err
	}
	return NewTypeRegistry(types), nil
}

// GetByID returns the type definition, or nil if not found.
func (r *TypeRegistry) GetByID(id string) *TypeDef {
	return r.types[id]
}

// Color returns the display color for a type; unknown types render white.
func (r *TypeRegistry) Color(id string) tcell.Color {
	if t := r.GetByID(id); t != nil {
		return t.TCellColor()
	}
	return tcell.ColorWhite
}
