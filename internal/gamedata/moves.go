package gamedata

import "github.com/samdwyer/pokebattle/internal/entity"

// MoveDef defines a move loaded from YAML.
type MoveDef struct {
	ID       string `yaml:"id"`       // Unique identifier (e.g., "ember")
	Name     string `yaml:"name"`     // Display name (e.g., "Ember")
	Type     string `yaml:"type"`     // Elemental type
	Power    int    `yaml:"power"`    // 0 for status moves
	Accuracy int    `yaml:"accuracy"` // Percent, 1..100
	PP       int    `yaml:"pp"`       // Uses per battle
}

// IsStatus reports whether the move deals no damage.
func (m *MoveDef) IsStatus() bool {
	return m.Power == 0
}

// NewMove returns a fresh battle move with a full use budget.
func (m *MoveDef) NewMove() *entity.Move {
	return &entity.Move{
		Name:          m.Name,
		Power:         m.Power,
		Accuracy:      m.Accuracy,
		Type:          m.Type,
		MaxUses:       m.PP,
		RemainingUses: m.PP,
	}
}

// MovesFile represents the structure of moves.yaml.
type MovesFile struct {
	Moves []MoveDef `yaml:"moves"`
}

// LoadMoves loads move definitions from the embedded moves.yaml file.
func LoadMoves() ([]MoveDef, error) {
	file, err := Load[MovesFile]("moves.yaml")
	if err != nil {
		return nil, err
	}
	return file.Moves, nil
}
