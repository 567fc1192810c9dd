package gamedata

import "fmt"

// spriteURLFormat points at the public sprite set indexed by species id.
const spriteURLFormat = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/%s.png"

// SpeciesDef defines a creature species loaded from YAML.
type SpeciesDef struct {
	ID      string   `yaml:"id"`      // Unique identifier (national dex number)
	Name    string   `yaml:"name"`    // Display name (e.g., "Bulbasaur")
	Types   []string `yaml:"types"`   // One or two elemental types
	HP      int      `yaml:"hp"`      // Base hit points
	Attack  int      `yaml:"attack"`  // Base attack
	Defense int      `yaml:"defense"` // Base defense
	Speed   int      `yaml:"speed"`   // Base speed
	Moves   []string `yaml:"moves"`   // Move IDs, at most four
	Sprite  string   `yaml:"sprite,omitempty"`
}

// SpriteURL returns the sprite reference for the species.
func (s *SpeciesDef) SpriteURL() string {
	if s.Sprite != "" {
		return s.Sprite
	}
	return fmt.Sprintf(spriteURLFormat, s.ID)
}

// SpeciesFile represents the structure of species.yaml.
type SpeciesFile struct {
	Species []SpeciesDef `yaml:"species"`
}

// LoadSpecies loads species definitions from the embedded species.yaml file.
func LoadSpecies() ([]SpeciesDef, error) {
	file, err := Load[SpeciesFile]("species.yaml")
	if err != nil {
		return nil, err
	}
	return file.Species, nil
}
