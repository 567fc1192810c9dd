package gamedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// TypeDef defines an elemental type's display attributes.
type TypeDef struct {
	ID    string `yaml:"id"`    // Type key used by moves and species (e.g., "fire")
	Name  string `yaml:"name"`  // Display name
	Color string `yaml:"color"` // Hex color code (e.g., "#F08030")
}

// TCellColor returns the color as a tcell.Color.
func (t *TypeDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(t.Color)
	if err != nil {
		return tcell.ColorWhite
	}
	return color
}

// TypesFile represents the structure of types.yaml.
type TypesFile struct {
	Types []TypeDef `yaml:"types"`
}

// LoadTypes loads type definitions from the embedded types.yaml file.
func LoadTypes() ([]TypeDef, error) {
	file, err := Load[TypesFile]("types.yaml")
	if err != nil {
		return nil, err
	}
	return file.Types, nil
}

// ParseHexColor converts a hex color string (e.g., "#FF0000" or "FF0000") to a tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	hex = strings.TrimPrefix(hex, "#")

	if len(hex) != 6 {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color length: %s", hex)
	}

	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color %s: %w", hex, err)
	}

	return tcell.NewHexColor(int32(rgb)), nil
}
