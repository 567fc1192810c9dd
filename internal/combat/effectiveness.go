package combat

// Multipliers used by the type chart.
const (
	Immune           = 0.0
	NotVeryEffective = 0.5
	Neutral          = 1.0
	SuperEffective   = 2.0
)

// typeChart maps an attacking type to its non-neutral matchups.
// Unlisted attackers and defenders are neutral. Read-only after init.
var typeChart = map[string]map[string]float64{
	"normal": {
		"rock":  NotVeryEffective,
		"ghost": Immune,
	},
	"fire": {
		"grass": SuperEffective,
		"ice":   SuperEffective,
		"water": NotVeryEffective,
		"fire":  NotVeryEffective,
		"rock":  NotVeryEffective,
	},
	"water": {
		"fire":   SuperEffective,
		"ground": SuperEffective,
		"rock":   SuperEffective,
		"grass":  NotVeryEffective,
		"water":  NotVeryEffective,
	},
	"grass": {
		"water":  SuperEffective,
		"ground": SuperEffective,
		"rock":   SuperEffective,
		"fire":   NotVeryEffective,
		"grass":  NotVeryEffective,
		"flying": NotVeryEffective,
	},
	"electric": {
		"water":    SuperEffective,
		"flying":   SuperEffective,
		"grass":    NotVeryEffective,
		"electric": NotVeryEffective,
		"ground":   Immune,
	},
	"ground": {
		"fire":     SuperEffective,
		"electric": SuperEffective,
		"rock":     SuperEffective,
		"grass":    NotVeryEffective,
		"flying":   Immune,
	},
	"flying": {
		"grass":    SuperEffective,
		"electric": NotVeryEffective,
		"rock":     NotVeryEffective,
	},
	"rock": {
		"fire":   SuperEffective,
		"ice":    SuperEffective,
		"flying": SuperEffective,
		"ground": NotVeryEffective,
	},
	"ice": {
		"grass":  SuperEffective,
		"ground": SuperEffective,
		"flying": SuperEffective,
		"fire":   NotVeryEffective,
		"water":  NotVeryEffective,
		"ice":    NotVeryEffective,
	},
	"ghost": {
		"ghost":  SuperEffective,
		"normal": Immune,
	},
}

// Effectiveness returns the damage multiplier of an attack type against a
// defender's types. Dual types compound multiplicatively.
func Effectiveness(attackType string, defenderTypes []string) float64 {
	multiplier := Neutral
	matchups, ok := typeChart[attackType]
	if !ok {
		return multiplier
	}
	for _, t := range defenderTypes {
		if m, ok := matchups[t]; ok {
			multiplier *= m
		}
	}
	return multiplier
}

// Describe returns the battle log phrase for a multiplier, or "" when neutral.
func Describe(multiplier float64) string {
	switch {
	case multiplier == Immune:
		return "It had no effect."
	case multiplier > Neutral:
		return "It's super effective!"
	case multiplier < Neutral:
		return "It's not very effective..."
	default:
		return ""
	}
}
