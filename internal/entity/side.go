package entity

// Side identifies one of the two parties in a battle.
type Side string

const (
	// SideChallenger is the human-controlled side; it always moves first.
	SideChallenger Side = "challenger"
	// SideOpponent is the automated side driven by a decision policy.
	SideOpponent Side = "opponent"
)

// Valid reports whether s names one of the two sides.
func (s Side) Valid() bool {
	return s == SideChallenger || s == SideOpponent
}

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == SideChallenger {
		return SideOpponent
	}
	return SideChallenger
}

// DisplayName returns the name used in battle log lines.
func (s Side) DisplayName() string {
	switch s {
	case SideChallenger:
		return "Player"
	case SideOpponent:
		return "CPU"
	default:
		return "Unknown"
	}
}

// ParseSide accepts the canonical names plus the "player"/"cpu" aliases used by clients.
func ParseSide(s string) (Side, bool) {
	switch s {
	case "challenger", "player":
		return SideChallenger, true
	case "opponent", "cpu":
		return SideOpponent, true
	default:
		return "", false
	}
}
