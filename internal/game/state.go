// Package game runs creature battles: the per-battle state machine and the
// registry that owns every battle in the process.
package game

import (
	"context"

	"github.com/looplab/fsm"
)

// Status represents the lifecycle stage of a battle.
type Status int

const (
	// StatusPending - rosters are not attached yet
	StatusPending Status = iota
	// StatusActive - turns proceed
	StatusActive
	// StatusConcluded - one side has no creature left; terminal
	StatusConcluded
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusActive:
		return "active"
	case StatusConcluded:
		return "concluded"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name; unknown names decode as pending.
func (s *Status) UnmarshalText(text []byte) error {
	*s = parseStatus(string(text))
	return nil
}

func parseStatus(name string) Status {
	switch name {
	case "active":
		return StatusActive
	case "concluded":
		return StatusConcluded
	default:
		return StatusPending
	}
}

// Lifecycle events.
const (
	eventActivate = "activate"
	eventConclude = "conclude"
)

// newLifecycle builds the pending -> active -> concluded machine. Every
// transition fires exactly once; onEnter observes the new status.
func newLifecycle(onEnter func(Status)) *fsm.FSM {
	return fsm.NewFSM(
		StatusPending.String(),
		fsm.Events{
			{Name: eventActivate, Src: []string{StatusPending.String()}, Dst: StatusActive.String()},
			{Name: eventConclude, Src: []string{StatusActive.String()}, Dst: StatusConcluded.String()},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				onEnter(parseStatus(e.Dst))
			},
		},
	)
}
