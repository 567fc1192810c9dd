package game

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	KindNotFound         Kind = "NOT_FOUND"
	KindInvalidMove      Kind = "INVALID_MOVE"
	KindInvalidSwitch    Kind = "INVALID_SWITCH"
	KindRosterIncomplete Kind = "ROSTER_INCOMPLETE"
	KindConcluded        Kind = "BATTLE_CONCLUDED"
)

// Error is the typed failure returned by battle operations.
type Error struct {
	Kind     Kind   // Machine-readable category
	Message  string // Human-readable detail
	BattleID string
	Cause    error // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.BattleID != "" {
		msg = fmt.Sprintf("battle %s: %s", e.BattleID, msg)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound         = &Error{Kind: KindNotFound, Message: "battle not found"}
	ErrInvalidMove      = &Error{Kind: KindInvalidMove, Message: "invalid move"}
	ErrInvalidSwitch    = &Error{Kind: KindInvalidSwitch, Message: "invalid switch"}
	ErrRosterIncomplete = &Error{Kind: KindRosterIncomplete, Message: "rosters are not ready"}
	ErrConcluded        = &Error{Kind: KindConcluded, Message: "battle has concluded"}
)

func newError(kind Kind, battleID, format string, args ...any) *Error {
	return &Error{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		BattleID: battleID,
	}
}

func wrapError(kind Kind, battleID, message string, cause error) *Error {
	return &Error{
		Kind:     kind,
		Message:  message,
		BattleID: battleID,
		Cause:    cause,
	}
}

// KindOf returns the kind of a battle error, or "" for other errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
