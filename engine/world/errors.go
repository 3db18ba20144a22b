package world

import "errors"

// Inventory-rule failures. Verb handlers turn these into one-line reports.
var (
	ErrTooHeavy      = errors.New("too heavy")
	ErrFull          = errors.New("no room")
	ErrClosed        = errors.New("closed")
	ErrLocked        = errors.New("locked")
	ErrUnlocked      = errors.New("already unlocked")
	ErrAlreadyOpen   = errors.New("already open")
	ErrAlreadyClosed = errors.New("already closed")
	ErrWrongKey      = errors.New("wrong key")
	ErrNotLockable   = errors.New("has no lock")
	ErrFixed         = errors.New("fixed in place")
	ErrNoHands       = errors.New("no hands")
	ErrNotEquipped   = errors.New("not equipped")
	ErrNotHeld       = errors.New("not held")
)

// InvariantError reports a broken model invariant: a tether loop, an
// identity collision or a missing link target. It is a bug, never a
// player mistake.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string { return "invariant violated: " + e.Msg }
