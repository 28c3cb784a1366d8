package game

import "errors"

var (
	// ErrInvalidAction is returned when a payload is outside the closed
	// action union.
	ErrInvalidAction = errors.New("invalid action")

	// ErrNotYourTurn is returned when an action arrives for the wrong
	// seat or out of turn. The host treats it as a silent no-op.
	ErrNotYourTurn = errors.New("not your turn")

	// ErrHandOver is returned when an action arrives after the hand
	// settled.
	ErrHandOver = errors.New("hand is over")

	// ErrIllegalAction is returned when the action kind is not legal in
	// the current round state (e.g. check facing a bet).
	ErrIllegalAction = errors.New("action not legal now")

	// ErrCannotShow is returned for a show-hand request by a seat that
	// is not eligible or has already shown.
	ErrCannotShow = errors.New("seat cannot show")

	// ErrMatchOver is returned once either stack is felted; the match is
	// frozen permanently.
	ErrMatchOver = errors.New("match is over")

	// ErrHandInProgress is returned when a new hand is requested before
	// the current one settled.
	ErrHandInProgress = errors.New("hand still in progress")
)
