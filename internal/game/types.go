// Package game implements the heads-up no-limit hold'em betting engine.
// All per-hand state lives in a Hand and is mutated only through Apply;
// callers never touch fields directly.
package game

import "fmt"

// Seat identifies one of the two players. The dealer role alternates
// between seats hand to hand.
type Seat int

const (
	SeatA Seat = 0
	SeatB Seat = 1

	// NoSeat is the absent value for optional seat fields
	NoSeat Seat = -1
)

// Other returns the opposing seat
func (s Seat) Other() Seat {
	if s == SeatA {
		return SeatB
	}
	return SeatA
}

// Valid reports whether s is a real seat
func (s Seat) Valid() bool {
	return s == SeatA || s == SeatB
}

// String returns the seat label
func (s Seat) String() string {
	switch s {
	case SeatA:
		return "A"
	case SeatB:
		return "B"
	default:
		return "none"
	}
}

// Street is the betting round, valued by how many board cards are
// exposed. It only ever moves forward within a hand.
type Street int

const (
	Preflop Street = 0
	Flop    Street = 3
	Turn    Street = 4
	River   Street = 5
)

// Next returns the street that follows s
func (s Street) Next() Street {
	switch s {
	case Preflop:
		return Flop
	case Flop:
		return Turn
	default:
		return River
	}
}

// BoardCards returns how many board cards are exposed on this street
func (s Street) BoardCards() int {
	return int(s)
}

func (s Street) String() string {
	switch s {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	default:
		return "unknown"
	}
}

// ActionKind discriminates the closed set of player actions
type ActionKind string

const (
	ActionFold     ActionKind = "fold"
	ActionCheck    ActionKind = "check"
	ActionCall     ActionKind = "call"
	ActionBetRaise ActionKind = "bet_raise"
)

// Action is a player intent. To is the total bet-to amount and is only
// meaningful for ActionBetRaise.
type Action struct {
	Kind ActionKind `json:"kind"`
	To   Chips      `json:"to,omitempty"`
}

// Validate rejects anything outside the closed union at the boundary.
func (a Action) Validate() error {
	switch a.Kind {
	case ActionFold, ActionCheck, ActionCall:
		if a.To != 0 {
			return fmt.Errorf("%w: %s carries no amount", ErrInvalidAction, a.Kind)
		}
		return nil
	case ActionBetRaise:
		if a.To <= 0 {
			return fmt.Errorf("%w: bet_raise needs a positive target", ErrInvalidAction)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidAction, a.Kind)
	}
}

func (a Action) String() string {
	if a.Kind == ActionBetRaise {
		return fmt.Sprintf("bet_raise(%s)", a.To)
	}
	return string(a.Kind)
}

// HandStatus tracks whether a hand is live or settled
type HandStatus string

const (
	StatusPlaying HandStatus = "playing"
	StatusEnded   HandStatus = "ended"
)

// EndReason records how a hand ended
type EndReason string

const (
	ReasonNone     EndReason = ""
	ReasonFold     EndReason = "fold"
	ReasonShowdown EndReason = "showdown"
)

// Winner identifies the outcome of a settled hand
type Winner string

const (
	WinnerNone Winner = ""
	WinnerA    Winner = "A"
	WinnerB    Winner = "B"
	WinnerTie  Winner = "tie"
)

// WinnerOf maps a seat to its Winner value
func WinnerOf(s Seat) Winner {
	if s == SeatA {
		return WinnerA
	}
	return WinnerB
}

// Result is set exactly once per hand, irreversibly, by fold or showdown.
type Result struct {
	Status  HandStatus `json:"status"`
	Winner  Winner     `json:"winner,omitempty"`
	Reason  EndReason  `json:"reason,omitempty"`
	Pot     Chips      `json:"pot,omitempty"`
	Message string     `json:"message,omitempty"`
}
