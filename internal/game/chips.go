package game

import (
	"fmt"
	"math"
)

// Chips is a chip amount in integer cents. All pot arithmetic is done on
// this type so stack+bet+pot totals stay exact; floats only appear at
// the config and display boundary.
type Chips int64

// ChipsFromFloat converts a config value in whole chips to cents,
// rounding half away from zero.
func ChipsFromFloat(v float64) Chips {
	return Chips(math.Round(v * 100))
}

// Float returns the amount in whole chips for display
func (c Chips) Float() float64 {
	return float64(c) / 100
}

// String formats the amount in whole chips, trimming the cents when zero
func (c Chips) String() string {
	if c%100 == 0 {
		return fmt.Sprintf("%d", c/100)
	}
	return fmt.Sprintf("%.2f", c.Float())
}

func minChips(a, b Chips) Chips {
	if a < b {
		return a
	}
	return b
}

func maxChips(a, b Chips) Chips {
	if a > b {
		return a
	}
	return b
}

// Ledger is the per-hand chip accounting: stacks behind, bets committed
// this street, and the pot swept from earlier streets.
type Ledger struct {
	Stacks [2]Chips `json:"stacks"`
	Bets   [2]Chips `json:"bets"`
	Pot    Chips    `json:"pot"`
}

// Total sums every chip the ledger tracks. It must equal the sum of the
// two starting stacks at every observation point of a hand.
func (l Ledger) Total() Chips {
	return l.Stacks[SeatA] + l.Stacks[SeatB] + l.Bets[SeatA] + l.Bets[SeatB] + l.Pot
}
