package deck

import (
	rand "math/rand/v2"
)

// Deal is the 9-card sequence drawn for one heads-up hand: two hole cards
// per seat followed by the five board cards. The board is revealed
// incrementally; Board(n) exposes only the first n cards.
type Deal [9]Card

// NewDeal shuffles a fresh deck and draws the 9-card sequence.
func NewDeal(rng *rand.Rand) Deal {
	d := NewDeck(rng)
	d.Shuffle()

	var deal Deal
	copy(deal[:], d.Deal(9))
	return deal
}

// Hole returns the two hole cards for seat index 0 or 1.
func (d Deal) Hole(seat int) [2]Card {
	if seat == 0 {
		return [2]Card{d[0], d[1]}
	}
	return [2]Card{d[2], d[3]}
}

// Board returns the first n board cards (0, 3, 4 or 5).
func (d Deal) Board(n int) []Card {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	board := make([]Card, n)
	copy(board, d[4:4+n])
	return board
}

// Codes returns the wire form of the full sequence, hole cards first.
func (d Deal) Codes() []string {
	codes := make([]string, len(d))
	for i, c := range d {
		codes[i] = c.Code()
	}
	return codes
}

// ParseDeal reconstructs a Deal from its wire form.
func ParseDeal(codes []string) (Deal, error) {
	var deal Deal
	if len(codes) != len(deal) {
		return deal, errDealLength
	}
	for i, code := range codes {
		c, err := ParseCard(code)
		if err != nil {
			return deal, err
		}
		deal[i] = c
	}
	return deal, nil
}
