package game

// Round is the turn-taking sub-state machine for one street. It is reset
// at the start of every street and consumed by the street-closure
// decision in Apply.
type Round struct {
	ToAct               Seat  `json:"toAct"`
	LastAggressor       Seat  `json:"lastAggressor"`
	ActionsThisStreet   int   `json:"actionsThisStreet"`
	LastToActAfterAggro Seat  `json:"lastToActAfterAggro"`
	SawCall             bool  `json:"sawCall"`
	LastRaiseSize       Chips `json:"lastRaiseSize"`
	Checked             [2]bool `json:"checked"`
	StreetBettor        Seat  `json:"streetBettor"`
}

// newRound returns the round state for a fresh street. firstToAct is the
// dealer preflop and the non-dealer on every later street; the minimum
// raise size starts at one big blind.
func newRound(firstToAct Seat, bigBlind Chips) Round {
	return Round{
		ToAct:               firstToAct,
		LastAggressor:       NoSeat,
		LastToActAfterAggro: NoSeat,
		LastRaiseSize:       bigBlind,
		StreetBettor:        NoSeat,
	}
}

// noteAggression records a bet or raise by seat: the opponent becomes
// the designated last to act, and both check flags clear.
func (r *Round) noteAggression(seat Seat, raiseSize Chips) {
	r.LastAggressor = seat
	r.LastToActAfterAggro = seat.Other()
	r.LastRaiseSize = raiseSize
	r.Checked = [2]bool{}
	r.StreetBettor = seat
}
