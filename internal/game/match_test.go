package game

import (
	"testing"

	"github.com/josephklwork-hash/headsup/internal/randutil"
)

func testMatchSettings() MatchSettings {
	return MatchSettings{
		StartingStack:   100,
		SmallBlind:      0.5,
		BigBlind:        1,
		BlindStepHands:  2,
		BlindStepFactor: 0.8,
	}
}

func TestDealerAlternatesEachHand(t *testing.T) {
	rng := randutil.New(1)
	m := NewMatch(1, testMatchSettings())

	h1, err := m.StartHand(rng)
	if err != nil {
		t.Fatal(err)
	}
	if h1.Dealer != SeatA {
		t.Errorf("seat A deals the first hand, got %s", h1.Dealer)
	}

	if _, err := m.StartHand(rng); err != ErrHandInProgress {
		t.Fatalf("expected ErrHandInProgress, got %v", err)
	}

	mustApply(t, h1, h1.Round.ToAct, Action{Kind: ActionFold})
	m.ConcludeHand()

	h2, err := m.StartHand(rng)
	if err != nil {
		t.Fatal(err)
	}
	if h2.Dealer != SeatB {
		t.Errorf("dealer must alternate, got %s", h2.Dealer)
	}
}

func TestBlindStepScalesStacks(t *testing.T) {
	rng := randutil.New(1)
	m := NewMatch(1, testMatchSettings())

	// Hands 1 and 2 at full stacks; hand 3 starts a new blind level and
	// scales both stacks by the step factor.
	for i := 0; i < 2; i++ {
		h, err := m.StartHand(rng)
		if err != nil {
			t.Fatal(err)
		}
		mustApply(t, h, h.Round.ToAct, Action{Kind: ActionFold})
		m.ConcludeHand()
	}
	before := m.Stacks

	h, err := m.StartHand(rng)
	if err != nil {
		t.Fatal(err)
	}
	wantA := Chips(float64(before[SeatA]) * 0.8)
	if m.Stacks[SeatA] != wantA {
		t.Errorf("expected stack scaled to %s, got %s", wantA, m.Stacks[SeatA])
	}
	if h.StartingTotal() != m.Stacks[SeatA]+m.Stacks[SeatB] {
		t.Error("hand must start from the scaled stacks")
	}
}

func TestMatchFreezesWhenStackFelted(t *testing.T) {
	rng := randutil.New(3)
	m := NewMatch(1, testMatchSettings())

	h, err := m.StartHand(rng)
	if err != nil {
		t.Fatal(err)
	}
	// Shove/call until someone is felted
	la, err := h.LegalActions(h.Round.ToAct)
	if err != nil {
		t.Fatal(err)
	}
	mustApply(t, h, la.Seat, Action{Kind: ActionBetRaise, To: la.MaxRaiseTo})
	mustApply(t, h, h.Round.ToAct, Action{Kind: ActionCall})

	if h.Result.Status != StatusEnded {
		t.Fatalf("all-in hand must settle, got %+v", h.Result)
	}
	m.ConcludeHand()

	if h.Result.Winner != WinnerTie {
		if !m.Frozen {
			t.Fatal("match must freeze once a stack is felted")
		}
		if _, err := m.StartHand(rng); err != ErrMatchOver {
			t.Errorf("expected ErrMatchOver, got %v", err)
		}
	}
}
