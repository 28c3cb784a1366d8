package evaluator

import (
	"testing"

	poker "github.com/paulhankin/poker"

	"github.com/josephklwork-hash/headsup/internal/deck"
	"github.com/josephklwork-hash/headsup/internal/randutil"
)

// toOracle converts one of our cards to the reference library's
// representation (its ranks run 1..13 with ace low).
func toOracle(t *testing.T, c deck.Card) poker.Card {
	t.Helper()

	var s poker.Suit
	switch c.Suit {
	case deck.Clubs:
		s = poker.Club
	case deck.Diamonds:
		s = poker.Diamond
	case deck.Hearts:
		s = poker.Heart
	case deck.Spades:
		s = poker.Spade
	}

	r := poker.Rank(c.Value())
	if c.Rank == deck.Ace {
		r = poker.Rank(1)
	}

	card, err := poker.MakeCard(s, r)
	if err != nil {
		t.Fatalf("oracle rejected card %v: %v", c, err)
	}
	return card
}

func oracleEval7(t *testing.T, hand []deck.Card) int16 {
	t.Helper()
	var a [7]poker.Card
	for i, c := range hand {
		a[i] = toOracle(t, c)
	}
	return poker.Eval7(&a)
}

// TestOracleAgreement checks that for random pairs of 7-card hands our
// evaluator induces the same ordering as the reference library.
func TestOracleAgreement(t *testing.T) {
	rng := randutil.New(1234)

	for i := 0; i < 2000; i++ {
		dealA := deck.NewDeal(rng)
		dealB := deck.NewDeal(rng)
		handA := dealA[:7]
		handB := dealB[:7]

		ours := Compare(Evaluate(handA), Evaluate(handB))

		oa := oracleEval7(t, handA)
		ob := oracleEval7(t, handB)
		theirs := 0
		if oa > ob {
			theirs = 1
		} else if oa < ob {
			theirs = -1
		}

		if ours != theirs {
			t.Fatalf("ordering disagreement: ours=%d oracle=%d\n  a=%v\n  b=%v",
				ours, theirs, handA, handB)
		}
	}
}
