package bot

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/josephklwork-hash/headsup/internal/deck"
	"github.com/josephklwork-hash/headsup/internal/game"
	"github.com/josephklwork-hash/headsup/internal/randutil"
)

// The opponent must return a legal action in every reachable state, so
// we let it play both seats through whole matches and verify the engine
// never rejects a decision.
func TestCallingStationAlwaysActsLegally(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})

	for seed := int64(0); seed < 50; seed++ {
		rng := randutil.New(seed)
		opponent := NewCallingStation(logger, randutil.New(seed+1000))

		match := game.NewMatch(seed, game.DefaultConfig().Match)
		for hands := 0; hands < 20 && !match.Frozen; hands++ {
			hand, err := match.StartHand(rng)
			if err != nil {
				t.Fatalf("seed %d: %v", seed, err)
			}

			for steps := 0; hand.Result.Status == game.StatusPlaying; steps++ {
				if steps > 200 {
					t.Fatalf("seed %d hand %d: no progress after 200 actions", seed, hand.ID)
				}
				seat := hand.Round.ToAct
				legal, err := hand.LegalActions(seat)
				if err != nil {
					t.Fatalf("seed %d hand %d: %v", seed, hand.ID, err)
				}
				action := opponent.Act(hand, seat, legal)
				if err := hand.Apply(seat, action); err != nil {
					t.Fatalf("seed %d hand %d: opponent chose illegal %v: %v", seed, hand.ID, action, err)
				}
			}

			total := hand.Ledger.Stacks[game.SeatA] + hand.Ledger.Stacks[game.SeatB] + hand.Ledger.Pot
			if total != hand.StartingTotal() {
				t.Fatalf("seed %d hand %d: chips not conserved", seed, hand.ID)
			}
			match.ConcludeHand()
		}
	}
}

func TestCallingStationChecksWeakHands(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	opponent := NewCallingStation(logger, randutil.New(1))

	deal, err := deck.ParseDeal([]string{"Ah", "Kh", "2c", "7d", "5s", "9c", "Jd", "3h", "8c"})
	if err != nil {
		t.Fatal(err)
	}
	stacks := [2]game.Chips{game.ChipsFromFloat(100), game.ChipsFromFloat(100)}
	hand := game.NewHand(1, 1, game.SeatA, stacks, game.ChipsFromFloat(0.5), game.ChipsFromFloat(1), deal)

	// Dealer limps, leaving B a free check with seven-deuce
	if err := hand.Apply(game.SeatA, game.Action{Kind: game.ActionCall}); err != nil {
		t.Fatal(err)
	}
	legal, err := hand.LegalActions(game.SeatB)
	if err != nil {
		t.Fatal(err)
	}
	action := opponent.Act(hand, game.SeatB, legal)
	if action.Kind != game.ActionCheck {
		t.Errorf("expected a check with seven-deuce, got %v", action)
	}
}
