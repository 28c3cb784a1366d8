package display

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephklwork-hash/headsup/internal/game"
	"github.com/josephklwork-hash/headsup/internal/protocol"
	"github.com/josephklwork-hash/headsup/internal/randutil"
)

func snapshot(t *testing.T) *protocol.FullStateData {
	t.Helper()
	match := game.NewMatch(1, game.DefaultConfig().Match)
	_, err := match.StartHand(randutil.New(3))
	require.NoError(t, err)
	return &protocol.FullStateData{Seq: 1, Match: match, HostSeat: game.SeatA, JoinerSeat: game.SeatB}
}

func TestRenderHidesOpponentHoleCards(t *testing.T) {
	state := snapshot(t)
	out := Render(state, game.SeatB)

	hole := state.Match.Hand.Deal.Hole(int(game.SeatB))
	assert.Contains(t, out, hole[0].String())
	assert.Contains(t, out, hole[1].String())
	assert.Contains(t, out, "[?? ??]")

	// The host seat's cards never leak into the joiner's view
	oppHole := state.Match.Hand.Deal.Hole(int(game.SeatA))
	for _, c := range oppHole {
		if c != hole[0] && c != hole[1] {
			assert.NotContains(t, out, c.String())
		}
	}
}

func TestRenderShowsPotAndTurn(t *testing.T) {
	state := snapshot(t)
	out := Render(state, game.SeatA)
	assert.Contains(t, out, "pot")
	assert.Contains(t, out, "your turn", "dealer acts first preflop")

	out = Render(state, game.SeatB)
	assert.NotContains(t, out, "your turn")
}

func TestRenderResultBanner(t *testing.T) {
	state := snapshot(t)
	require.NoError(t, state.Match.Hand.Apply(game.SeatA, game.Action{Kind: game.ActionFold}))

	out := Render(state, game.SeatA)
	assert.Contains(t, out, state.Match.Hand.Result.Message)
}

func TestRenderBeforeFirstDeal(t *testing.T) {
	match := game.NewMatch(1, game.DefaultConfig().Match)
	state := &protocol.FullStateData{Seq: 1, Match: match, HostSeat: game.SeatA, JoinerSeat: game.SeatB}
	out := Render(state, game.SeatB)
	assert.Contains(t, out, "Waiting for the first deal")
}

func TestPromptListsLegalActions(t *testing.T) {
	state := snapshot(t)

	// Dealer faces the big blind: call and raise, no check
	prompt := Prompt(state, game.SeatA)
	assert.Contains(t, prompt, "fold")
	assert.Contains(t, prompt, "call")
	assert.Contains(t, prompt, "bet <amount>")
	assert.False(t, strings.Contains(prompt, "check"))

	assert.Empty(t, Prompt(state, game.SeatB), "not B's turn")
}
