package host_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephklwork-hash/headsup/internal/bot"
	"github.com/josephklwork-hash/headsup/internal/game"
	"github.com/josephklwork-hash/headsup/internal/host"
	"github.com/josephklwork-hash/headsup/internal/joiner"
	"github.com/josephklwork-hash/headsup/internal/protocol"
	"github.com/josephklwork-hash/headsup/internal/randutil"
	"github.com/josephklwork-hash/headsup/internal/transport"
)

type rig struct {
	t         *testing.T
	hub       *transport.MemoryHub
	host      *host.Host
	joiner    *joiner.Joiner
	mockClock *quartz.Mock
	states    chan *protocol.FullStateData
	cancel    context.CancelFunc
}

func newRig(t *testing.T, opts ...host.Option) *rig {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	mockClock := quartz.NewMock(t)
	hub := transport.NewMemoryHub()

	r := &rig{
		t:         t,
		hub:       hub,
		mockClock: mockClock,
		states:    make(chan *protocol.FullStateData, 64),
	}

	cfg := game.DefaultConfig()
	rng := randutil.New(42)
	r.host = host.New(logger, mockClock, hub.Join("host"), cfg, rng, 1, opts...)

	r.joiner = joiner.New(logger, hub.Join("joiner"), "joiner",
		joiner.OnState(func(s *protocol.FullStateData) { r.states <- s }))

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	go r.host.Run(ctx)
	t.Cleanup(cancel)
	return r
}

// waitFor reads mirrored snapshots until one satisfies the predicate
func (r *rig) waitFor(pred func(*protocol.FullStateData) bool) *protocol.FullStateData {
	r.t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-r.states:
			if pred(s) {
				return s
			}
		case <-deadline:
			r.t.Fatal("timed out waiting for snapshot")
			return nil
		}
	}
}

func (r *rig) waitForHand(handID int64) *protocol.FullStateData {
	r.t.Helper()
	return r.waitFor(func(s *protocol.FullStateData) bool {
		return s.Match.Hand != nil && s.Match.Hand.ID == handID
	})
}

func (r *rig) advance(d time.Duration) {
	r.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.mockClock.Advance(d).MustWait(ctx)
}

func TestJoinerMirrorsDealtHand(t *testing.T) {
	r := newRig(t)
	r.host.StartHand()

	state := r.waitForHand(1)
	require.NotNil(t, state.Match.Hand)
	assert.Equal(t, game.SeatA, state.HostSeat)
	assert.Equal(t, game.SeatB, state.JoinerSeat)
	assert.Equal(t, game.StatusPlaying, state.Match.Hand.Result.Status)

	// Blinds are already posted in the mirror
	total := state.Match.Hand.Ledger.Bets[game.SeatA] + state.Match.Hand.Ledger.Bets[game.SeatB]
	assert.Equal(t, game.ChipsFromFloat(1.5), total)

	seat, ok := r.joiner.Seat()
	require.True(t, ok)
	assert.Equal(t, game.SeatB, seat)
}

func TestJoinerIntentDrivesTheHand(t *testing.T) {
	r := newRig(t)
	r.host.StartHand()
	first := r.waitForHand(1)

	// Seat A deals hand 1 and acts first; the host limps, then the
	// joiner checks its option and the flop comes.
	require.Equal(t, game.SeatA, first.Match.Hand.Round.ToAct)
	r.host.Intent(game.Action{Kind: game.ActionCall})
	r.waitFor(func(s *protocol.FullStateData) bool {
		return s.Match.Hand.Round.ToAct == game.SeatB
	})

	err := r.joiner.Intent(context.Background(), game.Action{Kind: game.ActionCheck})
	require.NoError(t, err)

	state := r.waitFor(func(s *protocol.FullStateData) bool {
		return s.Match.Hand.Street == game.Flop
	})
	assert.Equal(t, game.ChipsFromFloat(2), state.Match.Hand.Ledger.Pot)
	assert.Equal(t, game.SeatB, state.Match.Hand.Round.ToAct)
}

func TestHostDropsOutOfTurnIntentSilently(t *testing.T) {
	r := newRig(t)
	r.host.StartHand()
	first := r.waitForHand(1)
	require.Equal(t, game.SeatA, first.Match.Hand.Round.ToAct)

	// Joiner acts out of turn: no snapshot, no state change
	err := r.joiner.Intent(context.Background(), game.Action{Kind: game.ActionCheck})
	require.NoError(t, err)

	r.host.Intent(game.Action{Kind: game.ActionCall})
	state := r.waitFor(func(s *protocol.FullStateData) bool {
		return s.Match.Hand.Round.ToAct == game.SeatB
	})
	// The out-of-turn check was dropped, not queued
	assert.Equal(t, first.Seq+1, state.Seq)
	assert.Equal(t, game.Preflop, state.Match.Hand.Street)
}

func TestSnapshotRequestRepublishesIdempotently(t *testing.T) {
	r := newRig(t)
	r.host.StartHand()
	first := r.waitForHand(1)

	require.NoError(t, r.joiner.RequestSnapshot(context.Background()))
	second := r.waitFor(func(s *protocol.FullStateData) bool {
		return s.Seq > first.Seq
	})

	// Same truth, later seq: re-applying replaced the mirror wholesale
	// with identical content.
	assert.Equal(t, first.Match.Hand.ID, second.Match.Hand.ID)
	assert.Equal(t, first.Match.Hand.Ledger, second.Match.Hand.Ledger)
	assert.Equal(t, first.Match.Hand.Round.ToAct, second.Match.Hand.Round.ToAct)
}

func TestDroppedSnapshotHealsOnNextPublish(t *testing.T) {
	r := newRig(t)
	r.host.StartHand()
	first := r.waitForHand(1)

	// Lose the snapshot for the host's next action
	r.hub.DropOnce("joiner")
	r.host.Intent(game.Action{Kind: game.ActionCall})

	// The joiner never saw the call, but the following action's snapshot
	// carries the complete state and heals the mirror.
	err := r.joiner.Intent(context.Background(), game.Action{Kind: game.ActionCheck})
	require.NoError(t, err)

	state := r.waitFor(func(s *protocol.FullStateData) bool {
		return s.Match.Hand.Street == game.Flop
	})
	assert.Equal(t, first.Seq+2, state.Seq)
	assert.Equal(t, game.ChipsFromFloat(2), state.Match.Hand.Ledger.Pot)
}

func TestAutoNextHandFiresOnSchedule(t *testing.T) {
	r := newRig(t)
	r.host.StartHand()
	first := r.waitForHand(1)
	require.Equal(t, game.SeatA, first.Match.Hand.Dealer)

	r.host.Intent(game.Action{Kind: game.ActionFold})
	r.waitFor(func(s *protocol.FullStateData) bool {
		return s.Match.Hand.Result.Status == game.StatusEnded
	})

	r.advance(3 * time.Second)
	second := r.waitForHand(2)
	assert.Equal(t, game.SeatB, second.Match.Hand.Dealer)
	assert.Equal(t, game.StatusPlaying, second.Match.Hand.Result.Status)
}

func TestStaleNextHandTimerIsInert(t *testing.T) {
	r := newRig(t)
	r.host.StartHand()
	r.waitForHand(1)

	r.host.Intent(game.Action{Kind: game.ActionFold})
	r.waitFor(func(s *protocol.FullStateData) bool {
		return s.Match.Hand.Result.Status == game.StatusEnded
	})

	// Hand 2 starts manually before the timer fires; the armed fire
	// carries hand 1's id and must not deal hand 3.
	r.host.StartHand()
	second := r.waitForHand(2)

	r.advance(3 * time.Second)
	require.NoError(t, r.joiner.RequestSnapshot(context.Background()))
	state := r.waitFor(func(s *protocol.FullStateData) bool {
		return s.Seq > second.Seq
	})
	assert.Equal(t, int64(2), state.Match.HandsStarted)
	assert.Equal(t, int64(2), state.Match.Hand.ID)
}

func TestJoinerQuitCancelsAutoNextHand(t *testing.T) {
	r := newRig(t)
	r.host.StartHand()
	r.waitForHand(1)

	r.host.Intent(game.Action{Kind: game.ActionFold})
	ended := r.waitFor(func(s *protocol.FullStateData) bool {
		return s.Match.Hand.Result.Status == game.StatusEnded
	})

	// The host republishes once it has processed the quit
	require.NoError(t, r.joiner.Quit(context.Background(), "leaving"))
	afterQuit := r.waitFor(func(s *protocol.FullStateData) bool { return s.Seq > ended.Seq })

	r.advance(3 * time.Second)
	require.NoError(t, r.joiner.RequestSnapshot(context.Background()))
	state := r.waitFor(func(s *protocol.FullStateData) bool { return s.Seq > afterQuit.Seq })
	assert.Equal(t, int64(1), state.Match.Hand.ID, "no new hand after the peer quit")

	// The returning peer's snapshot request revived the auto-advance
	r.advance(3 * time.Second)
	revived := r.waitForHand(2)
	assert.Equal(t, game.StatusPlaying, revived.Match.Hand.Result.Status)
}

func TestSoloOpponentActsAfterThinkDelay(t *testing.T) {
	states := make(chan *protocol.FullStateData, 64)
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	mockClock := quartz.NewMock(t)
	hub := transport.NewMemoryHub()

	cfg := game.DefaultConfig()
	opponent := bot.NewCallingStation(logger, randutil.New(7))
	h := host.New(logger, mockClock, hub.Join("host"), cfg, randutil.New(42), 1,
		host.WithOpponent(opponent),
		host.OnState(func(s *protocol.FullStateData) { states <- s }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	waitFor := func(pred func(*protocol.FullStateData) bool) *protocol.FullStateData {
		t.Helper()
		deadline := time.After(2 * time.Second)
		for {
			select {
			case s := <-states:
				if pred(s) {
					return s
				}
			case <-deadline:
				t.Fatal("timed out waiting for snapshot")
				return nil
			}
		}
	}

	h.StartHand()
	waitFor(func(s *protocol.FullStateData) bool { return s.Match.Hand != nil })

	// Host limps; the bot's reply is due only after the thinking delay
	h.Intent(game.Action{Kind: game.ActionCall})
	before := waitFor(func(s *protocol.FullStateData) bool {
		return s.Match.Hand.Round.ToAct == game.SeatB
	})
	assert.Equal(t, game.Preflop, before.Match.Hand.Street)

	wctx, wcancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer wcancel()
	mockClock.Advance(1200 * time.Millisecond).MustWait(wctx)

	after := waitFor(func(s *protocol.FullStateData) bool { return s.Seq > before.Seq })
	acted := after.Match.Hand.Street != game.Preflop ||
		after.Match.Hand.Round.ToAct == game.SeatA ||
		after.Match.Hand.Result.Status == game.StatusEnded
	assert.True(t, acted, "opponent must have acted after the delay")
}

func TestJoinerIgnoresStaleSnapshot(t *testing.T) {
	r := newRig(t)
	r.host.StartHand()
	first := r.waitForHand(1)

	r.host.Intent(game.Action{Kind: game.ActionCall})
	second := r.waitFor(func(s *protocol.FullStateData) bool { return s.Seq > first.Seq })

	// Mirror already holds the newer snapshot; a re-delivered older one
	// must not regress it.
	assert.Equal(t, second.Seq, r.joiner.State().Seq)
	assert.NotNil(t, r.joiner.State().Match.Hand)
}
