// Package host implements the authoritative peer. The host runs the
// entire betting engine locally and is the single writer of truth: every
// external mutation is followed by one full-state broadcast. The joiner
// never computes game state, it only mirrors these snapshots.
package host

import (
	"context"
	"errors"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/josephklwork-hash/headsup/internal/bot"
	"github.com/josephklwork-hash/headsup/internal/game"
	"github.com/josephklwork-hash/headsup/internal/history"
	"github.com/josephklwork-hash/headsup/internal/protocol"
	"github.com/josephklwork-hash/headsup/internal/transport"
)

// Option configures a Host
type Option func(*Host)

// WithSeats overrides the default seat assignment (host=A, joiner=B).
// Seat assignment is decided outside the protocol, before it begins.
func WithSeats(hostSeat game.Seat) Option {
	return func(h *Host) { h.hostSeat = hostSeat }
}

// WithOpponent puts a built-in opponent in the joiner seat (solo mode).
// The opponent acts after the configured thinking delay.
func WithOpponent(o bot.Opponent) Option {
	return func(h *Host) { h.opponent = o }
}

// WithHistory records completed hands to the store
func WithHistory(store *history.Store) Option {
	return func(h *Host) { h.store = store }
}

// OnState registers a callback invoked with every published snapshot,
// for the host's own rendering.
func OnState(fn func(*protocol.FullStateData)) Option {
	return func(h *Host) { h.onState = fn }
}

// Host owns the match. All state is touched only from the Run loop; the
// public methods enqueue events onto it, so no locks are needed.
type Host struct {
	logger  *log.Logger
	clock   quartz.Clock
	channel transport.Channel
	cfg     *game.Config
	rng     *rand.Rand

	match      *game.Match
	hostSeat   game.Seat
	seq        int64
	opponent   bot.Opponent
	store      *history.Store
	onState    func(*protocol.FullStateData)
	peerID     protocol.PeerID
	joinerGone bool

	nextHandTimer *quartz.Timer
	thinkTimer    *quartz.Timer

	tasks chan func()
	done  chan struct{}
}

// New creates a host for one match session
func New(logger *log.Logger, clock quartz.Clock, channel transport.Channel, cfg *game.Config, rng *rand.Rand, session int64, opts ...Option) *Host {
	h := &Host{
		logger:   logger.WithPrefix("host"),
		clock:    clock,
		channel:  channel,
		cfg:      cfg,
		rng:      rng,
		match:    game.NewMatch(session, cfg.Match),
		hostSeat: game.SeatA,
		peerID:   protocol.PeerID("host"),
		tasks:    make(chan func(), 64),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}

	channel.Subscribe(h.handleMessage)
	return h
}

// JoinerSeat returns the seat mirrored by the remote peer (or the
// built-in opponent).
func (h *Host) JoinerSeat() game.Seat {
	return h.hostSeat.Other()
}

// Run executes the host event loop until ctx is cancelled. Message
// arrival, local input and timer fires all funnel through one goroutine;
// every event runs to completion before the next.
func (h *Host) Run(ctx context.Context) error {
	defer close(h.done)
	defer h.cancelTimers()

	for {
		select {
		case task := <-h.tasks:
			task()
		case <-ctx.Done():
			h.announceQuit("host shutting down")
			return ctx.Err()
		}
	}
}

// StartHand deals the next hand
func (h *Host) StartHand() {
	h.enqueue(h.startHand)
}

// Intent submits the local player's action for the host seat
func (h *Host) Intent(action game.Action) {
	h.enqueue(func() { h.applyAction(h.hostSeat, action) })
}

// ShowHand submits the local player's voluntary reveal
func (h *Host) ShowHand() {
	h.enqueue(func() { h.applyShowHand(h.hostSeat) })
}

func (h *Host) enqueue(task func()) {
	select {
	case h.tasks <- task:
	case <-h.done:
	}
}

// handleMessage runs on the channel's dispatch goroutine and only ever
// enqueues; the state is touched exclusively by the Run loop.
func (h *Host) handleMessage(msg *protocol.Message) {
	switch msg.Event {
	case protocol.EventAction:
		data, err := msg.DecodeAction()
		if err != nil {
			h.logger.Warn("Dropping malformed action intent", "error", err)
			return
		}
		h.enqueue(func() {
			// The remote peer may only act for its own seat
			if data.Seat != h.JoinerSeat() {
				h.logger.Debug("Ignoring intent for foreign seat", "seat", data.Seat)
				return
			}
			h.applyAction(data.Seat, data.Action)
		})

	case protocol.EventSnapshotRequest:
		h.enqueue(func() {
			h.logger.Info("Snapshot requested", "from", msg.From)
			h.joinerGone = false
			// A returning peer revives the auto-advance that quit paused
			if hand := h.match.Hand; hand != nil &&
				hand.Result.Status == game.StatusEnded && !h.match.Frozen {
				h.scheduleNextHand(hand.ID)
			}
			h.publish()
		})

	case protocol.EventShowHand:
		data, err := msg.DecodeShowHand()
		if err != nil {
			h.logger.Warn("Dropping malformed show request", "error", err)
			return
		}
		h.enqueue(func() {
			if data.Seat != h.JoinerSeat() {
				return
			}
			h.applyShowHand(data.Seat)
		})

	case protocol.EventPeerQuit:
		h.enqueue(func() {
			h.logger.Info("Peer quit", "from", msg.From)
			h.joinerGone = true
			if h.opponent == nil {
				h.cancelTimers()
			}
			// Republish so the quit is visible as processed in the stream
			h.publish()
		})

	case protocol.EventFullState:
		// Only the host publishes state; a snapshot from anyone else is
		// a protocol violation worth logging, nothing more.
		h.logger.Warn("Unexpected full-state from peer", "from", msg.From)
	}
}

func (h *Host) startHand() {
	hand, err := h.match.StartHand(h.rng)
	if err != nil {
		if !errors.Is(err, game.ErrHandInProgress) {
			h.logger.Info("Cannot start hand", "error", err)
		}
		return
	}
	h.cancelTimers()
	h.logger.Info("Hand dealt",
		"hand", hand.ID,
		"dealer", hand.Dealer,
		"stacks", hand.Ledger.Stacks)

	// Timers are armed before the snapshot goes out, so anyone who has
	// seen the state can rely on the follow-up being scheduled.
	h.maybeScheduleOpponent()
	h.publish()
}

// applyAction feeds one intent to the engine. Wrong-turn, wrong-seat and
// settled-hand intents change nothing and are dropped without a reply; a
// well-behaved peer UI never produces them, and a misbehaving one learns
// nothing.
func (h *Host) applyAction(seat game.Seat, action game.Action) {
	hand := h.match.Hand
	if hand == nil {
		return
	}
	if err := hand.Apply(seat, action); err != nil {
		h.logger.Debug("Rejected action", "seat", seat, "action", action, "error", err)
		return
	}
	h.logger.Info("Action applied", "seat", seat, "action", action, "street", hand.Street)

	if hand.Result.Status == game.StatusEnded {
		h.concludeHand()
	} else {
		h.maybeScheduleOpponent()
	}
	h.publish()
}

func (h *Host) applyShowHand(seat game.Seat) {
	hand := h.match.Hand
	if hand == nil {
		return
	}
	if err := hand.ShowHand(seat); err != nil {
		h.logger.Debug("Rejected show", "seat", seat, "error", err)
		return
	}
	h.publish()
}

func (h *Host) concludeHand() {
	hand := h.match.Hand
	h.match.ConcludeHand()
	h.logger.Info("Hand settled",
		"hand", hand.ID,
		"winner", hand.Result.Winner,
		"reason", hand.Result.Reason,
		"stacks", h.match.Stacks)

	if h.store != nil {
		if err := h.store.RecordHand(hand); err != nil {
			h.logger.Error("Failed to record hand", "error", err)
		}
	}

	if h.match.Frozen {
		h.logger.Info("Match over", "stacks", h.match.Stacks)
		h.cancelTimers()
		return
	}
	// With the joiner gone and no built-in opponent there is nobody to
	// deal to; the timer comes back when a snapshot request arrives.
	if h.joinerGone && h.opponent == nil {
		return
	}
	h.scheduleNextHand(hand.ID)
}

// scheduleNextHand arms the auto-advance timer. The fire carries the
// hand id it was armed for and re-checks it, so a stale fire after a
// manual restart is inert.
func (h *Host) scheduleNextHand(handID int64) {
	if h.nextHandTimer != nil {
		h.nextHandTimer.Stop()
	}
	delay := time.Duration(h.cfg.Timers.NextHandMs) * time.Millisecond
	h.nextHandTimer = h.clock.AfterFunc(delay, func() {
		h.enqueue(func() {
			hand := h.match.Hand
			if hand == nil || hand.ID != handID || hand.Result.Status != game.StatusEnded {
				return
			}
			h.startHand()
		})
	})
}

// maybeScheduleOpponent arms the thinking delay when the built-in
// opponent is due to act.
func (h *Host) maybeScheduleOpponent() {
	if h.opponent == nil {
		return
	}
	hand := h.match.Hand
	if hand == nil || hand.Result.Status != game.StatusPlaying || hand.Round.ToAct != h.JoinerSeat() {
		return
	}

	if h.thinkTimer != nil {
		h.thinkTimer.Stop()
	}
	handID, street, toAct := hand.ID, hand.Street, hand.Round.ToAct
	delay := time.Duration(h.cfg.Timers.OpponentThinkMs) * time.Millisecond
	h.thinkTimer = h.clock.AfterFunc(delay, func() {
		h.enqueue(func() {
			current := h.match.Hand
			if current == nil || current.ID != handID ||
				current.Street != street || current.Round.ToAct != toAct ||
				current.Result.Status != game.StatusPlaying {
				return
			}
			legal, err := current.LegalActions(toAct)
			if err != nil {
				return
			}
			h.applyAction(toAct, h.opponent.Act(current, toAct, legal))
		})
	})
}

func (h *Host) cancelTimers() {
	if h.nextHandTimer != nil {
		h.nextHandTimer.Stop()
		h.nextHandTimer = nil
	}
	if h.thinkTimer != nil {
		h.thinkTimer.Stop()
		h.thinkTimer = nil
	}
}

// publish broadcasts the complete authoritative state, never a delta.
func (h *Host) publish() {
	h.seq++
	state := &protocol.FullStateData{
		Seq:        h.seq,
		Match:      h.match,
		HostSeat:   h.hostSeat,
		JoinerSeat: h.JoinerSeat(),
	}

	msg, err := protocol.NewMessage(protocol.EventFullState, h.peerID, state)
	if err != nil {
		h.logger.Error("Failed to encode state", "error", err)
		return
	}
	if err := h.channel.Publish(context.Background(), msg); err != nil {
		h.logger.Error("Failed to publish state", "error", err)
	}

	if h.onState != nil {
		h.onState(state)
	}
}

func (h *Host) announceQuit(reason string) {
	msg, err := protocol.NewMessage(protocol.EventPeerQuit, h.peerID, protocol.PeerQuitData{Reason: reason})
	if err != nil {
		return
	}
	_ = h.channel.Publish(context.Background(), msg)
}
