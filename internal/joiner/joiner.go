// Package joiner implements the mirroring peer. A joiner computes no
// game state of its own: it forwards the local player's intents to the
// host and replaces its mirror wholesale with every snapshot the host
// broadcasts. If the two ever disagree, the host is right.
package joiner

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/josephklwork-hash/headsup/internal/game"
	"github.com/josephklwork-hash/headsup/internal/protocol"
	"github.com/josephklwork-hash/headsup/internal/transport"
)

// Joiner mirrors the host's match state
type Joiner struct {
	logger  *log.Logger
	channel transport.Channel
	peerID  protocol.PeerID

	mu    sync.Mutex
	state *protocol.FullStateData

	onState func(*protocol.FullStateData)
	onQuit  func(reason string)
}

// Option configures a Joiner
type Option func(*Joiner)

// OnState registers a callback invoked after every accepted snapshot
func OnState(fn func(*protocol.FullStateData)) Option {
	return func(j *Joiner) { j.onState = fn }
}

// OnPeerQuit registers a callback for the host leaving
func OnPeerQuit(fn func(reason string)) Option {
	return func(j *Joiner) { j.onQuit = fn }
}

// New creates a joiner and subscribes it to the channel
func New(logger *log.Logger, channel transport.Channel, peerID protocol.PeerID, opts ...Option) *Joiner {
	j := &Joiner{
		logger:  logger.WithPrefix("joiner"),
		channel: channel,
		peerID:  peerID,
	}
	for _, opt := range opts {
		opt(j)
	}

	channel.Subscribe(j.handleMessage)
	return j
}

// RequestSnapshot asks the host for the current state. Called once on
// connect; any snapshot already in flight makes the reply redundant,
// which is harmless.
func (j *Joiner) RequestSnapshot(ctx context.Context) error {
	msg, err := protocol.NewMessage(protocol.EventSnapshotRequest, j.peerID, nil)
	if err != nil {
		return err
	}
	return j.channel.Publish(ctx, msg)
}

// Intent forwards the local player's action to the host. The joiner does
// not pre-validate beyond the union shape; the host is the judge.
func (j *Joiner) Intent(ctx context.Context, action game.Action) error {
	if err := action.Validate(); err != nil {
		return err
	}
	seat, ok := j.seat()
	if !ok {
		return nil
	}
	msg, err := protocol.NewMessage(protocol.EventAction, j.peerID, protocol.ActionData{Seat: seat, Action: action})
	if err != nil {
		return err
	}
	return j.channel.Publish(ctx, msg)
}

// ShowHand forwards a voluntary reveal to the host
func (j *Joiner) ShowHand(ctx context.Context) error {
	seat, ok := j.seat()
	if !ok {
		return nil
	}
	msg, err := protocol.NewMessage(protocol.EventShowHand, j.peerID, protocol.ShowHandData{Seat: seat})
	if err != nil {
		return err
	}
	return j.channel.Publish(ctx, msg)
}

// Quit announces that the joiner is leaving
func (j *Joiner) Quit(ctx context.Context, reason string) error {
	msg, err := protocol.NewMessage(protocol.EventPeerQuit, j.peerID, protocol.PeerQuitData{Reason: reason})
	if err != nil {
		return err
	}
	return j.channel.Publish(ctx, msg)
}

// State returns the latest mirrored snapshot, or nil before the first
// one arrives.
func (j *Joiner) State() *protocol.FullStateData {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Seat returns the seat this joiner plays, known only once a snapshot
// has arrived.
func (j *Joiner) Seat() (game.Seat, bool) {
	return j.seat()
}

func (j *Joiner) seat() (game.Seat, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state == nil {
		return game.NoSeat, false
	}
	return j.state.JoinerSeat, true
}

func (j *Joiner) handleMessage(msg *protocol.Message) {
	switch msg.Event {
	case protocol.EventFullState:
		state, err := msg.DecodeFullState()
		if err != nil {
			j.logger.Warn("Dropping malformed snapshot", "error", err)
			return
		}
		if !j.accept(state) {
			return
		}
		if j.onState != nil {
			j.onState(state)
		}

	case protocol.EventPeerQuit:
		data, err := msg.DecodePeerQuit()
		if err != nil {
			j.logger.Warn("Dropping malformed quit notice", "error", err)
			return
		}
		j.logger.Info("Host quit", "from", msg.From, "reason", data.Reason)
		if j.onQuit != nil {
			j.onQuit(data.Reason)
		}
	}
	// Action and show-hand traffic from the other peer is host-bound;
	// a mirror has nothing to do with it.
}

// accept replaces the mirror unless the snapshot is stale. Seq compare
// makes re-delivery and reordering no-ops, so the channel may be lossy
// and duplicating without the mirror ever regressing.
func (j *Joiner) accept(state *protocol.FullStateData) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != nil && state.Seq <= j.state.Seq {
		j.logger.Debug("Ignoring stale snapshot", "seq", state.Seq, "have", j.state.Seq)
		return false
	}
	j.state = state
	return true
}
