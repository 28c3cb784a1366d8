package joiner_test

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephklwork-hash/headsup/internal/game"
	"github.com/josephklwork-hash/headsup/internal/joiner"
	"github.com/josephklwork-hash/headsup/internal/protocol"
	"github.com/josephklwork-hash/headsup/internal/randutil"
	"github.com/josephklwork-hash/headsup/internal/transport"
)

func snapshotMsg(t *testing.T, seq int64, match *game.Match) *protocol.Message {
	t.Helper()
	msg, err := protocol.NewMessage(protocol.EventFullState, "host", protocol.FullStateData{
		Seq:        seq,
		Match:      match,
		HostSeat:   game.SeatA,
		JoinerSeat: game.SeatB,
	})
	require.NoError(t, err)
	return msg
}

func testMatch(t *testing.T) *game.Match {
	t.Helper()
	m := game.NewMatch(1, game.DefaultConfig().Match)
	_, err := m.StartHand(randutil.New(11))
	require.NoError(t, err)
	return m
}

func TestMirrorReplacesWholesale(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	hub := transport.NewMemoryHub()
	hostCh := hub.Join("host")

	var seen []int64
	j := joiner.New(logger, hub.Join("joiner"), "joiner",
		joiner.OnState(func(s *protocol.FullStateData) { seen = append(seen, s.Seq) }))

	match := testMatch(t)
	require.NoError(t, hostCh.Publish(context.Background(), snapshotMsg(t, 1, match)))
	require.NotNil(t, j.State())
	assert.Equal(t, int64(1), j.State().Seq)

	require.NoError(t, match.Hand.Apply(game.SeatA, game.Action{Kind: game.ActionCall}))
	require.NoError(t, hostCh.Publish(context.Background(), snapshotMsg(t, 2, match)))
	assert.Equal(t, int64(2), j.State().Seq)
	assert.Equal(t, game.SeatB, j.State().Match.Hand.Round.ToAct)

	assert.Equal(t, []int64{1, 2}, seen)
}

func TestMirrorIgnoresStaleAndDuplicateSnapshots(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	hub := transport.NewMemoryHub()
	hostCh := hub.Join("host")

	applied := 0
	j := joiner.New(logger, hub.Join("joiner"), "joiner",
		joiner.OnState(func(*protocol.FullStateData) { applied++ }))

	match := testMatch(t)
	require.NoError(t, hostCh.Publish(context.Background(), snapshotMsg(t, 5, match)))
	require.Equal(t, int64(5), j.State().Seq)

	// Duplicate and reordered deliveries must not touch the mirror
	require.NoError(t, hostCh.Publish(context.Background(), snapshotMsg(t, 5, match)))
	require.NoError(t, hostCh.Publish(context.Background(), snapshotMsg(t, 3, match)))
	assert.Equal(t, int64(5), j.State().Seq)
	assert.Equal(t, 1, applied)
}

func TestMirrorDropsMalformedSnapshot(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	hub := transport.NewMemoryHub()
	hostCh := hub.Join("host")
	j := joiner.New(logger, hub.Join("joiner"), "joiner")

	msg := &protocol.Message{Event: protocol.EventFullState, Data: []byte(`{"seq":`)}
	require.NoError(t, hostCh.Publish(context.Background(), msg))
	assert.Nil(t, j.State())
}

func TestIntentBeforeFirstSnapshotIsNotSent(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	hub := transport.NewMemoryHub()

	var hostSaw []*protocol.Message
	hostCh := hub.Join("host")
	hostCh.Subscribe(func(m *protocol.Message) { hostSaw = append(hostSaw, m) })

	j := joiner.New(logger, hub.Join("joiner"), "joiner")

	// Without a snapshot the joiner does not know its seat yet
	require.NoError(t, j.Intent(context.Background(), game.Action{Kind: game.ActionCheck}))
	assert.Empty(t, hostSaw)

	_, ok := j.Seat()
	assert.False(t, ok)
}

func TestHostQuitSurfaces(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	hub := transport.NewMemoryHub()
	hostCh := hub.Join("host")

	var gotReason string
	j := joiner.New(logger, hub.Join("joiner"), "joiner",
		joiner.OnPeerQuit(func(reason string) { gotReason = reason }))

	msg, err := protocol.NewMessage(protocol.EventPeerQuit, "host", protocol.PeerQuitData{Reason: "shutting down"})
	require.NoError(t, err)
	require.NoError(t, hostCh.Publish(context.Background(), msg))
	assert.Equal(t, "shutting down", gotReason)
	assert.Nil(t, j.State())
}
