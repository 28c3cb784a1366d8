// Package protocol defines the replication messages exchanged between
// the host and the joiner. The host is the single writer of truth: after
// every state mutation it broadcasts one full-state snapshot, never a
// delta, so a dropped message is healed by the next one and re-applying
// a snapshot is a no-op.
package protocol

import (
	"encoding/json"
	"time"

	"github.com/josephklwork-hash/headsup/internal/game"
)

// EventType identifies the type of message
type EventType string

const (
	// EventAction carries a player intent to the host
	EventAction EventType = "action"

	// EventSnapshotRequest asks the host for the current full state
	EventSnapshotRequest EventType = "snapshot_request"

	// EventFullState is the host's canonical broadcast
	EventFullState EventType = "full_state"

	// EventShowHand voluntarily reveals a mucked or folded hand
	EventShowHand EventType = "show_hand"

	// EventPeerQuit announces a disconnecting peer
	EventPeerQuit EventType = "peer_quit"
)

// PeerID identifies a publisher on the shared channel. Every message
// carries one so a peer can drop its own echoes: the relay fans a
// publish back to the sender too.
type PeerID string

// Message is the wire envelope for all replication traffic
type Message struct {
	Event     EventType       `json:"event"`
	From      PeerID          `json:"from"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a message with the current timestamp
func NewMessage(event EventType, from PeerID, data interface{}) (*Message, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return &Message{
		Event:     event,
		From:      from,
		Data:      raw,
		Timestamp: time.Now().UTC(),
	}, nil
}

// ActionData is a player intent. The action union is re-validated on the
// host side before it reaches the engine.
type ActionData struct {
	Seat   game.Seat   `json:"seat"`
	Action game.Action `json:"action"`
}

// ShowHandData asks to reveal a mucked or folded hand
type ShowHandData struct {
	Seat game.Seat `json:"seat"`
}

// PeerQuitData announces why a peer left
type PeerQuitData struct {
	Reason string `json:"reason,omitempty"`
}

// FullStateData is the complete authoritative state. The joiner replaces
// its mirror wholesale with every snapshot; Seq orders snapshots so a
// reordered or duplicated delivery is ignored.
type FullStateData struct {
	Seq        int64       `json:"seq"`
	Match      *game.Match `json:"match"`
	HostSeat   game.Seat   `json:"hostSeat"`
	JoinerSeat game.Seat   `json:"joinerSeat"`
}

// DecodeAction unpacks and validates an action intent
func (m *Message) DecodeAction() (ActionData, error) {
	var data ActionData
	if err := json.Unmarshal(m.Data, &data); err != nil {
		return data, err
	}
	if err := data.Action.Validate(); err != nil {
		return data, err
	}
	return data, nil
}

// DecodeShowHand unpacks a show-hand request
func (m *Message) DecodeShowHand() (ShowHandData, error) {
	var data ShowHandData
	err := json.Unmarshal(m.Data, &data)
	return data, err
}

// DecodeFullState unpacks a snapshot
func (m *Message) DecodeFullState() (*FullStateData, error) {
	var data FullStateData
	if err := json.Unmarshal(m.Data, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// DecodePeerQuit unpacks a quit notice
func (m *Message) DecodePeerQuit() (PeerQuitData, error) {
	var data PeerQuitData
	if len(m.Data) == 0 {
		return data, nil
	}
	err := json.Unmarshal(m.Data, &data)
	return data, err
}
