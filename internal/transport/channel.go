// Package transport provides the match-scoped fan-out channel the
// replication protocol runs over: at-least-once delivery, FIFO per
// publisher, no guarantee across a disconnect. Publishers receive their
// own messages back; filtering echoes by sender identity happens at the
// subscription boundary.
package transport

import (
	"context"

	"github.com/josephklwork-hash/headsup/internal/protocol"
)

// Handler consumes messages delivered on a channel. Handlers run on the
// channel's single dispatch goroutine; they must not block.
type Handler func(*protocol.Message)

// Channel is one peer's attachment to a match's broadcast channel.
type Channel interface {
	// Publish fans the message out to every subscriber of the match,
	// including the publisher itself.
	Publish(ctx context.Context, msg *protocol.Message) error

	// Subscribe registers a handler for delivered messages. Messages
	// published by this peer are filtered out before dispatch.
	Subscribe(handler Handler)

	// Close detaches from the channel.
	Close() error
}
