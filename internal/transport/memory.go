package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/josephklwork-hash/headsup/internal/protocol"
)

// MemoryHub is an in-process fan-out channel with the same contract as
// the relay: every publish reaches every attached peer, including the
// publisher, in publish order. Used by solo mode and the protocol tests.
type MemoryHub struct {
	mu    sync.Mutex
	peers map[protocol.PeerID]*memoryChannel
}

// NewMemoryHub creates an empty hub
func NewMemoryHub() *MemoryHub {
	return &MemoryHub{peers: make(map[protocol.PeerID]*memoryChannel)}
}

// Join attaches a peer and returns its channel
func (h *MemoryHub) Join(peer protocol.PeerID) Channel {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := &memoryChannel{hub: h, peerID: peer}
	h.peers[peer] = c
	return c
}

// DropOnce makes the next fan-out to the given peer be lost, simulating
// an at-least-once channel that drops a delivery.
func (h *MemoryHub) DropOnce(peer protocol.PeerID) {
	h.mu.Lock()
	c, ok := h.peers[peer]
	h.mu.Unlock()
	if ok {
		c.mu.Lock()
		c.dropNext = true
		c.mu.Unlock()
	}
}

func (h *MemoryHub) broadcast(msg *protocol.Message) {
	h.mu.Lock()
	members := make([]*memoryChannel, 0, len(h.peers))
	for _, c := range h.peers {
		members = append(members, c)
	}
	h.mu.Unlock()

	for _, c := range members {
		c.deliver(msg)
	}
}

type memoryChannel struct {
	hub    *MemoryHub
	peerID protocol.PeerID

	mu       sync.Mutex
	handlers []Handler
	closed   bool
	dropNext bool
}

func (c *memoryChannel) Publish(ctx context.Context, msg *protocol.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return fmt.Errorf("channel closed")
	}

	msg.From = c.peerID
	c.hub.broadcast(msg)
	return nil
}

func (c *memoryChannel) Subscribe(handler Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

func (c *memoryChannel) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.hub.mu.Lock()
	delete(c.hub.peers, c.peerID)
	c.hub.mu.Unlock()
	return nil
}

func (c *memoryChannel) deliver(msg *protocol.Message) {
	c.mu.Lock()
	if c.closed || msg.From == c.peerID {
		c.mu.Unlock()
		return
	}
	if c.dropNext {
		c.dropNext = false
		c.mu.Unlock()
		return
	}
	handlers := make([]Handler, len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, handler := range handlers {
		handler(msg)
	}
}
