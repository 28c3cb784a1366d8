package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/josephklwork-hash/headsup/internal/protocol"
)

// Client attaches one peer to a match room on the relay. It implements
// Channel: publishes are stamped with the peer's identity, and the
// relay's echo of our own frames is dropped before dispatch so a
// fan-out channel never feeds a peer its own broadcasts.
type Client struct {
	peerID protocol.PeerID
	logger *log.Logger
	conn   *websocket.Conn

	mu        sync.Mutex
	handlers  []Handler
	connected bool
	stop      chan struct{}
}

// Dial connects to the relay's match room. relayURL may use http(s) or
// ws(s) schemes.
func Dial(relayURL, match string, peer protocol.PeerID, logger *log.Logger) (*Client, error) {
	u, err := url.Parse(relayURL)
	if err != nil {
		return nil, fmt.Errorf("invalid relay URL: %w", err)
	}
	switch u.Scheme {
	case "http", "":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws/" + match

	logger.Info("Connecting to relay", "url", u.String(), "peer", peer)
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	c := &Client{
		peerID:    peer,
		logger:    logger.WithPrefix("channel").With("peer", peer),
		conn:      conn,
		connected: true,
		stop:      make(chan struct{}),
	}
	go c.readMessages()
	return c, nil
}

// Publish sends a message to every subscriber of the match
func (c *Client) Publish(ctx context.Context, msg *protocol.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg.From = c.peerID

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return fmt.Errorf("channel closed")
	}
	return c.conn.WriteJSON(msg)
}

// Subscribe registers a handler for incoming messages
func (c *Client) Subscribe(handler Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Close detaches from the relay
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return nil
	}
	c.connected = false
	close(c.stop)

	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}

// readMessages dispatches incoming frames serially on one goroutine:
// each peer is an event-driven loop and handlers run to completion.
func (c *Client) readMessages() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
	}()

	for {
		select {
		case <-c.stop:
			return
		default:
		}

		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		var msg protocol.Message
		if err := json.Unmarshal(frame, &msg); err != nil {
			c.logger.Warn("Dropping malformed frame", "error", err)
			continue
		}
		if msg.From == c.peerID {
			continue // our own echo
		}
		c.dispatch(&msg)
	}
}

func (c *Client) dispatch(msg *protocol.Message) {
	c.mu.Lock()
	handlers := make([]Handler, len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, handler := range handlers {
		handler(msg)
	}
}
