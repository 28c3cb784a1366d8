package transport

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 1 << 20
)

// Relay is the dumb fan-out hub. It holds no game state: every frame a
// peer publishes is forwarded verbatim to every connection in the same
// match room, the sender included. Gorilla guarantees frame order per
// connection, which gives the per-publisher FIFO the protocol needs.
type Relay struct {
	addr     string
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	rooms map[string]map[*relayConn]bool
}

// NewRelay creates a relay listening on addr
func NewRelay(addr string, logger *log.Logger) *Relay {
	return &Relay{
		addr:   addr,
		logger: logger.WithPrefix("relay"),
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		rooms: make(map[string]map[*relayConn]bool),
	}
}

// Router returns the relay's HTTP routes
func (r *Relay) Router() http.Handler {
	mux := chi.NewRouter()
	mux.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Get("/ws/{match}", r.handleWebSocket)
	return mux
}

// Start serves until ctx is cancelled
func (r *Relay) Start(ctx context.Context) error {
	srv := &http.Server{Addr: r.addr, Handler: r.Router()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r.logger.Info("Relay listening", "addr", r.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (r *Relay) handleWebSocket(w http.ResponseWriter, req *http.Request) {
	match := chi.URLParam(req, "match")
	if match == "" {
		http.Error(w, "match required", http.StatusBadRequest)
		return
	}

	ws, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Error("Upgrade failed", "error", err)
		return
	}

	conn := &relayConn{
		relay:  r,
		match:  match,
		ws:     ws,
		send:   make(chan []byte, 256),
		closed: make(chan struct{}),
	}
	r.join(conn)
	r.logger.Info("Peer connected", "match", match)

	go conn.writePump()
	go conn.readPump()
}

func (r *Relay) join(c *relayConn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room := r.rooms[c.match]
	if room == nil {
		room = make(map[*relayConn]bool)
		r.rooms[c.match] = room
	}
	room[c] = true
}

func (r *Relay) leave(c *relayConn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok := r.rooms[c.match]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(r.rooms, c.match)
		}
	}
}

// broadcast forwards a frame to every member of the room, sender
// included. A member with a full buffer is dropped rather than allowed
// to stall the room.
func (r *Relay) broadcast(match string, frame []byte) {
	r.mu.RLock()
	members := make([]*relayConn, 0, len(r.rooms[match]))
	for c := range r.rooms[match] {
		members = append(members, c)
	}
	r.mu.RUnlock()

	for _, c := range members {
		select {
		case c.send <- frame:
		default:
			r.logger.Warn("Dropping slow relay connection", "match", match)
			c.close()
		}
	}
}

// relayConn is one websocket attachment to a match room
type relayConn struct {
	relay     *Relay
	match     string
	ws        *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
	closed    chan struct{}
}

func (c *relayConn) close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.relay.leave(c)
		_ = c.ws.Close()
	})
}

func (c *relayConn) readPump() {
	defer c.close()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.relay.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.relay.broadcast(c.match, frame)
	}
}

func (c *relayConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closed:
			return
		}
	}
}
