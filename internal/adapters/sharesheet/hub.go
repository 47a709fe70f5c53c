// Package sharesheet presents share sheets on a UI client attached over a
// WebSocket. The client shows the native share surface and answers with the
// completion status.
package sharesheet

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/cp25sy5-modjot/native-bridge/internal/domain"
	"github.com/cp25sy5-modjot/native-bridge/internal/ports"
)

var (
	ErrNoUIAttached = errors.New("no UI client attached")
	ErrDisconnected = errors.New("UI client disconnected")
	ErrClosed       = errors.New("share sheet hub closed")
)

const writeWait = 10 * time.Second

var testHookAfterTrack func(*client)

// frame is the wire message in both directions.
type frame struct {
	Type      string             `json:"type"`
	ID        string             `json:"id"`
	Subject   string             `json:"subject,omitempty"`
	Items     []domain.ShareItem `json:"items,omitempty"`
	Completed bool               `json:"completed,omitempty"`
	Error     string             `json:"error,omitempty"`
}

const (
	framePresent = "present"
	frameResult  = "result"
)

var _ ports.ShareSheet = (*Hub)(nil)

// Hub implements ports.ShareSheet. The most recent connection is the
// attached UI.
type Hub struct {
	upgrader websocket.Upgrader
	nextID   atomic.Uint64
	log      zerolog.Logger

	mu     sync.Mutex
	client *client
	closed bool
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			// the UI is an embedded app, not a browser page
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log.With().Str("component", "sharesheet").Logger(),
	}
}

// ServeHTTP attaches the connecting UI client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	c := &client{conn: conn, pending: make(map[string]ports.ShareDone)}
	if !h.attach(c) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	h.log.Info().Str("remote", r.RemoteAddr).Msg("ui client attached")

	c.readLoop(h.log)

	h.detach(c)
	h.log.Info().Str("remote", r.RemoteAddr).Msg("ui client detached")
}

func (h *Hub) Attached() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.client != nil
}

func (h *Hub) attach(c *client) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	old := h.client
	h.client = c
	h.mu.Unlock()
	if old != nil {
		_ = old.conn.Close()
	}
	return true
}

// Close detaches the UI client, fails its pending presentations and refuses
// later ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	c := h.client
	h.client = nil
	h.mu.Unlock()
	if c != nil {
		c.close()
	}
}

func (h *Hub) detach(c *client) {
	h.mu.Lock()
	if h.client == c {
		h.client = nil
	}
	h.mu.Unlock()
}

func (h *Hub) Present(ctx context.Context, sheet domain.ShareSheet, done ports.ShareDone) error {
	h.mu.Lock()
	c, closed := h.client, h.closed
	h.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if c == nil {
		return ErrNoUIAttached
	}

	id := strconv.FormatUint(h.nextID.Add(1), 10)
	if !c.track(id, done) {
		return ErrDisconnected
	}
	if testHookAfterTrack != nil {
		testHookAfterTrack(c)
	}
	err := c.write(frame{Type: framePresent, ID: id, Subject: sheet.Subject, Items: sheet.Items})
	if err != nil {
		if c.untrack(id) == nil {
			// the client closed first and already failed done
			return nil
		}
		return fmt.Errorf("send share sheet: %w", err)
	}
	return nil
}

type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]ports.ShareDone
	closed  bool
}

func (c *client) write(f frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(f)
}

func (c *client) track(id string, done ports.ShareDone) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.pending[id] = done
	return true
}

func (c *client) untrack(id string) ports.ShareDone {
	c.mu.Lock()
	defer c.mu.Unlock()
	done := c.pending[id]
	delete(c.pending, id)
	return done
}

func (c *client) readLoop(log zerolog.Logger) {
	defer c.close()
	for {
		var f frame
		if err := c.conn.ReadJSON(&f); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("ui read ended")
			}
			return
		}
		if f.Type != frameResult {
			continue
		}
		done := c.untrack(f.ID)
		if done == nil {
			log.Warn().Str("id", f.ID).Msg("result for unknown share sheet")
			continue
		}
		if f.Error != "" {
			done(false, errors.New(f.Error))
		} else {
			done(f.Completed, nil)
		}
	}
}

// close fails every presentation still waiting on this client.
func (c *client) close() {
	c.mu.Lock()
	c.closed = true
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	_ = c.conn.Close()
	for _, done := range pending {
		done(false, ErrDisconnected)
	}
}
