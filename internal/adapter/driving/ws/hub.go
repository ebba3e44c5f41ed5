package ws

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/ericfisherdev/textenhance/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.PageMessenger = (*Hub)(nil)
	_ driven.PanelNotifier = (*Hub)(nil)
)

const (
	sendQueueSize = 32
	writeTimeout  = 5 * time.Second
)

var (
	errPageDisconnected = errors.New("page disconnected before replying")
	errSendQueueFull    = errors.New("page send queue full")
)

// conn tracks a single WebSocket connection.
type conn struct {
	id        uint64
	ws        *websocket.Conn
	tabID     int
	windowID  int
	sendCh    chan Message // buffered outbound queue
	done      chan struct{}
	closeOnce sync.Once
}

func (c *conn) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// trySend queues msg without blocking. It reports false when the queue is full
// or the connection is closing.
func (c *conn) trySend(msg Message) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.sendCh <- msg:
		return true
	default:
		return false
	}
}

// Hub is the registry of live page and panel connections. It implements the
// coordinator's outbound ports.
type Hub struct {
	mu      sync.Mutex
	pages   map[int]*conn    // by tab id; the newest connection for a tab wins
	panels  map[uint64]*conn // by connection id
	pending map[string]chan bool

	nextID atomic.Uint64
	logger *slog.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		pages:   make(map[int]*conn),
		panels:  make(map[uint64]*conn),
		pending: make(map[string]chan bool),
		logger:  logger,
	}
}

func (h *Hub) newConn(ws *websocket.Conn, tabID, windowID int) *conn {
	return &conn{
		id:       h.nextID.Add(1),
		ws:       ws,
		tabID:    tabID,
		windowID: windowID,
		sendCh:   make(chan Message, sendQueueSize),
		done:     make(chan struct{}),
	}
}

func (h *Hub) addPage(c *conn) {
	h.mu.Lock()
	prev := h.pages[c.tabID]
	h.pages[c.tabID] = c
	h.mu.Unlock()

	if prev != nil {
		prev.close()
		prev.ws.Close(websocket.StatusNormalClosure, "superseded by a newer connection")
	}
}

func (h *Hub) removePage(c *conn) {
	h.mu.Lock()
	if h.pages[c.tabID] == c {
		delete(h.pages, c.tabID)
	}
	h.mu.Unlock()
}

func (h *Hub) addPanel(c *conn) {
	h.mu.Lock()
	h.panels[c.id] = c
	h.mu.Unlock()
}

func (h *Hub) removePanel(c *conn) {
	h.mu.Lock()
	delete(h.panels, c.id)
	h.mu.Unlock()
}

// Connections returns the number of live page and panel connections.
func (h *Hub) Connections() (pages, panels int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pages), len(h.panels)
}

// OpenPanel asks every page in windowID to open the side panel.
func (h *Hub) OpenPanel(_ context.Context, windowID int) int {
	h.mu.Lock()
	var targets []*conn
	for _, c := range h.pages {
		if c.windowID == windowID {
			targets = append(targets, c)
		}
	}
	h.mu.Unlock()

	return h.broadcast(targets, Message{Type: TypeOpenPanel, WindowID: windowID})
}

// NotifyTextSelected pushes text to every panel open in windowID.
func (h *Hub) NotifyTextSelected(_ context.Context, windowID int, text string) int {
	h.mu.Lock()
	var targets []*conn
	for _, c := range h.panels {
		if c.windowID == windowID {
			targets = append(targets, c)
		}
	}
	h.mu.Unlock()

	return h.broadcast(targets, Message{Type: TypeTextSelected, Text: text})
}

func (h *Hub) broadcast(targets []*conn, msg Message) int {
	var delivered int
	for _, c := range targets {
		if c.trySend(msg) {
			delivered++
		} else {
			h.logger.Warn("ws: dropped message for slow client", "type", msg.Type, "conn_id", c.id)
		}
	}
	return delivered
}

// ReplaceText sends a replaceText request to the page in tabID and waits for
// the matching replaceTextResult.
func (h *Hub) ReplaceText(ctx context.Context, tabID int, text string) (bool, error) {
	id := uuid.NewString()
	reply := make(chan bool, 1)

	h.mu.Lock()
	c, ok := h.pages[tabID]
	if ok {
		h.pending[id] = reply
	}
	h.mu.Unlock()

	if !ok {
		return false, fmt.Errorf("replace text in tab %d: %w", tabID, driven.ErrNoPageConnection)
	}

	defer func() {
		h.mu.Lock()
		delete(h.pending, id)
		h.mu.Unlock()
	}()

	if !c.trySend(Message{Type: TypeReplaceText, ID: id, Text: text}) {
		return false, fmt.Errorf("replace text in tab %d: %w", tabID, errSendQueueFull)
	}

	select {
	case success := <-reply:
		return success, nil
	case <-c.done:
		return false, fmt.Errorf("replace text in tab %d: %w", tabID, errPageDisconnected)
	case <-ctx.Done():
		return false, fmt.Errorf("replace text in tab %d: %w", tabID, ctx.Err())
	}
}

// resolve delivers a page's reply to the waiting ReplaceText call. Replies with
// unknown or expired ids are dropped.
func (h *Hub) resolve(id string, success bool) {
	h.mu.Lock()
	reply, ok := h.pending[id]
	h.mu.Unlock()

	if !ok {
		h.logger.Debug("ws: reply for unknown request", "id", id)
		return
	}
	select {
	case reply <- success:
	default:
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*conn, 0, len(h.pages)+len(h.panels))
	for _, c := range h.pages {
		conns = append(conns, c)
	}
	for _, c := range h.panels {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		c.close()
		c.ws.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

func (h *Hub) writeLoop(c *conn) {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.sendCh:
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			err := wsjson.Write(ctx, c.ws, msg)
			cancel()
			if err != nil {
				c.close()
				return
			}
		}
	}
}
