package ws

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/ericfisherdev/textenhance/internal/domain/model"
)

// DefaultOriginPatterns allow local development origins.
var DefaultOriginPatterns = []string{
	"localhost",
	"localhost:*",
	"127.0.0.1",
	"127.0.0.1:*",
	"[::1]",
	"[::1]:*",
}

// Events is the coordinator surface the read loops dispatch to.
type Events interface {
	HandleSelectionChanged(ctx context.Context, sel model.Selection) error
	HandleMenuClick(ctx context.Context, click model.MenuClick) error
	LatestSelection(ctx context.Context, windowID int) (model.Selection, bool)
}

// Handler upgrades page and panel connections and runs their read loops.
type Handler struct {
	hub            *Hub
	events         Events
	originPatterns []string
	logger         *slog.Logger
}

// NewHandler creates a Handler. A nil originPatterns uses DefaultOriginPatterns.
func NewHandler(hub *Hub, events Events, originPatterns []string, logger *slog.Logger) *Handler {
	if originPatterns == nil {
		originPatterns = DefaultOriginPatterns
	}
	return &Handler{hub: hub, events: events, originPatterns: originPatterns, logger: logger}
}

// RegisterRoutes mounts the WebSocket endpoints on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/page", h.handlePage)
	mux.HandleFunc("GET /ws/panel", h.handlePanel)
}

func (h *Handler) accept(w http.ResponseWriter, r *http.Request) (*websocket.Conn, bool) {
	// The server's read/write timeouts would otherwise carry over to the
	// hijacked connection and cut long-lived sockets.
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.originPatterns})
	if err != nil {
		h.logger.Warn("websocket accept failed", "error", err)
		return nil, false
	}
	return ws, true
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	tabID, err := strconv.Atoi(r.URL.Query().Get("tab"))
	if err != nil {
		http.Error(w, "invalid tab", http.StatusBadRequest)
		return
	}
	windowID, err := strconv.Atoi(r.URL.Query().Get("window"))
	if err != nil {
		http.Error(w, "invalid window", http.StatusBadRequest)
		return
	}

	ws, ok := h.accept(w, r)
	if !ok {
		return
	}

	c := h.hub.newConn(ws, tabID, windowID)
	h.hub.addPage(c)
	h.logger.Info("page connected", "conn_id", c.id, "tab_id", tabID, "window_id", windowID)

	go h.hub.writeLoop(c)
	h.pageReadLoop(r.Context(), c)

	c.close()
	h.hub.removePage(c)
	ws.Close(websocket.StatusNormalClosure, "")
	h.logger.Info("page disconnected", "conn_id", c.id, "tab_id", tabID)
}

func (h *Handler) handlePanel(w http.ResponseWriter, r *http.Request) {
	windowID, err := strconv.Atoi(r.URL.Query().Get("window"))
	if err != nil {
		http.Error(w, "invalid window", http.StatusBadRequest)
		return
	}

	ws, ok := h.accept(w, r)
	if !ok {
		return
	}

	c := h.hub.newConn(ws, 0, windowID)
	h.hub.addPanel(c)
	h.logger.Info("panel connected", "conn_id", c.id, "window_id", windowID)

	go h.hub.writeLoop(c)
	h.panelReadLoop(r.Context(), c)

	c.close()
	h.hub.removePanel(c)
	ws.Close(websocket.StatusNormalClosure, "")
	h.logger.Info("panel disconnected", "conn_id", c.id, "window_id", windowID)
}

func (h *Handler) pageReadLoop(ctx context.Context, c *conn) {
	for {
		select {
		case <-c.done:
			return
		default:
		}

		var msg Message
		if err := wsjson.Read(ctx, c.ws, &msg); err != nil {
			return // connection closed or error
		}

		var err error
		switch msg.Type {
		case TypeSelectionChanged:
			err = h.events.HandleSelectionChanged(ctx, model.Selection{
				Text:     msg.Text,
				TabID:    c.tabID,
				WindowID: c.windowID,
			})
		case TypeContextMenu:
			err = h.events.HandleMenuClick(ctx, model.MenuClick{
				MenuItemID:    msg.MenuItemID,
				TabID:         c.tabID,
				WindowID:      c.windowID,
				SelectionText: msg.Text,
			})
		case TypeReplaceTextResult:
			h.hub.resolve(msg.ID, msg.Success)
		default:
			h.logger.Debug("ignoring page message", "type", msg.Type)
		}
		if err != nil {
			h.logger.Warn("page message failed", "type", msg.Type, "error", err)
		}
	}
}

// panelReadLoop answers "ready" with the window's latest selection so a panel
// opened after the menu click still receives the text.
func (h *Handler) panelReadLoop(ctx context.Context, c *conn) {
	for {
		select {
		case <-c.done:
			return
		default:
		}

		var msg Message
		if err := wsjson.Read(ctx, c.ws, &msg); err != nil {
			return
		}

		if msg.Type != TypeReady {
			h.logger.Debug("ignoring panel message", "type", msg.Type)
			continue
		}
		if sel, ok := h.events.LatestSelection(ctx, c.windowID); ok {
			c.trySend(Message{Type: TypeTextSelected, Text: sel.Text})
		}
	}
}
