package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	dcerr "github.com/msto63/deepclock/foundation/core/error"
	"github.com/msto63/deepclock/pkg/core/logging"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// WSMessage represents a client message
type WSMessage struct {
	Type    string          `json:"type"` // "ping", "snapshot"
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WSResponse represents a server message
type WSResponse struct {
	Type    string      `json:"type"` // "snapshot", "pong", "error"
	Payload interface{} `json:"payload"`
}

// WSErrorPayload represents an error payload
type WSErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WebSocketHandler streams snapshots to connected displays
type WebSocketHandler struct {
	server   *Server
	upgrader websocket.Upgrader
	logger   *logging.Logger
}

func newWebSocketHandler(s *Server) *WebSocketHandler {
	h := &WebSocketHandler{
		server: s,
		logger: s.logger.Named("ws"),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin allows every origin unless allowed_origins is configured.
// Requests without an Origin header are not from browsers and pass.
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	allowed := h.server.config.AllowedOrigins
	if len(allowed) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, a := range allowed {
		if a == origin {
			return true
		}
	}
	h.logger.Warn("WebSocket origin rejected", "origin", origin)
	return false
}

// ServeHTTP handles WebSocket upgrade and connections
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}

	id := uuid.New().String()
	c := &wsConn{
		conn:   conn,
		logger: logging.Wrap(h.logger.WithConnID(id), h.logger.Name()),
	}
	h.handleConnection(r.Context(), c)
}

// wsConn serializes writes to one websocket connection
type wsConn struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	logger *logging.Logger
}

func (c *wsConn) send(resp WSResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(resp)
}

func (c *wsConn) sendError(code, message string) error {
	return c.send(WSResponse{
		Type: "error",
		Payload: WSErrorPayload{
			Code:    code,
			Message: message,
		},
	})
}

// handleConnection runs the push loop and reads client messages until the
// client leaves or ctx ends
func (h *WebSocketHandler) handleConnection(parent context.Context, c *wsConn) {
	defer c.conn.Close()

	c.logger.Info("WebSocket connection established", "remote", c.conn.RemoteAddr().String())

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.pushLoop(ctx, c)
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Closing the connection unblocks ReadJSON when the server shuts down.
	go func() {
		<-ctx.Done()
		c.conn.Close()
	}()

	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) && ctx.Err() == nil {
				c.logger.Error("WebSocket read error", "error", err)
			} else {
				c.logger.Info("WebSocket connection closed")
			}
			break
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		switch msg.Type {
		case "ping":
			c.send(WSResponse{Type: "pong", Payload: nil})
		case "snapshot":
			h.pushSnapshot(ctx, c)
		default:
			c.sendError("unknown_type", "Unknown message type: "+msg.Type)
		}
	}

	cancel()
	wg.Wait()
}

// pushLoop sends a snapshot immediately and then every push interval
func (h *WebSocketHandler) pushLoop(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(h.server.config.PushInterval)
	defer ticker.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	if err := h.pushSnapshot(ctx, c); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := h.pushSnapshot(ctx, c); err != nil {
				return
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// pushSnapshot sends one snapshot, or an error message when the interval
// cannot be resolved. Only write failures are returned.
func (h *WebSocketHandler) pushSnapshot(ctx context.Context, c *wsConn) error {
	iv, _, err := h.server.intervals.Resolve(ctx)
	if err == nil {
		snap, serr := h.server.clock.Snapshot(iv)
		if serr == nil {
			return c.send(WSResponse{Type: "snapshot", Payload: snap})
		}
		err = serr
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	// A missing interval is the normal state until one is saved.
	if !dcerr.HasCode(err, dcerr.CodeNotFound) {
		c.logger.LogError(err)
	}
	return c.sendError(string(dcerr.GetCode(err)), err.Error())
}
