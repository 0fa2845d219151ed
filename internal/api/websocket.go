package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"docsync/internal/models"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsChannel adapts one websocket connection to services.Channel. Several
// sessions may share a connection, so writes are serialized.
type wsChannel struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	closed bool
}

func (c *wsChannel) Send(ctx context.Context, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("websocket closed")
	}
	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = c.conn.SetWriteDeadline(deadline)
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *wsChannel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

func (c *wsChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

type streamMessage struct {
	SessionID   string                           `json:"session_id"`
	EditRequest *models.EditDocumentationRequest `json:"edit_request"`
}

type protocolError struct {
	Error string `json:"error"`
}

func (c *wsChannel) reply(msg string) error {
	payload, err := json.Marshal(protocolError{Error: msg})
	if err != nil {
		return err
	}
	return c.Send(context.Background(), payload)
}

// streamEdits upgrades the connection and starts one streamed orchestration
// per inbound message. A new message for a running session supersedes it.
func (h *Handler) streamEdits(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	ch := &wsChannel{conn: conn}
	sessions := map[string]struct{}{}
	h.logger.Info("websocket connection accepted", "remote", r.RemoteAddr)

	defer func() {
		for id := range sessions {
			h.sessions.Disconnect(id)
		}
		_ = ch.Close()
		h.logger.Info("websocket disconnected", "sessions", len(sessions))
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read error", "error", err)
			}
			return
		}

		var msg streamMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = ch.reply("Invalid JSON format")
			continue
		}
		if msg.SessionID == "" {
			_ = ch.reply("session_id is required")
			continue
		}
		if msg.EditRequest == nil {
			_ = ch.reply("edit_request is required")
			continue
		}

		id, req := msg.SessionID, *msg.EditRequest
		sessions[id] = struct{}{}
		h.sessions.Connect(id, ch)
		h.sessions.Start(r.Context(), id, func(ctx context.Context) {
			h.sessions.Pump(ctx, id, h.edits.EditDocumentationStream(ctx, req, id))
		})
		h.logger.Info("started edit processing", "session", id)
	}
}
