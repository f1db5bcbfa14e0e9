// Package live hosts one conversation per websocket connection.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	model "github.com/fappie/backend/internal/model/conversation"
	"github.com/fappie/backend/internal/model/mode"
	"github.com/fappie/backend/internal/richtext"
	"github.com/fappie/backend/internal/service/conversation"
	"github.com/fappie/backend/pkg/logger"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// Handler upgrades gated requests to the live conversation protocol.
type Handler struct {
	gen      conversation.Generator
	upgrader websocket.Upgrader
}

// New creates the live conversation handler.
func New(gen conversation.Generator) *Handler {
	return &Handler{
		gen: gen,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// RegisterRoutes registers the websocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// sendData carries a chat message. Notes turn Text into a transcript with
// extra remarks.
type sendData struct {
	Text  string `json:"text"`
	Notes string `json:"notes"`
}

func (d sendData) message() string {
	if strings.TrimSpace(d.Notes) == "" {
		return d.Text
	}
	return model.TranscriptMessage(d.Text, d.Notes)
}

type modeData struct {
	Mode string `json:"mode"`
}

// stateView is a state message. Copy is ready for the clipboard so the page
// can write it inside the click handler.
type stateView struct {
	conversation.State
	Copy *richtext.Payload `json:"copy,omitempty"`
}

func newStateView(s conversation.State) stateView {
	view := stateView{State: s}
	if source := conversation.CopySource(s); source != "" {
		payload := richtext.NewPayload(source)
		view.Copy = &payload
	}
	return view
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// connection serializes writes; gorilla allows one concurrent writer.
type connection struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *connection) write(msgType string, data interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	msg := outgoingMessage{Type: msgType, Data: data, Timestamp: time.Now().Unix()}
	if err := c.conn.WriteJSON(msg); err != nil {
		logger.Debugf("[live] write %s failed conn=%s: %v", msgType, c.id, err)
	}
}

func (c *connection) sendError(message string) {
	c.write("error", map[string]string{"message": message})
}

func (c *connection) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.gen == nil {
		http.Error(w, "generation unavailable", http.StatusServiceUnavailable)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnf("[live] upgrade failed: %v", err)
		return
	}
	defer ws.Close()

	conn := &connection{id: uuid.NewString(), conn: ws}
	logger.Infof("[live] connection opened conn=%s", conn.id)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	machine := conversation.New(h.gen, mode.Parse(r.URL.Query().Get("mode")), conversation.WithObserver(func(s conversation.State) {
		conn.write("state", newStateView(s))
	}))
	defer machine.Close()

	_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go h.pingLoop(ctx, conn)

	conn.write("state", newStateView(machine.Snapshot()))

	for {
		var msg inboundMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warnf("[live] read error conn=%s: %v", conn.id, err)
			}
			logger.Infof("[live] connection closed conn=%s", conn.id)
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(readTimeout))

		h.handleMessage(ctx, conn, machine, msg)
	}
}

func (h *Handler) handleMessage(ctx context.Context, conn *connection, machine *conversation.Machine, msg inboundMessage) {
	switch msg.Type {
	case "send":
		var data sendData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			conn.sendError("invalid send payload")
			return
		}
		if _, err := machine.Send(ctx, data.message()); err != nil {
			switch {
			case errors.Is(err, conversation.ErrEmptyInput):
				conn.sendError("Bericht is leeg")
			case errors.Is(err, conversation.ErrBusy):
				conn.sendError("Even geduld, er wordt nog gegenereerd")
			default:
				conn.sendError(err.Error())
			}
		}
	case "reset":
		machine.Reset()
	case "mode":
		var data modeData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			conn.sendError("invalid mode payload")
			return
		}
		machine.SwitchMode(mode.Parse(data.Mode))
	case "copy":
		source := machine.CopySource()
		if source == "" {
			conn.sendError("Niets om te kopiëren")
			return
		}
		conn.write("copy", richtext.NewPayload(source))
	default:
		conn.sendError("unsupported message type: " + msg.Type)
	}
}

func (h *Handler) pingLoop(ctx context.Context, conn *connection) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				return
			}
		}
	}
}
