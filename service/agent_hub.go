package service

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	agentFeedReadLimit  = 4 * 1024
	agentFeedPongWait   = 60 * time.Second
	agentFeedPingPeriod = 30 * time.Second
	agentFeedWriteWait  = 5 * time.Second
	agentFeedBacklog    = 64
)

// InboundNotification is broadcast to connected operators when a Human-mode
// conversation receives a message.
type InboundNotification struct {
	Type       string `json:"type"`
	LineUserID string `json:"line_user_id"`
	Text       string `json:"text"`
	ReceivedAt int64  `json:"received_at"`
}

// AgentHub fans Human-mode inbound messages out to operator dashboards over
// websocket. Losing a socket never affects message dispatch.
type AgentHub struct {
	upgrader websocket.Upgrader

	notifications chan InboundNotification

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewAgentHub() *AgentHub {
	h := &AgentHub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
		notifications: make(chan InboundNotification, agentFeedBacklog),
		conns:         make(map[*websocket.Conn]struct{}),
	}
	go h.broadcastLoop()
	return h
}

// HandleAgentFeed upgrades the request and keeps the connection registered
// until the operator disconnects. Inbound frames are only read to service
// pings and detect closure.
func (h *AgentHub) HandleAgentFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Warn("agent feed upgrade failed", zap.Error(err))
		return
	}

	conn.SetReadLimit(agentFeedReadLimit)
	conn.SetReadDeadline(time.Now().Add(agentFeedPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(agentFeedPongWait))
		return nil
	})

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.conns, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(agentFeedPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(agentFeedWriteWait)); err != nil {
					return
				}
			}
		}
	}()
	defer close(done)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Warn("agent feed read error", zap.Error(err))
			}
			return
		}
	}
}

// NotifyInbound never blocks: the notification is queued for the broadcast
// goroutine, and dropped with a warning when the backlog is full.
func (h *AgentHub) NotifyInbound(lineUserID, text string) {
	note := InboundNotification{
		Type:       "inbound_message",
		LineUserID: lineUserID,
		Text:       text,
		ReceivedAt: time.Now().Unix(),
	}

	select {
	case h.notifications <- note:
	default:
		zap.L().Warn("agent feed backlog full, dropping notification", zap.String("line_user_id", lineUserID))
	}
}

func (h *AgentHub) broadcastLoop() {
	for note := range h.notifications {
		h.broadcast(note)
	}
}

func (h *AgentHub) broadcast(note InboundNotification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.SetWriteDeadline(time.Now().Add(agentFeedWriteWait))
		if err := conn.WriteJSON(note); err != nil {
			zap.L().Warn("agent feed write failed", zap.Error(err))
			conn.Close()
			delete(h.conns, conn)
		}
	}
}
