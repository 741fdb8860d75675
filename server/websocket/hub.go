// Package websocket maintains the live monitoring connections. Clients
// stream webcam, typing and biosignal events in and receive analysis
// results and alerts back on the same connection.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Hub maintains the set of active clients and routes outbound messages.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	closeOnce  sync.Once

	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHub creates a hub. Run must be started on its own goroutine.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes register/unregister events until Shutdown.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("websocket client registered", "session_id", client.SessionID)

		case client := <-h.unregister:
			h.removeClient(client)

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				client.closeSend()
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Shutdown closes all connections and stops the run loop.
func (h *Hub) Shutdown() {
	h.closeOnce.Do(func() { close(h.done) })
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		client.closeSend()
		h.logger.Debug("websocket client unregistered", "session_id", client.SessionID)
	}
}

// SendToUser delivers a typed message to every connection of one user.
// When a client's send buffer is full the message is dropped; the client
// stays registered because its ReadPump may still be live, and a truly
// dead peer is reaped by the ping/pong deadline. Closing the channel here
// would race concurrent Reply calls.
func (h *Hub) SendToUser(userID int32, msgType string, payload any) {
	raw, err := json.Marshal(Envelope{Type: msgType, Payload: payload})
	if err != nil {
		h.logger.Error("failed to marshal websocket message", "type", msgType, "err", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if client.UserID != userID {
			continue
		}
		if !client.trySend(raw) {
			h.logger.Warn("websocket send buffer full, dropping message", "session_id", client.SessionID)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
