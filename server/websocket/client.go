package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second    // Time allowed to write a message to the peer.
	pongWait       = 60 * time.Second    // Time allowed to read the next pong message from the peer.
	pingPeriod     = (pongWait * 9) / 10 // Send pings with this period; must be less than pongWait.
	maxMessageSize = 64 * 1024           // Landmark frames dominate inbound size.
	sendBufferSize = 64
)

// Envelope is the typed wire format in both directions.
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// InboundMessage is one decoded client message.
type InboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// MessageHandler processes one inbound message for a client. The returned
// envelope, if non-nil, is written back to the same connection.
type MessageHandler func(client *Client, msg InboundMessage) *Envelope

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	UserID    int32
	SessionID string

	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	handler MessageHandler

	// sendMu serializes writes to send against closeSend so that a hub
	// shutdown racing an inbound message cannot send on a closed channel.
	sendMu     sync.Mutex
	sendClosed bool
}

// NewClient wraps an upgraded connection. The caller starts ReadPump and
// WritePump on separate goroutines and registers the client on the hub.
func NewClient(hub *Hub, conn *websocket.Conn, userID int32, sessionID string, handler MessageHandler) *Client {
	return &Client{
		UserID:    userID,
		SessionID: sessionID,
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		handler:   handler,
	}
}

// Register adds the client to its hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// Reply queues a message for this client only.
func (c *Client) Reply(msgType string, payload any) {
	raw, err := json.Marshal(Envelope{Type: msgType, Payload: payload})
	if err != nil {
		c.hub.logger.Error("failed to marshal websocket reply", "type", msgType, "err", err)
		return
	}
	if !c.trySend(raw) {
		c.hub.logger.Warn("websocket reply dropped", "session_id", c.SessionID)
	}
}

// trySend queues raw on the send channel without blocking. It returns
// false when the buffer is full or the channel is already closed.
func (c *Client) trySend(raw []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.sendClosed {
		return false
	}
	select {
	case c.send <- raw:
		return true
	default:
		return false
	}
}

// closeSend closes the send channel exactly once, from the hub's removal
// paths. After it returns, Reply becomes a no-op and WritePump drains out.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.sendClosed {
		c.sendClosed = true
		close(c.send)
	}
}

// detach hands the client back to the hub for removal. When the hub has
// already shut down there is no run loop left to receive it, so the send
// channel is closed directly instead of blocking forever.
func (c *Client) detach() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
		c.closeSend()
	}
}

// ReadPump pumps messages from the websocket connection to the handler.
func (c *Client) ReadPump() {
	defer func() {
		c.detach()
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read error", "session_id", c.SessionID, "err", err)
			}
			return
		}

		var msg InboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.Reply("error", map[string]string{"message": "malformed message"})
			continue
		}
		if reply := c.handler(c, msg); reply != nil {
			c.Reply(reply.Type, reply.Payload)
		}
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case raw, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
