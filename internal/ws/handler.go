package ws

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/playmatatu/cuesim/internal/physics"
	"github.com/playmatatu/cuesim/internal/sim"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Origins are checked by middleware.WebSocketCORSCheck.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client represents a connected WebSocket client
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	id         string
	controller bool
	send       chan []byte

	// closed is set under hub.mu when the hub closes send.
	closed bool
}

// Hub maintains the set of clients watching a table
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run registers and unregisters clients until ctx is cancelled, then closes
// every remaining connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			n := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WS] Client %s connected (controller=%v, clients=%d)", client.id, client.controller, n)

		case client := <-h.unregister:
			h.mu.Lock()
			if cur, ok := h.clients[client.id]; ok && cur == client {
				delete(h.clients, client.id)
				client.closed = true
				close(client.send)
				log.Printf("[WS] Client %s disconnected", client.id)
			}
			h.mu.Unlock()

		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				client.closed = true
				close(client.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			log.Printf("[WS] Hub stopped")
			return
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to every client. Clients with a full buffer
// miss the message.
func (h *Hub) Broadcast(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.send <- data:
		default:
			log.Printf("[WS] Client %s send buffer full, dropping message", client.id)
		}
	}
}

// PublishSnapshot broadcasts a table snapshot; it makes the hub a sim.SnapshotSink.
func (h *Hub) PublishSnapshot(ctx context.Context, tableID string, snap physics.Snapshot) error {
	h.Broadcast(WSMessage{Type: "snapshot", TableID: tableID, Data: snap})
	return nil
}

// PublishEvent broadcasts a table event; it makes the hub a sim.EventSink.
func (h *Hub) PublishEvent(ctx context.Context, ev sim.Event) error {
	h.Broadcast(WSMessage{Type: "event", TableID: ev.TableID, Data: ev})
	return nil
}

// WSMessage is the envelope of every message sent to clients.
type WSMessage struct {
	Type    string      `json:"type"`
	TableID string      `json:"table_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// inbound is a message read from a client.
type inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Channel closed: the hub dropped this client.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] Write error for client %s: %v", c.id, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] Ping error for client %s: %v", c.id, err)
				return
			}
		}
	}
}

// reply queues a message for this client only.
func (c *Client) reply(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WS] Error marshaling reply: %v", err)
		return
	}

	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("[WS] Client %s send buffer full, dropping reply", c.id)
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	c.reply(WSMessage{Type: "error", Message: message})
}

func newClientID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
