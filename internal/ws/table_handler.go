package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/cuesim/internal/auth"
	"github.com/playmatatu/cuesim/internal/physics"
	"github.com/playmatatu/cuesim/internal/sim"
)

// commandTimeout bounds how long a websocket command waits for the table.
const commandTimeout = 2 * time.Second

// Table is the part of sim.Session the websocket layer needs.
type Table interface {
	TableID() string
	Snapshot() physics.Snapshot
	Submit(ctx context.Context, cmd sim.Command) (sim.Result, error)
}

// HandleWebSocket upgrades viewers of a table. A valid controller token in
// ?token= lets the client send commands as well.
func HandleWebSocket(hub *Hub, table Table, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		controller := false
		if token := c.Query("token"); token != "" {
			tableID, err := auth.ParseControllerToken(jwtSecret, token)
			if err != nil || tableID != table.TableID() {
				c.JSON(401, gin.H{"error": "invalid controller token"})
				return
			}
			controller = true
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Upgrade error: %v", err)
			return
		}

		client := &Client{
			hub:        hub,
			conn:       conn,
			id:         newClientID(),
			controller: controller,
			send:       make(chan []byte, 64),
		}

		// The first message is always the current table.
		if data, err := json.Marshal(WSMessage{Type: "snapshot", TableID: table.TableID(), Data: table.Snapshot()}); err == nil {
			client.send <- data
		}

		select {
		case hub.register <- client:
		case <-hub.done:
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump(table)
	}
}

// readPump reads client messages until the connection fails.
func (c *Client) readPump(table Table) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Unexpected close for client %s: %v", c.id, err)
			}
			break
		}

		var msg inbound
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("Invalid message")
			continue
		}

		c.handleMessage(table, msg)
	}
}

func (c *Client) handleMessage(table Table, msg inbound) {
	switch msg.Type {
	case "command":
		if !c.controller {
			c.sendError("Controller token required")
			return
		}
		cmd, err := sim.ParseCommand(msg.Data)
		if err != nil {
			c.sendError(err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		res, err := table.Submit(ctx, cmd)
		if errors.Is(err, sim.ErrSessionClosed) {
			c.sendError("Table is not running")
			return
		}
		if err != nil {
			c.sendError(err.Error())
			return
		}
		c.reply(WSMessage{Type: "result", TableID: table.TableID(), Data: res})

	case "get_state":
		c.reply(WSMessage{Type: "snapshot", TableID: table.TableID(), Data: table.Snapshot()})

	case "ping":
		c.reply(WSMessage{Type: "pong"})

	default:
		c.sendError("Unknown message type")
	}
}
