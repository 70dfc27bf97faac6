package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	"github.com/segmentio/ksuid"
)

var (
	upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development, configure for production
			return true
		},
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

// Client is one WebSocket subscriber
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
	Hub  *EventHub
}

// EventHub fans lifecycle events out to connected WebSocket clients.
// Events arrive over NATS from whichever service published them, so a
// dashboard sees booking, complaint and collection activity live.
type EventHub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	natsConn   *nats.Conn
	sub        *nats.Subscription
	mu         sync.RWMutex
}

// NewEventHub creates a new event hub
func NewEventHub(nc *nats.Conn) *EventHub {
	return &EventHub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		natsConn:   nc,
	}
}

// Run starts the hub's event loop
func (h *EventHub) Run() {
	if h.natsConn != nil {
		sub, err := h.natsConn.Subscribe("hms.event.>", func(msg *nats.Msg) {
			data, err := json.Marshal(map[string]interface{}{
				"type": strings.TrimPrefix(msg.Subject, "hms.event."),
				"data": json.RawMessage(msg.Data),
			})
			if err != nil {
				log.Printf("[WS] Failed to marshal broadcast message: %v", err)
				return
			}
			h.broadcast <- data
		})
		if err != nil {
			log.Printf("[WS] Failed to subscribe to NATS: %v", err)
		} else {
			h.sub = sub
			log.Println("[WS] Hub started, subscribed to lifecycle events")
		}
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("[WS] Client connected: %s, total clients: %d", client.ID, len(h.clients))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			log.Printf("[WS] Client disconnected: %s, total clients: %d", client.ID, len(h.clients))

		case message := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			for _, client := range clients {
				select {
				case client.Send <- message:
				default:
					// Client send buffer is full, close connection
					h.unregister <- client
				}
			}
		}
	}
}

// Stop stops the hub and cleans up resources
func (h *EventHub) Stop() {
	if h.sub != nil {
		h.sub.Unsubscribe()
	}
	h.mu.Lock()
	for client := range h.clients {
		close(client.Send)
		client.Conn.Close()
		delete(h.clients, client)
	}
	h.mu.Unlock()
}

// GetClientCount returns the number of connected clients
func (h *EventHub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ReadPump handles incoming messages from the client
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(64 * 1024)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Client %s read error: %v", c.ID, err)
			}
			break
		}

		// The only client message is a ping
		var wsMsg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(message, &wsMsg); err == nil && wsMsg.Type == "ping" {
			select {
			case c.Send <- []byte(`{"type":"pong"}`):
			default:
			}
		}
	}
}

// WritePump handles outgoing messages to the client
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Drain queued messages into the same frame
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// WSHandler serves WebSocket connections
type WSHandler struct {
	hub *EventHub
}

// NewWSHandler creates a new WebSocket handler
func NewWSHandler(hub *EventHub) *WSHandler {
	return &WSHandler{hub: hub}
}

// HandleEvents upgrades the connection and streams lifecycle events
func (h *WSHandler) HandleEvents(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Failed to upgrade connection: %v", err)
		return
	}

	clientID := c.Query("client_id")
	if clientID == "" {
		clientID = ksuid.New().String()
	}

	client := &Client{
		ID:   clientID,
		Conn: conn,
		Send: make(chan []byte, 256),
		Hub:  h.hub,
	}
	client.Hub.register <- client

	go client.WritePump()
	go client.ReadPump()

	welcome := map[string]interface{}{
		"type":      "connected",
		"message":   "Connected to OpenHMS event stream",
		"client_id": clientID,
	}
	if data, err := json.Marshal(welcome); err == nil {
		select {
		case client.Send <- data:
		default:
		}
	}
}

// GetStats returns WebSocket hub statistics
func (h *WSHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"connected_clients": h.hub.GetClientCount(),
	})
}
