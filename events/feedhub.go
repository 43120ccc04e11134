package events

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
)

// FeedHub bridges the appointment event bus to WebSocket clients. Every
// connected client receives every event; a client whose send buffer is full
// misses events rather than blocking the bus.
type FeedHub struct {
	natsConn *nats.Conn

	clients   map[*FeedClient]bool
	clientsMu sync.RWMutex

	register   chan *FeedClient
	unregister chan *FeedClient

	sub   *nats.Subscription
	ready atomic.Bool
}

// FeedClient represents one WebSocket subscriber.
type FeedClient struct {
	hub        *FeedHub
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string
	username   string
}

func NewFeedHub(natsConn *nats.Conn) *FeedHub {
	return &FeedHub{
		natsConn:   natsConn,
		clients:    make(map[*FeedClient]bool),
		register:   make(chan *FeedClient),
		unregister: make(chan *FeedClient),
	}
}

// Run starts the hub loop and the bus subscription; call it in a goroutine.
func (h *FeedHub) Run() {
	sub, err := h.natsConn.Subscribe("appointments.>", func(msg *nats.Msg) {
		h.broadcast(msg.Data)
	})
	if err != nil {
		log.Printf("feed hub subscribe failed: %v", err)
		return
	}
	h.sub = sub
	h.ready.Store(true)
	log.Println("appointment feed hub started")

	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			h.clients[client] = true
			h.clientsMu.Unlock()
			log.Printf("feed client connected: %s (%s)", client.username, client.remoteAddr)

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.clientsMu.Unlock()
			log.Printf("feed client disconnected: %s", client.remoteAddr)
		}
	}
}

func (h *FeedHub) broadcast(data []byte) {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// client buffer full, drop the event
		}
	}
}

// Ready reports whether the hub loop is consuming registrations.
func (h *FeedHub) Ready() bool {
	return h.ready.Load()
}

// Register attaches a WebSocket connection to the hub and starts its pumps.
// If the hub loop never started, registering would block forever, so the
// connection is dropped instead.
func (h *FeedHub) Register(conn *websocket.Conn, username string) {
	if !h.ready.Load() {
		if conn != nil {
			conn.Close()
		}
		return
	}
	client := &FeedClient{
		hub:        h,
		conn:       conn,
		send:       make(chan []byte, 64),
		remoteAddr: conn.RemoteAddr().String(),
		username:   username,
	}
	h.register <- client
	go client.writePump()
	go client.readPump()
}

// ClientCount reports how many subscribers are attached.
func (h *FeedHub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (c *FeedClient) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// readPump drains (and ignores) client messages so pings and close frames
// are processed; any read error tears the client down.
func (c *FeedClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
