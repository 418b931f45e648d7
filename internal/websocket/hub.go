// Package websocket manages WebSocket clients and broadcasts
// schedule-generation progress events to them.
package websocket

import (
	"log"
	"sync"
)

// Hub tracks connected clients. All methods are safe for concurrent
// use.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()
	log.Printf("WebSocket client connected (total: %d)", total)
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	total := len(h.clients)
	h.mu.Unlock()
	log.Printf("WebSocket client disconnected (total: %d)", total)
}

// Broadcast sends a message to every connected client. Clients whose
// send buffer is full are dropped.
func (h *Hub) Broadcast(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- message:
		default:
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Client is one WebSocket connection's outbound queue.
type Client struct {
	send chan []byte
}

// NewClient creates a client with a buffered send queue.
func NewClient() *Client {
	return &Client{send: make(chan []byte, 64)}
}

// Send returns the channel the connection's write pump drains.
func (c *Client) Send() <-chan []byte {
	return c.send
}
