package ws

import (
	"log/slog"
	"sync"
)

// Hub maintains the set of active clients and routes their messages.
// Sessions are per-client, so there is no cross-client broadcast; the hub's
// job is connection bookkeeping and serialized message delivery to the
// router callbacks.
type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	Incoming   chan *ClientMessage
	mu         sync.RWMutex

	// OnConnect is called when a client registers.
	OnConnect func(client *Client)
	// OnMessage is called for each incoming client message.
	OnMessage func(cm *ClientMessage)
	// OnDisconnect is called when a client disconnects.
	OnDisconnect func(client *Client)
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Incoming:   make(chan *ClientMessage, 256),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.Clients[client] = true
			h.mu.Unlock()
			slog.Info("client connected", "client", client.ID)
			if h.OnConnect != nil {
				h.OnConnect(client)
			}

		case client := <-h.Unregister:
			h.mu.Lock()
			_, registered := h.Clients[client]
			delete(h.Clients, client)
			h.mu.Unlock()
			if !registered {
				continue
			}
			// Stop the client's engine before closing the send
			// channel; an in-flight publish from its tick loop must
			// not race a closed channel.
			if h.OnDisconnect != nil {
				h.OnDisconnect(client)
			}
			client.CloseSend()
			slog.Info("client disconnected", "client", client.ID)

		case cm := <-h.Incoming:
			if h.OnMessage != nil {
				h.OnMessage(cm)
			}
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.Clients)
}
