package websocket

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// ConnectionRecorder observes hub membership and outbound messages
type ConnectionRecorder interface {
	RecordWebSocketConnect()
	RecordWebSocketDisconnect()
	RecordWebSocketMessage()
}

type nopRecorder struct{}

func (nopRecorder) RecordWebSocketConnect()    {}
func (nopRecorder) RecordWebSocketDisconnect() {}
func (nopRecorder) RecordWebSocketMessage()    {}

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Messages to fan out to every client
	broadcast chan []byte

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Messages addressed to a single client
	direct chan directMessage

	// Closed when Run returns; sends to a stopped hub are dropped
	done chan struct{}

	// Mutex to protect clients map
	mu sync.RWMutex

	recorder ConnectionRecorder
	logger   zerolog.Logger
}

// NewHub creates a new Hub. A nil recorder disables connection metrics.
func NewHub(logger zerolog.Logger, recorder ConnectionRecorder) *Hub {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Hub{
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		direct:     make(chan directMessage, 16),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		recorder:   recorder,
		logger:     logger.With().Str("component", "ws_hub").Logger(),
	}
}

// Run starts the hub's main loop and returns when ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.recorder.RecordWebSocketConnect()
			h.logger.Info().
				Str("client_id", client.id).
				Int("total_clients", total).
				Msg("client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				h.remove(client)
				h.logger.Info().
					Str("client_id", client.id).
					Int("total_clients", len(h.clients)).
					Msg("client disconnected")
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.fanOut(message)

		case dm := <-h.direct:
			h.mu.Lock()
			if _, ok := h.clients[dm.client]; ok {
				h.deliver(dm.client, dm.data)
			}
			h.mu.Unlock()
		}
	}
}

// Register adds a client. It reports false if the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client. It is a no-op once the hub has stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues a message for every connected client
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

type directMessage struct {
	client *Client
	data   []byte
}

// Send queues a message for one client. It is dropped if the client has
// already left.
func (h *Hub) Send(client *Client, message []byte) {
	select {
	case h.direct <- directMessage{client: client, data: message}:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// fanOut sends a message to all clients, dropping clients that cannot keep up
func (h *Hub) fanOut(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		h.deliver(client, message)
	}
}

// deliver must be called with mu held
func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.send <- message:
		h.recorder.RecordWebSocketMessage()
	default:
		h.remove(client)
		h.logger.Warn().
			Str("client_id", client.id).
			Msg("client send buffer full, closing connection")
	}
}

// remove must be called with mu held
func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.recorder.RecordWebSocketDisconnect()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		h.remove(client)
	}
}
