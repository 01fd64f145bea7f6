// Package websocket implements a WebSocket Hub for broadcasting live
// leaderboard updates. WebSockets are persistent two-way connections, so the
// server can push a fresh leaderboard the moment a score is entered instead
// of clients polling the API. Connections are grouped by event: everyone
// watching the same tournament receives the same snapshots.
package websocket

import "sync"

// Client represents a single connected WebSocket client.
type Client struct {
	EventID string      // Which event this client is watching — routes messages to the right audience
	Send    chan []byte // Buffered channel of outgoing messages; the Hub writes here, the socket writer drains it
}

// Message is a unit of data to broadcast to all clients watching an event —
// in practice a JSON-encoded leaderboard snapshot.
type Message struct {
	EventID string
	Data    []byte
}

// Hub manages all active WebSocket connections, grouped by event ID. It runs
// in its own goroutine and processes registration, unregistration, and
// broadcast events through channels, keeping all map mutation on a single
// goroutine (concurrent map writes panic in Go).
type Hub struct {
	// clients is a nested map: eventID -> set of Client pointers.
	// map[*Client]bool as a "set" is the usual Go idiom.
	clients map[string]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client

	// mu protects the clients map between the broadcast read path
	// (RLock/RUnlock) and the register/unregister write path (Lock/Unlock).
	mu sync.RWMutex
}

// NewHub creates and initializes a Hub. The broadcast channel is buffered so
// score handlers don't block if the Hub goroutine is briefly busy; register
// and unregister are unbuffered because those must complete synchronously.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the Hub's main event loop. It must be called in a goroutine
// ("go hub.Run()") and blocks forever, processing one event at a time.
func (h *Hub) Run() {
	for {
		select {

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.EventID] == nil {
				h.clients[client.EventID] = make(map[*Client]bool)
			}
			h.clients[client.EventID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.drop(client)

		case msg := <-h.broadcast:
			h.mu.RLock()
			clients := h.clients[msg.EventID]
			// A full Send buffer means the client is too slow — drop it
			// rather than blocking the broadcast loop for everyone else.
			// Collected first because drop takes the write lock.
			var slow []*Client
			for client := range clients {
				select {
				case client.Send <- msg.Data:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()

			for _, client := range slow {
				h.drop(client)
			}
		}
	}
}

// drop removes a client and closes its Send channel, which signals the socket
// writer goroutine to stop. Safe to call twice for the same client. The
// event's map entry is removed once empty so finished tournaments don't leak.
func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[client.EventID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.clients, client.EventID)
	}
}

// BroadcastToEvent sends data to all clients currently watching the given
// event. Handlers call this after every accepted score write.
func (h *Hub) BroadcastToEvent(eventID string, data []byte) {
	h.broadcast <- &Message{EventID: eventID, Data: data}
}

// Register adds a client to the Hub so it starts receiving broadcasts for its
// event. Called when a WebSocket connection is opened.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the Hub when its connection closes.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}
