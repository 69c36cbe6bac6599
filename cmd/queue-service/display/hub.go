package display

import (
	"context"
	"sync"

	"github.com/coffeecorner/queue/common/logger"
)

// AllBoards is the board key that receives every queue's messages
const AllBoards = "all"

// Hub maintains display board connections and broadcasts messages to them
type Hub struct {
	// board → clients
	connections map[string][]*Client
	mutex       sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	// closed when Run returns
	done chan struct{}

	log *logger.Logger
}

// Message is a payload for one board; AllBoards clients receive it as well
type Message struct {
	Board string
	Data  []byte
}

// NewHub creates a new Hub instance
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		connections: make(map[string][]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *Message, 256),
		done:        make(chan struct{}),
		log:         log.WithComponent("display_hub"),
	}
}

// Run is the hub's main loop; it closes every client when ctx is done
func (h *Hub) Run(ctx context.Context) {
	h.log.Info("display hub started")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			h.log.Info("display hub stopped")
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastToBoard(message)
		}
	}
}

// Broadcast queues a message for delivery; it drops the message when ctx is done first
func (h *Hub) Broadcast(ctx context.Context, msg *Message) error {
	select {
	case h.broadcast <- msg:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// add registers client unless the hub has stopped
func (h *Hub) add(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// remove unregisters client unless the hub has stopped
func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.connections[client.board] = append(h.connections[client.board], client)
	h.log.Info("display registered", "board", client.board, "total_for_board", len(h.connections[client.board]))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.removeLocked(client)
}

// removeLocked drops client and closes its send channel exactly once
func (h *Hub) removeLocked(client *Client) {
	clients := h.connections[client.board]
	for i, c := range clients {
		if c != client {
			continue
		}

		h.connections[client.board] = append(clients[:i], clients[i+1:]...)
		close(client.send)

		if len(h.connections[client.board]) == 0 {
			delete(h.connections, client.board)
		}

		h.log.Info("display unregistered", "board", client.board, "remaining_for_board", len(h.connections[client.board]))
		return
	}
}

func (h *Hub) broadcastToBoard(message *Message) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	targets := append([]*Client(nil), h.connections[message.Board]...)
	if message.Board != AllBoards {
		targets = append(targets, h.connections[AllBoards]...)
	}
	if len(targets) == 0 {
		return
	}

	h.log.Debug("broadcasting to displays", "board", message.Board, "client_count", len(targets))

	for _, client := range targets {
		select {
		case client.send <- message.Data:
		default:
			h.log.Warn("display send buffer full, closing connection", "board", client.board)
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for board, clients := range h.connections {
		for _, c := range clients {
			close(c.send)
		}
		delete(h.connections, board)
	}
}

// ConnectionCount returns the number of connected displays
func (h *Hub) ConnectionCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	count := 0
	for _, clients := range h.connections {
		count += len(clients)
	}
	return count
}

// BoardCount returns the number of boards with at least one display
func (h *Hub) BoardCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}
