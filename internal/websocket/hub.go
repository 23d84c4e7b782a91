package websocket

import (
	"encoding/json"
	"sync"

	"ai-dashboard-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// Hub tracks every connected dashboard client so mode switches made by one
// session can re-theme all the others. Clients are keyed by connection id;
// a browser opening several tabs simply appears as several clients.
type Hub struct {
	clients map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID]*Client),
		logger:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.Id] = client
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"client_id": client.Id})

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.Id]; ok && current == client {
				delete(h.clients, client.Id)
				close(client.Send)
				h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"client_id": client.Id})
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastExcept delivers v to every client except origin. The session
// that triggered the event already sent the payload on its own connection.
func (h *Hub) BroadcastExcept(origin string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("Hub", "Broadcast marshal failed", map[string]interface{}{"error": err.Error()})
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, client := range h.clients {
		if id.String() == origin {
			continue
		}
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping broadcast", map[string]interface{}{"client_id": id})
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
