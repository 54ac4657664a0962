package ws

import (
	"context"
	"encoding/json"
	"sync"

	"go-office-inventory/internal/model"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

const EventStockUpdate = "stock_update"

// Event is what connected clients receive after a committed stock change
type Event struct {
	Type        string             `json:"type"`
	Action      string             `json:"action"`
	Item        *model.Item        `json:"item,omitempty"`
	Transaction *model.Transaction `json:"transaction,omitempty"`
	UserID      string             `json:"user_id,omitempty"`
	Message     string             `json:"message,omitempty"`
}

// Relay carries encoded events between server instances
type Relay interface {
	Publish(ctx context.Context, msg []byte) error
	Subscribe(ctx context.Context, deliver func(msg []byte)) error
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex

	relay  Relay
	logger *zap.Logger
}

// NewHub builds a hub. relay may be nil, events then stay on this instance.
func NewHub(relay Relay, logger *zap.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 64),
		relay:      relay,
		logger:     logger,
	}
}

// Publish encodes the event and fans it out, through the relay when one is set
func (h *Hub) Publish(ctx context.Context, event Event) {
	if event.Type == "" {
		event.Type = EventStockUpdate
	}
	msg, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to encode ws event", zap.Error(err))
		return
	}

	if h.relay != nil {
		err := h.relay.Publish(ctx, msg)
		if err == nil {
			return
		}
		h.logger.Warn("Relay publish failed, broadcasting locally", zap.Error(err))
	}
	h.deliver(msg)
}

// deliver queues msg for local sockets without blocking the caller
func (h *Hub) deliver(msg []byte) {
	select {
	case h.Broadcast <- msg:
	default:
		h.logger.Warn("WS broadcast queue full, dropping event")
	}
}

// Run owns the client set until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	if h.relay != nil {
		go func() {
			if err := h.relay.Subscribe(ctx, h.deliver); err != nil && ctx.Err() == nil {
				h.logger.Error("Relay subscription ended", zap.Error(err))
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			h.logger.Debug("New WS client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// ClientCount is the number of connected sockets
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}
