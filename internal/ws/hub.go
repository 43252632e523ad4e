// Package ws pushes live telemetry and alert notifications to connected
// dashboard clients over websocket.
package ws

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"hivewatch/internal/model"
	"hivewatch/internal/service"
)

// Message kinds pushed to dashboard clients.
const (
	MessageTelemetry = "telemetry"
	MessageAlert     = "alert"
)

// Message is the framed payload sent over the socket.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub maintains the set of connected clients and fans broadcasts out to
// them. Clients that cannot keep up are dropped rather than allowed to
// stall the broadcast loop.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	logger     zerolog.Logger
}

// NewHub creates a Hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With().Str("component", "ws-hub").Logger(),
	}
}

// Run processes register/unregister/broadcast events until the broadcast
// channel is closed. Call it from its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug().Str("remote", client.remote).Int("clients", len(h.clients)).Msg("client registered")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Debug().Str("remote", client.remote).Int("clients", len(h.clients)).Msg("client unregistered")
			}

		case message, ok := <-h.broadcast:
			if !ok {
				for client := range h.clients {
					close(client.send)
					delete(h.clients, client)
				}
				return
			}
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Send buffer full: the client is stalled or gone.
					h.logger.Warn().Str("remote", client.remote).Msg("dropping slow client")
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Register queues a client for registration.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister queues a client for removal.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastTelemetry pushes an evaluated snapshot to all clients.
func (h *Hub) BroadcastTelemetry(result *service.EvaluationResult) {
	h.send(MessageTelemetry, result)
}

// BroadcastAlert pushes a triggered/cleared alert notification.
func (h *Hub) BroadcastAlert(alert *model.Alert) {
	h.send(MessageAlert, alert)
}

func (h *Hub) send(kind string, payload interface{}) {
	data, err := json.Marshal(Message{Type: kind, Payload: payload})
	if err != nil {
		h.logger.Error().Err(err).Str("type", kind).Msg("failed to marshal broadcast")
		return
	}
	h.broadcast <- data
}
