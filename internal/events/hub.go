package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 10 * time.Second

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type           string `json:"type"`
	RelationshipID string `json:"relationshipId,omitempty"`
	ActorID        string `json:"actorId,omitempty"`
	Timestamp      int64  `json:"timestamp,omitempty"`
	Message        string `json:"message,omitempty"`
	Data           any    `json:"data,omitempty"`
}

// client serializes writes to one connection
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub manages WebSocket connections, one per user
type Hub struct {
	mu          sync.RWMutex
	connections map[string]*client
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{connections: make(map[string]*client)}
}

// Register registers a new WebSocket connection for a user, replacing any
// previous one.
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.connections[userID]; ok {
		existing.conn.Close()
	}
	h.connections[userID] = &client{conn: conn}

	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes conn if it is still the user's current connection
func (h *Hub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.connections[userID]; ok && c.conn == conn {
		c.conn.Close()
		delete(h.connections, userID)
		log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
	}
}

// IsOnline checks if a user is online
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.connections[userID]
	return ok
}

// SendToUser sends a message to a specific user
func (h *Hub) SendToUser(userID string, message WSMessage) error {
	h.mu.RLock()
	c, ok := h.connections[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user %s is not connected", userID)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := c.write(data); err != nil {
		h.Unregister(userID, c.conn)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// Publish delivers e to every connected recipient. Offline recipients are skipped.
func (h *Hub) Publish(_ context.Context, e Event) error {
	message := WSMessage{
		Type:           string(e.Type),
		RelationshipID: e.RelationshipID,
		ActorID:        e.ActorID,
		Timestamp:      e.Timestamp.UnixMilli(),
		Data:           e.Data,
	}
	for _, userID := range e.Recipients {
		if !h.IsOnline(userID) {
			continue
		}
		if err := h.SendToUser(userID, message); err != nil {
			log.Error().Err(err).Str("user_id", userID).Str("event", string(e.Type)).Msg("Failed to deliver event")
		}
	}
	return nil
}
