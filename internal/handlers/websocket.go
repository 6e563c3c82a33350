package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"couple-journal-backend/internal/apperr"
	"couple-journal-backend/internal/events"
	"couple-journal-backend/internal/middleware"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler streams relationship events to connected users
type WebSocketHandler struct {
	hub    *events.Hub
	tokens middleware.TokenVerifier
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *events.Hub, tokens middleware.TokenVerifier) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, tokens: tokens}
}

// HandleWebSocket handles GET /ws?token=
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.ValidateWebSocketToken(r.URL.Query().Get("token"), h.tokens)
	if err != nil {
		if e, ok := apperr.As(err); ok {
			respondError(w, e)
		}
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	h.hub.Register(userID, conn)
	defer h.hub.Unregister(userID, conn)

	if err := h.hub.SendToUser(userID, events.WSMessage{Type: "connected", Timestamp: time.Now().UnixMilli()}); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to send connected message")
	}

	log.Info().Str("user_id", userID).Msg("WebSocket connection established")

	for {
		_, messageBytes, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user_id", userID).Msg("WebSocket error")
			}
			break
		}

		var msg events.WSMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			h.sendError(userID, "Invalid message format")
			continue
		}

		switch msg.Type {
		case "ping":
			if err := h.hub.SendToUser(userID, events.WSMessage{Type: "pong", Timestamp: time.Now().UnixMilli()}); err != nil {
				log.Debug().Err(err).Str("user_id", userID).Msg("Failed to send pong")
			}
		default:
			h.sendError(userID, "Unknown message type")
		}
	}
}

// sendError sends an error message to a user
func (h *WebSocketHandler) sendError(userID, message string) {
	if err := h.hub.SendToUser(userID, events.WSMessage{Type: "error", Message: message}); err != nil {
		log.Debug().Err(err).Str("user_id", userID).Msg("Failed to send error message")
	}
}
