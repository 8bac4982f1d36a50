package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vkotovv/meet-lite/internal/coordinator"
	"github.com/vkotovv/meet-lite/internal/middleware"
	"github.com/vkotovv/meet-lite/internal/ws"
)

type WebSocketHandler struct {
	coord    *coordinator.Coordinator
	signals  *SignalHandler
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(coord *coordinator.Coordinator, signals *SignalHandler) *WebSocketHandler {
	return &WebSocketHandler{
		coord:   coord,
		signals: signals,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: restrict origin in prod
				return true
			},
		},
	}
}

// HandleWebSocket upgrades a gate-verified connection and registers it with
// the coordinator. The identity comes from the token claims; the coordinator
// never sees an unverified connection.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	username := c.GetString(middleware.UsernameKey)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(conn, userID.(string), username)

	h.coord.Connect(client.UserID, client.Username, client.ID.String(), client)

	go client.WritePump()
	go client.ReadPump(h.signals)
}
