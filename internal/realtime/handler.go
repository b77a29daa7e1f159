package realtime

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	zlog "github.com/rs/zerolog/log"
)

// sendBuffer bounds the per-connection outbound queue.
const sendBuffer = 64

// Handler upgrades HTTP requests to WebSocket connections and bridges
// them to the hub.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket handler.
func NewHandler(hub *Hub) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ServeWS handles one WebSocket connection. The client sends a
// join_room message to start receiving that room's events; joining
// another room replaces the previous subscription.
func (h *Handler) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zlog.Warn().Msgf("websocket upgrade failed: error=%v", err)
		return
	}

	out := make(chan []byte, sendBuffer)
	go writeLoop(conn, out)

	var sub *Subscription
	defer func() {
		h.hub.Unsubscribe(sub)
		close(out)
		conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case TypeJoinRoom:
			next, err := h.hub.Subscribe(msg.RoomID, out)
			if err != nil {
				// The channel carries room events only; a bad join is
				// logged and ignored, the client keeps its connection.
				zlog.Warn().Msgf("join rejected: room=%s error=%v", msg.RoomID, err)
				continue
			}
			h.hub.Unsubscribe(sub)
			sub = next

		default:
			zlog.Debug().Msgf("ignoring unknown client message: type=%s", msg.Type)
		}
	}
}

// writeLoop is the single writer for a connection.
func writeLoop(conn *websocket.Conn, out <-chan []byte) {
	for data := range out {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}
