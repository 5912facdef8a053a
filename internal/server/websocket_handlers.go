package server

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebsocketHandler handles GET /api/ws
// @Summary Realtime event stream
// @Description One-way WebSocket stream of invalidation events (post.updated, comment.updated, vote.changed). Authenticate with a single-use ticket from /ws/ticket.
// @Tags realtime
// @Param ticket query string true "Single-use WebSocket ticket"
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} object{error=string}
// @Router /ws [get]
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("userID").(uint)
		if !ok || userID == 0 {
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			slog.Warn("websocket registration rejected", "user_id", userID, "error", err)
			_ = conn.Close()
			return
		}

		slog.Debug("websocket connected", "user_id", userID)

		go client.WritePump()
		// ReadPump blocks until the connection closes and unregisters the client.
		client.ReadPump()
	})
}
