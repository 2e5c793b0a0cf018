package api

import (
	"encoding/json"
	"log/slog"

	"umate/app/service/history"

	"github.com/elliotchance/pie/v2"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func (s *Service) registerRealtime() {
	s.app.Use("/realtime-chat", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}

		if !s.originAllowed(c.Get("Origin")) {
			return fiber.ErrForbidden
		}

		c.Locals("email", c.Query("email"))
		c.Locals("history", c.Query("history"))
		c.Locals("ip", c.IP())

		return c.Next()
	})

	s.app.Get("/realtime-chat", websocket.New(s.handleRealtime))
}

func (s *Service) handleRealtime(conn *websocket.Conn) {
	email, _ := conn.Locals("email").(string)
	remoteIP, _ := conn.Locals("ip").(string)
	rawHistory, _ := conn.Locals("history").(string)

	// Guests carry their own transcript; members are primed from storage.
	var guestHistory []history.Turn
	if email == "" && rawHistory != "" {
		if err := json.Unmarshal([]byte(rawHistory), &guestHistory); err != nil {
			slog.Warn("Ignoring malformed guest history", "ip", remoteIP, "error", err)
			guestHistory = nil
		}
	}

	err := s.chatSvc.HandleSession(s.appCtx, newClientConn(conn), email, remoteIP, guestHistory)
	if err != nil {
		slog.Debug("Session finished", "email", email, "ip", remoteIP, "error", err)
	}
}

func (s *Service) originAllowed(origin string) bool {
	if len(s.cfg.Server.AllowedOrigins) == 0 || origin == "" {
		return true
	}

	return pie.Contains(s.cfg.Server.AllowedOrigins, origin)
}
