package ws

import (
	"net/http"
	"strconv"
	"strings"

	"competency-hub/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type Handler struct {
	hub      *Hub
	logger   zerolog.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		logger: logger.With().Str("component", "ws").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  512,
			WriteBufferSize: 1024,
			// The bearer token already authenticated the caller.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// HandleNotifications upgrades an authenticated request. ?projects=1,2 narrows
// the subscription; without it every project's events are delivered.
func (h *Handler) HandleNotifications(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	projects, err := ParseProjects(c.Query("projects"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid projects", nil, err)
	}
	id, _ := middleware.CurrentIdentity(c)
	hr := id.IsHR()

	return adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn().Err(err).Msg("ws upgrade failed")
			return
		}

		client := NewClient(h.hub, conn, hr, projects)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})(c)
}

func ParseProjects(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || id <= 0 {
			return nil, strconv.ErrSyntax
		}
		out = append(out, id)
	}
	return out, nil
}
