package routes

import (
	"competency-hub/internal/delivery/http/handler"
	"competency-hub/internal/delivery/http/middleware"
	v1 "competency-hub/internal/delivery/http/routes/v1"
	"competency-hub/internal/metrics"
	"competency-hub/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
)

type Registry struct {
	health  *handler.HealthHandler
	ws      *ws.Handler
	metrics *metrics.Metrics
	authMw  *middleware.AuthMiddleware
	api     v1.Handlers
}

func NewRegistry(health *handler.HealthHandler, wsHandler *ws.Handler, m *metrics.Metrics, authMw *middleware.AuthMiddleware, api v1.Handlers) *Registry {
	return &Registry{health: health, ws: wsHandler, metrics: m, authMw: authMw, api: api}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerObservability(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerObservability(app *fiber.App) {
	if r.metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(r.metrics.Handler()))
	}
	if r.ws != nil {
		app.Get("/ws", r.authMw.Middleware(), r.ws.HandleNotifications)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.api, r.authMw)
}
