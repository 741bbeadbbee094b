package app

import (
	"fmt"
	"strings"

	"competency-hub/internal/config"
	"competency-hub/internal/delivery/http/handler"
	"competency-hub/internal/delivery/http/middleware"
	"competency-hub/internal/delivery/http/routes"
	v1 "competency-hub/internal/delivery/http/routes/v1"
	"competency-hub/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP application on top of an already wired container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config, logger zerolog.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())
	app.Use(c.Metrics.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	authMw := middleware.NewAuthMiddleware(c.JWT)
	api := v1.Handlers{
		Auth:         handler.NewAuthHandler(c.Auth),
		Employees:    handler.NewEmployeeHandler(c.Employees),
		SkillTypes:   handler.NewSkillTypeHandler(c.SkillTypes),
		Competencies: handler.NewCompetencyHandler(c.Competencies),
		Projects:     handler.NewProjectHandler(c.Projects, c.Staffing),
		Roles:        handler.NewRoleHandler(c.Roles),
		Ratings:      handler.NewRatingHandler(c.Ratings),
	}

	routes.NewRegistry(
		handler.NewHealthHandler(c.DB, c.Cache),
		ws.NewHandler(c.Hub, c.Logger),
		c.Metrics,
		authMw,
		api,
	).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
