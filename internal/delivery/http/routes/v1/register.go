package v1

import (
	"competency-hub/internal/delivery/http/handler"
	"competency-hub/internal/delivery/http/middleware"
	"competency-hub/internal/domain/user"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Employees    *handler.EmployeeHandler
	SkillTypes   *handler.SkillTypeHandler
	Competencies *handler.CompetencyHandler
	Projects     *handler.ProjectHandler
	Roles        *handler.RoleHandler
	Ratings      *handler.RatingHandler
}

func Register(r fiber.Router, h Handlers, authMw *middleware.AuthMiddleware) {
	if r == nil {
		return
	}

	// Public routes must be registered before the protected group.
	h.Auth.RegisterRoutes(r.Group("/auth"))

	protected := r.Group("", authMw.Middleware())
	hr := middleware.RequireRole(user.RoleHR)

	h.Auth.RegisterProtectedRoutes(protected)
	h.Employees.RegisterRoutes(protected)
	h.SkillTypes.RegisterRoutes(protected, hr)
	h.Competencies.RegisterRoutes(protected, hr)
	h.Projects.RegisterRoutes(protected, hr)
	h.Roles.RegisterRoutes(protected, hr)
	h.Ratings.RegisterRoutes(protected)
}
