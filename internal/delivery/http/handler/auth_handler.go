package handler

import (
	"competency-hub/internal/delivery/http/dto"
	"competency-hub/internal/delivery/http/middleware"
	"competency-hub/internal/pkg/response"
	"competency-hub/internal/usecase"
	ucauth "competency-hub/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	uc usecase.AuthUsecase
}

func NewAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// RegisterRoutes mounts the public login route.
func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/login", h.Login)
}

func (h *AuthHandler) RegisterProtectedRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.Me)
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	sess, err := h.uc.Login(c.Context(), ucauth.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewSessionResponse(sess))
}

func (h *AuthHandler) Me(c fiber.Ctx) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	usr, err := h.uc.Me(c.Context(), id.UserID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewUserResponse(usr))
}
