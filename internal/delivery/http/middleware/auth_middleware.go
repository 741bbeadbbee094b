package middleware

import (
	"errors"
	"strings"

	"competency-hub/internal/domain/user"
	"competency-hub/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type identityKey struct{}

// Identity is the authenticated caller as read from the access token.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

func (i Identity) IsHR() bool { return i.Role == user.RoleHR }

type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			// Browsers cannot set headers on a websocket handshake.
			token = strings.TrimSpace(c.Query("access_token"))
		}
		if token == "" {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.jwt.ValidateToken(token)
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
		case err != nil:
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		case claims.UserID == uuid.Nil:
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, nil)
		}

		c.Locals(identityKey{}, Identity{UserID: claims.UserID, Email: claims.Email, Role: claims.Role})
		return c.Next()
	}
}

// RequireRole lets the request through only when the caller holds role.
// It must run after Middleware.
func RequireRole(role string) fiber.Handler {
	return func(c fiber.Ctx) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		if id.Role != role {
			return NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
		}
		return c.Next()
	}
}

func CurrentIdentity(c fiber.Ctx) (Identity, bool) {
	id, ok := c.Locals(identityKey{}).(Identity)
	return id, ok
}

func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
