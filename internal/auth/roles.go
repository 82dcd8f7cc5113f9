package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/personnel-directory/internal/domain"
	apperrors "github.com/spec-kit/personnel-directory/pkg/util/errorutil"
)

// RequireScope ensures the authenticated token grants scope.
func RequireScope(scope domain.Scope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := TokenFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !token.HasScope(scope) {
			return apperrors.NewUnauthorized("token lacks scope " + string(scope))
		}
		return c.Next()
	}
}

// Protect chains authentication and scope enforcement.
func Protect(m *AuthMiddleware, scope domain.Scope) []fiber.Handler {
	return []fiber.Handler{m.Handle, RequireScope(scope)}
}
