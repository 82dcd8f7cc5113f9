package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/personnel-directory/internal/api/dto"
	apperrors "github.com/spec-kit/personnel-directory/pkg/util/errorutil"
)

func respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(dto.Envelope{Status: status, Message: message, Data: data})
}

// parseBody decodes a JSON body and runs its Validate method when it has one.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"cause": err.Error()})
	}
	if v, ok := dst.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return apperrors.FromValidation(err)
		}
	}
	return nil
}

func mapSlice[T, R any](items []T, fn func(*T) R) []R {
	out := make([]R, 0, len(items))
	for i := range items {
		out = append(out, fn(&items[i]))
	}
	return out
}
