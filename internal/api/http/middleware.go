package http

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/spec-kit/personnel-directory/internal/api/dto"
	"github.com/spec-kit/personnel-directory/internal/observability"
	apperrors "github.com/spec-kit/personnel-directory/pkg/util/errorutil"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
// The request logger wraps the error handler so it sees the final status.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(requestid.New(requestid.Config{ContextKey: observability.RequestIDLocal}))
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := toDomainError(err)
				metrics.RecordError(c.Route().Path, c.Method(), domainErr.Code)
				if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
					logger.Error("request failed", zap.String("path", c.Path()), zap.Error(domainErr))
				}
				_ = c.Status(domainErr.HTTPStatus).JSON(dto.ErrorEnvelope{
					Status: domainErr.HTTPStatus,
					Error: dto.ErrorBody{
						Code:    domainErr.Code,
						Message: domainErr.Message,
						Details: domainErr.Details,
					},
				})
				err = nil
			}
		}()
		return c.Next()
	}
}

// toDomainError also maps fiber's own errors, such as unmatched routes and
// deadline expiry, onto the error codes.
func toDomainError(err error) *apperrors.DomainError {
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			return apperrors.ToDomainError(apperrors.NewNotFound("route", nil))
		case fiber.StatusUnauthorized:
			return apperrors.ToDomainError(apperrors.NewUnauthorized(fiberErr.Message))
		}
		if fiberErr.Code < fiber.StatusInternalServerError {
			return apperrors.ToDomainError(apperrors.NewValidationError(fiberErr.Message, nil))
		}
		return apperrors.ToDomainError(apperrors.NewInternalError(err))
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.ToDomainError(apperrors.NewInternalError(err))
	}
	return apperrors.ToDomainError(err)
}
