package handlers

import (
	"errors"

	"github.com/fathima-sithara/clips-service/internal/apperr"
	"github.com/fathima-sithara/clips-service/internal/utils"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler renders every error a handler returns as JSON. Storage failures
// are logged with their cause and reach the client only as "Server error".
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			fe   *fiber.Error
			ves  apperr.ValidationErrors
			ve   *apperr.ValidationError
			pub  *apperr.PublicError
			code = fiber.StatusInternalServerError
		)
		switch {
		case errors.As(err, &ves):
			return utils.JSONValidation(c, ves)
		case errors.As(err, &ve):
			return utils.JSONValidation(c, []apperr.ValidationError{*ve})
		case errors.As(err, &fe):
			return utils.JSONError(c, fe.Code, fe.Message)
		case errors.As(err, &pub):
			code = statusFor(pub.Kind)
			if code != fiber.StatusInternalServerError {
				return utils.JSONError(c, code, pub.Msg)
			}
		}

		logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return utils.JSONError(c, code, "Server error")
	}
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, apperr.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(kind, apperr.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(kind, apperr.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(kind, apperr.ErrConflict):
		// existing clients expect 400 for duplicate accounts
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// NotFound is the catch-all for unknown routes.
func NotFound(c *fiber.Ctx) error {
	return utils.JSONError(c, fiber.StatusNotFound, "Route not found")
}
