package middleware

import (
	"errors"

	"evexpert-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler turns errors escaping a handler into the error envelope.
// Only *fiber.Error messages reach the client; anything else is a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code, message := fiber.StatusInternalServerError, "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code, message = fe.Code, fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		Logger(c).Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("unhandled error")
	}
	return response.Error(c, message, code, nil)
}
