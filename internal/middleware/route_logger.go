package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RouteLogger logs every request on the way in (debug) and out (info), with
// status and duration. Server errors are logged at warn so they stand out.
func RouteLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		logger := Logger(c)
		start := time.Now()
		logger.Debug().Str("method", c.Method()).Str("path", c.Path()).Msg("request started")

		err := c.Next()

		status := c.Response().StatusCode()
		event := logger.Info()
		if status >= fiber.StatusInternalServerError || err != nil {
			event = logger.Warn().Err(err)
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Msg("request finished")
		return err
	}
}
