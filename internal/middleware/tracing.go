package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	traceIDHeader = "X-Trace-Id"
	traceIDLocal  = "trace_id"
)

// Tracing tags each request with a trace id, echoed in X-Trace-Id. A valid
// UUID sent by the caller (the analysis service, the front-end) is reused.
func Tracing() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := c.Get(traceIDHeader)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.NewString()
		}
		c.Locals(traceIDLocal, traceID)
		c.Set(traceIDHeader, traceID)
		return c.Next()
	}
}

// GetTraceID returns the request's trace id, or "" outside Tracing.
func GetTraceID(c *fiber.Ctx) string {
	id, _ := c.Locals(traceIDLocal).(string)
	return id
}

// Logger returns the global logger with the request's trace id attached.
func Logger(c *fiber.Ctx) *zerolog.Logger {
	traceID := GetTraceID(c)
	if traceID == "" {
		traceID = "no-trace-id"
	}
	l := log.With().Str("trace_id", traceID).Logger()
	return &l
}
