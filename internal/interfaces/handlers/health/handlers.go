package health

import (
	"encoding/json"
	"time"

	healthsvc "evexpert-backend/internal/application/health"
	"evexpert-backend/internal/middleware"
	"evexpert-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const serviceName = "evexpert-garage-api"

// Handlers serves the health endpoints. Rdb and DB may be nil.
type Handlers struct {
	Rdb            *redis.Client
	DB             healthsvc.DBPinger
	HealthAdminKey string
	AnalysisURL    string
}

// Reset wipes the request stats. The admin key comes in the key query parameter.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	if h.HealthAdminKey == "" || c.Query("key") != h.HealthAdminKey {
		return response.Error(c, "Unauthorized", fiber.StatusForbidden, nil)
	}
	if h.Rdb == nil {
		return response.Error(c, "Redis is not configured", fiber.StatusServiceUnavailable, nil)
	}
	if err := middleware.ResetStats(c.Context(), h.Rdb, time.Now()); err != nil {
		middleware.Logger(c).Error().Err(err).Msg("health stats reset failed")
		return response.Error(c, "Could not reset stats", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Stats reset successfully", fiber.Map{"success": true}, nil)
}

// JSON reports status, runtime, traffic and the database, redis and analysis probes.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := healthsvc.CollectHealth(c.Context(), h.Rdb, h.DB, healthsvc.Options{AnalysisURL: h.AnalysisURL})
	return c.JSON(fiber.Map{
		"service":      serviceName,
		"status":       result.Status,
		"runtime":      result.Runtime,
		"traffic":      result.Traffic,
		"dependencies": result.Dependencies,
	})
}

// Errors lists the most recent 5xx entries recorded by HealthMarker, newest first.
// Entries that are not JSON objects are skipped.
func (h *Handlers) Errors(c *fiber.Ctx) error {
	entries := make([]map[string]interface{}, 0)
	if h.Rdb == nil {
		return c.JSON(entries)
	}
	raw, err := h.Rdb.LRange(c.Context(), middleware.KeyErrorLog, 0, middleware.ErrorLogSize-1).Result()
	if err != nil {
		middleware.Logger(c).Warn().Err(err).Msg("health error log read failed")
		return c.Status(fiber.StatusInternalServerError).JSON(entries)
	}
	for _, line := range raw {
		var entry map[string]interface{}
		if json.Unmarshal([]byte(line), &entry) == nil && entry != nil {
			entries = append(entries, entry)
		}
	}
	return c.JSON(entries)
}
