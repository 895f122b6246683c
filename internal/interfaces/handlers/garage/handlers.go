package garage

import (
	"errors"
	"time"

	"evexpert-backend/internal/application/analysis"
	garagesvc "evexpert-backend/internal/application/garage"
	"evexpert-backend/internal/domain"
	"evexpert-backend/internal/middleware"
	"evexpert-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service      *garagesvc.Service
	Analyzer     analysis.Analyzer
	RefreshDelay time.Duration
}

// GET /api/v1/garage/listings?q=&sort=
func (h *Handlers) ListListings(c *fiber.Ctx) error {
	sortOpt, err := garagesvc.ParseSortOption(c.Query("sort"))
	if err != nil {
		return response.Error(c, "Invalid sort option", fiber.StatusBadRequest, fiber.Map{"sort": c.Query("sort")})
	}
	result, err := h.Service.Garage(c.Context(), garagesvc.Query{FilterText: c.Query("q"), Sort: sortOpt})
	if err != nil {
		middleware.Logger(c).Error().Err(err).Msg("garage listing failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Listings fetched successfully", result.Listings, fiber.Map{
		"unique_count": result.UniqueCount,
		"count":        len(result.Listings),
		"sort":         sortOpt,
	})
}

// GET /api/v1/garage/listings/:id
func (h *Handlers) GetListing(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid listing id", fiber.StatusBadRequest, nil)
	}
	listing, err := h.Service.GetListing(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Listing fetched successfully", listing, nil)
}

// GET /api/v1/garage/listings/:id/breakdown
func (h *Handlers) GetBreakdown(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid listing id", fiber.StatusBadRequest, nil)
	}
	view, err := h.Service.Breakdown(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Cost breakdown fetched successfully", view, nil)
}

// PATCH /api/v1/garage/listings/:id — notes, tags and externalLinks only
func (h *Handlers) UpdateListing(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid listing id", fiber.StatusBadRequest, nil)
	}
	var body struct {
		Notes         *string                `json:"notes"`
		Tags          *[]string              `json:"tags"`
		ExternalLinks *[]domain.ExternalLink `json:"externalLinks"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	listing, err := h.Service.UpdateFields(c.Context(), id, garagesvc.UpdateInput{
		Notes:         body.Notes,
		Tags:          body.Tags,
		ExternalLinks: body.ExternalLinks,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Changes saved", listing, nil)
}

// DELETE /api/v1/garage/listings/:id
func (h *Handlers) DeleteListing(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid listing id", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.DeleteOne(c.Context(), id); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Listing deleted", fiber.Map{"id": id}, nil)
}

// DELETE /api/v1/garage/listings — empties the whole garage
func (h *Handlers) ClearGarage(c *fiber.Ctx) error {
	n, err := h.Service.DeleteAll(c.Context())
	if err != nil {
		middleware.Logger(c).Error().Err(err).Msg("garage clear failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Garage cleared", fiber.Map{"deleted": n}, nil)
}

// POST /api/v1/garage/ingest — finished analysis document from the analysis service
func (h *Handlers) Ingest(c *fiber.Ctx) error {
	doc, err := garagesvc.DecodeDocument(c.Body())
	if err != nil {
		return response.Error(c, garagesvc.ErrInvalidDocument.Error(), fiber.StatusBadRequest, fiber.Map{"reason": err.Error()})
	}
	listing, err := h.Service.Ingest(c.Context(), doc)
	if err != nil {
		middleware.Logger(c).Error().Err(err).Msg("garage ingest failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.SuccessCreated(c, "Listing created successfully", listing, nil)
}

// POST /api/v1/garage/analyze — { url } or { text }, optional api_key.
// The analysed record shows up in a later listing call, not in this response.
func (h *Handlers) Analyze(c *fiber.Ctx) error {
	if h.Analyzer == nil {
		return response.Error(c, "Analysis service is not configured", fiber.StatusServiceUnavailable, nil)
	}
	var body struct {
		URL    string `json:"url"`
		Text   string `json:"text"`
		APIKey string `json:"api_key"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	result, err := h.Analyzer.Analyze(c.Context(), analysis.Request{URL: body.URL, Text: body.Text, APIKey: body.APIKey})
	if err != nil {
		var apiErr *analysis.Error
		switch {
		case errors.Is(err, analysis.ErrEmptyInput):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case errors.As(err, &apiErr):
			middleware.Logger(c).Warn().Int("status", apiErr.StatusCode).Str("detail", apiErr.Detail).Msg("analysis rejected listing")
			return response.Error(c, apiErr.Detail, fiber.StatusBadGateway, fiber.Map{"upstream_status": apiErr.StatusCode})
		default:
			middleware.Logger(c).Error().Err(err).Msg("analysis service unreachable")
			return response.Error(c, "Analysis service unreachable", fiber.StatusBadGateway, nil)
		}
	}
	return response.SuccessAccepted(c, "Analysis accepted", fiber.Map{
		"model":            result.Model,
		"profit":           result.Profit,
		"refresh_after_ms": h.RefreshDelay.Milliseconds(),
	}, nil)
}

func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, garagesvc.ErrListingNotFound):
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	case errors.Is(err, garagesvc.ErrNoChanges):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	default:
		middleware.Logger(c).Error().Err(err).Msg("garage request failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
}
