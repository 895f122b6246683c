package bazaar

import (
	"strings"

	"evexpert-backend/internal/pkg/bazaar"
	"evexpert-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct{}

// GET /api/v1/bazaar/links?make=&model=&price_from=&price_to=&year_from=&mileage_to=
func (h *Handlers) Links(c *fiber.Ctx) error {
	brand := strings.TrimSpace(c.Query("make"))
	model := strings.TrimSpace(c.Query("model"))
	if brand == "" || model == "" {
		return response.Error(c, "make and model are required", fiber.StatusBadRequest, nil)
	}
	links := bazaar.Links(brand, model, bazaar.SearchParams{
		PriceFrom: c.QueryInt("price_from", 0),
		PriceTo:   c.QueryInt("price_to", 0),
		YearFrom:  c.QueryInt("year_from", 0),
		MileageTo: c.QueryInt("mileage_to", 0),
	})
	return response.Success(c, "Marketplace links generated", links, nil)
}
