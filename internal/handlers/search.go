package handlers

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/maestrodigital/maestro_shop/internal/service/search"
	"github.com/maestrodigital/maestro_shop/internal/store"
	"github.com/maestrodigital/maestro_shop/internal/util"
)

type SearchHandler struct {
	ES      *elasticsearch.Client
	Index   string
	Catalog *store.Catalog
}

// Search answers free-text queries. With a configured cluster it uses the
// fuzzy index; otherwise it falls back to the exact in-memory engine.
func (h *SearchHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	if h.ES != nil {
		total, products, err := search.Search(c.Request().Context(), h.ES, h.Index, q, from, limit)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, echo.Map{"total": total, "products": products})
	}

	filtered := search.Filter(h.Catalog.All(), q, search.TypeAll)
	total := len(filtered)
	if from > total {
		from = total
	}
	end := from + limit
	if end > total {
		end = total
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": filtered[from:end]})
}
