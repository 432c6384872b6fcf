package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/maestrodigital/maestro_shop/internal/advisor"
	"github.com/maestrodigital/maestro_shop/internal/store"
)

type AdvisorHandler struct {
	Advisor *advisor.Client
	Catalog *store.Catalog
}

// Advise proxies the shopper's question to the recommendation collaborator.
// The response is always usable text, never an error payload.
func (h *AdvisorHandler) Advise(c echo.Context) error {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}

	advice := h.Advisor.Advise(c.Request().Context(), req.Message, h.Catalog.All())
	return c.JSON(http.StatusOK, echo.Map{"advice": advice})
}
