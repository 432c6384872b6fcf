package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/maestrodigital/maestro_shop/internal/fulfillment"
)

type DownloadHandler struct {
	Fulfillment *fulfillment.Manager
}

// GetTickets reports per-item preparation progress for an order. The portal
// polls this until every ticket is ready or failed.
func (h *DownloadHandler) GetTickets(c echo.Context) error {
	tickets, ok := h.Fulfillment.Tickets(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"order_id": c.Param("id"),
		"tickets":  tickets,
	})
}
