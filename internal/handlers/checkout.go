package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/maestrodigital/maestro_shop/internal/cart"
	"github.com/maestrodigital/maestro_shop/internal/service/checkout"
	"github.com/maestrodigital/maestro_shop/internal/service/token"
)

type CheckoutHandler struct {
	Service *checkout.Service
	Carts   *cart.Registry
}

// Checkout runs the purchase for the visitor's cart. Guests check out with
// just the contact email; signed-in customers also get their account
// bookkeeping updated.
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	bag := h.Carts.Get(SessionID(c))

	record, err := h.Service.Checkout(c.Request().Context(), bag, req.Email, token.SessionEmail(c))
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) || errors.Is(err, checkout.ErrMissingEmail) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, record)
}
