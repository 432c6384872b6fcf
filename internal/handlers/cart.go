package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/maestrodigital/maestro_shop/internal/cart"
	"github.com/maestrodigital/maestro_shop/internal/events"
	"github.com/maestrodigital/maestro_shop/internal/service/token"
	"github.com/maestrodigital/maestro_shop/internal/store"
)

// CartSessionCookie identifies a visitor's bag. Guests get one on first cart
// touch; it deliberately survives sign-in so the bag follows the customer.
const CartSessionCookie = "cartSession"

type CartHandler struct {
	Carts    *cart.Registry
	Catalog  *store.Catalog
	Producer *events.Producer
}

func (h *CartHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicCartEvents, fmt.Sprint(event["session"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// SessionID resolves the visitor's cart session, minting one if needed.
func SessionID(c echo.Context) string {
	if cookie, err := c.Cookie(CartSessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := uuid.NewString()
	c.SetCookie(token.CreateCookie(CartSessionCookie, id, "/", time.Now().Add(24*time.Hour)))
	return id
}

func (h *CartHandler) GetCart(c echo.Context) error {
	bag := h.Carts.Get(SessionID(c))
	return c.JSON(http.StatusOK, echo.Map{
		"lines": bag.Lines(),
		"count": bag.Count(),
		"total": bag.Total(),
	})
}

// AddToCart appends one quantity-1 line for the requested product.
func (h *CartHandler) AddToCart(c echo.Context) error {
	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	prod, ok := h.Catalog.Get(req.ProductID)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	session := SessionID(c)
	bag := h.Carts.Get(session)
	bag.AddLine(prod)

	h.publish(c, map[string]any{
		"type":       "cart_item_added",
		"session":    session,
		"product_id": prod.ID,
	})
	return c.JSON(http.StatusOK, echo.Map{
		"lines": bag.Lines(),
		"count": bag.Count(),
		"total": bag.Total(),
	})
}

// RemoveFromCart drops every line for a product id.
func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	id := c.Param("id")
	session := SessionID(c)
	bag := h.Carts.Get(session)
	bag.RemoveLine(id)

	h.publish(c, map[string]any{
		"type":       "cart_item_removed",
		"session":    session,
		"product_id": id,
	})
	return c.JSON(http.StatusOK, echo.Map{
		"lines": bag.Lines(),
		"count": bag.Count(),
		"total": bag.Total(),
	})
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	session := SessionID(c)
	h.Carts.Get(session).Clear()

	h.publish(c, map[string]any{
		"type":    "cart_cleared",
		"session": session,
	})
	return c.NoContent(http.StatusNoContent)
}
