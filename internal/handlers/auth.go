package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/maestrodigital/maestro_shop/internal/cart"
	"github.com/maestrodigital/maestro_shop/internal/events"
	"github.com/maestrodigital/maestro_shop/internal/models"
	"github.com/maestrodigital/maestro_shop/internal/service/token"
	"github.com/maestrodigital/maestro_shop/internal/store"
)

type AuthHandler struct {
	Accounts *store.Accounts
	Tokens   *token.Service
	Carts    *cart.Registry
	Producer *events.Producer
}

func (h *AuthHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicUserEvents, fmt.Sprint(event["email"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// Register creates an account and signs it in right away.
func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name, email and password are required")
	}
	if req.Password != req.ConfirmPassword {
		return echo.NewHTTPError(http.StatusBadRequest, "passwords do not match")
	}

	acc, err := h.Accounts.Register(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, store.ErrEmailTaken.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.signIn(c, acc); err != nil {
		return err
	}

	h.publish(c, map[string]any{
		"type":  "user_registered",
		"id":    acc.ID,
		"email": acc.Email,
	})
	return c.JSON(http.StatusOK, acc)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	acc, err := h.Accounts.Authenticate(req.Email, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, store.ErrInvalidCredentials.Error())
	}

	if err := h.signIn(c, acc); err != nil {
		return err
	}

	h.publish(c, map[string]any{
		"type":  "user_logged_in",
		"id":    acc.ID,
		"email": acc.Email,
	})
	return c.JSON(http.StatusOK, acc)
}

// Logout revokes the refresh token, drops the admin unlock, and empties the
// visitor's cart, returning the session to anonymous.
func (h *AuthHandler) Logout(c echo.Context) error {
	if rfCookie, err := c.Cookie(token.RefreshCookie); err == nil {
		if err := h.Tokens.Revoke(rfCookie.Value); err != nil {
			c.Logger().Errorf("revoke error: %v", err)
		}
	}

	if sessCookie, err := c.Cookie(CartSessionCookie); err == nil {
		h.Carts.Drop(sessCookie.Value)
	}

	expired := time.Now().Add(-1 * time.Hour)
	c.SetCookie(token.CreateCookie(token.AccessCookie, "", "/", expired))
	c.SetCookie(token.CreateCookie(token.RefreshCookie, "", "/", expired))
	c.SetCookie(token.CreateCookie(token.AdminCookie, "", "/", expired))

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// ForgotPassword acknowledges a reset request. No mail is sent; the
// storefront only simulates the confirmation.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "reset link sent"})
}

func (h *AuthHandler) signIn(c echo.Context, acc models.Account) error {
	access, err := h.Tokens.SignAccess(acc.ID, acc.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create access token")
	}
	refresh, err := h.Tokens.SignRefresh(acc.ID, acc.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create refresh token")
	}

	c.SetCookie(token.CreateCookie(token.AccessCookie, access, "/", time.Now().Add(token.AccessTTL)))
	c.SetCookie(token.CreateCookie(token.RefreshCookie, refresh, "/", time.Now().Add(token.RefreshTTL)))
	return nil
}
