package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/maestrodigital/maestro_shop/internal/service/token"
	"github.com/maestrodigital/maestro_shop/internal/store"
)

type AdminHandler struct {
	Code     string
	Tokens   *token.Service
	Accounts *store.Accounts
}

// Unlock runs the studio code challenge. A correct code issues the admin
// token; a wrong one changes nothing and reports the mismatch.
func (h *AdminHandler) Unlock(c echo.Context) error {
	var req struct {
		Code string `json:"code"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if subtle.ConstantTimeCompare([]byte(req.Code), []byte(h.Code)) != 1 {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid studio code")
	}

	adminToken, err := h.Tokens.SignAdmin()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create studio token")
	}
	c.SetCookie(token.CreateCookie(token.AdminCookie, adminToken, "/", time.Now().Add(token.AdminTTL)))
	return c.JSON(http.StatusOK, echo.Map{"unlocked": true})
}

// ListCustomers returns the roster for the studio dashboard, optionally
// filtered by a case-insensitive name/email substring.
func (h *AdminHandler) ListCustomers(c echo.Context) error {
	q := strings.ToLower(strings.TrimSpace(c.QueryParam("q")))

	accounts := h.Accounts.All()
	if q == "" {
		return c.JSON(http.StatusOK, accounts)
	}

	filtered := accounts[:0:0]
	for _, acc := range accounts {
		if strings.Contains(strings.ToLower(acc.Name), q) ||
			strings.Contains(strings.ToLower(acc.Email), q) {
			filtered = append(filtered, acc)
		}
	}
	return c.JSON(http.StatusOK, filtered)
}
