package token

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
	AdminCookie   = "adminToken"
)

// AutoRefresh requires a signed-in customer. An expired access token is
// rotated transparently from the refresh cookie, as the storefront keeps no
// session state of its own.
func (s *Service) AutoRefresh(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		asCookie, err := c.Cookie(AccessCookie)
		if err == nil {
			claims, perr := s.ParseAccess(asCookie.Value)
			if perr == nil {
				setUserContext(c, claims)
				return next(c)
			}
			if !errors.Is(perr, jwt.ErrTokenExpired) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}
		}

		rfCookie, err := c.Cookie(RefreshCookie)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
		}
		newAccess, newRefresh, claims, err := s.Rotate(rfCookie.Value)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "cannot rotate token: "+err.Error())
		}

		c.SetCookie(CreateCookie(AccessCookie, newAccess, "/", time.Now().Add(AccessTTL)))
		c.SetCookie(CreateCookie(RefreshCookie, newRefresh, "/", time.Now().Add(RefreshTTL)))
		setUserContext(c, claims)
		return next(c)
	}
}

// Optional resolves the signed-in identity when a valid access token is
// present but lets anonymous visitors through. Checkout uses it: guests may
// buy, only signed-in customers get their bookkeeping bumped.
func (s *Service) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if asCookie, err := c.Cookie(AccessCookie); err == nil {
			if claims, perr := s.ParseAccess(asCookie.Value); perr == nil {
				setUserContext(c, claims)
			}
		}
		return next(c)
	}
}

// AdminOnly gates the studio endpoints behind the token issued by the
// admin-code challenge.
func (s *Service) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(AdminCookie)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "studio access required")
		}
		claims, err := s.ParseAccess(cookie.Value)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "studio access required")
		}
		if role, _ := claims["role"].(string); role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}
		return next(c)
	}
}

func setUserContext(c echo.Context, claims jwt.MapClaims) {
	if sub, ok := claims["sub"].(string); ok {
		c.Set("accountID", sub)
	}
	if email, ok := claims["email"].(string); ok {
		c.Set("email", email)
	}
	if role, ok := claims["role"].(string); ok {
		c.Set("role", role)
	}
}

// SessionEmail returns the signed-in customer's email, empty for guests.
func SessionEmail(c echo.Context) string {
	if v, ok := c.Get("email").(string); ok {
		return v
	}
	return ""
}
