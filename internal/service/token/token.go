package token

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/maestrodigital/maestro_shop/internal/models"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
	AdminTTL   = 2 * time.Hour
)

type Service struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
}

func (s *Service) SignAccess(accountID, email string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   accountID,
		"email": email,
		"role":  "user",
		"exp":   time.Now().Add(AccessTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.JWTSecret)
}

func (s *Service) SignRefresh(accountID, email string) (string, error) {
	exp := time.Now().Add(RefreshTTL)
	claims := jwt.MapClaims{
		"sub":   accountID,
		"email": email,
		"role":  "user",
		"exp":   exp.Unix(),
		"typ":   "refresh",
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := t.SignedString(s.RefreshSecret)
	if err != nil {
		return "", err
	}

	stored := models.RefreshToken{
		Token:     raw,
		AccountID: accountID,
		ExpiresAt: exp.Unix(),
	}
	if err := s.DB.Create(&stored).Error; err != nil {
		return "", fmt.Errorf("save refresh token: %w", err)
	}
	return raw, nil
}

// SignAdmin issues the studio token handed out after the admin-code
// challenge. It is not tied to any account.
func (s *Service) SignAdmin() (string, error) {
	claims := jwt.MapClaims{
		"sub":  "studio",
		"role": "admin",
		"exp":  time.Now().Add(AdminTTL).Unix(),
		"typ":  "admin",
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.JWTSecret)
}

// Rotate validates a refresh token against storage and issues a fresh
// access/refresh pair.
func (s *Service) Rotate(rawToken string) (string, string, jwt.MapClaims, error) {
	claims, err := s.validateRefresh(rawToken)
	if err != nil {
		return "", "", nil, err
	}

	accountID, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)

	newAccess, err := s.SignAccess(accountID, email)
	if err != nil {
		return "", "", nil, err
	}
	newRefresh, err := s.SignRefresh(accountID, email)
	if err != nil {
		return "", "", nil, err
	}
	return newAccess, newRefresh, claims, nil
}

func (s *Service) Revoke(rawToken string) error {
	result := s.DB.Model(&models.RefreshToken{}).
		Where("token = ?", rawToken).
		Update("revoked", true)
	if result.Error != nil {
		return fmt.Errorf("revoke refresh token: %w", result.Error)
	}
	return nil
}

func (s *Service) validateRefresh(rawToken string) (jwt.MapClaims, error) {
	t, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.RefreshSecret, nil
	})
	if err != nil || !t.Valid {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("cannot parse claims")
	}
	if typ, ok := claims["typ"]; !ok || typ != "refresh" {
		return nil, errors.New("not a refresh token")
	}

	var stored models.RefreshToken
	if err := s.DB.Where("token = ?", rawToken).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("refresh token not found")
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if stored.Revoked {
		return nil, errors.New("refresh token revoked")
	}
	if time.Now().Unix() > stored.ExpiresAt {
		return nil, errors.New("refresh token expired")
	}

	return claims, nil
}

// ParseAccess verifies an access token and returns its claims.
func (s *Service) ParseAccess(raw string) (jwt.MapClaims, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.JWTSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !t.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("cannot parse claims")
	}
	return claims, nil
}

func CreateCookie(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
