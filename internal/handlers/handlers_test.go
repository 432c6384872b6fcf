package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/maestrodigital/maestro_shop/internal/cart"
	"github.com/maestrodigital/maestro_shop/internal/fulfillment"
	"github.com/maestrodigital/maestro_shop/internal/logging"
	"github.com/maestrodigital/maestro_shop/internal/models"
	"github.com/maestrodigital/maestro_shop/internal/payment"
	"github.com/maestrodigital/maestro_shop/internal/service/checkout"
	"github.com/maestrodigital/maestro_shop/internal/service/token"
	"github.com/maestrodigital/maestro_shop/internal/store"
	"github.com/maestrodigital/maestro_shop/internal/watermark"
)

type testEnv struct {
	e        *echo.Echo
	db       *gorm.DB
	catalog  *store.Catalog
	accounts *store.Accounts
	carts    *cart.Registry
	tokens   *token.Service
	tickets  *fulfillment.Manager
	checkout *checkout.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{}, &models.Account{}, &models.RefreshToken{},
		&models.Order{}, &models.OrderItem{},
	))

	log := logging.New("error")
	catalog, err := store.OpenCatalog(db, log)
	require.NoError(t, err)
	accounts, err := store.OpenAccounts(db, log)
	require.NoError(t, err)

	tokens := &token.Service{
		DB:            db,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
	carts := cart.NewRegistry()
	tickets := fulfillment.NewManager(&watermark.Simulated{Delay: 0}, log)

	return &testEnv{
		e:        echo.New(),
		db:       db,
		catalog:  catalog,
		accounts: accounts,
		carts:    carts,
		tokens:   tokens,
		tickets:  tickets,
		checkout: &checkout.Service{
			DB:          db,
			Accounts:    accounts,
			Gateway:     &payment.SimulatedGateway{Delay: 0},
			Fulfillment: tickets,
			Log:         log,
		},
	}
}

// request builds an echo context around a JSON body plus any session cookies.
func (env *testEnv) request(t *testing.T, method, path string, payload any, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return env.e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func httpError(t *testing.T, err error) *echo.HTTPError {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	return he
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}
