package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maestrodigital/maestro_shop/internal/models"
	"github.com/maestrodigital/maestro_shop/internal/service/token"
)

func TestUnlock(t *testing.T) {
	env := newTestEnv(t)
	h := &AdminHandler{Code: "102030", Tokens: env.tokens, Accounts: env.accounts}

	c, _ := env.request(t, http.MethodPost, "/admin/unlock", map[string]string{"code": "000000"})
	he := httpError(t, h.Unlock(c))
	require.Equal(t, http.StatusUnauthorized, he.Code)

	c2, rec := env.request(t, http.MethodPost, "/admin/unlock", map[string]string{"code": "102030"})
	require.NoError(t, h.Unlock(c2))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decodeBody(t, rec)["unlocked"])

	ck := cookieByName(rec, token.AdminCookie)
	require.NotNil(t, ck)
	require.NotEmpty(t, ck.Value)

	claims, err := env.tokens.ParseAccess(ck.Value)
	require.NoError(t, err)
	require.Equal(t, "admin", claims["role"])
}

func TestListCustomers(t *testing.T) {
	env := newTestEnv(t)
	h := &AdminHandler{Code: "102030", Tokens: env.tokens, Accounts: env.accounts}

	c, rec := env.request(t, http.MethodGet, "/admin/customers", nil)
	require.NoError(t, h.ListCustomers(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var all []models.Account
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	require.Len(t, all, 2)

	c2, rec2 := env.request(t, http.MethodGet, "/admin/customers?q=CLARA", nil)
	require.NoError(t, h.ListCustomers(c2))

	var filtered []models.Account
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &filtered))
	require.Len(t, filtered, 1)
	require.Equal(t, "Clara Schumann", filtered[0].Name)
}
