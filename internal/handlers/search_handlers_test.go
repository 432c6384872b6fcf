package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchRequiresQuery(t *testing.T) {
	env := newTestEnv(t)
	h := &SearchHandler{Catalog: env.catalog}

	c, _ := env.request(t, http.MethodGet, "/search", nil)
	he := httpError(t, h.Search(c))
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestSearchInMemoryFallback(t *testing.T) {
	env := newTestEnv(t)
	h := &SearchHandler{Catalog: env.catalog}

	c, rec := env.request(t, http.MethodGet, "/search?q=waltz", nil)
	require.NoError(t, h.Search(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.EqualValues(t, 1, body["total"])
	products := body["products"].([]any)
	require.Len(t, products, 1)
	require.Equal(t, "Waltz of the Willow", products[0].(map[string]any)["title"])
}
