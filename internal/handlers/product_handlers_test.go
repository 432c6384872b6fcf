package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetProductsFiltersByQuery(t *testing.T) {
	env := newTestEnv(t)
	h := &ProductHandler{Catalog: env.catalog}

	c, rec := env.request(t, http.MethodGet, "/products?q=noct", nil)
	require.NoError(t, h.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	require.Equal(t, "Nocturne in G Minor", data[0].(map[string]any)["title"])
}

func TestGetProductsPaginates(t *testing.T) {
	env := newTestEnv(t)
	h := &ProductHandler{Catalog: env.catalog}

	c, rec := env.request(t, http.MethodGet, "/products?page=2&size=3", nil)
	require.NoError(t, h.GetProducts(c))

	body := decodeBody(t, rec)
	data := body["data"].([]any)
	require.Len(t, data, 1)

	meta := body["meta"].(map[string]any)
	require.EqualValues(t, 4, meta["total"])
	require.EqualValues(t, 2, meta["total_pages"])
	require.Equal(t, true, meta["has_prev"])
	require.Equal(t, false, meta["has_next"])
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)
	h := &ProductHandler{Catalog: env.catalog}

	c, rec := env.request(t, http.MethodGet, "/products/p3", nil)
	c.SetParamNames("id")
	c.SetParamValues("p3")
	require.NoError(t, h.GetProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "p3", decodeBody(t, rec)["id"])

	c2, _ := env.request(t, http.MethodGet, "/products/ghost", nil)
	c2.SetParamNames("id")
	c2.SetParamValues("ghost")
	he := httpError(t, h.GetProduct(c2))
	require.Equal(t, http.StatusNotFound, he.Code)
}

func TestCreateProduct(t *testing.T) {
	env := newTestEnv(t)
	h := &ProductHandler{Catalog: env.catalog}

	c, rec := env.request(t, http.MethodPost, "/admin/products", map[string]any{
		"title":           "Prelude in C",
		"description":     "A study piece",
		"price":           9.99,
		"type":            "PDF",
		"source_file_url": "https://x/prelude.pdf",
	})
	require.NoError(t, h.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	require.NotEmpty(t, body["id"])
	require.EqualValues(t, 5, body["rating"])
	require.EqualValues(t, 0, body["reviews_count"])

	// new listings lead the catalog
	require.Equal(t, "Prelude in C", env.catalog.All()[0].Title)
}

func TestCreateProductValidation(t *testing.T) {
	env := newTestEnv(t)
	h := &ProductHandler{Catalog: env.catalog}

	cases := []map[string]any{
		{"title": "", "price": 5.0, "type": "PDF"},
		{"title": "Etude", "price": -1.0, "type": "PDF"},
		{"title": "Etude", "price": 5.0, "type": "VINYL"},
	}
	for _, payload := range cases {
		c, _ := env.request(t, http.MethodPost, "/admin/products", payload)
		he := httpError(t, h.CreateProduct(c))
		require.Equal(t, http.StatusBadRequest, he.Code)
	}
	require.Len(t, env.catalog.All(), 4)
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	h := &ProductHandler{Catalog: env.catalog}

	c, rec := env.request(t, http.MethodDelete, "/admin/products/p2", nil)
	c.SetParamNames("id")
	c.SetParamValues("p2")
	require.NoError(t, h.DeleteProduct(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, ok := env.catalog.Get("p2")
	require.False(t, ok)

	// deleting again stays a no-op success
	c2, rec2 := env.request(t, http.MethodDelete, "/admin/products/p2", nil)
	c2.SetParamNames("id")
	c2.SetParamValues("p2")
	require.NoError(t, h.DeleteProduct(c2))
	require.Equal(t, http.StatusNoContent, rec2.Code)
}
