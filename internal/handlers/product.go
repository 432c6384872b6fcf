package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/maestrodigital/maestro_shop/internal/events"
	"github.com/maestrodigital/maestro_shop/internal/models"
	"github.com/maestrodigital/maestro_shop/internal/service/search"
	"github.com/maestrodigital/maestro_shop/internal/store"
	"github.com/maestrodigital/maestro_shop/internal/util"
)

type ProductHandler struct {
	Catalog  *store.Catalog
	ES       *elasticsearch.Client
	Index    string
	Producer *events.Producer
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicProductEvents, fmt.Sprint(event["product_id"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// GetProducts lists the catalog, filtered by free-text query and type and
// paginated for the browsing view.
func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	filtered := search.Filter(h.Catalog.All(), c.QueryParam("q"), c.QueryParam("type"))
	total := len(filtered)

	if from > total {
		from = total
	}
	end := from + limit
	if end > total {
		end = total
	}
	items := filtered[from:end]

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + limit - 1) / limit,
			"has_prev":    page > 1,
			"has_next":    end < total,
		},
	})
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	p, ok := h.Catalog.Get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	return c.JSON(http.StatusOK, p)
}

// CreateProduct adds a listing to the front of the catalog. Admin only.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req struct {
		Title           string          `json:"title"`
		Description     string          `json:"description"`
		Price           float64         `json:"price"`
		Type            models.FileType `json:"type"`
		CoverImage      string          `json:"cover_image"`
		PreviewAudioURL string          `json:"preview_audio_url"`
		SourceFileURL   string          `json:"source_file_url"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if req.Price < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price must not be negative")
	}
	switch req.Type {
	case models.FileTypePDF, models.FileTypeMIDI, models.FileTypeBundle:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown product type")
	}

	prod, err := h.Catalog.Add(models.Product{
		Title:           req.Title,
		Description:     req.Description,
		Price:           req.Price,
		Type:            req.Type,
		CoverImage:      req.CoverImage,
		PreviewAudioURL: req.PreviewAudioURL,
		SourceFileURL:   req.SourceFileURL,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.syncIndex(c, func(ctx context.Context) error {
		return search.IndexProduct(ctx, h.ES, h.Index, prod)
	})
	h.publish(c, map[string]any{
		"type":       "product_created",
		"product_id": prod.ID,
		"title":      prod.Title,
	})
	return c.JSON(http.StatusCreated, prod)
}

// DeleteProduct removes a listing by id. Admin only; absent ids succeed.
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id := c.Param("id")
	if err := h.Catalog.Remove(id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.syncIndex(c, func(ctx context.Context) error {
		return search.DeleteProduct(ctx, h.ES, h.Index, id)
	})
	h.publish(c, map[string]any{
		"type":       "product_deleted",
		"product_id": id,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) syncIndex(c echo.Context, fn func(context.Context) error) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		c.Logger().Errorf("ES sync error: %v", err)
	}
}
