package search

import (
	"strings"

	"github.com/maestrodigital/maestro_shop/internal/models"
)

// TypeAll matches every product type.
const TypeAll = "ALL"

// Filter derives the visible product list from the catalog. Matching is a
// case-insensitive substring check over title and description; it is
// recomputed from scratch on every call, which is fine at catalog sizes of
// tens to low hundreds of items.
func Filter(products []models.Product, query, typeFilter string) []models.Product {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if typeFilter != "" && typeFilter != TypeAll && string(p.Type) != typeFilter {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}
