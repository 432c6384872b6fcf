// Package store keeps the catalog and the customer roster as ordered
// in-memory collections that are rewritten wholesale to the database on
// every mutation. The in-memory slice is the source of truth while the
// process runs; the table is a snapshot reloaded at startup.
package store

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maestrodigital/maestro_shop/internal/models"
)

type Catalog struct {
	db  *gorm.DB
	log *slog.Logger

	mu       sync.RWMutex
	products []models.Product
}

// OpenCatalog rehydrates the catalog from the database. An empty or
// unreadable table falls back to the built-in seed catalog; that is a
// recovery, not an error.
func OpenCatalog(db *gorm.DB, log *slog.Logger) (*Catalog, error) {
	c := &Catalog{db: db, log: log}

	var loaded []models.Product
	err := db.Order("position ASC").Find(&loaded).Error
	if err != nil || len(loaded) == 0 {
		if err != nil {
			log.Warn("catalog load failed, seeding defaults", "error", err)
		}
		c.products = SeedProducts()
		if err := c.save(); err != nil {
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
		return c, nil
	}

	c.products = loaded
	return c, nil
}

// Add inserts the product at the front of the visible ordering, assigning a
// fresh id and the display defaults for a brand-new listing.
func (c *Catalog) Add(p models.Product) (models.Product, error) {
	p.ID = "p-" + uuid.NewString()
	p.Rating = 5.0
	p.ReviewsCount = 0

	c.mu.Lock()
	defer c.mu.Unlock()

	c.products = append([]models.Product{p}, c.products...)
	if err := c.save(); err != nil {
		c.products = c.products[1:]
		return models.Product{}, err
	}
	return p, nil
}

// Remove deletes the product with the given id. Removing an absent id is a
// no-op, not an error.
func (c *Catalog) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.products[:0:0]
	for _, p := range c.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(c.products) {
		return nil
	}
	prev := c.products
	c.products = kept
	if err := c.save(); err != nil {
		c.products = prev
		return err
	}
	return nil
}

// All returns a copy of the catalog in visible order.
func (c *Catalog) All() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get returns the product with the given id.
func (c *Catalog) Get(id string) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// save rewrites the whole collection inside one transaction. Callers must
// hold the write lock.
func (c *Catalog) save() error {
	for i := range c.products {
		c.products[i].Position = i
	}
	rows := make([]models.Product, len(c.products))
	copy(rows, c.products)
	return c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Product{}).Error; err != nil {
			return fmt.Errorf("clear catalog: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("write catalog: %w", err)
		}
		return nil
	})
}
