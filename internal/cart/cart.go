// Package cart holds the in-progress selection for each visitor session.
// Carts live only in memory; they are never persisted and a restart starts
// every visitor with an empty bag.
package cart

import (
	"sync"

	"github.com/maestrodigital/maestro_shop/internal/models"
)

type Line struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

type Cart struct {
	mu    sync.Mutex
	lines []Line
}

// AddLine always appends a fresh quantity-1 line, matching the storefront's
// behavior of showing one row per add rather than merging by product.
func (c *Cart) AddLine(p models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, Line{Product: p, Quantity: 1})
}

// RemoveLine drops every line for the given product id.
func (c *Cart) RemoveLine(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.lines[:0:0]
	for _, l := range c.lines {
		if l.Product.ID != productID {
			kept = append(kept, l)
		}
	}
	c.lines = kept
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Total recomputes the sum of price*quantity on every call.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, l := range c.lines {
		total += l.Product.Price * float64(l.Quantity)
	}
	return total
}

func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Registry maps session ids to carts, creating a cart on first use.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewRegistry() *Registry {
	return &Registry{carts: make(map[string]*Cart)}
}

func (r *Registry) Get(sessionID string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[sessionID]
	if !ok {
		c = &Cart{}
		r.carts[sessionID] = c
	}
	return c
}

// Drop forgets a session's cart entirely, used on sign-out.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
}
