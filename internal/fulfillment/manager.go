// Package fulfillment prepares personalized downloads for a completed
// purchase. Every item is handled by its own goroutine and reports progress
// into a shared ticket table keyed by product id, so one slow watermarking
// call never blocks the rest of the order and a completion arriving after
// the order was evicted is dropped instead of corrupting state.
package fulfillment

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/maestrodigital/maestro_shop/internal/models"
	"github.com/maestrodigital/maestro_shop/internal/watermark"
)

type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusFailed     Status = "failed"
)

// placeholderRef is handed out for items that have no document component
// and therefore nothing to personalize.
const placeholderRef = "#"

type Ticket struct {
	ProductID   string          `json:"product_id"`
	Title       string          `json:"title"`
	Type        models.FileType `json:"type"`
	Status      Status          `json:"status"`
	DownloadURL string          `json:"download_url,omitempty"`
	Error       string          `json:"error,omitempty"`
}

type orderState struct {
	itemOrder []string
	tickets   map[string]Ticket
}

type Manager struct {
	wm  watermark.Watermarker
	log *slog.Logger

	maxAttempts int
	retryWait   time.Duration

	mu     sync.RWMutex
	orders map[string]*orderState
}

func NewManager(wm watermark.Watermarker, log *slog.Logger) *Manager {
	return &Manager{
		wm:          wm,
		log:         log,
		maxAttempts: 3,
		retryWait:   200 * time.Millisecond,
		orders:      make(map[string]*orderState),
	}
}

// Start registers tickets for every item of the record and kicks off
// preparation. Repeated items collapse onto one ticket per product id.
func (m *Manager) Start(record models.PurchaseRecord) {
	state := &orderState{tickets: make(map[string]Ticket)}
	unique := make([]models.OrderItem, 0, len(record.Items))
	for _, item := range record.Items {
		if _, seen := state.tickets[item.ProductID]; seen {
			continue
		}
		state.tickets[item.ProductID] = Ticket{
			ProductID: item.ProductID,
			Title:     item.Title,
			Type:      item.Type,
			Status:    StatusIdle,
		}
		state.itemOrder = append(state.itemOrder, item.ProductID)
		unique = append(unique, item)
	}

	m.mu.Lock()
	m.orders[record.OrderID] = state
	m.mu.Unlock()

	for _, item := range unique {
		go m.prepare(record.OrderID, item, record.Email)
	}
}

func (m *Manager) prepare(orderID string, item models.OrderItem, email string) {
	if !item.Type.HasDocument() {
		m.update(orderID, item.ProductID, func(t *Ticket) {
			t.Status = StatusReady
			t.DownloadURL = placeholderRef
		})
		return
	}

	m.update(orderID, item.ProductID, func(t *Ticket) {
		t.Status = StatusProcessing
	})

	var lastErr error
	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		url, err := m.wm.Prepare(context.Background(), item.SourceFileURL, email)
		if err == nil {
			m.update(orderID, item.ProductID, func(t *Ticket) {
				t.Status = StatusReady
				t.DownloadURL = url
			})
			return
		}
		lastErr = err
		m.log.Warn("watermarking attempt failed",
			"order", orderID, "product", item.ProductID,
			"attempt", attempt, "error", err)
		time.Sleep(m.retryWait)
	}

	m.update(orderID, item.ProductID, func(t *Ticket) {
		t.Status = StatusFailed
		t.Error = lastErr.Error()
	})
}

// update applies fn to one ticket. Unknown orders are silently skipped so a
// late callback for an evicted order is a safe no-op.
func (m *Manager) update(orderID, productID string, fn func(*Ticket)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.orders[orderID]
	if !ok {
		return
	}
	t, ok := state.tickets[productID]
	if !ok {
		return
	}
	fn(&t)
	state.tickets[productID] = t
}

// Tickets returns the order's tickets in original item order.
func (m *Manager) Tickets(orderID string) ([]Ticket, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.orders[orderID]
	if !ok {
		return nil, false
	}
	out := make([]Ticket, 0, len(state.itemOrder))
	for _, id := range state.itemOrder {
		out = append(out, state.tickets[id])
	}
	return out, true
}

// Drop evicts an order's tickets. In-flight preparations for it become
// no-ops when they land.
func (m *Manager) Drop(orderID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.orders, orderID)
}
