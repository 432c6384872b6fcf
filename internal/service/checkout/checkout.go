// Package checkout turns a non-empty cart plus a contact email into a
// persisted purchase. The payment gateway is charged first; only a confirmed
// charge produces the order snapshot, clears the cart and starts the
// download-preparation workflow.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maestrodigital/maestro_shop/internal/cart"
	"github.com/maestrodigital/maestro_shop/internal/events"
	"github.com/maestrodigital/maestro_shop/internal/fulfillment"
	"github.com/maestrodigital/maestro_shop/internal/models"
	"github.com/maestrodigital/maestro_shop/internal/payment"
	"github.com/maestrodigital/maestro_shop/internal/store"
)

var (
	ErrEmptyCart    = errors.New("no items in cart")
	ErrMissingEmail = errors.New("contact email is required")
)

type Service struct {
	DB          *gorm.DB
	Accounts    *store.Accounts
	Gateway     payment.Gateway
	Fulfillment *fulfillment.Manager
	Producer    *events.Producer
	Log         *slog.Logger
}

// Checkout runs one purchase attempt. accountEmail is empty for guest
// checkout; when set, that account's spend and purchase count are bumped.
// On any error the cart is left untouched and the attempt can be retried.
func (s *Service) Checkout(ctx context.Context, c *cart.Cart, contactEmail, accountEmail string) (models.PurchaseRecord, error) {
	lines := c.Lines()
	if len(lines) == 0 {
		return models.PurchaseRecord{}, ErrEmptyCart
	}
	if contactEmail == "" {
		return models.PurchaseRecord{}, ErrMissingEmail
	}

	total := c.Total()
	if err := s.Gateway.Charge(ctx, total, contactEmail); err != nil {
		return models.PurchaseRecord{}, fmt.Errorf("payment: %w", err)
	}

	now := time.Now()
	order := models.Order{
		ID:        newOrderID(),
		Email:     contactEmail,
		Total:     total,
		CreatedAt: now.UnixMilli(),
	}
	if acc, ok := s.Accounts.ByEmail(accountEmail); ok {
		order.AccountID = acc.ID
	}

	// Flatten quantities into repeated snapshot rows so the receipt is a
	// value copy, immune to later catalog edits.
	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		for i := 0; i < l.Quantity; i++ {
			items = append(items, models.OrderItem{
				OrderID:       order.ID,
				ProductID:     l.Product.ID,
				Title:         l.Product.Title,
				Price:         l.Product.Price,
				Type:          l.Product.Type,
				CoverImage:    l.Product.CoverImage,
				SourceFileURL: l.Product.SourceFileURL,
			})
		}
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range items {
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return models.PurchaseRecord{}, fmt.Errorf("persist order: %w", txErr)
	}

	if accountEmail != "" {
		if err := s.Accounts.RecordPurchase(accountEmail, total); err != nil {
			s.Log.Error("record purchase failed", "order", order.ID, "error", err)
		}
	}

	c.Clear()

	record := models.PurchaseRecord{
		OrderID:   order.ID,
		Email:     order.Email,
		Items:     items,
		Total:     total,
		Timestamp: order.CreatedAt,
	}
	s.Fulfillment.Start(record)

	if err := s.Producer.PublishEvent(ctx, events.TopicOrderEvents, order.ID, map[string]any{
		"type":     "order_created",
		"order_id": order.ID,
		"email":    order.Email,
		"total":    order.Total,
		"items":    len(items),
	}); err != nil {
		s.Log.Error("kafka publish error", "error", err)
	}

	return record, nil
}

func newOrderID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "MAESTRO-" + strings.ToUpper(raw[:6])
}
