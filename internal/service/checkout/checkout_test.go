package checkout

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/maestrodigital/maestro_shop/internal/cart"
	"github.com/maestrodigital/maestro_shop/internal/fulfillment"
	"github.com/maestrodigital/maestro_shop/internal/logging"
	"github.com/maestrodigital/maestro_shop/internal/models"
	"github.com/maestrodigital/maestro_shop/internal/payment"
	"github.com/maestrodigital/maestro_shop/internal/store"
	"github.com/maestrodigital/maestro_shop/internal/watermark"
)

type testEnv struct {
	db       *gorm.DB
	accounts *store.Accounts
	svc      *Service
	carts    *cart.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{}, &models.Account{},
		&models.Order{}, &models.OrderItem{},
	))

	log := logging.New("error")
	accounts, err := store.OpenAccounts(db, log)
	require.NoError(t, err)

	svc := &Service{
		DB:          db,
		Accounts:    accounts,
		Gateway:     &payment.SimulatedGateway{Delay: 0},
		Fulfillment: fulfillment.NewManager(&watermark.Simulated{Delay: 0}, log),
		Producer:    nil,
		Log:         log,
	}
	return &testEnv{db: db, accounts: accounts, svc: svc, carts: cart.NewRegistry()}
}

var (
	nocturne = models.Product{ID: "p1", Title: "Nocturne in G Minor", Price: 15.00,
		Type: models.FileTypeBundle, SourceFileURL: "https://x/nocturne.pdf"}
	waltz = models.Product{ID: "p4", Title: "Waltz of the Willow", Price: 25.00,
		Type: models.FileTypeBundle, SourceFileURL: "https://x/waltz.pdf"}
)

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	bag := env.carts.Get("s1")

	_, err := env.svc.Checkout(context.Background(), bag, "johann@vienna.at", "")
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutRejectsMissingEmail(t *testing.T) {
	env := newTestEnv(t)
	bag := env.carts.Get("s1")
	bag.AddLine(nocturne)

	_, err := env.svc.Checkout(context.Background(), bag, "", "")
	require.ErrorIs(t, err, ErrMissingEmail)
	require.Equal(t, 1, bag.Count())
}

func TestCheckoutSignedIn(t *testing.T) {
	env := newTestEnv(t)
	bag := env.carts.Get("s1")
	bag.AddLine(nocturne)
	bag.AddLine(waltz)

	rec, err := env.svc.Checkout(context.Background(), bag, "johann@vienna.at", "johann@vienna.at")
	require.NoError(t, err)

	require.True(t, len(rec.OrderID) > len("MAESTRO-"))
	require.Equal(t, "MAESTRO-", rec.OrderID[:len("MAESTRO-")])
	require.Equal(t, "johann@vienna.at", rec.Email)
	require.Len(t, rec.Items, 2)
	require.InDelta(t, 40.00, rec.Total, 0.001)

	// The signed-in account's running totals move with the sale.
	acc, ok := env.accounts.ByEmail("johann@vienna.at")
	require.True(t, ok)
	require.InDelta(t, 125.50+40.00, acc.TotalSpent, 0.001)
	require.Equal(t, 5, acc.PurchaseCount)

	// The cart was emptied, so an immediate retry is an empty-cart error.
	require.Equal(t, 0, bag.Count())
	_, err = env.svc.Checkout(context.Background(), bag, "johann@vienna.at", "johann@vienna.at")
	require.ErrorIs(t, err, ErrEmptyCart)

	var orders []models.Order
	require.NoError(t, env.db.Find(&orders).Error)
	require.Len(t, orders, 1)
	require.Equal(t, rec.OrderID, orders[0].ID)
	require.Equal(t, acc.ID, orders[0].AccountID)

	var items []models.OrderItem
	require.NoError(t, env.db.Where("order_id = ?", rec.OrderID).Find(&items).Error)
	require.Len(t, items, 2)
}

func TestCheckoutGuest(t *testing.T) {
	env := newTestEnv(t)
	bag := env.carts.Get("s1")
	bag.AddLine(waltz)

	before := env.accounts.All()
	rec, err := env.svc.Checkout(context.Background(), bag, "visitor@example.com", "")
	require.NoError(t, err)
	require.Equal(t, rec.OrderID, rec.Items[0].OrderID)

	var order models.Order
	require.NoError(t, env.db.First(&order, "id = ?", rec.OrderID).Error)
	require.Empty(t, order.AccountID)

	// Guest checkout never touches the account roster.
	require.Equal(t, before, env.accounts.All())
}

func TestCheckoutFlattensQuantities(t *testing.T) {
	env := newTestEnv(t)
	bag := env.carts.Get("s1")
	bag.AddLine(nocturne)
	bag.AddLine(nocturne)
	bag.AddLine(nocturne)

	rec, err := env.svc.Checkout(context.Background(), bag, "clara@pianist.de", "")
	require.NoError(t, err)
	require.Len(t, rec.Items, 3)
	require.InDelta(t, 45.00, rec.Total, 0.001)
	for _, item := range rec.Items {
		require.Equal(t, "p1", item.ProductID)
		require.Equal(t, rec.OrderID, item.OrderID)
	}

	var items []models.OrderItem
	require.NoError(t, env.db.Where("order_id = ?", rec.OrderID).Find(&items).Error)
	require.Len(t, items, 3)
}
