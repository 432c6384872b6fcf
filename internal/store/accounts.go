package store

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maestrodigital/maestro_shop/internal/hash"
	"github.com/maestrodigital/maestro_shop/internal/models"
)

type Accounts struct {
	db  *gorm.DB
	log *slog.Logger

	mu       sync.RWMutex
	accounts []models.Account
}

func OpenAccounts(db *gorm.DB, log *slog.Logger) (*Accounts, error) {
	a := &Accounts{db: db, log: log}

	var loaded []models.Account
	err := db.Order("position ASC").Find(&loaded).Error
	if err != nil || len(loaded) == 0 {
		if err != nil {
			log.Warn("account roster load failed, seeding defaults", "error", err)
		}
		a.accounts = SeedAccounts()
		if err := a.save(); err != nil {
			return nil, fmt.Errorf("seed accounts: %w", err)
		}
		return a, nil
	}

	a.accounts = loaded
	return a, nil
}

// Register creates a new account with a freshly hashed password and prepends
// it to the roster. Email uniqueness is a case-sensitive exact match.
func (a *Accounts) Register(name, email, password string) (models.Account, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, acc := range a.accounts {
		if acc.Email == email {
			return models.Account{}, ErrEmailTaken
		}
	}

	pw, err := hash.HashPassword(password)
	if err != nil {
		return models.Account{}, fmt.Errorf("hash password: %w", err)
	}

	acc := models.Account{
		ID:           "u-" + uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: pw,
		JoinDate:     today(),
	}
	a.accounts = append([]models.Account{acc}, a.accounts...)
	if err := a.save(); err != nil {
		a.accounts = a.accounts[1:]
		return models.Account{}, err
	}
	return acc, nil
}

// Authenticate checks the stored bcrypt hash. The universal override secret
// the old storefront accepted was a backdoor and is intentionally gone.
func (a *Accounts) Authenticate(email, password string) (models.Account, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, acc := range a.accounts {
		if acc.Email == email && hash.CheckPassword(acc.PasswordHash, password) {
			return acc, nil
		}
	}
	return models.Account{}, ErrInvalidCredentials
}

// RecordPurchase bumps spend and purchase count together for the account
// with the given email. Unknown emails (guest checkout) are a no-op.
func (a *Accounts) RecordPurchase(email string, amount float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i, acc := range a.accounts {
		if acc.Email != email {
			continue
		}
		prev := acc
		a.accounts[i].TotalSpent += amount
		a.accounts[i].PurchaseCount++
		if err := a.save(); err != nil {
			a.accounts[i] = prev
			return err
		}
		return nil
	}
	return nil
}

// ByEmail returns the account registered under the given email.
func (a *Accounts) ByEmail(email string) (models.Account, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, acc := range a.accounts {
		if acc.Email == email {
			return acc, true
		}
	}
	return models.Account{}, false
}

// All returns a copy of the roster, most recent sign-up first.
func (a *Accounts) All() []models.Account {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]models.Account, len(a.accounts))
	copy(out, a.accounts)
	return out
}

func (a *Accounts) save() error {
	for i := range a.accounts {
		a.accounts[i].Position = i
	}
	rows := make([]models.Account, len(a.accounts))
	copy(rows, a.accounts)
	return a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Account{}).Error; err != nil {
			return fmt.Errorf("clear accounts: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("write accounts: %w", err)
		}
		return nil
	})
}
