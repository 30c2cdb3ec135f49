package repositories

import (
	"context"
	"time"

	"github.com/casafin/casafin_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves every household account.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// FindCheckingAccountByUser retrieves a user's checking account, used by
	// shared-expense settlement.
	FindCheckingAccountByUser(ctx context.Context, userID string) (*domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an account's mutable fields (name).
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account. Callers must have verified that no
	// transactions reference it.
	DeleteAccount(ctx context.Context, accountID string) error

	// AdjustBalance applies a signed delta to the stored balance as an atomic
	// increment (balance = balance + delta), never read-modify-write.
	AdjustBalance(ctx context.Context, accountID string, delta decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
