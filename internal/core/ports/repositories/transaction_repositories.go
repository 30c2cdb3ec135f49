package repositories

import (
	"context"
	"time"

	"github.com/casafin/casafin_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListTransactionsFilter narrows a transaction listing. Zero values mean
// "no filter"; Month windows on [first, first of next month).
type ListTransactionsFilter struct {
	AccountID string
	Month     *time.Time
	Limit     int
	NextToken *string
}

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered, token-paginated listing ordered
	// by date descending.
	ListTransactions(ctx context.Context, filter ListTransactionsFilter) ([]domain.Transaction, *string, error)

	// SumByCategoriesInRange sums transaction amounts per category for the
	// given window. Categories with no transactions are absent from the map.
	SumByCategoriesInRange(ctx context.Context, categoryIDs []string, from, to time.Time) (map[string]decimal.Decimal, error)

	// SumInflowsForMonth sums |amount| over inflow transactions (negative
	// amount, non-credit-card account) that are either uncategorized or
	// assigned to the given Ready-to-Assign category, within the window.
	// A nil category ID restricts the sum to uncategorized inflows.
	SumInflowsForMonth(ctx context.Context, readyToAssignCategoryID *string, from, to time.Time) (decimal.Decimal, error)

	// SumSharedByPayer sums shared transaction amounts per paying user for
	// the window.
	SumSharedByPayer(ctx context.Context, from, to time.Time) (map[string]decimal.Decimal, error)

	// SumCashFlow returns the window's total income (as a positive figure)
	// and total expenses.
	SumCashFlow(ctx context.Context, from, to time.Time) (income, expenses decimal.Decimal, err error)

	// CountByAccountID counts transactions linked to an account.
	CountByAccountID(ctx context.Context, accountID string) (int64, error)

	// CountByCategoryID counts transactions linked to a category instance.
	CountByCategoryID(ctx context.Context, categoryID string) (int64, error)

	// SearchPayees returns distinct payees matching the query, most recent
	// first, for autocomplete.
	SearchPayees(ctx context.Context, query string, limit int) ([]string, error)
}

// TransactionWriter defines write operations for transaction data. The
// balance-affecting methods run the row write and the account's atomic
// balance increment inside one database transaction.
type TransactionWriter interface {
	// SaveTransaction inserts the transaction and applies balanceDelta to
	// its account, atomically.
	SaveTransaction(ctx context.Context, txn domain.Transaction, balanceDelta decimal.Decimal) error

	// UpdateTransaction updates the row and applies balanceDelta (the
	// type-aware delta of newAmount-oldAmount; zero skips the balance
	// write), atomically.
	UpdateTransaction(ctx context.Context, txn domain.Transaction, balanceDelta decimal.Decimal) error

	// DeleteTransaction removes the row and applies balanceDelta (the
	// type-aware delta of the negated stored amount), atomically.
	DeleteTransaction(ctx context.Context, transactionID, accountID string, balanceDelta decimal.Decimal, userID string, now time.Time) error

	// SetTransactionCategory re-points a transaction's category link without
	// touching balances. Used by Ready-to-Assign tagging.
	SetTransactionCategory(ctx context.Context, transactionID string, categoryID *string, userID string, now time.Time) error

	// SaveSettlementTransfer inserts the settlement transaction and applies
	// the two balancing account deltas (debtor decreases, creditor
	// increases) in one database transaction.
	SaveSettlementTransfer(ctx context.Context, txn domain.Transaction, creditorAccountID string) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
