package repositories

import (
	"context"
	"time"

	"github.com/casafin/casafin_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BudgetReader defines read operations for budget structure data
type BudgetReader interface {
	// FindGroupByID retrieves a group (without categories).
	FindGroupByID(ctx context.Context, groupID string) (*domain.BudgetGroup, error)

	// FindGroupsByMonth retrieves all groups for a month with their
	// categories populated.
	FindGroupsByMonth(ctx context.Context, month time.Time) ([]domain.BudgetGroup, error)

	// FindGroupsByName retrieves every month-instance of a group template.
	FindGroupsByName(ctx context.Context, name string) ([]domain.BudgetGroup, error)

	// FindCategoryByID retrieves a category by its unique identifier.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.BudgetCategory, error)

	// FindCategoryByNameInMonth retrieves a category by name within a month,
	// across all groups. Returns apperrors.ErrNotFound when absent.
	FindCategoryByNameInMonth(ctx context.Context, name string, month time.Time) (*domain.BudgetCategory, error)

	// DistinctStructure lists every (groupName, categoryName, isSpecial)
	// pair ever seen across all months. Month replication instantiates the
	// missing ones.
	DistinctStructure(ctx context.Context) ([]domain.StructureEntry, error)

	// SumAllocatedForMonth sums allocatedAmount across the month's ordinary
	// (non-special) categories.
	SumAllocatedForMonth(ctx context.Context, month time.Time) (decimal.Decimal, error)

	// CountTransactionsByGroupName counts transactions linked to any
	// category of any month-instance of the named group.
	CountTransactionsByGroupName(ctx context.Context, name string) (int64, error)

	// CountTransactionsByCategoryName counts transactions linked to any
	// month-instance of the named category under the named group.
	CountTransactionsByCategoryName(ctx context.Context, groupName, categoryName string) (int64, error)
}

// BudgetWriter defines write operations for budget structure data
type BudgetWriter interface {
	// EnsureGroup finds or creates the (name, month) group. Safe under
	// concurrent calls: implementations rely on a unique constraint with an
	// on-conflict insert followed by a re-select. The bool reports whether a
	// row was created.
	EnsureGroup(ctx context.Context, name string, month time.Time, userID string, now time.Time) (*domain.BudgetGroup, bool, error)

	// EnsureCategory finds or creates a category inside a group, same
	// idempotency contract as EnsureGroup. New categories start with a zero
	// allocation.
	EnsureCategory(ctx context.Context, groupID, name string, isSpecial bool, userID string, now time.Time) (*domain.BudgetCategory, bool, error)

	// RenameGroups renames every month-instance of a group template.
	RenameGroups(ctx context.Context, oldName, newName, userID string, now time.Time) (int64, error)

	// DeleteGroupsByName removes every month-instance of a group template
	// and, by cascade, their categories.
	DeleteGroupsByName(ctx context.Context, name string) (int64, error)

	// RenameCategories renames a category across every month-instance of the
	// parent group template.
	RenameCategories(ctx context.Context, groupName, oldName, newName, userID string, now time.Time) (int64, error)

	// DeleteCategoriesByName removes a category across every month-instance
	// of the parent group template.
	DeleteCategoriesByName(ctx context.Context, groupName, categoryName string) (int64, error)

	// SetAllocated sets a single category instance's allocation.
	SetAllocated(ctx context.Context, categoryID string, amount decimal.Decimal, userID string, now time.Time) error

	// TransferAllocation atomically moves budget from one category to
	// another, clamping to the source's current allocation. Both rows are
	// locked for the duration; it returns the amount actually moved.
	TransferAllocation(ctx context.Context, fromCategoryID, toCategoryID string, requested decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error)
}

// BudgetRepositoryFacade combines all budget repository interfaces
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
}
