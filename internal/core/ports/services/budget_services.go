package services

import (
	"context"
	"time"

	"github.com/casafin/casafin_backend/internal/core/domain"
	"github.com/casafin/casafin_backend/internal/dto"
)

// BudgetSvcFacade defines the budget structure operations. Group and
// category names act as templates: name-addressed mutations fan out across
// every month sharing the name.
type BudgetSvcFacade interface {
	CreateGroup(ctx context.Context, req dto.CreateGroupRequest, userID string) (*domain.BudgetGroup, error)
	UpdateGroup(ctx context.Context, groupID string, req dto.UpdateGroupRequest, userID string) error
	DeleteGroup(ctx context.Context, groupID string, userID string) error

	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, userID string) (*domain.BudgetCategory, error)
	UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest, userID string) error
	DeleteCategory(ctx context.Context, categoryID string, userID string) error

	// FindOrCreateReadyToAssign lazily creates the month's reserved
	// "Ready to Assign" category inside the system group. Idempotent under
	// concurrent calls.
	FindOrCreateReadyToAssign(ctx context.Context, month time.Time) (*domain.BudgetCategory, error)

	// SyncMonth replicates the budget skeleton (every group/category name
	// ever seen) into the target month with zero allocations. Returns the
	// number of categories created.
	SyncMonth(ctx context.Context, month time.Time, userID string) (int, error)
}
