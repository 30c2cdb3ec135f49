package services

import (
	"context"
	"time"

	"github.com/casafin/casafin_backend/internal/apperrors"
	"github.com/casafin/casafin_backend/internal/core/domain"
	portsrepo "github.com/casafin/casafin_backend/internal/core/ports/repositories"
	portssvc "github.com/casafin/casafin_backend/internal/core/ports/services"
	"github.com/casafin/casafin_backend/internal/dto"
	"github.com/casafin/casafin_backend/internal/middleware"
	"github.com/casafin/casafin_backend/internal/utils/months"
)

// budgetService manages the budget structure. Groups and categories behave
// as name-addressed templates: renames and deletes fan out across every
// month-instance sharing the name, while allocation edits stay local to one
// month. The reserved system structure (the "Sistema" group and its
// "Ready to Assign" category) is immutable to users.
type budgetService struct {
	budgetRepo portsrepo.BudgetRepositoryFacade
}

// NewBudgetService creates a new budget service instance.
func NewBudgetService(budgetRepo portsrepo.BudgetRepositoryFacade) portssvc.BudgetSvcFacade {
	return &budgetService{budgetRepo: budgetRepo}
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

// CreateGroup creates a group in one month. Creation is idempotent on
// (name, month): re-creating an existing pair returns the existing group.
func (s *budgetService) CreateGroup(ctx context.Context, req dto.CreateGroupRequest, userID string) (*domain.BudgetGroup, error) {
	if req.Name == domain.SystemGroupName {
		return nil, apperrors.NewAppError(400, "group name is reserved", apperrors.ErrValidation)
	}
	month, err := months.Parse(req.Month)
	if err != nil {
		return nil, apperrors.NewAppError(400, "invalid month, expected YYYY-MM", apperrors.ErrValidation)
	}

	group, created, err := s.budgetRepo.EnsureGroup(ctx, req.Name, month, userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if created {
		middleware.GetLoggerFromCtx(ctx).Info("Budget group created", "group_id", group.GroupID, "name", group.Name)
	}
	return group, nil
}

// UpdateGroup renames a group template across every month.
func (s *budgetService) UpdateGroup(ctx context.Context, groupID string, req dto.UpdateGroupRequest, userID string) error {
	group, err := s.budgetRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group.IsSystem() {
		return apperrors.NewAppError(400, "system group cannot be renamed", apperrors.ErrValidation)
	}
	if req.Name == domain.SystemGroupName {
		return apperrors.NewAppError(400, "group name is reserved", apperrors.ErrValidation)
	}
	if req.Name == group.Name {
		return nil
	}

	renamed, err := s.budgetRepo.RenameGroups(ctx, group.Name, req.Name, userID, time.Now().UTC())
	if err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Budget group renamed",
		"old_name", group.Name, "new_name", req.Name, "instances", renamed)
	return nil
}

// DeleteGroup removes a group template across every month. Rejected while
// any transaction still references one of its categories.
func (s *budgetService) DeleteGroup(ctx context.Context, groupID string, userID string) error {
	group, err := s.budgetRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group.IsSystem() {
		return apperrors.NewAppError(400, "system group cannot be deleted", apperrors.ErrValidation)
	}

	linked, err := s.budgetRepo.CountTransactionsByGroupName(ctx, group.Name)
	if err != nil {
		return err
	}
	if linked > 0 {
		return apperrors.NewAppError(400, "group has categories with linked transactions", apperrors.ErrValidation)
	}

	deleted, err := s.budgetRepo.DeleteGroupsByName(ctx, group.Name)
	if err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Budget group deleted", "name", group.Name, "instances", deleted)
	return nil
}

// CreateCategory creates a category in every month-instance of the parent
// group, so the template stays uniform. Returns the instance belonging to
// the addressed group.
func (s *budgetService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, userID string) (*domain.BudgetCategory, error) {
	group, err := s.budgetRepo.FindGroupByID(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if group.IsSystem() {
		return nil, apperrors.NewAppError(400, "categories cannot be added to the system group", apperrors.ErrValidation)
	}
	if req.Name == domain.ReadyToAssignName {
		return nil, apperrors.NewAppError(400, "category name is reserved", apperrors.ErrValidation)
	}

	instances, err := s.budgetRepo.FindGroupsByName(ctx, group.Name)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var result *domain.BudgetCategory
	for i := range instances {
		cat, _, err := s.budgetRepo.EnsureCategory(ctx, instances[i].GroupID, req.Name, false, userID, now)
		if err != nil {
			return nil, err
		}
		if instances[i].GroupID == req.GroupID {
			result = cat
		}
	}
	if result == nil {
		// The addressed group was not among its own name-instances; the
		// store is inconsistent.
		return nil, apperrors.NewAppError(500, "group instance missing after replication", apperrors.ErrInternal)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Budget category created",
		"category_id", result.CategoryID, "name", result.Name, "group", group.Name)
	return result, nil
}

// UpdateCategory updates a category. A rename fans out across the group
// template; an allocation change applies only to this instance.
func (s *budgetService) UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest, userID string) error {
	cat, err := s.budgetRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if cat.IsReadyToAssign() {
		return apperrors.NewAppError(400, "Ready to Assign cannot be modified", apperrors.ErrValidation)
	}

	now := time.Now().UTC()

	if req.AllocatedAmount != nil {
		if req.AllocatedAmount.IsNegative() {
			return apperrors.NewAppError(400, "allocated amount cannot be negative", apperrors.ErrValidation)
		}
		if err := s.budgetRepo.SetAllocated(ctx, categoryID, *req.AllocatedAmount, userID, now); err != nil {
			return err
		}
	}

	if req.Name != nil && *req.Name != cat.Name {
		if *req.Name == domain.ReadyToAssignName {
			return apperrors.NewAppError(400, "category name is reserved", apperrors.ErrValidation)
		}
		group, err := s.budgetRepo.FindGroupByID(ctx, cat.GroupID)
		if err != nil {
			return err
		}
		renamed, err := s.budgetRepo.RenameCategories(ctx, group.Name, cat.Name, *req.Name, userID, now)
		if err != nil {
			return err
		}
		middleware.GetLoggerFromCtx(ctx).Info("Budget category renamed",
			"old_name", cat.Name, "new_name", *req.Name, "instances", renamed)
	}

	return nil
}

// DeleteCategory removes a category across the group template. Rejected
// while any transaction still references one of its instances.
func (s *budgetService) DeleteCategory(ctx context.Context, categoryID string, userID string) error {
	cat, err := s.budgetRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if cat.IsReadyToAssign() {
		return apperrors.NewAppError(400, "Ready to Assign cannot be deleted", apperrors.ErrValidation)
	}

	group, err := s.budgetRepo.FindGroupByID(ctx, cat.GroupID)
	if err != nil {
		return err
	}

	linked, err := s.budgetRepo.CountTransactionsByCategoryName(ctx, group.Name, cat.Name)
	if err != nil {
		return err
	}
	if linked > 0 {
		return apperrors.NewAppError(400, "category has linked transactions", apperrors.ErrValidation)
	}

	deleted, err := s.budgetRepo.DeleteCategoriesByName(ctx, group.Name, cat.Name)
	if err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Budget category deleted",
		"name", cat.Name, "group", group.Name, "instances", deleted)
	return nil
}

// FindOrCreateReadyToAssign lazily creates the month's reserved category.
// Both Ensure calls are idempotent upserts, so concurrent callers converge
// on the same row.
func (s *budgetService) FindOrCreateReadyToAssign(ctx context.Context, month time.Time) (*domain.BudgetCategory, error) {
	month = months.Normalize(month)
	now := time.Now().UTC()

	group, _, err := s.budgetRepo.EnsureGroup(ctx, domain.SystemGroupName, month, "system", now)
	if err != nil {
		return nil, err
	}
	cat, created, err := s.budgetRepo.EnsureCategory(ctx, group.GroupID, domain.ReadyToAssignName, true, "system", now)
	if err != nil {
		return nil, err
	}
	if created {
		middleware.GetLoggerFromCtx(ctx).Info("Ready to Assign created", "month", months.Format(month))
	}
	return cat, nil
}

// SyncMonth replicates the budget skeleton into the target month: every
// (group, category) name pair ever seen gets an instance with a zero
// allocation. Already-present entries are left untouched.
func (s *budgetService) SyncMonth(ctx context.Context, month time.Time, userID string) (int, error) {
	month = months.Normalize(month)

	structure, err := s.budgetRepo.DistinctStructure(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	created := 0
	groups := make(map[string]string) // group name -> groupID for this month
	for _, entry := range structure {
		groupID, ok := groups[entry.GroupName]
		if !ok {
			group, _, err := s.budgetRepo.EnsureGroup(ctx, entry.GroupName, month, userID, now)
			if err != nil {
				return created, err
			}
			groupID = group.GroupID
			groups[entry.GroupName] = groupID
		}
		_, isNew, err := s.budgetRepo.EnsureCategory(ctx, groupID, entry.CategoryName, entry.IsSpecial, userID, now)
		if err != nil {
			return created, err
		}
		if isNew {
			created++
		}
	}

	middleware.GetLoggerFromCtx(ctx).Info("Month synced",
		"month", months.Format(month), "created", created)
	return created, nil
}
