package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/casafin/casafin_backend/internal/apperrors"
	"github.com/casafin/casafin_backend/internal/core/domain"
	portssvc "github.com/casafin/casafin_backend/internal/core/ports/services"
	"github.com/casafin/casafin_backend/internal/dto"
)

type BudgetServiceTestSuite struct {
	suite.Suite
	mockRepo *MockBudgetRepository
	service  portssvc.BudgetSvcFacade
	ctx      context.Context
}

func (s *BudgetServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockBudgetRepository)
	s.service = NewBudgetService(s.mockRepo)
	s.ctx = context.Background()
}

func (s *BudgetServiceTestSuite) TestCreateGroup_NormalizesMonth() {
	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	group := &domain.BudgetGroup{GroupID: "g1", Name: "Moradia", MonthYear: march}

	s.mockRepo.On("EnsureGroup", s.ctx, "Moradia", march, "user-1", mock.Anything).
		Return(group, true, nil)

	got, err := s.service.CreateGroup(s.ctx, dto.CreateGroupRequest{Name: "Moradia", Month: "2026-03"}, "user-1")
	s.Require().NoError(err)
	s.Equal("g1", got.GroupID)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *BudgetServiceTestSuite) TestCreateGroup_ReservedNameRejected() {
	_, err := s.service.CreateGroup(s.ctx, dto.CreateGroupRequest{Name: domain.SystemGroupName, Month: "2026-03"}, "user-1")
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *BudgetServiceTestSuite) TestCreateGroup_InvalidMonthRejected() {
	_, err := s.service.CreateGroup(s.ctx, dto.CreateGroupRequest{Name: "Moradia", Month: "March 2026"}, "user-1")
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *BudgetServiceTestSuite) TestUpdateGroup_RenameFansOutAcrossMonths() {
	group := &domain.BudgetGroup{GroupID: "g1", Name: "Moradia"}
	s.mockRepo.On("FindGroupByID", s.ctx, "g1").Return(group, nil)
	s.mockRepo.On("RenameGroups", s.ctx, "Moradia", "Casa", "user-1", mock.Anything).
		Return(int64(4), nil)

	err := s.service.UpdateGroup(s.ctx, "g1", dto.UpdateGroupRequest{Name: "Casa"}, "user-1")
	s.Require().NoError(err)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *BudgetServiceTestSuite) TestUpdateGroup_SystemGroupImmutable() {
	group := &domain.BudgetGroup{GroupID: "g-sys", Name: domain.SystemGroupName}
	s.mockRepo.On("FindGroupByID", s.ctx, "g-sys").Return(group, nil)

	err := s.service.UpdateGroup(s.ctx, "g-sys", dto.UpdateGroupRequest{Name: "Outro"}, "user-1")
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockRepo.AssertNotCalled(s.T(), "RenameGroups", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *BudgetServiceTestSuite) TestDeleteGroup_RejectedWithLinkedTransactions() {
	group := &domain.BudgetGroup{GroupID: "g1", Name: "Moradia"}
	s.mockRepo.On("FindGroupByID", s.ctx, "g1").Return(group, nil)
	s.mockRepo.On("CountTransactionsByGroupName", s.ctx, "Moradia").Return(int64(3), nil)

	err := s.service.DeleteGroup(s.ctx, "g1", "user-1")
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockRepo.AssertNotCalled(s.T(), "DeleteGroupsByName", mock.Anything, mock.Anything)
}

func (s *BudgetServiceTestSuite) TestDeleteGroup_FansOutAcrossMonths() {
	group := &domain.BudgetGroup{GroupID: "g1", Name: "Moradia"}
	s.mockRepo.On("FindGroupByID", s.ctx, "g1").Return(group, nil)
	s.mockRepo.On("CountTransactionsByGroupName", s.ctx, "Moradia").Return(int64(0), nil)
	s.mockRepo.On("DeleteGroupsByName", s.ctx, "Moradia").Return(int64(4), nil)

	err := s.service.DeleteGroup(s.ctx, "g1", "user-1")
	s.Require().NoError(err)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *BudgetServiceTestSuite) TestCreateCategory_ReplicatesAcrossGroupInstances() {
	group := &domain.BudgetGroup{GroupID: "g-mar", Name: "Moradia"}
	instances := []domain.BudgetGroup{
		{GroupID: "g-jan", Name: "Moradia"},
		{GroupID: "g-feb", Name: "Moradia"},
		{GroupID: "g-mar", Name: "Moradia"},
	}

	s.mockRepo.On("FindGroupByID", s.ctx, "g-mar").Return(group, nil)
	s.mockRepo.On("FindGroupsByName", s.ctx, "Moradia").Return(instances, nil)
	for _, inst := range instances {
		cat := &domain.BudgetCategory{CategoryID: "cat-" + inst.GroupID, GroupID: inst.GroupID, Name: "Aluguel"}
		s.mockRepo.On("EnsureCategory", s.ctx, inst.GroupID, "Aluguel", false, "user-1", mock.Anything).
			Return(cat, true, nil)
	}

	got, err := s.service.CreateCategory(s.ctx, dto.CreateCategoryRequest{GroupID: "g-mar", Name: "Aluguel"}, "user-1")
	s.Require().NoError(err)
	s.Equal("g-mar", got.GroupID)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *BudgetServiceTestSuite) TestCreateCategory_SystemGroupRejected() {
	group := &domain.BudgetGroup{GroupID: "g-sys", Name: domain.SystemGroupName}
	s.mockRepo.On("FindGroupByID", s.ctx, "g-sys").Return(group, nil)

	_, err := s.service.CreateCategory(s.ctx, dto.CreateCategoryRequest{GroupID: "g-sys", Name: "Qualquer"}, "user-1")
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *BudgetServiceTestSuite) TestUpdateCategory_ReadyToAssignImmutable() {
	rta := &domain.BudgetCategory{CategoryID: "cat-rta", Name: domain.ReadyToAssignName, IsSpecial: true}
	s.mockRepo.On("FindCategoryByID", s.ctx, "cat-rta").Return(rta, nil)

	amount := decimal.NewFromInt(100)
	err := s.service.UpdateCategory(s.ctx, "cat-rta", dto.UpdateCategoryRequest{AllocatedAmount: &amount}, "user-1")
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockRepo.AssertNotCalled(s.T(), "SetAllocated", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *BudgetServiceTestSuite) TestUpdateCategory_NegativeAllocationRejected() {
	cat := &domain.BudgetCategory{CategoryID: "cat-1", GroupID: "g1", Name: "Aluguel"}
	s.mockRepo.On("FindCategoryByID", s.ctx, "cat-1").Return(cat, nil)

	amount := decimal.NewFromInt(-10)
	err := s.service.UpdateCategory(s.ctx, "cat-1", dto.UpdateCategoryRequest{AllocatedAmount: &amount}, "user-1")
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *BudgetServiceTestSuite) TestUpdateCategory_AllocationAppliesToSingleInstance() {
	cat := &domain.BudgetCategory{CategoryID: "cat-1", GroupID: "g1", Name: "Aluguel"}
	s.mockRepo.On("FindCategoryByID", s.ctx, "cat-1").Return(cat, nil)
	amount := decimal.NewFromInt(1500)
	s.mockRepo.On("SetAllocated", s.ctx, "cat-1",
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(amount) }),
		"user-1", mock.Anything).Return(nil)

	err := s.service.UpdateCategory(s.ctx, "cat-1", dto.UpdateCategoryRequest{AllocatedAmount: &amount}, "user-1")
	s.Require().NoError(err)
	s.mockRepo.AssertNotCalled(s.T(), "RenameCategories", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *BudgetServiceTestSuite) TestUpdateCategory_RenameFansOut() {
	cat := &domain.BudgetCategory{CategoryID: "cat-1", GroupID: "g1", Name: "Aluguel"}
	group := &domain.BudgetGroup{GroupID: "g1", Name: "Moradia"}
	s.mockRepo.On("FindCategoryByID", s.ctx, "cat-1").Return(cat, nil)
	s.mockRepo.On("FindGroupByID", s.ctx, "g1").Return(group, nil)
	s.mockRepo.On("RenameCategories", s.ctx, "Moradia", "Aluguel", "Renda", "user-1", mock.Anything).
		Return(int64(3), nil)

	newName := "Renda"
	err := s.service.UpdateCategory(s.ctx, "cat-1", dto.UpdateCategoryRequest{Name: &newName}, "user-1")
	s.Require().NoError(err)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *BudgetServiceTestSuite) TestDeleteCategory_RejectedWithLinkedTransactions() {
	cat := &domain.BudgetCategory{CategoryID: "cat-1", GroupID: "g1", Name: "Aluguel"}
	group := &domain.BudgetGroup{GroupID: "g1", Name: "Moradia"}
	s.mockRepo.On("FindCategoryByID", s.ctx, "cat-1").Return(cat, nil)
	s.mockRepo.On("FindGroupByID", s.ctx, "g1").Return(group, nil)
	s.mockRepo.On("CountTransactionsByCategoryName", s.ctx, "Moradia", "Aluguel").Return(int64(2), nil)

	err := s.service.DeleteCategory(s.ctx, "cat-1", "user-1")
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockRepo.AssertNotCalled(s.T(), "DeleteCategoriesByName", mock.Anything, mock.Anything, mock.Anything)
}

func (s *BudgetServiceTestSuite) TestFindOrCreateReadyToAssign_CreatesSystemStructure() {
	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	group := &domain.BudgetGroup{GroupID: "g-sys", Name: domain.SystemGroupName, MonthYear: march}
	rta := &domain.BudgetCategory{CategoryID: "cat-rta", GroupID: "g-sys", Name: domain.ReadyToAssignName, IsSpecial: true}

	s.mockRepo.On("EnsureGroup", s.ctx, domain.SystemGroupName, march, "system", mock.Anything).
		Return(group, false, nil)
	s.mockRepo.On("EnsureCategory", s.ctx, "g-sys", domain.ReadyToAssignName, true, "system", mock.Anything).
		Return(rta, true, nil)

	// Mid-month input normalizes to the first of the month.
	got, err := s.service.FindOrCreateReadyToAssign(s.ctx, time.Date(2026, 3, 17, 14, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Equal("cat-rta", got.CategoryID)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *BudgetServiceTestSuite) TestSyncMonth_CountsOnlyNewEntries() {
	april := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	structure := []domain.StructureEntry{
		{GroupName: "Moradia", CategoryName: "Aluguel"},
		{GroupName: "Moradia", CategoryName: "Luz"},
		{GroupName: domain.SystemGroupName, CategoryName: domain.ReadyToAssignName, IsSpecial: true},
	}

	s.mockRepo.On("DistinctStructure", s.ctx).Return(structure, nil)
	s.mockRepo.On("EnsureGroup", s.ctx, "Moradia", april, "user-1", mock.Anything).
		Return(&domain.BudgetGroup{GroupID: "g-mor", Name: "Moradia"}, true, nil).Once()
	s.mockRepo.On("EnsureGroup", s.ctx, domain.SystemGroupName, april, "user-1", mock.Anything).
		Return(&domain.BudgetGroup{GroupID: "g-sys", Name: domain.SystemGroupName}, false, nil).Once()
	s.mockRepo.On("EnsureCategory", s.ctx, "g-mor", "Aluguel", false, "user-1", mock.Anything).
		Return(&domain.BudgetCategory{CategoryID: "c1"}, true, nil)
	s.mockRepo.On("EnsureCategory", s.ctx, "g-mor", "Luz", false, "user-1", mock.Anything).
		Return(&domain.BudgetCategory{CategoryID: "c2"}, true, nil)
	s.mockRepo.On("EnsureCategory", s.ctx, "g-sys", domain.ReadyToAssignName, true, "user-1", mock.Anything).
		Return(&domain.BudgetCategory{CategoryID: "c3"}, false, nil)

	created, err := s.service.SyncMonth(s.ctx, april, "user-1")
	s.Require().NoError(err)
	s.Equal(2, created)

	// Each group is ensured once even with several categories.
	s.mockRepo.AssertNumberOfCalls(s.T(), "EnsureGroup", 2)
}

func TestBudgetServiceSuite(t *testing.T) {
	suite.Run(t, new(BudgetServiceTestSuite))
}
