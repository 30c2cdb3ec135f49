package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/casafin/casafin_backend/internal/core/domain"
	portssvc "github.com/casafin/casafin_backend/internal/core/ports/services"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockBudgetRepo *MockBudgetRepository
	mockTxnRepo    *MockTransactionRepository
	service        portssvc.ReportingSvcFacade
	ctx            context.Context
	month          time.Time
}

func (s *ReportingServiceTestSuite) SetupTest() {
	s.mockBudgetRepo = new(MockBudgetRepository)
	s.mockTxnRepo = new(MockTransactionRepository)
	s.service = NewReportingService(s.mockBudgetRepo, s.mockTxnRepo)
	s.ctx = context.Background()
	s.month = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
}

func (s *ReportingServiceTestSuite) TestGetMonthlyBudget_DerivesSpendAndReadyToAssign() {
	groups := []domain.BudgetGroup{
		{
			GroupID: "g-sys", Name: domain.SystemGroupName, MonthYear: s.month,
			Categories: []domain.BudgetCategory{
				{CategoryID: "cat-rta", GroupID: "g-sys", Name: domain.ReadyToAssignName, IsSpecial: true},
			},
		},
		{
			GroupID: "g-mor", Name: "Moradia", MonthYear: s.month,
			Categories: []domain.BudgetCategory{
				{CategoryID: "cat-alug", GroupID: "g-mor", Name: "Aluguel", AllocatedAmount: decimal.NewFromInt(500)},
			},
		},
	}

	s.mockBudgetRepo.On("FindGroupsByMonth", s.ctx, s.month).Return(groups, nil)
	s.mockTxnRepo.On("SumByCategoriesInRange", s.ctx, []string{"cat-alug"}, mock.Anything, mock.Anything).
		Return(map[string]decimal.Decimal{"cat-alug": decimal.NewFromInt(200)}, nil)
	s.mockTxnRepo.On("SumInflowsForMonth", s.ctx,
		mock.MatchedBy(func(id *string) bool { return id != nil && *id == "cat-rta" }),
		mock.Anything, mock.Anything).Return(decimal.NewFromInt(3000), nil)
	s.mockBudgetRepo.On("SumAllocatedForMonth", s.ctx, s.month).Return(decimal.NewFromInt(500), nil)

	resp, err := s.service.GetMonthlyBudget(s.ctx, s.month)
	s.Require().NoError(err)
	s.Equal("2026-03", resp.Month)
	s.True(resp.ReadyToAssign.Equal(decimal.NewFromInt(2500)))

	s.Require().Len(resp.Groups, 2)
	moradia := resp.Groups[1]
	s.Require().Len(moradia.Categories, 1)
	s.True(moradia.Categories[0].Spent.Equal(decimal.NewFromInt(200)))
	s.True(moradia.Categories[0].Available.Equal(decimal.NewFromInt(300)))
	s.True(moradia.TotalAllocated.Equal(decimal.NewFromInt(500)))

	rtaView := resp.Groups[0].Categories[0]
	s.True(rtaView.IsSpecial)
	s.True(rtaView.Allocated.Equal(decimal.NewFromInt(3000)))
	s.True(rtaView.Available.Equal(decimal.NewFromInt(2500)))
}

func (s *ReportingServiceTestSuite) TestGetMonthlyBudget_EmptyMonth() {
	s.mockBudgetRepo.On("FindGroupsByMonth", s.ctx, s.month).Return([]domain.BudgetGroup{}, nil)
	s.mockTxnRepo.On("SumInflowsForMonth", s.ctx,
		mock.MatchedBy(func(id *string) bool { return id == nil }),
		mock.Anything, mock.Anything).Return(decimal.Zero, nil)
	s.mockBudgetRepo.On("SumAllocatedForMonth", s.ctx, s.month).Return(decimal.Zero, nil)

	resp, err := s.service.GetMonthlyBudget(s.ctx, s.month)
	s.Require().NoError(err)
	s.Empty(resp.Groups)
	s.True(resp.ReadyToAssign.IsZero())
	s.mockTxnRepo.AssertNotCalled(s.T(), "SumByCategoriesInRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReportingServiceTestSuite) TestGetDashboardSummary_ExcludesSystemGroup() {
	groups := []domain.BudgetGroup{
		{
			GroupID: "g-sys", Name: domain.SystemGroupName, MonthYear: s.month,
			Categories: []domain.BudgetCategory{
				{CategoryID: "cat-rta", Name: domain.ReadyToAssignName, IsSpecial: true},
			},
		},
		{
			GroupID: "g-mor", Name: "Moradia", MonthYear: s.month,
			Categories: []domain.BudgetCategory{
				{CategoryID: "cat-alug", Name: "Aluguel", AllocatedAmount: decimal.NewFromInt(500)},
				{CategoryID: "cat-luz", Name: "Luz", AllocatedAmount: decimal.NewFromInt(150)},
			},
		},
	}

	s.mockTxnRepo.On("SumCashFlow", s.ctx, mock.Anything, mock.Anything).
		Return(decimal.NewFromInt(5000), decimal.NewFromInt(1800), nil)
	s.mockBudgetRepo.On("FindGroupsByMonth", s.ctx, s.month).Return(groups, nil)
	s.mockTxnRepo.On("SumByCategoriesInRange", s.ctx, []string{"cat-alug", "cat-luz"}, mock.Anything, mock.Anything).
		Return(map[string]decimal.Decimal{
			"cat-alug": decimal.NewFromInt(500),
			"cat-luz":  decimal.NewFromInt(120),
		}, nil)

	resp, err := s.service.GetDashboardSummary(s.ctx, s.month)
	s.Require().NoError(err)
	s.True(resp.Net.Equal(decimal.NewFromInt(3200)))

	s.Require().Len(resp.Groups, 1)
	s.Equal("Moradia", resp.Groups[0].Name)
	s.True(resp.Groups[0].Allocated.Equal(decimal.NewFromInt(650)))
	s.True(resp.Groups[0].Spent.Equal(decimal.NewFromInt(620)))
}

func TestReportingServiceSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
