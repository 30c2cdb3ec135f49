package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/casafin/casafin_backend/internal/core/domain"
	portsrepo "github.com/casafin/casafin_backend/internal/core/ports/repositories"
	portssvc "github.com/casafin/casafin_backend/internal/core/ports/services"
	"github.com/casafin/casafin_backend/internal/dto"
	"github.com/casafin/casafin_backend/internal/utils/months"
)

// reportingService derives the read-side views. Spend, Ready-to-Assign and
// cash flow are all computed from transactions at read time, so they stay
// correct after any edit or delete without compensation logic.
type reportingService struct {
	budgetRepo portsrepo.BudgetReader
	txnRepo    portsrepo.TransactionReader
}

// NewReportingService creates a new reporting service instance.
func NewReportingService(budgetRepo portsrepo.BudgetReader, txnRepo portsrepo.TransactionReader) portssvc.ReportingSvcFacade {
	return &reportingService{budgetRepo: budgetRepo, txnRepo: txnRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// GetMonthlyBudget builds the month's budget view: every group with its
// categories' allocated, spent and available figures, plus the month's
// Ready-to-Assign amount (inflows minus total allocations).
func (s *reportingService) GetMonthlyBudget(ctx context.Context, month time.Time) (*dto.MonthlyBudgetResponse, error) {
	month = months.Normalize(month)
	from, to := months.Window(month)

	groups, err := s.budgetRepo.FindGroupsByMonth(ctx, month)
	if err != nil {
		return nil, err
	}

	var ordinaryIDs []string
	var rtaCategoryID *string
	for gi := range groups {
		for ci := range groups[gi].Categories {
			cat := &groups[gi].Categories[ci]
			if cat.IsReadyToAssign() {
				rtaCategoryID = &cat.CategoryID
			} else {
				ordinaryIDs = append(ordinaryIDs, cat.CategoryID)
			}
		}
	}

	spent := map[string]decimal.Decimal{}
	if len(ordinaryIDs) > 0 {
		spent, err = s.txnRepo.SumByCategoriesInRange(ctx, ordinaryIDs, from, to)
		if err != nil {
			return nil, err
		}
	}

	inflows, err := s.txnRepo.SumInflowsForMonth(ctx, rtaCategoryID, from, to)
	if err != nil {
		return nil, err
	}
	allocated, err := s.budgetRepo.SumAllocatedForMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	readyToAssign := inflows.Sub(allocated)

	resp := &dto.MonthlyBudgetResponse{
		Month:         months.Format(month),
		Groups:        make([]dto.GroupView, 0, len(groups)),
		ReadyToAssign: readyToAssign,
	}
	for gi := range groups {
		group := &groups[gi]
		view := dto.GroupView{
			GroupID:        group.GroupID,
			Name:           group.Name,
			TotalAllocated: decimal.Zero,
			Categories:     make([]dto.CategoryView, 0, len(group.Categories)),
		}
		for ci := range group.Categories {
			cat := &group.Categories[ci]
			if cat.IsReadyToAssign() {
				view.Categories = append(view.Categories, dto.CategoryView{
					CategoryID: cat.CategoryID,
					Name:       cat.Name,
					Allocated:  inflows,
					Spent:      decimal.Zero,
					Available:  readyToAssign,
					IsSpecial:  true,
				})
				continue
			}
			catSpent, ok := spent[cat.CategoryID]
			if !ok {
				catSpent = decimal.Zero
			}
			view.TotalAllocated = view.TotalAllocated.Add(cat.AllocatedAmount)
			view.Categories = append(view.Categories, dto.CategoryView{
				CategoryID: cat.CategoryID,
				Name:       cat.Name,
				Allocated:  cat.AllocatedAmount,
				Spent:      catSpent,
				Available:  cat.AllocatedAmount.Sub(catSpent),
				IsSpecial:  false,
			})
		}
		resp.Groups = append(resp.Groups, view)
	}
	return resp, nil
}

// GetDashboardSummary returns the month's headline cash-flow figures and a
// per-group allocation-vs-spend comparison.
func (s *reportingService) GetDashboardSummary(ctx context.Context, month time.Time) (*dto.DashboardSummaryResponse, error) {
	month = months.Normalize(month)
	from, to := months.Window(month)

	income, expenses, err := s.txnRepo.SumCashFlow(ctx, from, to)
	if err != nil {
		return nil, err
	}

	groups, err := s.budgetRepo.FindGroupsByMonth(ctx, month)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardSummaryResponse{
		Month:    months.Format(month),
		Income:   income,
		Expenses: expenses,
		Net:      income.Sub(expenses),
		Groups:   make([]dto.GroupSpendSummary, 0, len(groups)),
	}

	for gi := range groups {
		group := &groups[gi]
		if group.Name == domain.SystemGroupName {
			continue
		}
		var ids []string
		allocated := decimal.Zero
		for ci := range group.Categories {
			cat := &group.Categories[ci]
			ids = append(ids, cat.CategoryID)
			allocated = allocated.Add(cat.AllocatedAmount)
		}
		groupSpent := decimal.Zero
		if len(ids) > 0 {
			perCategory, err := s.txnRepo.SumByCategoriesInRange(ctx, ids, from, to)
			if err != nil {
				return nil, err
			}
			for _, v := range perCategory {
				groupSpent = groupSpent.Add(v)
			}
		}
		resp.Groups = append(resp.Groups, dto.GroupSpendSummary{
			Name:      group.Name,
			Allocated: allocated,
			Spent:     groupSpent,
		})
	}
	return resp, nil
}
