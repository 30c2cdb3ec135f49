package services

import (
	"context"
	"time"

	"github.com/casafin/casafin_backend/internal/dto"
)

// ReportingSvcFacade derives read-side figures from already-consistent
// state: per-category spend, the monthly budget view and the dashboard.
type ReportingSvcFacade interface {
	GetMonthlyBudget(ctx context.Context, month time.Time) (*dto.MonthlyBudgetResponse, error)
	GetDashboardSummary(ctx context.Context, month time.Time) (*dto.DashboardSummaryResponse, error)
}
