package dto

import (
	"github.com/shopspring/decimal"
)

// GroupSpendSummary compares a group's allocation with its actual spend.
type GroupSpendSummary struct {
	Name      string          `json:"name"`
	Allocated decimal.Decimal `json:"allocated"`
	Spent     decimal.Decimal `json:"spent"`
}

// DashboardSummaryResponse is the month's headline figures.
type DashboardSummaryResponse struct {
	Month    string              `json:"month"`
	Income   decimal.Decimal     `json:"income"`
	Expenses decimal.Decimal     `json:"expenses"`
	Net      decimal.Decimal     `json:"net"`
	Groups   []GroupSpendSummary `json:"groups"`
}
