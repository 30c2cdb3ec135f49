package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetGroup is the persisted shape of a per-month budget group.
type BudgetGroup struct {
	GroupID   string    `db:"group_id"`
	Name      string    `db:"name"`
	MonthYear time.Time `db:"month_year"`
	AuditFields
}

// BudgetCategory is the persisted shape of a budget category.
type BudgetCategory struct {
	CategoryID      string          `db:"category_id"`
	GroupID         string          `db:"group_id"`
	Name            string          `db:"name"`
	AllocatedAmount decimal.Decimal `db:"allocated_amount"`
	IsSpecial       bool            `db:"is_special"`
	AuditFields
}
