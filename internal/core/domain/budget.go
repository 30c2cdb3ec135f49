package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reserved names managed by the system. User-facing names are Portuguese,
// matching the product's locale.
const (
	SystemGroupName       = "Sistema"
	ReadyToAssignName     = "Ready to Assign"
	CardGroupName         = "Cartões"
	PaymentCategoryPrefix = "Pagamento "
	CardCategoryPrefix    = "Cartão "
)

// BudgetGroup is a named bucket of categories for one calendar month.
// Groups act as templates: every month that uses the same name gets its own
// row, and name-addressed operations fan out across all of them.
type BudgetGroup struct {
	GroupID    string           `json:"groupID"`
	Name       string           `json:"name"`
	MonthYear  time.Time        `json:"monthYear"` // first of month, UTC
	Categories []BudgetCategory `json:"categories,omitempty"`
	AuditFields
}

// IsSystem reports whether this group is the reserved system group, which
// users may not rename or delete.
func (g BudgetGroup) IsSystem() bool {
	return g.Name == SystemGroupName
}

// BudgetCategory is a spending envelope inside a group. AllocatedAmount is
// the month's budget for the envelope; "spent" and "available" are derived
// from transactions at read time.
type BudgetCategory struct {
	CategoryID      string          `json:"categoryID"`
	GroupID         string          `json:"groupID"`
	Name            string          `json:"name"`
	AllocatedAmount decimal.Decimal `json:"allocatedAmount"`
	IsSpecial       bool            `json:"isSpecial"`
	AuditFields
}

// IsReadyToAssign reports whether this is the reserved per-month
// "Ready to Assign" category.
func (c BudgetCategory) IsReadyToAssign() bool {
	return c.IsSpecial && c.Name == ReadyToAssignName
}

// StructureEntry is one (group, category) pair of the budget skeleton,
// independent of month. Month replication instantiates missing entries.
type StructureEntry struct {
	GroupName    string
	CategoryName string
	IsSpecial    bool
}
