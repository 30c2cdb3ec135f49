package mapping

import (
	"github.com/casafin/casafin_backend/internal/core/domain"
	"github.com/casafin/casafin_backend/internal/models"
)

// ToModelBudgetGroup converts a domain BudgetGroup to a model BudgetGroup
func ToModelBudgetGroup(d domain.BudgetGroup) models.BudgetGroup {
	return models.BudgetGroup{
		GroupID:     d.GroupID,
		Name:        d.Name,
		MonthYear:   d.MonthYear,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBudgetGroup converts a model BudgetGroup to a domain BudgetGroup
func ToDomainBudgetGroup(m models.BudgetGroup) domain.BudgetGroup {
	return domain.BudgetGroup{
		GroupID:     m.GroupID,
		Name:        m.Name,
		MonthYear:   m.MonthYear,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBudgetCategory converts a domain BudgetCategory to a model BudgetCategory
func ToModelBudgetCategory(d domain.BudgetCategory) models.BudgetCategory {
	return models.BudgetCategory{
		CategoryID:      d.CategoryID,
		GroupID:         d.GroupID,
		Name:            d.Name,
		AllocatedAmount: d.AllocatedAmount,
		IsSpecial:       d.IsSpecial,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBudgetCategory converts a model BudgetCategory to a domain BudgetCategory
func ToDomainBudgetCategory(m models.BudgetCategory) domain.BudgetCategory {
	return domain.BudgetCategory{
		CategoryID:      m.CategoryID,
		GroupID:         m.GroupID,
		Name:            m.Name,
		AllocatedAmount: m.AllocatedAmount,
		IsSpecial:       m.IsSpecial,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
