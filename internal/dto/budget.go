package dto

import (
	"time"

	"github.com/casafin/casafin_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateGroupRequest creates a budget group in one month. The name becomes a
// template: later months replicate it on sync.
type CreateGroupRequest struct {
	Name  string `json:"name" binding:"required"`
	Month string `json:"month" binding:"required"` // "YYYY-MM"
}

// UpdateGroupRequest renames a group template across every month.
type UpdateGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

// GroupResponse defines the data returned for a budget group.
type GroupResponse struct {
	GroupID   string             `json:"groupID"`
	Name      string             `json:"name"`
	MonthYear time.Time          `json:"monthYear"`
	Categories []CategoryResponse `json:"categories,omitempty"`
}

// ToGroupResponse converts a domain.BudgetGroup to its response DTO
func ToGroupResponse(g *domain.BudgetGroup) GroupResponse {
	resp := GroupResponse{
		GroupID:   g.GroupID,
		Name:      g.Name,
		MonthYear: g.MonthYear,
	}
	for i := range g.Categories {
		resp.Categories = append(resp.Categories, ToCategoryResponse(&g.Categories[i]))
	}
	return resp
}

// CreateCategoryRequest creates a category inside a group.
type CreateCategoryRequest struct {
	GroupID string `json:"groupID" binding:"required"`
	Name    string `json:"name" binding:"required"`
}

// UpdateCategoryRequest updates a category. A name change fans out across
// every month sharing the group template; an allocation change applies to
// this month's instance only.
type UpdateCategoryRequest struct {
	Name            *string          `json:"name"`
	AllocatedAmount *decimal.Decimal `json:"allocatedAmount"`
}

// CategoryResponse defines the data returned for a budget category.
type CategoryResponse struct {
	CategoryID      string          `json:"categoryID"`
	GroupID         string          `json:"groupID"`
	Name            string          `json:"name"`
	AllocatedAmount decimal.Decimal `json:"allocatedAmount"`
	IsSpecial       bool            `json:"isSpecial"`
}

// ToCategoryResponse converts a domain.BudgetCategory to its response DTO
func ToCategoryResponse(c *domain.BudgetCategory) CategoryResponse {
	return CategoryResponse{
		CategoryID:      c.CategoryID,
		GroupID:         c.GroupID,
		Name:            c.Name,
		AllocatedAmount: c.AllocatedAmount,
		IsSpecial:       c.IsSpecial,
	}
}

// CategoryView is a category enriched with derived spend figures.
type CategoryView struct {
	CategoryID string          `json:"categoryID"`
	Name       string          `json:"name"`
	Allocated  decimal.Decimal `json:"allocated"`
	Spent      decimal.Decimal `json:"spent"`
	Available  decimal.Decimal `json:"available"`
	IsSpecial  bool            `json:"isSpecial"`
}

// GroupView is a group enriched with derived spend figures.
type GroupView struct {
	GroupID        string          `json:"groupID"`
	Name           string          `json:"name"`
	TotalAllocated decimal.Decimal `json:"totalAllocated"`
	Categories     []CategoryView  `json:"categories"`
}

// MonthlyBudgetResponse is the full budget view for one month.
type MonthlyBudgetResponse struct {
	Month         string          `json:"month"`
	Groups        []GroupView     `json:"groups"`
	ReadyToAssign decimal.Decimal `json:"readyToAssign"`
}

// SyncMonthResponse reports how many structure entries a month sync created.
type SyncMonthResponse struct {
	Created int `json:"created"`
}
