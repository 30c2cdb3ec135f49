package services

import (
	"context"

	"github.com/casafin/casafin_backend/internal/core/domain"
	"github.com/casafin/casafin_backend/internal/dto"
)

// AccountSvcFacade defines the account operations exposed to handlers.
// Warning slices carry degraded best-effort outcomes (payment category
// auto-management) that did not fail the primary operation.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, []string, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)
	DeleteAccount(ctx context.Context, accountID string, userID string) ([]string, error)
}
