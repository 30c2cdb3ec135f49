package services

import (
	"context"
	"time"

	"github.com/casafin/casafin_backend/internal/core/domain"
	"github.com/casafin/casafin_backend/internal/dto"
)

// SettlementSvcFacade computes and settles the couple's shared-expense
// balance for a month.
type SettlementSvcFacade interface {
	MonthlyBalance(ctx context.Context, month time.Time) (*domain.SharedBalance, error)
	Settle(ctx context.Context, month time.Time, actingUserID string) (*dto.SettlementResponse, error)
}
