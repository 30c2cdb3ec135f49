package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/casafin/casafin_backend/internal/apperrors"
	"github.com/casafin/casafin_backend/internal/core/domain"
	portsrepo "github.com/casafin/casafin_backend/internal/core/ports/repositories"
	portssvc "github.com/casafin/casafin_backend/internal/core/ports/services"
	"github.com/casafin/casafin_backend/internal/dto"
	"github.com/casafin/casafin_backend/internal/middleware"
	"github.com/casafin/casafin_backend/internal/utils/months"
)

var two = decimal.NewFromInt(2)

// settlementService computes who owes whom for a month's shared expenses
// and records the balancing transfer. The split model assumes a household
// of exactly two users and rejects anything else.
type settlementService struct {
	txnRepo     portsrepo.TransactionRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	userRepo    portsrepo.UserReader
}

// NewSettlementService creates a new settlement service instance.
func NewSettlementService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	userRepo portsrepo.UserReader,
) portssvc.SettlementSvcFacade {
	return &settlementService{
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
		userRepo:    userRepo,
	}
}

var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

// MonthlyBalance derives the month's shared-expense state: each user's
// shared spend, and who owes the other half of the difference.
func (s *settlementService) MonthlyBalance(ctx context.Context, month time.Time) (*domain.SharedBalance, error) {
	month = months.Normalize(month)
	from, to := months.Window(month)

	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) != 2 {
		return nil, apperrors.NewAppError(400,
			fmt.Sprintf("shared-expense settlement requires exactly two users, found %d", len(users)),
			apperrors.ErrValidation)
	}

	paid, err := s.txnRepo.SumSharedByPayer(ctx, from, to)
	if err != nil {
		return nil, err
	}

	balance := &domain.SharedBalance{
		Month:      month,
		PaidByUser: make(map[string]decimal.Decimal, 2),
		Amount:     decimal.Zero,
	}
	for _, u := range users {
		amount, ok := paid[u.UserID]
		if !ok {
			amount = decimal.Zero
		}
		balance.PaidByUser[u.UserID] = amount
	}

	a, b := users[0], users[1]
	diff := balance.PaidByUser[a.UserID].Sub(balance.PaidByUser[b.UserID])
	if diff.IsZero() {
		return balance, nil
	}

	// Whoever paid less owes half the difference.
	owed := diff.Abs().DivRound(two, 2)
	if diff.IsPositive() {
		balance.OwedByUserID = &b.UserID
		balance.OwedToUserID = &a.UserID
	} else {
		balance.OwedByUserID = &a.UserID
		balance.OwedToUserID = &b.UserID
	}
	balance.Amount = owed
	return balance, nil
}

// Settle records the balancing transfer for the month: an outflow on the
// debtor's checking account mirrored by an inflow on the creditor's, in one
// atomic write. An already-even month is a no-op.
func (s *settlementService) Settle(ctx context.Context, month time.Time, actingUserID string) (*dto.SettlementResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	balance, err := s.MonthlyBalance(ctx, month)
	if err != nil {
		return nil, err
	}
	if balance.Settled() {
		return &dto.SettlementResponse{Settled: true}, nil
	}

	debtorAcc, err := s.accountRepo.FindCheckingAccountByUser(ctx, *balance.OwedByUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewAppError(400, "debtor has no checking account", apperrors.ErrValidation)
		}
		return nil, err
	}
	creditorAcc, err := s.accountRepo.FindCheckingAccountByUser(ctx, *balance.OwedToUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewAppError(400, "creditor has no checking account", apperrors.ErrValidation)
		}
		return nil, err
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		Date:          now,
		Payee:         "Acerto mensal " + months.Format(balance.Month),
		Amount:        balance.Amount,
		IsShared:      false,
		Notes:         "Transferência de acerto de despesas compartilhadas",
		AccountID:     debtorAcc.AccountID,
		CategoryID:    nil,
		PaidByUserID:  *balance.OwedByUserID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actingUserID,
		},
	}

	if err := s.txnRepo.SaveSettlementTransfer(ctx, txn, creditorAcc.AccountID); err != nil {
		logger.Error("Failed to record settlement transfer", "error", err, "month", months.Format(balance.Month))
		return nil, err
	}

	logger.Info("Settlement recorded",
		"month", months.Format(balance.Month),
		"amount", balance.Amount.String(),
		"debtor", *balance.OwedByUserID,
	)
	resp := dto.ToTransactionResponse(&txn, nil)
	return &dto.SettlementResponse{Settled: true, Transfer: &resp}, nil
}
