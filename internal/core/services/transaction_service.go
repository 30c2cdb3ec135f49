package services

import (
	"context"
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

const defaultListLimit = 50
const maxListLimit = 200

// transactionService orchestrates every mutating financial event. The row
// write and the account balance mutation run atomically in the repository;
// Ready-to-Assign tagging and the credit-card budget transfer run after the
// commit and degrade to warnings on failure, unless strictConsistency is
// set, in which case a side-effect failure fails the request.
type transactionService struct {
	txnRepo           portsrepo.TransactionRepositoryFacade
	accountRepo       portsrepo.AccountRepositoryFacade
	budgetRepo        portsrepo.BudgetRepositoryFacade
	budgetSvc         portssvc.BudgetSvcFacade
	strictConsistency bool
}

// NewTransactionService creates a new transaction service instance.
func NewTransactionService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	budgetRepo portsrepo.BudgetRepositoryFacade,
	budgetSvc portssvc.BudgetSvcFacade,
	strictConsistency bool,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:           txnRepo,
		accountRepo:       accountRepo,
		budgetRepo:        budgetRepo,
		budgetSvc:         budgetSvc,
		strictConsistency: strictConsistency,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateTransaction records a transaction, adjusts the account balance by
// the type-aware delta and runs the conditional side effects.
func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, []string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.IsZero() {
		return nil, nil, apperrors.NewAppError(400, "transaction amount cannot be zero", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, nil, err
	}
	if account.OwnerUserID != userID {
		return nil, nil, apperrors.NewAppError(403, "account does not belong to the authenticated user", apperrors.ErrForbidden)
	}

	if req.CategoryID != nil {
		if _, err := s.budgetRepo.FindCategoryByID(ctx, *req.CategoryID); err != nil {
			return nil, nil, err
		}
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		Date:          req.Date.UTC(),
		Payee:         req.Payee,
		Amount:        req.Amount,
		IsShared:      req.IsShared,
		Notes:         req.Notes,
		AccountID:     account.AccountID,
		CategoryID:    req.CategoryID,
		PaidByUserID:  userID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	balanceDelta := account.AccountType.BalanceDelta(txn.Amount)
	if err := s.txnRepo.SaveTransaction(ctx, txn, balanceDelta); err != nil {
		logger.Error("Failed to save transaction", "error", err, "account_id", account.AccountID)
		return nil, nil, err
	}

	var warnings []string
	if domain.IsInflow(txn.Amount, account.AccountType) {
		if warn := s.tagInflow(ctx, &txn, userID, now); warn != "" {
			warnings = append(warnings, warn)
		}
	} else if account.AccountType == domain.CreditCard && txn.CategoryID != nil && txn.Amount.IsPositive() {
		if warn := s.applyCreditCardTransfer(ctx, &txn, account, userID, now); warn != "" {
			warnings = append(warnings, warn)
		}
	}

	if s.strictConsistency && len(warnings) > 0 {
		return nil, nil, apperrors.NewAppError(500, warnings[0], apperrors.ErrInternal)
	}

	logger.Info("Transaction created",
		"transaction_id", txn.TransactionID,
		"account_id", txn.AccountID,
		"amount", txn.Amount.String(),
	)
	return &txn, warnings, nil
}

// UpdateTransaction applies partial field updates. An amount change moves
// the account balance by the type-aware delta of (new - old); inflow
// tagging is re-evaluated against the updated row. The credit-card budget
// transfer is never re-run on update.
func (s *transactionService) UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, []string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, existing.AccountID)
	if err != nil {
		return nil, nil, err
	}
	if account.OwnerUserID != userID {
		return nil, nil, apperrors.NewAppError(403, "account does not belong to the authenticated user", apperrors.ErrForbidden)
	}

	updated := *existing
	changed := false

	if req.Date != nil && !req.Date.Equal(existing.Date) {
		updated.Date = req.Date.UTC()
		changed = true
	}
	if req.Payee != nil && *req.Payee != existing.Payee {
		updated.Payee = *req.Payee
		changed = true
	}
	if req.IsShared != nil && *req.IsShared != existing.IsShared {
		updated.IsShared = *req.IsShared
		changed = true
	}
	if req.Notes != nil && *req.Notes != existing.Notes {
		updated.Notes = *req.Notes
		changed = true
	}
	if req.ClearCategory {
		if existing.CategoryID != nil {
			updated.CategoryID = nil
			changed = true
		}
	} else if req.CategoryID != nil {
		if _, err := s.budgetRepo.FindCategoryByID(ctx, *req.CategoryID); err != nil {
			return nil, nil, err
		}
		if existing.CategoryID == nil || *existing.CategoryID != *req.CategoryID {
			updated.CategoryID = req.CategoryID
			changed = true
		}
	}

	balanceDelta := decimal.Zero
	if req.Amount != nil && !req.Amount.Equal(existing.Amount) {
		if req.Amount.IsZero() {
			return nil, nil, apperrors.NewAppError(400, "transaction amount cannot be zero", apperrors.ErrValidation)
		}
		updated.Amount = *req.Amount
		balanceDelta = account.AccountType.BalanceDelta(req.Amount.Sub(existing.Amount))
		changed = true
	}

	if !changed {
		return existing, nil, nil
	}

	updated.LastUpdatedAt = time.Now().UTC()
	updated.LastUpdatedBy = userID

	if err := s.txnRepo.UpdateTransaction(ctx, updated, balanceDelta); err != nil {
		logger.Error("Failed to update transaction", "error", err, "transaction_id", transactionID)
		return nil, nil, err
	}

	var warnings []string
	if warn := s.retagAfterUpdate(ctx, existing, &updated, account, userID, updated.LastUpdatedAt); warn != "" {
		warnings = append(warnings, warn)
	}

	if s.strictConsistency && len(warnings) > 0 {
		return nil, nil, apperrors.NewAppError(500, warnings[0], apperrors.ErrInternal)
	}

	logger.Info("Transaction updated", "transaction_id", transactionID)
	return &updated, warnings, nil
}

// DeleteTransaction removes a transaction and reverses its balance effect.
// Derived figures (Ready-to-Assign, category spend) self-correct since they
// are computed from the remaining rows.
func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, existing.AccountID)
	if err != nil {
		return err
	}
	if account.OwnerUserID != userID {
		return apperrors.NewAppError(403, "account does not belong to the authenticated user", apperrors.ErrForbidden)
	}

	balanceDelta := account.AccountType.BalanceDelta(existing.Amount.Neg())
	if err := s.txnRepo.DeleteTransaction(ctx, transactionID, account.AccountID, balanceDelta, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to delete transaction", "error", err, "transaction_id", transactionID)
		return err
	}

	logger.Info("Transaction deleted", "transaction_id", transactionID)
	return nil
}

// GetTransactionByID retrieves a single transaction.
func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return s.txnRepo.FindTransactionByID(ctx, transactionID)
}

// ListTransactions retrieves a filtered, paginated listing.
func (s *transactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	filter := portsrepo.ListTransactionsFilter{
		AccountID: params.AccountID,
		Limit:     params.Limit,
		NextToken: params.NextToken,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if params.Month != "" {
		month, err := months.Parse(params.Month)
		if err != nil {
			return nil, apperrors.NewAppError(400, "invalid month, expected YYYY-MM", apperrors.ErrValidation)
		}
		filter.Month = &month
	}

	txns, nextToken, err := s.txnRepo.ListTransactions(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// SearchPayees returns payee autocomplete suggestions. A failing store
// degrades to an empty list plus a warning.
func (s *transactionService) SearchPayees(ctx context.Context, query string) (*dto.PayeeSearchResponse, error) {
	payees, err := s.txnRepo.SearchPayees(ctx, query, 10)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Payee search degraded", "error", err)
		return &dto.PayeeSearchResponse{Payees: []string{}, Warnings: []string{"payee search unavailable"}}, nil
	}
	return &dto.PayeeSearchResponse{Payees: payees}, nil
}

// tagInflow links an uncategorized inflow to the month's Ready-to-Assign
// category so income shows up as assignable budget. Returns a warning
// message on failure, empty string on success.
func (s *transactionService) tagInflow(ctx context.Context, txn *domain.Transaction, userID string, now time.Time) string {
	logger := middleware.GetLoggerFromCtx(ctx)

	rta, err := s.budgetSvc.FindOrCreateReadyToAssign(ctx, months.Normalize(txn.Date))
	if err != nil {
		logger.Warn("Ready-to-Assign lookup failed", "error", err, "transaction_id", txn.TransactionID)
		return "income recorded but Ready to Assign could not be updated"
	}
	if txn.CategoryID != nil {
		// Explicitly categorized income stays where the user put it.
		return ""
	}
	if err := s.txnRepo.SetTransactionCategory(ctx, txn.TransactionID, &rta.CategoryID, userID, now); err != nil {
		logger.Warn("Ready-to-Assign tagging failed", "error", err, "transaction_id", txn.TransactionID)
		return "income recorded but Ready to Assign could not be updated"
	}
	txn.CategoryID = &rta.CategoryID
	return ""
}

// retagAfterUpdate re-evaluates the Ready-to-Assign link after an update:
// a transaction that stopped being an inflow loses the tag, one that became
// an inflow gains it, and a dated-into-another-month inflow moves to that
// month's category.
func (s *transactionService) retagAfterUpdate(ctx context.Context, old, updated *domain.Transaction, account *domain.Account, userID string, now time.Time) string {
	isInflow := domain.IsInflow(updated.Amount, account.AccountType)

	taggedToRTA := false
	if updated.CategoryID != nil {
		cat, err := s.budgetRepo.FindCategoryByID(ctx, *updated.CategoryID)
		if err == nil && cat.IsReadyToAssign() {
			taggedToRTA = true
		}
	}

	switch {
	case !isInflow && taggedToRTA:
		if err := s.txnRepo.SetTransactionCategory(ctx, updated.TransactionID, nil, userID, now); err != nil {
			return "Ready to Assign link could not be cleared"
		}
		updated.CategoryID = nil
	case isInflow && updated.CategoryID == nil:
		return s.tagInflow(ctx, updated, userID, now)
	case isInflow && taggedToRTA && !months.Normalize(old.Date).Equal(months.Normalize(updated.Date)):
		rta, err := s.budgetSvc.FindOrCreateReadyToAssign(ctx, months.Normalize(updated.Date))
		if err != nil {
			return "income moved but Ready to Assign could not be updated"
		}
		if rta.CategoryID != *updated.CategoryID {
			if err := s.txnRepo.SetTransactionCategory(ctx, updated.TransactionID, &rta.CategoryID, userID, now); err != nil {
				return "income moved but Ready to Assign could not be updated"
			}
			updated.CategoryID = &rta.CategoryID
		}
	}
	return ""
}

// applyCreditCardTransfer moves budget from the spending category to the
// card's payment category so card debt stays funded. The payment category
// is resolved by name within the transaction's month, trying
// "Pagamento {account}", "{account}" and "Cartão {account}" in order. The
// move is clamped to the source's remaining allocation.
func (s *transactionService) applyCreditCardTransfer(ctx context.Context, txn *domain.Transaction, account *domain.Account, userID string, now time.Time) string {
	logger := middleware.GetLoggerFromCtx(ctx)
	month := months.Normalize(txn.Date)

	source, err := s.budgetRepo.FindCategoryByID(ctx, *txn.CategoryID)
	if err != nil {
		logger.Warn("Credit card transfer skipped, source category missing", "error", err, "transaction_id", txn.TransactionID)
		return "credit card budget transfer skipped: spending category not found"
	}

	candidates := []string{
		domain.PaymentCategoryPrefix + account.Name,
		account.Name,
		domain.CardCategoryPrefix + account.Name,
	}
	var payment *domain.BudgetCategory
	for _, name := range candidates {
		cat, err := s.budgetRepo.FindCategoryByNameInMonth(ctx, name, month)
		if err != nil {
			continue
		}
		if cat.CategoryID != source.CategoryID {
			payment = cat
			break
		}
	}
	if payment == nil {
		logger.Warn("Credit card payment category not found",
			"account_name", account.Name,
			"month", months.Format(month),
		)
		return fmt.Sprintf("no payment category found for card %q; budget transfer skipped", account.Name)
	}

	transferred, err := s.budgetRepo.TransferAllocation(ctx, source.CategoryID, payment.CategoryID, txn.Amount, userID, now)
	if err != nil {
		logger.Warn("Credit card budget transfer failed", "error", err, "transaction_id", txn.TransactionID)
		return "credit card budget transfer failed"
	}
	if transferred.LessThan(txn.Amount) {
		logger.Info("Credit card budget transfer clamped",
			"requested", txn.Amount.String(),
			"transferred", transferred.String(),
			"source_category", source.Name,
		)
	}
	return ""
}
