package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/casafin/casafin_backend/internal/apperrors"
	"github.com/casafin/casafin_backend/internal/core/domain"
	portsrepo "github.com/casafin/casafin_backend/internal/core/ports/repositories"
	portssvc "github.com/casafin/casafin_backend/internal/core/ports/services"
	"github.com/casafin/casafin_backend/internal/dto"
	"github.com/casafin/casafin_backend/internal/middleware"
	"github.com/casafin/casafin_backend/internal/utils/months"
)

// accountService manages the household's financial accounts. Reads are
// household-wide; mutations are restricted to the owning user. Creating a
// credit card also provisions its payment category in the card group so the
// budget transfer has a destination.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	txnRepo     portsrepo.TransactionReader
	budgetRepo  portsrepo.BudgetRepositoryFacade
}

// NewAccountService creates a new account service instance.
func NewAccountService(
	accountRepo portsrepo.AccountRepositoryFacade,
	txnRepo portsrepo.TransactionReader,
	budgetRepo portsrepo.BudgetRepositoryFacade,
) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		budgetRepo:  budgetRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount persists a new account with its opening balance. For credit
// cards the payment category is provisioned best-effort; a failure there
// surfaces as a warning, not an error.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, []string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	account := domain.Account{
		AccountID:   uuid.NewString(),
		OwnerUserID: creatorUserID,
		Name:        req.Name,
		AccountType: domain.AccountType(req.AccountType),
		Balance:     req.InitialBalance,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", "error", err, "name", req.Name)
		return nil, nil, err
	}

	var warnings []string
	if account.AccountType == domain.CreditCard {
		if warn := s.provisionPaymentCategory(ctx, account.Name, creatorUserID, now); warn != "" {
			warnings = append(warnings, warn)
		}
	}

	logger.Info("Account created",
		"account_id", account.AccountID,
		"type", string(account.AccountType),
	)
	return &account, warnings, nil
}

// GetAccountByID retrieves a single account. Accounts are visible to the
// whole household.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// ListAccounts retrieves every household account.
func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx)
}

// UpdateAccount renames an account. Only the owner may mutate it.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.OwnerUserID != userID {
		return nil, apperrors.NewAppError(403, "account does not belong to the authenticated user", apperrors.ErrForbidden)
	}

	if req.Name == nil || *req.Name == account.Name {
		return account, nil
	}

	account.Name = *req.Name
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Account updated", "account_id", accountID)
	return account, nil
}

// DeleteAccount removes an account. Rejected while transactions still
// reference it. For credit cards the now-orphaned payment category is
// cleaned up best-effort.
func (s *accountService) DeleteAccount(ctx context.Context, accountID string, userID string) ([]string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.OwnerUserID != userID {
		return nil, apperrors.NewAppError(403, "account does not belong to the authenticated user", apperrors.ErrForbidden)
	}

	linked, err := s.txnRepo.CountByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if linked > 0 {
		return nil, apperrors.NewAppError(400, "account has linked transactions", apperrors.ErrValidation)
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		logger.Error("Failed to delete account", "error", err, "account_id", accountID)
		return nil, err
	}

	var warnings []string
	if account.AccountType == domain.CreditCard {
		if warn := s.removePaymentCategory(ctx, account.Name); warn != "" {
			warnings = append(warnings, warn)
		}
	}

	logger.Info("Account deleted", "account_id", accountID)
	return warnings, nil
}

// provisionPaymentCategory creates "Pagamento {name}" inside the card group
// for the current month. The transfer resolution also matches bare and
// "Cartão "-prefixed names, so manual setups keep working.
func (s *accountService) provisionPaymentCategory(ctx context.Context, accountName, userID string, now time.Time) string {
	logger := middleware.GetLoggerFromCtx(ctx)
	month := months.Normalize(now)

	group, _, err := s.budgetRepo.EnsureGroup(ctx, domain.CardGroupName, month, userID, now)
	if err != nil {
		logger.Warn("Card group provisioning failed", "error", err)
		return fmt.Sprintf("payment category for %q could not be created", accountName)
	}
	if _, _, err := s.budgetRepo.EnsureCategory(ctx, group.GroupID, domain.PaymentCategoryPrefix+accountName, false, userID, now); err != nil {
		logger.Warn("Payment category provisioning failed", "error", err)
		return fmt.Sprintf("payment category for %q could not be created", accountName)
	}
	return ""
}

// removePaymentCategory drops the card's auto-managed payment category
// after account deletion, unless transactions still reference it.
func (s *accountService) removePaymentCategory(ctx context.Context, accountName string) string {
	logger := middleware.GetLoggerFromCtx(ctx)
	name := domain.PaymentCategoryPrefix + accountName

	linked, err := s.budgetRepo.CountTransactionsByCategoryName(ctx, domain.CardGroupName, name)
	if err != nil || linked > 0 {
		return fmt.Sprintf("payment category %q was left in place", name)
	}
	if _, err := s.budgetRepo.DeleteCategoriesByName(ctx, domain.CardGroupName, name); err != nil {
		logger.Warn("Payment category cleanup failed", "error", err)
		return fmt.Sprintf("payment category %q was left in place", name)
	}
	return ""
}
