package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/casafin/casafin_backend/internal/core/domain"
	portsrepo "github.com/casafin/casafin_backend/internal/core/ports/repositories"
	"github.com/casafin/casafin_backend/internal/dto"
)

// MockAccountRepository is a mock implementation of AccountRepositoryFacade
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindCheckingAccountByUser(ctx context.Context, userID string) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) AdjustBalance(ctx context.Context, accountID string, delta decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, delta, userID, now)
	return args.Error(0)
}

// MockBudgetRepository is a mock implementation of BudgetRepositoryFacade
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) FindGroupByID(ctx context.Context, groupID string) (*domain.BudgetGroup, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetGroup), args.Error(1)
}

func (m *MockBudgetRepository) FindGroupsByMonth(ctx context.Context, month time.Time) ([]domain.BudgetGroup, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetGroup), args.Error(1)
}

func (m *MockBudgetRepository) FindGroupsByName(ctx context.Context, name string) ([]domain.BudgetGroup, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetGroup), args.Error(1)
}

func (m *MockBudgetRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.BudgetCategory, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetCategory), args.Error(1)
}

func (m *MockBudgetRepository) FindCategoryByNameInMonth(ctx context.Context, name string, month time.Time) (*domain.BudgetCategory, error) {
	args := m.Called(ctx, name, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetCategory), args.Error(1)
}

func (m *MockBudgetRepository) DistinctStructure(ctx context.Context) ([]domain.StructureEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StructureEntry), args.Error(1)
}

func (m *MockBudgetRepository) SumAllocatedForMonth(ctx context.Context, month time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, month)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBudgetRepository) CountTransactionsByGroupName(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBudgetRepository) CountTransactionsByCategoryName(ctx context.Context, groupName, categoryName string) (int64, error) {
	args := m.Called(ctx, groupName, categoryName)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBudgetRepository) EnsureGroup(ctx context.Context, name string, month time.Time, userID string, now time.Time) (*domain.BudgetGroup, bool, error) {
	args := m.Called(ctx, name, month, userID, now)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.BudgetGroup), args.Bool(1), args.Error(2)
}

func (m *MockBudgetRepository) EnsureCategory(ctx context.Context, groupID, name string, isSpecial bool, userID string, now time.Time) (*domain.BudgetCategory, bool, error) {
	args := m.Called(ctx, groupID, name, isSpecial, userID, now)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.BudgetCategory), args.Bool(1), args.Error(2)
}

func (m *MockBudgetRepository) RenameGroups(ctx context.Context, oldName, newName, userID string, now time.Time) (int64, error) {
	args := m.Called(ctx, oldName, newName, userID, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBudgetRepository) DeleteGroupsByName(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBudgetRepository) RenameCategories(ctx context.Context, groupName, oldName, newName, userID string, now time.Time) (int64, error) {
	args := m.Called(ctx, groupName, oldName, newName, userID, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBudgetRepository) DeleteCategoriesByName(ctx context.Context, groupName, categoryName string) (int64, error) {
	args := m.Called(ctx, groupName, categoryName)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBudgetRepository) SetAllocated(ctx context.Context, categoryID string, amount decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, categoryID, amount, userID, now)
	return args.Error(0)
}

func (m *MockBudgetRepository) TransferAllocation(ctx context.Context, fromCategoryID, toCategoryID string, requested decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, fromCategoryID, toCategoryID, requested, userID, now)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepositoryFacade
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.ListTransactionsFilter) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, filter)
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, token, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), token, args.Error(2)
}

func (m *MockTransactionRepository) SumByCategoriesInRange(ctx context.Context, categoryIDs []string, from, to time.Time) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, categoryIDs, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) SumInflowsForMonth(ctx context.Context, readyToAssignCategoryID *string, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, readyToAssignCategoryID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) SumSharedByPayer(ctx context.Context, from, to time.Time) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) SumCashFlow(ctx context.Context, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockTransactionRepository) CountByAccountID(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) CountByCategoryID(ctx context.Context, categoryID string) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) SearchPayees(ctx context.Context, query string, limit int) ([]string, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, balanceDelta decimal.Decimal) error {
	args := m.Called(ctx, txn, balanceDelta)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, balanceDelta decimal.Decimal) error {
	args := m.Called(ctx, txn, balanceDelta)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, transactionID, accountID string, balanceDelta decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, transactionID, accountID, balanceDelta, userID, now)
	return args.Error(0)
}

func (m *MockTransactionRepository) SetTransactionCategory(ctx context.Context, transactionID string, categoryID *string, userID string, now time.Time) error {
	args := m.Called(ctx, transactionID, categoryID, userID, now)
	return args.Error(0)
}

func (m *MockTransactionRepository) SaveSettlementTransfer(ctx context.Context, txn domain.Transaction, creditorAccountID string) error {
	args := m.Called(ctx, txn, creditorAccountID)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of UserRepositoryFacade
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockBudgetService is a mock implementation of BudgetSvcFacade used where
// the transaction service delegates Ready-to-Assign creation.
type MockBudgetService struct {
	mock.Mock
}

func (m *MockBudgetService) CreateGroup(ctx context.Context, req dto.CreateGroupRequest, userID string) (*domain.BudgetGroup, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetGroup), args.Error(1)
}

func (m *MockBudgetService) UpdateGroup(ctx context.Context, groupID string, req dto.UpdateGroupRequest, userID string) error {
	args := m.Called(ctx, groupID, req, userID)
	return args.Error(0)
}

func (m *MockBudgetService) DeleteGroup(ctx context.Context, groupID string, userID string) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *MockBudgetService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, userID string) (*domain.BudgetCategory, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetCategory), args.Error(1)
}

func (m *MockBudgetService) UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest, userID string) error {
	args := m.Called(ctx, categoryID, req, userID)
	return args.Error(0)
}

func (m *MockBudgetService) DeleteCategory(ctx context.Context, categoryID string, userID string) error {
	args := m.Called(ctx, categoryID, userID)
	return args.Error(0)
}

func (m *MockBudgetService) FindOrCreateReadyToAssign(ctx context.Context, month time.Time) (*domain.BudgetCategory, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetCategory), args.Error(1)
}

func (m *MockBudgetService) SyncMonth(ctx context.Context, month time.Time, userID string) (int, error) {
	args := m.Called(ctx, month, userID)
	return args.Int(0), args.Error(1)
}
