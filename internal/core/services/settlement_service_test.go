package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/casafin/casafin_backend/internal/apperrors"
	"github.com/casafin/casafin_backend/internal/core/domain"
	portssvc "github.com/casafin/casafin_backend/internal/core/ports/services"
)

type SettlementServiceTestSuite struct {
	suite.Suite
	mockTxnRepo     *MockTransactionRepository
	mockAccountRepo *MockAccountRepository
	mockUserRepo    *MockUserRepository
	service         portssvc.SettlementSvcFacade
	ctx             context.Context
	month           time.Time
}

func (s *SettlementServiceTestSuite) SetupTest() {
	s.mockTxnRepo = new(MockTransactionRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockUserRepo = new(MockUserRepository)
	s.service = NewSettlementService(s.mockTxnRepo, s.mockAccountRepo, s.mockUserRepo)
	s.ctx = context.Background()
	s.month = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
}

func (s *SettlementServiceTestSuite) twoUsers() []domain.User {
	return []domain.User{
		{UserID: "user-1", Name: "Ana"},
		{UserID: "user-2", Name: "Bruno"},
	}
}

func (s *SettlementServiceTestSuite) TestMonthlyBalance_LowerPayerOwesHalfTheDifference() {
	s.mockUserRepo.On("ListUsers", s.ctx).Return(s.twoUsers(), nil)
	s.mockTxnRepo.On("SumSharedByPayer", s.ctx, mock.Anything, mock.Anything).Return(map[string]decimal.Decimal{
		"user-1": decimal.NewFromInt(300),
		"user-2": decimal.NewFromInt(100),
	}, nil)

	balance, err := s.service.MonthlyBalance(s.ctx, s.month)
	s.Require().NoError(err)
	s.Require().NotNil(balance.OwedByUserID)
	s.Equal("user-2", *balance.OwedByUserID)
	s.Equal("user-1", *balance.OwedToUserID)
	s.True(balance.Amount.Equal(decimal.NewFromInt(100)))
	s.False(balance.Settled())
}

func (s *SettlementServiceTestSuite) TestMonthlyBalance_SinglePayerMonth() {
	s.mockUserRepo.On("ListUsers", s.ctx).Return(s.twoUsers(), nil)
	s.mockTxnRepo.On("SumSharedByPayer", s.ctx, mock.Anything, mock.Anything).Return(map[string]decimal.Decimal{
		"user-1": decimal.NewFromInt(250),
	}, nil)

	balance, err := s.service.MonthlyBalance(s.ctx, s.month)
	s.Require().NoError(err)
	s.True(balance.PaidByUser["user-2"].IsZero())
	s.Equal("user-2", *balance.OwedByUserID)
	s.True(balance.Amount.Equal(decimal.NewFromInt(125)))
}

func (s *SettlementServiceTestSuite) TestMonthlyBalance_EvenMonthIsSettled() {
	s.mockUserRepo.On("ListUsers", s.ctx).Return(s.twoUsers(), nil)
	s.mockTxnRepo.On("SumSharedByPayer", s.ctx, mock.Anything, mock.Anything).Return(map[string]decimal.Decimal{
		"user-1": decimal.NewFromInt(200),
		"user-2": decimal.NewFromInt(200),
	}, nil)

	balance, err := s.service.MonthlyBalance(s.ctx, s.month)
	s.Require().NoError(err)
	s.Nil(balance.OwedByUserID)
	s.True(balance.Settled())
}

func (s *SettlementServiceTestSuite) TestMonthlyBalance_RequiresExactlyTwoUsers() {
	s.mockUserRepo.On("ListUsers", s.ctx).Return([]domain.User{{UserID: "user-1"}}, nil)

	_, err := s.service.MonthlyBalance(s.ctx, s.month)
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *SettlementServiceTestSuite) TestSettle_RecordsBalancingTransfer() {
	s.mockUserRepo.On("ListUsers", s.ctx).Return(s.twoUsers(), nil)
	s.mockTxnRepo.On("SumSharedByPayer", s.ctx, mock.Anything, mock.Anything).Return(map[string]decimal.Decimal{
		"user-1": decimal.NewFromInt(300),
		"user-2": decimal.NewFromInt(100),
	}, nil)
	s.mockAccountRepo.On("FindCheckingAccountByUser", s.ctx, "user-2").
		Return(&domain.Account{AccountID: "acc-deb", OwnerUserID: "user-2", AccountType: domain.Checking}, nil)
	s.mockAccountRepo.On("FindCheckingAccountByUser", s.ctx, "user-1").
		Return(&domain.Account{AccountID: "acc-cred", OwnerUserID: "user-1", AccountType: domain.Checking}, nil)
	s.mockTxnRepo.On("SaveSettlementTransfer", s.ctx,
		mock.MatchedBy(func(txn domain.Transaction) bool {
			return txn.AccountID == "acc-deb" &&
				txn.PaidByUserID == "user-2" &&
				txn.Amount.Equal(decimal.NewFromInt(100)) &&
				!txn.IsShared
		}),
		"acc-cred").Return(nil)

	resp, err := s.service.Settle(s.ctx, s.month, "user-2")
	s.Require().NoError(err)
	s.True(resp.Settled)
	s.Require().NotNil(resp.Transfer)
	s.True(resp.Transfer.Amount.Equal(decimal.NewFromInt(100)))
	s.mockTxnRepo.AssertExpectations(s.T())
}

func (s *SettlementServiceTestSuite) TestSettle_EvenMonthIsNoOp() {
	s.mockUserRepo.On("ListUsers", s.ctx).Return(s.twoUsers(), nil)
	s.mockTxnRepo.On("SumSharedByPayer", s.ctx, mock.Anything, mock.Anything).Return(map[string]decimal.Decimal{}, nil)

	resp, err := s.service.Settle(s.ctx, s.month, "user-1")
	s.Require().NoError(err)
	s.True(resp.Settled)
	s.Nil(resp.Transfer)
	s.mockTxnRepo.AssertNotCalled(s.T(), "SaveSettlementTransfer", mock.Anything, mock.Anything, mock.Anything)
}

func (s *SettlementServiceTestSuite) TestSettle_MissingCheckingAccountRejected() {
	s.mockUserRepo.On("ListUsers", s.ctx).Return(s.twoUsers(), nil)
	s.mockTxnRepo.On("SumSharedByPayer", s.ctx, mock.Anything, mock.Anything).Return(map[string]decimal.Decimal{
		"user-1": decimal.NewFromInt(300),
	}, nil)
	s.mockAccountRepo.On("FindCheckingAccountByUser", s.ctx, "user-2").Return(nil, apperrors.ErrNotFound)

	_, err := s.service.Settle(s.ctx, s.month, "user-1")
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func TestSettlementServiceSuite(t *testing.T) {
	suite.Run(t, new(SettlementServiceTestSuite))
}
