package services

import (
	"context"

	"github.com/casafin/casafin_backend/internal/core/domain"
	"github.com/casafin/casafin_backend/internal/dto"
)

// TransactionSvcFacade is the orchestration hub for all mutating financial
// events. Every create/update/delete pairs the row write with a
// compensating account-balance mutation and, conditionally, Ready-to-Assign
// tagging and the credit-card budget transfer. Side-effect failures are
// returned as warnings rather than failing the primary write.
type TransactionSvcFacade interface {
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, []string, error)
	UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, []string, error)
	DeleteTransaction(ctx context.Context, transactionID string, userID string) error
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
	SearchPayees(ctx context.Context, query string) (*dto.PayeeSearchResponse, error)
}
