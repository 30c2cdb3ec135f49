package dto

import (
	"time"

	"github.com/casafin/casafin_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record a transaction.
// The "notfuture" rule mirrors the product constraint that transactions
// cannot be dated ahead of today.
type CreateTransactionRequest struct {
	Date       time.Time       `json:"date" binding:"required,notfuture"`
	Payee      string          `json:"payee" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	IsShared   bool            `json:"isShared"`
	Notes      string          `json:"notes"`
	AccountID  string          `json:"accountID" binding:"required"`
	CategoryID *string         `json:"categoryID"` // Optional spending category
}

// UpdateTransactionRequest defines the fields allowed on an update. Pointer
// fields distinguish "not provided" from zero values. ClearCategory removes
// the category link since a nil CategoryID means "leave unchanged".
type UpdateTransactionRequest struct {
	Date          *time.Time       `json:"date" binding:"omitempty,notfuture"`
	Payee         *string          `json:"payee"`
	Amount        *decimal.Decimal `json:"amount"`
	IsShared      *bool            `json:"isShared"`
	Notes         *string          `json:"notes"`
	CategoryID    *string          `json:"categoryID"`
	ClearCategory bool             `json:"clearCategory"`
}

// TransactionResponse defines the data returned for a transaction. Warnings
// carry degraded side-effect outcomes (budget ledger drift) the caller
// should surface.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	Date          time.Time       `json:"date"`
	Payee         string          `json:"payee"`
	Amount        decimal.Decimal `json:"amount"`
	IsShared      bool            `json:"isShared"`
	Notes         string          `json:"notes"`
	AccountID     string          `json:"accountID"`
	CategoryID    *string         `json:"categoryID"`
	PaidByUserID  string          `json:"paidByUserID"`
	CreatedAt     time.Time       `json:"createdAt"`
	Warnings      []string        `json:"warnings,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO
func ToTransactionResponse(txn *domain.Transaction, warnings []string) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		Date:          txn.Date,
		Payee:         txn.Payee,
		Amount:        txn.Amount,
		IsShared:      txn.IsShared,
		Notes:         txn.Notes,
		AccountID:     txn.AccountID,
		CategoryID:    txn.CategoryID,
		PaidByUserID:  txn.PaidByUserID,
		CreatedAt:     txn.CreatedAt,
		Warnings:      warnings,
	}
}

// ToTransactionResponses converts domain transactions to response DTOs
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i], nil)
	}
	return res
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Month     string  `form:"month"`     // "YYYY-MM", optional
	AccountID string  `form:"accountID"` // optional
	Limit     int     `form:"limit,default=50"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// PayeeSearchResponse carries payee autocomplete results. A degraded store
// yields an empty list plus a warning instead of an error.
type PayeeSearchResponse struct {
	Payees   []string `json:"payees"`
	Warnings []string `json:"warnings,omitempty"`
}
