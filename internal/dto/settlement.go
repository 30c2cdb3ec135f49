package dto

import (
	"github.com/casafin/casafin_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SharedBalanceResponse is the derived settlement state for a month.
type SharedBalanceResponse struct {
	Month        string                     `json:"month"`
	PaidByUser   map[string]decimal.Decimal `json:"paidByUser"`
	OwedByUserID *string                    `json:"owedByUserID"`
	OwedToUserID *string                    `json:"owedToUserID"`
	Amount       decimal.Decimal            `json:"amount"`
	Settled      bool                       `json:"settled"`
}

// ToSharedBalanceResponse converts a domain.SharedBalance to its DTO
func ToSharedBalanceResponse(b *domain.SharedBalance, month string) SharedBalanceResponse {
	return SharedBalanceResponse{
		Month:        month,
		PaidByUser:   b.PaidByUser,
		OwedByUserID: b.OwedByUserID,
		OwedToUserID: b.OwedToUserID,
		Amount:       b.Amount,
		Settled:      b.Settled(),
	}
}

// SettlementResponse reports the outcome of settling a month. Transfer is
// nil when the month was already even.
type SettlementResponse struct {
	Settled  bool                 `json:"settled"`
	Transfer *TransactionResponse `json:"transfer,omitempty"`
}
