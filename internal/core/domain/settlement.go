package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SharedBalance is the derived settlement state of a month's shared expenses.
// OwedByUserID is nil when the two users are even.
type SharedBalance struct {
	Month        time.Time                  `json:"month"`
	PaidByUser   map[string]decimal.Decimal `json:"paidByUser"`
	OwedByUserID *string                    `json:"owedByUserID"`
	OwedToUserID *string                    `json:"owedToUserID"`
	Amount       decimal.Decimal            `json:"amount"`
}

// Settled reports whether nothing is owed for the month.
func (b SharedBalance) Settled() bool {
	return b.OwedByUserID == nil || b.Amount.IsZero()
}
