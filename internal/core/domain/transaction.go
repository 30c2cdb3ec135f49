package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single financial event against one account.
//
// Sign convention: for non-credit-card accounts a negative amount is an
// inflow (income) and a positive amount an outflow; credit-card accounts
// only model outflows.
type Transaction struct {
	TransactionID string          `json:"transactionID"`
	Date          time.Time       `json:"date"`
	Payee         string          `json:"payee"`
	Amount        decimal.Decimal `json:"amount"`
	IsShared      bool            `json:"isShared"`
	Notes         string          `json:"notes"`
	AccountID     string          `json:"accountID"`
	CategoryID    *string         `json:"categoryID"` // nullable
	PaidByUserID  string          `json:"paidByUserID"`
	AuditFields
}

// IsInflow reports whether a signed amount on the given account type counts
// as income. Credit cards never produce inflows.
func IsInflow(amount decimal.Decimal, accountType AccountType) bool {
	return accountType != CreditCard && amount.IsNegative()
}
