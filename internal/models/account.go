package models

import (
	"github.com/shopspring/decimal"
)

// AccountType classifies an account for balance bookkeeping.
type AccountType string

const (
	Checking   AccountType = "CHECKING"
	CreditCard AccountType = "CREDIT_CARD"
	Investment AccountType = "INVESTMENT"
)

// Account is the persisted shape of a financial account.
type Account struct {
	AccountID   string          `db:"account_id"`
	OwnerUserID string          `db:"owner_user_id"`
	Name        string          `db:"name"`
	AccountType AccountType     `db:"account_type"`
	Balance     decimal.Decimal `db:"balance"`
	AuditFields
}
