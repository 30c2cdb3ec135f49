package domain

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

// Account represents a financial account owned by one of the household users.
// Balance is mutated exclusively through delta updates driven by the
// transaction engine; it is never set directly from a request.
type Account struct {
	AccountID   string          `json:"accountID"`
	OwnerUserID string          `json:"ownerUserID"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Balance     decimal.Decimal `json:"balance"`
	AuditFields
}

// BalanceDelta converts a signed transaction amount into the change to apply
// to the stored balance for this account type.
//
// Credit cards track debt: spending (positive amount) increases the balance,
// a payment (negative amount) decreases it. Checking and investment accounts
// track funds: spending decreases the balance and income (negative amount)
// increases it.
func (t AccountType) BalanceDelta(amount decimal.Decimal) decimal.Decimal {
	if t == CreditCard {
		return amount
	}
	return amount.Neg()
}
