package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the persisted shape of a financial event.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	Date          time.Time       `db:"date"`
	Payee         string          `db:"payee"`
	Amount        decimal.Decimal `db:"amount"`
	IsShared      bool            `db:"is_shared"`
	Notes         string          `db:"notes"`
	AccountID     string          `db:"account_id"`
	CategoryID    *string         `db:"category_id"`
	PaidByUserID  string          `db:"paid_by_user_id"`
	AuditFields
}
