package mapping

import (
	"github.com/casafin/casafin_backend/internal/core/domain"
	"github.com/casafin/casafin_backend/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		Date:          d.Date,
		Payee:         d.Payee,
		Amount:        d.Amount,
		IsShared:      d.IsShared,
		Notes:         d.Notes,
		AccountID:     d.AccountID,
		CategoryID:    d.CategoryID,
		PaidByUserID:  d.PaidByUserID,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		Date:          m.Date,
		Payee:         m.Payee,
		Amount:        m.Amount,
		IsShared:      m.IsShared,
		Notes:         m.Notes,
		AccountID:     m.AccountID,
		CategoryID:    m.CategoryID,
		PaidByUserID:  m.PaidByUserID,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
