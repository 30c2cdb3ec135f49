package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/casafin/casafin_backend/internal/apperrors"
	"github.com/casafin/casafin_backend/internal/core/domain"
	portsrepo "github.com/casafin/casafin_backend/internal/core/ports/repositories"
	"github.com/casafin/casafin_backend/internal/models"
	"github.com/casafin/casafin_backend/internal/utils/mapping"
	"github.com/casafin/casafin_backend/internal/utils/pagination"
)

const transactionColumns = `transaction_id, date, payee, amount, is_shared, notes, account_id, category_id, paid_by_user_id, created_at, created_by, last_updated_at, last_updated_by`

const adjustBalanceQuery = `
	UPDATE accounts
	SET balance = COALESCE(balance, 0) + $2, last_updated_at = $3, last_updated_by = $4
	WHERE account_id = $1;
`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.Date,
		&m.Payee,
		&m.Amount,
		&m.IsShared,
		&m.Notes,
		&m.AccountID,
		&m.CategoryID,
		&m.PaidByUserID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	txn := mapping.ToDomainTransaction(*m)
	return &txn, nil
}

// ListTransactions retrieves a filtered page ordered by date descending,
// then creation time descending, with keyset pagination.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.ListTransactionsFilter) ([]domain.Transaction, *string, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	args := []any{}
	idx := 1

	if filter.AccountID != "" {
		query += fmt.Sprintf(" AND account_id = $%d", idx)
		args = append(args, filter.AccountID)
		idx++
	}
	if filter.Month != nil {
		start := *filter.Month
		end := start.AddDate(0, 1, 0)
		query += fmt.Sprintf(" AND date >= $%d AND date < $%d", idx, idx+1)
		args = append(args, start, end)
		idx += 2
	}
	if filter.NextToken != nil {
		date, createdAt, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += fmt.Sprintf(" AND (date, created_at) < ($%d, $%d)", idx, idx+1)
		args = append(args, date, createdAt)
		idx += 2
	}

	// Fetch one extra row to detect whether another page exists.
	query += fmt.Sprintf(" ORDER BY date DESC, created_at DESC LIMIT $%d;", idx)
	args = append(args, filter.Limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	var nextToken *string
	if len(txns) > filter.Limit {
		txns = txns[:filter.Limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt)
		nextToken = &token
	}

	result := make([]domain.Transaction, len(txns))
	for i, m := range txns {
		result[i] = mapping.ToDomainTransaction(m)
	}
	return result, nextToken, nil
}

// SumByCategoriesInRange sums transaction amounts per category for the
// window.
func (r *PgxTransactionRepository) SumByCategoriesInRange(ctx context.Context, categoryIDs []string, from, to time.Time) (map[string]decimal.Decimal, error) {
	if len(categoryIDs) == 0 {
		return map[string]decimal.Decimal{}, nil
	}
	query := `
		SELECT category_id, COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE category_id = ANY($1) AND date >= $2 AND date < $3
		GROUP BY category_id;
	`
	rows, err := r.Pool.Query(ctx, query, categoryIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum spend by category: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]decimal.Decimal)
	for rows.Next() {
		var id string
		var sum decimal.Decimal
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan category sum: %w", err)
		}
		sums[id] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category sums: %w", err)
	}
	return sums, nil
}

// SumInflowsForMonth sums |amount| over the window's inflow transactions:
// negative amounts on non-credit-card accounts that are uncategorized or
// linked to the Ready-to-Assign category.
func (r *PgxTransactionRepository) SumInflowsForMonth(ctx context.Context, readyToAssignCategoryID *string, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(-t.amount), 0)
		FROM transactions t
		JOIN accounts a ON a.account_id = t.account_id
		WHERE t.amount < 0
		  AND a.account_type <> $1
		  AND t.date >= $2 AND t.date < $3
		  AND (t.category_id IS NULL OR t.category_id = $4);
	`
	var total decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, models.CreditCard, from, to, readyToAssignCategoryID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum inflows: %w", err)
	}
	return total, nil
}

// SumSharedByPayer sums shared transaction amounts per paying user for the
// window.
func (r *PgxTransactionRepository) SumSharedByPayer(ctx context.Context, from, to time.Time) (map[string]decimal.Decimal, error) {
	query := `
		SELECT paid_by_user_id, COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE is_shared AND date >= $1 AND date < $2
		GROUP BY paid_by_user_id;
	`
	rows, err := r.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum shared spend: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]decimal.Decimal)
	for rows.Next() {
		var userID string
		var sum decimal.Decimal
		if err := rows.Scan(&userID, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan shared sum: %w", err)
		}
		sums[userID] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shared sums: %w", err)
	}
	return sums, nil
}

// SumCashFlow returns the window's income (inflows, as a positive figure)
// and expenses across non-credit-card accounts.
func (r *PgxTransactionRepository) SumCashFlow(ctx context.Context, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN t.amount < 0 THEN -t.amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN t.amount > 0 THEN t.amount ELSE 0 END), 0)
		FROM transactions t
		JOIN accounts a ON a.account_id = t.account_id
		WHERE a.account_type <> $1 AND t.date >= $2 AND t.date < $3;
	`
	var income, expenses decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, models.CreditCard, from, to).Scan(&income, &expenses)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum cash flow: %w", err)
	}
	return income, expenses, nil
}

// CountByAccountID counts transactions linked to an account.
func (r *PgxTransactionRepository) CountByAccountID(ctx context.Context, accountID string) (int64, error) {
	var count int64
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE account_id = $1;`, accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions for account %s: %w", accountID, err)
	}
	return count, nil
}

// CountByCategoryID counts transactions linked to a category instance.
func (r *PgxTransactionRepository) CountByCategoryID(ctx context.Context, categoryID string) (int64, error) {
	var count int64
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE category_id = $1;`, categoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions for category %s: %w", categoryID, err)
	}
	return count, nil
}

// SearchPayees returns distinct payees matching the query, most recently
// used first.
func (r *PgxTransactionRepository) SearchPayees(ctx context.Context, query string, limit int) ([]string, error) {
	sql := `
		SELECT payee
		FROM transactions
		WHERE payee ILIKE '%' || $1 || '%'
		GROUP BY payee
		ORDER BY MAX(date) DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, sql, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search payees: %w", err)
	}
	defer rows.Close()

	var payees []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan payee row: %w", err)
		}
		payees = append(payees, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payee rows: %w", err)
	}
	return payees, nil
}

// SaveTransaction inserts the row and applies the account balance delta in
// one database transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, balanceDelta decimal.Decimal) error {
	m := mapping.ToModelTransaction(txn)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	insert := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, insert,
		m.TransactionID,
		m.Date,
		m.Payee,
		m.Amount,
		m.IsShared,
		m.Notes,
		m.AccountID,
		m.CategoryID,
		m.PaidByUserID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, err)
	}

	if !balanceDelta.IsZero() {
		if _, err := tx.Exec(ctx, adjustBalanceQuery, m.AccountID, balanceDelta, m.LastUpdatedAt, m.LastUpdatedBy); err != nil {
			return fmt.Errorf("failed to apply balance delta for account %s: %w", m.AccountID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// UpdateTransaction updates the row and applies the balance delta in one
// database transaction. A zero delta skips the balance write.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, balanceDelta decimal.Decimal) error {
	m := mapping.ToModelTransaction(txn)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	update := `
		UPDATE transactions
		SET date = $2, payee = $3, amount = $4, is_shared = $5, notes = $6,
			category_id = $7, last_updated_at = $8, last_updated_by = $9
		WHERE transaction_id = $1;
	`
	tag, err := tx.Exec(ctx, update,
		m.TransactionID,
		m.Date,
		m.Payee,
		m.Amount,
		m.IsShared,
		m.Notes,
		m.CategoryID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", m.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if !balanceDelta.IsZero() {
		if _, err := tx.Exec(ctx, adjustBalanceQuery, m.AccountID, balanceDelta, m.LastUpdatedAt, m.LastUpdatedBy); err != nil {
			return fmt.Errorf("failed to apply balance delta for account %s: %w", m.AccountID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// DeleteTransaction removes the row and applies the reversing balance delta
// in one database transaction.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID, accountID string, balanceDelta decimal.Decimal, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if !balanceDelta.IsZero() {
		if _, err := tx.Exec(ctx, adjustBalanceQuery, accountID, balanceDelta, now, userID); err != nil {
			return fmt.Errorf("failed to apply balance delta for account %s: %w", accountID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// SetTransactionCategory re-points a transaction's category link without
// touching balances.
func (r *PgxTransactionRepository) SetTransactionCategory(ctx context.Context, transactionID string, categoryID *string, userID string, now time.Time) error {
	query := `
		UPDATE transactions
		SET category_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, transactionID, categoryID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to set category for transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveSettlementTransfer inserts the settlement transaction and moves the
// money: the debtor's account (the transaction's account) goes down by the
// amount, the creditor's goes up, all in one database transaction.
func (r *PgxTransactionRepository) SaveSettlementTransfer(ctx context.Context, txn domain.Transaction, creditorAccountID string) error {
	m := mapping.ToModelTransaction(txn)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	insert := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, insert,
		m.TransactionID,
		m.Date,
		m.Payee,
		m.Amount,
		m.IsShared,
		m.Notes,
		m.AccountID,
		m.CategoryID,
		m.PaidByUserID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement transaction: %w", err)
	}

	if _, err := tx.Exec(ctx, adjustBalanceQuery, m.AccountID, m.Amount.Neg(), m.LastUpdatedAt, m.LastUpdatedBy); err != nil {
		return fmt.Errorf("failed to debit debtor account %s: %w", m.AccountID, err)
	}
	if _, err := tx.Exec(ctx, adjustBalanceQuery, creditorAccountID, m.Amount, m.LastUpdatedAt, m.LastUpdatedBy); err != nil {
		return fmt.Errorf("failed to credit creditor account %s: %w", creditorAccountID, err)
	}

	return r.Commit(ctx, tx)
}
