package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/casafin/casafin_backend/internal/apperrors"
	"github.com/casafin/casafin_backend/internal/core/domain"
	portsrepo "github.com/casafin/casafin_backend/internal/core/ports/repositories"
	"github.com/casafin/casafin_backend/internal/models"
	"github.com/casafin/casafin_backend/internal/utils/mapping"
)

const groupColumns = `group_id, name, month_year, created_at, created_by, last_updated_at, last_updated_by`
const categoryColumns = `category_id, group_id, name, allocated_amount, is_special, created_at, created_by, last_updated_at, last_updated_by`

type PgxBudgetRepository struct {
	BaseRepository
}

// newPgxBudgetRepository creates a new repository for budget structure data.
func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryFacade {
	return &PgxBudgetRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

func scanGroup(row pgx.Row) (*models.BudgetGroup, error) {
	var m models.BudgetGroup
	err := row.Scan(
		&m.GroupID,
		&m.Name,
		&m.MonthYear,
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

func scanCategory(row pgx.Row) (*models.BudgetCategory, error) {
	var m models.BudgetCategory
	err := row.Scan(
		&m.CategoryID,
		&m.GroupID,
		&m.Name,
		&m.AllocatedAmount,
		&m.IsSpecial,
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

// FindGroupByID retrieves a group without its categories.
func (r *PgxBudgetRepository) FindGroupByID(ctx context.Context, groupID string) (*domain.BudgetGroup, error) {
	query := `SELECT ` + groupColumns + ` FROM budget_groups WHERE group_id = $1;`
	m, err := scanGroup(r.Pool.QueryRow(ctx, query, groupID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find group by ID %s: %w", groupID, err)
	}
	g := mapping.ToDomainBudgetGroup(*m)
	return &g, nil
}

// FindGroupsByMonth retrieves a month's groups with categories populated,
// both ordered by name.
func (r *PgxBudgetRepository) FindGroupsByMonth(ctx context.Context, month time.Time) ([]domain.BudgetGroup, error) {
	query := `SELECT ` + groupColumns + ` FROM budget_groups WHERE month_year = $1 ORDER BY name ASC;`
	rows, err := r.Pool.Query(ctx, query, month)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups for month: %w", err)
	}
	defer rows.Close()

	var groups []domain.BudgetGroup
	index := map[string]int{}
	for rows.Next() {
		m, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		index[m.GroupID] = len(groups)
		groups = append(groups, mapping.ToDomainBudgetGroup(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group rows: %w", err)
	}
	if len(groups) == 0 {
		return groups, nil
	}

	catQuery := `
		SELECT ` + qualified(categoryColumns, "c") + `
		FROM budget_categories c
		JOIN budget_groups g ON g.group_id = c.group_id
		WHERE g.month_year = $1
		ORDER BY c.name ASC;
	`
	catRows, err := r.Pool.Query(ctx, catQuery, month)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories for month: %w", err)
	}
	defer catRows.Close()

	for catRows.Next() {
		m, err := scanCategory(catRows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		if i, ok := index[m.GroupID]; ok {
			groups[i].Categories = append(groups[i].Categories, mapping.ToDomainBudgetCategory(*m))
		}
	}
	if err := catRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return groups, nil
}

// FindGroupsByName retrieves every month-instance of a group template.
func (r *PgxBudgetRepository) FindGroupsByName(ctx context.Context, name string) ([]domain.BudgetGroup, error) {
	query := `SELECT ` + groupColumns + ` FROM budget_groups WHERE name = $1 ORDER BY month_year ASC;`
	rows, err := r.Pool.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups by name %s: %w", name, err)
	}
	defer rows.Close()

	var groups []domain.BudgetGroup
	for rows.Next() {
		m, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		groups = append(groups, mapping.ToDomainBudgetGroup(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group rows: %w", err)
	}
	return groups, nil
}

// FindCategoryByID retrieves a category by its ID.
func (r *PgxBudgetRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.BudgetCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM budget_categories WHERE category_id = $1;`
	m, err := scanCategory(r.Pool.QueryRow(ctx, query, categoryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID %s: %w", categoryID, err)
	}
	c := mapping.ToDomainBudgetCategory(*m)
	return &c, nil
}

// FindCategoryByNameInMonth retrieves a category by exact name anywhere in
// the month.
func (r *PgxBudgetRepository) FindCategoryByNameInMonth(ctx context.Context, name string, month time.Time) (*domain.BudgetCategory, error) {
	query := `
		SELECT ` + qualified(categoryColumns, "c") + `
		FROM budget_categories c
		JOIN budget_groups g ON g.group_id = c.group_id
		WHERE c.name = $1 AND g.month_year = $2
		ORDER BY c.created_at ASC
		LIMIT 1;
	`
	m, err := scanCategory(r.Pool.QueryRow(ctx, query, name, month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category %q in month: %w", name, err)
	}
	c := mapping.ToDomainBudgetCategory(*m)
	return &c, nil
}

// DistinctStructure lists every (group, category) name pair ever seen.
func (r *PgxBudgetRepository) DistinctStructure(ctx context.Context) ([]domain.StructureEntry, error) {
	query := `
		SELECT DISTINCT g.name, c.name, c.is_special
		FROM budget_categories c
		JOIN budget_groups g ON g.group_id = c.group_id
		ORDER BY g.name ASC, c.name ASC;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query budget structure: %w", err)
	}
	defer rows.Close()

	var entries []domain.StructureEntry
	for rows.Next() {
		var e domain.StructureEntry
		if err := rows.Scan(&e.GroupName, &e.CategoryName, &e.IsSpecial); err != nil {
			return nil, fmt.Errorf("failed to scan structure row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating structure rows: %w", err)
	}
	return entries, nil
}

// SumAllocatedForMonth sums allocations over the month's ordinary
// categories.
func (r *PgxBudgetRepository) SumAllocatedForMonth(ctx context.Context, month time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(c.allocated_amount), 0)
		FROM budget_categories c
		JOIN budget_groups g ON g.group_id = c.group_id
		WHERE g.month_year = $1 AND NOT c.is_special;
	`
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, month).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum allocations for month: %w", err)
	}
	return total, nil
}

// CountTransactionsByGroupName counts transactions linked to any category
// of any month-instance of the named group.
func (r *PgxBudgetRepository) CountTransactionsByGroupName(ctx context.Context, name string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM transactions t
		JOIN budget_categories c ON c.category_id = t.category_id
		JOIN budget_groups g ON g.group_id = c.group_id
		WHERE g.name = $1;
	`
	var count int64
	if err := r.Pool.QueryRow(ctx, query, name).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions for group %q: %w", name, err)
	}
	return count, nil
}

// CountTransactionsByCategoryName counts transactions linked to any
// month-instance of the named category under the named group.
func (r *PgxBudgetRepository) CountTransactionsByCategoryName(ctx context.Context, groupName, categoryName string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM transactions t
		JOIN budget_categories c ON c.category_id = t.category_id
		JOIN budget_groups g ON g.group_id = c.group_id
		WHERE g.name = $1 AND c.name = $2;
	`
	var count int64
	if err := r.Pool.QueryRow(ctx, query, groupName, categoryName).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions for category %q: %w", categoryName, err)
	}
	return count, nil
}

// EnsureGroup finds or creates the (name, month) group. The unique index on
// (name, month_year) makes the insert race-safe: concurrent callers all
// converge on whichever row won.
func (r *PgxBudgetRepository) EnsureGroup(ctx context.Context, name string, month time.Time, userID string, now time.Time) (*domain.BudgetGroup, bool, error) {
	insert := `
		INSERT INTO budget_groups (` + groupColumns + `)
		VALUES ($1, $2, $3, $4, $5, $4, $5)
		ON CONFLICT (name, month_year) DO NOTHING
		RETURNING ` + groupColumns + `;
	`
	m, err := scanGroup(r.Pool.QueryRow(ctx, insert, uuid.NewString(), name, month, now, userID))
	if err == nil {
		g := mapping.ToDomainBudgetGroup(*m)
		return &g, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to ensure group %q: %w", name, err)
	}

	// Lost the race or the row predates us; fetch the winner.
	sel := `SELECT ` + groupColumns + ` FROM budget_groups WHERE name = $1 AND month_year = $2;`
	m, err = scanGroup(r.Pool.QueryRow(ctx, sel, name, month))
	if err != nil {
		return nil, false, fmt.Errorf("failed to re-select group %q: %w", name, err)
	}
	g := mapping.ToDomainBudgetGroup(*m)
	return &g, false, nil
}

// EnsureCategory finds or creates a category inside a group, racing safely
// on the (group_id, name) unique index. New categories start at zero
// allocation.
func (r *PgxBudgetRepository) EnsureCategory(ctx context.Context, groupID, name string, isSpecial bool, userID string, now time.Time) (*domain.BudgetCategory, bool, error) {
	insert := `
		INSERT INTO budget_categories (` + categoryColumns + `)
		VALUES ($1, $2, $3, 0, $4, $5, $6, $5, $6)
		ON CONFLICT (group_id, name) DO NOTHING
		RETURNING ` + categoryColumns + `;
	`
	m, err := scanCategory(r.Pool.QueryRow(ctx, insert, uuid.NewString(), groupID, name, isSpecial, now, userID))
	if err == nil {
		c := mapping.ToDomainBudgetCategory(*m)
		return &c, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to ensure category %q: %w", name, err)
	}

	sel := `SELECT ` + categoryColumns + ` FROM budget_categories WHERE group_id = $1 AND name = $2;`
	m, err = scanCategory(r.Pool.QueryRow(ctx, sel, groupID, name))
	if err != nil {
		return nil, false, fmt.Errorf("failed to re-select category %q: %w", name, err)
	}
	c := mapping.ToDomainBudgetCategory(*m)
	return &c, false, nil
}

// RenameGroups renames every month-instance of a group template.
func (r *PgxBudgetRepository) RenameGroups(ctx context.Context, oldName, newName, userID string, now time.Time) (int64, error) {
	query := `
		UPDATE budget_groups
		SET name = $2, last_updated_at = $3, last_updated_by = $4
		WHERE name = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, oldName, newName, now, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to rename groups %q: %w", oldName, err)
	}
	return tag.RowsAffected(), nil
}

// DeleteGroupsByName removes every month-instance of a group template; the
// FK cascade takes the categories with them.
func (r *PgxBudgetRepository) DeleteGroupsByName(ctx context.Context, name string) (int64, error) {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM budget_groups WHERE name = $1;`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to delete groups %q: %w", name, err)
	}
	return tag.RowsAffected(), nil
}

// RenameCategories renames a category across the parent group template.
func (r *PgxBudgetRepository) RenameCategories(ctx context.Context, groupName, oldName, newName, userID string, now time.Time) (int64, error) {
	query := `
		UPDATE budget_categories c
		SET name = $3, last_updated_at = $4, last_updated_by = $5
		FROM budget_groups g
		WHERE g.group_id = c.group_id AND g.name = $1 AND c.name = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, groupName, oldName, newName, now, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to rename categories %q: %w", oldName, err)
	}
	return tag.RowsAffected(), nil
}

// DeleteCategoriesByName removes a category across the parent group
// template.
func (r *PgxBudgetRepository) DeleteCategoriesByName(ctx context.Context, groupName, categoryName string) (int64, error) {
	query := `
		DELETE FROM budget_categories c
		USING budget_groups g
		WHERE g.group_id = c.group_id AND g.name = $1 AND c.name = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, groupName, categoryName)
	if err != nil {
		return 0, fmt.Errorf("failed to delete categories %q: %w", categoryName, err)
	}
	return tag.RowsAffected(), nil
}

// SetAllocated sets one category instance's allocation.
func (r *PgxBudgetRepository) SetAllocated(ctx context.Context, categoryID string, amount decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE budget_categories
		SET allocated_amount = $2, last_updated_at = $3, last_updated_by = $4
		WHERE category_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, categoryID, amount, now, userID)
	if err != nil {
		return fmt.Errorf("failed to set allocation for category %s: %w", categoryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// TransferAllocation atomically moves budget between two categories,
// clamped to the source's current allocation. Both rows are locked in a
// fixed order to avoid deadlocks between concurrent transfers.
func (r *PgxBudgetRepository) TransferAllocation(ctx context.Context, fromCategoryID, toCategoryID string, requested decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error) {
	if !requested.IsPositive() {
		return decimal.Zero, nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer r.Rollback(ctx, tx)

	lock := `
		SELECT category_id, allocated_amount
		FROM budget_categories
		WHERE category_id = ANY($1)
		ORDER BY category_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, lock, []string{fromCategoryID, toCategoryID})
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to lock categories for transfer: %w", err)
	}
	allocations := map[string]decimal.Decimal{}
	for rows.Next() {
		var id string
		var alloc decimal.Decimal
		if err := rows.Scan(&id, &alloc); err != nil {
			rows.Close()
			return decimal.Zero, fmt.Errorf("failed to scan locked category: %w", err)
		}
		allocations[id] = alloc
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("error iterating locked categories: %w", err)
	}
	if len(allocations) != 2 {
		return decimal.Zero, apperrors.ErrNotFound
	}

	available := allocations[fromCategoryID]
	transfer := requested
	if available.LessThan(transfer) {
		transfer = available
	}
	if !transfer.IsPositive() {
		return decimal.Zero, r.Commit(ctx, tx)
	}

	update := `
		UPDATE budget_categories
		SET allocated_amount = allocated_amount + $2, last_updated_at = $3, last_updated_by = $4
		WHERE category_id = $1;
	`
	if _, err := tx.Exec(ctx, update, fromCategoryID, transfer.Neg(), now, userID); err != nil {
		return decimal.Zero, fmt.Errorf("failed to debit source category: %w", err)
	}
	if _, err := tx.Exec(ctx, update, toCategoryID, transfer, now, userID); err != nil {
		return decimal.Zero, fmt.Errorf("failed to credit payment category: %w", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return decimal.Zero, err
	}
	return transfer, nil
}
