package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finbook/internal/core"
)

const budgetColumns = `id, description, category, amount, month, user_id`

func scanBudget(row *sql.Row) (core.Budget, error) {
	var b core.Budget
	err := row.Scan(&b.ID, &b.Description, &b.Category, &b.Amount, &b.Month, &b.UserID)
	return b, err
}

// CreateBudget inserts a budget and returns its generated id.
func (r *Repository) CreateBudget(ctx context.Context, b core.Budget) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (description, category, amount, month, user_id) VALUES (?, ?, ?, ?, ?)`,
		b.Description, b.Category, b.Amount, b.Month, b.UserID,
	)
	if err != nil {
		return 0, fmt.Errorf("create budget: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve budget id: %w", err)
	}
	return id, nil
}

// GetBudget retrieves a single budget by id.
func (r *Repository) GetBudget(ctx context.Context, id int64) (core.Budget, error) {
	b, err := scanBudget(r.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Budget{}, fmt.Errorf("%w: id %d", core.ErrBudgetNotFound, id)
		}
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

// UpdateBudget overwrites every mutable field, including the owner.
func (r *Repository) UpdateBudget(ctx context.Context, b core.Budget) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET description = ?, category = ?, amount = ?, month = ?, user_id = ? WHERE id = ?`,
		b.Description, b.Category, b.Amount, b.Month, b.UserID, b.ID,
	)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return nil
}

// DeleteBudget removes a budget by id.
func (r *Repository) DeleteBudget(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: id %d", core.ErrBudgetNotFound, id)
	}
	return nil
}

// ListBudgetsByUser returns the user's budgets in natural order.
func (r *Repository) ListBudgetsByUser(ctx context.Context, userID int64) ([]core.Budget, error) {
	return r.queryBudgets(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = ?`, userID)
}

// MaxBudgetByUser returns the user's budget with the highest amount.
// Ties resolve to the first-inserted record.
func (r *Repository) MaxBudgetByUser(ctx context.Context, userID int64) (core.Budget, error) {
	return r.extremalBudget(ctx, userID,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = ? ORDER BY amount DESC, id LIMIT 1`)
}

// MinBudgetByUser returns the user's budget with the lowest amount.
func (r *Repository) MinBudgetByUser(ctx context.Context, userID int64) (core.Budget, error) {
	return r.extremalBudget(ctx, userID,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = ? ORDER BY amount ASC, id LIMIT 1`)
}

func (r *Repository) extremalBudget(ctx context.Context, userID int64, query string) (core.Budget, error) {
	b, err := scanBudget(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Budget{}, fmt.Errorf("%w: no budgets for user %d", core.ErrBudgetNotFound, userID)
		}
		return core.Budget{}, fmt.Errorf("extremal budget: %w", err)
	}
	return b, nil
}

// BudgetsGreaterThan returns the user's budgets with amount strictly
// above the bound.
func (r *Repository) BudgetsGreaterThan(ctx context.Context, userID int64, amount float64) ([]core.Budget, error) {
	return r.queryBudgets(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = ? AND amount > ?`, userID, amount)
}

// BudgetsLessThan returns the user's budgets with amount strictly
// below the bound.
func (r *Repository) BudgetsLessThan(ctx context.Context, userID int64, amount float64) ([]core.Budget, error) {
	return r.queryBudgets(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = ? AND amount < ?`, userID, amount)
}

// SearchBudgetsByDescription returns the user's budgets whose
// description contains the keyword, case-insensitively.
func (r *Repository) SearchBudgetsByDescription(ctx context.Context, userID int64, keyword string) ([]core.Budget, error) {
	return r.queryBudgets(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = ? AND LOWER(description) LIKE '%' || LOWER(?) || '%'`,
		userID, keyword)
}

// TotalBudgetByUser sums the user's budget amounts; zero when the
// user has no budgets.
func (r *Repository) TotalBudgetByUser(ctx context.Context, userID int64) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM budgets WHERE user_id = ?`, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total budget: %w", err)
	}
	return total, nil
}

// BudgetCountByMonth counts the user's budgets per free-text month
// label, in lexical label order. No calendar extraction happens: the
// label is grouped as stored.
func (r *Repository) BudgetCountByMonth(ctx context.Context, userID int64) ([]core.LabelCount, error) {
	return r.countBudgetsBy(ctx, userID,
		`SELECT month, COUNT(*) FROM budgets WHERE user_id = ? GROUP BY month ORDER BY month`)
}

// BudgetCountByCategory counts the user's budgets per category.
func (r *Repository) BudgetCountByCategory(ctx context.Context, userID int64) ([]core.LabelCount, error) {
	return r.countBudgetsBy(ctx, userID,
		`SELECT category, COUNT(*) FROM budgets WHERE user_id = ? GROUP BY category`)
}

func (r *Repository) countBudgetsBy(ctx context.Context, userID int64, query string) ([]core.LabelCount, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("count budgets: %w", err)
	}
	defer rows.Close()

	counts := []core.LabelCount{}
	for rows.Next() {
		var c core.LabelCount
		if err := rows.Scan(&c.Label, &c.Count); err != nil {
			return nil, fmt.Errorf("scan budget count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *Repository) queryBudgets(ctx context.Context, query string, args ...any) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	budgets := []core.Budget{}
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.Description, &b.Category, &b.Amount, &b.Month, &b.UserID); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}
