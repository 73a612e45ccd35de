package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finbook/internal/core"
)

const expenseColumns = `id, description, amount, date, user_id`

func scanExpense(row *sql.Row) (core.Expense, error) {
	var e core.Expense
	err := row.Scan(&e.ID, &e.Description, &e.Amount, &e.Date, &e.UserID)
	return e, err
}

// CreateExpense inserts an expense and returns its generated id.
func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (description, amount, date, user_id) VALUES (?, ?, ?, ?)`,
		e.Description, e.Amount, e.Date, e.UserID,
	)
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve expense id: %w", err)
	}
	return id, nil
}

// GetExpense retrieves a single expense by id.
func (r *Repository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	e, err := scanExpense(r.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Expense{}, fmt.Errorf("%w: id %d", core.ErrExpenseNotFound, id)
		}
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// UpdateExpense overwrites every mutable field, including the owner.
func (r *Repository) UpdateExpense(ctx context.Context, e core.Expense) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET description = ?, amount = ?, date = ?, user_id = ? WHERE id = ?`,
		e.Description, e.Amount, e.Date, e.UserID, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense by id.
func (r *Repository) DeleteExpense(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: id %d", core.ErrExpenseNotFound, id)
	}
	return nil
}

// ListExpensesByUser returns the user's expenses in natural order.
func (r *Repository) ListExpensesByUser(ctx context.Context, userID int64) ([]core.Expense, error) {
	return r.queryExpenses(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE user_id = ?`, userID)
}

// MaxExpenseByUser returns the user's expense with the highest
// amount. Ties resolve to the first-inserted record.
func (r *Repository) MaxExpenseByUser(ctx context.Context, userID int64) (core.Expense, error) {
	return r.extremalExpense(ctx, userID,
		`SELECT `+expenseColumns+` FROM expenses WHERE user_id = ? ORDER BY amount DESC, id LIMIT 1`)
}

// MinExpenseByUser returns the user's expense with the lowest amount.
func (r *Repository) MinExpenseByUser(ctx context.Context, userID int64) (core.Expense, error) {
	return r.extremalExpense(ctx, userID,
		`SELECT `+expenseColumns+` FROM expenses WHERE user_id = ? ORDER BY amount ASC, id LIMIT 1`)
}

func (r *Repository) extremalExpense(ctx context.Context, userID int64, query string) (core.Expense, error) {
	e, err := scanExpense(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Expense{}, fmt.Errorf("%w: no expenses for user %d", core.ErrExpenseNotFound, userID)
		}
		return core.Expense{}, fmt.Errorf("extremal expense: %w", err)
	}
	return e, nil
}

// ExpensesGreaterThan returns the user's expenses with amount
// strictly above the bound.
func (r *Repository) ExpensesGreaterThan(ctx context.Context, userID int64, amount float64) ([]core.Expense, error) {
	return r.queryExpenses(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE user_id = ? AND amount > ?`, userID, amount)
}

// ExpensesLessThan returns the user's expenses with amount strictly
// below the bound.
func (r *Repository) ExpensesLessThan(ctx context.Context, userID int64, amount float64) ([]core.Expense, error) {
	return r.queryExpenses(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE user_id = ? AND amount < ?`, userID, amount)
}

// SearchExpensesByDescription returns the user's expenses whose
// description contains the keyword, case-insensitively.
func (r *Repository) SearchExpensesByDescription(ctx context.Context, userID int64, keyword string) ([]core.Expense, error) {
	return r.queryExpenses(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE user_id = ? AND LOWER(description) LIKE '%' || LOWER(?) || '%'`,
		userID, keyword)
}

// TotalExpenseByUser sums the user's expense amounts; zero when the
// user has no expenses.
func (r *Repository) TotalExpenseByUser(ctx context.Context, userID int64) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = ?`, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total expense: %w", err)
	}
	return total, nil
}

// ExpenseCountByMonth counts the user's expenses per calendar month
// extracted from the date, ordered by month. Dates are free text, so
// rows whose date yields no calendar month are left out.
func (r *Repository) ExpenseCountByMonth(ctx context.Context, userID int64) ([]core.MonthCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT CAST(strftime('%m', date) AS INTEGER) AS month, COUNT(*)
		FROM expenses WHERE user_id = ?
		GROUP BY month HAVING month IS NOT NULL ORDER BY month`, userID)
	if err != nil {
		return nil, fmt.Errorf("expense count by month: %w", err)
	}
	defer rows.Close()

	counts := []core.MonthCount{}
	for rows.Next() {
		var c core.MonthCount
		if err := rows.Scan(&c.Month, &c.Count); err != nil {
			return nil, fmt.Errorf("scan month count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// ExpenseCountByYear counts the user's expenses per calendar year
// extracted from the date, ordered by year. Dates are free text, so
// rows whose date yields no calendar year are left out.
func (r *Repository) ExpenseCountByYear(ctx context.Context, userID int64) ([]core.YearCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT CAST(strftime('%Y', date) AS INTEGER) AS year, COUNT(*)
		FROM expenses WHERE user_id = ?
		GROUP BY year HAVING year IS NOT NULL ORDER BY year`, userID)
	if err != nil {
		return nil, fmt.Errorf("expense count by year: %w", err)
	}
	defer rows.Close()

	counts := []core.YearCount{}
	for rows.Next() {
		var c core.YearCount
		if err := rows.Scan(&c.Year, &c.Count); err != nil {
			return nil, fmt.Errorf("scan year count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *Repository) queryExpenses(ctx context.Context, query string, args ...any) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.Date, &e.UserID); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
