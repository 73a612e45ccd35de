package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finbook/internal/core"
)

const incomeColumns = `id, description, source, amount, date, user_id`

func scanIncome(row *sql.Row) (core.Income, error) {
	var in core.Income
	err := row.Scan(&in.ID, &in.Description, &in.Source, &in.Amount, &in.Date, &in.UserID)
	return in, err
}

// CreateIncome inserts an income and returns its generated id.
func (r *Repository) CreateIncome(ctx context.Context, in core.Income) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO incomes (description, source, amount, date, user_id) VALUES (?, ?, ?, ?, ?)`,
		in.Description, in.Source, in.Amount, in.Date, in.UserID,
	)
	if err != nil {
		return 0, fmt.Errorf("create income: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve income id: %w", err)
	}
	return id, nil
}

// GetIncome retrieves a single income by id.
func (r *Repository) GetIncome(ctx context.Context, id int64) (core.Income, error) {
	in, err := scanIncome(r.db.QueryRowContext(ctx,
		`SELECT `+incomeColumns+` FROM incomes WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Income{}, fmt.Errorf("%w: id %d", core.ErrIncomeNotFound, id)
		}
		return core.Income{}, fmt.Errorf("get income: %w", err)
	}
	return in, nil
}

// UpdateIncome overwrites every mutable field, including the owner.
func (r *Repository) UpdateIncome(ctx context.Context, in core.Income) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE incomes SET description = ?, source = ?, amount = ?, date = ?, user_id = ? WHERE id = ?`,
		in.Description, in.Source, in.Amount, in.Date, in.UserID, in.ID,
	)
	if err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	return nil
}

// DeleteIncome removes an income by id.
func (r *Repository) DeleteIncome(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM incomes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: id %d", core.ErrIncomeNotFound, id)
	}
	return nil
}

// ListIncomesByUser returns the user's incomes in natural order.
func (r *Repository) ListIncomesByUser(ctx context.Context, userID int64) ([]core.Income, error) {
	return r.queryIncomes(ctx,
		`SELECT `+incomeColumns+` FROM incomes WHERE user_id = ?`, userID)
}

// MaxIncomeByUser returns the user's income with the highest amount.
// Ties resolve to the first-inserted record.
func (r *Repository) MaxIncomeByUser(ctx context.Context, userID int64) (core.Income, error) {
	return r.extremalIncome(ctx, userID,
		`SELECT `+incomeColumns+` FROM incomes WHERE user_id = ? ORDER BY amount DESC, id LIMIT 1`)
}

// MinIncomeByUser returns the user's income with the lowest amount.
func (r *Repository) MinIncomeByUser(ctx context.Context, userID int64) (core.Income, error) {
	return r.extremalIncome(ctx, userID,
		`SELECT `+incomeColumns+` FROM incomes WHERE user_id = ? ORDER BY amount ASC, id LIMIT 1`)
}

func (r *Repository) extremalIncome(ctx context.Context, userID int64, query string) (core.Income, error) {
	in, err := scanIncome(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Income{}, fmt.Errorf("%w: no incomes for user %d", core.ErrIncomeNotFound, userID)
		}
		return core.Income{}, fmt.Errorf("extremal income: %w", err)
	}
	return in, nil
}

// IncomesGreaterThan returns the user's incomes with amount strictly
// above the bound.
func (r *Repository) IncomesGreaterThan(ctx context.Context, userID int64, amount float64) ([]core.Income, error) {
	return r.queryIncomes(ctx,
		`SELECT `+incomeColumns+` FROM incomes WHERE user_id = ? AND amount > ?`, userID, amount)
}

// IncomesLessThan returns the user's incomes with amount strictly
// below the bound.
func (r *Repository) IncomesLessThan(ctx context.Context, userID int64, amount float64) ([]core.Income, error) {
	return r.queryIncomes(ctx,
		`SELECT `+incomeColumns+` FROM incomes WHERE user_id = ? AND amount < ?`, userID, amount)
}

// SearchIncomesByDescription returns the user's incomes whose
// description contains the keyword, case-insensitively.
func (r *Repository) SearchIncomesByDescription(ctx context.Context, userID int64, keyword string) ([]core.Income, error) {
	return r.queryIncomes(ctx,
		`SELECT `+incomeColumns+` FROM incomes WHERE user_id = ? AND LOWER(description) LIKE '%' || LOWER(?) || '%'`,
		userID, keyword)
}

// TotalIncomeByUser sums the user's income amounts; zero when the
// user has no incomes.
func (r *Repository) TotalIncomeByUser(ctx context.Context, userID int64) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM incomes WHERE user_id = ?`, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total income: %w", err)
	}
	return total, nil
}

// IncomeSumByMonth sums the user's income amounts per calendar month
// extracted from the date, ordered by month. Dates are free text, so
// rows whose date yields no calendar month are left out.
func (r *Repository) IncomeSumByMonth(ctx context.Context, userID int64) ([]core.MonthSum, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT CAST(strftime('%m', date) AS INTEGER) AS month, SUM(amount)
		FROM incomes WHERE user_id = ?
		GROUP BY month HAVING month IS NOT NULL ORDER BY month`, userID)
	if err != nil {
		return nil, fmt.Errorf("income sum by month: %w", err)
	}
	defer rows.Close()

	sums := []core.MonthSum{}
	for rows.Next() {
		var s core.MonthSum
		if err := rows.Scan(&s.Month, &s.Total); err != nil {
			return nil, fmt.Errorf("scan month sum: %w", err)
		}
		sums = append(sums, s)
	}
	return sums, rows.Err()
}

// IncomeSumBySource sums the user's income amounts per source.
func (r *Repository) IncomeSumBySource(ctx context.Context, userID int64) ([]core.LabelSum, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT source, SUM(amount) FROM incomes WHERE user_id = ? GROUP BY source`, userID)
	if err != nil {
		return nil, fmt.Errorf("income sum by source: %w", err)
	}
	defer rows.Close()

	sums := []core.LabelSum{}
	for rows.Next() {
		var s core.LabelSum
		if err := rows.Scan(&s.Label, &s.Total); err != nil {
			return nil, fmt.Errorf("scan source sum: %w", err)
		}
		sums = append(sums, s)
	}
	return sums, rows.Err()
}

func (r *Repository) queryIncomes(ctx context.Context, query string, args ...any) ([]core.Income, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query incomes: %w", err)
	}
	defer rows.Close()

	incomes := []core.Income{}
	for rows.Next() {
		var in core.Income
		if err := rows.Scan(&in.ID, &in.Description, &in.Source, &in.Amount, &in.Date, &in.UserID); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		incomes = append(incomes, in)
	}
	return incomes, rows.Err()
}
