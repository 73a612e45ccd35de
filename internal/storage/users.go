package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finbook/internal/core"
)

// CreateUser inserts a new user and returns its generated id. The
// insert and id resolution are a single statement, so a concurrent
// rename can never hand back another row's id.
func (r *Repository) CreateUser(ctx context.Context, u core.User) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password, email) VALUES (?, ?, ?)`,
		u.Username, u.Password, u.Email,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s", core.ErrUsernameTaken, u.Username)
		}
		return 0, fmt.Errorf("create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve user id: %w", err)
	}
	return id, nil
}

// GetUser retrieves a user by id.
func (r *Repository) GetUser(ctx context.Context, id int64) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, password, email FROM users WHERE id = ?`, id)

	var u core.User
	if err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.User{}, fmt.Errorf("%w: id %d", core.ErrUserNotFound, id)
		}
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetUserByUsername retrieves a user by exact username match.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, password, email FROM users WHERE username = ?`, username)

	var u core.User
	if err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.User{}, fmt.Errorf("%w: username %s", core.ErrUserNotFound, username)
		}
		return core.User{}, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

// UpdateUser overwrites every mutable field of the user.
func (r *Repository) UpdateUser(ctx context.Context, u core.User) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET username = ?, password = ?, email = ? WHERE id = ?`,
		u.Username, u.Password, u.Email, u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", core.ErrUsernameTaken, u.Username)
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// DeleteUser removes a user by id.
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: id %d", core.ErrUserNotFound, id)
	}
	return nil
}

// ListUsers returns all users in natural order.
func (r *Repository) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, password, email FROM users`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []core.User{}
	for rows.Next() {
		var u core.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Password, &u.Email); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UserRecordCount returns how many incomes, expenses and budgets the
// user still owns. Used to restrict user deletion.
func (r *Repository) UserRecordCount(ctx context.Context, userID int64) (int64, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM incomes  WHERE user_id = ?)
		     + (SELECT COUNT(*) FROM expenses WHERE user_id = ?)
		     + (SELECT COUNT(*) FROM budgets  WHERE user_id = ?)`,
		userID, userID, userID)

	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count user records: %w", err)
	}
	return n, nil
}
