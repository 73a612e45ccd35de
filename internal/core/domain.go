package core

import (
	"errors"
	"strings"
)

type (
	// User is the root entity. Every record carries a required
	// foreign key to exactly one user.
	User struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Password string `json:"-"`
		Email    string `json:"email"`
	}

	// Income is an inflow record owned by a user.
	Income struct {
		ID          int64   `json:"id"`
		Description string  `json:"description"`
		Source      string  `json:"source"`
		Amount      float64 `json:"amount"`
		Date        string  `json:"date"`
		UserID      int64   `json:"user_id"`
	}

	// Expense is an outflow record owned by a user. Same shape as
	// Income minus the source.
	Expense struct {
		ID          int64   `json:"id"`
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
		Date        string  `json:"date"`
		UserID      int64   `json:"user_id"`
	}

	// Budget is a planned allocation for a free-text month label and
	// category, owned by a user.
	Budget struct {
		ID          int64   `json:"id"`
		Description string  `json:"description"`
		Category    string  `json:"category"`
		Amount      float64 `json:"amount"`
		Month       string  `json:"month"`
		UserID      int64   `json:"user_id"`
	}
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrIncomeNotFound  = errors.New("income not found")
	ErrExpenseNotFound = errors.New("expense not found")
	ErrBudgetNotFound  = errors.New("budget not found")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrUserHasRecords  = errors.New("user still owns records")

	ErrMissingUser     = errors.New("user id is required")
	ErrMissingUsername = errors.New("username is required")
	ErrNegativeAmount  = errors.New("amount cannot be negative")
)

// UserRequest carries the mutable fields of a user for create and
// update operations.
type UserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func (r UserRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return ErrMissingUsername
	}
	return nil
}

// IncomeRequest carries all mutable income fields plus the claimed
// owner. Date and source are free text; nothing beyond ownership and
// a non-negative amount is validated.
type IncomeRequest struct {
	Description string  `json:"description"`
	Source      string  `json:"source"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	UserID      int64   `json:"user_id"`
}

func (r IncomeRequest) Validate() error {
	if r.UserID == 0 {
		return ErrMissingUser
	}
	if r.Amount < 0 {
		return ErrNegativeAmount
	}
	return nil
}

type ExpenseRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	UserID      int64   `json:"user_id"`
}

func (r ExpenseRequest) Validate() error {
	if r.UserID == 0 {
		return ErrMissingUser
	}
	if r.Amount < 0 {
		return ErrNegativeAmount
	}
	return nil
}

type BudgetRequest struct {
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Month       string  `json:"month"`
	UserID      int64   `json:"user_id"`
}

func (r BudgetRequest) Validate() error {
	if r.UserID == 0 {
		return ErrMissingUser
	}
	if r.Amount < 0 {
		return ErrNegativeAmount
	}
	return nil
}
