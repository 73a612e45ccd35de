package service

import (
	"context"
	"fmt"

	"finbook/internal/core"
	"finbook/internal/log"
	"finbook/internal/storage"
)

// ExpenseService manages a user's expense records.
type ExpenseService struct {
	store     *storage.Repository
	publisher Publisher
	logger    *log.Logger
}

func NewExpenseService(store *storage.Repository, publisher Publisher, logger *log.Logger) *ExpenseService {
	return &ExpenseService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentService),
	}
}

// Create stores a new expense for the requesting user.
func (s *ExpenseService) Create(ctx context.Context, req core.ExpenseRequest) (ExpenseView, error) {
	if err := req.Validate(); err != nil {
		return ExpenseView{}, err
	}
	owner, err := resolveOwner(ctx, s.store, req.UserID)
	if err != nil {
		return ExpenseView{}, err
	}

	expense := core.Expense{
		Description: req.Description,
		Amount:      req.Amount,
		Date:        req.Date,
		UserID:      req.UserID,
	}
	id, err := s.store.CreateExpense(ctx, expense)
	if err != nil {
		return ExpenseView{}, err
	}
	expense.ID = id

	publishEvent(ctx, s.publisher, s.logger, EntityExpense, ActionCreated, id, req.UserID)
	return ExpenseView{Expense: expense, Username: owner.Username}, nil
}

// GetByIDAndUser retrieves an expense the given user owns. An expense
// owned by somebody else is reported as not found.
func (s *ExpenseService) GetByIDAndUser(ctx context.Context, id, userID int64) (ExpenseView, error) {
	owner, err := resolveOwner(ctx, s.store, userID)
	if err != nil {
		return ExpenseView{}, err
	}
	expense, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return ExpenseView{}, err
	}
	if expense.UserID != userID {
		return ExpenseView{}, fmt.Errorf("%w: expense %d does not belong to user %d", core.ErrExpenseNotFound, id, userID)
	}
	return ExpenseView{Expense: expense, Username: owner.Username}, nil
}

// Update overwrites an expense's fields. The record must currently
// belong to the user named in the request.
func (s *ExpenseService) Update(ctx context.Context, id int64, req core.ExpenseRequest) (ExpenseView, error) {
	if err := req.Validate(); err != nil {
		return ExpenseView{}, err
	}
	owner, err := resolveOwner(ctx, s.store, req.UserID)
	if err != nil {
		return ExpenseView{}, err
	}
	existing, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return ExpenseView{}, err
	}
	if existing.UserID != req.UserID {
		return ExpenseView{}, fmt.Errorf("%w: expense %d does not belong to user %d", core.ErrExpenseNotFound, id, req.UserID)
	}

	expense := core.Expense{
		ID:          id,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        req.Date,
		UserID:      req.UserID,
	}
	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		return ExpenseView{}, err
	}

	publishEvent(ctx, s.publisher, s.logger, EntityExpense, ActionUpdated, id, req.UserID)
	return ExpenseView{Expense: expense, Username: owner.Username}, nil
}

// Delete removes a user's expense after verifying ownership.
func (s *ExpenseService) Delete(ctx context.Context, id, userID int64) error {
	if _, err := resolveOwner(ctx, s.store, userID); err != nil {
		return err
	}
	expense, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return err
	}
	if expense.UserID != userID {
		return fmt.Errorf("%w: expense %d does not belong to user %d", core.ErrExpenseNotFound, id, userID)
	}
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return err
	}

	publishEvent(ctx, s.publisher, s.logger, EntityExpense, ActionDeleted, id, userID)
	return nil
}

// ListByUser returns every expense the user owns.
func (s *ExpenseService) ListByUser(ctx context.Context, userID int64) ([]ExpenseView, error) {
	owner, err := resolveOwner(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpensesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return expenseViews(expenses, owner.Username), nil
}

// MaxByUser returns the user's highest expense.
func (s *ExpenseService) MaxByUser(ctx context.Context, userID int64) (ExpenseView, error) {
	owner, err := resolveOwner(ctx, s.store, userID)
	if err != nil {
		return ExpenseView{}, err
	}
	expense, err := s.store.MaxExpenseByUser(ctx, userID)
	if err != nil {
		return ExpenseView{}, err
	}
	return ExpenseView{Expense: expense, Username: owner.Username}, nil
}

// MinByUser returns the user's lowest expense.
func (s *ExpenseService) MinByUser(ctx context.Context, userID int64) (ExpenseView, error) {
	owner, err := resolveOwner(ctx, s.store, userID)
	if err != nil {
		return ExpenseView{}, err
	}
	expense, err := s.store.MinExpenseByUser(ctx, userID)
	if err != nil {
		return ExpenseView{}, err
	}
	return ExpenseView{Expense: expense, Username: owner.Username}, nil
}

// GreaterThan returns the user's expenses strictly above the amount.
func (s *ExpenseService) GreaterThan(ctx context.Context, userID int64, amount float64) ([]ExpenseView, error) {
	owner, err := resolveOwner(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ExpensesGreaterThan(ctx, userID, amount)
	if err != nil {
		return nil, err
	}
	return expenseViews(expenses, owner.Username), nil
}

// LessThan returns the user's expenses strictly below the amount.
func (s *ExpenseService) LessThan(ctx context.Context, userID int64, amount float64) ([]ExpenseView, error) {
	owner, err := resolveOwner(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ExpensesLessThan(ctx, userID, amount)
	if err != nil {
		return nil, err
	}
	return expenseViews(expenses, owner.Username), nil
}

// SearchByDescription returns the user's expenses whose description
// contains the keyword, ignoring case.
func (s *ExpenseService) SearchByDescription(ctx context.Context, userID int64, keyword string) ([]ExpenseView, error) {
	owner, err := resolveOwner(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.SearchExpensesByDescription(ctx, userID, keyword)
	if err != nil {
		return nil, err
	}
	return expenseViews(expenses, owner.Username), nil
}

// TotalByUser sums the user's expense amounts.
func (s *ExpenseService) TotalByUser(ctx context.Context, userID int64) (float64, error) {
	if _, err := resolveOwner(ctx, s.store, userID); err != nil {
		return 0, err
	}
	return s.store.TotalExpenseByUser(ctx, userID)
}

// CountByMonth groups the user's expense counts by calendar month.
func (s *ExpenseService) CountByMonth(ctx context.Context, userID int64) ([]core.MonthCount, error) {
	if _, err := resolveOwner(ctx, s.store, userID); err != nil {
		return nil, err
	}
	return s.store.ExpenseCountByMonth(ctx, userID)
}

// CountByYear groups the user's expense counts by calendar year.
func (s *ExpenseService) CountByYear(ctx context.Context, userID int64) ([]core.YearCount, error) {
	if _, err := resolveOwner(ctx, s.store, userID); err != nil {
		return nil, err
	}
	return s.store.ExpenseCountByYear(ctx, userID)
}
