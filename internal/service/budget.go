package service

import (
	"context"
	"fmt"

	"finbook/internal/core"
	"finbook/internal/log"
	"finbook/internal/storage"
)

// BudgetService manages a user's budget records.
type BudgetService struct {
	store     *storage.Repository
	publisher Publisher
	logger    *log.Logger
}

func NewBudgetService(store *storage.Repository, publisher Publisher, logger *log.Logger) *BudgetService {
	return &BudgetService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentService),
	}
}

// Create stores a new budget for the requesting user.
func (s *BudgetService) Create(ctx context.Context, req core.BudgetRequest) (BudgetView, error) {
	if err := req.Validate(); err != nil {
		return BudgetView{}, err
	}
	owner, err := resolveOwner(ctx, s.store, req.UserID)
	if err != nil {
		return BudgetView{}, err
	}

	budget := core.Budget{
		Description: req.Description,
		Category:    req.Category,
		Amount:      req.Amount,
		Month:       req.Month,
		UserID:      req.UserID,
	}
	id, err := s.store.CreateBudget(ctx, budget)
	if err != nil {
		return BudgetView{}, err
	}
	budget.ID = id

	publishEvent(ctx, s.publisher, s.logger, EntityBudget, ActionCreated, id, req.UserID)
	return BudgetView{Budget: budget, Username: owner.Username}, nil
}

// GetByIDAndUser retrieves a budget the given user owns. A budget owned
// by somebody else is reported as not found.
func (s *BudgetService) GetByIDAndUser(ctx context.Context, id, userID int64) (BudgetView, error) {
	owner, err := resolveOwner(ctx, s.store, userID)
	if err != nil {
		return BudgetView{}, err
	}
	budget, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return BudgetView{}, err
	}
	if budget.UserID != userID {
		return BudgetView{}, fmt.Errorf("%w: budget %d does not belong to user %d", core.ErrBudgetNotFound, id, userID)
	}
	return BudgetView{Budget: budget, Username: owner.Username}, nil
}

// Update overwrites a budget's fields. The record must currently belong
// to the user named in the request.
func (s *BudgetService) Update(ctx context.Context, id int64, req core.BudgetRequest) (BudgetView, error) {
	if err := req.Validate(); err != nil {
		return BudgetView{}, err
	}
	owner, err := resolveOwner(ctx, s.store, req.UserID)
	if err != nil {
		return BudgetView{}, err
	}
	existing, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return BudgetView{}, err
	}
	if existing.UserID != req.UserID {
		return BudgetView{}, fmt.Errorf("%w: budget %d does not belong to user %d", core.ErrBudgetNotFound, id, req.UserID)
	}

	budget := core.Budget{
		ID:          id,
		Description: req.Description,
		Category:    req.Category,
		Amount:      req.Amount,
		Month:       req.Month,
		UserID:      req.UserID,
	}
	if err := s.store.UpdateBudget(ctx, budget); err != nil {
		return BudgetView{}, err
	}

	publishEvent(ctx, s.publisher, s.logger, EntityBudget, ActionUpdated, id, req.UserID)
	return BudgetView{Budget: budget, Username: owner.Username}, nil
}

// Delete removes a user's budget after verifying ownership.
func (s *BudgetService) Delete(ctx context.Context, id, userID int64) error {
	if _, err := resolveOwner(ctx, s.store, userID); err != nil {
		return err
	}
	budget, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return err
	}
	if budget.UserID != userID {
		return fmt.Errorf("%w: budget %d does not belong to user %d", core.ErrBudgetNotFound, id, userID)
	}
	if err := s.store.DeleteBudget(ctx, id); err != nil {
		return err
	}

	publishEvent(ctx, s.publisher, s.logger, EntityBudget, ActionDeleted, id, userID)
	return nil
}

// ListByUser returns every budget the user owns.
func (s *BudgetService) ListByUser(ctx context.Context, userID int64) ([]BudgetView, error) {
	owner, err := resolveOwner(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	budgets, err := s.store.ListBudgetsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return budgetViews(budgets, owner.Username), nil
}

// MaxByUser returns the user's highest budget.
func (s *BudgetService) MaxByUser(ctx context.Context, userID int64) (BudgetView, error) {
	owner, err := resolveOwner(ctx, s.store, userID)
	if err != nil {
		return BudgetView{}, err
	}
	budget, err := s.store.MaxBudgetByUser(ctx, userID)
	if err != nil {
		return BudgetView{}, err
	}
	return BudgetView{Budget: budget, Username: owner.Username}, nil
}

// MinByUser returns the user's lowest budget.
func (s *BudgetService) MinByUser(ctx context.Context, userID int64) (BudgetView, error) {
	owner, err := resolveOwner(ctx, s.store, userID)
	if err != nil {
		return BudgetView{}, err
	}
	budget, err := s.store.MinBudgetByUser(ctx, userID)
	if err != nil {
		return BudgetView{}, err
	}
	return BudgetView{Budget: budget, Username: owner.Username}, nil
}

// GreaterThan returns the user's budgets strictly above the amount.
func (s *BudgetService) GreaterThan(ctx context.Context, userID int64, amount float64) ([]BudgetView, error) {
	owner, err := resolveOwner(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	budgets, err := s.store.BudgetsGreaterThan(ctx, userID, amount)
	if err != nil {
		return nil, err
	}
	return budgetViews(budgets, owner.Username), nil
}

// LessThan returns the user's budgets strictly below the amount.
func (s *BudgetService) LessThan(ctx context.Context, userID int64, amount float64) ([]BudgetView, error) {
	owner, err := resolveOwner(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	budgets, err := s.store.BudgetsLessThan(ctx, userID, amount)
	if err != nil {
		return nil, err
	}
	return budgetViews(budgets, owner.Username), nil
}

// SearchByDescription returns the user's budgets whose description
// contains the keyword, ignoring case.
func (s *BudgetService) SearchByDescription(ctx context.Context, userID int64, keyword string) ([]BudgetView, error) {
	owner, err := resolveOwner(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	budgets, err := s.store.SearchBudgetsByDescription(ctx, userID, keyword)
	if err != nil {
		return nil, err
	}
	return budgetViews(budgets, owner.Username), nil
}

// TotalByUser sums the user's budget amounts.
func (s *BudgetService) TotalByUser(ctx context.Context, userID int64) (float64, error) {
	if _, err := resolveOwner(ctx, s.store, userID); err != nil {
		return 0, err
	}
	return s.store.TotalBudgetByUser(ctx, userID)
}

// CountByMonth groups the user's budget counts by month label.
func (s *BudgetService) CountByMonth(ctx context.Context, userID int64) ([]core.LabelCount, error) {
	if _, err := resolveOwner(ctx, s.store, userID); err != nil {
		return nil, err
	}
	return s.store.BudgetCountByMonth(ctx, userID)
}

// CountByCategory groups the user's budget counts by category.
func (s *BudgetService) CountByCategory(ctx context.Context, userID int64) ([]core.LabelCount, error) {
	if _, err := resolveOwner(ctx, s.store, userID); err != nil {
		return nil, err
	}
	return s.store.BudgetCountByCategory(ctx, userID)
}
