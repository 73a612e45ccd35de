package service

import (
	"context"
	"fmt"

	"finbook/internal/core"
	"finbook/internal/log"
	"finbook/internal/storage"
)

// IncomeService manages a user's income records.
type IncomeService struct {
	store     *storage.Repository
	publisher Publisher
	logger    *log.Logger
}

func NewIncomeService(store *storage.Repository, publisher Publisher, logger *log.Logger) *IncomeService {
	return &IncomeService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentService),
	}
}

// Create stores a new income for the requesting user.
func (s *IncomeService) Create(ctx context.Context, req core.IncomeRequest) (IncomeView, error) {
	if err := req.Validate(); err != nil {
		return IncomeView{}, err
	}
	owner, err := resolveOwner(ctx, s.store, req.UserID)
	if err != nil {
		return IncomeView{}, err
	}

	income := core.Income{
		Description: req.Description,
		Source:      req.Source,
		Amount:      req.Amount,
		Date:        req.Date,
		UserID:      req.UserID,
	}
	id, err := s.store.CreateIncome(ctx, income)
	if err != nil {
		return IncomeView{}, err
	}
	income.ID = id

	publishEvent(ctx, s.publisher, s.logger, EntityIncome, ActionCreated, id, req.UserID)
	return IncomeView{Income: income, Username: owner.Username}, nil
}

// GetByIDAndUser retrieves an income the given user owns. An income
// owned by somebody else is reported as not found.
func (s *IncomeService) GetByIDAndUser(ctx context.Context, id, userID int64) (IncomeView, error) {
	owner, err := resolveOwner(ctx, s.store, userID)
	if err != nil {
		return IncomeView{}, err
	}
	income, err := s.store.GetIncome(ctx, id)
	if err != nil {
		return IncomeView{}, err
	}
	if income.UserID != userID {
		return IncomeView{}, fmt.Errorf("%w: income %d does not belong to user %d", core.ErrIncomeNotFound, id, userID)
	}
	return IncomeView{Income: income, Username: owner.Username}, nil
}

// Update overwrites an income's fields. The record must currently
// belong to the user named in the request.
func (s *IncomeService) Update(ctx context.Context, id int64, req core.IncomeRequest) (IncomeView, error) {
	if err := req.Validate(); err != nil {
		return IncomeView{}, err
	}
	owner, err := resolveOwner(ctx, s.store, req.UserID)
	if err != nil {
		return IncomeView{}, err
	}
	existing, err := s.store.GetIncome(ctx, id)
	if err != nil {
		return IncomeView{}, err
	}
	if existing.UserID != req.UserID {
		return IncomeView{}, fmt.Errorf("%w: income %d does not belong to user %d", core.ErrIncomeNotFound, id, req.UserID)
	}

	income := core.Income{
		ID:          id,
		Description: req.Description,
		Source:      req.Source,
		Amount:      req.Amount,
		Date:        req.Date,
		UserID:      req.UserID,
	}
	if err := s.store.UpdateIncome(ctx, income); err != nil {
		return IncomeView{}, err
	}

	publishEvent(ctx, s.publisher, s.logger, EntityIncome, ActionUpdated, id, req.UserID)
	return IncomeView{Income: income, Username: owner.Username}, nil
}

// Delete removes a user's income after verifying ownership.
func (s *IncomeService) Delete(ctx context.Context, id, userID int64) error {
	if _, err := resolveOwner(ctx, s.store, userID); err != nil {
		return err
	}
	income, err := s.store.GetIncome(ctx, id)
	if err != nil {
		return err
	}
	if income.UserID != userID {
		return fmt.Errorf("%w: income %d does not belong to user %d", core.ErrIncomeNotFound, id, userID)
	}
	if err := s.store.DeleteIncome(ctx, id); err != nil {
		return err
	}

	publishEvent(ctx, s.publisher, s.logger, EntityIncome, ActionDeleted, id, userID)
	return nil
}

// ListByUser returns every income the user owns.
func (s *IncomeService) ListByUser(ctx context.Context, userID int64) ([]IncomeView, error) {
	owner, err := resolveOwner(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	incomes, err := s.store.ListIncomesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return incomeViews(incomes, owner.Username), nil
}

// MaxByUser returns the user's highest income.
func (s *IncomeService) MaxByUser(ctx context.Context, userID int64) (IncomeView, error) {
	owner, err := resolveOwner(ctx, s.store, userID)
	if err != nil {
		return IncomeView{}, err
	}
	income, err := s.store.MaxIncomeByUser(ctx, userID)
	if err != nil {
		return IncomeView{}, err
	}
	return IncomeView{Income: income, Username: owner.Username}, nil
}

// MinByUser returns the user's lowest income.
func (s *IncomeService) MinByUser(ctx context.Context, userID int64) (IncomeView, error) {
	owner, err := resolveOwner(ctx, s.store, userID)
	if err != nil {
		return IncomeView{}, err
	}
	income, err := s.store.MinIncomeByUser(ctx, userID)
	if err != nil {
		return IncomeView{}, err
	}
	return IncomeView{Income: income, Username: owner.Username}, nil
}

// GreaterThan returns the user's incomes strictly above the amount.
func (s *IncomeService) GreaterThan(ctx context.Context, userID int64, amount float64) ([]IncomeView, error) {
	owner, err := resolveOwner(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	incomes, err := s.store.IncomesGreaterThan(ctx, userID, amount)
	if err != nil {
		return nil, err
	}
	return incomeViews(incomes, owner.Username), nil
}

// LessThan returns the user's incomes strictly below the amount.
func (s *IncomeService) LessThan(ctx context.Context, userID int64, amount float64) ([]IncomeView, error) {
	owner, err := resolveOwner(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	incomes, err := s.store.IncomesLessThan(ctx, userID, amount)
	if err != nil {
		return nil, err
	}
	return incomeViews(incomes, owner.Username), nil
}

// SearchByDescription returns the user's incomes whose description
// contains the keyword, ignoring case.
func (s *IncomeService) SearchByDescription(ctx context.Context, userID int64, keyword string) ([]IncomeView, error) {
	owner, err := resolveOwner(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	incomes, err := s.store.SearchIncomesByDescription(ctx, userID, keyword)
	if err != nil {
		return nil, err
	}
	return incomeViews(incomes, owner.Username), nil
}

// TotalByUser sums the user's income amounts.
func (s *IncomeService) TotalByUser(ctx context.Context, userID int64) (float64, error) {
	if _, err := resolveOwner(ctx, s.store, userID); err != nil {
		return 0, err
	}
	return s.store.TotalIncomeByUser(ctx, userID)
}

// SumByMonth groups the user's income totals by calendar month.
func (s *IncomeService) SumByMonth(ctx context.Context, userID int64) ([]core.MonthSum, error) {
	if _, err := resolveOwner(ctx, s.store, userID); err != nil {
		return nil, err
	}
	return s.store.IncomeSumByMonth(ctx, userID)
}

// SumBySource groups the user's income totals by source.
func (s *IncomeService) SumBySource(ctx context.Context, userID int64) ([]core.LabelSum, error) {
	if _, err := resolveOwner(ctx, s.store, userID); err != nil {
		return nil, err
	}
	return s.store.IncomeSumBySource(ctx, userID)
}
