package service

import (
	"context"
	"fmt"

	"finbook/internal/core"
	"finbook/internal/log"
	"finbook/internal/storage"
)

// UserService manages user accounts.
type UserService struct {
	store     *storage.Repository
	publisher Publisher
	logger    *log.Logger
}

func NewUserService(store *storage.Repository, publisher Publisher, logger *log.Logger) *UserService {
	return &UserService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentService),
	}
}

// Create registers a new user. The insert is a single statement, so two
// concurrent creates with the same username cannot both succeed.
func (s *UserService) Create(ctx context.Context, req core.UserRequest) (core.User, error) {
	if err := req.Validate(); err != nil {
		return core.User{}, err
	}

	user := core.User{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	}
	id, err := s.store.CreateUser(ctx, user)
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	user.ID = id

	publishEvent(ctx, s.publisher, s.logger, EntityUser, ActionCreated, id, id)
	return user, nil
}

// GetByID retrieves a user by id.
func (s *UserService) GetByID(ctx context.Context, id int64) (core.User, error) {
	return s.store.GetUser(ctx, id)
}

// GetByUsername retrieves a user by username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (core.User, error) {
	return s.store.GetUserByUsername(ctx, username)
}

// Update overwrites the user's mutable fields and returns the merged
// result.
func (s *UserService) Update(ctx context.Context, id int64, req core.UserRequest) (core.User, error) {
	if err := req.Validate(); err != nil {
		return core.User{}, err
	}

	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return core.User{}, err
	}

	user.Username = req.Username
	user.Password = req.Password
	user.Email = req.Email
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return core.User{}, fmt.Errorf("update user: %w", err)
	}

	publishEvent(ctx, s.publisher, s.logger, EntityUser, ActionUpdated, id, id)
	return user, nil
}

// Delete removes a user. Users that still own incomes, expenses, or
// budgets cannot be deleted.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.GetUser(ctx, id); err != nil {
		return err
	}

	count, err := s.store.UserRecordCount(ctx, id)
	if err != nil {
		return fmt.Errorf("count user records: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: user %d owns %d records", core.ErrUserHasRecords, id, count)
	}

	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}

	publishEvent(ctx, s.publisher, s.logger, EntityUser, ActionDeleted, id, id)
	return nil
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]core.User, error) {
	return s.store.ListUsers(ctx)
}
