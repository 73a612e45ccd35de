package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"finbook/internal/amqp"
	"finbook/internal/core"
	"finbook/internal/log"
	"finbook/internal/storage"
)

// capturePublisher records every event the services emit.
type capturePublisher struct {
	events []amqp.RecordEvent
}

func (p *capturePublisher) PublishRecordEvent(_ context.Context, event *amqp.RecordEvent) error {
	p.events = append(p.events, *event)
	return nil
}

func (p *capturePublisher) last() amqp.RecordEvent {
	return p.events[len(p.events)-1]
}

type ServiceTestSuite struct {
	suite.Suite
	repo      *storage.Repository
	publisher *capturePublisher
	users     *UserService
	incomes   *IncomeService
	expenses  *ExpenseService
	budgets   *BudgetService
	ctx       context.Context
}

func (suite *ServiceTestSuite) SetupTest() {
	repo, err := storage.Open(":memory:")
	require.NoError(suite.T(), err, "failed to open test database")

	logger := log.New(log.DefaultConfig())
	publisher := &capturePublisher{}

	suite.repo = repo
	suite.publisher = publisher
	suite.users = NewUserService(repo, publisher, logger)
	suite.incomes = NewIncomeService(repo, publisher, logger)
	suite.expenses = NewExpenseService(repo, publisher, logger)
	suite.budgets = NewBudgetService(repo, publisher, logger)
	suite.ctx = context.Background()
}

func (suite *ServiceTestSuite) TearDownTest() {
	if suite.repo != nil {
		suite.repo.Close()
	}
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (suite *ServiceTestSuite) newUser(username string) core.User {
	user, err := suite.users.Create(suite.ctx, core.UserRequest{
		Username: username,
		Password: "secret",
		Email:    username + "@example.com",
	})
	require.NoError(suite.T(), err)
	return user
}

func (suite *ServiceTestSuite) TestCreateUserRequiresUsername() {
	_, err := suite.users.Create(suite.ctx, core.UserRequest{Username: "  "})
	assert.ErrorIs(suite.T(), err, core.ErrMissingUsername)
}

func (suite *ServiceTestSuite) TestCreateUserPublishesEvent() {
	user := suite.newUser("alice")

	require.NotEmpty(suite.T(), suite.publisher.events)
	event := suite.publisher.last()
	assert.Equal(suite.T(), EntityUser, event.Entity)
	assert.Equal(suite.T(), ActionCreated, event.Action)
	assert.Equal(suite.T(), user.ID, event.ID)
}

func (suite *ServiceTestSuite) TestDuplicateUsernameConflicts() {
	suite.newUser("alice")

	_, err := suite.users.Create(suite.ctx, core.UserRequest{Username: "alice", Password: "x", Email: "x@example.com"})
	assert.ErrorIs(suite.T(), err, core.ErrUsernameTaken)
}

func (suite *ServiceTestSuite) TestUpdateUserReturnsMergedValues() {
	user := suite.newUser("carol")

	updated, err := suite.users.Update(suite.ctx, user.ID, core.UserRequest{
		Username: "caroline",
		Password: "new",
		Email:    "caroline@example.com",
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID, updated.ID)
	assert.Equal(suite.T(), "caroline", updated.Username)
	assert.Equal(suite.T(), "caroline@example.com", updated.Email)
}

func (suite *ServiceTestSuite) TestDeleteUserWithRecordsConflicts() {
	alice := suite.newUser("alice")
	_, err := suite.incomes.Create(suite.ctx, core.IncomeRequest{
		Description: "salary", Source: "work", Amount: 100, Date: "2024-01-01", UserID: alice.ID,
	})
	require.NoError(suite.T(), err)

	err = suite.users.Delete(suite.ctx, alice.ID)
	assert.ErrorIs(suite.T(), err, core.ErrUserHasRecords)

	// still present
	_, err = suite.users.GetByID(suite.ctx, alice.ID)
	assert.NoError(suite.T(), err)
}

func (suite *ServiceTestSuite) TestDeleteUserWithoutRecords() {
	alice := suite.newUser("alice")

	require.NoError(suite.T(), suite.users.Delete(suite.ctx, alice.ID))

	_, err := suite.users.GetByID(suite.ctx, alice.ID)
	assert.ErrorIs(suite.T(), err, core.ErrUserNotFound)
}

func (suite *ServiceTestSuite) TestOwnerResolvedBeforeRecordLookup() {
	_, err := suite.incomes.ListByUser(suite.ctx, 999)
	assert.ErrorIs(suite.T(), err, core.ErrUserNotFound)

	_, err = suite.expenses.MaxByUser(suite.ctx, 999)
	assert.ErrorIs(suite.T(), err, core.ErrUserNotFound)

	_, err = suite.budgets.TotalByUser(suite.ctx, 999)
	assert.ErrorIs(suite.T(), err, core.ErrUserNotFound)
}

func (suite *ServiceTestSuite) TestCreateIncomeValidation() {
	_, err := suite.incomes.Create(suite.ctx, core.IncomeRequest{Description: "x", Amount: 10})
	assert.ErrorIs(suite.T(), err, core.ErrMissingUser)

	alice := suite.newUser("alice")
	_, err = suite.incomes.Create(suite.ctx, core.IncomeRequest{Description: "x", Amount: -1, UserID: alice.ID})
	assert.ErrorIs(suite.T(), err, core.ErrNegativeAmount)
}

func (suite *ServiceTestSuite) TestIncomeViewCarriesUsername() {
	alice := suite.newUser("alice")

	view, err := suite.incomes.Create(suite.ctx, core.IncomeRequest{
		Description: "salary", Source: "work", Amount: 100, Date: "2024-01-01", UserID: alice.ID,
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "alice", view.Username)
	assert.NotZero(suite.T(), view.ID)

	event := suite.publisher.last()
	assert.Equal(suite.T(), EntityIncome, event.Entity)
	assert.Equal(suite.T(), ActionCreated, event.Action)
	assert.Equal(suite.T(), alice.ID, event.UserID)
}

func (suite *ServiceTestSuite) TestForeignIncomeReportedAsNotFound() {
	alice := suite.newUser("alice")
	bob := suite.newUser("bob")

	view, err := suite.incomes.Create(suite.ctx, core.IncomeRequest{
		Description: "salary", Source: "work", Amount: 100, Date: "2024-01-01", UserID: alice.ID,
	})
	require.NoError(suite.T(), err)

	_, err = suite.incomes.GetByIDAndUser(suite.ctx, view.ID, bob.ID)
	assert.ErrorIs(suite.T(), err, core.ErrIncomeNotFound)
	assert.NotErrorIs(suite.T(), err, core.ErrUserNotFound)
}

func (suite *ServiceTestSuite) TestUpdateIncomeChecksCurrentOwner() {
	alice := suite.newUser("alice")
	bob := suite.newUser("bob")

	view, err := suite.incomes.Create(suite.ctx, core.IncomeRequest{
		Description: "salary", Source: "work", Amount: 100, Date: "2024-01-01", UserID: alice.ID,
	})
	require.NoError(suite.T(), err)

	_, err = suite.incomes.Update(suite.ctx, view.ID, core.IncomeRequest{
		Description: "stolen", Source: "work", Amount: 1, Date: "2024-01-01", UserID: bob.ID,
	})
	assert.ErrorIs(suite.T(), err, core.ErrIncomeNotFound)

	// unchanged
	kept, err := suite.incomes.GetByIDAndUser(suite.ctx, view.ID, alice.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "salary", kept.Description)
}

func (suite *ServiceTestSuite) TestDeleteIncomeChecksOwner() {
	alice := suite.newUser("alice")
	bob := suite.newUser("bob")

	view, err := suite.incomes.Create(suite.ctx, core.IncomeRequest{
		Description: "salary", Source: "work", Amount: 100, Date: "2024-01-01", UserID: alice.ID,
	})
	require.NoError(suite.T(), err)

	err = suite.incomes.Delete(suite.ctx, view.ID, bob.ID)
	assert.ErrorIs(suite.T(), err, core.ErrIncomeNotFound)

	require.NoError(suite.T(), suite.incomes.Delete(suite.ctx, view.ID, alice.ID))
	event := suite.publisher.last()
	assert.Equal(suite.T(), ActionDeleted, event.Action)
	assert.Equal(suite.T(), EntityIncome, event.Entity)
}

func (suite *ServiceTestSuite) TestExpenseAggregatesForOneUser() {
	alice := suite.newUser("alice")

	_, err := suite.expenses.Create(suite.ctx, core.ExpenseRequest{
		Description: "groceries", Amount: 50.0, Date: "2024-01-05", UserID: alice.ID,
	})
	require.NoError(suite.T(), err)
	second, err := suite.expenses.Create(suite.ctx, core.ExpenseRequest{
		Description: "rent", Amount: 120.0, Date: "2024-01-10", UserID: alice.ID,
	})
	require.NoError(suite.T(), err)

	total, err := suite.expenses.TotalByUser(suite.ctx, alice.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 170.0, total)

	max, err := suite.expenses.MaxByUser(suite.ctx, alice.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), second.ID, max.ID)

	above, err := suite.expenses.GreaterThan(suite.ctx, alice.ID, 100)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), above, 1)
	assert.Equal(suite.T(), second.ID, above[0].ID)
}

func (suite *ServiceTestSuite) TestTotalOnEmptyIsZero() {
	alice := suite.newUser("alice")

	total, err := suite.expenses.TotalByUser(suite.ctx, alice.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0.0, total)
}

func (suite *ServiceTestSuite) TestBudgetOwnershipAndAggregates() {
	alice := suite.newUser("alice")
	bob := suite.newUser("bob")

	view, err := suite.budgets.Create(suite.ctx, core.BudgetRequest{
		Description: "food", Category: "groceries", Amount: 300, Month: "january", UserID: alice.ID,
	})
	require.NoError(suite.T(), err)
	_, err = suite.budgets.Create(suite.ctx, core.BudgetRequest{
		Description: "rent", Category: "housing", Amount: 800, Month: "january", UserID: alice.ID,
	})
	require.NoError(suite.T(), err)

	_, err = suite.budgets.GetByIDAndUser(suite.ctx, view.ID, bob.ID)
	assert.ErrorIs(suite.T(), err, core.ErrBudgetNotFound)

	counts, err := suite.budgets.CountByCategory(suite.ctx, alice.ID)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), counts, 2)

	found, err := suite.budgets.SearchByDescription(suite.ctx, alice.ID, "FOOD")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), found, 1)
	assert.Equal(suite.T(), view.ID, found[0].ID)
	assert.Equal(suite.T(), "alice", found[0].Username)
}

func (suite *ServiceTestSuite) TestNopPublisherDoesNotFailMutations() {
	logger := log.New(log.DefaultConfig())
	users := NewUserService(suite.repo, NopPublisher{}, logger)

	_, err := users.Create(suite.ctx, core.UserRequest{Username: "quiet", Password: "x", Email: "q@example.com"})
	assert.NoError(suite.T(), err)
}
