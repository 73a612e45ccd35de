package storage

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finbook/internal/core"
)

func (suite *RepositoryTestSuite) addIncome(userID int64, description, source string, amount float64, date string) int64 {
	id, err := suite.repo.CreateIncome(suite.ctx, core.Income{
		Description: description,
		Source:      source,
		Amount:      amount,
		Date:        date,
		UserID:      userID,
	})
	require.NoError(suite.T(), err)
	return id
}

func (suite *RepositoryTestSuite) addExpense(userID int64, description string, amount float64, date string) int64 {
	id, err := suite.repo.CreateExpense(suite.ctx, core.Expense{
		Description: description,
		Amount:      amount,
		Date:        date,
		UserID:      userID,
	})
	require.NoError(suite.T(), err)
	return id
}

func (suite *RepositoryTestSuite) addBudget(userID int64, description, category string, amount float64, month string) int64 {
	id, err := suite.repo.CreateBudget(suite.ctx, core.Budget{
		Description: description,
		Category:    category,
		Amount:      amount,
		Month:       month,
		UserID:      userID,
	})
	require.NoError(suite.T(), err)
	return id
}

func (suite *RepositoryTestSuite) TestIncomeCRUD() {
	userID := suite.createUser("alice")
	id := suite.addIncome(userID, "march salary", "employer", 2500, "2024-03-01")

	income, err := suite.repo.GetIncome(suite.ctx, id)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "march salary", income.Description)
	assert.Equal(suite.T(), "employer", income.Source)
	assert.Equal(suite.T(), userID, income.UserID)

	income.Amount = 2600
	require.NoError(suite.T(), suite.repo.UpdateIncome(suite.ctx, income))
	income, err = suite.repo.GetIncome(suite.ctx, id)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2600.0, income.Amount)

	require.NoError(suite.T(), suite.repo.DeleteIncome(suite.ctx, id))
	_, err = suite.repo.GetIncome(suite.ctx, id)
	assert.ErrorIs(suite.T(), err, core.ErrIncomeNotFound)
}

func (suite *RepositoryTestSuite) TestListIncomesScopedToOwner() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")
	suite.addIncome(alice, "salary", "work", 100, "2024-01-01")
	suite.addIncome(bob, "gift", "family", 50, "2024-01-02")

	incomes, err := suite.repo.ListIncomesByUser(suite.ctx, alice)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), incomes, 1)
	assert.Equal(suite.T(), "salary", incomes[0].Description)
}

func (suite *RepositoryTestSuite) TestListIncomesEmptyIsNotNil() {
	alice := suite.createUser("alice")

	incomes, err := suite.repo.ListIncomesByUser(suite.ctx, alice)
	require.NoError(suite.T(), err)
	assert.NotNil(suite.T(), incomes)
	assert.Empty(suite.T(), incomes)
}

func (suite *RepositoryTestSuite) TestMaxIncomeTieBreaksOnFirstInserted() {
	alice := suite.createUser("alice")
	first := suite.addIncome(alice, "a", "s", 100, "2024-01-01")
	suite.addIncome(alice, "b", "s", 100, "2024-01-02")

	income, err := suite.repo.MaxIncomeByUser(suite.ctx, alice)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), first, income.ID)
}

func (suite *RepositoryTestSuite) TestMinIncomeOnEmptyIsNotFound() {
	alice := suite.createUser("alice")

	_, err := suite.repo.MinIncomeByUser(suite.ctx, alice)
	assert.ErrorIs(suite.T(), err, core.ErrIncomeNotFound)
}

func (suite *RepositoryTestSuite) TestIncomesGreaterThanIsStrict() {
	alice := suite.createUser("alice")
	suite.addIncome(alice, "low", "s", 100, "2024-01-01")
	high := suite.addIncome(alice, "high", "s", 150, "2024-01-02")

	incomes, err := suite.repo.IncomesGreaterThan(suite.ctx, alice, 100)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), incomes, 1)
	assert.Equal(suite.T(), high, incomes[0].ID)
}

func (suite *RepositoryTestSuite) TestSearchIncomesIgnoresCaseAndOtherOwners() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")
	suite.addIncome(alice, "Freelance Gig", "client", 300, "2024-02-01")
	suite.addIncome(alice, "salary", "work", 100, "2024-02-02")
	suite.addIncome(bob, "freelance job", "client", 200, "2024-02-03")

	incomes, err := suite.repo.SearchIncomesByDescription(suite.ctx, alice, "FREELANCE")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), incomes, 1)
	assert.Equal(suite.T(), "Freelance Gig", incomes[0].Description)
}

func (suite *RepositoryTestSuite) TestTotalIncomeEmptyIsZero() {
	alice := suite.createUser("alice")

	total, err := suite.repo.TotalIncomeByUser(suite.ctx, alice)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0.0, total)
}

func (suite *RepositoryTestSuite) TestIncomeSumByMonthOrdered() {
	alice := suite.createUser("alice")
	suite.addIncome(alice, "march", "work", 200, "2024-03-15")
	suite.addIncome(alice, "january a", "work", 100, "2024-01-10")
	suite.addIncome(alice, "january b", "work", 50, "2024-01-20")

	sums, err := suite.repo.IncomeSumByMonth(suite.ctx, alice)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), sums, 2)
	assert.Equal(suite.T(), core.MonthSum{Month: 1, Total: 150}, sums[0])
	assert.Equal(suite.T(), core.MonthSum{Month: 3, Total: 200}, sums[1])
}

func (suite *RepositoryTestSuite) TestIncomeSumBySource() {
	alice := suite.createUser("alice")
	suite.addIncome(alice, "a", "work", 100, "2024-01-01")
	suite.addIncome(alice, "b", "work", 200, "2024-02-01")
	suite.addIncome(alice, "c", "rental", 400, "2024-03-01")

	sums, err := suite.repo.IncomeSumBySource(suite.ctx, alice)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), sums, 2)

	bySource := map[string]float64{}
	for _, s := range sums {
		bySource[s.Label] = s.Total
	}
	assert.Equal(suite.T(), 300.0, bySource["work"])
	assert.Equal(suite.T(), 400.0, bySource["rental"])
}

func (suite *RepositoryTestSuite) TestIncomeSumByMonthSkipsFreeTextDates() {
	alice := suite.createUser("alice")
	suite.addIncome(alice, "march salary", "work", 200, "2024-03-01")
	suite.addIncome(alice, "tips", "cash", 40, "whenever")

	sums, err := suite.repo.IncomeSumByMonth(suite.ctx, alice)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), sums, 1)
	assert.Equal(suite.T(), core.MonthSum{Month: 3, Total: 200}, sums[0])
}

func (suite *RepositoryTestSuite) TestExpenseCountByMonthOrdered() {
	alice := suite.createUser("alice")
	suite.addExpense(alice, "rent feb", 800, "2024-02-01")
	suite.addExpense(alice, "rent jan", 800, "2024-01-01")
	suite.addExpense(alice, "food jan", 50, "2024-01-15")

	counts, err := suite.repo.ExpenseCountByMonth(suite.ctx, alice)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), counts, 2)
	assert.Equal(suite.T(), core.MonthCount{Month: 1, Count: 2}, counts[0])
	assert.Equal(suite.T(), core.MonthCount{Month: 2, Count: 1}, counts[1])
}

func (suite *RepositoryTestSuite) TestExpenseCountByYearOrdered() {
	alice := suite.createUser("alice")
	suite.addExpense(alice, "new", 10, "2024-01-01")
	suite.addExpense(alice, "old a", 20, "2023-05-01")
	suite.addExpense(alice, "old b", 30, "2023-06-01")

	counts, err := suite.repo.ExpenseCountByYear(suite.ctx, alice)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), counts, 2)
	assert.Equal(suite.T(), core.YearCount{Year: 2023, Count: 2}, counts[0])
	assert.Equal(suite.T(), core.YearCount{Year: 2024, Count: 1}, counts[1])
}

func (suite *RepositoryTestSuite) TestExpenseCountsSkipFreeTextDates() {
	alice := suite.createUser("alice")
	suite.addExpense(alice, "rent", 800, "2024-01-01")
	suite.addExpense(alice, "souvenir", 15, "holiday trip")

	months, err := suite.repo.ExpenseCountByMonth(suite.ctx, alice)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), months, 1)
	assert.Equal(suite.T(), core.MonthCount{Month: 1, Count: 1}, months[0])

	years, err := suite.repo.ExpenseCountByYear(suite.ctx, alice)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), years, 1)
	assert.Equal(suite.T(), core.YearCount{Year: 2024, Count: 1}, years[0])
}

func (suite *RepositoryTestSuite) TestExpenseExtremaAndTotal() {
	alice := suite.createUser("alice")
	suite.addExpense(alice, "groceries", 50.0, "2024-01-05")
	maxID := suite.addExpense(alice, "rent", 120.0, "2024-01-10")

	total, err := suite.repo.TotalExpenseByUser(suite.ctx, alice)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 170.0, total)

	expense, err := suite.repo.MaxExpenseByUser(suite.ctx, alice)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), maxID, expense.ID)

	above, err := suite.repo.ExpensesGreaterThan(suite.ctx, alice, 100)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), above, 1)
	assert.Equal(suite.T(), maxID, above[0].ID)
}

func (suite *RepositoryTestSuite) TestBudgetCountByMonthLexicalOrder() {
	alice := suite.createUser("alice")
	suite.addBudget(alice, "food", "groceries", 300, "february")
	suite.addBudget(alice, "rent", "housing", 800, "april")
	suite.addBudget(alice, "fun", "leisure", 100, "april")

	counts, err := suite.repo.BudgetCountByMonth(suite.ctx, alice)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), counts, 2)
	assert.Equal(suite.T(), core.LabelCount{Label: "april", Count: 2}, counts[0])
	assert.Equal(suite.T(), core.LabelCount{Label: "february", Count: 1}, counts[1])
}

func (suite *RepositoryTestSuite) TestBudgetCountByCategory() {
	alice := suite.createUser("alice")
	suite.addBudget(alice, "food", "groceries", 300, "january")
	suite.addBudget(alice, "snacks", "groceries", 50, "january")
	suite.addBudget(alice, "rent", "housing", 800, "january")

	counts, err := suite.repo.BudgetCountByCategory(suite.ctx, alice)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), counts, 2)

	byCategory := map[string]int64{}
	for _, c := range counts {
		byCategory[c.Label] = c.Count
	}
	assert.EqualValues(suite.T(), 2, byCategory["groceries"])
	assert.EqualValues(suite.T(), 1, byCategory["housing"])
}

func (suite *RepositoryTestSuite) TestBudgetSearchAndBounds() {
	alice := suite.createUser("alice")
	g := suite.addBudget(alice, "Monthly Groceries", "groceries", 300, "january")
	suite.addBudget(alice, "rent", "housing", 800, "january")

	budgets, err := suite.repo.SearchBudgetsByDescription(suite.ctx, alice, "groceries")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), budgets, 1)
	assert.Equal(suite.T(), g, budgets[0].ID)

	below, err := suite.repo.BudgetsLessThan(suite.ctx, alice, 800)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), below, 1)
	assert.Equal(suite.T(), g, below[0].ID)
}
