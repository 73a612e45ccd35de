package service

import "finbook/internal/core"

// Record views carry the owner's username alongside the record so API
// clients never need a second lookup.
type (
	IncomeView struct {
		core.Income
		Username string `json:"username"`
	}

	ExpenseView struct {
		core.Expense
		Username string `json:"username"`
	}

	BudgetView struct {
		core.Budget
		Username string `json:"username"`
	}
)

func incomeViews(incomes []core.Income, username string) []IncomeView {
	views := make([]IncomeView, len(incomes))
	for i, inc := range incomes {
		views[i] = IncomeView{Income: inc, Username: username}
	}
	return views
}

func expenseViews(expenses []core.Expense, username string) []ExpenseView {
	views := make([]ExpenseView, len(expenses))
	for i, e := range expenses {
		views[i] = ExpenseView{Expense: e, Username: username}
	}
	return views
}

func budgetViews(budgets []core.Budget, username string) []BudgetView {
	views := make([]BudgetView, len(budgets))
	for i, b := range budgets {
		views[i] = BudgetView{Budget: b, Username: username}
	}
	return views
}
