package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyger/internal/account"
	"moneyger/internal/analytics"
	"moneyger/internal/apperror"
	"moneyger/internal/budget"
	"moneyger/internal/category"
	"moneyger/internal/goal"
	"moneyger/internal/ledger"
)

var testToday = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

type fakeTxSource struct {
	txs []*ledger.Transaction
}

func (f *fakeTxSource) Filter(_ context.Context, userID uuid.UUID, filter ledger.Filter) ([]*ledger.Transaction, error) {
	var out []*ledger.Transaction

	for _, t := range f.txs {
		if t.UserID != userID {
			continue
		}

		if filter.StartDate != nil && t.Date.Before(*filter.StartDate) {
			continue
		}

		if filter.EndDate != nil && t.Date.After(*filter.EndDate) {
			continue
		}

		out = append(out, t)
	}

	return out, nil
}

type fakeAccountSource struct {
	accounts []*account.Account
}

func (f *fakeAccountSource) List(_ context.Context, userID uuid.UUID) ([]*account.Account, error) {
	var out []*account.Account

	for _, a := range f.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}

	return out, nil
}

type fakeCategorySource struct {
	categories []*category.Category
}

func (f *fakeCategorySource) List(_ context.Context, userID uuid.UUID) ([]*category.Category, error) {
	var out []*category.Category

	for _, c := range f.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}

	return out, nil
}

type fakeBudgetSource struct {
	overview *budget.Overview
}

func (f *fakeBudgetSource) Overview(context.Context, uuid.UUID) (*budget.Overview, error) {
	return f.overview, nil
}

type fakeGoalSource struct {
	overview *goal.Overview
}

func (f *fakeGoalSource) Overview(context.Context, uuid.UUID) (*goal.Overview, error) {
	return f.overview, nil
}

type fixture struct {
	userID     uuid.UUID
	txs        *fakeTxSource
	accounts   *fakeAccountSource
	categories *fakeCategorySource
	budgets    *fakeBudgetSource
	goals      *fakeGoalSource
	svc        *analytics.Service

	checkingID uuid.UUID
	salaryID   uuid.UUID
	groceryID  uuid.UUID
	rentID     uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		userID:     uuid.New(),
		txs:        &fakeTxSource{},
		accounts:   &fakeAccountSource{},
		categories: &fakeCategorySource{},
		budgets:    &fakeBudgetSource{overview: &budget.Overview{}},
		goals:      &fakeGoalSource{overview: &goal.Overview{}},
		checkingID: uuid.New(),
		salaryID:   uuid.New(),
		groceryID:  uuid.New(),
		rentID:     uuid.New(),
	}

	f.accounts.accounts = append(f.accounts.accounts, &account.Account{
		ID:      f.checkingID,
		UserID:  f.userID,
		Name:    "Everyday",
		Type:    account.TypeChecking,
		Balance: decimal.NewFromInt(3000),
		Active:  true,
	})

	f.categories.categories = append(f.categories.categories,
		&category.Category{ID: f.salaryID, UserID: f.userID, Name: "Salary", Type: category.TypeIncome},
		&category.Category{ID: f.groceryID, UserID: f.userID, Name: "Groceries", Type: category.TypeExpense},
		&category.Category{ID: f.rentID, UserID: f.userID, Name: "Rent", Type: category.TypeExpense},
	)

	f.svc = analytics.NewService(
		f.txs, f.accounts, f.categories, f.budgets, f.goals,
		analytics.WithClock(func() time.Time { return testToday }),
	)

	return f
}

func (f *fixture) add(title string, amount string, typ ledger.Type, date time.Time, categoryID *uuid.UUID) {
	f.txs.txs = append(f.txs.txs, &ledger.Transaction{
		ID:         uuid.New(),
		UserID:     f.userID,
		Title:      title,
		Amount:     decimal.RequireFromString(amount),
		Type:       typ,
		Date:       date,
		AccountID:  &f.checkingID,
		CategoryID: categoryID,
	})
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestService_Dashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("MonthOverMonthChanges", func(t *testing.T) {
		f := newFixture()

		// May: 1000 in, 900 out.
		f.add("Paycheck", "1000", ledger.TypeIncome, day(2025, 5, 9), &f.salaryID)
		f.add("Groceries", "900", ledger.TypeExpense, day(2025, 5, 20), &f.groceryID)

		// June: 2000 in, 1500 out.
		f.add("Paycheck", "2000", ledger.TypeIncome, day(2025, 6, 2), &f.salaryID)
		f.add("Groceries", "900", ledger.TypeExpense, day(2025, 6, 5), &f.groceryID)
		f.add("Rent", "600", ledger.TypeExpense, day(2025, 6, 10), &f.rentID)

		d, err := f.svc.Dashboard(ctx, f.userID)
		require.NoError(t, err)

		assert.Equal(t, "2025-06", d.CurrentMonth)
		assert.Equal(t, "2000", d.MonthlyIncome.String())
		assert.Equal(t, "1500", d.MonthlyExpense.String())
		assert.Equal(t, "500", d.MonthlyNet.String())
		assert.Equal(t, 3, d.TransactionCount)
		assert.Equal(t, "3000", d.TotalBalance.String())
		assert.Equal(t, 1, d.AccountCount)

		// (2000-1000)/1000, (1500-900)/900, (500-100)/100.
		assert.Equal(t, "100", d.IncomeChange.String())
		assert.Equal(t, "66.67", d.ExpenseChange.String())
		assert.Equal(t, "400", d.NetChange.String())

		// 500/2000, comfortably past the excellent threshold.
		assert.Equal(t, "25", d.SavingsRate.String())
		assert.Equal(t, analytics.HealthExcellent, d.FinancialHealth)

		assert.Same(t, f.budgets.overview, d.BudgetOverview)
		assert.Same(t, f.goals.overview, d.GoalsOverview)
	})

	t.Run("RecentTransactionsNewestFirst", func(t *testing.T) {
		f := newFixture()

		f.add("Paycheck", "2000", ledger.TypeIncome, day(2025, 6, 2), &f.salaryID)
		f.add("Groceries", "50", ledger.TypeExpense, day(2025, 6, 12), &f.groceryID)

		// No category, no account.
		f.txs.txs = append(f.txs.txs, &ledger.Transaction{
			ID:     uuid.New(),
			UserID: f.userID,
			Title:  "Cash tip",
			Amount: decimal.NewFromInt(20),
			Type:   ledger.TypeIncome,
			Date:   day(2025, 6, 14),
		})

		d, err := f.svc.Dashboard(ctx, f.userID)
		require.NoError(t, err)

		require.Len(t, d.RecentTransactions, 3)
		assert.Equal(t, "Cash tip", d.RecentTransactions[0].Title)
		assert.Equal(t, "Uncategorized", d.RecentTransactions[0].Category)
		assert.Equal(t, "No Account", d.RecentTransactions[0].Account)
		assert.Equal(t, "Groceries", d.RecentTransactions[1].Category)
		assert.Equal(t, "Everyday", d.RecentTransactions[1].Account)
	})

	t.Run("TopExpenseCategoriesSortedByAmount", func(t *testing.T) {
		f := newFixture()

		f.add("Groceries", "900", ledger.TypeExpense, day(2025, 6, 5), &f.groceryID)
		f.add("Rent", "600", ledger.TypeExpense, day(2025, 6, 1), &f.rentID)
		f.add("More groceries", "50", ledger.TypeExpense, day(2025, 6, 8), &f.groceryID)

		d, err := f.svc.Dashboard(ctx, f.userID)
		require.NoError(t, err)

		require.Len(t, d.TopExpenseCategories, 2)
		assert.Equal(t, "Groceries", d.TopExpenseCategories[0].Name)
		assert.Equal(t, "950", d.TopExpenseCategories[0].Amount.String())
		assert.Equal(t, "Rent", d.TopExpenseCategories[1].Name)
	})

	t.Run("NoIncomeMonth", func(t *testing.T) {
		f := newFixture()

		f.add("Rent", "600", ledger.TypeExpense, day(2025, 6, 1), &f.rentID)

		d, err := f.svc.Dashboard(ctx, f.userID)
		require.NoError(t, err)

		assert.Equal(t, analytics.HealthNoIncome, d.FinancialHealth)
		assert.True(t, d.SavingsRate.IsZero())
	})
}

func TestService_MonthlyTrends(t *testing.T) {
	ctx := context.Background()

	t.Run("ZeroFillsEmptyMonths", func(t *testing.T) {
		f := newFixture()

		f.add("Paycheck", "3000", ledger.TypeIncome, day(2025, 6, 2), &f.salaryID)
		f.add("Rent", "600", ledger.TypeExpense, day(2025, 6, 10), &f.rentID)

		tr, err := f.svc.MonthlyTrends(ctx, f.userID, 3)
		require.NoError(t, err)

		require.Len(t, tr.Monthly, 3)
		assert.Equal(t, "2025-04", tr.Monthly[0].Month)
		assert.Equal(t, "2025-05", tr.Monthly[1].Month)
		assert.Equal(t, "2025-06", tr.Monthly[2].Month)

		assert.True(t, tr.Monthly[0].Income.IsZero())
		assert.Zero(t, tr.Monthly[0].TransactionCount)

		assert.Equal(t, "3000", tr.Monthly[2].Income.String())
		assert.Equal(t, "2400", tr.Monthly[2].Net.String())
		assert.Equal(t, "80", tr.Monthly[2].SavingsRate.String())

		// Averages divide by the window length, not by months with data.
		assert.Equal(t, "1000", tr.AvgIncome.String())
		assert.Equal(t, "200", tr.AvgExpense.String())
		assert.Equal(t, "26.67", tr.AvgSavingsRate.String())
		assert.Equal(t, "2400", tr.TotalNet.String())
	})

	t.Run("NonPositiveMonths", func(t *testing.T) {
		f := newFixture()

		for _, months := range []int{0, -2} {
			_, err := f.svc.MonthlyTrends(ctx, f.userID, months)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		}
	})
}

func TestService_CategoryAnalysis(t *testing.T) {
	ctx := context.Background()

	t.Run("SharesOfEachSide", func(t *testing.T) {
		f := newFixture()

		f.add("Paycheck", "2000", ledger.TypeIncome, day(2025, 6, 2), &f.salaryID)
		f.add("Groceries", "900", ledger.TypeExpense, day(2025, 6, 5), &f.groceryID)
		f.add("Rent", "600", ledger.TypeExpense, day(2025, 6, 10), &f.rentID)
		// Uncategorized spend counts in the total but has no share row.
		f.add("Mystery", "100", ledger.TypeExpense, day(2025, 6, 11), nil)

		a, err := f.svc.CategoryAnalysis(ctx, f.userID, "MONTH")
		require.NoError(t, err)

		assert.Equal(t, day(2025, 6, 1), a.StartDate)
		assert.Equal(t, day(2025, 6, 30), a.EndDate)
		assert.Equal(t, "1600", a.TotalExpense.String())

		require.Len(t, a.ExpenseByCategory, 2)
		assert.Equal(t, "Groceries", a.ExpenseByCategory[0].Name)
		assert.InDelta(t, 56.25, a.ExpenseByCategory[0].Percentage, 0.001)
		assert.Equal(t, "Rent", a.ExpenseByCategory[1].Name)
		assert.InDelta(t, 37.5, a.ExpenseByCategory[1].Percentage, 0.001)

		assert.Equal(t, "Groceries", a.TopExpenseCategory)
		assert.Equal(t, "Salary", a.TopIncomeCategory)
	})

	t.Run("WeekWindowIsTrailingSevenDays", func(t *testing.T) {
		f := newFixture()

		f.add("Old rent", "600", ledger.TypeExpense, day(2025, 6, 1), &f.rentID)
		f.add("Groceries", "50", ledger.TypeExpense, day(2025, 6, 12), &f.groceryID)

		a, err := f.svc.CategoryAnalysis(ctx, f.userID, "WEEK")
		require.NoError(t, err)

		assert.Equal(t, day(2025, 6, 8), a.StartDate)
		assert.Equal(t, testToday, a.EndDate)
		assert.Equal(t, "50", a.TotalExpense.String())
		require.Len(t, a.ExpenseByCategory, 1)
		assert.Equal(t, "Groceries", a.ExpenseByCategory[0].Name)
	})

	t.Run("UnknownPeriodFallsBackToTrailingMonth", func(t *testing.T) {
		f := newFixture()

		a, err := f.svc.CategoryAnalysis(ctx, f.userID, "FORTNIGHT")
		require.NoError(t, err)

		assert.Equal(t, day(2025, 5, 15), a.StartDate)
		assert.Equal(t, testToday, a.EndDate)
	})

	t.Run("EmptyWindowReportsNA", func(t *testing.T) {
		f := newFixture()

		a, err := f.svc.CategoryAnalysis(ctx, f.userID, "YEAR")
		require.NoError(t, err)

		assert.Equal(t, "N/A", a.TopIncomeCategory)
		assert.Equal(t, "N/A", a.TopExpenseCategory)
		assert.Empty(t, a.IncomeByCategory)
	})
}

func TestService_AccountAnalysis(t *testing.T) {
	ctx := context.Background()

	f := newFixture()

	lowID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	highID := uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")

	f.accounts.accounts = []*account.Account{
		{ID: highID, UserID: f.userID, Name: "Vacation", Type: account.TypeSavings, Balance: decimal.RequireFromString("200.005")},
		{ID: lowID, UserID: f.userID, Name: "Everyday", Type: account.TypeChecking, Balance: decimal.NewFromInt(100)},
		{ID: uuid.New(), UserID: uuid.New(), Name: "Not mine", Type: account.TypeCash, Balance: decimal.NewFromInt(9999)},
	}

	a, err := f.svc.AccountAnalysis(ctx, f.userID)
	require.NoError(t, err)

	assert.Equal(t, 2, a.TotalAccounts)
	assert.Equal(t, "300.01", a.TotalBalance.String())

	require.Len(t, a.BalanceByType, 2)
	assert.True(t, a.BalanceByType[account.TypeChecking].Equal(decimal.NewFromInt(100)))

	require.NotNil(t, a.PrimaryAccount)
	assert.Equal(t, "Everyday", a.PrimaryAccount.Name)
}

func TestService_FinancialHealth(t *testing.T) {
	ctx := context.Background()

	t.Run("ScoreComposition", func(t *testing.T) {
		f := newFixture()

		// Income lands in all three trailing months; expenses only in May, so
		// the expense average divides by one month.
		f.add("Paycheck", "3000", ledger.TypeIncome, day(2025, 4, 1), &f.salaryID)
		f.add("Paycheck", "3000", ledger.TypeIncome, day(2025, 5, 1), &f.salaryID)
		f.add("Paycheck", "3000", ledger.TypeIncome, day(2025, 6, 1), &f.salaryID)
		f.add("Rent", "2000", ledger.TypeExpense, day(2025, 5, 3), &f.rentID)

		f.accounts.accounts = append(f.accounts.accounts, &account.Account{
			ID: uuid.New(), UserID: f.userID, Name: "Cushion",
			Type: account.TypeSavings, Balance: decimal.NewFromInt(6000),
		})

		f.budgets.overview = &budget.Overview{TotalBudgets: 4, OverBudgetCount: 1}
		f.goals.overview = &goal.Overview{OverallProgress: 60}

		h, err := f.svc.FinancialHealth(ctx, f.userID)
		require.NoError(t, err)

		assert.Equal(t, "3000", h.MonthlyMetrics.Income.String())
		assert.Equal(t, "2000", h.MonthlyMetrics.Expense.String())
		assert.Equal(t, "1000", h.MonthlyMetrics.Savings.String())

		assert.Equal(t, "33.33", h.SavingsRate.String())
		assert.InDelta(t, 75, h.BudgetAdherence, 0.001)

		assert.Equal(t, "6000", h.EmergencyFund.Recommended.String())
		assert.True(t, h.EmergencyFund.HasEnough)
		assert.Equal(t, "100", h.EmergencyFund.Percentage.String())

		// 30 savings + round(75*0.25) + round(60*0.20) + 25 fund.
		assert.Equal(t, 86, h.Score)
		assert.Equal(t, analytics.HealthExcellent, h.Status)
		assert.Equal(t, testToday, h.LastUpdated)

		require.Len(t, h.Recommendations, 1)
		assert.Contains(t, h.Recommendations[0], "Review your budgets")
	})

	t.Run("ZeroRecommendedFundIsFullyCovered", func(t *testing.T) {
		f := newFixture()

		f.accounts.accounts = append(f.accounts.accounts, &account.Account{
			ID: uuid.New(), UserID: f.userID, Name: "Cushion",
			Type: account.TypeSavings, Balance: decimal.NewFromInt(100),
		})

		h, err := f.svc.FinancialHealth(ctx, f.userID)
		require.NoError(t, err)

		assert.True(t, h.EmergencyFund.Recommended.IsZero())
		assert.True(t, h.EmergencyFund.HasEnough)
		assert.Equal(t, "100", h.EmergencyFund.Percentage.String())
	})

	t.Run("HealthyAllAroundGetsThePositiveNote", func(t *testing.T) {
		f := newFixture()

		f.add("Paycheck", "3000", ledger.TypeIncome, day(2025, 6, 1), &f.salaryID)
		f.add("Rent", "1000", ledger.TypeExpense, day(2025, 6, 3), &f.rentID)

		f.accounts.accounts = append(f.accounts.accounts, &account.Account{
			ID: uuid.New(), UserID: f.userID, Name: "Cushion",
			Type: account.TypeSavings, Balance: decimal.NewFromInt(10000),
		})

		f.budgets.overview = &budget.Overview{TotalBudgets: 3}
		f.goals.overview = &goal.Overview{OverallProgress: 80}

		h, err := f.svc.FinancialHealth(ctx, f.userID)
		require.NoError(t, err)

		require.Len(t, h.Recommendations, 1)
		assert.Contains(t, h.Recommendations[0], "investing your surplus")
	})
}
