package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"moneyger/internal/account"
	"moneyger/internal/analytics"
	"moneyger/internal/ledger"
)

type categoryAmountResponse struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

func toCategoryAmounts(amounts []analytics.CategoryAmount) []categoryAmountResponse {
	resp := make([]categoryAmountResponse, len(amounts))
	for i, a := range amounts {
		resp[i] = categoryAmountResponse{Name: a.Name, Amount: a.Amount}
	}

	return resp
}

type categoryShareResponse struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage float64         `json:"percentage"`
}

func toCategoryShares(shares []analytics.CategoryShare) []categoryShareResponse {
	resp := make([]categoryShareResponse, len(shares))
	for i, s := range shares {
		resp[i] = categoryShareResponse{Name: s.Name, Amount: s.Amount, Percentage: s.Percentage}
	}

	return resp
}

type transactionViewResponse struct {
	ID       uuid.UUID       `json:"id"`
	Title    string          `json:"title"`
	Amount   decimal.Decimal `json:"amount"`
	Type     ledger.Type     `json:"type"`
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Account  string          `json:"account"`
}

func toTransactionViews(views []analytics.TransactionView) []transactionViewResponse {
	resp := make([]transactionViewResponse, len(views))
	for i, v := range views {
		resp[i] = transactionViewResponse{
			ID:       v.ID,
			Title:    v.Title,
			Amount:   v.Amount,
			Type:     v.Type,
			Date:     v.Date.Format(time.DateOnly),
			Category: v.Category,
			Account:  v.Account,
		}
	}

	return resp
}

type budgetSummaryResponse struct {
	TotalBudgets    int             `json:"total_budgets"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	TotalSpent      decimal.Decimal `json:"total_spent"`
	PercentUsed     float64         `json:"percent_used"`
	OverBudgetCount int             `json:"over_budget_count"`
}

type goalsSummaryResponse struct {
	TotalGoals      int             `json:"total_goals"`
	TotalTarget     decimal.Decimal `json:"total_target"`
	TotalSaved      decimal.Decimal `json:"total_saved"`
	OverallProgress float64         `json:"overall_progress"`
	InProgressCount int             `json:"in_progress_count"`
	CompletedCount  int             `json:"completed_count"`
}

type dashboardResponse struct {
	CurrentMonth         string                    `json:"current_month"`
	MonthlyIncome        decimal.Decimal           `json:"monthly_income"`
	MonthlyExpense       decimal.Decimal           `json:"monthly_expense"`
	MonthlyNet           decimal.Decimal           `json:"monthly_net"`
	IncomeChange         decimal.Decimal           `json:"income_change"`
	ExpenseChange        decimal.Decimal           `json:"expense_change"`
	NetChange            decimal.Decimal           `json:"net_change"`
	TotalBalance         decimal.Decimal           `json:"total_balance"`
	AccountCount         int                       `json:"account_count"`
	TransactionCount     int                       `json:"transaction_count"`
	SavingsRate          decimal.Decimal           `json:"savings_rate"`
	BudgetOverview       budgetSummaryResponse     `json:"budget_overview"`
	GoalsOverview        goalsSummaryResponse      `json:"goals_overview"`
	RecentTransactions   []transactionViewResponse `json:"recent_transactions"`
	TopExpenseCategories []categoryAmountResponse  `json:"top_expense_categories"`
	FinancialHealth      string                    `json:"financial_health"`
}

func toDashboardResponse(d *analytics.Dashboard) dashboardResponse {
	return dashboardResponse{
		CurrentMonth:         d.CurrentMonth,
		MonthlyIncome:        d.MonthlyIncome,
		MonthlyExpense:       d.MonthlyExpense,
		MonthlyNet:           d.MonthlyNet,
		IncomeChange:         d.IncomeChange,
		ExpenseChange:        d.ExpenseChange,
		NetChange:            d.NetChange,
		TotalBalance:         d.TotalBalance,
		AccountCount:         d.AccountCount,
		TransactionCount:     d.TransactionCount,
		SavingsRate:          d.SavingsRate,
		BudgetOverview: budgetSummaryResponse{
			TotalBudgets:    d.BudgetOverview.TotalBudgets,
			TotalAmount:     d.BudgetOverview.TotalAmount,
			TotalSpent:      d.BudgetOverview.TotalSpent,
			PercentUsed:     d.BudgetOverview.OverallPercentUsed,
			OverBudgetCount: d.BudgetOverview.OverBudgetCount,
		},
		GoalsOverview: goalsSummaryResponse{
			TotalGoals:      d.GoalsOverview.TotalGoals,
			TotalTarget:     d.GoalsOverview.TotalTarget,
			TotalSaved:      d.GoalsOverview.TotalSaved,
			OverallProgress: d.GoalsOverview.OverallProgress,
			InProgressCount: d.GoalsOverview.InProgressCount,
			CompletedCount:  d.GoalsOverview.CompletedCount,
		},
		RecentTransactions:   toTransactionViews(d.RecentTransactions),
		TopExpenseCategories: toCategoryAmounts(d.TopExpenseCategories),
		FinancialHealth:      d.FinancialHealth,
	}
}

type monthDataResponse struct {
	Month            string          `json:"month"`
	Income           decimal.Decimal `json:"income"`
	Expense          decimal.Decimal `json:"expense"`
	Net              decimal.Decimal `json:"net"`
	TransactionCount int             `json:"transaction_count"`
	SavingsRate      decimal.Decimal `json:"savings_rate"`
}

type trendsResponse struct {
	PeriodMonths   int                 `json:"period_months"`
	StartDate      string              `json:"start_date"`
	EndDate        string              `json:"end_date"`
	Monthly        []monthDataResponse `json:"monthly"`
	AvgIncome      decimal.Decimal     `json:"avg_income"`
	AvgExpense     decimal.Decimal     `json:"avg_expense"`
	AvgSavingsRate decimal.Decimal     `json:"avg_savings_rate"`
	TotalIncome    decimal.Decimal     `json:"total_income"`
	TotalExpense   decimal.Decimal     `json:"total_expense"`
	TotalNet       decimal.Decimal     `json:"total_net"`
}

func toTrendsResponse(t *analytics.Trends) trendsResponse {
	monthly := make([]monthDataResponse, len(t.Monthly))
	for i, m := range t.Monthly {
		monthly[i] = monthDataResponse{
			Month:            m.Month,
			Income:           m.Income,
			Expense:          m.Expense,
			Net:              m.Net,
			TransactionCount: m.TransactionCount,
			SavingsRate:      m.SavingsRate,
		}
	}

	return trendsResponse{
		PeriodMonths:   t.PeriodMonths,
		StartDate:      t.StartDate.Format(time.DateOnly),
		EndDate:        t.EndDate.Format(time.DateOnly),
		Monthly:        monthly,
		AvgIncome:      t.AvgIncome,
		AvgExpense:     t.AvgExpense,
		AvgSavingsRate: t.AvgSavingsRate,
		TotalIncome:    t.TotalIncome,
		TotalExpense:   t.TotalExpense,
		TotalNet:       t.TotalNet,
	}
}

type categoryAnalysisResponse struct {
	Period             string                  `json:"period"`
	StartDate          string                  `json:"start_date"`
	EndDate            string                  `json:"end_date"`
	TotalIncome        decimal.Decimal         `json:"total_income"`
	TotalExpense       decimal.Decimal         `json:"total_expense"`
	IncomeByCategory   []categoryShareResponse `json:"income_by_category"`
	ExpenseByCategory  []categoryShareResponse `json:"expense_by_category"`
	TopIncomeCategory  string                  `json:"top_income_category"`
	TopExpenseCategory string                  `json:"top_expense_category"`
}

func toCategoryAnalysisResponse(a *analytics.CategoryAnalysis) categoryAnalysisResponse {
	return categoryAnalysisResponse{
		Period:             a.Period,
		StartDate:          a.StartDate.Format(time.DateOnly),
		EndDate:            a.EndDate.Format(time.DateOnly),
		TotalIncome:        a.TotalIncome,
		TotalExpense:       a.TotalExpense,
		IncomeByCategory:   toCategoryShares(a.IncomeByCategory),
		ExpenseByCategory:  toCategoryShares(a.ExpenseByCategory),
		TopIncomeCategory:  a.TopIncomeCategory,
		TopExpenseCategory: a.TopExpenseCategory,
	}
}

type accountBalanceResponse struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Type     account.Type    `json:"type"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

func toAccountBalance(b analytics.AccountBalance) accountBalanceResponse {
	return accountBalanceResponse{
		ID:       b.ID,
		Name:     b.Name,
		Type:     b.Type,
		Balance:  b.Balance,
		Currency: b.Currency,
	}
}

type accountAnalysisResponse struct {
	TotalAccounts  int                              `json:"total_accounts"`
	TotalBalance   decimal.Decimal                  `json:"total_balance"`
	Balances       []accountBalanceResponse         `json:"balances"`
	BalanceByType  map[account.Type]decimal.Decimal `json:"balance_by_type"`
	PrimaryAccount *accountBalanceResponse          `json:"primary_account,omitempty"`
}

func toAccountAnalysisResponse(a *analytics.AccountAnalysis) accountAnalysisResponse {
	balances := make([]accountBalanceResponse, len(a.Balances))
	for i, b := range a.Balances {
		balances[i] = toAccountBalance(b)
	}

	resp := accountAnalysisResponse{
		TotalAccounts: a.TotalAccounts,
		TotalBalance:  a.TotalBalance,
		Balances:      balances,
		BalanceByType: a.BalanceByType,
	}

	if a.PrimaryAccount != nil {
		primary := toAccountBalance(*a.PrimaryAccount)
		resp.PrimaryAccount = &primary
	}

	return resp
}

type emergencyFundResponse struct {
	Current     decimal.Decimal `json:"current"`
	Recommended decimal.Decimal `json:"recommended"`
	HasEnough   bool            `json:"has_enough"`
	Percentage  decimal.Decimal `json:"percentage"`
}

type monthlyMetricsResponse struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Savings decimal.Decimal `json:"savings"`
}

type healthResponse struct {
	Score           int                    `json:"score"`
	Status          string                 `json:"status"`
	SavingsRate     decimal.Decimal        `json:"savings_rate"`
	BudgetAdherence float64                `json:"budget_adherence"`
	GoalsProgress   float64                `json:"goals_progress"`
	EmergencyFund   emergencyFundResponse  `json:"emergency_fund"`
	MonthlyMetrics  monthlyMetricsResponse `json:"monthly_metrics"`
	Recommendations []string               `json:"recommendations"`
	LastUpdated     string                 `json:"last_updated"`
}

func toHealthResponse(h *analytics.Health) healthResponse {
	return healthResponse{
		Score:           h.Score,
		Status:          h.Status,
		SavingsRate:     h.SavingsRate,
		BudgetAdherence: h.BudgetAdherence,
		GoalsProgress:   h.GoalsProgress,
		EmergencyFund: emergencyFundResponse{
			Current:     h.EmergencyFund.Current,
			Recommended: h.EmergencyFund.Recommended,
			HasEnough:   h.EmergencyFund.HasEnough,
			Percentage:  h.EmergencyFund.Percentage,
		},
		MonthlyMetrics: monthlyMetricsResponse{
			Income:  h.MonthlyMetrics.Income,
			Expense: h.MonthlyMetrics.Expense,
			Savings: h.MonthlyMetrics.Savings,
		},
		Recommendations: h.Recommendations,
		LastUpdated:     h.LastUpdated.Format(time.DateOnly),
	}
}
