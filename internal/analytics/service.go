// Package analytics composes ledger, budget, and goal outputs into
// time-windowed views. It owns no state of its own; everything is recomputed
// from the transaction log on every call.
package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"moneyger/internal/account"
	"moneyger/internal/apperror"
	"moneyger/internal/budget"
	"moneyger/internal/category"
	"moneyger/internal/dateutil"
	"moneyger/internal/goal"
	"moneyger/internal/ledger"
	"moneyger/internal/money"
)

// Period selects the analysis window for category breakdowns.
type Period string

const (
	PeriodWeek    Period = "WEEK"
	PeriodMonth   Period = "MONTH"
	PeriodQuarter Period = "QUARTER"
	PeriodYear    Period = "YEAR"
)

// Health labels shared by the dashboard and the health score.
const (
	HealthExcellent        = "EXCELLENT"
	HealthGood             = "GOOD"
	HealthFair             = "FAIR"
	HealthNeedsImprovement = "NEEDS_IMPROVEMENT"
	HealthNoIncome         = "NO_INCOME"
)

type TransactionSource interface {
	Filter(ctx context.Context, userID uuid.UUID, f ledger.Filter) ([]*ledger.Transaction, error)
}

type AccountSource interface {
	List(ctx context.Context, userID uuid.UUID) ([]*account.Account, error)
}

type CategorySource interface {
	List(ctx context.Context, userID uuid.UUID) ([]*category.Category, error)
}

type BudgetSource interface {
	Overview(ctx context.Context, userID uuid.UUID) (*budget.Overview, error)
}

type GoalSource interface {
	Overview(ctx context.Context, userID uuid.UUID) (*goal.Overview, error)
}

type Service struct {
	transactions TransactionSource
	accounts     AccountSource
	categories   CategorySource
	budgets      BudgetSource
	goals        GoalSource
	now          func() time.Time
}

type Option func(*Service)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(
	transactions TransactionSource,
	accounts AccountSource,
	categories CategorySource,
	budgets BudgetSource,
	goals GoalSource,
	opts ...Option,
) *Service {
	s := &Service{
		transactions: transactions,
		accounts:     accounts,
		categories:   categories,
		budgets:      budgets,
		goals:        goals,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CategoryAmount is one category's aggregate within a view.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// CategoryShare adds the category's portion of its side's total.
type CategoryShare struct {
	Name       string
	Amount     decimal.Decimal
	Percentage float64
}

// TransactionView is the read-only projection used in dashboard listings.
type TransactionView struct {
	ID       uuid.UUID
	Title    string
	Amount   decimal.Decimal
	Type     ledger.Type
	Date     time.Time
	Category string
	Account  string
}

// Dashboard is the current-vs-prior-month snapshot.
type Dashboard struct {
	CurrentMonth         string
	MonthlyIncome        decimal.Decimal
	MonthlyExpense       decimal.Decimal
	MonthlyNet           decimal.Decimal
	IncomeChange         decimal.Decimal
	ExpenseChange        decimal.Decimal
	NetChange            decimal.Decimal
	TotalBalance         decimal.Decimal
	AccountCount         int
	TransactionCount     int
	SavingsRate          decimal.Decimal
	BudgetOverview       *budget.Overview
	GoalsOverview        *goal.Overview
	RecentTransactions   []TransactionView
	TopExpenseCategories []CategoryAmount
	FinancialHealth      string
}

func (s *Service) Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	today := dateutil.Day(s.now())

	monthly, err := s.window(ctx, userID, dateutil.MonthStart(today), dateutil.MonthEnd(today))
	if err != nil {
		return nil, err
	}

	prior := today.AddDate(0, -1, 0)

	lastMonth, err := s.window(ctx, userID, dateutil.MonthStart(prior), dateutil.MonthEnd(prior))
	if err != nil {
		return nil, err
	}

	income, expense := totalsByType(monthly)
	net := income.Sub(expense)

	lastIncome, lastExpense := totalsByType(lastMonth)
	lastNet := lastIncome.Sub(lastExpense)

	accounts, err := s.accounts.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	totalBalance := decimal.Zero
	for _, a := range accounts {
		totalBalance = totalBalance.Add(a.Balance)
	}

	budgetOverview, err := s.budgets.Overview(ctx, userID)
	if err != nil {
		return nil, err
	}

	goalsOverview, err := s.goals.Overview(ctx, userID)
	if err != nil {
		return nil, err
	}

	names, err := s.categoryNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		CurrentMonth:         today.Format("2006-01"),
		MonthlyIncome:        money.Round2(income),
		MonthlyExpense:       money.Round2(expense),
		MonthlyNet:           money.Round2(net),
		IncomeChange:         money.PercentChange(lastIncome, income),
		ExpenseChange:        money.PercentChange(lastExpense, expense),
		NetChange:            money.PercentChange(lastNet, net),
		TotalBalance:         money.Round2(totalBalance),
		AccountCount:         len(accounts),
		TransactionCount:     len(monthly),
		SavingsRate:          savingsRate(net, income),
		BudgetOverview:       budgetOverview,
		GoalsOverview:        goalsOverview,
		RecentTransactions:   s.recentViews(monthly, accounts, names, 5),
		TopExpenseCategories: topByCategory(monthly, ledger.TypeExpense, names, 5),
		FinancialHealth:      assessHealth(net, income),
	}, nil
}

// MonthData is one month's slice of a trend.
type MonthData struct {
	Month            string
	Income           decimal.Decimal
	Expense          decimal.Decimal
	Net              decimal.Decimal
	TransactionCount int
	SavingsRate      decimal.Decimal
}

// Trends covers a run of calendar months ending with the current one.
// Months with no transactions appear zero-filled.
type Trends struct {
	PeriodMonths   int
	StartDate      time.Time
	EndDate        time.Time
	Monthly        []MonthData
	AvgIncome      decimal.Decimal
	AvgExpense     decimal.Decimal
	AvgSavingsRate decimal.Decimal
	TotalIncome    decimal.Decimal
	TotalExpense   decimal.Decimal
	TotalNet       decimal.Decimal
}

func (s *Service) MonthlyTrends(ctx context.Context, userID uuid.UUID, months int) (*Trends, error) {
	if months <= 0 {
		return nil, apperror.Validation("months must be positive")
	}

	today := dateutil.Day(s.now())
	end := dateutil.MonthEnd(today)
	start := dateutil.MonthStart(end.AddDate(0, -(months - 1), 0))

	txs, err := s.window(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[dateutil.YearMonth][]*ledger.Transaction)
	for _, t := range txs {
		ym := dateutil.YM(t.Date)
		byMonth[ym] = append(byMonth[ym], t)
	}

	tr := &Trends{
		PeriodMonths: months,
		StartDate:    start,
		EndDate:      end,
		Monthly:      make([]MonthData, 0, months),
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	sumRates := decimal.Zero

	for cursor := start; !cursor.After(end); cursor = cursor.AddDate(0, 1, 0) {
		monthTxs := byMonth[dateutil.YM(cursor)]

		income, expense := totalsByType(monthTxs)
		net := income.Sub(expense)
		rate := savingsRate(net, income)

		tr.Monthly = append(tr.Monthly, MonthData{
			Month:            dateutil.YM(cursor).String(),
			Income:           money.Round2(income),
			Expense:          money.Round2(expense),
			Net:              money.Round2(net),
			TransactionCount: len(monthTxs),
			SavingsRate:      rate,
		})

		tr.TotalIncome = tr.TotalIncome.Add(income)
		tr.TotalExpense = tr.TotalExpense.Add(expense)
		sumRates = sumRates.Add(rate)
	}

	n := decimal.NewFromInt(int64(len(tr.Monthly)))
	tr.AvgIncome = money.Div2(tr.TotalIncome, n)
	tr.AvgExpense = money.Div2(tr.TotalExpense, n)
	tr.AvgSavingsRate = money.Div2(sumRates, n)
	tr.TotalNet = money.Round2(tr.TotalIncome.Sub(tr.TotalExpense))
	tr.TotalIncome = money.Round2(tr.TotalIncome)
	tr.TotalExpense = money.Round2(tr.TotalExpense)

	return tr, nil
}

// CategoryAnalysis breaks a window down per category, each side sorted by
// amount descending with its share of that side's total.
type CategoryAnalysis struct {
	Period             string
	StartDate          time.Time
	EndDate            time.Time
	TotalIncome        decimal.Decimal
	TotalExpense       decimal.Decimal
	IncomeByCategory   []CategoryShare
	ExpenseByCategory  []CategoryShare
	TopIncomeCategory  string
	TopExpenseCategory string
}

func (s *Service) CategoryAnalysis(ctx context.Context, userID uuid.UUID, period string) (*CategoryAnalysis, error) {
	today := dateutil.Day(s.now())

	var start, end time.Time

	switch Period(period) {
	case PeriodWeek:
		start, end = today.AddDate(0, 0, -7), today
	case PeriodMonth:
		start, end = dateutil.MonthStart(today), dateutil.MonthEnd(today)
	case PeriodQuarter:
		start, end = today.AddDate(0, -3, 0), today
	case PeriodYear:
		start, end = dateutil.YearStart(today), dateutil.YearEnd(today)
	default:
		// Unrecognized periods fall back to the trailing month.
		start, end = today.AddDate(0, -1, 0), today
	}

	txs, err := s.window(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	names, err := s.categoryNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalIncome, totalExpense := totalsByType(txs)

	incomeShares := sharesByCategory(txs, ledger.TypeIncome, names, totalIncome)
	expenseShares := sharesByCategory(txs, ledger.TypeExpense, names, totalExpense)

	a := &CategoryAnalysis{
		Period:             period,
		StartDate:          start,
		EndDate:            end,
		TotalIncome:        money.Round2(totalIncome),
		TotalExpense:       money.Round2(totalExpense),
		IncomeByCategory:   incomeShares,
		ExpenseByCategory:  expenseShares,
		TopIncomeCategory:  "N/A",
		TopExpenseCategory: "N/A",
	}

	if len(incomeShares) > 0 {
		a.TopIncomeCategory = incomeShares[0].Name
	}

	if len(expenseShares) > 0 {
		a.TopExpenseCategory = expenseShares[0].Name
	}

	return a, nil
}

// AccountBalance is one account's slice of the account analysis.
type AccountBalance struct {
	ID       uuid.UUID
	Name     string
	Type     account.Type
	Balance  decimal.Decimal
	Currency string
}

type AccountAnalysis struct {
	TotalAccounts  int
	TotalBalance   decimal.Decimal
	Balances       []AccountBalance
	BalanceByType  map[account.Type]decimal.Decimal
	PrimaryAccount *AccountBalance
}

func (s *Service) AccountAnalysis(ctx context.Context, userID uuid.UUID) (*AccountAnalysis, error) {
	accounts, err := s.accounts.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	a := &AccountAnalysis{
		TotalAccounts: len(accounts),
		TotalBalance:  decimal.Zero,
		Balances:      make([]AccountBalance, 0, len(accounts)),
		BalanceByType: make(map[account.Type]decimal.Decimal),
	}

	for _, acc := range accounts {
		a.Balances = append(a.Balances, AccountBalance{
			ID:       acc.ID,
			Name:     acc.Name,
			Type:     acc.Type,
			Balance:  money.Round2(acc.Balance),
			Currency: acc.Currency,
		})

		a.BalanceByType[acc.Type] = a.BalanceByType[acc.Type].Add(acc.Balance)
		a.TotalBalance = a.TotalBalance.Add(acc.Balance)
	}

	a.TotalBalance = money.Round2(a.TotalBalance)

	if primary := primaryAccount(a.Balances); primary != nil {
		a.PrimaryAccount = primary
	}

	return a, nil
}

// primaryAccount picks the account with the lowest id. A deliberate
// placeholder policy: swap this function when a real ranking rule lands.
func primaryAccount(balances []AccountBalance) *AccountBalance {
	if len(balances) == 0 {
		return nil
	}

	primary := &balances[0]
	for i := range balances[1:] {
		if balances[i+1].ID.String() < primary.ID.String() {
			primary = &balances[i+1]
		}
	}

	return primary
}

// EmergencyFund compares current savings against the recommended cushion of
// three months of average expenses.
type EmergencyFund struct {
	Current     decimal.Decimal
	Recommended decimal.Decimal
	HasEnough   bool
	Percentage  decimal.Decimal
}

type MonthlyMetrics struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Savings decimal.Decimal
}

// Health is the composite 0-100 score over the trailing three months.
type Health struct {
	Score           int
	Status          string
	SavingsRate     decimal.Decimal
	BudgetAdherence float64
	GoalsProgress   float64
	EmergencyFund   EmergencyFund
	MonthlyMetrics  MonthlyMetrics
	Recommendations []string
	LastUpdated     time.Time
}

func (s *Service) FinancialHealth(ctx context.Context, userID uuid.UUID) (*Health, error) {
	today := dateutil.Day(s.now())
	threeMonthsAgo := today.AddDate(0, -3, 0)

	txs, err := s.window(ctx, userID, threeMonthsAgo, today)
	if err != nil {
		return nil, err
	}

	avgIncome := averageMonthly(txs, ledger.TypeIncome)
	avgExpense := averageMonthly(txs, ledger.TypeExpense)
	avgSavings := avgIncome.Sub(avgExpense)

	recommended := avgExpense.Mul(decimal.NewFromInt(3))

	accounts, err := s.accounts.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	savings := decimal.Zero

	for _, a := range accounts {
		if a.Type == account.TypeSavings {
			savings = savings.Add(a.Balance)
		}
	}

	rate := savingsRate(avgSavings, avgIncome)
	rateF, _ := rate.Float64()

	budgetOverview, err := s.budgets.Overview(ctx, userID)
	if err != nil {
		return nil, err
	}

	adherence := budgetAdherence(budgetOverview.OverBudgetCount, budgetOverview.TotalBudgets)

	goalsOverview, err := s.goals.Overview(ctx, userID)
	if err != nil {
		return nil, err
	}

	goalsProgress := goalsOverview.OverallProgress
	hasFund := savings.GreaterThanOrEqual(recommended)

	return &Health{
		Score:           healthScore(rateF, adherence, goalsProgress, hasFund),
		Status:          healthStatus(healthScore(rateF, adherence, goalsProgress, hasFund)),
		SavingsRate:     rate,
		BudgetAdherence: adherence,
		GoalsProgress:   goalsProgress,
		EmergencyFund: EmergencyFund{
			Current:     money.Round2(savings),
			Recommended: money.Round2(recommended),
			HasEnough:   hasFund,
			Percentage:  emergencyFundPercentage(savings, recommended),
		},
		MonthlyMetrics: MonthlyMetrics{
			Income:  money.Round2(avgIncome),
			Expense: money.Round2(avgExpense),
			Savings: money.Round2(avgSavings),
		},
		Recommendations: recommendations(rateF, adherence, !hasFund),
		LastUpdated:     today,
	}, nil
}

// --- helpers ---

func (s *Service) window(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*ledger.Transaction, error) {
	return s.transactions.Filter(ctx, userID, ledger.Filter{StartDate: &start, EndDate: &end})
}

func (s *Service) categoryNames(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]string, error) {
	categories, err := s.categories.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	names := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	return names, nil
}

func (s *Service) recentViews(txs []*ledger.Transaction, accounts []*account.Account, names map[uuid.UUID]string, limit int) []TransactionView {
	accountNames := make(map[uuid.UUID]string, len(accounts))
	for _, a := range accounts {
		accountNames[a.ID] = a.Name
	}

	sorted := make([]*ledger.Transaction, len(txs))
	copy(sorted, txs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	views := make([]TransactionView, 0, len(sorted))

	for _, t := range sorted {
		v := TransactionView{
			ID:       t.ID,
			Title:    t.Title,
			Amount:   money.Round2(t.Amount),
			Type:     t.Type,
			Date:     t.Date,
			Category: "Uncategorized",
			Account:  "No Account",
		}

		if t.CategoryID != nil {
			if name, ok := names[*t.CategoryID]; ok {
				v.Category = name
			}
		}

		if t.AccountID != nil {
			if name, ok := accountNames[*t.AccountID]; ok {
				v.Account = name
			}
		}

		views = append(views, v)
	}

	return views
}

func totalsByType(txs []*ledger.Transaction) (income, expense decimal.Decimal) {
	income, expense = decimal.Zero, decimal.Zero

	for _, t := range txs {
		switch t.Type {
		case ledger.TypeIncome:
			income = income.Add(t.Amount)
		case ledger.TypeExpense:
			expense = expense.Add(t.Amount)
		}
	}

	return income, expense
}

// savingsRate is net/income as a 2-place percentage; zero income yields 0.
func savingsRate(net, income decimal.Decimal) decimal.Decimal {
	if income.IsZero() {
		return decimal.Zero
	}

	return net.DivRound(income, 4).Mul(decimal.NewFromInt(100)).Round(2)
}

// averageMonthly averages one type over the months that actually have
// transactions of that type.
func averageMonthly(txs []*ledger.Transaction, typ ledger.Type) decimal.Decimal {
	byMonth := make(map[dateutil.YearMonth]decimal.Decimal)

	for _, t := range txs {
		if t.Type != typ {
			continue
		}

		ym := dateutil.YM(t.Date)
		byMonth[ym] = byMonth[ym].Add(t.Amount)
	}

	if len(byMonth) == 0 {
		return decimal.Zero
	}

	total := decimal.Zero
	for _, v := range byMonth {
		total = total.Add(v)
	}

	return total.DivRound(decimal.NewFromInt(int64(len(byMonth))), 2)
}

func groupByCategory(txs []*ledger.Transaction, typ ledger.Type, names map[uuid.UUID]string) []CategoryAmount {
	totals := make(map[string]decimal.Decimal)

	for _, t := range txs {
		if t.Type != typ || t.CategoryID == nil {
			continue
		}

		name, ok := names[*t.CategoryID]
		if !ok {
			continue
		}

		totals[name] = totals[name].Add(t.Amount)
	}

	out := make([]CategoryAmount, 0, len(totals))
	for name, amount := range totals {
		out = append(out, CategoryAmount{Name: name, Amount: money.Round2(amount)})
	}

	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}

		return out[i].Name < out[j].Name
	})

	return out
}

func topByCategory(txs []*ledger.Transaction, typ ledger.Type, names map[uuid.UUID]string, limit int) []CategoryAmount {
	out := groupByCategory(txs, typ, names)
	if len(out) > limit {
		out = out[:limit]
	}

	return out
}

func sharesByCategory(txs []*ledger.Transaction, typ ledger.Type, names map[uuid.UUID]string, total decimal.Decimal) []CategoryShare {
	grouped := groupByCategory(txs, typ, names)

	shares := make([]CategoryShare, 0, len(grouped))
	for _, g := range grouped {
		shares = append(shares, CategoryShare{
			Name:       g.Name,
			Amount:     g.Amount,
			Percentage: money.Percent(g.Amount, total),
		})
	}

	return shares
}

// assessHealth is the coarse dashboard label based on the month's savings
// ratio.
func assessHealth(net, income decimal.Decimal) string {
	if income.IsZero() {
		return HealthNoIncome
	}

	ratio, _ := net.DivRound(income, 4).Float64()

	switch {
	case ratio >= 0.2:
		return HealthExcellent
	case ratio >= 0.1:
		return HealthGood
	case ratio >= 0:
		return HealthFair
	default:
		return HealthNeedsImprovement
	}
}

// budgetAdherence is 100 minus the share of active budgets that are over,
// and 100 when there are no budgets to break.
func budgetAdherence(overCount, total int) float64 {
	if total == 0 {
		return 100
	}

	return 100 - float64(overCount)/float64(total)*100
}

func healthScore(savingsRate, adherence, goalsProgress float64, hasEmergencyFund bool) int {
	score := 0

	switch {
	case savingsRate >= 20:
		score += 30
	case savingsRate >= 10:
		score += 20
	case savingsRate > 0:
		score += 10
	}

	score += int(math.Round(adherence * 0.25))
	score += int(math.Round(goalsProgress * 0.20))

	switch {
	case hasEmergencyFund:
		score += 25
	case goalsProgress > 50:
		score += 15
	default:
		score += 5
	}

	return min(score, 100)
}

func healthStatus(score int) string {
	switch {
	case score >= 80:
		return HealthExcellent
	case score >= 60:
		return HealthGood
	case score >= 40:
		return HealthFair
	default:
		return HealthNeedsImprovement
	}
}

// emergencyFundPercentage keeps the zero-expense corner explicit: with
// nothing recommended, any savings counts as fully covered.
func emergencyFundPercentage(savings, recommended decimal.Decimal) decimal.Decimal {
	if recommended.IsZero() {
		if savings.IsPositive() {
			return decimal.NewFromInt(100)
		}

		return decimal.Zero
	}

	return savings.DivRound(recommended, 4).Mul(decimal.NewFromInt(100)).Round(2)
}

func recommendations(savingsRate, adherence float64, needsEmergencyFund bool) []string {
	var recs []string

	if savingsRate < 10 {
		recs = append(recs, "Try to increase your savings rate to at least 10% of income.")
	}

	if adherence < 80 {
		recs = append(recs, "Review your budgets and identify categories where you're overspending.")
	}

	if needsEmergencyFund {
		recs = append(recs, "Build an emergency fund covering 3-6 months of expenses.")
	}

	if savingsRate > 20 && adherence > 90 {
		recs = append(recs, "Consider investing your surplus savings for long-term growth.")
	}

	if len(recs) == 0 {
		recs = append(recs, "You're doing great! Consider setting more challenging financial goals.")
	}

	return recs
}
