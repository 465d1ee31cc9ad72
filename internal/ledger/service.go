package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"moneyger/internal/account"
	"moneyger/internal/apperror"
	"moneyger/internal/category"
	"moneyger/internal/dateutil"
	"moneyger/internal/money"
)

// ErrNotFound is returned by stores when no transaction matches the id/owner pair.
var ErrNotFound = errors.New("transaction not found")

// futureGraceDays is how far past today a transaction may be dated.
const futureGraceDays = 1

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	Get(ctx context.Context, id, userID uuid.UUID) (*Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Transaction, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*Transaction, error)

	Begin(ctx context.Context) (Tx, error)
}

// Tx groups a transaction write with its account-balance effect so the two
// land or fail together. Reverse-then-apply on update runs entirely inside
// one Tx; no observer sees an intermediate balance.
type Tx interface {
	CreateTransaction(ctx context.Context, t *Transaction) error
	SaveTransaction(ctx context.Context, t *Transaction) error
	DeleteTransaction(ctx context.Context, id, userID uuid.UUID) error
	AddToBalance(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) error
	Commit() error
	Rollback() error
}

// AccountDirectory resolves owner-scoped account references.
type AccountDirectory interface {
	Get(ctx context.Context, id, userID uuid.UUID) (*account.Account, error)
}

// CategoryDirectory resolves owner-scoped category references.
type CategoryDirectory interface {
	Get(ctx context.Context, id, userID uuid.UUID) (*category.Category, error)
	List(ctx context.Context, userID uuid.UUID) ([]*category.Category, error)
}

type Service struct {
	repo       Repository
	accounts   AccountDirectory
	categories CategoryDirectory
	now        func() time.Time
}

type Option func(*Service)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, accounts AccountDirectory, categories CategoryDirectory, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		accounts:   accounts,
		categories: categories,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	Title       string
	Description string
	Amount      decimal.Decimal
	Type        string
	Date        time.Time
	AccountID   *uuid.UUID
	CategoryID  *uuid.UUID
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Transaction, error) {
	typ, err := s.validate(params)
	if err != nil {
		return nil, err
	}

	if params.AccountID != nil {
		if _, err := s.accounts.Get(ctx, *params.AccountID, userID); err != nil {
			return nil, err
		}
	}

	if err := s.checkCategory(ctx, params.CategoryID, userID, typ); err != nil {
		return nil, err
	}

	t := &Transaction{
		Title:       params.Title,
		Description: params.Description,
		Amount:      params.Amount,
		Type:        typ,
		Date:        dateutil.Day(params.Date),
		AccountID:   params.AccountID,
		CategoryID:  params.CategoryID,
		UserID:      userID,
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create: %w", err)
	}
	defer tx.Rollback()

	if err := tx.CreateTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	if t.AccountID != nil {
		if err := tx.AddToBalance(ctx, *t.AccountID, t.delta()); err != nil {
			return nil, fmt.Errorf("applying balance: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create: %w", err)
	}

	return t, nil
}

func (s *Service) Update(ctx context.Context, id, userID uuid.UUID, params CreateParams) (*Transaction, error) {
	t, err := s.get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	typ, err := s.validate(params)
	if err != nil {
		return nil, err
	}

	if params.AccountID != nil {
		if _, err := s.accounts.Get(ctx, *params.AccountID, userID); err != nil {
			return nil, err
		}
	}

	if err := s.checkCategory(ctx, params.CategoryID, userID, typ); err != nil {
		return nil, err
	}

	oldAccountID := t.AccountID
	oldDelta := t.delta()

	t.Title = params.Title
	t.Description = params.Description
	t.Amount = params.Amount
	t.Type = typ
	t.Date = dateutil.Day(params.Date)
	t.AccountID = params.AccountID
	t.CategoryID = params.CategoryID

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	// Reverse the old effect, save, then apply the new effect. If the account
	// reference changed this moves the balance effect between accounts.
	if oldAccountID != nil {
		if err := tx.AddToBalance(ctx, *oldAccountID, oldDelta.Neg()); err != nil {
			return nil, fmt.Errorf("reversing balance: %w", err)
		}
	}

	if err := tx.SaveTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("saving transaction: %w", err)
	}

	if t.AccountID != nil {
		if err := tx.AddToBalance(ctx, *t.AccountID, t.delta()); err != nil {
			return nil, fmt.Errorf("applying balance: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}

	return t, nil
}

func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	t, err := s.get(ctx, id, userID)
	if err != nil {
		return err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if t.AccountID != nil {
		if err := tx.AddToBalance(ctx, *t.AccountID, t.delta().Neg()); err != nil {
			return fmt.Errorf("reversing balance: %w", err)
		}
	}

	if err := tx.DeleteTransaction(ctx, t.ID, userID); err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*Transaction, error) {
	return s.get(ctx, id, userID)
}

// Filter returns the user's transactions matching every set predicate.
func (s *Service) Filter(ctx context.Context, userID uuid.UUID, f Filter) ([]*Transaction, error) {
	if f.AccountID != nil {
		if _, err := s.accounts.Get(ctx, *f.AccountID, userID); err != nil {
			return nil, err
		}
	}

	if f.CategoryID != nil {
		if _, err := s.categories.Get(ctx, *f.CategoryID, userID); err != nil {
			return nil, err
		}
	}

	all, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	var out []*Transaction

	for _, t := range all {
		if f.matches(t) {
			out = append(out, t)
		}
	}

	return out, nil
}

// Recent returns up to limit transactions in descending date order.
func (s *Service) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]*Transaction, error) {
	if limit <= 0 {
		return nil, apperror.Validation("limit must be positive")
	}

	return s.repo.ListRecent(ctx, userID, limit)
}

// Balance is the signed sum of the whole log, regardless of account links.
func (s *Service) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	all, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("listing transactions: %w", err)
	}

	income, expense := totalsByType(all)

	return money.Round2(income.Sub(expense)), nil
}

// BalanceDetails reports log-wide totals and per-type counts.
type BalanceDetails struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Balance      decimal.Decimal
	Count        int
	IncomeCount  int
	ExpenseCount int
}

func (s *Service) BalanceDetails(ctx context.Context, userID uuid.UUID) (*BalanceDetails, error) {
	all, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	income, expense := totalsByType(all)

	d := &BalanceDetails{
		TotalIncome:  money.Round2(income),
		TotalExpense: money.Round2(expense),
		Balance:      money.Round2(income.Sub(expense)),
		Count:        len(all),
	}

	for _, t := range all {
		if t.Type == TypeIncome {
			d.IncomeCount++
		} else {
			d.ExpenseCount++
		}
	}

	return d, nil
}

// ConsistencyResult is the outcome of a balance diagnostic. It surfaces drift
// between the stored balance and the recomputed log total without repairing it.
type ConsistencyResult struct {
	AccountID         uuid.UUID
	AccountName       string
	CurrentBalance    decimal.Decimal
	CalculatedIncome  decimal.Decimal
	CalculatedExpense decimal.Decimal
	CalculatedNet     decimal.Decimal
	TransactionCount  int
	BalanceMatch      string
}

const (
	BalanceMatch    = "MATCH"
	BalanceMismatch = "MISMATCH"
)

func (s *Service) CheckBalance(ctx context.Context, userID, accountID uuid.UUID) (*ConsistencyResult, error) {
	a, err := s.accounts.Get(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}

	all, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	var linked []*Transaction

	for _, t := range all {
		if t.AccountID != nil && *t.AccountID == accountID {
			linked = append(linked, t)
		}
	}

	income, expense := totalsByType(linked)
	net := income.Sub(expense)

	match := BalanceMismatch
	if a.Balance.Cmp(net) == 0 {
		match = BalanceMatch
	}

	return &ConsistencyResult{
		AccountID:         accountID,
		AccountName:       a.Name,
		CurrentBalance:    a.Balance,
		CalculatedIncome:  money.Round2(income),
		CalculatedExpense: money.Round2(expense),
		CalculatedNet:     money.Round2(net),
		TransactionCount:  len(linked),
		BalanceMatch:      match,
	}, nil
}

// CategoryTotal is a category's aggregated amount within some slice of the log.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// Summary aggregates a date window of the log. A nil window defaults to the
// current calendar month.
type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	NetAmount    decimal.Decimal
	StartDate    time.Time
	EndDate      time.Time
	IncomeCount  int
	ExpenseCount int
	AvgIncome    decimal.Decimal
	AvgExpense   decimal.Decimal
	TopIncome    []CategoryTotal
	TopExpense   []CategoryTotal
}

func (s *Service) Summarize(ctx context.Context, userID uuid.UUID, startDate, endDate *time.Time) (*Summary, error) {
	today := dateutil.Day(s.now())

	var start, end time.Time

	if startDate == nil || endDate == nil {
		start = dateutil.MonthStart(today)
		end = dateutil.MonthEnd(today)
	} else {
		start = dateutil.Day(*startDate)
		end = dateutil.Day(*endDate)
	}

	if start.After(end) {
		return nil, apperror.Validation("start date cannot be after end date")
	}

	txs, err := s.Filter(ctx, userID, Filter{StartDate: &start, EndDate: &end})
	if err != nil {
		return nil, err
	}

	income, expense := totalsByType(txs)

	var incomeCount, expenseCount int

	for _, t := range txs {
		if t.Type == TypeIncome {
			incomeCount++
		} else {
			expenseCount++
		}
	}

	names, err := s.categoryNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Summary{
		TotalIncome:  money.Round2(income),
		TotalExpense: money.Round2(expense),
		NetAmount:    money.Round2(income.Sub(expense)),
		StartDate:    start,
		EndDate:      end,
		IncomeCount:  incomeCount,
		ExpenseCount: expenseCount,
		AvgIncome:    money.Div2(income, decimal.NewFromInt(int64(incomeCount))),
		AvgExpense:   money.Div2(expense, decimal.NewFromInt(int64(expenseCount))),
		TopIncome:    topCategories(txs, TypeIncome, names, 5),
		TopExpense:   topCategories(txs, TypeExpense, names, 5),
	}, nil
}

// CategorySpending reports total/count/average for one category across the
// whole log.
type CategorySpending struct {
	CategoryID   uuid.UUID
	CategoryName string
	Total        decimal.Decimal
	Count        int
	Average      decimal.Decimal
	Transactions []*Transaction
}

func (s *Service) CategorySpending(ctx context.Context, userID, categoryID uuid.UUID) (*CategorySpending, error) {
	c, err := s.categories.Get(ctx, categoryID, userID)
	if err != nil {
		return nil, err
	}

	txs, err := s.Filter(ctx, userID, Filter{CategoryID: &categoryID})
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, t := range txs {
		total = total.Add(t.Amount)
	}

	return &CategorySpending{
		CategoryID:   categoryID,
		CategoryName: c.Name,
		Total:        money.Round2(total),
		Count:        len(txs),
		Average:      money.Div2(total, decimal.NewFromInt(int64(len(txs)))),
		Transactions: txs,
	}, nil
}

func (s *Service) validate(params CreateParams) (Type, error) {
	if !params.Amount.IsPositive() {
		return "", apperror.Validation("amount must be greater than zero")
	}

	typ, err := ParseType(params.Type)
	if err != nil {
		return "", err
	}

	grace := dateutil.Day(s.now()).AddDate(0, 0, futureGraceDays)
	if dateutil.Day(params.Date).After(grace) {
		return "", apperror.Validation("transaction date cannot be in the future")
	}

	return typ, nil
}

func (s *Service) checkCategory(ctx context.Context, categoryID *uuid.UUID, userID uuid.UUID, typ Type) error {
	if categoryID == nil {
		return nil
	}

	c, err := s.categories.Get(ctx, *categoryID, userID)
	if err != nil {
		return err
	}

	if (typ == TypeIncome && c.Type != category.TypeIncome) ||
		(typ == TypeExpense && c.Type != category.TypeExpense) {
		return apperror.BusinessRule("category type does not match transaction type")
	}

	return nil
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

func (s *Service) get(ctx context.Context, id, userID uuid.UUID) (*Transaction, error) {
	t, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.NotFound("transaction not found")
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return t, nil
}

func totalsByType(txs []*Transaction) (income, expense decimal.Decimal) {
	income, expense = decimal.Zero, decimal.Zero

	for _, t := range txs {
		switch t.Type {
		case TypeIncome:
			income = income.Add(t.Amount)
		case TypeExpense:
			expense = expense.Add(t.Amount)
		}
	}

	return income, expense
}

// topCategories groups txs of one type by category name, sorted by amount
// descending, keeping the first limit entries. Uncategorized entries are
// skipped.
func topCategories(txs []*Transaction, typ Type, names map[uuid.UUID]string, limit int) []CategoryTotal {
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

	out := make([]CategoryTotal, 0, len(totals))
	for name, amount := range totals {
		out = append(out, CategoryTotal{Category: name, Amount: money.Round2(amount)})
	}

	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}

		return out[i].Category < out[j].Category
	})

	if len(out) > limit {
		out = out[:limit]
	}

	return out
}
