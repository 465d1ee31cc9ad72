package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"moneyger/internal/apperror"
	"moneyger/internal/category"
	"moneyger/internal/dateutil"
	"moneyger/internal/ledger"
	"moneyger/internal/money"
)

// ErrNotFound is returned by stores when no budget matches the id/owner pair.
var ErrNotFound = errors.New("budget not found")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget
type Repository interface {
	Create(ctx context.Context, b *Budget) error
	Get(ctx context.Context, id, userID uuid.UUID) (*Budget, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Budget, error)
	Update(ctx context.Context, b *Budget) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	SaveSpent(ctx context.Context, id uuid.UUID, spent decimal.Decimal) error
}

// TransactionSource supplies the windowed expense slices spend is measured
// over. Implemented by the ledger service.
type TransactionSource interface {
	Filter(ctx context.Context, userID uuid.UUID, f ledger.Filter) ([]*ledger.Transaction, error)
}

// CategoryDirectory resolves owner-scoped category references.
type CategoryDirectory interface {
	Get(ctx context.Context, id, userID uuid.UUID) (*category.Category, error)
}

type Service struct {
	repo         Repository
	transactions TransactionSource
	categories   CategoryDirectory
	now          func() time.Time
}

type Option func(*Service)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, transactions TransactionSource, categories CategoryDirectory, opts ...Option) *Service {
	s := &Service{
		repo:         repo,
		transactions: transactions,
		categories:   categories,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	Name        string
	Description string
	Amount      decimal.Decimal
	StartDate   time.Time
	EndDate     time.Time
	Period      string
	CategoryID  *uuid.UUID
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Budget, error) {
	period, err := s.validate(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	b := &Budget{
		Name:        params.Name,
		Description: params.Description,
		Amount:      params.Amount,
		SpentAmount: decimal.Zero,
		StartDate:   dateutil.Day(params.StartDate),
		EndDate:     dateutil.Day(params.EndDate),
		Period:      period,
		CategoryID:  params.CategoryID,
		UserID:      userID,
		Active:      true,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("creating budget: %w", err)
	}

	if err := s.refreshSpent(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) Update(ctx context.Context, id, userID uuid.UUID, params CreateParams) (*Budget, error) {
	b, err := s.get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	period, err := s.validate(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	b.Name = params.Name
	b.Description = params.Description
	b.Amount = params.Amount
	b.StartDate = dateutil.Day(params.StartDate)
	b.EndDate = dateutil.Day(params.EndDate)
	b.Period = period
	b.CategoryID = params.CategoryID

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("updating budget: %w", err)
	}

	if err := s.refreshSpent(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.get(ctx, id, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("deleting budget: %w", err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*Budget, error) {
	b, err := s.get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if err := s.refreshSpent(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Budget, error) {
	budgets, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}

	for _, b := range budgets {
		if err := s.refreshSpent(ctx, b); err != nil {
			return nil, err
		}
	}

	return budgets, nil
}

// ListActive returns budgets whose window covers today and whose active flag
// is set, with spend refreshed.
func (s *Service) ListActive(ctx context.Context, userID uuid.UUID) ([]*Budget, error) {
	budgets, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}

	today := dateutil.Day(s.now())

	var active []*Budget

	for _, b := range budgets {
		if !b.Active || today.Before(b.StartDate) || today.After(b.EndDate) {
			continue
		}

		if err := s.refreshSpent(ctx, b); err != nil {
			return nil, err
		}

		active = append(active, b)
	}

	return active, nil
}

func (s *Service) ListByCategory(ctx context.Context, userID, categoryID uuid.UUID) ([]*Budget, error) {
	if _, err := s.categories.Get(ctx, categoryID, userID); err != nil {
		return nil, err
	}

	budgets, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}

	var scoped []*Budget

	for _, b := range budgets {
		if b.CategoryID == nil || *b.CategoryID != categoryID {
			continue
		}

		if err := s.refreshSpent(ctx, b); err != nil {
			return nil, err
		}

		scoped = append(scoped, b)
	}

	return scoped, nil
}

// Progress reports pace against the window: inclusive day counts, daily
// budget vs daily spend, and the projection of current pace over the whole
// period.
type Progress struct {
	BudgetID       uuid.UUID
	BudgetName     string
	TotalAmount    decimal.Decimal
	SpentAmount    decimal.Decimal
	Remaining      decimal.Decimal
	PercentageUsed float64
	IsOverBudget   bool
	DaysElapsed    int
	DaysRemaining  int
	DailyBudget    decimal.Decimal
	DailySpent     decimal.Decimal
	ProjectedSpent decimal.Decimal
	Status         Status
}

func (s *Service) Progress(ctx context.Context, id, userID uuid.UUID) (*Progress, error) {
	b, err := s.get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if err := s.refreshSpent(ctx, b); err != nil {
		return nil, err
	}

	today := dateutil.Day(s.now())

	daysInPeriod := dateutil.DaysBetween(b.StartDate, b.EndDate) + 1

	daysElapsed := dateutil.DaysBetween(b.StartDate, today) + 1
	if daysElapsed < 1 {
		daysElapsed = 1
	}

	if daysElapsed > daysInPeriod {
		daysElapsed = daysInPeriod
	}

	dailyBudget := money.Div2(b.Amount, decimal.NewFromInt(int64(daysInPeriod)))
	dailySpent := money.Div2(b.SpentAmount, decimal.NewFromInt(int64(daysElapsed)))

	return &Progress{
		BudgetID:       b.ID,
		BudgetName:     b.Name,
		TotalAmount:    b.Amount,
		SpentAmount:    b.SpentAmount,
		Remaining:      b.Remaining(),
		PercentageUsed: b.PercentageUsed(),
		IsOverBudget:   b.IsOverBudget(),
		DaysElapsed:    daysElapsed,
		DaysRemaining:  daysInPeriod - daysElapsed,
		DailyBudget:    dailyBudget,
		DailySpent:     dailySpent,
		ProjectedSpent: dailySpent.Mul(decimal.NewFromInt(int64(daysInPeriod))),
		Status:         b.Status(),
	}, nil
}

// Overview aggregates all currently-active budgets.
type Overview struct {
	TotalBudgets       int
	TotalAmount        decimal.Decimal
	TotalSpent         decimal.Decimal
	TotalRemaining     decimal.Decimal
	OverallPercentUsed float64
	OnTrackCount       int
	OverBudgetCount    int
	AmountByCategory   map[string]decimal.Decimal
	SpentByCategory    map[string]decimal.Decimal
	Budgets            []*Budget
}

func (s *Service) Overview(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	active, err := s.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	o := &Overview{
		TotalBudgets:     len(active),
		TotalAmount:      decimal.Zero,
		TotalSpent:       decimal.Zero,
		AmountByCategory: make(map[string]decimal.Decimal),
		SpentByCategory:  make(map[string]decimal.Decimal),
		Budgets:          active,
	}

	for _, b := range active {
		o.TotalAmount = o.TotalAmount.Add(b.Amount)
		o.TotalSpent = o.TotalSpent.Add(b.SpentAmount)

		if b.IsOverBudget() {
			o.OverBudgetCount++
		} else {
			o.OnTrackCount++
		}

		if b.CategoryID != nil {
			c, err := s.categories.Get(ctx, *b.CategoryID, userID)
			if err != nil {
				return nil, err
			}

			o.AmountByCategory[c.Name] = o.AmountByCategory[c.Name].Add(b.Amount)
			o.SpentByCategory[c.Name] = o.SpentByCategory[c.Name].Add(b.SpentAmount)
		}
	}

	o.OverallPercentUsed = money.Percent(o.TotalSpent, o.TotalAmount)
	o.TotalRemaining = money.Round2(o.TotalAmount.Sub(o.TotalSpent))
	o.TotalAmount = money.Round2(o.TotalAmount)
	o.TotalSpent = money.Round2(o.TotalSpent)

	return o, nil
}

// refreshSpent recomputes the spend cache from the ledger and persists it.
// Every read path calls this before returning budget data.
func (s *Service) refreshSpent(ctx context.Context, b *Budget) error {
	expense := ledger.TypeExpense

	f := ledger.Filter{
		Type:      &expense,
		StartDate: &b.StartDate,
		EndDate:   &b.EndDate,
	}
	if b.CategoryID != nil {
		f.CategoryID = b.CategoryID
	}

	txs, err := s.transactions.Filter(ctx, b.UserID, f)
	if err != nil {
		return fmt.Errorf("computing spent amount: %w", err)
	}

	spent := decimal.Zero
	for _, t := range txs {
		spent = spent.Add(t.Amount)
	}

	b.SpentAmount = spent

	if err := s.repo.SaveSpent(ctx, b.ID, spent); err != nil {
		return fmt.Errorf("saving spent amount: %w", err)
	}

	return nil
}

func (s *Service) validate(ctx context.Context, userID uuid.UUID, params CreateParams) (Period, error) {
	if dateutil.Day(params.StartDate).After(dateutil.Day(params.EndDate)) {
		return "", apperror.Validation("start date cannot be after end date")
	}

	period, err := ParsePeriod(params.Period)
	if err != nil {
		return "", err
	}

	if params.CategoryID != nil {
		c, err := s.categories.Get(ctx, *params.CategoryID, userID)
		if err != nil {
			return "", err
		}

		if c.Type != category.TypeExpense {
			return "", apperror.BusinessRule("budgets can only be scoped to expense categories")
		}
	}

	return period, nil
}

func (s *Service) get(ctx context.Context, id, userID uuid.UUID) (*Budget, error) {
	b, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.NotFound("budget not found")
		}

		return nil, fmt.Errorf("getting budget: %w", err)
	}

	return b, nil
}
