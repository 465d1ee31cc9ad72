package goal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"moneyger/internal/account"
	"moneyger/internal/apperror"
	"moneyger/internal/dateutil"
	"moneyger/internal/money"
)

// ErrNotFound is returned by stores when no goal matches the id/owner pair.
var ErrNotFound = errors.New("goal not found")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=goal
type Repository interface {
	Create(ctx context.Context, g *Goal) error
	Get(ctx context.Context, id, userID uuid.UUID) (*Goal, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Goal, error)
	Update(ctx context.Context, g *Goal) error
	Delete(ctx context.Context, id, userID uuid.UUID) error

	Begin(ctx context.Context) (Tx, error)
}

// Tx groups a goal save with its linked-account posting so a contribution is
// all-or-nothing.
type Tx interface {
	SaveGoal(ctx context.Context, g *Goal) error
	AddToBalance(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) error
	Commit() error
	Rollback() error
}

// AccountDirectory resolves owner-scoped account references.
type AccountDirectory interface {
	Get(ctx context.Context, id, userID uuid.UUID) (*account.Account, error)
}

type Service struct {
	repo     Repository
	accounts AccountDirectory
	now      func() time.Time
}

type Option func(*Service)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, accounts AccountDirectory, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		accounts: accounts,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	Name         string
	Description  string
	TargetAmount decimal.Decimal
	TargetDate   time.Time
	AccountID    *uuid.UUID
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Goal, error) {
	today := dateutil.Day(s.now())

	if !params.TargetAmount.IsPositive() {
		return nil, apperror.Validation("target amount must be greater than zero")
	}

	if dateutil.Day(params.TargetDate).Before(today) {
		return nil, apperror.Validation("target date cannot be in the past")
	}

	if params.AccountID != nil {
		if _, err := s.accounts.Get(ctx, *params.AccountID, userID); err != nil {
			return nil, err
		}
	}

	g := &Goal{
		Name:          params.Name,
		Description:   params.Description,
		TargetAmount:  params.TargetAmount,
		CurrentAmount: decimal.Zero,
		TargetDate:    dateutil.Day(params.TargetDate),
		StartDate:     today,
		AccountID:     params.AccountID,
		UserID:        userID,
		Status:        StatusInProgress,
	}

	if err := s.repo.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("creating goal: %w", err)
	}

	return g, nil
}

func (s *Service) Update(ctx context.Context, id, userID uuid.UUID, params CreateParams) (*Goal, error) {
	g, err := s.get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if g.Status != StatusInProgress {
		return nil, apperror.BusinessRule("cannot update completed or abandoned goals")
	}

	if !params.TargetAmount.IsPositive() {
		return nil, apperror.Validation("target amount must be greater than zero")
	}

	if params.AccountID != nil {
		if _, err := s.accounts.Get(ctx, *params.AccountID, userID); err != nil {
			return nil, err
		}
	}

	g.Name = params.Name
	g.Description = params.Description
	g.TargetAmount = params.TargetAmount
	g.TargetDate = dateutil.Day(params.TargetDate)
	g.AccountID = params.AccountID

	g.deriveStatus(s.now())

	if err := s.repo.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("updating goal: %w", err)
	}

	return g, nil
}

func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.get(ctx, id, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*Goal, error) {
	return s.get(ctx, id, userID)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Goal, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListByStatus(ctx context.Context, userID uuid.UUID, status Status) ([]*Goal, error) {
	all, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var out []*Goal

	for _, g := range all {
		if g.Status == status {
			out = append(out, g)
		}
	}

	return out, nil
}

func (s *Service) ListByAccount(ctx context.Context, userID, accountID uuid.UUID) ([]*Goal, error) {
	if _, err := s.accounts.Get(ctx, accountID, userID); err != nil {
		return nil, err
	}

	all, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var out []*Goal

	for _, g := range all {
		if g.AccountID != nil && *g.AccountID == accountID {
			out = append(out, g)
		}
	}

	return out, nil
}

// Contribute adds amount to the goal and mirrors it onto the linked account
// balance, if any. This is the one place goal state reaches into ledger-owned
// state, so both writes share one unit of work.
func (s *Service) Contribute(ctx context.Context, id, userID uuid.UUID, amount decimal.Decimal) (*Goal, error) {
	g, err := s.get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if g.Status != StatusInProgress {
		return nil, apperror.BusinessRule("cannot add to completed or abandoned goals")
	}

	if !amount.IsPositive() {
		return nil, apperror.Validation("amount must be positive")
	}

	newAmount := g.CurrentAmount.Add(amount)
	if newAmount.GreaterThan(g.TargetAmount) {
		return nil, apperror.BusinessRule("amount exceeds remaining goal amount")
	}

	g.CurrentAmount = newAmount
	g.deriveStatus(s.now())

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin contribution: %w", err)
	}
	defer tx.Rollback()

	if err := tx.SaveGoal(ctx, g); err != nil {
		return nil, fmt.Errorf("saving goal: %w", err)
	}

	if g.AccountID != nil {
		if err := tx.AddToBalance(ctx, *g.AccountID, amount); err != nil {
			return nil, fmt.Errorf("posting contribution: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit contribution: %w", err)
	}

	return g, nil
}

// SetStatus is the manual override: it moves the goal to any state without
// re-validating amounts or dates.
func (s *Service) SetStatus(ctx context.Context, id, userID uuid.UUID, status Status) (*Goal, error) {
	g, err := s.get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	g.Status = status

	if err := s.repo.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("updating goal status: %w", err)
	}

	return g, nil
}

// Progress is the full derived view of one goal.
type Progress struct {
	GoalID                  uuid.UUID
	GoalName                string
	TargetAmount            decimal.Decimal
	CurrentAmount           decimal.Decimal
	Remaining               decimal.Decimal
	ProgressPercentage      float64
	Status                  Status
	TargetDate              time.Time
	DaysRemaining           int
	DailyRequired           decimal.Decimal
	EstimatedCompletionDate *time.Time
	IsOnTrack               bool
	Milestones              map[int]decimal.Decimal
}

func (s *Service) Progress(ctx context.Context, id, userID uuid.UUID) (*Progress, error) {
	g, err := s.get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	today := dateutil.Day(s.now())

	p := &Progress{
		GoalID:             g.ID,
		GoalName:           g.Name,
		TargetAmount:       g.TargetAmount,
		CurrentAmount:      g.CurrentAmount,
		Remaining:          g.Remaining(),
		ProgressPercentage: g.ProgressPercentage(),
		Status:             g.Status,
		TargetDate:         g.TargetDate,
		DaysRemaining:      g.DaysRemaining(today),
		DailyRequired:      g.DailyRequired(today),
		IsOnTrack:          s.isOnTrack(g, today),
		Milestones:         milestones(g),
	}

	// Project a completion date from the observed saving rate. Only defined
	// once something has been saved over at least one elapsed day.
	if g.CurrentAmount.IsPositive() {
		daysElapsed := dateutil.DaysBetween(g.StartDate, today)
		if daysElapsed > 0 {
			dailyRate := money.Div2(g.CurrentAmount, decimal.NewFromInt(int64(daysElapsed)))
			if dailyRate.IsPositive() {
				estimatedDays := int(g.Remaining().Div(dailyRate).Ceil().IntPart())
				estimated := today.AddDate(0, 0, estimatedDays)
				p.EstimatedCompletionDate = &estimated
			}
		}
	}

	return p, nil
}

// Overview aggregates all goals regardless of status.
type Overview struct {
	TotalGoals      int
	TotalTarget     decimal.Decimal
	TotalSaved      decimal.Decimal
	TotalRemaining  decimal.Decimal
	OverallProgress float64
	InProgressCount int
	CompletedCount  int
	AbandonedCount  int
	NearestDeadline *Goal
	MostFunded      *Goal
	Goals           []*Goal
}

func (s *Service) Overview(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	goals, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}

	o := &Overview{
		TotalGoals:  len(goals),
		TotalTarget: decimal.Zero,
		TotalSaved:  decimal.Zero,
		Goals:       goals,
	}

	for _, g := range goals {
		o.TotalTarget = o.TotalTarget.Add(g.TargetAmount)
		o.TotalSaved = o.TotalSaved.Add(g.CurrentAmount)

		switch g.Status {
		case StatusInProgress:
			o.InProgressCount++

			if o.NearestDeadline == nil || g.TargetDate.Before(o.NearestDeadline.TargetDate) {
				o.NearestDeadline = g
			}

			if o.MostFunded == nil || g.ProgressPercentage() > o.MostFunded.ProgressPercentage() {
				o.MostFunded = g
			}
		case StatusCompleted:
			o.CompletedCount++
		case StatusAbandoned:
			o.AbandonedCount++
		}
	}

	o.OverallProgress = money.Percent(o.TotalSaved, o.TotalTarget)
	o.TotalRemaining = money.Round2(o.TotalTarget.Sub(o.TotalSaved))
	o.TotalTarget = money.Round2(o.TotalTarget)
	o.TotalSaved = money.Round2(o.TotalSaved)

	return o, nil
}

// isOnTrack compares actual progress to the share of the timeline already
// consumed. Too early to judge counts as on track.
func (s *Service) isOnTrack(g *Goal, today time.Time) bool {
	if g.Status != StatusInProgress {
		return false
	}

	totalDays := dateutil.DaysBetween(g.StartDate, g.TargetDate)
	daysElapsed := dateutil.DaysBetween(g.StartDate, today)

	if totalDays <= 0 || daysElapsed <= 0 {
		return true
	}

	expected := float64(daysElapsed) / float64(totalDays) * 100

	return g.ProgressPercentage() >= expected
}

// milestones marks the fixed 25/50/75/100 breakpoints of the target amount.
func milestones(g *Goal) map[int]decimal.Decimal {
	return map[int]decimal.Decimal{
		25:  money.Round2(g.TargetAmount.Mul(decimal.NewFromFloat(0.25))),
		50:  money.Round2(g.TargetAmount.Mul(decimal.NewFromFloat(0.50))),
		75:  money.Round2(g.TargetAmount.Mul(decimal.NewFromFloat(0.75))),
		100: money.Round2(g.TargetAmount),
	}
}

func (s *Service) get(ctx context.Context, id, userID uuid.UUID) (*Goal, error) {
	g, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.NotFound("goal not found")
		}

		return nil, fmt.Errorf("getting goal: %w", err)
	}

	return g, nil
}
