package goal_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyger/internal/account"
	"moneyger/internal/apperror"
	"moneyger/internal/goal"
)

var testToday = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

type fakeAccounts struct {
	accounts map[uuid.UUID]*account.Account
}

func (f *fakeAccounts) Get(_ context.Context, id, userID uuid.UUID) (*account.Account, error) {
	a, ok := f.accounts[id]
	if !ok || a.UserID != userID {
		return nil, apperror.NotFound("account not found")
	}

	return a, nil
}

type fakeRepo struct {
	goals    map[uuid.UUID]*goal.Goal
	accounts *fakeAccounts
}

func (f *fakeRepo) Create(_ context.Context, g *goal.Goal) error {
	g.ID = uuid.New()
	g.CreatedAt = time.Now()
	g.UpdatedAt = g.CreatedAt
	f.goals[g.ID] = g

	return nil
}

func (f *fakeRepo) Get(_ context.Context, id, userID uuid.UUID) (*goal.Goal, error) {
	g, ok := f.goals[id]
	if !ok || g.UserID != userID {
		return nil, goal.ErrNotFound
	}

	return g, nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*goal.Goal, error) {
	var out []*goal.Goal

	for _, g := range f.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}

	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, g *goal.Goal) error {
	f.goals[g.ID] = g
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id, userID uuid.UUID) error {
	g, ok := f.goals[id]
	if !ok || g.UserID != userID {
		return goal.ErrNotFound
	}

	delete(f.goals, id)

	return nil
}

func (f *fakeRepo) Begin(context.Context) (goal.Tx, error) {
	return &fakeTx{repo: f}, nil
}

type fakeTx struct {
	repo *fakeRepo
}

func (tx *fakeTx) SaveGoal(_ context.Context, g *goal.Goal) error {
	tx.repo.goals[g.ID] = g
	return nil
}

func (tx *fakeTx) AddToBalance(_ context.Context, accountID uuid.UUID, delta decimal.Decimal) error {
	a, ok := tx.repo.accounts.accounts[accountID]
	if !ok {
		return goal.ErrNotFound
	}

	a.Balance = a.Balance.Add(delta)

	return nil
}

func (tx *fakeTx) Commit() error   { return nil }
func (tx *fakeTx) Rollback() error { return nil }

type fixture struct {
	userID    uuid.UUID
	accountID uuid.UUID
	accounts  *fakeAccounts
	repo      *fakeRepo
	svc       *goal.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		userID:    uuid.New(),
		accountID: uuid.New(),
	}

	f.accounts = &fakeAccounts{accounts: map[uuid.UUID]*account.Account{
		f.accountID: {
			ID:      f.accountID,
			UserID:  f.userID,
			Name:    "Vacation Savings",
			Type:    account.TypeSavings,
			Balance: decimal.Zero,
		},
	}}

	f.repo = &fakeRepo{goals: map[uuid.UUID]*goal.Goal{}, accounts: f.accounts}
	f.svc = goal.NewService(f.repo, f.accounts,
		goal.WithClock(func() time.Time { return testToday }))

	return f
}

func (f *fixture) create(t *testing.T, target int64, accountID *uuid.UUID) *goal.Goal {
	t.Helper()

	g, err := f.svc.Create(context.Background(), f.userID, goal.CreateParams{
		Name:         "Vacation",
		TargetAmount: decimal.NewFromInt(target),
		TargetDate:   testToday.AddDate(0, 6, 0),
		AccountID:    accountID,
	})
	require.NoError(t, err)

	return g
}

func TestService_Create(t *testing.T) {
	t.Run("StartsInProgressWithTodayAsStart", func(t *testing.T) {
		f := newFixture(t)

		g := f.create(t, 1000, nil)
		assert.Equal(t, goal.StatusInProgress, g.Status)
		assert.True(t, g.StartDate.Equal(testToday))
		assert.True(t, g.CurrentAmount.IsZero())
	})

	t.Run("NonPositiveTargetIsValidation", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(context.Background(), f.userID, goal.CreateParams{
			Name:         "Nothing",
			TargetAmount: decimal.Zero,
			TargetDate:   testToday.AddDate(0, 1, 0),
		})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("PastTargetDateIsValidation", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(context.Background(), f.userID, goal.CreateParams{
			Name:         "Too late",
			TargetAmount: decimal.NewFromInt(100),
			TargetDate:   testToday.AddDate(0, 0, -1),
		})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("TargetDateTodayIsAllowed", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(context.Background(), f.userID, goal.CreateParams{
			Name:         "Right now",
			TargetAmount: decimal.NewFromInt(100),
			TargetDate:   testToday,
		})
		assert.NoError(t, err)
	})

	t.Run("ForeignAccountIsNotFound", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(context.Background(), uuid.New(), goal.CreateParams{
			Name:         "Sneaky",
			TargetAmount: decimal.NewFromInt(100),
			TargetDate:   testToday.AddDate(0, 1, 0),
			AccountID:    &f.accountID,
		})
		assert.True(t, apperror.IsNotFound(err))
	})
}

func TestService_Contribute(t *testing.T) {
	t.Run("AccumulatesAndPostsToAccount", func(t *testing.T) {
		f := newFixture(t)
		g := f.create(t, 1000, &f.accountID)

		got, err := f.svc.Contribute(context.Background(), g.ID, f.userID, decimal.NewFromInt(400))
		require.NoError(t, err)
		assert.True(t, got.CurrentAmount.Equal(decimal.NewFromInt(400)))
		assert.Equal(t, goal.StatusInProgress, got.Status)
		assert.True(t, f.accounts.accounts[f.accountID].Balance.Equal(decimal.NewFromInt(400)))
	})

	t.Run("ReachingTargetCompletes", func(t *testing.T) {
		f := newFixture(t)
		g := f.create(t, 1000, nil)

		_, err := f.svc.Contribute(context.Background(), g.ID, f.userID, decimal.NewFromInt(600))
		require.NoError(t, err)

		got, err := f.svc.Contribute(context.Background(), g.ID, f.userID, decimal.NewFromInt(400))
		require.NoError(t, err)
		assert.Equal(t, goal.StatusCompleted, got.Status)
	})

	t.Run("OvershootIsRejected", func(t *testing.T) {
		f := newFixture(t)
		g := f.create(t, 1000, nil)

		_, err := f.svc.Contribute(context.Background(), g.ID, f.userID, decimal.NewFromInt(600))
		require.NoError(t, err)

		_, err = f.svc.Contribute(context.Background(), g.ID, f.userID, decimal.NewFromInt(500))
		assert.Equal(t, apperror.KindBusinessRule, apperror.KindOf(err))

		// The rejected contribution must leave nothing behind.
		got, err := f.svc.Get(context.Background(), g.ID, f.userID)
		require.NoError(t, err)
		assert.True(t, got.CurrentAmount.Equal(decimal.NewFromInt(600)))
	})

	t.Run("NonPositiveAmountIsValidation", func(t *testing.T) {
		f := newFixture(t)
		g := f.create(t, 1000, nil)

		_, err := f.svc.Contribute(context.Background(), g.ID, f.userID, decimal.Zero)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("CompletedGoalRejectsContributions", func(t *testing.T) {
		f := newFixture(t)
		g := f.create(t, 100, nil)

		_, err := f.svc.Contribute(context.Background(), g.ID, f.userID, decimal.NewFromInt(100))
		require.NoError(t, err)

		_, err = f.svc.Contribute(context.Background(), g.ID, f.userID, decimal.NewFromInt(1))
		assert.Equal(t, apperror.KindBusinessRule, apperror.KindOf(err))
	})

	t.Run("ForeignGoalIsNotFound", func(t *testing.T) {
		f := newFixture(t)
		g := f.create(t, 1000, nil)

		_, err := f.svc.Contribute(context.Background(), g.ID, uuid.New(), decimal.NewFromInt(10))
		assert.True(t, apperror.IsNotFound(err))
	})
}

func TestService_Update(t *testing.T) {
	t.Run("RejectsNonInProgress", func(t *testing.T) {
		f := newFixture(t)
		g := f.create(t, 100, nil)

		_, err := f.svc.SetStatus(context.Background(), g.ID, f.userID, goal.StatusAbandoned)
		require.NoError(t, err)

		_, err = f.svc.Update(context.Background(), g.ID, f.userID, goal.CreateParams{
			Name:         "Revived",
			TargetAmount: decimal.NewFromInt(200),
			TargetDate:   testToday.AddDate(0, 1, 0),
		})
		assert.Equal(t, apperror.KindBusinessRule, apperror.KindOf(err))
	})

	t.Run("LoweringTargetBelowSavedCompletes", func(t *testing.T) {
		f := newFixture(t)
		g := f.create(t, 1000, nil)

		_, err := f.svc.Contribute(context.Background(), g.ID, f.userID, decimal.NewFromInt(500))
		require.NoError(t, err)

		got, err := f.svc.Update(context.Background(), g.ID, f.userID, goal.CreateParams{
			Name:         "Vacation",
			TargetAmount: decimal.NewFromInt(500),
			TargetDate:   testToday.AddDate(0, 6, 0),
		})
		require.NoError(t, err)
		assert.Equal(t, goal.StatusCompleted, got.Status)
	})

	t.Run("PastTargetDateAbandons", func(t *testing.T) {
		f := newFixture(t)
		g := f.create(t, 1000, nil)

		got, err := f.svc.Update(context.Background(), g.ID, f.userID, goal.CreateParams{
			Name:         "Vacation",
			TargetAmount: decimal.NewFromInt(1000),
			TargetDate:   testToday.AddDate(0, 0, -30),
		})
		require.NoError(t, err)
		assert.Equal(t, goal.StatusAbandoned, got.Status)
	})
}

func TestService_SetStatus(t *testing.T) {
	f := newFixture(t)
	g := f.create(t, 1000, nil)

	// Manual override moves state without re-deriving it.
	got, err := f.svc.SetStatus(context.Background(), g.ID, f.userID, goal.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, goal.StatusCompleted, got.Status)

	got, err = f.svc.SetStatus(context.Background(), g.ID, f.userID, goal.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, goal.StatusInProgress, got.Status)
}

func TestService_Progress(t *testing.T) {
	f := newFixture(t)
	g := f.create(t, 1000, nil)

	_, err := f.svc.Contribute(context.Background(), g.ID, f.userID, decimal.NewFromInt(250))
	require.NoError(t, err)

	p, err := f.svc.Progress(context.Background(), g.ID, f.userID)
	require.NoError(t, err)

	assert.InDelta(t, 25.0, p.ProgressPercentage, 0.001)
	assert.True(t, p.Remaining.Equal(decimal.NewFromInt(750)))
	assert.True(t, p.IsOnTrack) // zero days elapsed counts as on track

	// Nothing has been saved over elapsed time yet, so no projection.
	assert.Nil(t, p.EstimatedCompletionDate)

	assert.True(t, p.Milestones[25].Equal(decimal.NewFromInt(250)))
	assert.True(t, p.Milestones[50].Equal(decimal.NewFromInt(500)))
	assert.True(t, p.Milestones[75].Equal(decimal.NewFromInt(750)))
	assert.True(t, p.Milestones[100].Equal(decimal.NewFromInt(1000)))
}

func TestService_Progress_ProjectsCompletion(t *testing.T) {
	f := newFixture(t)
	g := f.create(t, 1000, nil)

	_, err := f.svc.Contribute(context.Background(), g.ID, f.userID, decimal.NewFromInt(100))
	require.NoError(t, err)

	// Move the goal's start back ten days so a daily rate exists.
	f.repo.goals[g.ID].StartDate = testToday.AddDate(0, 0, -10)

	p, err := f.svc.Progress(context.Background(), g.ID, f.userID)
	require.NoError(t, err)

	// 100 saved over 10 days is 10/day; 900 remaining takes 90 more days.
	require.NotNil(t, p.EstimatedCompletionDate)
	assert.True(t, p.EstimatedCompletionDate.Equal(testToday.AddDate(0, 0, 90)))
}

func TestService_Overview(t *testing.T) {
	f := newFixture(t)

	first := f.create(t, 1000, nil)
	second := f.create(t, 500, nil)

	_, err := f.svc.Contribute(context.Background(), first.ID, f.userID, decimal.NewFromInt(300))
	require.NoError(t, err)

	_, err = f.svc.Contribute(context.Background(), second.ID, f.userID, decimal.NewFromInt(500))
	require.NoError(t, err)

	o, err := f.svc.Overview(context.Background(), f.userID)
	require.NoError(t, err)

	assert.Equal(t, 2, o.TotalGoals)
	assert.True(t, o.TotalTarget.Equal(decimal.NewFromInt(1500)))
	assert.True(t, o.TotalSaved.Equal(decimal.NewFromInt(800)))
	assert.Equal(t, 1, o.InProgressCount)
	assert.Equal(t, 1, o.CompletedCount)
	assert.InDelta(t, 53.33, o.OverallProgress, 0.01)

	require.NotNil(t, o.MostFunded)
	assert.Equal(t, first.ID, o.MostFunded.ID)
}

func TestService_ListByStatus(t *testing.T) {
	f := newFixture(t)

	g := f.create(t, 100, nil)
	f.create(t, 200, nil)

	_, err := f.svc.Contribute(context.Background(), g.ID, f.userID, decimal.NewFromInt(100))
	require.NoError(t, err)

	completed, err := f.svc.ListByStatus(context.Background(), f.userID, goal.StatusCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, g.ID, completed[0].ID)

	inProgress, err := f.svc.ListByStatus(context.Background(), f.userID, goal.StatusInProgress)
	require.NoError(t, err)
	assert.Len(t, inProgress, 1)
}

func TestService_ListByAccount(t *testing.T) {
	f := newFixture(t)

	f.create(t, 100, &f.accountID)
	f.create(t, 200, nil)

	linked, err := f.svc.ListByAccount(context.Background(), f.userID, f.accountID)
	require.NoError(t, err)
	assert.Len(t, linked, 1)

	_, err = f.svc.ListByAccount(context.Background(), uuid.New(), f.accountID)
	assert.True(t, apperror.IsNotFound(err))
}
