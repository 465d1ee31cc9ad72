package account_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyger/internal/account"
	"moneyger/internal/apperror"
)

type fakeRepo struct {
	accounts map[uuid.UUID]*account.Account
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{accounts: make(map[uuid.UUID]*account.Account)}
}

func (r *fakeRepo) Create(_ context.Context, a *account.Account) error {
	a.ID = uuid.New()
	r.accounts[a.ID] = a

	return nil
}

func (r *fakeRepo) Get(_ context.Context, id, userID uuid.UUID) (*account.Account, error) {
	a, ok := r.accounts[id]
	if !ok || a.UserID != userID {
		return nil, account.ErrNotFound
	}

	return a, nil
}

func (r *fakeRepo) ListActive(_ context.Context, userID uuid.UUID) ([]*account.Account, error) {
	var out []*account.Account
	for _, a := range r.accounts {
		if a.UserID == userID && a.Active {
			out = append(out, a)
		}
	}

	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, a *account.Account) error {
	r.accounts[a.ID] = a

	return nil
}

func params(name, typ, balance string) account.CreateParams {
	return account.CreateParams{
		Name:     name,
		Type:     typ,
		Balance:  decimal.RequireFromString(balance),
		Currency: "USD",
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("OpeningBalanceIsKept", func(t *testing.T) {
		svc := account.NewService(newFakeRepo())

		a, err := svc.Create(ctx, userID, params("Everyday", "CHECKING", "120.50"))
		require.NoError(t, err)

		assert.Equal(t, account.TypeChecking, a.Type)
		assert.True(t, a.Active)
		assert.True(t, a.Balance.Equal(decimal.RequireFromString("120.50")))
	})

	t.Run("NegativeOpeningBalance", func(t *testing.T) {
		svc := account.NewService(newFakeRepo())

		_, err := svc.Create(ctx, userID, params("Everyday", "CHECKING", "-1"))
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("UnknownType", func(t *testing.T) {
		svc := account.NewService(newFakeRepo())

		_, err := svc.Create(ctx, userID, params("Everyday", "BROKERAGE", "0"))
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("BadCurrencyCode", func(t *testing.T) {
		svc := account.NewService(newFakeRepo())

		p := params("Everyday", "CHECKING", "0")
		p.Currency = "DOLLARS"

		_, err := svc.Create(ctx, userID, p)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	repo := newFakeRepo()
	svc := account.NewService(repo)

	a, err := svc.Create(ctx, userID, params("Everyday", "CHECKING", "100"))
	require.NoError(t, err)

	t.Run("ReplacesFields", func(t *testing.T) {
		updated, err := svc.Update(ctx, a.ID, userID, params("Rainy Day", "SAVINGS", "250"))
		require.NoError(t, err)

		assert.Equal(t, "Rainy Day", updated.Name)
		assert.Equal(t, account.TypeSavings, updated.Type)
		assert.True(t, updated.Balance.Equal(decimal.NewFromInt(250)))
	})

	t.Run("ForeignAccountIsNotFound", func(t *testing.T) {
		_, err := svc.Update(ctx, a.ID, uuid.New(), params("Rainy Day", "SAVINGS", "250"))
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	repo := newFakeRepo()
	svc := account.NewService(repo)

	a, err := svc.Create(ctx, userID, params("Everyday", "CHECKING", "100"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, a.ID, userID))

	t.Run("RowSurvivesDeactivated", func(t *testing.T) {
		got, err := svc.Get(ctx, a.ID, userID)
		require.NoError(t, err)
		assert.False(t, got.Active)
	})

	t.Run("DeactivatedAccountLeavesListings", func(t *testing.T) {
		list, err := svc.List(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("DeactivatedBalanceLeavesTotals", func(t *testing.T) {
		total, err := svc.TotalBalance(ctx, userID)
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})
}

func TestService_SetBalance(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	svc := account.NewService(newFakeRepo())

	a, err := svc.Create(ctx, userID, params("Everyday", "CHECKING", "100"))
	require.NoError(t, err)

	got, err := svc.SetBalance(ctx, a.ID, userID, decimal.RequireFromString("-42.10"))
	require.NoError(t, err)

	// Reconciliation may push the balance negative even though openings cannot.
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("-42.10")))
}

func TestService_Aggregates(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	svc := account.NewService(newFakeRepo())

	_, err := svc.Create(ctx, userID, params("Everyday", "CHECKING", "100.105"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, userID, params("Backup", "CHECKING", "50"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, userID, params("Vacation", "SAVINGS", "200"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, uuid.New(), params("Someone Else", "SAVINGS", "9999"))
	require.NoError(t, err)

	t.Run("TotalIsRoundedHalfUp", func(t *testing.T) {
		total, err := svc.TotalBalance(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "350.11", total.String())
	})

	t.Run("BalanceByTypeGroups", func(t *testing.T) {
		byType, err := svc.BalanceByType(ctx, userID)
		require.NoError(t, err)

		require.Len(t, byType, 2)
		assert.True(t, byType[account.TypeChecking].Equal(decimal.RequireFromString("150.105")))
		assert.True(t, byType[account.TypeSavings].Equal(decimal.NewFromInt(200)))
	})
}
