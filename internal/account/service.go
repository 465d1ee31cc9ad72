package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"moneyger/internal/apperror"
	"moneyger/internal/money"
)

// ErrNotFound is returned by stores when no account matches the id/owner pair.
var ErrNotFound = errors.New("account not found")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=account
type Repository interface {
	Create(ctx context.Context, a *Account) error
	Get(ctx context.Context, id, userID uuid.UUID) (*Account, error)
	ListActive(ctx context.Context, userID uuid.UUID) ([]*Account, error)
	Update(ctx context.Context, a *Account) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name        string
	Type        string
	Balance     decimal.Decimal
	Currency    string
	Description string
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Account, error) {
	typ, err := ParseType(params.Type)
	if err != nil {
		return nil, err
	}

	if params.Balance.IsNegative() {
		return nil, apperror.Validation("opening balance cannot be negative")
	}

	if _, err := currency.ParseISO(params.Currency); err != nil {
		return nil, apperror.Validation("invalid currency code %q", params.Currency)
	}

	a := &Account{
		Name:        params.Name,
		Type:        typ,
		Balance:     params.Balance,
		Currency:    params.Currency,
		Description: params.Description,
		UserID:      userID,
		Active:      true,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}

	return a, nil
}

func (s *Service) Update(ctx context.Context, id, userID uuid.UUID, params CreateParams) (*Account, error) {
	a, err := s.get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	typ, err := ParseType(params.Type)
	if err != nil {
		return nil, err
	}

	if _, err := currency.ParseISO(params.Currency); err != nil {
		return nil, apperror.Validation("invalid currency code %q", params.Currency)
	}

	a.Name = params.Name
	a.Type = typ
	a.Balance = params.Balance
	a.Currency = params.Currency
	a.Description = params.Description

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("updating account: %w", err)
	}

	return a, nil
}

// Delete deactivates the account. Rows are kept so linked transactions stay
// resolvable.
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	a, err := s.get(ctx, id, userID)
	if err != nil {
		return err
	}

	a.Active = false

	if err := s.repo.Update(ctx, a); err != nil {
		return fmt.Errorf("deactivating account: %w", err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*Account, error) {
	return s.get(ctx, id, userID)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Account, error) {
	return s.repo.ListActive(ctx, userID)
}

// SetBalance overrides the stored balance directly, bypassing the ledger.
// Callers use it to reconcile against an external statement.
func (s *Service) SetBalance(ctx context.Context, id, userID uuid.UUID, balance decimal.Decimal) (*Account, error) {
	a, err := s.get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	a.Balance = balance

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("updating balance: %w", err)
	}

	return a, nil
}

func (s *Service) TotalBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	accounts, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("listing accounts: %w", err)
	}

	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}

	return money.Round2(total), nil
}

func (s *Service) BalanceByType(ctx context.Context, userID uuid.UUID) (map[Type]decimal.Decimal, error) {
	accounts, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	byType := make(map[Type]decimal.Decimal)
	for _, a := range accounts {
		byType[a.Type] = byType[a.Type].Add(a.Balance)
	}

	return byType, nil
}

func (s *Service) get(ctx context.Context, id, userID uuid.UUID) (*Account, error) {
	a, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.NotFound("account not found")
		}

		return nil, fmt.Errorf("getting account: %w", err)
	}

	return a, nil
}
