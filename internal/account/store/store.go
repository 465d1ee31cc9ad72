package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"moneyger/internal/account"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, user_id, name, account_type, balance, currency, description, active, created_at, updated_at
func scanAccount(s scanner) (*account.Account, error) {
	var a account.Account

	var typeStr string

	var desc sql.NullString

	if err := s.Scan(
		&a.ID, &a.UserID, &a.Name, &typeStr, &a.Balance, &a.Currency,
		&desc, &a.Active, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}

	a.Type = account.Type(typeStr)
	a.Description = desc.String

	return &a, nil
}

const selectAccountColumns = `
	id, user_id, name, account_type, balance, currency, description, active, created_at, updated_at
`

func (s *Store) Create(ctx context.Context, a *account.Account) error {
	query := `
		INSERT INTO accounts (user_id, name, account_type, balance, currency, description, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		a.UserID, a.Name, a.Type, a.Balance, a.Currency, a.Description, a.Active,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating account: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id, userID uuid.UUID) (*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts WHERE id = $1 AND user_id = $2`

	a, err := scanAccount(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, account.ErrNotFound
		}

		return nil, fmt.Errorf("getting account: %w", err)
	}

	return a, nil
}

func (s *Store) ListActive(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts WHERE user_id = $1 AND active ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

func (s *Store) Update(ctx context.Context, a *account.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, account_type = $2, balance = $3, currency = $4, description = $5, active = $6, updated_at = NOW()
		WHERE id = $7 AND user_id = $8
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		a.Name, a.Type, a.Balance, a.Currency, a.Description, a.Active, a.ID, a.UserID,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return account.ErrNotFound
		}

		return fmt.Errorf("updating account: %w", err)
	}

	return nil
}
