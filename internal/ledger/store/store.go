package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"moneyger/internal/ledger"
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

// Expected column order: id, user_id, title, description, amount, type, transaction_date, account_id, category_id, created_at, updated_at
func scanTransaction(s scanner) (*ledger.Transaction, error) {
	var t ledger.Transaction

	var typeStr string

	var desc sql.NullString

	var accountID, categoryID *uuid.UUID

	if err := s.Scan(
		&t.ID, &t.UserID, &t.Title, &desc, &t.Amount, &typeStr, &t.Date,
		&accountID, &categoryID, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	t.Type = ledger.Type(typeStr)
	t.Description = desc.String
	t.AccountID = accountID
	t.CategoryID = categoryID

	return &t, nil
}

const selectTransactionColumns = `
	id, user_id, title, description, amount, type, transaction_date,
	account_id, category_id, created_at, updated_at
`

func (s *Store) Get(ctx context.Context, id, userID uuid.UUID) (*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`

	t, err := scanTransaction(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return t, nil
}

func (s *Store) ListByUser(ctx context.Context, userID uuid.UUID) ([]*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE user_id = $1 ORDER BY created_at`

	return s.list(ctx, query, userID)
}

func (s *Store) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions WHERE user_id = $1
		ORDER BY transaction_date DESC, created_at DESC
		LIMIT $2`

	return s.list(ctx, query, userID, limit)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]*ledger.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*ledger.Transaction

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, t)
	}

	return txs, rows.Err()
}

func (s *Store) Begin(ctx context.Context) (ledger.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	return &storeTx{tx: tx}, nil
}

type storeTx struct {
	tx *sql.Tx
}

func (s *storeTx) CreateTransaction(ctx context.Context, t *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, title, description, amount, type, transaction_date, account_id, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.tx.QueryRowContext(ctx, query,
		t.UserID, t.Title, t.Description, t.Amount, t.Type, t.Date, t.AccountID, t.CategoryID,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *storeTx) SaveTransaction(ctx context.Context, t *ledger.Transaction) error {
	query := `
		UPDATE transactions
		SET title = $1, description = $2, amount = $3, type = $4, transaction_date = $5,
		    account_id = $6, category_id = $7, updated_at = NOW()
		WHERE id = $8 AND user_id = $9
		RETURNING updated_at
	`

	err := s.tx.QueryRowContext(ctx, query,
		t.Title, t.Description, t.Amount, t.Type, t.Date, t.AccountID, t.CategoryID, t.ID, t.UserID,
	).Scan(&t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ledger.ErrNotFound
		}

		return fmt.Errorf("saving transaction: %w", err)
	}

	return nil
}

func (s *storeTx) DeleteTransaction(ctx context.Context, id, userID uuid.UUID) error {
	res, err := s.tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ledger.ErrNotFound
	}

	return nil
}

func (s *storeTx) AddToBalance(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) error {
	res, err := s.tx.ExecContext(ctx,
		`UPDATE accounts SET balance = balance + $1, updated_at = NOW() WHERE id = $2`,
		delta, accountID,
	)
	if err != nil {
		return fmt.Errorf("adjusting balance: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ledger.ErrNotFound
	}

	return nil
}

func (s *storeTx) Commit() error {
	return s.tx.Commit()
}

func (s *storeTx) Rollback() error {
	return s.tx.Rollback()
}
