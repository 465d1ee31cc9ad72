package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"moneyger/internal/budget"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, user_id, name, description, amount, spent_amount, start_date, end_date, period, category_id, active, created_at, updated_at
func scanBudget(s scanner) (*budget.Budget, error) {
	var b budget.Budget

	var periodStr string

	var desc sql.NullString

	var categoryID *uuid.UUID

	if err := s.Scan(
		&b.ID, &b.UserID, &b.Name, &desc, &b.Amount, &b.SpentAmount,
		&b.StartDate, &b.EndDate, &periodStr, &categoryID, &b.Active,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}

	b.Period = budget.Period(periodStr)
	b.Description = desc.String
	b.CategoryID = categoryID

	return &b, nil
}

const selectBudgetColumns = `
	id, user_id, name, description, amount, spent_amount, start_date, end_date,
	period, category_id, active, created_at, updated_at
`

func (s *Store) Create(ctx context.Context, b *budget.Budget) error {
	query := `
		INSERT INTO budgets (user_id, name, description, amount, spent_amount, start_date, end_date, period, category_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		b.UserID, b.Name, b.Description, b.Amount, b.SpentAmount,
		b.StartDate, b.EndDate, b.Period, b.CategoryID, b.Active,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating budget: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id, userID uuid.UUID) (*budget.Budget, error) {
	query := `SELECT ` + selectBudgetColumns + ` FROM budgets WHERE id = $1 AND user_id = $2`

	b, err := scanBudget(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, budget.ErrNotFound
		}

		return nil, fmt.Errorf("getting budget: %w", err)
	}

	return b, nil
}

func (s *Store) ListByUser(ctx context.Context, userID uuid.UUID) ([]*budget.Budget, error) {
	query := `SELECT ` + selectBudgetColumns + ` FROM budgets WHERE user_id = $1 ORDER BY start_date`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*budget.Budget

	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning budget: %w", err)
		}

		budgets = append(budgets, b)
	}

	return budgets, rows.Err()
}

func (s *Store) Update(ctx context.Context, b *budget.Budget) error {
	query := `
		UPDATE budgets
		SET name = $1, description = $2, amount = $3, start_date = $4, end_date = $5,
		    period = $6, category_id = $7, active = $8, updated_at = NOW()
		WHERE id = $9 AND user_id = $10
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		b.Name, b.Description, b.Amount, b.StartDate, b.EndDate,
		b.Period, b.CategoryID, b.Active, b.ID, b.UserID,
	).Scan(&b.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return budget.ErrNotFound
		}

		return fmt.Errorf("updating budget: %w", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting budget: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return budget.ErrNotFound
	}

	return nil
}

func (s *Store) SaveSpent(ctx context.Context, id uuid.UUID, spent decimal.Decimal) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE budgets SET spent_amount = $1, updated_at = NOW() WHERE id = $2`,
		spent, id,
	)
	if err != nil {
		return fmt.Errorf("saving spent amount: %w", err)
	}

	return nil
}
