package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"moneyger/internal/goal"
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

// Expected column order: id, user_id, name, description, target_amount, current_amount, target_date, start_date, account_id, status, created_at, updated_at
func scanGoal(s scanner) (*goal.Goal, error) {
	var g goal.Goal

	var statusStr string

	var desc sql.NullString

	var accountID *uuid.UUID

	if err := s.Scan(
		&g.ID, &g.UserID, &g.Name, &desc, &g.TargetAmount, &g.CurrentAmount,
		&g.TargetDate, &g.StartDate, &accountID, &statusStr,
		&g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		return nil, err
	}

	g.Status = goal.Status(statusStr)
	g.Description = desc.String
	g.AccountID = accountID

	return &g, nil
}

const selectGoalColumns = `
	id, user_id, name, description, target_amount, current_amount, target_date,
	start_date, account_id, status, created_at, updated_at
`

func (s *Store) Create(ctx context.Context, g *goal.Goal) error {
	query := `
		INSERT INTO goals (user_id, name, description, target_amount, current_amount, target_date, start_date, account_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		g.UserID, g.Name, g.Description, g.TargetAmount, g.CurrentAmount,
		g.TargetDate, g.StartDate, g.AccountID, g.Status,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating goal: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id, userID uuid.UUID) (*goal.Goal, error) {
	query := `SELECT ` + selectGoalColumns + ` FROM goals WHERE id = $1 AND user_id = $2`

	g, err := scanGoal(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, goal.ErrNotFound
		}

		return nil, fmt.Errorf("getting goal: %w", err)
	}

	return g, nil
}

func (s *Store) ListByUser(ctx context.Context, userID uuid.UUID) ([]*goal.Goal, error) {
	query := `SELECT ` + selectGoalColumns + ` FROM goals WHERE user_id = $1 ORDER BY target_date`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()

	var goals []*goal.Goal

	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}

		goals = append(goals, g)
	}

	return goals, rows.Err()
}

func (s *Store) Update(ctx context.Context, g *goal.Goal) error {
	query := updateGoalQuery

	err := s.db.QueryRowContext(ctx, query,
		g.Name, g.Description, g.TargetAmount, g.CurrentAmount,
		g.TargetDate, g.AccountID, g.Status, g.ID, g.UserID,
	).Scan(&g.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return goal.ErrNotFound
		}

		return fmt.Errorf("updating goal: %w", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return goal.ErrNotFound
	}

	return nil
}

const updateGoalQuery = `
	UPDATE goals
	SET name = $1, description = $2, target_amount = $3, current_amount = $4,
	    target_date = $5, account_id = $6, status = $7, updated_at = NOW()
	WHERE id = $8 AND user_id = $9
	RETURNING updated_at
`

func (s *Store) Begin(ctx context.Context) (goal.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	return &storeTx{tx: tx}, nil
}

type storeTx struct {
	tx *sql.Tx
}

func (s *storeTx) SaveGoal(ctx context.Context, g *goal.Goal) error {
	err := s.tx.QueryRowContext(ctx, updateGoalQuery,
		g.Name, g.Description, g.TargetAmount, g.CurrentAmount,
		g.TargetDate, g.AccountID, g.Status, g.ID, g.UserID,
	).Scan(&g.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return goal.ErrNotFound
		}

		return fmt.Errorf("saving goal: %w", err)
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
		return goal.ErrNotFound
	}

	return nil
}

func (s *storeTx) Commit() error {
	return s.tx.Commit()
}

func (s *storeTx) Rollback() error {
	return s.tx.Rollback()
}
