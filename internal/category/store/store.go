package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"moneyger/internal/category"
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

// Expected column order: id, user_id, name, type, parent_id, created_at, updated_at
func scanCategory(s scanner) (*category.Category, error) {
	var c category.Category

	var typeStr string

	var parentID *uuid.UUID

	if err := s.Scan(&c.ID, &c.UserID, &c.Name, &typeStr, &parentID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}

	c.Type = category.Type(typeStr)
	c.ParentID = parentID

	return &c, nil
}

const selectCategoryColumns = `id, user_id, name, type, parent_id, created_at, updated_at`

func (s *Store) Create(ctx context.Context, c *category.Category) error {
	query := `
		INSERT INTO categories (user_id, name, type, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query, c.UserID, c.Name, c.Type, c.ParentID).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating category: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id, userID uuid.UUID) (*category.Category, error) {
	query := `SELECT ` + selectCategoryColumns + ` FROM categories WHERE id = $1 AND user_id = $2`

	c, err := scanCategory(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, category.ErrNotFound
		}

		return nil, fmt.Errorf("getting category: %w", err)
	}

	return c, nil
}

func (s *Store) ListByUser(ctx context.Context, userID uuid.UUID) ([]*category.Category, error) {
	query := `SELECT ` + selectCategoryColumns + ` FROM categories WHERE user_id = $1 ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []*category.Category

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (s *Store) Update(ctx context.Context, c *category.Category) error {
	query := `
		UPDATE categories
		SET name = $1, type = $2, parent_id = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query, c.Name, c.Type, c.ParentID, c.ID, c.UserID).
		Scan(&c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return category.ErrNotFound
		}

		return fmt.Errorf("updating category: %w", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return category.ErrNotFound
	}

	return nil
}

func (s *Store) ExistsByName(ctx context.Context, userID uuid.UUID, name string) (bool, error) {
	var exists bool

	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE user_id = $1 AND name = $2)`,
		userID, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking category name: %w", err)
	}

	return exists, nil
}

func (s *Store) CountTransactions(ctx context.Context, id uuid.UUID) (int, error) {
	var count int

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE category_id = $1`, id,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting transactions: %w", err)
	}

	return count, nil
}
