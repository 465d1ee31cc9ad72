package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"moneyger/internal/apperror"
)

// ErrNotFound is returned by stores when no category matches the id/owner pair.
var ErrNotFound = errors.New("category not found")

// maxDepth bounds the ancestor walk when validating a parent link. A forest
// deeper than this is rejected outright rather than risking an unbounded loop
// on corrupted data.
const maxDepth = 32

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	Create(ctx context.Context, c *Category) error
	Get(ctx context.Context, id, userID uuid.UUID) (*Category, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	ExistsByName(ctx context.Context, userID uuid.UUID, name string) (bool, error)
	CountTransactions(ctx context.Context, id uuid.UUID) (int, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name     string
	Type     string
	ParentID *uuid.UUID
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Category, error) {
	typ, err := ParseType(params.Type)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByName(ctx, userID, params.Name)
	if err != nil {
		return nil, fmt.Errorf("checking category name: %w", err)
	}

	if exists {
		return nil, apperror.BusinessRule("category %q already exists", params.Name)
	}

	c := &Category{
		Name:   params.Name,
		Type:   typ,
		UserID: userID,
	}

	if params.ParentID != nil {
		if _, err := s.get(ctx, *params.ParentID, userID); err != nil {
			return nil, err
		}

		c.ParentID = params.ParentID
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	return c, nil
}

func (s *Service) Update(ctx context.Context, id, userID uuid.UUID, params CreateParams) (*Category, error) {
	c, err := s.get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	typ, err := ParseType(params.Type)
	if err != nil {
		return nil, err
	}

	if params.ParentID != nil {
		if _, err := s.get(ctx, *params.ParentID, userID); err != nil {
			return nil, err
		}

		if err := s.checkNoCycle(ctx, c.ID, *params.ParentID, userID); err != nil {
			return nil, err
		}
	}

	c.Name = params.Name
	c.Type = typ
	c.ParentID = params.ParentID

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("updating category: %w", err)
	}

	return c, nil
}

func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	c, err := s.get(ctx, id, userID)
	if err != nil {
		return err
	}

	count, err := s.repo.CountTransactions(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("counting category transactions: %w", err)
	}

	if count > 0 {
		return apperror.BusinessRule("cannot delete category with existing transactions")
	}

	if err := s.repo.Delete(ctx, c.ID, userID); err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*Category, error) {
	return s.get(ctx, id, userID)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Category, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListByType(ctx context.Context, userID uuid.UUID, typ Type) ([]*Category, error) {
	all, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var out []*Category

	for _, c := range all {
		if c.Type == typ {
			out = append(out, c)
		}
	}

	return out, nil
}

// Parents returns the roots of the user's category forest.
func (s *Service) Parents(ctx context.Context, userID uuid.UUID) ([]*Category, error) {
	all, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var out []*Category

	for _, c := range all {
		if c.ParentID == nil {
			out = append(out, c)
		}
	}

	return out, nil
}

func (s *Service) Subcategories(ctx context.Context, parentID, userID uuid.UUID) ([]*Category, error) {
	if _, err := s.get(ctx, parentID, userID); err != nil {
		return nil, err
	}

	all, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var out []*Category

	for _, c := range all {
		if c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, c)
		}
	}

	return out, nil
}

// checkNoCycle walks up from the proposed parent and rejects the link if it
// ever reaches the category being re-parented.
func (s *Service) checkNoCycle(ctx context.Context, id, parentID, userID uuid.UUID) error {
	current := parentID

	for i := 0; i < maxDepth; i++ {
		if current == id {
			return apperror.BusinessRule("category cannot be its own ancestor")
		}

		node, err := s.get(ctx, current, userID)
		if err != nil {
			return err
		}

		if node.ParentID == nil {
			return nil
		}

		current = *node.ParentID
	}

	return apperror.BusinessRule("category hierarchy too deep")
}

func (s *Service) get(ctx context.Context, id, userID uuid.UUID) (*Category, error) {
	c, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.NotFound("category not found")
		}

		return nil, fmt.Errorf("getting category: %w", err)
	}

	return c, nil
}
