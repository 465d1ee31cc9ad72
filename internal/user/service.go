package user

import (
	"context"
	"errors"
	"fmt"

	"moneyger/internal/apperror"
)

// ErrNotFound is returned by stores when no user matches.
var ErrNotFound = errors.New("user not found")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolve maps an authenticated email to its user record. An unknown email
// is a NotFound failure like any other missing entity.
func (s *Service) Resolve(ctx context.Context, email string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.NotFound("user not found")
		}

		return nil, fmt.Errorf("resolving user: %w", err)
	}

	return u, nil
}
