package category

import (
	"time"

	"github.com/google/uuid"

	"moneyger/internal/apperror"
)

// Type partitions categories between the two transaction kinds.
type Type string

const (
	TypeIncome  Type = "INCOME"
	TypeExpense Type = "EXPENSE"
)

func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeIncome, TypeExpense:
		return t, nil
	}

	return "", apperror.Validation("category type must be INCOME or EXPENSE")
}

// Category is a node in a per-user forest. ParentID is nil for roots; the
// service rejects links that would introduce a cycle.
type Category struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Type      Type
	ParentID  *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}
