package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"moneyger/internal/apperror"
)

// Type is the direction of a transaction.
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

	return "", apperror.Validation("type must be INCOME or EXPENSE")
}

// Transaction is one entry in the log. Amount is always positive; Type
// carries the sign.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	Amount      decimal.Decimal
	Type        Type
	Date        time.Time
	AccountID   *uuid.UUID
	CategoryID  *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// delta is the signed effect of the transaction on a linked account balance.
func (t *Transaction) delta() decimal.Decimal {
	if t.Type == TypeIncome {
		return t.Amount
	}

	return t.Amount.Neg()
}

// Filter narrows a user's transaction log. Nil fields do not constrain their
// dimension; set fields combine with AND semantics.
type Filter struct {
	Type       *Type
	StartDate  *time.Time
	EndDate    *time.Time
	AccountID  *uuid.UUID
	CategoryID *uuid.UUID
}

func (f Filter) matches(t *Transaction) bool {
	if f.Type != nil && t.Type != *f.Type {
		return false
	}

	if f.StartDate != nil && t.Date.Before(*f.StartDate) {
		return false
	}

	if f.EndDate != nil && t.Date.After(*f.EndDate) {
		return false
	}

	if f.AccountID != nil && (t.AccountID == nil || *t.AccountID != *f.AccountID) {
		return false
	}

	if f.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *f.CategoryID) {
		return false
	}

	return true
}
