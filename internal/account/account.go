package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"moneyger/internal/apperror"
)

// Type classifies an account.
type Type string

const (
	TypeSavings    Type = "SAVINGS"
	TypeChecking   Type = "CHECKING"
	TypeCreditCard Type = "CREDIT_CARD"
	TypeCash       Type = "CASH"
	TypeInvestment Type = "INVESTMENT"
	TypeLoan       Type = "LOAN"
	TypeOther      Type = "OTHER"
)

// ParseType validates a symbolic account type name.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeSavings, TypeChecking, TypeCreditCard, TypeCash, TypeInvestment, TypeLoan, TypeOther:
		return t, nil
	}

	return "", apperror.Validation("invalid account type %q", s)
}

// Account holds money for one user. Balance is derived: it tracks the signed
// sum of linked transactions plus goal contributions, and may go negative
// even though it starts non-negative.
type Account struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Type        Type
	Balance     decimal.Decimal
	Currency    string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
