package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"moneyger/internal/apperror"
	"moneyger/internal/money"
)

// Period classifies the budget window. It is informational only; spend is
// always measured over the explicit start/end dates.
type Period string

const (
	PeriodDaily     Period = "DAILY"
	PeriodWeekly    Period = "WEEKLY"
	PeriodMonthly   Period = "MONTHLY"
	PeriodQuarterly Period = "QUARTERLY"
	PeriodYearly    Period = "YEARLY"
	PeriodCustom    Period = "CUSTOM"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodYearly, PeriodCustom:
		return p, nil
	}

	return "", apperror.Validation("invalid budget period %q", s)
}

// Status buckets a budget by how much of its cap is consumed.
type Status string

const (
	StatusUnderBudget Status = "UNDER_BUDGET"
	StatusModerate    Status = "MODERATE"
	StatusNearLimit   Status = "NEAR_LIMIT"
	StatusOverBudget  Status = "OVER_BUDGET"
)

// Budget caps spending over a date window, optionally scoped to one expense
// category. SpentAmount is a cache recomputed on every read path, never
// trusted as-is.
type Budget struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Description string
	Amount      decimal.Decimal
	SpentAmount decimal.Decimal
	StartDate   time.Time
	EndDate     time.Time
	Period      Period
	CategoryID  *uuid.UUID
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (b *Budget) Remaining() decimal.Decimal {
	return b.Amount.Sub(b.SpentAmount)
}

// PercentageUsed is spent/amount as a 0-100 percentage; 0 for a zero cap.
func (b *Budget) PercentageUsed() float64 {
	return money.Percent(b.SpentAmount, b.Amount)
}

func (b *Budget) IsOverBudget() bool {
	return b.SpentAmount.GreaterThan(b.Amount)
}

// Status maps consumption onto the four buckets: >=100 over, >=80 near,
// >=50 moderate, else under.
func (b *Budget) Status() Status {
	switch pct := b.PercentageUsed(); {
	case pct >= 100:
		return StatusOverBudget
	case pct >= 80:
		return StatusNearLimit
	case pct >= 50:
		return StatusModerate
	default:
		return StatusUnderBudget
	}
}
