package goal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"moneyger/internal/apperror"
	"moneyger/internal/dateutil"
	"moneyger/internal/money"
)

// Status is the lifecycle state of a goal. COMPLETED and ABANDONED are
// terminal for field edits and contributions; a manual override can still
// move a goal between any two states.
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusAbandoned  Status = "ABANDONED"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusInProgress, StatusCompleted, StatusAbandoned:
		return st, nil
	}

	return "", apperror.Validation("invalid goal status %q", s)
}

// Goal tracks saving toward a target amount by a target date. CurrentAmount
// never exceeds TargetAmount; contributions that would overshoot are rejected.
type Goal struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Name          string
	Description   string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	TargetDate    time.Time
	StartDate     time.Time
	AccountID     *uuid.UUID
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (g *Goal) Remaining() decimal.Decimal {
	return g.TargetAmount.Sub(g.CurrentAmount)
}

// ProgressPercentage is current/target as a 0-100 percentage; 0 for a zero
// target.
func (g *Goal) ProgressPercentage() float64 {
	return money.Percent(g.CurrentAmount, g.TargetAmount)
}

// DaysRemaining counts days from today to the target date; negative once the
// deadline has passed.
func (g *Goal) DaysRemaining(today time.Time) int {
	return dateutil.DaysBetween(today, g.TargetDate)
}

// DailyRequired is the amount per remaining day needed to reach the target,
// or zero once the deadline has passed.
func (g *Goal) DailyRequired(today time.Time) decimal.Decimal {
	days := g.DaysRemaining(today)
	if days <= 0 {
		return decimal.Zero
	}

	return money.Div2(g.Remaining(), decimal.NewFromInt(int64(days)))
}

// deriveStatus applies the automatic transitions: completed once funded,
// abandoned once the deadline passes unfunded, in progress otherwise.
func (g *Goal) deriveStatus(today time.Time) {
	switch {
	case g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount):
		g.Status = StatusCompleted
	case dateutil.Day(g.TargetDate).Before(dateutil.Day(today)):
		g.Status = StatusAbandoned
	default:
		g.Status = StatusInProgress
	}
}
