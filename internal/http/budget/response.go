package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"moneyger/internal/budget"
)

type budgetResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	SpentAmount    decimal.Decimal `json:"spent_amount"`
	Remaining      decimal.Decimal `json:"remaining"`
	PercentageUsed float64         `json:"percentage_used"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	Period         budget.Period   `json:"period"`
	CategoryID     *uuid.UUID      `json:"category_id,omitempty"`
	Active         bool            `json:"active"`
	Status         budget.Status   `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func toResponse(b *budget.Budget) budgetResponse {
	return budgetResponse{
		ID:             b.ID,
		Name:           b.Name,
		Description:    b.Description,
		Amount:         b.Amount,
		SpentAmount:    b.SpentAmount,
		Remaining:      b.Remaining(),
		PercentageUsed: b.PercentageUsed(),
		StartDate:      b.StartDate.Format(time.DateOnly),
		EndDate:        b.EndDate.Format(time.DateOnly),
		Period:         b.Period,
		CategoryID:     b.CategoryID,
		Active:         b.Active,
		Status:         b.Status(),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func toResponseList(budgets []*budget.Budget) []budgetResponse {
	resp := make([]budgetResponse, len(budgets))
	for i, b := range budgets {
		resp[i] = toResponse(b)
	}

	return resp
}

type progressResponse struct {
	BudgetID       uuid.UUID       `json:"budget_id"`
	BudgetName     string          `json:"budget_name"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	SpentAmount    decimal.Decimal `json:"spent_amount"`
	Remaining      decimal.Decimal `json:"remaining"`
	PercentageUsed float64         `json:"percentage_used"`
	IsOverBudget   bool            `json:"is_over_budget"`
	DaysElapsed    int             `json:"days_elapsed"`
	DaysRemaining  int             `json:"days_remaining"`
	DailyBudget    decimal.Decimal `json:"daily_budget"`
	DailySpent     decimal.Decimal `json:"daily_spent"`
	ProjectedSpent decimal.Decimal `json:"projected_spent"`
	Status         budget.Status   `json:"status"`
}

func toProgressResponse(p *budget.Progress) progressResponse {
	return progressResponse{
		BudgetID:       p.BudgetID,
		BudgetName:     p.BudgetName,
		TotalAmount:    p.TotalAmount,
		SpentAmount:    p.SpentAmount,
		Remaining:      p.Remaining,
		PercentageUsed: p.PercentageUsed,
		IsOverBudget:   p.IsOverBudget,
		DaysElapsed:    p.DaysElapsed,
		DaysRemaining:  p.DaysRemaining,
		DailyBudget:    p.DailyBudget,
		DailySpent:     p.DailySpent,
		ProjectedSpent: p.ProjectedSpent,
		Status:         p.Status,
	}
}

type overviewResponse struct {
	TotalBudgets       int                        `json:"total_budgets"`
	TotalAmount        decimal.Decimal            `json:"total_amount"`
	TotalSpent         decimal.Decimal            `json:"total_spent"`
	TotalRemaining     decimal.Decimal            `json:"total_remaining"`
	OverallPercentUsed float64                    `json:"overall_percent_used"`
	OnTrackCount       int                        `json:"on_track_count"`
	OverBudgetCount    int                        `json:"over_budget_count"`
	AmountByCategory   map[string]decimal.Decimal `json:"amount_by_category"`
	SpentByCategory    map[string]decimal.Decimal `json:"spent_by_category"`
	Budgets            []budgetResponse           `json:"budgets"`
}

func toOverviewResponse(o *budget.Overview) overviewResponse {
	return overviewResponse{
		TotalBudgets:       o.TotalBudgets,
		TotalAmount:        o.TotalAmount,
		TotalSpent:         o.TotalSpent,
		TotalRemaining:     o.TotalRemaining,
		OverallPercentUsed: o.OverallPercentUsed,
		OnTrackCount:       o.OnTrackCount,
		OverBudgetCount:    o.OverBudgetCount,
		AmountByCategory:   o.AmountByCategory,
		SpentByCategory:    o.SpentByCategory,
		Budgets:            toResponseList(o.Budgets),
	}
}
