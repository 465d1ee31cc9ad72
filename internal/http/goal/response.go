package goal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"moneyger/internal/goal"
)

type goalResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description,omitempty"`
	TargetAmount       decimal.Decimal `json:"target_amount"`
	CurrentAmount      decimal.Decimal `json:"current_amount"`
	Remaining          decimal.Decimal `json:"remaining"`
	ProgressPercentage float64         `json:"progress_percentage"`
	TargetDate         string          `json:"target_date"`
	StartDate          string          `json:"start_date"`
	AccountID          *uuid.UUID      `json:"account_id,omitempty"`
	Status             goal.Status     `json:"status"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func toResponse(g *goal.Goal) goalResponse {
	return goalResponse{
		ID:                 g.ID,
		Name:               g.Name,
		Description:        g.Description,
		TargetAmount:       g.TargetAmount,
		CurrentAmount:      g.CurrentAmount,
		Remaining:          g.Remaining(),
		ProgressPercentage: g.ProgressPercentage(),
		TargetDate:         g.TargetDate.Format(time.DateOnly),
		StartDate:          g.StartDate.Format(time.DateOnly),
		AccountID:          g.AccountID,
		Status:             g.Status,
		CreatedAt:          g.CreatedAt,
		UpdatedAt:          g.UpdatedAt,
	}
}

func toResponseList(goals []*goal.Goal) []goalResponse {
	resp := make([]goalResponse, len(goals))
	for i, g := range goals {
		resp[i] = toResponse(g)
	}

	return resp
}

type progressResponse struct {
	GoalID                  uuid.UUID               `json:"goal_id"`
	GoalName                string                  `json:"goal_name"`
	TargetAmount            decimal.Decimal         `json:"target_amount"`
	CurrentAmount           decimal.Decimal         `json:"current_amount"`
	Remaining               decimal.Decimal         `json:"remaining"`
	ProgressPercentage      float64                 `json:"progress_percentage"`
	Status                  goal.Status             `json:"status"`
	TargetDate              string                  `json:"target_date"`
	DaysRemaining           int                     `json:"days_remaining"`
	DailyRequired           decimal.Decimal         `json:"daily_required"`
	EstimatedCompletionDate *string                 `json:"estimated_completion_date,omitempty"`
	IsOnTrack               bool                    `json:"is_on_track"`
	Milestones              map[int]decimal.Decimal `json:"milestones"`
}

func toProgressResponse(p *goal.Progress) progressResponse {
	resp := progressResponse{
		GoalID:             p.GoalID,
		GoalName:           p.GoalName,
		TargetAmount:       p.TargetAmount,
		CurrentAmount:      p.CurrentAmount,
		Remaining:          p.Remaining,
		ProgressPercentage: p.ProgressPercentage,
		Status:             p.Status,
		TargetDate:         p.TargetDate.Format(time.DateOnly),
		DaysRemaining:      p.DaysRemaining,
		DailyRequired:      p.DailyRequired,
		IsOnTrack:          p.IsOnTrack,
		Milestones:         p.Milestones,
	}

	if p.EstimatedCompletionDate != nil {
		d := p.EstimatedCompletionDate.Format(time.DateOnly)
		resp.EstimatedCompletionDate = &d
	}

	return resp
}

type overviewResponse struct {
	TotalGoals      int             `json:"total_goals"`
	TotalTarget     decimal.Decimal `json:"total_target"`
	TotalSaved      decimal.Decimal `json:"total_saved"`
	TotalRemaining  decimal.Decimal `json:"total_remaining"`
	OverallProgress float64         `json:"overall_progress"`
	InProgressCount int             `json:"in_progress_count"`
	CompletedCount  int             `json:"completed_count"`
	AbandonedCount  int             `json:"abandoned_count"`
	NearestDeadline *goalResponse   `json:"nearest_deadline,omitempty"`
	MostFunded      *goalResponse   `json:"most_funded,omitempty"`
	Goals           []goalResponse  `json:"goals"`
}

func toOverviewResponse(o *goal.Overview) overviewResponse {
	resp := overviewResponse{
		TotalGoals:      o.TotalGoals,
		TotalTarget:     o.TotalTarget,
		TotalSaved:      o.TotalSaved,
		TotalRemaining:  o.TotalRemaining,
		OverallProgress: o.OverallProgress,
		InProgressCount: o.InProgressCount,
		CompletedCount:  o.CompletedCount,
		AbandonedCount:  o.AbandonedCount,
		Goals:           toResponseList(o.Goals),
	}

	if o.NearestDeadline != nil {
		nearest := toResponse(o.NearestDeadline)
		resp.NearestDeadline = &nearest
	}

	if o.MostFunded != nil {
		mostFunded := toResponse(o.MostFunded)
		resp.MostFunded = &mostFunded
	}

	return resp
}
