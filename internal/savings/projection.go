package savings

import (
	"time"

	"github.com/frahmantamala/bengkelku/internal/core/common/dates"
	"github.com/shopspring/decimal"
)

type ProjectionState string

const (
	ProjectionInsufficientData ProjectionState = "insufficient_data"
	ProjectionAchieved         ProjectionState = "achieved"
	ProjectionProjected        ProjectionState = "projected"
)

type Projection struct {
	GoalID        int64           `json:"goal_id"`
	State         ProjectionState `json:"state"`
	DailyRate     decimal.Decimal `json:"daily_rate"`
	Remaining     decimal.Decimal `json:"remaining"`
	DaysRemaining int64           `json:"days_remaining"`
	EstimatedDate *time.Time      `json:"estimated_date,omitempty"`
}

// EstimateCompletion projects the finish date linearly from the average
// daily deposit since the goal started. Only deposits count toward the
// rate; withdrawals show up through the current amount.
func EstimateCompletion(goal *Goal, transactions []*Transaction, now time.Time) Projection {
	deposited := decimal.Zero
	for _, t := range transactions {
		if t.Type == TypeDeposit {
			deposited = deposited.Add(t.Amount)
		}
	}

	elapsed := dates.DaysBetween(goal.StartDate, now) + 1
	if elapsed < 1 {
		elapsed = 1
	}

	p := Projection{
		GoalID:    goal.ID,
		DailyRate: deposited.Div(decimal.NewFromInt(int64(elapsed))),
		Remaining: goal.TargetAmount.Sub(goal.CurrentAmount),
	}
	if !p.DailyRate.IsPositive() {
		p.State = ProjectionInsufficientData
		return p
	}

	days := p.Remaining.Div(p.DailyRate).Ceil().IntPart()
	if days <= 0 {
		p.State = ProjectionAchieved
		p.Remaining = decimal.Zero
		return p
	}

	estimated := dates.Truncate(now).AddDate(0, 0, int(days))
	p.State = ProjectionProjected
	p.DaysRemaining = days
	p.EstimatedDate = &estimated
	return p
}
