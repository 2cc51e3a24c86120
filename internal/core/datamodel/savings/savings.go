package savings

import (
	"time"

	"github.com/shopspring/decimal"
)

type Goal struct {
	ID            int64           `gorm:"primaryKey"`
	Name          string          `gorm:"column:name;not null"`
	TargetAmount  decimal.Decimal `gorm:"column:target_amount;type:numeric(15,2);not null"`
	CurrentAmount decimal.Decimal `gorm:"column:current_amount;type:numeric(15,2);not null"`
	Status        string          `gorm:"column:status;not null"`
	StartDate     time.Time       `gorm:"column:start_date;type:date"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Goal) TableName() string {
	return "savings_goals"
}

type Transaction struct {
	ID              int64           `gorm:"primaryKey"`
	GoalID          int64           `gorm:"column:goal_id;not null;index"`
	Type            string          `gorm:"column:type;not null"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric(15,2);not null"`
	TransactionDate time.Time       `gorm:"column:transaction_date;type:date"`
	Note            string          `gorm:"column:note"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Transaction) TableName() string {
	return "savings_transactions"
}
