package debt

import (
	"time"

	"github.com/shopspring/decimal"
)

type Entry struct {
	ID              int64           `gorm:"primaryKey"`
	Nature          string          `gorm:"column:nature;not null;index"`
	Counterparty    string          `gorm:"column:counterparty;not null"`
	Description     string          `gorm:"column:description"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric(15,2);not null"`
	RemainingAmount decimal.Decimal `gorm:"column:remaining_amount;type:numeric(15,2);not null"`
	Status          string          `gorm:"column:status;not null;index"`
	EntryDate       time.Time       `gorm:"column:entry_date;type:date"`
	DueDate         *time.Time      `gorm:"column:due_date;type:date"`
	WriteOffReason  string          `gorm:"column:write_off_reason"`
	WrittenOffAt    *time.Time      `gorm:"column:written_off_at"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Entry) TableName() string {
	return "debt_entries"
}

type Payment struct {
	ID         int64           `gorm:"primaryKey"`
	EntryID    int64           `gorm:"column:entry_id;not null;index"`
	Amount     decimal.Decimal `gorm:"column:amount;type:numeric(15,2);not null"`
	Kind       string          `gorm:"column:kind;not null"`
	ReversesID *int64          `gorm:"column:reverses_id;uniqueIndex"`
	PaidOn     time.Time       `gorm:"column:paid_on;type:date"`
	Note       string          `gorm:"column:note"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Payment) TableName() string {
	return "debt_payments"
}
