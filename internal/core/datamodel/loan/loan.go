package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type Loan struct {
	ID              int64           `gorm:"primaryKey"`
	EmployeeID      int64           `gorm:"column:employee_id;not null;index"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric(15,2);not null"`
	RemainingAmount decimal.Decimal `gorm:"column:remaining_amount;type:numeric(15,2);not null"`
	Status          string          `gorm:"column:status;not null"`
	LoanDate        time.Time       `gorm:"column:loan_date;type:date"`
	Reason          string          `gorm:"column:reason"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Loan) TableName() string {
	return "employee_loans"
}

type Installment struct {
	ID         int64           `gorm:"primaryKey"`
	LoanID     int64           `gorm:"column:loan_id;not null;index"`
	Amount     decimal.Decimal `gorm:"column:amount;type:numeric(15,2);not null"`
	Kind       string          `gorm:"column:kind;not null"`
	ReversesID *int64          `gorm:"column:reverses_id;uniqueIndex"`
	PaidOn     time.Time       `gorm:"column:paid_on;type:date"`
	Note       string          `gorm:"column:note"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Installment) TableName() string {
	return "loan_installments"
}
