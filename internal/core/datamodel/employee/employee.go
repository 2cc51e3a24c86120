package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID         int64           `gorm:"primaryKey"`
	Name       string          `gorm:"column:name;not null"`
	Position   string          `gorm:"column:position"`
	Phone      string          `gorm:"column:phone"`
	BaseSalary decimal.Decimal `gorm:"column:base_salary;type:numeric(15,2);not null;default:0"`
	JoinedAt   time.Time       `gorm:"column:joined_at;type:date"`
	IsActive   bool            `gorm:"column:is_active;default:true"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}
