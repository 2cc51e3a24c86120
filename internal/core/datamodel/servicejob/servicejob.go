package servicejob

import (
	"time"

	"github.com/shopspring/decimal"
)

type Job struct {
	ID            int64           `gorm:"primaryKey"`
	CustomerName  string          `gorm:"column:customer_name;not null"`
	PlateNumber   string          `gorm:"column:plate_number;not null;index"`
	VehicleModel  string          `gorm:"column:vehicle_model"`
	Complaint     string          `gorm:"column:complaint"`
	Mechanic      string          `gorm:"column:mechanic"`
	Status        string          `gorm:"column:status;not null;index"`
	EstimatedCost decimal.Decimal `gorm:"column:estimated_cost;type:numeric(15,2);not null;default:0"`
	StartedAt     *time.Time      `gorm:"column:started_at"`
	FinishedAt    *time.Time      `gorm:"column:finished_at"`
	PickedUpAt    *time.Time      `gorm:"column:picked_up_at"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Job) TableName() string {
	return "service_jobs"
}
