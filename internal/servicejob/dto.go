package servicejob

import (
	"strings"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type CreateJobDTO struct {
	CustomerName  string          `json:"customer_name"`
	PlateNumber   string          `json:"plate_number"`
	VehicleModel  string          `json:"vehicle_model"`
	Complaint     string          `json:"complaint"`
	Mechanic      string          `json:"mechanic"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}

func (dto CreateJobDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("customer_name", dto.CustomerName).Required().MaxLength(120)
	v.Field("plate_number", strings.TrimSpace(dto.PlateNumber)).Required().MaxLength(15)
	v.Field("vehicle_model", dto.VehicleModel).MaxLength(80)
	v.Field("complaint", dto.Complaint).MaxLength(500)
	v.Field("mechanic", dto.Mechanic).MaxLength(80)
	v.Field("estimated_cost", dto.EstimatedCost).NonNegative(errors.ErrCodeInvalidAmount)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateStatusDTO struct {
	Status   Status `json:"status"`
	Mechanic string `json:"mechanic"`
}

func (dto UpdateStatusDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("status", string(dto.Status)).Required().OneOf(Statuses...)
	v.Field("mechanic", dto.Mechanic).MaxLength(80)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ListJobsDTO struct {
	Status      Status
	PlateNumber string
}

func (dto ListJobsDTO) Validate() error {
	if dto.Status == "" {
		return nil
	}
	v := validation.NewValidator()
	v.Field("status", string(dto.Status)).OneOf(Statuses...)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// normalizePlate upper-cases and collapses spaces, so "b 1234  xyz" is "B 1234 XYZ".
func normalizePlate(plate string) string {
	return strings.Join(strings.Fields(strings.ToUpper(plate)), " ")
}
