package employee

import (
	"time"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type CreateEmployeeDTO struct {
	Name       string          `json:"name"`
	Position   string          `json:"position"`
	Phone      string          `json:"phone"`
	BaseSalary decimal.Decimal `json:"base_salary"`
	JoinedAt   time.Time       `json:"joined_at"`
}

func (dto CreateEmployeeDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(120)
	v.Field("position", dto.Position).MaxLength(80)
	v.Field("phone", dto.Phone).MaxLength(30)
	v.Field("base_salary", dto.BaseSalary).NonNegative(errors.ErrCodeInvalidAmount)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateEmployeeDTO struct {
	Name       string          `json:"name"`
	Position   string          `json:"position"`
	Phone      string          `json:"phone"`
	BaseSalary decimal.Decimal `json:"base_salary"`
	JoinedAt   time.Time       `json:"joined_at"`
}

func (dto UpdateEmployeeDTO) Validate() error {
	return CreateEmployeeDTO(dto).Validate()
}

type ListEmployeesDTO struct {
	ActiveOnly bool
}
