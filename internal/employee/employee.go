package employee

import (
	"time"

	employeeDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/employee"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	"github.com/shopspring/decimal"
)

const RepositoryName uow.RepositoryName = "employee"

type Employee struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Position   string          `json:"position"`
	Phone      string          `json:"phone"`
	BaseSalary decimal.Decimal `json:"base_salary"`
	JoinedAt   time.Time       `json:"joined_at"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func NewEmployee(dto CreateEmployeeDTO) *Employee {
	return &Employee{
		Name:       dto.Name,
		Position:   dto.Position,
		Phone:      dto.Phone,
		BaseSalary: dto.BaseSalary,
		JoinedAt:   dto.JoinedAt,
		IsActive:   true,
	}
}

func (e *Employee) CanBorrow() bool {
	return e.IsActive
}

func (e *Employee) Apply(dto UpdateEmployeeDTO) {
	e.Name = dto.Name
	e.Position = dto.Position
	e.Phone = dto.Phone
	e.BaseSalary = dto.BaseSalary
	if !dto.JoinedAt.IsZero() {
		e.JoinedAt = dto.JoinedAt
	}
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:         e.ID,
		Name:       e.Name,
		Position:   e.Position,
		Phone:      e.Phone,
		BaseSalary: e.BaseSalary,
		JoinedAt:   e.JoinedAt,
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:         e.ID,
		Name:       e.Name,
		Position:   e.Position,
		Phone:      e.Phone,
		BaseSalary: e.BaseSalary,
		JoinedAt:   e.JoinedAt,
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func FromDataModelSlice(employees []*employeeDatamodel.Employee) []*Employee {
	result := make([]*Employee, len(employees))
	for i, e := range employees {
		result[i] = FromDataModel(e)
	}
	return result
}
