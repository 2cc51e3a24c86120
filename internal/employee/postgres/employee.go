package postgres

import (
	"context"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/common/dberr"
	employeeDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/employee"
	"github.com/frahmantamala/bengkelku/internal/employee"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func Register(u uow.UOW) error {
	return u.Register(employee.RepositoryName, func(db *gorm.DB) uow.Repository {
		return NewEmployeeRepository(db)
	})
}

func (r *EmployeeRepository) Create(ctx context.Context, e *employeeDatamodel.Employee) error {
	err := r.db.WithContext(ctx).Create(e).Error
	return dberr.Convert(err, nil, "failed to create employee")
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error) {
	var e employeeDatamodel.Employee
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, dberr.Convert(err, errors.ErrEmployeeNotFound, "failed to get employee %d", id)
	}
	return &e, nil
}

func (r *EmployeeRepository) List(ctx context.Context, activeOnly bool) ([]*employeeDatamodel.Employee, error) {
	var employees []*employeeDatamodel.Employee
	q := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&employees).Error; err != nil {
		return nil, dberr.Convert(err, nil, "failed to list employees")
	}
	return employees, nil
}

// Update writes every column, including is_active=false which Updates(struct) would skip.
func (r *EmployeeRepository) Update(ctx context.Context, e *employeeDatamodel.Employee) error {
	res := r.db.WithContext(ctx).Model(&employeeDatamodel.Employee{}).
		Where("id = ?", e.ID).
		Select("name", "position", "phone", "base_salary", "joined_at", "is_active", "updated_at").
		Updates(e)
	if res.Error != nil {
		return dberr.Convert(res.Error, nil, "failed to update employee %d", e.ID)
	}
	if res.RowsAffected == 0 {
		return errors.ErrEmployeeNotFound
	}
	return nil
}
