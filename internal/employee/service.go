package employee

import (
	"context"
	"log/slog"

	employeeDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/employee"
	"github.com/frahmantamala/bengkelku/pkg/logger"
)

type Repository interface {
	Create(ctx context.Context, employee *employeeDatamodel.Employee) error
	GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
	List(ctx context.Context, activeOnly bool) ([]*employeeDatamodel.Employee, error)
	Update(ctx context.Context, employee *employeeDatamodel.Employee) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) CreateEmployee(ctx context.Context, dto CreateEmployeeDTO) (*Employee, error) {
	log := logger.FromOr(ctx, s.logger)
	if err := dto.Validate(); err != nil {
		log.Warn("employee validation failed", "error", err)
		return nil, err
	}

	data := ToDataModel(NewEmployee(dto))
	if err := s.repo.Create(ctx, data); err != nil {
		log.Error("failed to create employee", "error", err)
		return nil, err
	}

	log.Info("employee created", "employee_id", data.ID, "name", data.Name)
	return FromDataModel(data), nil
}

func (s *Service) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	data, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(data), nil
}

func (s *Service) ListEmployees(ctx context.Context, dto ListEmployeesDTO) ([]*Employee, error) {
	data, err := s.repo.List(ctx, dto.ActiveOnly)
	if err != nil {
		logger.FromOr(ctx, s.logger).Error("failed to list employees", "error", err)
		return nil, err
	}
	return FromDataModelSlice(data), nil
}

func (s *Service) UpdateEmployee(ctx context.Context, id int64, dto UpdateEmployeeDTO) (*Employee, error) {
	log := logger.FromOr(ctx, s.logger)
	if err := dto.Validate(); err != nil {
		log.Warn("employee validation failed", "error", err, "employee_id", id)
		return nil, err
	}

	current, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	current.Apply(dto)

	data := ToDataModel(current)
	if err := s.repo.Update(ctx, data); err != nil {
		log.Error("failed to update employee", "error", err, "employee_id", id)
		return nil, err
	}
	return FromDataModel(data), nil
}

// DeactivateEmployee keeps the record so loan history stays attached.
func (s *Service) DeactivateEmployee(ctx context.Context, id int64) (*Employee, error) {
	current, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.IsActive {
		return current, nil
	}
	current.IsActive = false

	data := ToDataModel(current)
	if err := s.repo.Update(ctx, data); err != nil {
		logger.FromOr(ctx, s.logger).Error("failed to deactivate employee", "error", err, "employee_id", id)
		return nil, err
	}
	logger.FromOr(ctx, s.logger).Info("employee deactivated", "employee_id", id)
	return FromDataModel(data), nil
}
