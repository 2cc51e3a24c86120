package servicejob

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/bengkelku/internal"
	servicejobDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/servicejob"
	"github.com/frahmantamala/bengkelku/internal/core/events"
	"github.com/frahmantamala/bengkelku/pkg/logger"
	"github.com/frahmantamala/bengkelku/pkg/uow"
)

type Repository interface {
	Create(ctx context.Context, job *servicejobDatamodel.Job) error
	GetByID(ctx context.Context, id int64) (*servicejobDatamodel.Job, error)
	List(ctx context.Context, status, plateNumber string) ([]*servicejobDatamodel.Job, error)
	SwapStatus(ctx context.Context, job *servicejobDatamodel.Job, expected string) error
}

type Service struct {
	uow       uow.UOW
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(u uow.UOW, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		uow:       u,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) repository() (Repository, error) {
	return uow.GetRepositoryAs[Repository](s.uow, RepositoryName)
}

func (s *Service) CreateJob(ctx context.Context, dto CreateJobDTO) (*Job, error) {
	log := logger.FromOr(ctx, s.logger)
	if err := dto.Validate(); err != nil {
		log.Warn("service job validation failed", "error", err)
		return nil, err
	}

	repo, err := s.repository()
	if err != nil {
		return nil, err
	}
	data := ToDataModel(NewJob(dto))
	if err := repo.Create(ctx, data); err != nil {
		log.Error("failed to create service job", "error", err)
		return nil, err
	}

	log.Info("service job queued", "job_id", data.ID, "plate_number", data.PlateNumber)
	return FromDataModel(data), nil
}

func (s *Service) GetJob(ctx context.Context, id int64) (*Job, error) {
	repo, err := s.repository()
	if err != nil {
		return nil, err
	}
	data, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(data), nil
}

func (s *Service) ListJobs(ctx context.Context, dto ListJobsDTO) ([]*Job, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	repo, err := s.repository()
	if err != nil {
		return nil, err
	}
	data, err := repo.List(ctx, string(dto.Status), normalizePlate(dto.PlateNumber))
	if err != nil {
		logger.FromOr(ctx, s.logger).Error("failed to list service jobs", "error", err)
		return nil, err
	}
	return FromDataModelSlice(data), nil
}

// UpdateStatus moves a job along queued, in_progress, done, picked_up.
// Jobs can be cancelled until the work is done.
func (s *Service) UpdateStatus(ctx context.Context, id int64, dto UpdateStatusDTO) (*Job, error) {
	log := logger.FromOr(ctx, s.logger).With("job_id", id)
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	repo, err := s.repository()
	if err != nil {
		return nil, err
	}
	data, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	job := FromDataModel(data)
	from := job.Status
	if !job.MoveTo(dto.Status, s.now().UTC()) {
		log.Warn("service job transition rejected", "from", from, "to", dto.Status)
		return nil, errors.ErrInvalidStatusTransition.WithDetails(map[string]string{
			"from": string(from),
			"to":   string(dto.Status),
		})
	}
	if dto.Mechanic != "" {
		job.Mechanic = dto.Mechanic
	}

	data = ToDataModel(job)
	if err := repo.SwapStatus(ctx, data, string(from)); err != nil {
		log.Warn("failed to update service job", "error", err)
		return nil, err
	}
	job.UpdatedAt = data.UpdatedAt

	log.Info("service job status changed", "from", from, "to", job.Status)
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewServiceJobStatusChanged(job.ID, job.PlateNumber,
			string(from), string(job.Status))); err != nil {
			log.Error("failed to publish service job event", "error", err)
		}
	}
	return job, nil
}
