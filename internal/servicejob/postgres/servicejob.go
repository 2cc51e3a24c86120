package postgres

import (
	"context"
	"time"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/common/dberr"
	servicejobDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/servicejob"
	"github.com/frahmantamala/bengkelku/internal/servicejob"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	"gorm.io/gorm"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func Register(u uow.UOW) error {
	return u.Register(servicejob.RepositoryName, func(db *gorm.DB) uow.Repository {
		return NewJobRepository(db)
	})
}

func (r *JobRepository) Create(ctx context.Context, j *servicejobDatamodel.Job) error {
	err := r.db.WithContext(ctx).Create(j).Error
	return dberr.Convert(err, nil, "failed to create service job")
}

func (r *JobRepository) GetByID(ctx context.Context, id int64) (*servicejobDatamodel.Job, error) {
	var j servicejobDatamodel.Job
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&j).Error; err != nil {
		return nil, dberr.Convert(err, errors.ErrServiceJobNotFound, "failed to get service job %d", id)
	}
	return &j, nil
}

func (r *JobRepository) List(ctx context.Context, status, plateNumber string) ([]*servicejobDatamodel.Job, error) {
	var jobs []*servicejobDatamodel.Job
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if plateNumber != "" {
		q = q.Where("plate_number = ?", plateNumber)
	}
	if err := q.Find(&jobs).Error; err != nil {
		return nil, dberr.Convert(err, nil, "failed to list service jobs")
	}
	return jobs, nil
}

func (r *JobRepository) SwapStatus(ctx context.Context, j *servicejobDatamodel.Job, expected string) error {
	j.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).Model(&servicejobDatamodel.Job{}).
		Where("id = ? AND status = ?", j.ID, expected).
		Updates(map[string]interface{}{
			"status":       j.Status,
			"mechanic":     j.Mechanic,
			"started_at":   j.StartedAt,
			"finished_at":  j.FinishedAt,
			"picked_up_at": j.PickedUpAt,
			"updated_at":   j.UpdatedAt,
		})
	if res.Error != nil {
		return dberr.Convert(res.Error, nil, "failed to update service job %d", j.ID)
	}
	if res.RowsAffected == 0 {
		return errors.ErrConcurrentUpdate
	}
	return nil
}
