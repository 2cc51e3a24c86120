package postgres

import (
	"context"
	"time"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/common/dberr"
	salesDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/sales"
	"github.com/frahmantamala/bengkelku/internal/sales"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	"gorm.io/gorm"
)

type SaleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

func Register(u uow.UOW) error {
	return u.Register(sales.RepositoryName, func(db *gorm.DB) uow.Repository {
		return NewSaleRepository(db)
	})
}

func (r *SaleRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}

func (r *SaleRepository) Create(ctx context.Context, s *salesDatamodel.Sale) error {
	err := r.db.WithContext(ctx).Create(s).Error
	if dberr.IsDuplicate(err) {
		return errors.ErrDuplicateRecord.WithMessage("invoice " + s.InvoiceNo + " already exists").WithCause(err)
	}
	return dberr.Convert(err, nil, "failed to record sale")
}

func (r *SaleRepository) GetByID(ctx context.Context, id int64) (*salesDatamodel.Sale, error) {
	var s salesDatamodel.Sale
	if err := r.withItems(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, dberr.Convert(err, errors.ErrSaleNotFound, "failed to get sale %d", id)
	}
	return &s, nil
}

// List filters on the half-open range [from, until).
func (r *SaleRepository) List(ctx context.Context, from, until *time.Time, segment string) ([]*salesDatamodel.Sale, error) {
	var out []*salesDatamodel.Sale
	q := r.withItems(ctx).Order("sold_at DESC, id DESC")
	if from != nil {
		q = q.Where("sold_at >= ?", *from)
	}
	if until != nil {
		q = q.Where("sold_at < ?", *until)
	}
	if segment != "" {
		q = q.Where("segment = ?", segment)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, dberr.Convert(err, nil, "failed to list sales")
	}
	return out, nil
}
