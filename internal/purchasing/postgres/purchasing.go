package postgres

import (
	"context"
	"time"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/common/dberr"
	purchasingDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/purchasing"
	"github.com/frahmantamala/bengkelku/internal/purchasing"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func Register(u uow.UOW) error {
	return u.Register(purchasing.RepositoryName, func(db *gorm.DB) uow.Repository {
		return NewOrderRepository(db)
	})
}

func (r *OrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC, id ASC")
	})
}

func (r *OrderRepository) Create(ctx context.Context, o *purchasingDatamodel.SupplierOrder) error {
	err := r.db.WithContext(ctx).Create(o).Error
	if dberr.IsDuplicate(err) {
		return errors.ErrDuplicateRecord.WithMessage("order number " + o.OrderNumber + " already exists").WithCause(err)
	}
	return dberr.Convert(err, nil, "failed to create supplier order")
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*purchasingDatamodel.SupplierOrder, error) {
	var o purchasingDatamodel.SupplierOrder
	if err := r.withItems(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, dberr.Convert(err, errors.ErrSupplierOrderNotFound, "failed to get supplier order %d", id)
	}
	return &o, nil
}

func (r *OrderRepository) List(ctx context.Context, statuses []string) ([]*purchasingDatamodel.SupplierOrder, error) {
	var orders []*purchasingDatamodel.SupplierOrder
	q := r.withItems(ctx).Order("order_date DESC, id DESC")
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, dberr.Convert(err, nil, "failed to list supplier orders")
	}
	return orders, nil
}

func (r *OrderRepository) SwapStatus(ctx context.Context, o *purchasingDatamodel.SupplierOrder, expected string) error {
	res := r.db.WithContext(ctx).Model(&purchasingDatamodel.SupplierOrder{}).
		Where("id = ? AND status = ?", o.ID, expected).
		Updates(map[string]interface{}{
			"status":         o.Status,
			"invoice_number": o.InvoiceNumber,
			"receipt_notes":  o.ReceiptNotes,
			"received_at":    o.ReceivedAt,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return dberr.Convert(res.Error, nil, "failed to update supplier order %d", o.ID)
	}
	if res.RowsAffected == 0 {
		return errors.ErrConcurrentUpdate
	}
	return nil
}

func (r *OrderRepository) SwapItemReceipt(ctx context.Context, item *purchasingDatamodel.SupplierOrderItem, expectedReceived int64) error {
	res := r.db.WithContext(ctx).Model(&purchasingDatamodel.SupplierOrderItem{}).
		Where("id = ? AND quantity_received = ?", item.ID, expectedReceived).
		Updates(map[string]interface{}{
			"quantity_received": item.QuantityReceived,
			"actual_cost_price": item.ActualCostPrice,
		})
	if res.Error != nil {
		return dberr.Convert(res.Error, nil, "failed to update supplier order item %d", item.ID)
	}
	if res.RowsAffected == 0 {
		return errors.ErrConcurrentUpdate
	}
	return nil
}
