package postgres

import (
	"context"
	"time"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/common/dberr"
	debtDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/debt"
	"github.com/frahmantamala/bengkelku/internal/debt"
	"github.com/frahmantamala/bengkelku/internal/ledger"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	"gorm.io/gorm"
)

type DebtRepository struct {
	db *gorm.DB
}

func NewDebtRepository(db *gorm.DB) *DebtRepository {
	return &DebtRepository{db: db}
}

func Register(u uow.UOW) error {
	return u.Register(debt.RepositoryName, func(db *gorm.DB) uow.Repository {
		return NewDebtRepository(db)
	})
}

func (r *DebtRepository) Create(ctx context.Context, e *debtDatamodel.Entry) error {
	err := r.db.WithContext(ctx).Create(e).Error
	return dberr.Convert(err, nil, "failed to create debt entry")
}

func (r *DebtRepository) GetByID(ctx context.Context, id int64) (*debtDatamodel.Entry, error) {
	var e debtDatamodel.Entry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, dberr.Convert(err, errors.ErrDebtNotFound, "failed to get debt entry %d", id)
	}
	return &e, nil
}

func (r *DebtRepository) List(ctx context.Context, nature, status string) ([]*debtDatamodel.Entry, error) {
	var entries []*debtDatamodel.Entry
	q := r.db.WithContext(ctx).Order("entry_date DESC, id DESC")
	if nature != "" {
		q = q.Where("nature = ?", nature)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, dberr.Convert(err, nil, "failed to list debt entries")
	}
	return entries, nil
}

func (r *DebtRepository) SwapBalance(ctx context.Context, e *debtDatamodel.Entry, expected ledger.Balance) error {
	res := r.db.WithContext(ctx).Model(&debtDatamodel.Entry{}).
		Where("id = ? AND amount = ? AND remaining_amount = ? AND status = ?",
			e.ID, expected.Original, expected.Running, string(expected.Status)).
		Updates(map[string]interface{}{
			"counterparty":     e.Counterparty,
			"description":      e.Description,
			"amount":           e.Amount,
			"remaining_amount": e.RemainingAmount,
			"status":           e.Status,
			"entry_date":       e.EntryDate,
			"due_date":         e.DueDate,
			"write_off_reason": e.WriteOffReason,
			"written_off_at":   e.WrittenOffAt,
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		return dberr.Convert(res.Error, nil, "failed to update debt entry %d", e.ID)
	}
	if res.RowsAffected == 0 {
		return errors.ErrConcurrentUpdate
	}
	return nil
}

func (r *DebtRepository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("entry_id = ?", id).Delete(&debtDatamodel.Payment{}).Error; err != nil {
		return dberr.Convert(err, nil, "failed to delete payments of debt entry %d", id)
	}
	res := db.Where("id = ?", id).Delete(&debtDatamodel.Entry{})
	if res.Error != nil {
		return dberr.Convert(res.Error, nil, "failed to delete debt entry %d", id)
	}
	if res.RowsAffected == 0 {
		return errors.ErrDebtNotFound
	}
	return nil
}

func (r *DebtRepository) CreatePayment(ctx context.Context, p *debtDatamodel.Payment) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if dberr.IsDuplicate(err) {
		return errors.ErrAlreadyReversed.WithCause(err)
	}
	return dberr.Convert(err, nil, "failed to create payment for debt entry %d", p.EntryID)
}

func (r *DebtRepository) GetPayment(ctx context.Context, entryID, paymentID int64) (*debtDatamodel.Payment, error) {
	var p debtDatamodel.Payment
	err := r.db.WithContext(ctx).Where("id = ? AND entry_id = ?", paymentID, entryID).First(&p).Error
	if err != nil {
		return nil, dberr.Convert(err, errors.ErrPaymentNotFound, "failed to get payment %d", paymentID)
	}
	return &p, nil
}

func (r *DebtRepository) ListPayments(ctx context.Context, entryID int64) ([]*debtDatamodel.Payment, error) {
	var payments []*debtDatamodel.Payment
	err := r.db.WithContext(ctx).Where("entry_id = ?", entryID).Order("paid_on ASC, id ASC").Find(&payments).Error
	if err != nil {
		return nil, dberr.Convert(err, nil, "failed to list payments of debt entry %d", entryID)
	}
	return payments, nil
}

func (r *DebtRepository) IsReversed(ctx context.Context, paymentID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&debtDatamodel.Payment{}).Where("reverses_id = ?", paymentID).Count(&count).Error
	if err != nil {
		return false, dberr.Convert(err, nil, "failed to check reversal of payment %d", paymentID)
	}
	return count > 0, nil
}
