package postgres

import (
	"context"
	"time"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/common/dberr"
	loanDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/loan"
	"github.com/frahmantamala/bengkelku/internal/loan"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LoanRepository struct {
	db *gorm.DB
}

func NewLoanRepository(db *gorm.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

func Register(u uow.UOW) error {
	return u.Register(loan.RepositoryName, func(db *gorm.DB) uow.Repository {
		return NewLoanRepository(db)
	})
}

func (r *LoanRepository) Create(ctx context.Context, l *loanDatamodel.Loan) error {
	err := r.db.WithContext(ctx).Create(l).Error
	return dberr.Convert(err, nil, "failed to create loan")
}

func (r *LoanRepository) GetByID(ctx context.Context, id int64) (*loanDatamodel.Loan, error) {
	var l loanDatamodel.Loan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		return nil, dberr.Convert(err, errors.ErrLoanNotFound, "failed to get loan %d", id)
	}
	return &l, nil
}

func (r *LoanRepository) List(ctx context.Context, employeeID int64, status string) ([]*loanDatamodel.Loan, error) {
	var loans []*loanDatamodel.Loan
	q := r.db.WithContext(ctx).Order("loan_date DESC, id DESC")
	if employeeID > 0 {
		q = q.Where("employee_id = ?", employeeID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&loans).Error; err != nil {
		return nil, dberr.Convert(err, nil, "failed to list loans")
	}
	return loans, nil
}

func (r *LoanRepository) SwapBalance(ctx context.Context, l *loanDatamodel.Loan, expectedAmount, expectedRemaining decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&loanDatamodel.Loan{}).
		Where("id = ? AND amount = ? AND remaining_amount = ?", l.ID, expectedAmount, expectedRemaining).
		Updates(map[string]interface{}{
			"amount":           l.Amount,
			"remaining_amount": l.RemainingAmount,
			"status":           l.Status,
			"loan_date":        l.LoanDate,
			"reason":           l.Reason,
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		return dberr.Convert(res.Error, nil, "failed to update loan %d", l.ID)
	}
	if res.RowsAffected == 0 {
		return errors.ErrConcurrentUpdate
	}
	return nil
}

func (r *LoanRepository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("loan_id = ?", id).Delete(&loanDatamodel.Installment{}).Error; err != nil {
		return dberr.Convert(err, nil, "failed to delete installments of loan %d", id)
	}
	res := db.Where("id = ?", id).Delete(&loanDatamodel.Loan{})
	if res.Error != nil {
		return dberr.Convert(res.Error, nil, "failed to delete loan %d", id)
	}
	if res.RowsAffected == 0 {
		return errors.ErrLoanNotFound
	}
	return nil
}

func (r *LoanRepository) CreateInstallment(ctx context.Context, i *loanDatamodel.Installment) error {
	err := r.db.WithContext(ctx).Create(i).Error
	if dberr.IsDuplicate(err) {
		// reverses_id is unique
		return errors.ErrAlreadyReversed.WithCause(err)
	}
	return dberr.Convert(err, nil, "failed to create installment for loan %d", i.LoanID)
}

func (r *LoanRepository) GetInstallment(ctx context.Context, loanID, installmentID int64) (*loanDatamodel.Installment, error) {
	var i loanDatamodel.Installment
	err := r.db.WithContext(ctx).Where("id = ? AND loan_id = ?", installmentID, loanID).First(&i).Error
	if err != nil {
		return nil, dberr.Convert(err, errors.ErrInstallmentNotFound, "failed to get installment %d", installmentID)
	}
	return &i, nil
}

func (r *LoanRepository) ListInstallments(ctx context.Context, loanID int64) ([]*loanDatamodel.Installment, error) {
	var installments []*loanDatamodel.Installment
	err := r.db.WithContext(ctx).Where("loan_id = ?", loanID).Order("paid_on ASC, id ASC").Find(&installments).Error
	if err != nil {
		return nil, dberr.Convert(err, nil, "failed to list installments of loan %d", loanID)
	}
	return installments, nil
}

func (r *LoanRepository) IsReversed(ctx context.Context, installmentID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&loanDatamodel.Installment{}).Where("reverses_id = ?", installmentID).Count(&count).Error
	if err != nil {
		return false, dberr.Convert(err, nil, "failed to check reversal of installment %d", installmentID)
	}
	return count > 0, nil
}
