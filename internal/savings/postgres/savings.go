package postgres

import (
	"context"
	"time"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/common/dberr"
	savingsDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/savings"
	"github.com/frahmantamala/bengkelku/internal/savings"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SavingsRepository struct {
	db *gorm.DB
}

func NewSavingsRepository(db *gorm.DB) *SavingsRepository {
	return &SavingsRepository{db: db}
}

func Register(u uow.UOW) error {
	return u.Register(savings.RepositoryName, func(db *gorm.DB) uow.Repository {
		return NewSavingsRepository(db)
	})
}

func (r *SavingsRepository) Create(ctx context.Context, g *savingsDatamodel.Goal) error {
	err := r.db.WithContext(ctx).Create(g).Error
	return dberr.Convert(err, nil, "failed to create savings goal")
}

func (r *SavingsRepository) GetByID(ctx context.Context, id int64) (*savingsDatamodel.Goal, error) {
	var g savingsDatamodel.Goal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&g).Error; err != nil {
		return nil, dberr.Convert(err, errors.ErrSavingsGoalNotFound, "failed to get savings goal %d", id)
	}
	return &g, nil
}

func (r *SavingsRepository) List(ctx context.Context) ([]*savingsDatamodel.Goal, error) {
	var goals []*savingsDatamodel.Goal
	if err := r.db.WithContext(ctx).Order("start_date DESC, id DESC").Find(&goals).Error; err != nil {
		return nil, dberr.Convert(err, nil, "failed to list savings goals")
	}
	return goals, nil
}

func (r *SavingsRepository) SwapBalance(ctx context.Context, g *savingsDatamodel.Goal, expectedTarget, expectedCurrent decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&savingsDatamodel.Goal{}).
		Where("id = ? AND target_amount = ? AND current_amount = ?", g.ID, expectedTarget, expectedCurrent).
		Updates(map[string]interface{}{
			"name":           g.Name,
			"target_amount":  g.TargetAmount,
			"current_amount": g.CurrentAmount,
			"status":         g.Status,
			"start_date":     g.StartDate,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return dberr.Convert(res.Error, nil, "failed to update savings goal %d", g.ID)
	}
	if res.RowsAffected == 0 {
		return errors.ErrConcurrentUpdate
	}
	return nil
}

func (r *SavingsRepository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("goal_id = ?", id).Delete(&savingsDatamodel.Transaction{}).Error; err != nil {
		return dberr.Convert(err, nil, "failed to delete transactions of savings goal %d", id)
	}
	res := db.Where("id = ?", id).Delete(&savingsDatamodel.Goal{})
	if res.Error != nil {
		return dberr.Convert(res.Error, nil, "failed to delete savings goal %d", id)
	}
	if res.RowsAffected == 0 {
		return errors.ErrSavingsGoalNotFound
	}
	return nil
}

func (r *SavingsRepository) CreateTransaction(ctx context.Context, t *savingsDatamodel.Transaction) error {
	err := r.db.WithContext(ctx).Create(t).Error
	return dberr.Convert(err, nil, "failed to create transaction for savings goal %d", t.GoalID)
}

func (r *SavingsRepository) ListTransactions(ctx context.Context, goalID int64) ([]*savingsDatamodel.Transaction, error) {
	var transactions []*savingsDatamodel.Transaction
	err := r.db.WithContext(ctx).Where("goal_id = ?", goalID).Order("transaction_date ASC, id ASC").Find(&transactions).Error
	if err != nil {
		return nil, dberr.Convert(err, nil, "failed to list transactions of savings goal %d", goalID)
	}
	return transactions, nil
}
