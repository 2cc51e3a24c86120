package savings

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/bengkelku/internal/core/common/dates"
	savingsDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/savings"
	"github.com/frahmantamala/bengkelku/internal/core/events"
	"github.com/frahmantamala/bengkelku/pkg/logger"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, goal *savingsDatamodel.Goal) error
	GetByID(ctx context.Context, id int64) (*savingsDatamodel.Goal, error)
	List(ctx context.Context) ([]*savingsDatamodel.Goal, error)
	// SwapBalance writes goal only while the stored target and current
	// amount still equal the expected pair.
	SwapBalance(ctx context.Context, goal *savingsDatamodel.Goal, expectedTarget, expectedCurrent decimal.Decimal) error
	Delete(ctx context.Context, id int64) error
	CreateTransaction(ctx context.Context, transaction *savingsDatamodel.Transaction) error
	ListTransactions(ctx context.Context, goalID int64) ([]*savingsDatamodel.Transaction, error)
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

// WithClock replaces the clock used for projections and default dates.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) repository() (Repository, error) {
	return uow.GetRepositoryAs[Repository](s.uow, RepositoryName)
}

func (s *Service) dateOrToday(t time.Time) time.Time {
	if t.IsZero() {
		return dates.Truncate(s.now())
	}
	return dates.Truncate(t)
}

func (s *Service) CreateGoal(ctx context.Context, dto CreateGoalDTO) (*Goal, error) {
	log := logger.FromOr(ctx, s.logger)
	if err := dto.Validate(); err != nil {
		log.Warn("savings goal validation failed", "error", err)
		return nil, err
	}
	dto.StartDate = s.dateOrToday(dto.StartDate)

	repo, err := s.repository()
	if err != nil {
		return nil, err
	}
	data := ToDataModel(NewGoal(dto))
	if err := repo.Create(ctx, data); err != nil {
		log.Error("failed to create savings goal", "error", err)
		return nil, err
	}

	log.Info("savings goal created", "goal_id", data.ID, "target", data.TargetAmount.String())
	return FromDataModel(data), nil
}

func (s *Service) GetGoal(ctx context.Context, id int64) (*Goal, error) {
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

func (s *Service) ListGoals(ctx context.Context) ([]*Goal, error) {
	repo, err := s.repository()
	if err != nil {
		return nil, err
	}
	data, err := repo.List(ctx)
	if err != nil {
		logger.FromOr(ctx, s.logger).Error("failed to list savings goals", "error", err)
		return nil, err
	}
	return FromDataModelSlice(data), nil
}

func (s *Service) ListTransactions(ctx context.Context, goalID int64) ([]*Transaction, error) {
	repo, err := s.repository()
	if err != nil {
		return nil, err
	}
	if _, err := repo.GetByID(ctx, goalID); err != nil {
		return nil, err
	}
	data, err := repo.ListTransactions(ctx, goalID)
	if err != nil {
		return nil, err
	}
	return TransactionsFromDataModel(data), nil
}

func (s *Service) RecordTransaction(ctx context.Context, goalID int64, dto RecordTransactionDTO) (*TransactionResult, error) {
	log := logger.FromOr(ctx, s.logger).With("goal_id", goalID)
	if err := dto.Validate(); err != nil {
		log.Warn("savings transaction validation failed", "error", err)
		return nil, err
	}

	var result *TransactionResult
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.TX) error {
		repo, err := uow.GetAs[Repository](tx, RepositoryName)
		if err != nil {
			return err
		}
		data, err := repo.GetByID(ctx, goalID)
		if err != nil {
			return err
		}

		current := FromDataModel(data)
		before := current.Balance()
		next, err := current.Move(dto.Type, dto.Amount)
		if err != nil {
			return err
		}
		current.apply(next)

		if err := repo.SwapBalance(ctx, ToDataModel(current), before.Original, before.Running); err != nil {
			return err
		}

		transaction := TransactionToDataModel(&Transaction{
			GoalID:          goalID,
			Type:            dto.Type,
			Amount:          dto.Amount,
			TransactionDate: s.dateOrToday(dto.TransactionDate),
			Note:            dto.Note,
		})
		if err := repo.CreateTransaction(ctx, transaction); err != nil {
			return err
		}

		result = &TransactionResult{Goal: current, Transaction: TransactionFromDataModel(transaction)}
		return nil
	})
	if err != nil {
		log.Warn("failed to record savings transaction", "error", err, "type", dto.Type, "amount", dto.Amount.String())
		return nil, err
	}

	log.Info("savings transaction recorded",
		"transaction_id", result.Transaction.ID,
		"type", dto.Type,
		"amount", dto.Amount.String(),
		"current", result.Goal.CurrentAmount.String(),
		"status", result.Goal.Status)

	if s.publisher != nil {
		event := events.NewBalanceChanged(events.EventTypeSavingsTransaction,
			result.Goal.ID,
			result.Transaction.ID,
			string(result.Transaction.Type),
			result.Transaction.Amount.String(),
			result.Goal.CurrentAmount.String(),
			string(result.Goal.Status))
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Error("failed to publish savings event", "error", err)
		}
	}
	return result, nil
}

// EditGoal re-derives the status against the unchanged current amount.
func (s *Service) EditGoal(ctx context.Context, id int64, dto EditGoalDTO) (*Goal, error) {
	log := logger.FromOr(ctx, s.logger).With("goal_id", id)
	if err := dto.Validate(); err != nil {
		log.Warn("savings goal validation failed", "error", err)
		return nil, err
	}

	var current *Goal
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.TX) error {
		repo, err := uow.GetAs[Repository](tx, RepositoryName)
		if err != nil {
			return err
		}
		data, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		current = FromDataModel(data)
		before := current.Balance()
		current.apply(before.Recompute(dto.TargetAmount, decimal.Zero))
		current.Name = dto.Name
		if !dto.StartDate.IsZero() {
			current.StartDate = dates.Truncate(dto.StartDate)
		}
		return repo.SwapBalance(ctx, ToDataModel(current), before.Original, before.Running)
	})
	if err != nil {
		log.Warn("failed to edit savings goal", "error", err)
		return nil, err
	}

	log.Info("savings goal edited", "target", current.TargetAmount.String(), "status", current.Status)
	return current, nil
}

func (s *Service) DeleteGoal(ctx context.Context, id int64) error {
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.TX) error {
		repo, err := uow.GetAs[Repository](tx, RepositoryName)
		if err != nil {
			return err
		}
		if _, err := repo.GetByID(ctx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		logger.FromOr(ctx, s.logger).Warn("failed to delete savings goal", "error", err, "goal_id", id)
		return err
	}
	logger.FromOr(ctx, s.logger).Info("savings goal deleted", "goal_id", id)
	return nil
}

func (s *Service) EstimateCompletion(ctx context.Context, id int64) (*Projection, error) {
	repo, err := s.repository()
	if err != nil {
		return nil, err
	}
	data, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	transactions, err := repo.ListTransactions(ctx, id)
	if err != nil {
		return nil, err
	}

	projection := EstimateCompletion(FromDataModel(data), TransactionsFromDataModel(transactions), s.now())
	return &projection, nil
}
