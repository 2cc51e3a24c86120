package report

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/bengkelku/pkg/logger"
	"github.com/shopspring/decimal"
)

type Repository interface {
	OutstandingDebts(ctx context.Context) ([]DebtSummary, error)
	WrittenOffTotal(ctx context.Context) (decimal.Decimal, error)
	OutstandingLoans(ctx context.Context) ([]LoanSummary, error)
	LowStock(ctx context.Context) ([]LowStockItem, error)
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

func (s *Service) Debts(ctx context.Context) (*DebtReport, error) {
	rows, err := s.repo.OutstandingDebts(ctx)
	if err != nil {
		logger.FromOr(ctx, s.logger).Error("failed to summarise debts", "error", err)
		return nil, err
	}
	writtenOff, err := s.repo.WrittenOffTotal(ctx)
	if err != nil {
		logger.FromOr(ctx, s.logger).Error("failed to total written off debts", "error", err)
		return nil, err
	}
	return Summarize(rows, writtenOff), nil
}

func (s *Service) Loans(ctx context.Context) ([]LoanSummary, error) {
	rows, err := s.repo.OutstandingLoans(ctx)
	if err != nil {
		logger.FromOr(ctx, s.logger).Error("failed to summarise loans", "error", err)
		return nil, err
	}
	return rows, nil
}

func (s *Service) LowStock(ctx context.Context) ([]LowStockItem, error) {
	rows, err := s.repo.LowStock(ctx)
	if err != nil {
		logger.FromOr(ctx, s.logger).Error("failed to list low stock", "error", err)
		return nil, err
	}
	return rows, nil
}
