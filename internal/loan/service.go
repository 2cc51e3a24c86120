package loan

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/common/dates"
	loanDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/loan"
	"github.com/frahmantamala/bengkelku/internal/core/events"
	"github.com/frahmantamala/bengkelku/internal/employee"
	"github.com/frahmantamala/bengkelku/pkg/logger"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, loan *loanDatamodel.Loan) error
	GetByID(ctx context.Context, id int64) (*loanDatamodel.Loan, error)
	List(ctx context.Context, employeeID int64, status string) ([]*loanDatamodel.Loan, error)
	// SwapBalance writes loan only while the stored amount and remaining
	// amount still equal the expected pair.
	SwapBalance(ctx context.Context, loan *loanDatamodel.Loan, expectedAmount, expectedRemaining decimal.Decimal) error
	Delete(ctx context.Context, id int64) error
	CreateInstallment(ctx context.Context, installment *loanDatamodel.Installment) error
	GetInstallment(ctx context.Context, loanID, installmentID int64) (*loanDatamodel.Installment, error)
	ListInstallments(ctx context.Context, loanID int64) ([]*loanDatamodel.Installment, error)
	IsReversed(ctx context.Context, installmentID int64) (bool, error)
}

type Service struct {
	uow       uow.UOW
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(u uow.UOW, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		uow:       u,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) repository() (Repository, error) {
	return uow.GetRepositoryAs[Repository](s.uow, RepositoryName)
}

func (s *Service) CreateLoan(ctx context.Context, dto CreateLoanDTO) (*Loan, error) {
	log := logger.FromOr(ctx, s.logger)
	if err := dto.Validate(); err != nil {
		log.Warn("loan validation failed", "error", err)
		return nil, err
	}
	dto.LoanDate = dates.OrToday(dto.LoanDate)

	var created *loanDatamodel.Loan
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.TX) error {
		employees, err := uow.GetAs[employee.Repository](tx, employee.RepositoryName)
		if err != nil {
			return err
		}
		loans, err := uow.GetAs[Repository](tx, RepositoryName)
		if err != nil {
			return err
		}

		borrower, err := employees.GetByID(ctx, dto.EmployeeID)
		if err != nil {
			return err
		}
		if !employee.FromDataModel(borrower).CanBorrow() {
			return errors.ErrEmployeeInactive
		}

		created = ToDataModel(NewLoan(dto))
		return loans.Create(ctx, created)
	})
	if err != nil {
		log.Warn("failed to create loan", "error", err, "employee_id", dto.EmployeeID)
		return nil, err
	}

	log.Info("loan created", "loan_id", created.ID, "employee_id", created.EmployeeID, "amount", created.Amount.String())
	return FromDataModel(created), nil
}

func (s *Service) GetLoan(ctx context.Context, id int64) (*Loan, error) {
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

func (s *Service) ListLoans(ctx context.Context, dto ListLoansDTO) ([]*Loan, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	repo, err := s.repository()
	if err != nil {
		return nil, err
	}
	data, err := repo.List(ctx, dto.EmployeeID, string(dto.Status))
	if err != nil {
		logger.FromOr(ctx, s.logger).Error("failed to list loans", "error", err)
		return nil, err
	}
	return FromDataModelSlice(data), nil
}

func (s *Service) ListInstallments(ctx context.Context, loanID int64) ([]*Installment, error) {
	repo, err := s.repository()
	if err != nil {
		return nil, err
	}
	if _, err := repo.GetByID(ctx, loanID); err != nil {
		return nil, err
	}
	data, err := repo.ListInstallments(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return InstallmentsFromDataModel(data), nil
}

// RecordInstallment reduces the remaining amount and appends the installment
// in one transaction.
func (s *Service) RecordInstallment(ctx context.Context, loanID int64, dto RecordInstallmentDTO) (*InstallmentResult, error) {
	log := logger.FromOr(ctx, s.logger).With("loan_id", loanID)
	if err := dto.Validate(); err != nil {
		log.Warn("installment validation failed", "error", err)
		return nil, err
	}

	var result *InstallmentResult
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.TX) error {
		repo, err := uow.GetAs[Repository](tx, RepositoryName)
		if err != nil {
			return err
		}
		data, err := repo.GetByID(ctx, loanID)
		if err != nil {
			return err
		}

		current := FromDataModel(data)
		before := current.Balance()
		next, err := before.Reduce(dto.Amount)
		if err != nil {
			return err
		}
		current.apply(next)

		if err := repo.SwapBalance(ctx, ToDataModel(current), before.Original, before.Running); err != nil {
			return err
		}

		installment := InstallmentToDataModel(&Installment{
			LoanID: loanID,
			Amount: dto.Amount,
			Kind:   InstallmentKindPayment,
			PaidOn: dates.OrToday(dto.PaidOn),
			Note:   dto.Note,
		})
		if err := repo.CreateInstallment(ctx, installment); err != nil {
			return err
		}

		result = &InstallmentResult{Loan: current, Installment: InstallmentFromDataModel(installment)}
		return nil
	})
	if err != nil {
		log.Warn("failed to record installment", "error", err, "amount", dto.Amount.String())
		return nil, err
	}

	log.Info("installment recorded",
		"installment_id", result.Installment.ID,
		"amount", dto.Amount.String(),
		"remaining", result.Loan.RemainingAmount.String(),
		"status", result.Loan.Status)
	s.publish(ctx, result)
	return result, nil
}

// ReverseInstallment appends a compensating record that restores the amount
// of an earlier installment. Each installment can be reversed once.
func (s *Service) ReverseInstallment(ctx context.Context, loanID, installmentID int64, dto ReverseInstallmentDTO) (*InstallmentResult, error) {
	log := logger.FromOr(ctx, s.logger).With("loan_id", loanID, "installment_id", installmentID)

	var result *InstallmentResult
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.TX) error {
		repo, err := uow.GetAs[Repository](tx, RepositoryName)
		if err != nil {
			return err
		}
		data, err := repo.GetByID(ctx, loanID)
		if err != nil {
			return err
		}
		original, err := repo.GetInstallment(ctx, loanID, installmentID)
		if err != nil {
			return err
		}
		if original.Kind != InstallmentKindPayment {
			return errors.NewValidationError("reversal records cannot be reversed", errors.ErrCodeAlreadyReversed)
		}
		reversed, err := repo.IsReversed(ctx, installmentID)
		if err != nil {
			return err
		}
		if reversed {
			return errors.ErrAlreadyReversed
		}

		current := FromDataModel(data)
		before := current.Balance()
		next, err := before.Restore(original.Amount)
		if err != nil {
			return err
		}
		current.apply(next)

		if err := repo.SwapBalance(ctx, ToDataModel(current), before.Original, before.Running); err != nil {
			return err
		}

		reversal := InstallmentToDataModel(&Installment{
			LoanID:     loanID,
			Amount:     original.Amount,
			Kind:       InstallmentKindReversal,
			ReversesID: &original.ID,
			PaidOn:     dates.OrToday(dto.PaidOn),
			Note:       dto.Note,
		})
		if err := repo.CreateInstallment(ctx, reversal); err != nil {
			return err
		}

		result = &InstallmentResult{Loan: current, Installment: InstallmentFromDataModel(reversal)}
		return nil
	})
	if err != nil {
		log.Warn("failed to reverse installment", "error", err)
		return nil, err
	}

	log.Info("installment reversed", "remaining", result.Loan.RemainingAmount.String(), "status", result.Loan.Status)
	s.publish(ctx, result)
	return result, nil
}

// EditLoan changes the principal and re-derives the remaining amount from
// the installments recorded so far.
func (s *Service) EditLoan(ctx context.Context, id int64, dto EditLoanDTO) (*Loan, error) {
	log := logger.FromOr(ctx, s.logger).With("loan_id", id)
	if err := dto.Validate(); err != nil {
		log.Warn("loan validation failed", "error", err)
		return nil, err
	}

	var current *Loan
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.TX) error {
		repo, err := uow.GetAs[Repository](tx, RepositoryName)
		if err != nil {
			return err
		}
		data, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		installments, err := repo.ListInstallments(ctx, id)
		if err != nil {
			return err
		}

		current = FromDataModel(data)
		before := current.Balance()
		current.apply(before.Recompute(dto.Amount, NetPaid(InstallmentsFromDataModel(installments))))
		if !dto.LoanDate.IsZero() {
			current.LoanDate = dates.Truncate(dto.LoanDate)
		}
		current.Reason = dto.Reason

		return repo.SwapBalance(ctx, ToDataModel(current), before.Original, before.Running)
	})
	if err != nil {
		log.Warn("failed to edit loan", "error", err)
		return nil, err
	}

	log.Info("loan edited", "amount", current.Amount.String(), "remaining", current.RemainingAmount.String(), "status", current.Status)
	return current, nil
}

// DeleteLoan removes the installments before the loan itself.
func (s *Service) DeleteLoan(ctx context.Context, id int64) error {
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
		logger.FromOr(ctx, s.logger).Warn("failed to delete loan", "error", err, "loan_id", id)
		return err
	}
	logger.FromOr(ctx, s.logger).Info("loan deleted", "loan_id", id)
	return nil
}

func (s *Service) publish(ctx context.Context, result *InstallmentResult) {
	if s.publisher == nil {
		return
	}
	event := events.NewBalanceChanged(events.EventTypeInstallmentRecorded,
		result.Loan.ID,
		result.Installment.ID,
		result.Installment.Kind,
		result.Installment.Amount.String(),
		result.Loan.RemainingAmount.String(),
		string(result.Loan.Status))
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.FromOr(ctx, s.logger).Error("failed to publish installment event", "error", err, "loan_id", result.Loan.ID)
	}
}
