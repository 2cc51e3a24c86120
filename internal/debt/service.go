package debt

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/common/dates"
	debtDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/debt"
	"github.com/frahmantamala/bengkelku/internal/core/events"
	"github.com/frahmantamala/bengkelku/internal/ledger"
	"github.com/frahmantamala/bengkelku/pkg/logger"
	"github.com/frahmantamala/bengkelku/pkg/uow"
)

type Repository interface {
	Create(ctx context.Context, entry *debtDatamodel.Entry) error
	GetByID(ctx context.Context, id int64) (*debtDatamodel.Entry, error)
	List(ctx context.Context, nature, status string) ([]*debtDatamodel.Entry, error)
	// SwapBalance writes entry only while the stored balance still equals expected.
	SwapBalance(ctx context.Context, entry *debtDatamodel.Entry, expected ledger.Balance) error
	Delete(ctx context.Context, id int64) error
	CreatePayment(ctx context.Context, payment *debtDatamodel.Payment) error
	GetPayment(ctx context.Context, entryID, paymentID int64) (*debtDatamodel.Payment, error)
	ListPayments(ctx context.Context, entryID int64) ([]*debtDatamodel.Payment, error)
	IsReversed(ctx context.Context, paymentID int64) (bool, error)
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

func (s *Service) CreateEntry(ctx context.Context, dto CreateEntryDTO) (*Entry, error) {
	log := logger.FromOr(ctx, s.logger)
	if err := dto.Validate(); err != nil {
		log.Warn("debt entry validation failed", "error", err)
		return nil, err
	}
	dto.EntryDate = dates.OrToday(dto.EntryDate)

	repo, err := s.repository()
	if err != nil {
		return nil, err
	}
	data := ToDataModel(NewEntry(dto))
	if err := repo.Create(ctx, data); err != nil {
		log.Error("failed to create debt entry", "error", err)
		return nil, err
	}

	log.Info("debt entry created", "entry_id", data.ID, "nature", data.Nature, "amount", data.Amount.String())
	return FromDataModel(data), nil
}

func (s *Service) GetEntry(ctx context.Context, id int64) (*Entry, error) {
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

func (s *Service) ListEntries(ctx context.Context, dto ListEntriesDTO) ([]*Entry, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	repo, err := s.repository()
	if err != nil {
		return nil, err
	}
	data, err := repo.List(ctx, string(dto.Nature), string(dto.Status))
	if err != nil {
		logger.FromOr(ctx, s.logger).Error("failed to list debt entries", "error", err)
		return nil, err
	}
	return FromDataModelSlice(data), nil
}

func (s *Service) ListPayments(ctx context.Context, entryID int64) ([]*Payment, error) {
	repo, err := s.repository()
	if err != nil {
		return nil, err
	}
	if _, err := repo.GetByID(ctx, entryID); err != nil {
		return nil, err
	}
	data, err := repo.ListPayments(ctx, entryID)
	if err != nil {
		return nil, err
	}
	return PaymentsFromDataModel(data), nil
}

func (s *Service) RecordPayment(ctx context.Context, entryID int64, dto RecordPaymentDTO) (*PaymentResult, error) {
	log := logger.FromOr(ctx, s.logger).With("entry_id", entryID)
	if err := dto.Validate(); err != nil {
		log.Warn("payment validation failed", "error", err)
		return nil, err
	}

	var result *PaymentResult
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.TX) error {
		repo, err := uow.GetAs[Repository](tx, RepositoryName)
		if err != nil {
			return err
		}
		data, err := repo.GetByID(ctx, entryID)
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

		if err := repo.SwapBalance(ctx, ToDataModel(current), before); err != nil {
			return err
		}

		payment := PaymentToDataModel(&Payment{
			EntryID: entryID,
			Amount:  dto.Amount,
			Kind:    PaymentKindPayment,
			PaidOn:  dates.OrToday(dto.PaidOn),
			Note:    dto.Note,
		})
		if err := repo.CreatePayment(ctx, payment); err != nil {
			return err
		}

		result = &PaymentResult{Entry: current, Payment: PaymentFromDataModel(payment)}
		return nil
	})
	if err != nil {
		log.Warn("failed to record payment", "error", err, "amount", dto.Amount.String())
		return nil, err
	}

	log.Info("payment recorded",
		"payment_id", result.Payment.ID,
		"amount", dto.Amount.String(),
		"remaining", result.Entry.RemainingAmount.String(),
		"status", result.Entry.Status)
	s.publishPayment(ctx, result)
	return result, nil
}

// ReversePayment appends a compensating record for an earlier payment.
func (s *Service) ReversePayment(ctx context.Context, entryID, paymentID int64, dto ReversePaymentDTO) (*PaymentResult, error) {
	log := logger.FromOr(ctx, s.logger).With("entry_id", entryID, "payment_id", paymentID)

	var result *PaymentResult
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.TX) error {
		repo, err := uow.GetAs[Repository](tx, RepositoryName)
		if err != nil {
			return err
		}
		data, err := repo.GetByID(ctx, entryID)
		if err != nil {
			return err
		}
		original, err := repo.GetPayment(ctx, entryID, paymentID)
		if err != nil {
			return err
		}
		if original.Kind != PaymentKindPayment {
			return errors.NewValidationError("reversal records cannot be reversed", errors.ErrCodeAlreadyReversed)
		}
		reversed, err := repo.IsReversed(ctx, paymentID)
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

		if err := repo.SwapBalance(ctx, ToDataModel(current), before); err != nil {
			return err
		}

		reversal := PaymentToDataModel(&Payment{
			EntryID:    entryID,
			Amount:     original.Amount,
			Kind:       PaymentKindReversal,
			ReversesID: &original.ID,
			PaidOn:     dates.OrToday(dto.PaidOn),
			Note:       dto.Note,
		})
		if err := repo.CreatePayment(ctx, reversal); err != nil {
			return err
		}

		result = &PaymentResult{Entry: current, Payment: PaymentFromDataModel(reversal)}
		return nil
	})
	if err != nil {
		log.Warn("failed to reverse payment", "error", err)
		return nil, err
	}

	log.Info("payment reversed", "remaining", result.Entry.RemainingAmount.String(), "status", result.Entry.Status)
	s.publishPayment(ctx, result)
	return result, nil
}

// EditEntry applies the same recompute policy as loans. Written-off entries
// are frozen.
func (s *Service) EditEntry(ctx context.Context, id int64, dto EditEntryDTO) (*Entry, error) {
	log := logger.FromOr(ctx, s.logger).With("entry_id", id)
	if err := dto.Validate(); err != nil {
		log.Warn("debt entry validation failed", "error", err)
		return nil, err
	}

	var current *Entry
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
		if before.IsWrittenOff() {
			return errors.ErrEntryWrittenOff
		}

		payments, err := repo.ListPayments(ctx, id)
		if err != nil {
			return err
		}
		current.apply(before.Recompute(dto.Amount, NetPaid(PaymentsFromDataModel(payments))))
		current.Counterparty = dto.Counterparty
		current.Description = dto.Description
		current.DueDate = dto.DueDate
		if !dto.EntryDate.IsZero() {
			current.EntryDate = dates.Truncate(dto.EntryDate)
		}

		return repo.SwapBalance(ctx, ToDataModel(current), before)
	})
	if err != nil {
		log.Warn("failed to edit debt entry", "error", err)
		return nil, err
	}

	log.Info("debt entry edited", "amount", current.Amount.String(), "remaining", current.RemainingAmount.String(), "status", current.Status)
	return current, nil
}

// WriteOff closes an entry that will never be settled. The remaining amount
// is kept for reporting.
func (s *Service) WriteOff(ctx context.Context, id int64, dto WriteOffDTO) (*Entry, error) {
	log := logger.FromOr(ctx, s.logger).With("entry_id", id)
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var current *Entry
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
		next, err := before.WriteOff()
		if err != nil {
			return err
		}
		current.apply(next)
		now := time.Now().UTC()
		current.WriteOffReason = dto.Reason
		current.WrittenOffAt = &now

		return repo.SwapBalance(ctx, ToDataModel(current), before)
	})
	if err != nil {
		log.Warn("failed to write off debt entry", "error", err)
		return nil, err
	}

	log.Info("debt entry written off", "remaining", current.RemainingAmount.String(), "reason", dto.Reason)
	if s.publisher != nil {
		event := events.NewDebtWrittenOff(current.ID, string(current.Nature), current.RemainingAmount.String(), current.WriteOffReason)
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Error("failed to publish write-off event", "error", err)
		}
	}
	return current, nil
}

// DeleteEntry removes the payments before the entry itself.
func (s *Service) DeleteEntry(ctx context.Context, id int64) error {
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
		logger.FromOr(ctx, s.logger).Warn("failed to delete debt entry", "error", err, "entry_id", id)
		return err
	}
	logger.FromOr(ctx, s.logger).Info("debt entry deleted", "entry_id", id)
	return nil
}

func (s *Service) publishPayment(ctx context.Context, result *PaymentResult) {
	if s.publisher == nil {
		return
	}
	event := events.NewBalanceChanged(events.EventTypeDebtPaymentRecorded,
		result.Entry.ID,
		result.Payment.ID,
		result.Payment.Kind,
		result.Payment.Amount.String(),
		result.Entry.RemainingAmount.String(),
		string(result.Entry.Status))
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.FromOr(ctx, s.logger).Error("failed to publish payment event", "error", err, "entry_id", result.Entry.ID)
	}
}
