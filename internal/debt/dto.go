package debt

import (
	"time"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/common/validation"
	"github.com/frahmantamala/bengkelku/internal/ledger"
	"github.com/shopspring/decimal"
)

type CreateEntryDTO struct {
	Nature       Nature          `json:"nature"`
	Counterparty string          `json:"counterparty"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	EntryDate    time.Time       `json:"entry_date"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
}

func (dto CreateEntryDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("nature", string(dto.Nature)).Required().OneOf(Natures...)
	v.Field("counterparty", dto.Counterparty).Required().MaxLength(120)
	v.Field("description", dto.Description).MaxLength(255)
	v.Field("amount", dto.Amount).Positive(errors.ErrCodeInvalidAmount)
	if dto.DueDate != nil && !dto.EntryDate.IsZero() {
		v.Field("due_date", *dto.DueDate).Custom(func(value interface{}) *errors.AppError {
			if value.(time.Time).Before(dto.EntryDate) {
				return errors.NewValidationFieldError("due_date", "due_date must not precede entry_date", errors.ErrCodeInvalidDate)
			}
			return nil
		})
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type EditEntryDTO struct {
	Counterparty string          `json:"counterparty"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	EntryDate    time.Time       `json:"entry_date"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
}

func (dto EditEntryDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("counterparty", dto.Counterparty).Required().MaxLength(120)
	v.Field("description", dto.Description).MaxLength(255)
	v.Field("amount", dto.Amount).Positive(errors.ErrCodeInvalidAmount)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type RecordPaymentDTO struct {
	Amount decimal.Decimal `json:"amount"`
	PaidOn time.Time       `json:"paid_on"`
	Note   string          `json:"note"`
}

func (dto RecordPaymentDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("amount", dto.Amount).Positive(errors.ErrCodeInvalidAmount)
	v.Field("note", dto.Note).MaxLength(255)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ReversePaymentDTO struct {
	PaidOn time.Time `json:"paid_on"`
	Note   string    `json:"note"`
}

type WriteOffDTO struct {
	Reason string `json:"reason"`
}

func (dto WriteOffDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("reason", dto.Reason).Required().MaxLength(255)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ListEntriesDTO struct {
	Nature Nature
	Status ledger.Status
}

func (dto ListEntriesDTO) Validate() error {
	v := validation.NewValidator()
	if dto.Nature != "" {
		v.Field("nature", string(dto.Nature)).OneOf(Natures...)
	}
	if dto.Status != "" {
		v.Field("status", string(dto.Status)).Custom(func(interface{}) *errors.AppError {
			if !dto.Status.Valid(ledger.KindDebt) {
				return errors.NewValidationFieldError("status", "unknown status "+string(dto.Status), errors.ErrCodeInvalidStatus)
			}
			return nil
		})
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
