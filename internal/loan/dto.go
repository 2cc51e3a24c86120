package loan

import (
	"time"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/common/validation"
	"github.com/frahmantamala/bengkelku/internal/ledger"
	"github.com/shopspring/decimal"
)

type CreateLoanDTO struct {
	EmployeeID int64           `json:"employee_id"`
	Amount     decimal.Decimal `json:"amount"`
	LoanDate   time.Time       `json:"loan_date"`
	Reason     string          `json:"reason"`
}

func (dto CreateLoanDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("employee_id", dto.EmployeeID).Positive(errors.ErrCodeValidationFailed)
	v.Field("amount", dto.Amount).Positive(errors.ErrCodeInvalidAmount)
	v.Field("reason", dto.Reason).MaxLength(255)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type EditLoanDTO struct {
	Amount   decimal.Decimal `json:"amount"`
	LoanDate time.Time       `json:"loan_date"`
	Reason   string          `json:"reason"`
}

func (dto EditLoanDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("amount", dto.Amount).Positive(errors.ErrCodeInvalidAmount)
	v.Field("reason", dto.Reason).MaxLength(255)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type RecordInstallmentDTO struct {
	Amount decimal.Decimal `json:"amount"`
	PaidOn time.Time       `json:"paid_on"`
	Note   string          `json:"note"`
}

func (dto RecordInstallmentDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("amount", dto.Amount).Positive(errors.ErrCodeInvalidAmount)
	v.Field("note", dto.Note).MaxLength(255)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ReverseInstallmentDTO struct {
	PaidOn time.Time `json:"paid_on"`
	Note   string    `json:"note"`
}

type ListLoansDTO struct {
	EmployeeID int64
	Status     ledger.Status
}

func (dto ListLoansDTO) Validate() error {
	if dto.Status == "" || dto.Status.Valid(ledger.KindDebt) {
		return nil
	}
	return errors.NewValidationFieldError("status", "unknown loan status "+string(dto.Status), errors.ErrCodeInvalidStatus)
}
