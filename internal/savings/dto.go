package savings

import (
	"time"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type CreateGoalDTO struct {
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	StartDate    time.Time       `json:"start_date"`
}

func (dto CreateGoalDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(120)
	v.Field("target_amount", dto.TargetAmount).Positive(errors.ErrCodeInvalidAmount)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type EditGoalDTO struct {
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	StartDate    time.Time       `json:"start_date"`
}

func (dto EditGoalDTO) Validate() error {
	return CreateGoalDTO(dto).Validate()
}

type RecordTransactionDTO struct {
	Type            TransactionType `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transaction_date"`
	Note            string          `json:"note"`
}

func (dto RecordTransactionDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("type", string(dto.Type)).Required().OneOf(string(TypeDeposit), string(TypeWithdrawal))
	v.Field("amount", dto.Amount).Positive(errors.ErrCodeInvalidAmount)
	v.Field("note", dto.Note).MaxLength(255)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
