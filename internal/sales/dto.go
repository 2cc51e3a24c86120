package sales

import (
	"fmt"
	"time"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type SaleItemDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type RecordSaleDTO struct {
	InvoiceNo    string          `json:"invoice_no"`
	Segment      Segment         `json:"segment"`
	CustomerName string          `json:"customer_name"`
	Discount     decimal.Decimal `json:"discount"`
	SoldAt       time.Time       `json:"sold_at"`
	Items        []SaleItemDTO   `json:"items"`
}

func (dto RecordSaleDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("invoice_no", dto.InvoiceNo).MaxLength(40)
	v.Field("segment", string(dto.Segment)).Required().OneOf(Segments...)
	v.Field("customer_name", dto.CustomerName).MaxLength(120)
	v.Field("discount", dto.Discount).NonNegative(errors.ErrCodeInvalidAmount)
	v.Field("items", dto.Items).Custom(func(interface{}) *errors.AppError {
		if len(dto.Items) == 0 {
			return errors.NewValidationFieldError("items", "a sale needs at least one item", errors.ErrCodeValidationFailed)
		}
		return nil
	})
	for i, item := range dto.Items {
		prefix := fmt.Sprintf("items[%d]", i)
		v.Field(prefix+".product_id", item.ProductID).Positive(errors.ErrCodeValidationFailed)
		v.Field(prefix+".quantity", item.Quantity).Positive(errors.ErrCodeInvalidQuantity)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ListSalesDTO struct {
	From    *time.Time
	To      *time.Time
	Segment Segment
}

func (dto ListSalesDTO) Validate() error {
	v := validation.NewValidator()
	if dto.Segment != "" {
		v.Field("segment", string(dto.Segment)).OneOf(Segments...)
	}
	if dto.From != nil && dto.To != nil {
		v.Field("to", *dto.To).Custom(func(interface{}) *errors.AppError {
			if dto.To.Before(*dto.From) {
				return errors.NewValidationFieldError("to", "to must not precede from", errors.ErrCodeInvalidDate)
			}
			return nil
		})
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
