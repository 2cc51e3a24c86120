package purchasing

import (
	"fmt"
	"time"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type CreateOrderItemDTO struct {
	ProductID     int64           `json:"product_id"`
	OrderQuantity int64           `json:"order_quantity"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}

type CreateOrderDTO struct {
	OrderNumber  string               `json:"order_number"`
	SupplierName string               `json:"supplier_name"`
	OrderDate    time.Time            `json:"order_date"`
	Notes        string               `json:"notes"`
	Items        []CreateOrderItemDTO `json:"items"`
}

func (dto CreateOrderDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("order_number", dto.OrderNumber).MaxLength(40)
	v.Field("supplier_name", dto.SupplierName).Required().MaxLength(120)
	v.Field("notes", dto.Notes).MaxLength(500)
	v.Field("items", dto.Items).Custom(func(interface{}) *errors.AppError {
		if len(dto.Items) == 0 {
			return errors.NewValidationFieldError("items", "an order needs at least one item", errors.ErrCodeValidationFailed)
		}
		return nil
	})
	for i, item := range dto.Items {
		prefix := fmt.Sprintf("items[%d]", i)
		v.Field(prefix+".product_id", item.ProductID).Positive(errors.ErrCodeValidationFailed)
		v.Field(prefix+".order_quantity", item.OrderQuantity).Positive(errors.ErrCodeInvalidQuantity)
		v.Field(prefix+".estimated_cost", item.EstimatedCost).NonNegative(errors.ErrCodeInvalidAmount)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ReceiptLineDTO struct {
	OrderItemID      int64           `json:"order_item_id"`
	QuantityReceived int64           `json:"quantity_received"`
	ActualCostPrice  decimal.Decimal `json:"actual_cost_price"`
}

// ReceiveGoodsDTO is one receiving session against an order.
type ReceiveGoodsDTO struct {
	InvoiceNumber string           `json:"invoice_number"`
	Notes         string           `json:"notes"`
	ReceivedAt    time.Time        `json:"received_at"`
	Lines         []ReceiptLineDTO `json:"lines"`
}

func (dto ReceiveGoodsDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("invoice_number", dto.InvoiceNumber).MaxLength(60)
	v.Field("notes", dto.Notes).MaxLength(500)
	v.Field("lines", dto.Lines).Custom(func(interface{}) *errors.AppError {
		if len(dto.Lines) == 0 {
			return errors.NewValidationFieldError("lines", "a receipt needs at least one line", errors.ErrCodeValidationFailed)
		}
		return nil
	})
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ListOrdersDTO struct {
	Status         Status
	ReceivableOnly bool
}

func (dto ListOrdersDTO) Validate() error {
	if dto.Status == "" {
		return nil
	}
	v := validation.NewValidator()
	v.Field("status", string(dto.Status)).OneOf(Statuses...)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
