package purchasing

import (
	"fmt"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/common/validation"
)

// CheckReceipt validates a whole session before anything is applied. The
// first bad line rejects the session and is named in the error details.
func (o *Order) CheckReceipt(lines []ReceiptLineDTO) error {
	if !o.Status.Receivable() {
		return errors.ErrOrderNotReceivable.WithDetails(map[string]interface{}{
			"order_id": o.ID,
			"status":   o.Status,
		})
	}

	seen := make(map[int64]bool, len(lines))
	var total int64
	for i, line := range lines {
		details := map[string]interface{}{"line": i, "order_item_id": line.OrderItemID}

		item := o.Item(line.OrderItemID)
		if item == nil {
			return errors.NewValidationError(
				fmt.Sprintf("order item %d does not belong to order %s", line.OrderItemID, o.OrderNumber),
				errors.ErrCodeUnknownOrderItem).WithDetails(details)
		}
		if seen[item.ID] {
			return errors.NewValidationError(
				fmt.Sprintf("order item %d appears more than once", item.ID),
				errors.ErrCodeValidationFailed).WithDetails(details)
		}
		seen[item.ID] = true

		if line.QuantityReceived < 0 {
			return errors.NewValidationError(
				fmt.Sprintf("order item %d: quantity received must not be negative", item.ID),
				errors.ErrCodeInvalidQuantity).WithDetails(details)
		}
		if line.ActualCostPrice.IsNegative() {
			return errors.NewValidationError(
				fmt.Sprintf("order item %d: actual cost price must not be negative", item.ID),
				errors.ErrCodeInvalidAmount).WithDetails(details)
		}
		if !validation.FitsMoneyScale(line.ActualCostPrice) {
			return errors.NewValidationError(
				fmt.Sprintf("order item %d: actual cost price must have at most %d decimal places", item.ID, validation.MoneyScale),
				errors.ErrCodeInvalidAmount).WithDetails(details)
		}
		if line.QuantityReceived > item.Outstanding() {
			details["outstanding"] = item.Outstanding()
			return errors.NewValidationError(
				fmt.Sprintf("order item %d: receiving %d exceeds the %d still outstanding", item.ID, line.QuantityReceived, item.Outstanding()),
				errors.ErrCodeOverReceipt).WithDetails(details)
		}
		total += line.QuantityReceived
	}
	if total == 0 {
		return errors.NewValidationError("receipt session does not receive any goods", errors.ErrCodeInvalidQuantity).
			WithDetails(map[string]interface{}{"order_id": o.ID})
	}
	return nil
}
