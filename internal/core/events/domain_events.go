package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeInstallmentRecorded    = "loan.installment_recorded"
	EventTypeDebtPaymentRecorded    = "debt.payment_recorded"
	EventTypeDebtWrittenOff         = "debt.written_off"
	EventTypeSavingsTransaction     = "savings.transaction_recorded"
	EventTypeGoodsReceived          = "purchasing.goods_received"
	EventTypePriceAdjusted          = "inventory.price_adjusted"
	EventTypeSaleRecorded           = "sales.recorded"
	EventTypeServiceJobStatusChange = "servicejob.status_changed"
)

// AllEventTypes is the set forwarded to the message broker.
var AllEventTypes = []string{
	EventTypeInstallmentRecorded,
	EventTypeDebtPaymentRecorded,
	EventTypeDebtWrittenOff,
	EventTypeSavingsTransaction,
	EventTypeGoodsReceived,
	EventTypePriceAdjusted,
	EventTypeSaleRecorded,
	EventTypeServiceJobStatusChange,
}

// New builds an event stamped with a fresh id and the current time.
func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// BalanceChanged covers installments, debt payments and savings transactions.
type BalanceChanged struct {
	BaseEvent
	EntryID       int64  `json:"entry_id"`
	TransactionID int64  `json:"transaction_id"`
	Kind          string `json:"kind"`
	Amount        string `json:"amount"`
	Running       string `json:"running"`
	Status        string `json:"status"`
}

func NewBalanceChanged(eventType string, entryID, transactionID int64, kind, amount, running, status string) *BalanceChanged {
	return &BalanceChanged{
		BaseEvent: New(eventType, map[string]interface{}{
			"entry_id":       entryID,
			"transaction_id": transactionID,
			"kind":           kind,
			"amount":         amount,
			"running":        running,
			"status":         status,
		}),
		EntryID:       entryID,
		TransactionID: transactionID,
		Kind:          kind,
		Amount:        amount,
		Running:       running,
		Status:        status,
	}
}

// DebtWrittenOff closes an entry with whatever amount was still open.
type DebtWrittenOff struct {
	BaseEvent
	EntryID   int64  `json:"entry_id"`
	Nature    string `json:"nature"`
	Remaining string `json:"remaining"`
	Reason    string `json:"reason"`
}

func NewDebtWrittenOff(entryID int64, nature, remaining, reason string) *DebtWrittenOff {
	return &DebtWrittenOff{
		BaseEvent: New(EventTypeDebtWrittenOff, map[string]interface{}{
			"entry_id":  entryID,
			"nature":    nature,
			"remaining": remaining,
			"reason":    reason,
		}),
		EntryID:   entryID,
		Nature:    nature,
		Remaining: remaining,
		Reason:    reason,
	}
}

type GoodsReceived struct {
	BaseEvent
	OrderID       int64  `json:"order_id"`
	Status        string `json:"status"`
	InvoiceNumber string `json:"invoice_number"`
	Lines         int    `json:"lines"`
	Adjustments   int    `json:"adjustments"`
}

func NewGoodsReceived(orderID int64, status, invoiceNumber string, lines, adjustments int) *GoodsReceived {
	return &GoodsReceived{
		BaseEvent: New(EventTypeGoodsReceived, map[string]interface{}{
			"order_id":       orderID,
			"status":         status,
			"invoice_number": invoiceNumber,
			"lines":          lines,
			"adjustments":    adjustments,
		}),
		OrderID:       orderID,
		Status:        status,
		InvoiceNumber: invoiceNumber,
		Lines:         lines,
		Adjustments:   adjustments,
	}
}

type PriceAdjusted struct {
	BaseEvent
	ProductID int64  `json:"product_id"`
	Tier      string `json:"tier"`
	OldPrice  string `json:"old_price"`
	NewPrice  string `json:"new_price"`
}

func NewPriceAdjusted(productID int64, tier, oldPrice, newPrice string) *PriceAdjusted {
	return &PriceAdjusted{
		BaseEvent: New(EventTypePriceAdjusted, map[string]interface{}{
			"product_id": productID,
			"tier":       tier,
			"old_price":  oldPrice,
			"new_price":  newPrice,
		}),
		ProductID: productID,
		Tier:      tier,
		OldPrice:  oldPrice,
		NewPrice:  newPrice,
	}
}

type SaleRecorded struct {
	BaseEvent
	SaleID    int64  `json:"sale_id"`
	InvoiceNo string `json:"invoice_no"`
	Segment   string `json:"segment"`
	Total     string `json:"total"`
	Items     int    `json:"items"`
}

func NewSaleRecorded(saleID int64, invoiceNo, segment, total string, items int) *SaleRecorded {
	return &SaleRecorded{
		BaseEvent: New(EventTypeSaleRecorded, map[string]interface{}{
			"sale_id":    saleID,
			"invoice_no": invoiceNo,
			"segment":    segment,
			"total":      total,
			"items":      items,
		}),
		SaleID:    saleID,
		InvoiceNo: invoiceNo,
		Segment:   segment,
		Total:     total,
		Items:     items,
	}
}

type ServiceJobStatusChanged struct {
	BaseEvent
	JobID       int64  `json:"job_id"`
	PlateNumber string `json:"plate_number"`
	From        string `json:"from"`
	To          string `json:"to"`
}

func NewServiceJobStatusChanged(jobID int64, plateNumber, from, to string) *ServiceJobStatusChanged {
	return &ServiceJobStatusChanged{
		BaseEvent: New(EventTypeServiceJobStatusChange, map[string]interface{}{
			"job_id":       jobID,
			"plate_number": plateNumber,
			"from":         from,
			"to":           to,
		}),
		JobID:       jobID,
		PlateNumber: plateNumber,
		From:        from,
		To:          to,
	}
}
