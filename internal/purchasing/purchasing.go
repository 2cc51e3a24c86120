package purchasing

import (
	"time"

	purchasingDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/purchasing"
	"github.com/frahmantamala/bengkelku/internal/inventory"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	"github.com/shopspring/decimal"
)

const RepositoryName uow.RepositoryName = "purchasing"

type Status string

const (
	StatusDraft             Status = "draft"
	StatusOrdered           Status = "ordered"
	StatusPartiallyReceived Status = "partially_received"
	StatusFullyReceived     Status = "fully_received"
	StatusCancelled         Status = "cancelled"
)

var Statuses = []string{
	string(StatusDraft),
	string(StatusOrdered),
	string(StatusPartiallyReceived),
	string(StatusFullyReceived),
	string(StatusCancelled),
}

// Receivable reports whether goods can still be booked against the order.
func (s Status) Receivable() bool {
	return s == StatusOrdered || s == StatusPartiallyReceived
}

type OrderItem struct {
	ID               int64            `json:"id"`
	OrderID          int64            `json:"order_id"`
	ProductID        int64            `json:"product_id"`
	OrderQuantity    int64            `json:"order_quantity"`
	QuantityReceived int64            `json:"quantity_received"`
	EstimatedCost    decimal.Decimal  `json:"estimated_cost"`
	ActualCostPrice  *decimal.Decimal `json:"actual_cost_price,omitempty"`
}

func (i *OrderItem) Outstanding() int64 {
	if i.QuantityReceived >= i.OrderQuantity {
		return 0
	}
	return i.OrderQuantity - i.QuantityReceived
}

type Order struct {
	ID            int64        `json:"id"`
	OrderNumber   string       `json:"order_number"`
	SupplierName  string       `json:"supplier_name"`
	Status        Status       `json:"status"`
	OrderDate     time.Time    `json:"order_date"`
	InvoiceNumber string       `json:"invoice_number,omitempty"`
	ReceiptNotes  string       `json:"receipt_notes,omitempty"`
	ReceivedAt    *time.Time   `json:"received_at,omitempty"`
	Notes         string       `json:"notes"`
	Items         []*OrderItem `json:"items"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (o *Order) Item(id int64) *OrderItem {
	for _, item := range o.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

func (o *Order) HasReceipts() bool {
	for _, item := range o.Items {
		if item.QuantityReceived > 0 {
			return true
		}
	}
	return false
}

// ReceiptStatus is fully_received once every item reached its ordered quantity.
func (o *Order) ReceiptStatus() Status {
	for _, item := range o.Items {
		if item.QuantityReceived < item.OrderQuantity {
			return StatusPartiallyReceived
		}
	}
	return StatusFullyReceived
}

// StockMovement is one product's change caused by a receipt line.
type StockMovement struct {
	OrderItemID int64           `json:"order_item_id"`
	ProductID   int64           `json:"product_id"`
	Quantity    int64           `json:"quantity"`
	Stocked     bool            `json:"stocked"`
	CostBefore  decimal.Decimal `json:"cost_before"`
	CostAfter   decimal.Decimal `json:"cost_after"`
}

type ReceiptResult struct {
	Order       *Order                       `json:"order"`
	Adjustments []*inventory.PriceAdjustment `json:"price_adjustments"`
	Movements   []StockMovement              `json:"stock_movements"`
}

func ToDataModel(o *Order) *purchasingDatamodel.SupplierOrder {
	items := make([]purchasingDatamodel.SupplierOrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = *ItemToDataModel(item, i)
	}
	return &purchasingDatamodel.SupplierOrder{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		SupplierName:  o.SupplierName,
		Status:        string(o.Status),
		OrderDate:     o.OrderDate,
		InvoiceNumber: o.InvoiceNumber,
		ReceiptNotes:  o.ReceiptNotes,
		ReceivedAt:    o.ReceivedAt,
		Notes:         o.Notes,
		Items:         items,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func ItemToDataModel(item *OrderItem, position int) *purchasingDatamodel.SupplierOrderItem {
	return &purchasingDatamodel.SupplierOrderItem{
		ID:               item.ID,
		OrderID:          item.OrderID,
		Position:         position,
		ProductID:        item.ProductID,
		OrderQuantity:    item.OrderQuantity,
		QuantityReceived: item.QuantityReceived,
		EstimatedCost:    item.EstimatedCost,
		ActualCostPrice:  item.ActualCostPrice,
	}
}

func FromDataModel(o *purchasingDatamodel.SupplierOrder) *Order {
	items := make([]*OrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = &OrderItem{
			ID:               item.ID,
			OrderID:          item.OrderID,
			ProductID:        item.ProductID,
			OrderQuantity:    item.OrderQuantity,
			QuantityReceived: item.QuantityReceived,
			EstimatedCost:    item.EstimatedCost,
			ActualCostPrice:  item.ActualCostPrice,
		}
	}
	return &Order{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		SupplierName:  o.SupplierName,
		Status:        Status(o.Status),
		OrderDate:     o.OrderDate,
		InvoiceNumber: o.InvoiceNumber,
		ReceiptNotes:  o.ReceiptNotes,
		ReceivedAt:    o.ReceivedAt,
		Notes:         o.Notes,
		Items:         items,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func FromDataModelSlice(orders []*purchasingDatamodel.SupplierOrder) []*Order {
	result := make([]*Order, len(orders))
	for i, o := range orders {
		result[i] = FromDataModel(o)
	}
	return result
}
