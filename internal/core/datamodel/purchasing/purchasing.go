package purchasing

import (
	"time"

	"github.com/shopspring/decimal"
)

type SupplierOrder struct {
	ID            int64               `gorm:"primaryKey"`
	OrderNumber   string              `gorm:"column:order_number;uniqueIndex;not null"`
	SupplierName  string              `gorm:"column:supplier_name;not null"`
	Status        string              `gorm:"column:status;not null;index"`
	OrderDate     time.Time           `gorm:"column:order_date;type:date"`
	InvoiceNumber string              `gorm:"column:invoice_number"`
	ReceiptNotes  string              `gorm:"column:receipt_notes"`
	ReceivedAt    *time.Time          `gorm:"column:received_at;type:date"`
	Notes         string              `gorm:"column:notes"`
	Items         []SupplierOrderItem `gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (SupplierOrder) TableName() string {
	return "supplier_orders"
}

type SupplierOrderItem struct {
	ID               int64            `gorm:"primaryKey"`
	OrderID          int64            `gorm:"column:order_id;not null;index"`
	Position         int              `gorm:"column:position;not null"`
	ProductID        int64            `gorm:"column:product_id;not null"`
	OrderQuantity    int64            `gorm:"column:order_quantity;not null"`
	QuantityReceived int64            `gorm:"column:quantity_received;not null;default:0"`
	EstimatedCost    decimal.Decimal  `gorm:"column:estimated_cost;type:numeric(15,2);not null"`
	ActualCostPrice  *decimal.Decimal `gorm:"column:actual_cost_price;type:numeric(15,2)"`
}

func (SupplierOrderItem) TableName() string {
	return "supplier_order_items"
}
