package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID           int64           `gorm:"primaryKey"`
	InvoiceNo    string          `gorm:"column:invoice_no;uniqueIndex;not null"`
	Segment      string          `gorm:"column:segment;not null;index"`
	CustomerName string          `gorm:"column:customer_name"`
	Subtotal     decimal.Decimal `gorm:"column:subtotal;type:numeric(15,2);not null"`
	Discount     decimal.Decimal `gorm:"column:discount;type:numeric(15,2);not null"`
	Total        decimal.Decimal `gorm:"column:total;type:numeric(15,2);not null"`
	SoldAt       time.Time       `gorm:"column:sold_at;index"`
	Cashier      string          `gorm:"column:cashier"`
	Items        []SaleItem      `gorm:"foreignKey:SaleID"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Sale) TableName() string {
	return "sales"
}

type SaleItem struct {
	ID        int64           `gorm:"primaryKey"`
	SaleID    int64           `gorm:"column:sale_id;not null;index"`
	ProductID int64           `gorm:"column:product_id;not null"`
	SKU       string          `gorm:"column:sku;not null"`
	Name      string          `gorm:"column:name;not null"`
	Tier      string          `gorm:"column:tier;not null"`
	Quantity  int64           `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(15,2);not null"`
	LineTotal decimal.Decimal `gorm:"column:line_total;type:numeric(15,2);not null"`
}

func (SaleItem) TableName() string {
	return "sale_items"
}
