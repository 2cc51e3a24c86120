package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64           `gorm:"primaryKey"`
	SKU           string          `gorm:"column:sku;uniqueIndex;not null"`
	Name          string          `gorm:"column:name;not null"`
	Category      string          `gorm:"column:category;not null;index"`
	CostPrice     decimal.Decimal `gorm:"column:cost_price;type:numeric(15,2);not null"`
	StockQuantity int64           `gorm:"column:stock_quantity;not null;default:0"`
	MinimumStock  int64           `gorm:"column:minimum_stock;not null;default:0"`
	Prices        []ProductPrice  `gorm:"foreignKey:ProductID"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}

type ProductPrice struct {
	ID        int64           `gorm:"primaryKey"`
	ProductID int64           `gorm:"column:product_id;not null;uniqueIndex:idx_product_tier"`
	Tier      string          `gorm:"column:tier;not null;uniqueIndex:idx_product_tier"`
	Position  int             `gorm:"column:position;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(15,2);not null"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductPrice) TableName() string {
	return "product_prices"
}

type PriceAdjustment struct {
	ID              int64           `gorm:"primaryKey"`
	ProductID       int64           `gorm:"column:product_id;not null;index"`
	SupplierOrderID *int64          `gorm:"column:supplier_order_id;index"`
	Tier            string          `gorm:"column:tier;not null"`
	OldPrice        decimal.Decimal `gorm:"column:old_price;type:numeric(15,2);not null"`
	NewPrice        decimal.Decimal `gorm:"column:new_price;type:numeric(15,2);not null"`
	CostBefore      decimal.Decimal `gorm:"column:cost_before;type:numeric(15,2);not null"`
	CostAfter       decimal.Decimal `gorm:"column:cost_after;type:numeric(15,2);not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (PriceAdjustment) TableName() string {
	return "price_adjustments"
}
