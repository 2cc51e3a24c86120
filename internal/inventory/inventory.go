package inventory

import (
	"strings"
	"time"

	inventoryDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/inventory"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	"github.com/shopspring/decimal"
)

const RepositoryName uow.RepositoryName = "inventory"

// CategoryService marks labour items. They are sold but never stocked.
const CategoryService = "Jasa"

type Tier string

const (
	TierDefault        Tier = "default"
	TierPartner        Tier = "partner"
	TierServicePackage Tier = "service_package"
)

var Tiers = []string{string(TierDefault), string(TierPartner), string(TierServicePackage)}

func (t Tier) position() int {
	for i, name := range Tiers {
		if string(t) == name {
			return i
		}
	}
	return len(Tiers)
}

type Price struct {
	Tier  Tier            `json:"tier"`
	Price decimal.Decimal `json:"price"`
}

type Product struct {
	ID            int64           `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	StockQuantity int64           `json:"stock_quantity"`
	MinimumStock  int64           `json:"minimum_stock"`
	Prices        []Price         `json:"prices"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type PriceAdjustment struct {
	ID              int64           `json:"id"`
	ProductID       int64           `json:"product_id"`
	SupplierOrderID *int64          `json:"supplier_order_id,omitempty"`
	Tier            Tier            `json:"tier"`
	OldPrice        decimal.Decimal `json:"old_price"`
	NewPrice        decimal.Decimal `json:"new_price"`
	CostBefore      decimal.Decimal `json:"cost_before"`
	CostAfter       decimal.Decimal `json:"cost_after"`
	CreatedAt       time.Time       `json:"created_at"`
}

func IsServiceCategory(category string) bool {
	return strings.EqualFold(strings.TrimSpace(category), CategoryService)
}

func NewProduct(dto CreateProductDTO) *Product {
	p := &Product{
		SKU:           strings.TrimSpace(dto.SKU),
		Name:          dto.Name,
		Category:      dto.Category,
		CostPrice:     dto.CostPrice,
		StockQuantity: dto.StockQuantity,
		MinimumStock:  dto.MinimumStock,
		Prices:        dto.Prices,
	}
	p.normalize()
	return p
}

func (p *Product) TracksStock() bool {
	return !IsServiceCategory(p.Category)
}

func (p *Product) IsLowStock() bool {
	return p.TracksStock() && p.StockQuantity <= p.MinimumStock
}

func (p *Product) Apply(dto UpdateProductDTO) {
	p.Name = dto.Name
	p.Category = dto.Category
	p.CostPrice = dto.CostPrice
	p.StockQuantity = dto.StockQuantity
	p.MinimumStock = dto.MinimumStock
	p.Prices = dto.Prices
	p.normalize()
}

func (p *Product) normalize() {
	if !p.TracksStock() {
		p.StockQuantity = 0
		p.MinimumStock = 0
	}
}

// PriceFor returns the price of tier, falling back to the default tier.
func (p *Product) PriceFor(tier Tier) (Price, bool) {
	var fallback *Price
	for i := range p.Prices {
		if p.Prices[i].Tier == tier {
			return p.Prices[i], true
		}
		if p.Prices[i].Tier == TierDefault {
			fallback = &p.Prices[i]
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return Price{}, false
}

// PropagateCost raises every tier by the cost increase so absolute margins
// survive a more expensive purchase. A cost that did not rise leaves the
// prices untouched.
func (p *Product) PropagateCost(newCost decimal.Decimal) []PriceAdjustment {
	if !newCost.GreaterThan(p.CostPrice) {
		return nil
	}
	increase := newCost.Sub(p.CostPrice)

	adjustments := make([]PriceAdjustment, 0, len(p.Prices))
	for i := range p.Prices {
		old := p.Prices[i].Price
		p.Prices[i].Price = old.Add(increase)
		adjustments = append(adjustments, PriceAdjustment{
			ProductID:  p.ID,
			Tier:       p.Prices[i].Tier,
			OldPrice:   old,
			NewPrice:   p.Prices[i].Price,
			CostBefore: p.CostPrice,
			CostAfter:  newCost,
		})
	}
	return adjustments
}

func ToDataModel(p *Product) *inventoryDatamodel.Product {
	prices := make([]inventoryDatamodel.ProductPrice, len(p.Prices))
	for i, price := range p.Prices {
		prices[i] = inventoryDatamodel.ProductPrice{
			ProductID: p.ID,
			Tier:      string(price.Tier),
			Position:  price.Tier.position(),
			Price:     price.Price,
		}
	}
	return &inventoryDatamodel.Product{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Category:      p.Category,
		CostPrice:     p.CostPrice,
		StockQuantity: p.StockQuantity,
		MinimumStock:  p.MinimumStock,
		Prices:        prices,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func FromDataModel(p *inventoryDatamodel.Product) *Product {
	prices := make([]Price, len(p.Prices))
	for i, price := range p.Prices {
		prices[i] = Price{Tier: Tier(price.Tier), Price: price.Price}
	}
	return &Product{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Category:      p.Category,
		CostPrice:     p.CostPrice,
		StockQuantity: p.StockQuantity,
		MinimumStock:  p.MinimumStock,
		Prices:        prices,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func FromDataModelSlice(products []*inventoryDatamodel.Product) []*Product {
	result := make([]*Product, len(products))
	for i, p := range products {
		result[i] = FromDataModel(p)
	}
	return result
}

func AdjustmentToDataModel(a *PriceAdjustment) *inventoryDatamodel.PriceAdjustment {
	return &inventoryDatamodel.PriceAdjustment{
		ID:              a.ID,
		ProductID:       a.ProductID,
		SupplierOrderID: a.SupplierOrderID,
		Tier:            string(a.Tier),
		OldPrice:        a.OldPrice,
		NewPrice:        a.NewPrice,
		CostBefore:      a.CostBefore,
		CostAfter:       a.CostAfter,
		CreatedAt:       a.CreatedAt,
	}
}

func AdjustmentFromDataModel(a *inventoryDatamodel.PriceAdjustment) *PriceAdjustment {
	return &PriceAdjustment{
		ID:              a.ID,
		ProductID:       a.ProductID,
		SupplierOrderID: a.SupplierOrderID,
		Tier:            Tier(a.Tier),
		OldPrice:        a.OldPrice,
		NewPrice:        a.NewPrice,
		CostBefore:      a.CostBefore,
		CostAfter:       a.CostAfter,
		CreatedAt:       a.CreatedAt,
	}
}

func AdjustmentsFromDataModel(adjustments []*inventoryDatamodel.PriceAdjustment) []*PriceAdjustment {
	result := make([]*PriceAdjustment, len(adjustments))
	for i, a := range adjustments {
		result[i] = AdjustmentFromDataModel(a)
	}
	return result
}
