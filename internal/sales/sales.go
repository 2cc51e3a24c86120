package sales

import (
	"time"

	salesDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/sales"
	"github.com/frahmantamala/bengkelku/internal/inventory"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	"github.com/shopspring/decimal"
)

const RepositoryName uow.RepositoryName = "sales"

type Segment string

const (
	SegmentRetail  Segment = "retail"
	SegmentPartner Segment = "partner"
	SegmentService Segment = "service"
)

var Segments = []string{string(SegmentRetail), string(SegmentPartner), string(SegmentService)}

// Tier is the price tier a segment buys at.
func (s Segment) Tier() inventory.Tier {
	switch s {
	case SegmentPartner:
		return inventory.TierPartner
	case SegmentService:
		return inventory.TierServicePackage
	default:
		return inventory.TierDefault
	}
}

type Item struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Tier      inventory.Tier  `json:"tier"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type Sale struct {
	ID           int64           `json:"id"`
	InvoiceNo    string          `json:"invoice_no"`
	Segment      Segment         `json:"segment"`
	CustomerName string          `json:"customer_name,omitempty"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
	SoldAt       time.Time       `json:"sold_at"`
	Cashier      string          `json:"cashier,omitempty"`
	Items        []Item          `json:"items"`
	CreatedAt    time.Time       `json:"created_at"`
}

// AddItem prices quantity units of p at the segment's tier. It reports false
// when the product has no sellable price.
func (s *Sale) AddItem(p *inventory.Product, quantity int64) (Item, bool) {
	price, ok := p.PriceFor(s.Segment.Tier())
	if !ok {
		return Item{}, false
	}

	item := Item{
		ProductID: p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		Tier:      price.Tier,
		Quantity:  quantity,
		UnitPrice: price.Price,
		LineTotal: price.Price.Mul(decimal.NewFromInt(quantity)),
	}
	s.Items = append(s.Items, item)
	s.Subtotal = s.Subtotal.Add(item.LineTotal)
	return item, true
}

// Settle applies the discount to the subtotal.
func (s *Sale) Settle(discount decimal.Decimal) bool {
	if discount.GreaterThan(s.Subtotal) {
		return false
	}
	s.Discount = discount
	s.Total = s.Subtotal.Sub(discount)
	return true
}

func ToDataModel(s *Sale) *salesDatamodel.Sale {
	items := make([]salesDatamodel.SaleItem, len(s.Items))
	for i, item := range s.Items {
		items[i] = salesDatamodel.SaleItem{
			ID:        item.ID,
			SaleID:    s.ID,
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Name:      item.Name,
			Tier:      string(item.Tier),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		}
	}
	return &salesDatamodel.Sale{
		ID:           s.ID,
		InvoiceNo:    s.InvoiceNo,
		Segment:      string(s.Segment),
		CustomerName: s.CustomerName,
		Subtotal:     s.Subtotal,
		Discount:     s.Discount,
		Total:        s.Total,
		SoldAt:       s.SoldAt,
		Cashier:      s.Cashier,
		Items:        items,
		CreatedAt:    s.CreatedAt,
	}
}

func FromDataModel(s *salesDatamodel.Sale) *Sale {
	items := make([]Item, len(s.Items))
	for i, item := range s.Items {
		items[i] = Item{
			ID:        item.ID,
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Name:      item.Name,
			Tier:      inventory.Tier(item.Tier),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		}
	}
	return &Sale{
		ID:           s.ID,
		InvoiceNo:    s.InvoiceNo,
		Segment:      Segment(s.Segment),
		CustomerName: s.CustomerName,
		Subtotal:     s.Subtotal,
		Discount:     s.Discount,
		Total:        s.Total,
		SoldAt:       s.SoldAt,
		Cashier:      s.Cashier,
		Items:        items,
		CreatedAt:    s.CreatedAt,
	}
}

func FromDataModelSlice(sales []*salesDatamodel.Sale) []*Sale {
	out := make([]*Sale, len(sales))
	for i, s := range sales {
		out[i] = FromDataModel(s)
	}
	return out
}
