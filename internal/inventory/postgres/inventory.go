package postgres

import (
	"context"
	"strings"
	"time"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/common/dberr"
	inventoryDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/inventory"
	"github.com/frahmantamala/bengkelku/internal/inventory"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func Register(u uow.UOW) error {
	return u.Register(inventory.RepositoryName, func(db *gorm.DB) uow.Repository {
		return NewProductRepository(db)
	})
}

func (r *ProductRepository) withPrices(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Prices", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

func (r *ProductRepository) Create(ctx context.Context, p *inventoryDatamodel.Product) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if dberr.IsDuplicate(err) {
		return errors.NewConflictError("sku "+p.SKU+" already exists", errors.ErrCodeDuplicateSKU).WithCause(err)
	}
	return dberr.Convert(err, nil, "failed to create product")
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*inventoryDatamodel.Product, error) {
	var p inventoryDatamodel.Product
	if err := r.withPrices(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, dberr.Convert(err, errors.ErrProductNotFound, "failed to get product %d", id)
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context, category, search string, lowStock bool) ([]*inventoryDatamodel.Product, error) {
	var products []*inventoryDatamodel.Product
	q := r.withPrices(ctx).Order("name ASC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(sku) LIKE ?)", like, like)
	}
	if lowStock {
		q = q.Where("LOWER(category) <> ? AND stock_quantity <= minimum_stock", strings.ToLower(inventory.CategoryService))
	}
	if err := q.Find(&products).Error; err != nil {
		return nil, dberr.Convert(err, nil, "failed to list products")
	}
	return products, nil
}

// Update writes the editable columns and replaces the tier prices.
func (r *ProductRepository) Update(ctx context.Context, p *inventoryDatamodel.Product) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&inventoryDatamodel.Product{}).
		Where("id = ?", p.ID).
		Select("name", "category", "cost_price", "stock_quantity", "minimum_stock", "updated_at").
		Updates(p)
	if res.Error != nil {
		return dberr.Convert(res.Error, nil, "failed to update product %d", p.ID)
	}
	if res.RowsAffected == 0 {
		return errors.ErrProductNotFound
	}

	if err := db.Where("product_id = ?", p.ID).Delete(&inventoryDatamodel.ProductPrice{}).Error; err != nil {
		return dberr.Convert(err, nil, "failed to clear prices of product %d", p.ID)
	}
	if len(p.Prices) == 0 {
		return nil
	}
	for i := range p.Prices {
		p.Prices[i].ID = 0
		p.Prices[i].ProductID = p.ID
	}
	if err := db.Create(&p.Prices).Error; err != nil {
		return dberr.Convert(err, nil, "failed to store prices of product %d", p.ID)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("product_id = ?", id).Delete(&inventoryDatamodel.ProductPrice{}).Error; err != nil {
		return dberr.Convert(err, nil, "failed to delete prices of product %d", id)
	}
	if err := db.Where("product_id = ?", id).Delete(&inventoryDatamodel.PriceAdjustment{}).Error; err != nil {
		return dberr.Convert(err, nil, "failed to delete price history of product %d", id)
	}
	res := db.Where("id = ?", id).Delete(&inventoryDatamodel.Product{})
	if res.Error != nil {
		return dberr.Convert(res.Error, nil, "failed to delete product %d", id)
	}
	if res.RowsAffected == 0 {
		return errors.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) SwapTierPrice(ctx context.Context, productID int64, tier string, expected, price decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&inventoryDatamodel.ProductPrice{}).
		Where("product_id = ? AND tier = ? AND price = ?", productID, tier, expected).
		Updates(map[string]interface{}{"price": price, "updated_at": time.Now()})
	if res.Error != nil {
		return dberr.Convert(res.Error, nil, "failed to update %s price of product %d", tier, productID)
	}
	if res.RowsAffected == 0 {
		return errors.ErrConcurrentUpdate
	}
	return nil
}

// ReceiveStock sets the cost price and adds quantity to the stock, provided
// the cost still equals expectedCost.
func (r *ProductRepository) ReceiveStock(ctx context.Context, productID int64, expectedCost, cost decimal.Decimal, quantity int64) error {
	res := r.db.WithContext(ctx).Model(&inventoryDatamodel.Product{}).
		Where("id = ? AND cost_price = ?", productID, expectedCost).
		Updates(map[string]interface{}{
			"cost_price":     cost,
			"stock_quantity": gorm.Expr("stock_quantity + ?", quantity),
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return dberr.Convert(res.Error, nil, "failed to receive stock for product %d", productID)
	}
	if res.RowsAffected == 0 {
		return errors.ErrConcurrentUpdate
	}
	return nil
}

// DecrementStock never lets stock go below zero.
func (r *ProductRepository) DecrementStock(ctx context.Context, productID, quantity int64) error {
	res := r.db.WithContext(ctx).Model(&inventoryDatamodel.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, quantity).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - ?", quantity),
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return dberr.Convert(res.Error, nil, "failed to decrement stock of product %d", productID)
	}
	if res.RowsAffected == 0 {
		return errors.ErrInsufficientStock.WithDetails(map[string]interface{}{
			"product_id": productID,
			"quantity":   quantity,
		})
	}
	return nil
}

func (r *ProductRepository) CreateAdjustments(ctx context.Context, adjustments []*inventoryDatamodel.PriceAdjustment) error {
	if len(adjustments) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Create(&adjustments).Error
	return dberr.Convert(err, nil, "failed to record price adjustments")
}

func (r *ProductRepository) ListAdjustments(ctx context.Context, productID int64) ([]*inventoryDatamodel.PriceAdjustment, error) {
	var adjustments []*inventoryDatamodel.PriceAdjustment
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("created_at DESC, id DESC").Find(&adjustments).Error
	if err != nil {
		return nil, dberr.Convert(err, nil, "failed to list price adjustments of product %d", productID)
	}
	return adjustments, nil
}
