package inventory

import (
	"context"
	"log/slog"

	inventoryDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/inventory"
	"github.com/frahmantamala/bengkelku/pkg/logger"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, product *inventoryDatamodel.Product) error
	GetByID(ctx context.Context, id int64) (*inventoryDatamodel.Product, error)
	List(ctx context.Context, category, search string, lowStock bool) ([]*inventoryDatamodel.Product, error)
	Update(ctx context.Context, product *inventoryDatamodel.Product) error
	Delete(ctx context.Context, id int64) error
	SwapTierPrice(ctx context.Context, productID int64, tier string, expected, price decimal.Decimal) error
	ReceiveStock(ctx context.Context, productID int64, expectedCost, cost decimal.Decimal, quantity int64) error
	DecrementStock(ctx context.Context, productID, quantity int64) error
	CreateAdjustments(ctx context.Context, adjustments []*inventoryDatamodel.PriceAdjustment) error
	ListAdjustments(ctx context.Context, productID int64) ([]*inventoryDatamodel.PriceAdjustment, error)
}

type Service struct {
	uow    uow.UOW
	logger *slog.Logger
}

func NewService(u uow.UOW, logger *slog.Logger) *Service {
	return &Service{
		uow:    u,
		logger: logger,
	}
}

func (s *Service) repository() (Repository, error) {
	return uow.GetRepositoryAs[Repository](s.uow, RepositoryName)
}

func (s *Service) CreateProduct(ctx context.Context, dto CreateProductDTO) (*Product, error) {
	log := logger.FromOr(ctx, s.logger)
	if err := dto.Validate(); err != nil {
		log.Warn("product validation failed", "error", err, "sku", dto.SKU)
		return nil, err
	}

	repo, err := s.repository()
	if err != nil {
		return nil, err
	}
	data := ToDataModel(NewProduct(dto))
	if err := repo.Create(ctx, data); err != nil {
		log.Warn("failed to create product", "error", err, "sku", dto.SKU)
		return nil, err
	}

	log.Info("product created", "product_id", data.ID, "sku", data.SKU, "category", data.Category)
	return FromDataModel(data), nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	repo, err := s.repository()
	if err != nil {
		return nil, err
	}
	data, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(data), nil
}

func (s *Service) ListProducts(ctx context.Context, dto ListProductsDTO) ([]*Product, error) {
	repo, err := s.repository()
	if err != nil {
		return nil, err
	}
	data, err := repo.List(ctx, dto.Category, dto.Search, dto.LowStock)
	if err != nil {
		logger.FromOr(ctx, s.logger).Error("failed to list products", "error", err)
		return nil, err
	}
	return FromDataModelSlice(data), nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, dto UpdateProductDTO) (*Product, error) {
	log := logger.FromOr(ctx, s.logger).With("product_id", id)
	if err := dto.Validate(); err != nil {
		log.Warn("product validation failed", "error", err)
		return nil, err
	}

	var updated *Product
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.TX) error {
		repo, err := uow.GetAs[Repository](tx, RepositoryName)
		if err != nil {
			return err
		}
		data, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		updated = FromDataModel(data)
		updated.Apply(dto)
		return repo.Update(ctx, ToDataModel(updated))
	})
	if err != nil {
		log.Warn("failed to update product", "error", err)
		return nil, err
	}

	log.Info("product updated", "cost_price", updated.CostPrice.String(), "stock", updated.StockQuantity)
	return updated, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.TX) error {
		repo, err := uow.GetAs[Repository](tx, RepositoryName)
		if err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		logger.FromOr(ctx, s.logger).Warn("failed to delete product", "error", err, "product_id", id)
		return err
	}
	logger.FromOr(ctx, s.logger).Info("product deleted", "product_id", id)
	return nil
}

func (s *Service) ListPriceAdjustments(ctx context.Context, productID int64) ([]*PriceAdjustment, error) {
	repo, err := s.repository()
	if err != nil {
		return nil, err
	}
	if _, err := repo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	data, err := repo.ListAdjustments(ctx, productID)
	if err != nil {
		return nil, err
	}
	return AdjustmentsFromDataModel(data), nil
}
