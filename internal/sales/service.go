package sales

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/common/dates"
	salesDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/sales"
	"github.com/frahmantamala/bengkelku/internal/core/events"
	"github.com/frahmantamala/bengkelku/internal/inventory"
	"github.com/frahmantamala/bengkelku/pkg/logger"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, sale *salesDatamodel.Sale) error
	GetByID(ctx context.Context, id int64) (*salesDatamodel.Sale, error)
	List(ctx context.Context, from, to *time.Time, segment string) ([]*salesDatamodel.Sale, error)
}

type Service struct {
	uow       uow.UOW
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(u uow.UOW, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		uow:       u,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) repository() (Repository, error) {
	return uow.GetRepositoryAs[Repository](s.uow, RepositoryName)
}

func (s *Service) invoiceNo(dto RecordSaleDTO, soldAt time.Time) string {
	if n := strings.TrimSpace(dto.InvoiceNo); n != "" {
		return n
	}
	return fmt.Sprintf("INV-%s-%s", soldAt.Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
}

// RecordSale prices every line at the customer's tier, decrements stock for
// stocked products and stores the sale, all in one transaction.
func (s *Service) RecordSale(ctx context.Context, dto RecordSaleDTO) (*Sale, error) {
	log := logger.FromOr(ctx, s.logger)
	if err := dto.Validate(); err != nil {
		log.Warn("sale validation failed", "error", err)
		return nil, err
	}

	soldAt := dto.SoldAt
	if soldAt.IsZero() {
		soldAt = s.now()
	}
	sale := &Sale{
		InvoiceNo:    s.invoiceNo(dto, soldAt),
		Segment:      dto.Segment,
		CustomerName: dto.CustomerName,
		SoldAt:       soldAt.UTC(),
	}
	if actor, ok := errors.ActorFromContext(ctx); ok {
		sale.Cashier = actor.Name
	}

	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.TX) error {
		products, err := uow.GetAs[inventory.Repository](tx, inventory.RepositoryName)
		if err != nil {
			return err
		}
		sales, err := uow.GetAs[Repository](tx, RepositoryName)
		if err != nil {
			return err
		}

		for i, line := range dto.Items {
			data, err := products.GetByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			product := inventory.FromDataModel(data)
			if _, ok := sale.AddItem(product, line.Quantity); !ok {
				return errors.NewValidationError(
					fmt.Sprintf("product %s has no selling price", product.SKU),
					errors.ErrCodeValidationFailed).WithDetails(map[string]interface{}{"line": i, "product_id": product.ID})
			}
			if product.TracksStock() {
				if err := products.DecrementStock(ctx, product.ID, line.Quantity); err != nil {
					return err
				}
			}
		}

		if !sale.Settle(dto.Discount) {
			return errors.ErrDiscountExceedsSubtotal.WithDetails(map[string]interface{}{
				"subtotal": sale.Subtotal.String(),
				"discount": dto.Discount.String(),
			})
		}

		data := ToDataModel(sale)
		if err := sales.Create(ctx, data); err != nil {
			return err
		}
		*sale = *FromDataModel(data)
		return nil
	})
	if err != nil {
		log.Warn("sale rejected", "error", err, "segment", dto.Segment)
		return nil, err
	}

	log.Info("sale recorded",
		"sale_id", sale.ID,
		"invoice_no", sale.InvoiceNo,
		"segment", sale.Segment,
		"total", sale.Total.String())
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewSaleRecorded(sale.ID, sale.InvoiceNo, string(sale.Segment),
			sale.Total.String(), len(sale.Items))); err != nil {
			log.Error("failed to publish sale recorded event", "error", err, "sale_id", sale.ID)
		}
	}
	return sale, nil
}

func (s *Service) GetSale(ctx context.Context, id int64) (*Sale, error) {
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

// ListSales returns sales sold on or after From and on or before the day of To.
func (s *Service) ListSales(ctx context.Context, dto ListSalesDTO) ([]*Sale, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	repo, err := s.repository()
	if err != nil {
		return nil, err
	}

	var from, until *time.Time
	if dto.From != nil {
		f := dates.Truncate(*dto.From)
		from = &f
	}
	if dto.To != nil {
		u := dates.Truncate(*dto.To).AddDate(0, 0, 1)
		until = &u
	}

	data, err := repo.List(ctx, from, until, string(dto.Segment))
	if err != nil {
		logger.FromOr(ctx, s.logger).Error("failed to list sales", "error", err)
		return nil, err
	}
	return FromDataModelSlice(data), nil
}
