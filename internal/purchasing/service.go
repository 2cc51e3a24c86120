package purchasing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/common/dates"
	inventoryDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/inventory"
	purchasingDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/purchasing"
	"github.com/frahmantamala/bengkelku/internal/core/events"
	"github.com/frahmantamala/bengkelku/internal/inventory"
	"github.com/frahmantamala/bengkelku/pkg/logger"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, order *purchasingDatamodel.SupplierOrder) error
	GetByID(ctx context.Context, id int64) (*purchasingDatamodel.SupplierOrder, error)
	List(ctx context.Context, statuses []string) ([]*purchasingDatamodel.SupplierOrder, error)
	// SwapStatus writes the order header only while its stored status equals expected.
	SwapStatus(ctx context.Context, order *purchasingDatamodel.SupplierOrder, expected string) error
	// SwapItemReceipt writes the received quantity and actual cost only while
	// the stored quantity equals expectedReceived.
	SwapItemReceipt(ctx context.Context, item *purchasingDatamodel.SupplierOrderItem, expectedReceived int64) error
}

type Service struct {
	uow       uow.UOW
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(u uow.UOW, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		uow:       u,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) repository() (Repository, error) {
	return uow.GetRepositoryAs[Repository](s.uow, RepositoryName)
}

func newOrderNumber(dto CreateOrderDTO) string {
	if n := strings.TrimSpace(dto.OrderNumber); n != "" {
		return n
	}
	return fmt.Sprintf("PO-%s-%s", dto.OrderDate.Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
}

func (s *Service) CreateOrder(ctx context.Context, dto CreateOrderDTO) (*Order, error) {
	log := logger.FromOr(ctx, s.logger)
	if err := dto.Validate(); err != nil {
		log.Warn("supplier order validation failed", "error", err)
		return nil, err
	}
	dto.OrderDate = dates.OrToday(dto.OrderDate)

	order := &Order{
		OrderNumber:  newOrderNumber(dto),
		SupplierName: dto.SupplierName,
		Status:       StatusDraft,
		OrderDate:    dto.OrderDate,
		Notes:        dto.Notes,
	}
	for _, item := range dto.Items {
		order.Items = append(order.Items, &OrderItem{
			ProductID:     item.ProductID,
			OrderQuantity: item.OrderQuantity,
			EstimatedCost: item.EstimatedCost,
		})
	}

	var created *purchasingDatamodel.SupplierOrder
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.TX) error {
		orders, err := uow.GetAs[Repository](tx, RepositoryName)
		if err != nil {
			return err
		}
		products, err := uow.GetAs[inventory.Repository](tx, inventory.RepositoryName)
		if err != nil {
			return err
		}
		for _, item := range order.Items {
			if _, err := products.GetByID(ctx, item.ProductID); err != nil {
				return err
			}
		}

		created = ToDataModel(order)
		return orders.Create(ctx, created)
	})
	if err != nil {
		log.Warn("failed to create supplier order", "error", err)
		return nil, err
	}

	log.Info("supplier order created", "order_id", created.ID, "order_number", created.OrderNumber, "items", len(created.Items))
	return FromDataModel(created), nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*Order, error) {
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

// ListOrders with ReceivableOnly lists the orders still open for receipt.
func (s *Service) ListOrders(ctx context.Context, dto ListOrdersDTO) ([]*Order, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var statuses []string
	switch {
	case dto.ReceivableOnly && dto.Status != "":
		if !dto.Status.Receivable() {
			return []*Order{}, nil
		}
		statuses = []string{string(dto.Status)}
	case dto.ReceivableOnly:
		statuses = []string{string(StatusOrdered), string(StatusPartiallyReceived)}
	case dto.Status != "":
		statuses = []string{string(dto.Status)}
	}

	repo, err := s.repository()
	if err != nil {
		return nil, err
	}
	data, err := repo.List(ctx, statuses)
	if err != nil {
		logger.FromOr(ctx, s.logger).Error("failed to list supplier orders", "error", err)
		return nil, err
	}
	return FromDataModelSlice(data), nil
}

func (s *Service) PlaceOrder(ctx context.Context, id int64) (*Order, error) {
	return s.transition(ctx, id, StatusOrdered, StatusDraft)
}

// CancelOrder is refused once any goods have been booked.
func (s *Service) CancelOrder(ctx context.Context, id int64) (*Order, error) {
	return s.transition(ctx, id, StatusCancelled, StatusDraft, StatusOrdered)
}

func (s *Service) transition(ctx context.Context, id int64, to Status, from ...Status) (*Order, error) {
	log := logger.FromOr(ctx, s.logger).With("order_id", id)

	var order *Order
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.TX) error {
		repo, err := uow.GetAs[Repository](tx, RepositoryName)
		if err != nil {
			return err
		}
		data, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		order = FromDataModel(data)
		allowed := false
		for _, f := range from {
			allowed = allowed || order.Status == f
		}
		if !allowed || order.HasReceipts() {
			return errors.ErrInvalidStatusTransition.WithDetails(map[string]string{
				"from": string(order.Status),
				"to":   string(to),
			})
		}

		expected := order.Status
		order.Status = to
		return repo.SwapStatus(ctx, ToDataModel(order), string(expected))
	})
	if err != nil {
		log.Warn("supplier order transition failed", "error", err, "to", to)
		return nil, err
	}

	log.Info("supplier order status changed", "status", order.Status)
	return order, nil
}

// ReceiveGoods books one receiving session. Tier prices, price history,
// stock, cost prices, item quantities and the order status change in one
// transaction; any failure leaves all of them untouched.
func (s *Service) ReceiveGoods(ctx context.Context, orderID int64, dto ReceiveGoodsDTO) (*ReceiptResult, error) {
	log := logger.FromOr(ctx, s.logger).With("order_id", orderID)
	if err := dto.Validate(); err != nil {
		log.Warn("receipt validation failed", "error", err)
		return nil, err
	}

	var result *ReceiptResult
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.TX) error {
		orders, err := uow.GetAs[Repository](tx, RepositoryName)
		if err != nil {
			return err
		}
		products, err := uow.GetAs[inventory.Repository](tx, inventory.RepositoryName)
		if err != nil {
			return err
		}

		data, err := orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		order := FromDataModel(data)
		if err := order.CheckReceipt(dto.Lines); err != nil {
			return err
		}

		result = &ReceiptResult{
			Adjustments: []*inventory.PriceAdjustment{},
			Movements:   []StockMovement{},
		}
		loaded := make(map[int64]*inventory.Product)

		for _, line := range dto.Lines {
			if line.QuantityReceived == 0 {
				continue
			}
			item := order.Item(line.OrderItemID)

			product, ok := loaded[item.ProductID]
			if !ok {
				p, err := products.GetByID(ctx, item.ProductID)
				if err != nil {
					return err
				}
				product = inventory.FromDataModel(p)
				loaded[item.ProductID] = product
			}

			adjustments, movement, err := applyLine(ctx, products, order, product, line)
			if err != nil {
				return err
			}
			result.Adjustments = append(result.Adjustments, adjustments...)
			result.Movements = append(result.Movements, movement)

			received := item.QuantityReceived
			cost := line.ActualCostPrice
			item.QuantityReceived += line.QuantityReceived
			item.ActualCostPrice = &cost
			if err := orders.SwapItemReceipt(ctx, ItemToDataModel(item, 0), received); err != nil {
				return err
			}
		}

		expected := order.Status
		receivedAt := dates.OrToday(dto.ReceivedAt)
		order.Status = order.ReceiptStatus()
		order.InvoiceNumber = dto.InvoiceNumber
		order.ReceiptNotes = dto.Notes
		order.ReceivedAt = &receivedAt
		if err := orders.SwapStatus(ctx, ToDataModel(order), string(expected)); err != nil {
			return err
		}

		result.Order = order
		return nil
	})
	if err != nil {
		log.Warn("goods receipt rejected", "error", err)
		return nil, err
	}

	log.Info("goods received",
		"status", result.Order.Status,
		"invoice_number", result.Order.InvoiceNumber,
		"lines", len(result.Movements),
		"price_adjustments", len(result.Adjustments))
	s.publishReceipt(ctx, result)
	return result, nil
}

// applyLine raises the tier prices when the cost went up, records the
// history, then books stock and the new cost price.
func applyLine(ctx context.Context, products inventory.Repository, order *Order, product *inventory.Product, line ReceiptLineDTO) ([]*inventory.PriceAdjustment, StockMovement, error) {
	costBefore := product.CostPrice
	cost := line.ActualCostPrice

	raised := product.PropagateCost(cost)
	adjustments := make([]*inventory.PriceAdjustment, len(raised))
	for i := range raised {
		a := raised[i]
		a.SupplierOrderID = &order.ID
		if err := products.SwapTierPrice(ctx, product.ID, string(a.Tier), a.OldPrice, a.NewPrice); err != nil {
			return nil, StockMovement{}, err
		}
		adjustments[i] = &a
	}
	if len(adjustments) > 0 {
		rows := make([]*inventoryDatamodel.PriceAdjustment, len(adjustments))
		for i, a := range adjustments {
			rows[i] = inventory.AdjustmentToDataModel(a)
		}
		if err := products.CreateAdjustments(ctx, rows); err != nil {
			return nil, StockMovement{}, err
		}
		for i, row := range rows {
			adjustments[i].ID = row.ID
			adjustments[i].CreatedAt = row.CreatedAt
		}
	}

	var stocked int64
	if product.TracksStock() {
		stocked = line.QuantityReceived
	}
	if err := products.ReceiveStock(ctx, product.ID, costBefore, cost, stocked); err != nil {
		return nil, StockMovement{}, err
	}
	product.CostPrice = cost
	product.StockQuantity += stocked

	return adjustments, StockMovement{
		OrderItemID: line.OrderItemID,
		ProductID:   product.ID,
		Quantity:    stocked,
		Stocked:     product.TracksStock(),
		CostBefore:  costBefore,
		CostAfter:   cost,
	}, nil
}

func (s *Service) publishReceipt(ctx context.Context, result *ReceiptResult) {
	if s.publisher == nil {
		return
	}
	log := logger.FromOr(ctx, s.logger)

	order := result.Order
	if err := s.publisher.Publish(ctx, events.NewGoodsReceived(order.ID, string(order.Status), order.InvoiceNumber,
		len(result.Movements), len(result.Adjustments))); err != nil {
		log.Error("failed to publish goods received event", "error", err, "order_id", order.ID)
	}
	for _, a := range result.Adjustments {
		if err := s.publisher.Publish(ctx, events.NewPriceAdjusted(a.ProductID, string(a.Tier), a.OldPrice.String(), a.NewPrice.String())); err != nil {
			log.Error("failed to publish price adjusted event", "error", err, "product_id", a.ProductID)
		}
	}
}
