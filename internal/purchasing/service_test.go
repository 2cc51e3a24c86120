package purchasing_test

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/events"
	"github.com/frahmantamala/bengkelku/internal/inventory"
	inventoryPostgres "github.com/frahmantamala/bengkelku/internal/inventory/postgres"
	"github.com/frahmantamala/bengkelku/internal/purchasing"
	purchasingPostgres "github.com/frahmantamala/bengkelku/internal/purchasing/postgres"
	. "github.com/frahmantamala/bengkelku/internal/testutil"
	"github.com/frahmantamala/bengkelku/pkg/logger"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestPurchasing(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Purchasing Suite")
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

// brokenStock fails to book stock for one product.
type brokenStock struct {
	*inventoryPostgres.ProductRepository
	productID int64
}

func (b brokenStock) ReceiveStock(ctx context.Context, productID int64, expectedCost, cost decimal.Decimal, quantity int64) error {
	if productID == b.productID {
		return stderrors.New("connection reset")
	}
	return b.ProductRepository.ReceiveStock(ctx, productID, expectedCost, cost, quantity)
}

var _ = Describe("Purchasing Service", func() {
	var (
		ctx       context.Context
		db        *gorm.DB
		unit      *uow.UnitOfWork
		publisher *recordingPublisher
		service   *purchasing.Service
		products  *inventory.Service
		oli, ban  *inventory.Product
	)

	newProduct := func(sku, category, cost string, stock int64, prices ...string) *inventory.Product {
		dto := inventory.CreateProductDTO{
			SKU:           sku,
			Name:          sku,
			Category:      category,
			CostPrice:     D(cost),
			StockQuantity: stock,
		}
		tiers := []inventory.Tier{inventory.TierDefault, inventory.TierPartner, inventory.TierServicePackage}
		for i, price := range prices {
			dto.Prices = append(dto.Prices, inventory.Price{Tier: tiers[i], Price: D(price)})
		}
		p, err := products.CreateProduct(ctx, dto)
		Expect(err).NotTo(HaveOccurred())
		return p
	}

	placed := func(items ...purchasing.CreateOrderItemDTO) *purchasing.Order {
		order, err := service.CreateOrder(ctx, purchasing.CreateOrderDTO{
			SupplierName: "PT Sumber Motor",
			OrderDate:    Day(2026, 5, 1),
			Items:        items,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(order.Status).To(Equal(purchasing.StatusDraft))

		order, err = service.PlaceOrder(ctx, order.ID)
		Expect(err).NotTo(HaveOccurred())
		return order
	}

	line := func(item *purchasing.OrderItem, quantity int64, cost string) purchasing.ReceiptLineDTO {
		return purchasing.ReceiptLineDTO{OrderItemID: item.ID, QuantityReceived: quantity, ActualCostPrice: D(cost)}
	}

	reload := func(id int64) *inventory.Product {
		p, err := products.GetProduct(ctx, id)
		Expect(err).NotTo(HaveOccurred())
		return p
	}

	BeforeEach(func() {
		var err error
		db, err = NewSQLiteDB()
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()

		unit = uow.NewUnitOfWork(db)
		Expect(inventoryPostgres.Register(unit)).To(Succeed())
		Expect(purchasingPostgres.Register(unit)).To(Succeed())

		publisher = &recordingPublisher{}
		service = purchasing.NewService(unit, publisher, logger.Discard())
		products = inventory.NewService(unit, logger.Discard())

		oli = newProduct("OLI-01", "Oli", "50000", 4, "75000", "65000")
		ban = newProduct("BAN-01", "Ban", "200000", 0, "260000")
	})

	Describe("ReceiveGoods", func() {
		It("passes a cost increase through to every tier", func() {
			order := placed(purchasing.CreateOrderItemDTO{ProductID: oli.ID, OrderQuantity: 6, EstimatedCost: D("50000")})

			result, err := service.ReceiveGoods(ctx, order.ID, purchasing.ReceiveGoodsDTO{
				InvoiceNumber: "INV-889",
				Lines:         []purchasing.ReceiptLineDTO{line(order.Items[0], 6, "60000")},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Order.Status).To(Equal(purchasing.StatusFullyReceived))
			Expect(result.Order.InvoiceNumber).To(Equal("INV-889"))
			Expect(result.Adjustments).To(HaveLen(2))
			Expect(result.Adjustments[0].SupplierOrderID).To(HaveValue(Equal(order.ID)))
			Expect(result.Movements).To(ConsistOf(HaveField("Quantity", BeEquivalentTo(6))))

			p := reload(oli.ID)
			Expect(p.CostPrice).To(EqualDecimal("60000"))
			Expect(p.StockQuantity).To(BeEquivalentTo(10))
			Expect(p.Prices[0].Price).To(EqualDecimal("85000"))
			Expect(p.Prices[1].Price).To(EqualDecimal("75000"))

			history, err := products.ListPriceAdjustments(ctx, oli.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(history).To(HaveLen(2))

			Expect(publisher.types()).To(ConsistOf(
				events.EventTypeGoodsReceived,
				events.EventTypePriceAdjusted,
				events.EventTypePriceAdjusted,
			))
		})

		It("takes a cheaper cost without touching prices", func() {
			order := placed(purchasing.CreateOrderItemDTO{ProductID: oli.ID, OrderQuantity: 2, EstimatedCost: D("50000")})

			result, err := service.ReceiveGoods(ctx, order.ID, purchasing.ReceiveGoodsDTO{
				Lines: []purchasing.ReceiptLineDTO{line(order.Items[0], 2, "45000")},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Adjustments).To(BeEmpty())

			p := reload(oli.ID)
			Expect(p.CostPrice).To(EqualDecimal("45000"))
			Expect(p.Prices[0].Price).To(EqualDecimal("75000"))
		})

		It("moves through partial receipts until everything arrived", func() {
			order := placed(
				purchasing.CreateOrderItemDTO{ProductID: oli.ID, OrderQuantity: 10, EstimatedCost: D("50000")},
				purchasing.CreateOrderItemDTO{ProductID: ban.ID, OrderQuantity: 5, EstimatedCost: D("200000")},
			)

			first, err := service.ReceiveGoods(ctx, order.ID, purchasing.ReceiveGoodsDTO{
				Lines: []purchasing.ReceiptLineDTO{
					line(order.Items[0], 10, "50000"),
					line(order.Items[1], 3, "200000"),
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Order.Status).To(Equal(purchasing.StatusPartiallyReceived))

			receivable, err := service.ListOrders(ctx, purchasing.ListOrdersDTO{ReceivableOnly: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(receivable).To(HaveLen(1))

			second, err := service.ReceiveGoods(ctx, order.ID, purchasing.ReceiveGoodsDTO{
				Lines: []purchasing.ReceiptLineDTO{line(order.Items[1], 2, "200000")},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Order.Status).To(Equal(purchasing.StatusFullyReceived))
			Expect(second.Order.Items[1].QuantityReceived).To(BeEquivalentTo(5))

			Expect(reload(oli.ID).StockQuantity).To(BeEquivalentTo(14))
			Expect(reload(ban.ID).StockQuantity).To(BeEquivalentTo(5))

			_, err = service.ReceiveGoods(ctx, order.ID, purchasing.ReceiveGoodsDTO{
				Lines: []purchasing.ReceiptLineDTO{line(order.Items[1], 0, "200000")},
			})
			Expect(err).To(MatchError(errors.ErrOrderNotReceivable))

			receivable, err = service.ListOrders(ctx, purchasing.ListOrdersDTO{ReceivableOnly: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(receivable).To(BeEmpty())
		})

		It("rejects the whole session on the first invalid line", func() {
			order := placed(
				purchasing.CreateOrderItemDTO{ProductID: oli.ID, OrderQuantity: 10, EstimatedCost: D("50000")},
				purchasing.CreateOrderItemDTO{ProductID: ban.ID, OrderQuantity: 5, EstimatedCost: D("200000")},
			)

			_, err := service.ReceiveGoods(ctx, order.ID, purchasing.ReceiveGoodsDTO{
				Lines: []purchasing.ReceiptLineDTO{
					line(order.Items[0], 10, "60000"),
					line(order.Items[1], -1, "200000"),
				},
			})
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(errors.ErrCodeInvalidQuantity))
			Expect(appErr.Details).To(HaveKeyWithValue("order_item_id", order.Items[1].ID))

			p := reload(oli.ID)
			Expect(p.CostPrice).To(EqualDecimal("50000"))
			Expect(p.StockQuantity).To(BeEquivalentTo(4))
			Expect(publisher.types()).To(BeEmpty())
		})

		DescribeTable("refuses bad lines",
			func(build func(order *purchasing.Order) purchasing.ReceiptLineDTO, code errors.ErrorCode) {
				order := placed(purchasing.CreateOrderItemDTO{ProductID: oli.ID, OrderQuantity: 3, EstimatedCost: D("50000")})
				_, err := service.ReceiveGoods(ctx, order.ID, purchasing.ReceiveGoodsDTO{
					Lines: []purchasing.ReceiptLineDTO{build(order)},
				})
				appErr, ok := errors.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(code))
			},
			Entry("more than outstanding", func(o *purchasing.Order) purchasing.ReceiptLineDTO {
				return line(o.Items[0], 4, "50000")
			}, errors.ErrCodeOverReceipt),
			Entry("negative cost", func(o *purchasing.Order) purchasing.ReceiptLineDTO {
				return line(o.Items[0], 1, "-1")
			}, errors.ErrCodeInvalidAmount),
			Entry("item of another order", func(o *purchasing.Order) purchasing.ReceiptLineDTO {
				return purchasing.ReceiptLineDTO{OrderItemID: 999, QuantityReceived: 1, ActualCostPrice: D("1")}
			}, errors.ErrCodeUnknownOrderItem),
			Entry("cost finer than a cent", func(o *purchasing.Order) purchasing.ReceiptLineDTO {
				return line(o.Items[0], 1, "50000.005")
			}, errors.ErrCodeInvalidAmount),
			Entry("nothing received", func(o *purchasing.Order) purchasing.ReceiptLineDTO {
				return line(o.Items[0], 0, "50000")
			}, errors.ErrCodeInvalidQuantity),
		)

		It("leaves the order open when a session receives nothing", func() {
			order := placed(purchasing.CreateOrderItemDTO{ProductID: oli.ID, OrderQuantity: 2, EstimatedCost: D("50000")})

			_, err := service.ReceiveGoods(ctx, order.ID, purchasing.ReceiveGoodsDTO{
				InvoiceNumber: "INV-000",
				Lines:         []purchasing.ReceiptLineDTO{line(order.Items[0], 0, "50000")},
			})
			Expect(err).To(HaveOccurred())

			reloaded, err := service.GetOrder(ctx, order.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.Status).To(Equal(purchasing.StatusOrdered))
			Expect(reloaded.InvoiceNumber).To(BeEmpty())
			Expect(reloaded.ReceivedAt).To(BeNil())
			Expect(publisher.types()).To(BeEmpty())

			cancelled, err := service.CancelOrder(ctx, order.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(cancelled.Status).To(Equal(purchasing.StatusCancelled))
		})

		It("skips zero-quantity lines next to received ones", func() {
			order := placed(
				purchasing.CreateOrderItemDTO{ProductID: oli.ID, OrderQuantity: 2, EstimatedCost: D("50000")},
				purchasing.CreateOrderItemDTO{ProductID: ban.ID, OrderQuantity: 1, EstimatedCost: D("200000")},
			)

			result, err := service.ReceiveGoods(ctx, order.ID, purchasing.ReceiveGoodsDTO{
				Lines: []purchasing.ReceiptLineDTO{
					line(order.Items[0], 2, "50000"),
					line(order.Items[1], 0, "250000"),
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Order.Status).To(Equal(purchasing.StatusPartiallyReceived))
			Expect(result.Movements).To(HaveLen(1))
			Expect(result.Adjustments).To(BeEmpty())

			p := reload(ban.ID)
			Expect(p.CostPrice).To(EqualDecimal("200000"))
			Expect(p.StockQuantity).To(BeEquivalentTo(0))
		})

		It("refuses draft orders", func() {
			order, err := service.CreateOrder(ctx, purchasing.CreateOrderDTO{
				SupplierName: "PT Sumber Motor",
				Items:        []purchasing.CreateOrderItemDTO{{ProductID: oli.ID, OrderQuantity: 1}},
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ReceiveGoods(ctx, order.ID, purchasing.ReceiveGoodsDTO{
				Lines: []purchasing.ReceiptLineDTO{line(order.Items[0], 1, "50000")},
			})
			Expect(err).To(MatchError(errors.ErrOrderNotReceivable))
		})

		It("updates the cost of service items without stocking them", func() {
			jasa := newProduct("SRV-01", "Jasa", "20000", 0, "35000")
			order := placed(purchasing.CreateOrderItemDTO{ProductID: jasa.ID, OrderQuantity: 1, EstimatedCost: D("20000")})

			result, err := service.ReceiveGoods(ctx, order.ID, purchasing.ReceiveGoodsDTO{
				Lines: []purchasing.ReceiptLineDTO{line(order.Items[0], 1, "25000")},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Movements[0].Stocked).To(BeFalse())

			p := reload(jasa.ID)
			Expect(p.StockQuantity).To(BeZero())
			Expect(p.CostPrice).To(EqualDecimal("25000"))
			Expect(p.Prices[0].Price).To(EqualDecimal("40000"))
		})

		It("rolls back every product when a later line fails", func() {
			order := placed(
				purchasing.CreateOrderItemDTO{ProductID: oli.ID, OrderQuantity: 10, EstimatedCost: D("50000")},
				purchasing.CreateOrderItemDTO{ProductID: ban.ID, OrderQuantity: 5, EstimatedCost: D("200000")},
			)

			broken := uow.NewUnitOfWork(db)
			Expect(purchasingPostgres.Register(broken)).To(Succeed())
			Expect(broken.Register(inventory.RepositoryName, func(tx *gorm.DB) uow.Repository {
				return brokenStock{ProductRepository: inventoryPostgres.NewProductRepository(tx), productID: ban.ID}
			})).To(Succeed())

			_, err := purchasing.NewService(broken, publisher, logger.Discard()).ReceiveGoods(ctx, order.ID, purchasing.ReceiveGoodsDTO{
				Lines: []purchasing.ReceiptLineDTO{
					line(order.Items[0], 10, "60000"),
					line(order.Items[1], 5, "210000"),
				},
			})
			Expect(err).To(HaveOccurred())

			p := reload(oli.ID)
			Expect(p.CostPrice).To(EqualDecimal("50000"))
			Expect(p.StockQuantity).To(BeEquivalentTo(4))
			Expect(p.Prices[0].Price).To(EqualDecimal("75000"))

			history, err := products.ListPriceAdjustments(ctx, oli.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(history).To(BeEmpty())

			reloaded, err := service.GetOrder(ctx, order.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.Status).To(Equal(purchasing.StatusOrdered))
			Expect(reloaded.Items[0].QuantityReceived).To(BeZero())
			Expect(publisher.types()).To(BeEmpty())
		})
	})

	Describe("order lifecycle", func() {
		It("refuses unknown products", func() {
			_, err := service.CreateOrder(ctx, purchasing.CreateOrderDTO{
				SupplierName: "PT Sumber Motor",
				Items:        []purchasing.CreateOrderItemDTO{{ProductID: 999, OrderQuantity: 1}},
			})
			Expect(err).To(MatchError(errors.ErrProductNotFound))
		})

		It("generates order numbers", func() {
			order := placed(purchasing.CreateOrderItemDTO{ProductID: oli.ID, OrderQuantity: 1})
			Expect(order.OrderNumber).To(HavePrefix("PO-20260501-"))
		})

		It("cancels open orders but not partially received ones", func() {
			open := placed(purchasing.CreateOrderItemDTO{ProductID: oli.ID, OrderQuantity: 2})
			cancelled, err := service.CancelOrder(ctx, open.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(cancelled.Status).To(Equal(purchasing.StatusCancelled))

			_, err = service.PlaceOrder(ctx, open.ID)
			Expect(err).To(MatchError(errors.ErrInvalidStatusTransition))

			partial := placed(purchasing.CreateOrderItemDTO{ProductID: oli.ID, OrderQuantity: 2})
			_, err = service.ReceiveGoods(ctx, partial.ID, purchasing.ReceiveGoodsDTO{
				Lines: []purchasing.ReceiptLineDTO{line(partial.Items[0], 1, "50000")},
			})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CancelOrder(ctx, partial.ID)
			Expect(err).To(MatchError(errors.ErrInvalidStatusTransition))

			all, err := service.ListOrders(ctx, purchasing.ListOrdersDTO{Status: purchasing.StatusCancelled})
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(1))
		})
	})
})
