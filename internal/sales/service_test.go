package sales_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/events"
	"github.com/frahmantamala/bengkelku/internal/inventory"
	inventoryPostgres "github.com/frahmantamala/bengkelku/internal/inventory/postgres"
	"github.com/frahmantamala/bengkelku/internal/sales"
	salesPostgres "github.com/frahmantamala/bengkelku/internal/sales/postgres"
	. "github.com/frahmantamala/bengkelku/internal/testutil"
	"github.com/frahmantamala/bengkelku/internal/transport"
	"github.com/frahmantamala/bengkelku/pkg/logger"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func TestSales(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Sales Suite")
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

var _ = Describe("Sales Service", func() {
	var (
		ctx       context.Context
		publisher *recordingPublisher
		service   *sales.Service
		products  *inventory.Service
		oli, jasa *inventory.Product
	)

	BeforeEach(func() {
		db, err := NewSQLiteDB()
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()

		unit := uow.NewUnitOfWork(db)
		Expect(inventoryPostgres.Register(unit)).To(Succeed())
		Expect(salesPostgres.Register(unit)).To(Succeed())

		publisher = &recordingPublisher{}
		service = sales.NewService(unit, publisher, logger.Discard())
		products = inventory.NewService(unit, logger.Discard())

		oli, err = products.CreateProduct(ctx, inventory.CreateProductDTO{
			SKU: "OLI-01", Name: "Oli Mesin 1L", Category: "Oli", CostPrice: D("50000"), StockQuantity: 5,
			Prices: []inventory.Price{
				{Tier: inventory.TierDefault, Price: D("75000")},
				{Tier: inventory.TierPartner, Price: D("65000")},
			},
		})
		Expect(err).NotTo(HaveOccurred())

		jasa, err = products.CreateProduct(ctx, inventory.CreateProductDTO{
			SKU: "SRV-01", Name: "Servis Ringan", Category: "Jasa",
			Prices: []inventory.Price{
				{Tier: inventory.TierDefault, Price: D("40000")},
				{Tier: inventory.TierServicePackage, Price: D("30000")},
			},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	stock := func(id int64) int64 {
		p, err := products.GetProduct(ctx, id)
		Expect(err).NotTo(HaveOccurred())
		return p.StockQuantity
	}

	DescribeTable("segment pricing",
		func(segment sales.Segment, oliPrice, jasaPrice string) {
			sale, err := service.RecordSale(ctx, sales.RecordSaleDTO{
				Segment: segment,
				Items: []sales.SaleItemDTO{
					{ProductID: oli.ID, Quantity: 2},
					{ProductID: jasa.ID, Quantity: 1},
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(sale.Items[0].UnitPrice).To(EqualDecimal(oliPrice))
			Expect(sale.Items[1].UnitPrice).To(EqualDecimal(jasaPrice))
			Expect(sale.Total).To(EqualDecimal(D(oliPrice).Mul(decimal.NewFromInt(2)).Add(D(jasaPrice))))
		},
		Entry("retail buys at default", sales.SegmentRetail, "75000", "40000"),
		Entry("partner workshops get the partner tier", sales.SegmentPartner, "65000", "40000"),
		Entry("service customers fall back to default for parts", sales.SegmentService, "75000", "30000"),
	)

	It("applies the discount and decrements only stocked products", func() {
		actorCtx := errors.ContextWithActor(ctx, &errors.Actor{Subject: "u-1", Name: "Sari", Role: errors.RoleCashier})
		sale, err := service.RecordSale(actorCtx, sales.RecordSaleDTO{
			Segment:      sales.SegmentRetail,
			CustomerName: "Pak Joko",
			Discount:     D("10000"),
			SoldAt:       Day(2026, 6, 2),
			Items: []sales.SaleItemDTO{
				{ProductID: oli.ID, Quantity: 3},
				{ProductID: jasa.ID, Quantity: 1},
			},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(sale.Subtotal).To(EqualDecimal("265000"))
		Expect(sale.Total).To(EqualDecimal("255000"))
		Expect(sale.Cashier).To(Equal("Sari"))
		Expect(sale.InvoiceNo).To(HavePrefix("INV-20260602-"))

		Expect(stock(oli.ID)).To(BeEquivalentTo(2))
		Expect(stock(jasa.ID)).To(BeZero())

		Expect(publisher.events).To(HaveLen(1))
		Expect(publisher.events[0].EventType()).To(Equal(events.EventTypeSaleRecorded))

		fetched, err := service.GetSale(ctx, sale.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(fetched.Items).To(HaveLen(2))
		Expect(fetched.SoldAt).To(BeTemporally("==", Day(2026, 6, 2)))
	})

	It("refuses to sell more than is in stock and leaves stock untouched", func() {
		_, err := service.RecordSale(ctx, sales.RecordSaleDTO{
			Segment: sales.SegmentRetail,
			Items: []sales.SaleItemDTO{
				{ProductID: oli.ID, Quantity: 2},
				{ProductID: oli.ID, Quantity: 4},
			},
		})
		Expect(err).To(MatchError(errors.ErrInsufficientStock))
		Expect(stock(oli.ID)).To(BeEquivalentTo(5))
		Expect(publisher.events).To(BeEmpty())
	})

	It("rolls the stock back when the discount exceeds the subtotal", func() {
		_, err := service.RecordSale(ctx, sales.RecordSaleDTO{
			Segment:  sales.SegmentRetail,
			Discount: D("100000"),
			Items:    []sales.SaleItemDTO{{ProductID: oli.ID, Quantity: 1}},
		})
		Expect(err).To(MatchError(errors.ErrDiscountExceedsSubtotal))
		Expect(stock(oli.ID)).To(BeEquivalentTo(5))
	})

	DescribeTable("rejects malformed sales",
		func(dto sales.RecordSaleDTO) {
			_, err := service.RecordSale(ctx, dto)
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(errors.ErrorTypeValidation))
		},
		Entry("unknown segment", sales.RecordSaleDTO{Segment: "wholesale", Items: []sales.SaleItemDTO{{ProductID: 1, Quantity: 1}}}),
		Entry("no items", sales.RecordSaleDTO{Segment: sales.SegmentRetail}),
		Entry("zero quantity", sales.RecordSaleDTO{Segment: sales.SegmentRetail, Items: []sales.SaleItemDTO{{ProductID: 1, Quantity: 0}}}),
		Entry("negative discount", sales.RecordSaleDTO{Segment: sales.SegmentRetail, Discount: D("-1"), Items: []sales.SaleItemDTO{{ProductID: 1, Quantity: 1}}}),
	)

	It("lists sales by inclusive day range", func() {
		for _, day := range []int{1, 2, 3} {
			_, err := service.RecordSale(ctx, sales.RecordSaleDTO{
				Segment: sales.SegmentRetail,
				SoldAt:  Day(2026, 6, day).Add(15 * time.Hour),
				Items:   []sales.SaleItemDTO{{ProductID: jasa.ID, Quantity: 1}},
			})
			Expect(err).NotTo(HaveOccurred())
		}

		from, to := Day(2026, 6, 2), Day(2026, 6, 3)
		list, err := service.ListSales(ctx, sales.ListSalesDTO{From: &from, To: &to})
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(2))

		_, err = service.ListSales(ctx, sales.ListSalesDTO{From: &to, To: &from})
		Expect(err).To(HaveOccurred())
	})

	Describe("handler", func() {
		var router *chi.Mux

		BeforeEach(func() {
			handler := sales.NewHandler(transport.NewBaseHandler(logger.Discard()), service)
			router = chi.NewRouter()
			router.Post("/sales", handler.RecordSale)
			router.Get("/sales", handler.ListSales)
			router.Get("/sales/{id}", handler.GetSale)
		})

		It("records a sale over HTTP", func() {
			body := `{"segment":"partner","items":[{"product_id":1,"quantity":1}]}`
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(body)))
			Expect(w.Code).To(Equal(http.StatusCreated))

			var sale sales.Sale
			Expect(json.NewDecoder(w.Body).Decode(&sale)).To(Succeed())
			Expect(sale.Total).To(EqualDecimal("65000"))
		})

		It("answers 400 for a malformed date filter", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sales?from=06/01/2026", nil))
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("answers 404 for an unknown sale", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sales/42", nil))
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})
})
