package inventory_test

import (
	"context"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/inventory"
	inventoryPostgres "github.com/frahmantamala/bengkelku/internal/inventory/postgres"
	. "github.com/frahmantamala/bengkelku/internal/testutil"
	"github.com/frahmantamala/bengkelku/pkg/logger"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Inventory Service", func() {
	var (
		ctx     context.Context
		db      *gorm.DB
		service *inventory.Service
	)

	BeforeEach(func() {
		var err error
		db, err = NewSQLiteDB()
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()

		unit := uow.NewUnitOfWork(db)
		Expect(inventoryPostgres.Register(unit)).To(Succeed())
		service = inventory.NewService(unit, logger.Discard())
	})

	create := func(sku, category string, stock, minimum int64) *inventory.Product {
		p, err := service.CreateProduct(ctx, inventory.CreateProductDTO{
			SKU:           sku,
			Name:          "Produk " + sku,
			Category:      category,
			CostPrice:     D("50000"),
			StockQuantity: stock,
			MinimumStock:  minimum,
			Prices: []inventory.Price{
				{Tier: inventory.TierPartner, Price: D("65000")},
				{Tier: inventory.TierDefault, Price: D("75000")},
			},
		})
		Expect(err).NotTo(HaveOccurred())
		return p
	}

	It("stores products with ordered tier prices", func() {
		p := create("OLI-01", "Oli", 10, 2)

		reloaded, err := service.GetProduct(ctx, p.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(reloaded.Prices).To(HaveLen(2))
		Expect(reloaded.Prices[0].Tier).To(Equal(inventory.TierDefault))
		Expect(reloaded.Prices[1].Price).To(EqualDecimal("65000"))
	})

	It("rejects duplicate SKUs", func() {
		create("OLI-01", "Oli", 10, 2)
		_, err := service.CreateProduct(ctx, inventory.CreateProductDTO{
			SKU: "OLI-01", Name: "Lagi", Category: "Oli",
			Prices: []inventory.Price{{Tier: inventory.TierDefault, Price: D("1")}},
		})
		appErr, ok := errors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(errors.ErrCodeDuplicateSKU))
	})

	DescribeTable("validates prices",
		func(prices []inventory.Price) {
			_, err := service.CreateProduct(ctx, inventory.CreateProductDTO{SKU: "X", Name: "X", Category: "Oli", Prices: prices})
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(errors.ErrorTypeValidation))
		},
		Entry("no default tier", []inventory.Price{{Tier: inventory.TierPartner, Price: D("1")}}),
		Entry("unknown tier", []inventory.Price{{Tier: "vip", Price: D("1")}}),
		Entry("duplicate tier", []inventory.Price{{Tier: inventory.TierDefault, Price: D("1")}, {Tier: inventory.TierDefault, Price: D("2")}}),
		Entry("negative price", []inventory.Price{{Tier: inventory.TierDefault, Price: D("-1")}}),
	)

	It("lists by search term and low stock, skipping service items", func() {
		create("OLI-01", "Oli", 10, 2)
		create("BAN-01", "Ban", 1, 3)
		create("SRV-01", "Jasa", 0, 0)

		found, err := service.ListProducts(ctx, inventory.ListProductsDTO{Search: "ban"})
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(HaveLen(1))

		low, err := service.ListProducts(ctx, inventory.ListProductsDTO{LowStock: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(low).To(HaveLen(1))
		Expect(low[0].SKU).To(Equal("BAN-01"))
	})

	It("replaces prices on update", func() {
		p := create("OLI-01", "Oli", 10, 2)
		updated, err := service.UpdateProduct(ctx, p.ID, inventory.UpdateProductDTO{
			Name:          "Oli Mesin",
			Category:      "Oli",
			CostPrice:     D("52000"),
			StockQuantity: 12,
			Prices:        []inventory.Price{{Tier: inventory.TierDefault, Price: D("80000")}},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.Name).To(Equal("Oli Mesin"))

		reloaded, err := service.GetProduct(ctx, p.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(reloaded.Prices).To(HaveLen(1))
		Expect(reloaded.Prices[0].Price).To(EqualDecimal("80000"))
		Expect(reloaded.StockQuantity).To(BeEquivalentTo(12))
	})

	It("guards stock decrements", func() {
		p := create("OLI-01", "Oli", 3, 0)
		repo := inventoryPostgres.NewProductRepository(db)

		Expect(repo.DecrementStock(ctx, p.ID, 2)).To(Succeed())
		Expect(repo.DecrementStock(ctx, p.ID, 2)).To(MatchError(errors.ErrInsufficientStock))

		reloaded, err := service.GetProduct(ctx, p.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(reloaded.StockQuantity).To(BeEquivalentTo(1))
	})

	It("deletes products with their prices", func() {
		p := create("OLI-01", "Oli", 3, 0)
		Expect(service.DeleteProduct(ctx, p.ID)).To(Succeed())
		_, err := service.GetProduct(ctx, p.ID)
		Expect(err).To(MatchError(errors.ErrProductNotFound))
		Expect(service.DeleteProduct(ctx, p.ID)).To(MatchError(errors.ErrProductNotFound))
	})
})
