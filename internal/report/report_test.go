package report_test

import (
	"context"
	"testing"

	debtDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/debt"
	employeeDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/employee"
	inventoryDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/inventory"
	loanDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/loan"
	"github.com/frahmantamala/bengkelku/internal/debt"
	"github.com/frahmantamala/bengkelku/internal/ledger"
	"github.com/frahmantamala/bengkelku/internal/report"
	reportPostgres "github.com/frahmantamala/bengkelku/internal/report/postgres"
	. "github.com/frahmantamala/bengkelku/internal/testutil"
	"github.com/frahmantamala/bengkelku/pkg/logger"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestReport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Suite")
}

var _ = Describe("Summarize", func() {
	It("splits receivables from payables", func() {
		rep := report.Summarize([]report.DebtSummary{
			{Nature: debt.NatureBusinessReceivable, Entries: 2, Outstanding: D("500000")},
			{Nature: debt.NatureOtherReceivable, Entries: 1, Outstanding: D("50000")},
			{Nature: debt.NatureBusinessPayable, Entries: 1, Outstanding: D("300000")},
		}, D("0"))
		Expect(rep.TotalReceivable).To(EqualDecimal("550000"))
		Expect(rep.TotalPayable).To(EqualDecimal("300000"))
		Expect(rep.NetPosition).To(EqualDecimal("250000"))
	})

	It("returns an empty list rather than null", func() {
		Expect(report.Summarize(nil, D("0")).Natures).NotTo(BeNil())
	})
})

var _ = Describe("Report Service", func() {
	var (
		ctx     context.Context
		db      *gorm.DB
		service *report.Service
	)

	BeforeEach(func() {
		var err error
		db, err = NewSQLiteDB()
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()

		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		repo := reportPostgres.NewReportRepository(sqlx.NewDb(sqlDB, "sqlite3"))
		service = report.NewService(repo, logger.Discard())
	})

	It("sums only open debt per nature", func() {
		entries := []*debtDatamodel.Entry{
			{Nature: "business_receivable", Counterparty: "Bengkel Jaya", Amount: D("400000"), RemainingAmount: D("400000"), Status: string(ledger.StatusUnpaid)},
			{Nature: "business_receivable", Counterparty: "Bengkel Maju", Amount: D("300000"), RemainingAmount: D("100000"), Status: string(ledger.StatusPartiallyPaid)},
			{Nature: "business_receivable", Counterparty: "Bengkel Lama", Amount: D("90000"), RemainingAmount: D("0"), Status: string(ledger.StatusPaid)},
			{Nature: "business_payable", Counterparty: "PT Sumber Motor", Amount: D("250000"), RemainingAmount: D("250000"), Status: string(ledger.StatusUnpaid)},
			{Nature: "other_receivable", Counterparty: "Pak Budi", Amount: D("75000"), RemainingAmount: D("75000"), Status: string(ledger.StatusWrittenOff)},
		}
		Expect(db.Create(&entries).Error).To(Succeed())

		rep, err := service.Debts(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(rep.Natures).To(HaveLen(2))
		Expect(rep.Natures[0].Nature).To(Equal(debt.NatureBusinessPayable))
		Expect(rep.Natures[1].Entries).To(BeEquivalentTo(2))
		Expect(rep.Natures[1].Outstanding).To(EqualDecimal("500000"))
		Expect(rep.TotalReceivable).To(EqualDecimal("500000"))
		Expect(rep.TotalPayable).To(EqualDecimal("250000"))
		Expect(rep.WrittenOffAmount).To(EqualDecimal("75000"))
	})

	It("groups open loans by employee", func() {
		employees := []*employeeDatamodel.Employee{
			{Name: "Budi", BaseSalary: D("3000000"), IsActive: true},
			{Name: "Sari", BaseSalary: D("3000000"), IsActive: true},
		}
		Expect(db.Create(&employees).Error).To(Succeed())

		loans := []*loanDatamodel.Loan{
			{EmployeeID: employees[0].ID, Amount: D("1000000"), RemainingAmount: D("600000"), Status: string(ledger.StatusPartiallyPaid)},
			{EmployeeID: employees[0].ID, Amount: D("200000"), RemainingAmount: D("200000"), Status: string(ledger.StatusUnpaid)},
			{EmployeeID: employees[1].ID, Amount: D("500000"), RemainingAmount: D("0"), Status: string(ledger.StatusPaid)},
		}
		Expect(db.Create(&loans).Error).To(Succeed())

		rows, err := service.Loans(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].EmployeeName).To(Equal("Budi"))
		Expect(rows[0].Loans).To(BeEquivalentTo(2))
		Expect(rows[0].Outstanding).To(EqualDecimal("800000"))
	})

	It("lists stocked products at or under their minimum", func() {
		products := []*inventoryDatamodel.Product{
			{SKU: "OLI-01", Name: "Oli", Category: "Oli", CostPrice: D("50000"), StockQuantity: 1, MinimumStock: 5},
			{SKU: "BAN-01", Name: "Ban", Category: "Ban", CostPrice: D("200000"), StockQuantity: 3, MinimumStock: 3},
			{SKU: "BUS-01", Name: "Busi", Category: "Sparepart", CostPrice: D("15000"), StockQuantity: 20, MinimumStock: 5},
			{SKU: "SRV-01", Name: "Servis", Category: "Jasa", CostPrice: D("0"), StockQuantity: 0, MinimumStock: 1},
		}
		Expect(db.Create(&products).Error).To(Succeed())

		rows, err := service.LowStock(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
		Expect(rows[0].SKU).To(Equal("OLI-01"))
		Expect(rows[0].Shortfall()).To(BeEquivalentTo(4))
		Expect(rows[1].SKU).To(Equal("BAN-01"))
	})
})
