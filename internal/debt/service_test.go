package debt_test

import (
	"context"
	"testing"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/events"
	"github.com/frahmantamala/bengkelku/internal/debt"
	debtPostgres "github.com/frahmantamala/bengkelku/internal/debt/postgres"
	"github.com/frahmantamala/bengkelku/internal/ledger"
	. "github.com/frahmantamala/bengkelku/internal/testutil"
	"github.com/frahmantamala/bengkelku/pkg/logger"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDebt(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Debt Suite")
}

var _ = Describe("Debt Service", func() {
	var (
		ctx     context.Context
		bus     *events.EventBus
		service *debt.Service
		seen    chan events.Event
	)

	BeforeEach(func() {
		db, err := NewSQLiteDB()
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()

		unit := uow.NewUnitOfWork(db)
		Expect(debtPostgres.Register(unit)).To(Succeed())

		seen = make(chan events.Event, 10)
		bus = events.NewEventBus(logger.Discard())
		bus.SubscribeAll(events.AllEventTypes, func(_ context.Context, e events.Event) error {
			seen <- e
			return nil
		})
		service = debt.NewService(unit, bus, logger.Discard())
	})

	newEntry := func(nature debt.Nature, amount string) *debt.Entry {
		e, err := service.CreateEntry(ctx, debt.CreateEntryDTO{
			Nature:       nature,
			Counterparty: "Bengkel Jaya",
			Amount:       D(amount),
			EntryDate:    Day(2026, 3, 1),
		})
		Expect(err).NotTo(HaveOccurred())
		return e
	}

	pay := func(id int64, amount string) (*debt.PaymentResult, error) {
		return service.RecordPayment(ctx, id, debt.RecordPaymentDTO{Amount: D(amount)})
	}

	It("validates nature and counterparty", func() {
		_, err := service.CreateEntry(ctx, debt.CreateEntryDTO{Nature: "loan", Amount: D("100")})
		appErr, ok := errors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Details.(errors.ValidationErrors).Errors).To(HaveLen(2))
	})

	It("rejects a due date before the entry date", func() {
		due := Day(2026, 2, 1)
		_, err := service.CreateEntry(ctx, debt.CreateEntryDTO{
			Nature:       debt.NatureBusinessPayable,
			Counterparty: "Toko Sparepart",
			Amount:       D("100"),
			EntryDate:    Day(2026, 3, 1),
			DueDate:      &due,
		})
		Expect(err).To(HaveOccurred())
	})

	It("settles a receivable and publishes each payment", func() {
		e := newEntry(debt.NatureBusinessReceivable, "750000")

		partial, err := pay(e.ID, "250000")
		Expect(err).NotTo(HaveOccurred())
		Expect(partial.Entry.Status).To(Equal(ledger.StatusPartiallyPaid))

		full, err := pay(e.ID, "500000")
		Expect(err).NotTo(HaveOccurred())
		Expect(full.Entry.Status).To(Equal(ledger.StatusPaid))
		Expect(full.Entry.RemainingAmount).To(EqualDecimal(0))

		bus.Wait()
		Expect(seen).To(HaveLen(2))
		Expect((<-seen).EventType()).To(Equal(events.EventTypeDebtPaymentRecorded))
	})

	It("rejects payments finer than a cent before touching the balance", func() {
		e := newEntry(debt.NatureBusinessPayable, "1000000")
		_, err := pay(e.ID, "0.004")
		appErr, ok := errors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(errors.ErrorTypeValidation))
		Expect(appErr.Details.(errors.ValidationErrors).Errors[0].Code).To(Equal(string(errors.ErrCodeInvalidAmount)))

		reloaded, err := service.GetEntry(ctx, e.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(reloaded.RemainingAmount).To(EqualDecimal("1000000"))
		bus.Wait()
		Expect(seen).To(BeEmpty())
	})

	Describe("WriteOff", func() {
		It("is terminal", func() {
			e := newEntry(debt.NatureOtherReceivable, "300000")
			paid, err := pay(e.ID, "100000")
			Expect(err).NotTo(HaveOccurred())

			written, err := service.WriteOff(ctx, e.ID, debt.WriteOffDTO{Reason: "pelanggan pindah"})
			Expect(err).NotTo(HaveOccurred())
			Expect(written.Status).To(Equal(ledger.StatusWrittenOff))
			Expect(written.RemainingAmount).To(EqualDecimal("200000"))
			Expect(written.WrittenOffAt).NotTo(BeNil())

			_, err = pay(e.ID, "1000")
			Expect(err).To(MatchError(errors.ErrEntryWrittenOff))

			_, err = service.EditEntry(ctx, e.ID, debt.EditEntryDTO{Counterparty: "x", Amount: D("500000")})
			Expect(err).To(MatchError(errors.ErrEntryWrittenOff))

			_, err = service.ReversePayment(ctx, e.ID, paid.Payment.ID, debt.ReversePaymentDTO{})
			Expect(err).To(MatchError(errors.ErrEntryWrittenOff))

			_, err = service.WriteOff(ctx, e.ID, debt.WriteOffDTO{Reason: "lagi"})
			Expect(err).To(MatchError(errors.ErrEntryWrittenOff))

			reloaded, err := service.GetEntry(ctx, e.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.Status).To(Equal(ledger.StatusWrittenOff))
			Expect(reloaded.WriteOffReason).To(Equal("pelanggan pindah"))
		})

		It("publishes the open amount with the reason", func() {
			e := newEntry(debt.NatureBusinessReceivable, "300000")
			_, err := pay(e.ID, "120000")
			Expect(err).NotTo(HaveOccurred())
			_, err = service.WriteOff(ctx, e.ID, debt.WriteOffDTO{Reason: "usaha tutup"})
			Expect(err).NotTo(HaveOccurred())

			bus.Wait()
			Expect(seen).To(HaveLen(2))
			var written *events.DebtWrittenOff
			for range 2 {
				if e, ok := (<-seen).(*events.DebtWrittenOff); ok {
					written = e
				}
			}
			Expect(written).NotTo(BeNil())
			Expect(written.EventType()).To(Equal(events.EventTypeDebtWrittenOff))
			Expect(written.EntryID).To(Equal(e.ID))
			Expect(written.Nature).To(Equal(string(debt.NatureBusinessReceivable)))
			Expect(D(written.Remaining)).To(EqualDecimal("180000"))
			Expect(written.Reason).To(Equal("usaha tutup"))
		})

		It("requires a reason", func() {
			e := newEntry(debt.NatureOtherReceivable, "300000")
			_, err := service.WriteOff(ctx, e.ID, debt.WriteOffDTO{})
			Expect(err).To(HaveOccurred())
		})
	})

	It("reverses a payment once and recomputes edits from the net", func() {
		e := newEntry(debt.NatureBusinessPayable, "1000000")
		first, err := pay(e.ID, "300000")
		Expect(err).NotTo(HaveOccurred())
		_, err = pay(e.ID, "200000")
		Expect(err).NotTo(HaveOccurred())

		reversed, err := service.ReversePayment(ctx, e.ID, first.Payment.ID, debt.ReversePaymentDTO{Note: "giro ditolak"})
		Expect(err).NotTo(HaveOccurred())
		Expect(reversed.Entry.RemainingAmount).To(EqualDecimal("800000"))

		_, err = service.ReversePayment(ctx, e.ID, first.Payment.ID, debt.ReversePaymentDTO{})
		Expect(err).To(MatchError(errors.ErrAlreadyReversed))

		edited, err := service.EditEntry(ctx, e.ID, debt.EditEntryDTO{Counterparty: "Toko Sparepart", Amount: D("150000")})
		Expect(err).NotTo(HaveOccurred())
		Expect(edited.RemainingAmount).To(EqualDecimal(0))
		Expect(edited.Status).To(Equal(ledger.StatusPaid))

		payments, err := service.ListPayments(ctx, e.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(payments).To(HaveLen(3))
	})

	It("lists by nature and status and deletes with payments", func() {
		r := newEntry(debt.NatureBusinessReceivable, "100")
		newEntry(debt.NatureBusinessPayable, "200")
		_, err := pay(r.ID, "50")
		Expect(err).NotTo(HaveOccurred())

		entries, err := service.ListEntries(ctx, debt.ListEntriesDTO{Nature: debt.NatureBusinessReceivable, Status: ledger.StatusPartiallyPaid})
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))

		_, err = service.ListEntries(ctx, debt.ListEntriesDTO{Status: ledger.StatusAchieved})
		Expect(err).To(HaveOccurred())

		Expect(service.DeleteEntry(ctx, r.ID)).To(Succeed())
		_, err = service.ListPayments(ctx, r.ID)
		Expect(err).To(MatchError(errors.ErrDebtNotFound))
	})
})
