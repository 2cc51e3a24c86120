package savings_test

import (
	"context"
	"testing"
	"time"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/ledger"
	"github.com/frahmantamala/bengkelku/internal/savings"
	savingsPostgres "github.com/frahmantamala/bengkelku/internal/savings/postgres"
	. "github.com/frahmantamala/bengkelku/internal/testutil"
	"github.com/frahmantamala/bengkelku/pkg/logger"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSavings(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Savings Suite")
}

var _ = Describe("Savings Service", func() {
	var (
		ctx     context.Context
		service *savings.Service
		today   = Day(2026, 4, 1)
	)

	BeforeEach(func() {
		db, err := NewSQLiteDB()
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()

		unit := uow.NewUnitOfWork(db)
		Expect(savingsPostgres.Register(unit)).To(Succeed())
		service = savings.NewService(unit, nil, logger.Discard()).
			WithClock(func() time.Time { return today })
	})

	newGoal := func(target string) *savings.Goal {
		g, err := service.CreateGoal(ctx, savings.CreateGoalDTO{Name: "Kompresor baru", TargetAmount: D(target)})
		Expect(err).NotTo(HaveOccurred())
		return g
	}

	move := func(id int64, t savings.TransactionType, amount string) (*savings.TransactionResult, error) {
		return service.RecordTransaction(ctx, id, savings.RecordTransactionDTO{Type: t, Amount: D(amount)})
	}

	It("starts active at zero on today's date", func() {
		g := newGoal("500000")
		Expect(g.Status).To(Equal(ledger.StatusActive))
		Expect(g.CurrentAmount).To(EqualDecimal(0))
		Expect(g.StartDate).To(BeTemporally("==", today))
	})

	It("deposits, withdraws and projects completion", func() {
		g := newGoal("500000")

		deposited, err := move(g.ID, savings.TypeDeposit, "200000")
		Expect(err).NotTo(HaveOccurred())
		Expect(deposited.Goal.CurrentAmount).To(EqualDecimal("200000"))
		Expect(deposited.Transaction.TransactionDate).To(BeTemporally("==", today))

		projection, err := service.EstimateCompletion(ctx, g.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(projection.State).To(Equal(savings.ProjectionProjected))
		Expect(projection.DaysRemaining).To(BeEquivalentTo(2))

		_, err = move(g.ID, savings.TypeWithdrawal, "200001")
		Expect(err).To(MatchError(errors.ErrAmountExceedsBalance))

		withdrawn, err := move(g.ID, savings.TypeWithdrawal, "50000")
		Expect(err).NotTo(HaveOccurred())
		Expect(withdrawn.Goal.CurrentAmount).To(EqualDecimal("150000"))

		transactions, err := service.ListTransactions(ctx, g.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(transactions).To(HaveLen(2))
	})

	It("becomes achieved at the target and may go beyond it", func() {
		g := newGoal("300000")
		result, err := move(g.ID, savings.TypeDeposit, "350000")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Goal.Status).To(Equal(ledger.StatusAchieved))
		Expect(result.Goal.CurrentAmount).To(EqualDecimal("350000"))
	})

	It("re-derives status when the target is edited", func() {
		g := newGoal("300000")
		_, err := move(g.ID, savings.TypeDeposit, "300000")
		Expect(err).NotTo(HaveOccurred())

		edited, err := service.EditGoal(ctx, g.ID, savings.EditGoalDTO{Name: "Kompresor besar", TargetAmount: D("800000")})
		Expect(err).NotTo(HaveOccurred())
		Expect(edited.Status).To(Equal(ledger.StatusActive))
		Expect(edited.CurrentAmount).To(EqualDecimal("300000"))
		Expect(edited.StartDate).To(BeTemporally("==", today))
	})

	It("rejects unknown transaction types", func() {
		g := newGoal("300000")
		_, err := move(g.ID, "transfer", "1000")
		appErr, ok := errors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(errors.ErrorTypeValidation))
	})

	It("deletes goals with their transactions", func() {
		g := newGoal("300000")
		_, err := move(g.ID, savings.TypeDeposit, "1000")
		Expect(err).NotTo(HaveOccurred())

		Expect(service.DeleteGoal(ctx, g.ID)).To(Succeed())
		_, err = service.GetGoal(ctx, g.ID)
		Expect(err).To(MatchError(errors.ErrSavingsGoalNotFound))

		goals, err := service.ListGoals(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(goals).To(BeEmpty())
	})
})
