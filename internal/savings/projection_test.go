package savings_test

import (
	"time"

	"github.com/frahmantamala/bengkelku/internal/savings"
	. "github.com/frahmantamala/bengkelku/internal/testutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EstimateCompletion", func() {
	goal := func(target, current string) *savings.Goal {
		return &savings.Goal{ID: 1, TargetAmount: D(target), CurrentAmount: D(current), StartDate: Day(2026, 4, 1)}
	}
	deposit := func(amount string) *savings.Transaction {
		return &savings.Transaction{Type: savings.TypeDeposit, Amount: D(amount)}
	}

	It("projects two more days after a same-day deposit of 200,000 toward 500,000", func() {
		p := savings.EstimateCompletion(goal("500000", "200000"), []*savings.Transaction{deposit("200000")}, Day(2026, 4, 1))
		Expect(p.State).To(Equal(savings.ProjectionProjected))
		Expect(p.DailyRate).To(EqualDecimal("200000"))
		Expect(p.Remaining).To(EqualDecimal("300000"))
		Expect(p.DaysRemaining).To(BeEquivalentTo(2))
		Expect(*p.EstimatedDate).To(BeTemporally("==", Day(2026, 4, 3)))
	})

	It("reports insufficient data without deposits", func() {
		withdrawal := &savings.Transaction{Type: savings.TypeWithdrawal, Amount: D("100")}
		p := savings.EstimateCompletion(goal("500000", "0"), []*savings.Transaction{withdrawal}, Day(2026, 4, 10))
		Expect(p.State).To(Equal(savings.ProjectionInsufficientData))
		Expect(p.EstimatedDate).To(BeNil())
	})

	It("reports achieved once the target is reached", func() {
		p := savings.EstimateCompletion(goal("500000", "600000"), []*savings.Transaction{deposit("600000")}, Day(2026, 4, 2))
		Expect(p.State).To(Equal(savings.ProjectionAchieved))
		Expect(p.Remaining).To(EqualDecimal(0))
	})

	It("averages over every elapsed day including the first", func() {
		now := time.Date(2026, 4, 10, 18, 30, 0, 0, time.UTC)
		p := savings.EstimateCompletion(goal("1000000", "100000"), []*savings.Transaction{deposit("100000")}, now)
		Expect(p.DailyRate).To(EqualDecimal("10000"))
		Expect(p.DaysRemaining).To(BeEquivalentTo(90))
	})

	It("treats a start date in the future as a single day", func() {
		p := savings.EstimateCompletion(goal("300", "100"), []*savings.Transaction{deposit("100")}, Day(2026, 3, 1))
		Expect(p.DailyRate).To(EqualDecimal("100"))
		Expect(p.DaysRemaining).To(BeEquivalentTo(2))
	})
})
