package dates_test

import (
	"testing"
	"time"

	"github.com/frahmantamala/bengkelku/internal/core/common/dates"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDates(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Dates Suite")
}

var _ = Describe("dates", func() {
	It("counts calendar days regardless of the clock", func() {
		start := time.Date(2026, 1, 1, 23, 59, 0, 0, time.UTC)
		end := time.Date(2026, 1, 2, 0, 1, 0, 0, time.UTC)
		Expect(dates.DaysBetween(start, end)).To(Equal(1))
		Expect(dates.DaysBetween(start, start)).To(Equal(0))
		Expect(dates.DaysBetween(end, start)).To(Equal(-1))
	})

	It("defaults zero dates to today", func() {
		Expect(dates.OrToday(time.Time{})).To(Equal(dates.Today()))
		Expect(dates.OrToday(time.Date(2025, 5, 6, 10, 0, 0, 0, time.UTC))).To(Equal(time.Date(2025, 5, 6, 0, 0, 0, 0, time.UTC)))
	})
})
