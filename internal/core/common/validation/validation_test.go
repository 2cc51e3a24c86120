package validation_test

import (
	"testing"
	"time"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/common/validation"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

var _ = Describe("ValidationBuilder", func() {
	now := func() time.Time { return time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC) }

	It("passes when every rule holds", func() {
		v := validation.NewValidator()
		v.Field("amount", decimal.NewFromInt(10)).Positive(errors.ErrCodeInvalidAmount)
		v.Field("name", "Oli Mesin").Required().MaxLength(20)
		v.Field("date", now()).Required().NotFuture(now)
		Expect(v.Validate()).To(BeNil())
	})

	It("collects one error per failing field", func() {
		v := validation.NewValidator()
		v.Field("amount", decimal.NewFromInt(-1)).Positive(errors.ErrCodeInvalidAmount).NonNegative(errors.ErrCodeInvalidAmount)
		v.Field("name", "").Required()
		v.Field("date", now().AddDate(0, 0, 1)).NotFuture(now)
		v.Field("nature", "gift").OneOf("business_receivable", "other_payable")

		appErr := v.Validate()
		Expect(appErr).NotTo(BeNil())
		Expect(appErr.Type).To(Equal(errors.ErrorTypeValidation))

		details, ok := appErr.Details.(errors.ValidationErrors)
		Expect(ok).To(BeTrue())
		Expect(details.Errors).To(HaveLen(4))
		Expect(details.Errors[0].Field).To(Equal("amount"))
		Expect(details.Errors[0].Code).To(Equal(string(errors.ErrCodeInvalidAmount)))
		Expect(details.Errors[2].Code).To(Equal(string(errors.ErrCodeInvalidDate)))
	})

	DescribeTable("money scale",
		func(amount string, fits bool) {
			Expect(validation.FitsMoneyScale(decimal.RequireFromString(amount))).To(Equal(fits))

			v := validation.NewValidator()
			v.Field("amount", decimal.RequireFromString(amount)).NonNegative(errors.ErrCodeInvalidAmount)
			if fits {
				Expect(v.Validate()).To(BeNil())
				return
			}
			appErr := v.Validate()
			Expect(appErr).NotTo(BeNil())
			Expect(appErr.Details.(errors.ValidationErrors).Errors[0].Code).To(Equal(string(errors.ErrCodeInvalidAmount)))
		},
		Entry("whole rupiah", "150000", true),
		Entry("two places", "100.05", true),
		Entry("trailing zeros", "100.500", true),
		Entry("third place", "100.005", false),
		Entry("below a cent", "0.004", false),
	)

	It("rejects amounts finer than a cent through ValidateAmount", func() {
		Expect(validation.ValidateAmount("amount", decimal.RequireFromString("0.004"))).NotTo(BeNil())
		Expect(validation.ValidateAmount("amount", decimal.RequireFromString("0.01"))).To(BeNil())
	})

	It("rejects zero amounts through ValidateAmount", func() {
		Expect(validation.ValidateAmount("amount", decimal.Zero)).NotTo(BeNil())
		Expect(validation.ValidateAmount("amount", decimal.NewFromInt(1))).To(BeNil())
	})
})
