// Package ledger holds the balance rule shared by loans, debt entries and
// savings goals: an original amount, a running amount moved by child
// transactions, and a status derived from comparing the two.
package ledger

import (
	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	// KindDebt balances start at the original amount and fall toward zero.
	KindDebt Kind = "debt"
	// KindSavings balances start at zero and rise toward the target.
	KindSavings Kind = "savings"
)

type Status string

const (
	StatusUnpaid        Status = "unpaid"
	StatusPartiallyPaid Status = "partially_paid"
	StatusPaid          Status = "paid"
	StatusWrittenOff    Status = "written_off"
	StatusActive        Status = "active"
	StatusAchieved      Status = "achieved"
)

func (s Status) Valid(kind Kind) bool {
	switch kind {
	case KindDebt:
		return s == StatusUnpaid || s == StatusPartiallyPaid || s == StatusPaid || s == StatusWrittenOff
	case KindSavings:
		return s == StatusActive || s == StatusAchieved
	}
	return false
}

type Balance struct {
	Kind     Kind
	Original decimal.Decimal
	Running  decimal.Decimal
	Status   Status
}

func NewDebt(original decimal.Decimal) Balance {
	return Balance{
		Kind:     KindDebt,
		Original: original,
		Running:  original,
		Status:   DeriveStatus(KindDebt, original, original),
	}
}

func NewSavings(target decimal.Decimal) Balance {
	return Balance{
		Kind:     KindSavings,
		Original: target,
		Running:  decimal.Zero,
		Status:   DeriveStatus(KindSavings, target, decimal.Zero),
	}
}

// DeriveStatus never yields StatusWrittenOff; write-off is set explicitly.
func DeriveStatus(kind Kind, original, running decimal.Decimal) Status {
	if kind == KindSavings {
		if running.GreaterThanOrEqual(original) {
			return StatusAchieved
		}
		return StatusActive
	}

	switch {
	case running.IsZero():
		return StatusPaid
	case running.Equal(original):
		return StatusUnpaid
	default:
		return StatusPartiallyPaid
	}
}

func (b Balance) IsWrittenOff() bool {
	return b.Status == StatusWrittenOff
}

// Reduce applies a payment (debt) or a withdrawal (savings). Amounts larger
// than the running balance are rejected.
func (b Balance) Reduce(amount decimal.Decimal) (Balance, error) {
	if b.IsWrittenOff() {
		return b, errors.ErrEntryWrittenOff
	}
	if !amount.IsPositive() {
		return b, errors.ErrInvalidAmount
	}
	if amount.GreaterThan(b.Running) {
		return b, errors.ErrAmountExceedsBalance.WithDetails(map[string]string{
			"amount":  amount.String(),
			"balance": b.Running.String(),
		})
	}
	return b.with(b.Original, b.Running.Sub(amount)), nil
}

// Increase applies a savings deposit. Savings may exceed their target.
func (b Balance) Increase(amount decimal.Decimal) (Balance, error) {
	if b.Kind != KindSavings {
		return b, errors.NewValidationError("only savings balances can be increased", errors.ErrCodeInvalidAmount)
	}
	if !amount.IsPositive() {
		return b, errors.ErrInvalidAmount
	}
	return b.with(b.Original, b.Running.Add(amount)), nil
}

// Restore undoes an earlier debt payment through a compensating entry.
func (b Balance) Restore(amount decimal.Decimal) (Balance, error) {
	if b.Kind != KindDebt {
		return b, errors.NewValidationError("only debt balances can be restored", errors.ErrCodeInvalidAmount)
	}
	if b.IsWrittenOff() {
		return b, errors.ErrEntryWrittenOff
	}
	if !amount.IsPositive() {
		return b, errors.ErrInvalidAmount
	}
	running := b.Running.Add(amount)
	if running.GreaterThan(b.Original) {
		return b, errors.ErrReversalExceedsOriginal
	}
	return b.with(b.Original, running), nil
}

// Recompute re-derives the balance after the original amount is edited.
// For debts the running amount becomes newOriginal minus what has been
// applied so far, clamped to [0, newOriginal]. Savings keep their running
// amount and only the status is re-derived.
func (b Balance) Recompute(newOriginal, netApplied decimal.Decimal) Balance {
	if b.Kind == KindSavings {
		return b.with(newOriginal, b.Running)
	}

	running := newOriginal.Sub(netApplied)
	if running.IsNegative() {
		running = decimal.Zero
	}
	if running.GreaterThan(newOriginal) {
		running = newOriginal
	}
	return b.with(newOriginal, running)
}

// WriteOff moves a debt balance to its terminal status.
func (b Balance) WriteOff() (Balance, error) {
	if b.Kind != KindDebt {
		return b, errors.ErrInvalidStatusTransition
	}
	if b.IsWrittenOff() {
		return b, errors.ErrEntryWrittenOff
	}
	b.Status = StatusWrittenOff
	return b, nil
}

func (b Balance) with(original, running decimal.Decimal) Balance {
	next := Balance{Kind: b.Kind, Original: original, Running: running}
	if b.IsWrittenOff() {
		next.Status = StatusWrittenOff
		return next
	}
	next.Status = DeriveStatus(b.Kind, original, running)
	return next
}
