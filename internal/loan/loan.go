package loan

import (
	"time"

	loanDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/loan"
	"github.com/frahmantamala/bengkelku/internal/ledger"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	"github.com/shopspring/decimal"
)

const RepositoryName uow.RepositoryName = "loan"

const (
	InstallmentKindPayment  = "payment"
	InstallmentKindReversal = "reversal"
)

type Loan struct {
	ID              int64           `json:"id"`
	EmployeeID      int64           `json:"employee_id"`
	Amount          decimal.Decimal `json:"amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          ledger.Status   `json:"status"`
	LoanDate        time.Time       `json:"loan_date"`
	Reason          string          `json:"reason"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type Installment struct {
	ID         int64           `json:"id"`
	LoanID     int64           `json:"loan_id"`
	Amount     decimal.Decimal `json:"amount"`
	Kind       string          `json:"kind"`
	ReversesID *int64          `json:"reverses_id,omitempty"`
	PaidOn     time.Time       `json:"paid_on"`
	Note       string          `json:"note"`
	CreatedAt  time.Time       `json:"created_at"`
}

// InstallmentResult is the loan as it stands after an installment or reversal.
type InstallmentResult struct {
	Loan        *Loan        `json:"loan"`
	Installment *Installment `json:"installment"`
}

func NewLoan(dto CreateLoanDTO) *Loan {
	l := &Loan{
		EmployeeID: dto.EmployeeID,
		LoanDate:   dto.LoanDate,
		Reason:     dto.Reason,
	}
	l.apply(ledger.NewDebt(dto.Amount))
	return l
}

func (l *Loan) Balance() ledger.Balance {
	return ledger.Balance{
		Kind:     ledger.KindDebt,
		Original: l.Amount,
		Running:  l.RemainingAmount,
		Status:   l.Status,
	}
}

func (l *Loan) apply(b ledger.Balance) {
	l.Amount = b.Original
	l.RemainingAmount = b.Running
	l.Status = b.Status
}

func (i *Installment) IsReversal() bool {
	return i.Kind == InstallmentKindReversal
}

// NetPaid sums payments minus their reversals.
func NetPaid(installments []*Installment) decimal.Decimal {
	total := decimal.Zero
	for _, i := range installments {
		if i.IsReversal() {
			total = total.Sub(i.Amount)
			continue
		}
		total = total.Add(i.Amount)
	}
	return total
}

func ToDataModel(l *Loan) *loanDatamodel.Loan {
	return &loanDatamodel.Loan{
		ID:              l.ID,
		EmployeeID:      l.EmployeeID,
		Amount:          l.Amount,
		RemainingAmount: l.RemainingAmount,
		Status:          string(l.Status),
		LoanDate:        l.LoanDate,
		Reason:          l.Reason,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func FromDataModel(l *loanDatamodel.Loan) *Loan {
	return &Loan{
		ID:              l.ID,
		EmployeeID:      l.EmployeeID,
		Amount:          l.Amount,
		RemainingAmount: l.RemainingAmount,
		Status:          ledger.Status(l.Status),
		LoanDate:        l.LoanDate,
		Reason:          l.Reason,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func FromDataModelSlice(loans []*loanDatamodel.Loan) []*Loan {
	result := make([]*Loan, len(loans))
	for i, l := range loans {
		result[i] = FromDataModel(l)
	}
	return result
}

func InstallmentToDataModel(i *Installment) *loanDatamodel.Installment {
	return &loanDatamodel.Installment{
		ID:         i.ID,
		LoanID:     i.LoanID,
		Amount:     i.Amount,
		Kind:       i.Kind,
		ReversesID: i.ReversesID,
		PaidOn:     i.PaidOn,
		Note:       i.Note,
		CreatedAt:  i.CreatedAt,
	}
}

func InstallmentFromDataModel(i *loanDatamodel.Installment) *Installment {
	return &Installment{
		ID:         i.ID,
		LoanID:     i.LoanID,
		Amount:     i.Amount,
		Kind:       i.Kind,
		ReversesID: i.ReversesID,
		PaidOn:     i.PaidOn,
		Note:       i.Note,
		CreatedAt:  i.CreatedAt,
	}
}

func InstallmentsFromDataModel(installments []*loanDatamodel.Installment) []*Installment {
	result := make([]*Installment, len(installments))
	for i, inst := range installments {
		result[i] = InstallmentFromDataModel(inst)
	}
	return result
}
