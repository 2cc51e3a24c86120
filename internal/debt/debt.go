package debt

import (
	"time"

	debtDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/debt"
	"github.com/frahmantamala/bengkelku/internal/ledger"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	"github.com/shopspring/decimal"
)

const RepositoryName uow.RepositoryName = "debt"

// Nature classifies an entry. It does not change how the balance moves.
type Nature string

const (
	NatureBusinessReceivable Nature = "business_receivable"
	NatureBusinessPayable    Nature = "business_payable"
	NatureOtherReceivable    Nature = "other_receivable"
	NatureOtherPayable       Nature = "other_payable"
)

var Natures = []string{
	string(NatureBusinessReceivable),
	string(NatureBusinessPayable),
	string(NatureOtherReceivable),
	string(NatureOtherPayable),
}

func (n Nature) IsReceivable() bool {
	return n == NatureBusinessReceivable || n == NatureOtherReceivable
}

const (
	PaymentKindPayment  = "payment"
	PaymentKindReversal = "reversal"
)

type Entry struct {
	ID              int64           `json:"id"`
	Nature          Nature          `json:"nature"`
	Counterparty    string          `json:"counterparty"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          ledger.Status   `json:"status"`
	EntryDate       time.Time       `json:"entry_date"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
	WriteOffReason  string          `json:"write_off_reason,omitempty"`
	WrittenOffAt    *time.Time      `json:"written_off_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type Payment struct {
	ID         int64           `json:"id"`
	EntryID    int64           `json:"entry_id"`
	Amount     decimal.Decimal `json:"amount"`
	Kind       string          `json:"kind"`
	ReversesID *int64          `json:"reverses_id,omitempty"`
	PaidOn     time.Time       `json:"paid_on"`
	Note       string          `json:"note"`
	CreatedAt  time.Time       `json:"created_at"`
}

type PaymentResult struct {
	Entry   *Entry   `json:"entry"`
	Payment *Payment `json:"payment"`
}

func NewEntry(dto CreateEntryDTO) *Entry {
	e := &Entry{
		Nature:       dto.Nature,
		Counterparty: dto.Counterparty,
		Description:  dto.Description,
		EntryDate:    dto.EntryDate,
		DueDate:      dto.DueDate,
	}
	e.apply(ledger.NewDebt(dto.Amount))
	return e
}

func (e *Entry) Balance() ledger.Balance {
	return ledger.Balance{
		Kind:     ledger.KindDebt,
		Original: e.Amount,
		Running:  e.RemainingAmount,
		Status:   e.Status,
	}
}

func (e *Entry) apply(b ledger.Balance) {
	e.Amount = b.Original
	e.RemainingAmount = b.Running
	e.Status = b.Status
}

// NetPaid sums payments minus their reversals.
func NetPaid(payments []*Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.Kind == PaymentKindReversal {
			total = total.Sub(p.Amount)
			continue
		}
		total = total.Add(p.Amount)
	}
	return total
}

func ToDataModel(e *Entry) *debtDatamodel.Entry {
	return &debtDatamodel.Entry{
		ID:              e.ID,
		Nature:          string(e.Nature),
		Counterparty:    e.Counterparty,
		Description:     e.Description,
		Amount:          e.Amount,
		RemainingAmount: e.RemainingAmount,
		Status:          string(e.Status),
		EntryDate:       e.EntryDate,
		DueDate:         e.DueDate,
		WriteOffReason:  e.WriteOffReason,
		WrittenOffAt:    e.WrittenOffAt,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func FromDataModel(e *debtDatamodel.Entry) *Entry {
	return &Entry{
		ID:              e.ID,
		Nature:          Nature(e.Nature),
		Counterparty:    e.Counterparty,
		Description:     e.Description,
		Amount:          e.Amount,
		RemainingAmount: e.RemainingAmount,
		Status:          ledger.Status(e.Status),
		EntryDate:       e.EntryDate,
		DueDate:         e.DueDate,
		WriteOffReason:  e.WriteOffReason,
		WrittenOffAt:    e.WrittenOffAt,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func FromDataModelSlice(entries []*debtDatamodel.Entry) []*Entry {
	result := make([]*Entry, len(entries))
	for i, e := range entries {
		result[i] = FromDataModel(e)
	}
	return result
}

func PaymentToDataModel(p *Payment) *debtDatamodel.Payment {
	return &debtDatamodel.Payment{
		ID:         p.ID,
		EntryID:    p.EntryID,
		Amount:     p.Amount,
		Kind:       p.Kind,
		ReversesID: p.ReversesID,
		PaidOn:     p.PaidOn,
		Note:       p.Note,
		CreatedAt:  p.CreatedAt,
	}
}

func PaymentFromDataModel(p *debtDatamodel.Payment) *Payment {
	return &Payment{
		ID:         p.ID,
		EntryID:    p.EntryID,
		Amount:     p.Amount,
		Kind:       p.Kind,
		ReversesID: p.ReversesID,
		PaidOn:     p.PaidOn,
		Note:       p.Note,
		CreatedAt:  p.CreatedAt,
	}
}

func PaymentsFromDataModel(payments []*debtDatamodel.Payment) []*Payment {
	result := make([]*Payment, len(payments))
	for i, p := range payments {
		result[i] = PaymentFromDataModel(p)
	}
	return result
}
