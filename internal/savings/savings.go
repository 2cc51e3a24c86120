package savings

import (
	"time"

	savingsDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/savings"
	"github.com/frahmantamala/bengkelku/internal/ledger"
	"github.com/frahmantamala/bengkelku/pkg/uow"
	"github.com/shopspring/decimal"
)

const RepositoryName uow.RepositoryName = "savings"

type TransactionType string

const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
)

type Goal struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Status        ledger.Status   `json:"status"`
	StartDate     time.Time       `json:"start_date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type Transaction struct {
	ID              int64           `json:"id"`
	GoalID          int64           `json:"goal_id"`
	Type            TransactionType `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transaction_date"`
	Note            string          `json:"note"`
	CreatedAt       time.Time       `json:"created_at"`
}

type TransactionResult struct {
	Goal        *Goal        `json:"goal"`
	Transaction *Transaction `json:"transaction"`
}

func NewGoal(dto CreateGoalDTO) *Goal {
	g := &Goal{
		Name:      dto.Name,
		StartDate: dto.StartDate,
	}
	g.apply(ledger.NewSavings(dto.TargetAmount))
	return g
}

func (g *Goal) Balance() ledger.Balance {
	return ledger.Balance{
		Kind:     ledger.KindSavings,
		Original: g.TargetAmount,
		Running:  g.CurrentAmount,
		Status:   g.Status,
	}
}

func (g *Goal) apply(b ledger.Balance) {
	g.TargetAmount = b.Original
	g.CurrentAmount = b.Running
	g.Status = b.Status
}

// Move applies one transaction to the balance.
func (g *Goal) Move(t TransactionType, amount decimal.Decimal) (ledger.Balance, error) {
	if t == TypeWithdrawal {
		return g.Balance().Reduce(amount)
	}
	return g.Balance().Increase(amount)
}

func ToDataModel(g *Goal) *savingsDatamodel.Goal {
	return &savingsDatamodel.Goal{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Status:        string(g.Status),
		StartDate:     g.StartDate,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

func FromDataModel(g *savingsDatamodel.Goal) *Goal {
	return &Goal{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Status:        ledger.Status(g.Status),
		StartDate:     g.StartDate,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

func FromDataModelSlice(goals []*savingsDatamodel.Goal) []*Goal {
	result := make([]*Goal, len(goals))
	for i, g := range goals {
		result[i] = FromDataModel(g)
	}
	return result
}

func TransactionToDataModel(t *Transaction) *savingsDatamodel.Transaction {
	return &savingsDatamodel.Transaction{
		ID:              t.ID,
		GoalID:          t.GoalID,
		Type:            string(t.Type),
		Amount:          t.Amount,
		TransactionDate: t.TransactionDate,
		Note:            t.Note,
		CreatedAt:       t.CreatedAt,
	}
}

func TransactionFromDataModel(t *savingsDatamodel.Transaction) *Transaction {
	return &Transaction{
		ID:              t.ID,
		GoalID:          t.GoalID,
		Type:            TransactionType(t.Type),
		Amount:          t.Amount,
		TransactionDate: t.TransactionDate,
		Note:            t.Note,
		CreatedAt:       t.CreatedAt,
	}
}

func TransactionsFromDataModel(transactions []*savingsDatamodel.Transaction) []*Transaction {
	result := make([]*Transaction, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDataModel(t)
	}
	return result
}
