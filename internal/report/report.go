// Package report serves read-only summaries straight from SQL.
package report

import (
	"github.com/frahmantamala/bengkelku/internal/debt"
	"github.com/shopspring/decimal"
)

type DebtSummary struct {
	Nature      debt.Nature     `json:"nature" db:"nature"`
	Entries     int64           `json:"entries" db:"entries"`
	Outstanding decimal.Decimal `json:"outstanding" db:"outstanding"`
}

type DebtReport struct {
	Natures          []DebtSummary   `json:"natures"`
	TotalReceivable  decimal.Decimal `json:"total_receivable"`
	TotalPayable     decimal.Decimal `json:"total_payable"`
	NetPosition      decimal.Decimal `json:"net_position"`
	WrittenOffAmount decimal.Decimal `json:"written_off_amount"`
}

type LoanSummary struct {
	EmployeeID   int64           `json:"employee_id" db:"employee_id"`
	EmployeeName string          `json:"employee_name" db:"employee_name"`
	Loans        int64           `json:"loans" db:"loans"`
	Outstanding  decimal.Decimal `json:"outstanding" db:"outstanding"`
}

type LowStockItem struct {
	ProductID     int64  `json:"product_id" db:"product_id"`
	SKU           string `json:"sku" db:"sku"`
	Name          string `json:"name" db:"name"`
	Category      string `json:"category" db:"category"`
	StockQuantity int64  `json:"stock_quantity" db:"stock_quantity"`
	MinimumStock  int64  `json:"minimum_stock" db:"minimum_stock"`
}

func (i LowStockItem) Shortfall() int64 {
	return i.MinimumStock - i.StockQuantity
}

// Summarize totals the per-nature rows into receivable and payable sides.
func Summarize(rows []DebtSummary, writtenOff decimal.Decimal) *DebtReport {
	r := &DebtReport{
		Natures:          rows,
		TotalReceivable:  decimal.Zero,
		TotalPayable:     decimal.Zero,
		WrittenOffAmount: writtenOff,
	}
	if r.Natures == nil {
		r.Natures = []DebtSummary{}
	}
	for _, row := range rows {
		if row.Nature.IsReceivable() {
			r.TotalReceivable = r.TotalReceivable.Add(row.Outstanding)
		} else {
			r.TotalPayable = r.TotalPayable.Add(row.Outstanding)
		}
	}
	r.NetPosition = r.TotalReceivable.Sub(r.TotalPayable)
	return r
}
