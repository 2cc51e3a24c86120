package postgres

import (
	"context"

	"github.com/frahmantamala/bengkelku/internal/core/common/dberr"
	"github.com/frahmantamala/bengkelku/internal/inventory"
	"github.com/frahmantamala/bengkelku/internal/ledger"
	"github.com/frahmantamala/bengkelku/internal/report"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const (
	outstandingDebtsQuery = `
		SELECT nature, COUNT(*) AS entries, COALESCE(SUM(remaining_amount), 0) AS outstanding
		FROM debt_entries
		WHERE status IN (?, ?)
		GROUP BY nature
		ORDER BY nature`

	writtenOffQuery = `
		SELECT COALESCE(SUM(remaining_amount), 0)
		FROM debt_entries
		WHERE status = ?`

	outstandingLoansQuery = `
		SELECT e.id AS employee_id, e.name AS employee_name,
			COUNT(l.id) AS loans, COALESCE(SUM(l.remaining_amount), 0) AS outstanding
		FROM employee_loans l
		JOIN employees e ON e.id = l.employee_id
		WHERE l.status IN (?, ?)
		GROUP BY e.id, e.name
		ORDER BY outstanding DESC, e.id`

	lowStockQuery = `
		SELECT id AS product_id, sku, name, category, stock_quantity, minimum_stock
		FROM products
		WHERE LOWER(category) <> LOWER(?) AND stock_quantity <= minimum_stock
		ORDER BY minimum_stock - stock_quantity DESC, sku`
)

// ReportRepository runs plain SQL over the shared pool. Queries are written
// with ? and rebound for the driver.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) OutstandingDebts(ctx context.Context) ([]report.DebtSummary, error) {
	rows := []report.DebtSummary{}
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(outstandingDebtsQuery),
		string(ledger.StatusUnpaid), string(ledger.StatusPartiallyPaid))
	if err != nil {
		return nil, dberr.Convert(err, nil, "failed to summarise outstanding debts")
	}
	return rows, nil
}

func (r *ReportRepository) WrittenOffTotal(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(writtenOffQuery), string(ledger.StatusWrittenOff)); err != nil {
		return decimal.Zero, dberr.Convert(err, nil, "failed to total written off debts")
	}
	return total, nil
}

func (r *ReportRepository) OutstandingLoans(ctx context.Context) ([]report.LoanSummary, error) {
	rows := []report.LoanSummary{}
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(outstandingLoansQuery),
		string(ledger.StatusUnpaid), string(ledger.StatusPartiallyPaid))
	if err != nil {
		return nil, dberr.Convert(err, nil, "failed to summarise outstanding loans")
	}
	return rows, nil
}

func (r *ReportRepository) LowStock(ctx context.Context) ([]report.LowStockItem, error) {
	rows := []report.LowStockItem{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(lowStockQuery), inventory.CategoryService); err != nil {
		return nil, dberr.Convert(err, nil, "failed to list low stock products")
	}
	return rows, nil
}
