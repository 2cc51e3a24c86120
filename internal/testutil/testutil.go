// Package testutil provides an in-memory store and matchers shared by the
// package suites.
package testutil

import (
	"fmt"
	"time"

	debtDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/debt"
	employeeDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/employee"
	inventoryDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/inventory"
	loanDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/loan"
	purchasingDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/purchasing"
	salesDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/sales"
	savingsDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/savings"
	servicejobDatamodel "github.com/frahmantamala/bengkelku/internal/core/datamodel/servicejob"
	"github.com/onsi/gomega/types"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table the service owns.
func Models() []any {
	return []any{
		&employeeDatamodel.Employee{},
		&loanDatamodel.Loan{},
		&loanDatamodel.Installment{},
		&debtDatamodel.Entry{},
		&debtDatamodel.Payment{},
		&savingsDatamodel.Goal{},
		&savingsDatamodel.Transaction{},
		&inventoryDatamodel.Product{},
		&inventoryDatamodel.ProductPrice{},
		&inventoryDatamodel.PriceAdjustment{},
		&purchasingDatamodel.SupplierOrder{},
		&purchasingDatamodel.SupplierOrderItem{},
		&salesDatamodel.Sale{},
		&salesDatamodel.SaleItem{},
		&servicejobDatamodel.Job{},
	}
}

// NewSQLiteDB opens a migrated in-memory database. The pool is pinned to a
// single connection because every sqlite :memory: connection is a separate
// database.
func NewSQLiteDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, err
	}
	return db, nil
}

// D parses a decimal literal and panics on malformed input.
func D(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// Day returns midnight UTC of the given calendar date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// EqualDecimal compares numerically, so "85000" matches "85000.00".
func EqualDecimal(expected any) types.GomegaMatcher {
	return &decimalMatcher{expected: toDecimal(expected)}
}

type decimalMatcher struct {
	expected decimal.Decimal
}

func (m *decimalMatcher) Match(actual any) (bool, error) {
	switch v := actual.(type) {
	case decimal.Decimal:
		return v.Equal(m.expected), nil
	case *decimal.Decimal:
		if v == nil {
			return false, nil
		}
		return v.Equal(m.expected), nil
	default:
		return false, fmt.Errorf("EqualDecimal expects a decimal.Decimal, got %T", actual)
	}
}

func (m *decimalMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("Expected\n\t%v\nto equal decimal\n\t%s", actual, m.expected.String())
}

func (m *decimalMatcher) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("Expected\n\t%v\nnot to equal decimal\n\t%s", actual, m.expected.String())
}

func toDecimal(v any) decimal.Decimal {
	switch x := v.(type) {
	case decimal.Decimal:
		return x
	case string:
		return decimal.RequireFromString(x)
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case float64:
		return decimal.NewFromFloat(x)
	default:
		panic(fmt.Sprintf("EqualDecimal: unsupported expected value %T", v))
	}
}
