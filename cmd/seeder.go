package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/core/events"
	"github.com/frahmantamala/bengkelku/internal/employee"
	"github.com/frahmantamala/bengkelku/internal/inventory"
)

var clearData bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample employees and products for development and testing purposes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, lg, err := setup()
		if err != nil {
			return err
		}

		gormDB, err := initDB(cfg.Database)
		if err != nil {
			return err
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		if clearData {
			if err := clearTables(gormDB); err != nil {
				return err
			}
			lg.Info("cleared existing data")
		}

		bus := events.NewEventBus(lg)
		services, err := newServices(gormDB, sqlx.NewDb(sqlDB, "pgx"), bus, lg)
		if err != nil {
			return err
		}
		return seed(cmd.Context(), services, lg)
	},
}

// seedTables lists every table --clear empties.
var seedTables = []string{
	"service_jobs",
	"sale_items", "sales",
	"supplier_order_items", "supplier_orders",
	"price_adjustments", "product_prices", "products",
	"savings_transactions", "savings_goals",
	"debt_payments", "debt_entries",
	"loan_installments", "employee_loans", "employees",
}

func clearTables(db *gorm.DB) error {
	stmt := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(seedTables, ", "))
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("failed to clear tables: %w", err)
	}
	return nil
}

func sampleEmployees(joined time.Time) []employee.CreateEmployeeDTO {
	return []employee.CreateEmployeeDTO{
		{Name: "Budi Santoso", Position: "Kepala Mekanik", Phone: "081200000001", BaseSalary: decimal.NewFromInt(4_500_000), JoinedAt: joined},
		{Name: "Agus Pratama", Position: "Mekanik", Phone: "081200000002", BaseSalary: decimal.NewFromInt(3_200_000), JoinedAt: joined},
		{Name: "Siti Rahma", Position: "Kasir", Phone: "081200000003", BaseSalary: decimal.NewFromInt(2_900_000), JoinedAt: joined},
	}
}

func tierPrices(retail, partner, pkg int64) []inventory.Price {
	return []inventory.Price{
		{Tier: inventory.TierDefault, Price: decimal.NewFromInt(retail)},
		{Tier: inventory.TierPartner, Price: decimal.NewFromInt(partner)},
		{Tier: inventory.TierServicePackage, Price: decimal.NewFromInt(pkg)},
	}
}

func sampleProducts() []inventory.CreateProductDTO {
	return []inventory.CreateProductDTO{
		{SKU: "OLI-MPX2-08", Name: "Oli AHM MPX2 0.8L", Category: "Oli", CostPrice: decimal.NewFromInt(42_000), StockQuantity: 24, MinimumStock: 6, Prices: tierPrices(55_000, 50_000, 52_000)},
		{SKU: "BAN-IRC-8090", Name: "Ban IRC 80/90-14", Category: "Ban", CostPrice: decimal.NewFromInt(185_000), StockQuantity: 8, MinimumStock: 2, Prices: tierPrices(235_000, 215_000, 225_000)},
		{SKU: "KP-BEAT-FR", Name: "Kampas Rem Depan Beat", Category: "Sparepart", CostPrice: decimal.NewFromInt(28_000), StockQuantity: 15, MinimumStock: 5, Prices: tierPrices(45_000, 38_000, 40_000)},
		{SKU: "BUSI-NGK-C7", Name: "Busi NGK C7HSA", Category: "Sparepart", CostPrice: decimal.NewFromInt(14_000), StockQuantity: 3, MinimumStock: 10, Prices: tierPrices(22_000, 18_000, 20_000)},
		{SKU: "JASA-SERVIS", Name: "Servis Ringan", Category: inventory.CategoryService, CostPrice: decimal.NewFromInt(25_000), Prices: tierPrices(50_000, 45_000, 35_000)},
	}
}

func seed(ctx context.Context, services *Services, lg *slog.Logger) error {
	existing, err := services.Employee.ListEmployees(ctx, employee.ListEmployeesDTO{})
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, emp := range existing {
		known[emp.Name] = true
	}

	joined := time.Now().UTC().AddDate(-1, 0, 0)
	for _, dto := range sampleEmployees(joined) {
		if known[dto.Name] {
			lg.Info("employee already exists", "name", dto.Name)
			continue
		}
		emp, err := services.Employee.CreateEmployee(ctx, dto)
		if err != nil {
			return fmt.Errorf("failed to seed employee %s: %w", dto.Name, err)
		}
		lg.Info("seeded employee", "employee_id", emp.ID, "name", emp.Name)
	}

	for _, dto := range sampleProducts() {
		product, err := services.Inventory.CreateProduct(ctx, dto)
		if err != nil {
			if appErr, ok := errors.IsAppError(err); ok && appErr.Type == errors.ErrorTypeConflict {
				lg.Info("product already exists", "sku", dto.SKU)
				continue
			}
			return fmt.Errorf("failed to seed product %s: %w", dto.SKU, err)
		}
		lg.Info("seeded product", "product_id", product.ID, "sku", product.SKU)
	}
	return nil
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
}
