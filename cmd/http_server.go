package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/bengkelku/api"
	"github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/auth"
	"github.com/frahmantamala/bengkelku/internal/core/events"
	eventsKafka "github.com/frahmantamala/bengkelku/internal/core/events/kafka"
	"github.com/frahmantamala/bengkelku/internal/debt"
	debtPostgres "github.com/frahmantamala/bengkelku/internal/debt/postgres"
	"github.com/frahmantamala/bengkelku/internal/employee"
	employeePostgres "github.com/frahmantamala/bengkelku/internal/employee/postgres"
	"github.com/frahmantamala/bengkelku/internal/inventory"
	inventoryPostgres "github.com/frahmantamala/bengkelku/internal/inventory/postgres"
	"github.com/frahmantamala/bengkelku/internal/loan"
	loanPostgres "github.com/frahmantamala/bengkelku/internal/loan/postgres"
	"github.com/frahmantamala/bengkelku/internal/purchasing"
	purchasingPostgres "github.com/frahmantamala/bengkelku/internal/purchasing/postgres"
	"github.com/frahmantamala/bengkelku/internal/report"
	reportPostgres "github.com/frahmantamala/bengkelku/internal/report/postgres"
	"github.com/frahmantamala/bengkelku/internal/sales"
	salesPostgres "github.com/frahmantamala/bengkelku/internal/sales/postgres"
	"github.com/frahmantamala/bengkelku/internal/savings"
	savingsPostgres "github.com/frahmantamala/bengkelku/internal/savings/postgres"
	"github.com/frahmantamala/bengkelku/internal/servicejob"
	servicejobPostgres "github.com/frahmantamala/bengkelku/internal/servicejob/postgres"
	"github.com/frahmantamala/bengkelku/internal/transport"
	"github.com/frahmantamala/bengkelku/internal/transport/middleware"
	"github.com/frahmantamala/bengkelku/internal/transport/rest"
	"github.com/frahmantamala/bengkelku/pkg/uow"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

// Services holds every domain service built over one database.
type Services struct {
	Employee   *employee.Service
	Loan       *loan.Service
	Debt       *debt.Service
	Savings    *savings.Service
	Inventory  *inventory.Service
	Purchasing *purchasing.Service
	Sales      *sales.Service
	ServiceJob *servicejob.Service
	Report     *report.Service
}

type Dependencies struct {
	Config    *internal.Config
	Logger    *slog.Logger
	GormDB    *gorm.DB
	DB        *sqlx.DB
	Bus       *events.EventBus
	Forwarder *eventsKafka.Forwarder
	Services  *Services
	Router    *chi.Mux
}

func startHTTPServer() {
	cfg, lg, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	deps, err := initializeDependencies(cfg, lg)
	if err != nil {
		lg.Error("failed to initialize dependencies", "error", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		lg.Error("failed to set up routes", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		lg.Info("starting HTTP server", "address", addr)
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		lg.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			lg.Error("server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			lg.Error("server failed to start", "error", err)
		}
	}

	deps.Close()
	lg.Info("server stopped")
}

// Close drains in-flight event handlers before releasing the broker and
// database.
func (d *Dependencies) Close() {
	d.Bus.Wait()
	if d.Forwarder != nil {
		if err := d.Forwarder.Close(); err != nil {
			d.Logger.Error("kafka writer close error", "error", err)
		}
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("database close error", "error", err)
	}
}

func setupRoutes(deps *Dependencies) error {
	base := transport.NewBaseHandler(deps.Logger)
	cfg := deps.Config

	validator, err := middleware.NewRequestValidator(api.Spec, base)
	if err != nil {
		return err
	}

	components := map[string]rest.Pinger{"postgres": deps.DB}
	if cfg.Events.Kafka.Enabled {
		components["kafka"] = eventsKafka.NewBrokerPinger(cfg.Events.Kafka.Brokers)
	}

	svc := deps.Services
	handlers := rest.Handlers{
		Health:     rest.NewHealthHandler(base, components),
		Auth:       auth.NewHandler(base),
		Employee:   employee.NewHandler(base, svc.Employee),
		Loan:       loan.NewHandler(base, svc.Loan),
		Debt:       debt.NewHandler(base, svc.Debt),
		Savings:    savings.NewHandler(base, svc.Savings),
		Inventory:  inventory.NewHandler(base, svc.Inventory),
		Purchasing: purchasing.NewHandler(base, svc.Purchasing),
		Sales:      sales.NewHandler(base, svc.Sales),
		ServiceJob: servicejob.NewHandler(base, svc.ServiceJob),
		Report:     report.NewHandler(base, svc.Report),
	}

	rest.RegisterAllRoutes(deps.Router, handlers, rest.RouterOptions{
		Base:           base,
		Logger:         deps.Logger,
		TokenValidator: auth.NewJWTTokenIssuer(cfg.Security.JWTSecret, cfg.Security.JWTIssuer, cfg.Security.AccessTokenDuration),
		Validator:      validator,
		AllowedOrigins: cfg.Server.Origins(),
		Spec:           api.Spec,
	})
	return nil
}

func initializeDependencies(cfg *internal.Config, lg *slog.Logger) (*Dependencies, error) {
	gormDB, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	bus := events.NewEventBus(lg)
	var forwarder *eventsKafka.Forwarder
	if cfg.Events.Kafka.Enabled {
		kafkaCfg := cfg.Events.Kafka
		forwarder = eventsKafka.NewForwarder(eventsKafka.NewWriter(kafkaCfg), kafkaCfg.Topic, lg)
		forwarder.Attach(bus)
		lg.Info("forwarding domain events to kafka", "brokers", kafkaCfg.Brokers, "topic_prefix", kafkaCfg.TopicPrefix)
	}

	db := sqlx.NewDb(sqlDB, "pgx")
	services, err := newServices(gormDB, db, bus, lg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Dependencies{
		Config:    cfg,
		Logger:    lg,
		GormDB:    gormDB,
		DB:        db,
		Bus:       bus,
		Forwarder: forwarder,
		Services:  services,
		Router:    chi.NewRouter(),
	}, nil
}

// newUnitOfWork registers every transactional repository on one unit of work.
func newUnitOfWork(db *gorm.DB) (*uow.UnitOfWork, error) {
	u := uow.NewUnitOfWork(db)
	registrations := []func(uow.UOW) error{
		employeePostgres.Register,
		loanPostgres.Register,
		debtPostgres.Register,
		savingsPostgres.Register,
		inventoryPostgres.Register,
		purchasingPostgres.Register,
		salesPostgres.Register,
		servicejobPostgres.Register,
	}
	for _, register := range registrations {
		if err := register(u); err != nil {
			return nil, fmt.Errorf("failed to register repository: %w", err)
		}
	}
	return u, nil
}

func newServices(gormDB *gorm.DB, db *sqlx.DB, publisher events.Publisher, lg *slog.Logger) (*Services, error) {
	u, err := newUnitOfWork(gormDB)
	if err != nil {
		return nil, err
	}

	return &Services{
		Employee:   employee.NewService(employeePostgres.NewEmployeeRepository(gormDB), lg),
		Loan:       loan.NewService(u, publisher, lg),
		Debt:       debt.NewService(u, publisher, lg),
		Savings:    savings.NewService(u, publisher, lg),
		Inventory:  inventory.NewService(u, lg),
		Purchasing: purchasing.NewService(u, publisher, lg),
		Sales:      sales.NewService(u, publisher, lg),
		ServiceJob: servicejob.NewService(u, publisher, lg),
		Report:     report.NewService(reportPostgres.NewReportRepository(db), lg),
	}, nil
}

func initDB(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
