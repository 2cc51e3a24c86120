package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/auth"
	"github.com/frahmantamala/bengkelku/internal/debt"
	"github.com/frahmantamala/bengkelku/internal/employee"
	"github.com/frahmantamala/bengkelku/internal/inventory"
	"github.com/frahmantamala/bengkelku/internal/loan"
	"github.com/frahmantamala/bengkelku/internal/purchasing"
	"github.com/frahmantamala/bengkelku/internal/report"
	"github.com/frahmantamala/bengkelku/internal/sales"
	"github.com/frahmantamala/bengkelku/internal/savings"
	"github.com/frahmantamala/bengkelku/internal/servicejob"
	"github.com/frahmantamala/bengkelku/internal/transport"
	"github.com/frahmantamala/bengkelku/internal/transport/middleware"
	"github.com/frahmantamala/bengkelku/internal/transport/swagger"
)

// Handlers groups every HTTP handler mounted under /api/v1.
type Handlers struct {
	Health     *HealthHandler
	Auth       *auth.Handler
	Employee   *employee.Handler
	Loan       *loan.Handler
	Debt       *debt.Handler
	Savings    *savings.Handler
	Inventory  *inventory.Handler
	Purchasing *purchasing.Handler
	Sales      *sales.Handler
	ServiceJob *servicejob.Handler
	Report     *report.Handler
}

// RouterOptions carries the cross-cutting pieces the middleware chain needs.
type RouterOptions struct {
	Base           *transport.BaseHandler
	Logger         *slog.Logger
	TokenValidator auth.TokenValidator
	Validator      *middleware.RequestValidator
	AllowedOrigins []string
	Spec           []byte
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts RouterOptions) {
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging(opts.Logger))
	router.Use(middleware.Recovery(opts.Base, opts.Logger))
	if opts.Validator != nil {
		router.Use(opts.Validator.Middleware)
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		opts.Base.WriteError(w, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		opts.Base.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	if len(opts.Spec) > 0 {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write(opts.Spec)
		})
		router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))
	}

	ownerOrAdmin := middleware.RequireRole(opts.Base, errors.RoleOwner, errors.RoleAdmin)
	anyStaff := middleware.RequireRole(opts.Base, errors.RoleOwner, errors.RoleAdmin, errors.RoleCashier)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health.Health)
		r.Get("/ping", h.Health.Ping)

		r.Group(func(pr chi.Router) {
			pr.Use(middleware.Authenticate(opts.TokenValidator, opts.Base))

			pr.Get("/auth/me", h.Auth.Me)

			// counter staff
			pr.Group(func(cr chi.Router) {
				cr.Use(anyStaff)

				cr.Get("/products", h.Inventory.ListProducts)
				cr.Get("/products/{id}", h.Inventory.GetProduct)

				cr.Route("/sales", func(sr chi.Router) {
					sr.Post("/", h.Sales.RecordSale)
					sr.Get("/", h.Sales.ListSales)
					sr.Get("/{id}", h.Sales.GetSale)
				})

				cr.Route("/service-jobs", func(jr chi.Router) {
					jr.Post("/", h.ServiceJob.CreateJob)
					jr.Get("/", h.ServiceJob.ListJobs)
					jr.Get("/{id}", h.ServiceJob.GetJob)
					jr.Patch("/{id}/status", h.ServiceJob.UpdateStatus)
				})
			})

			// back office
			pr.Group(func(ar chi.Router) {
				ar.Use(ownerOrAdmin)

				ar.Post("/products", h.Inventory.CreateProduct)
				ar.Put("/products/{id}", h.Inventory.UpdateProduct)
				ar.Delete("/products/{id}", h.Inventory.DeleteProduct)
				ar.Get("/products/{id}/price-adjustments", h.Inventory.ListPriceAdjustments)

				ar.Route("/employees", func(er chi.Router) {
					er.Post("/", h.Employee.CreateEmployee)
					er.Get("/", h.Employee.ListEmployees)
					er.Get("/{id}", h.Employee.GetEmployee)
					er.Put("/{id}", h.Employee.UpdateEmployee)
					er.Post("/{id}/deactivate", h.Employee.DeactivateEmployee)
				})

				ar.Route("/loans", func(lr chi.Router) {
					lr.Post("/", h.Loan.CreateLoan)
					lr.Get("/", h.Loan.ListLoans)
					lr.Get("/{id}", h.Loan.GetLoan)
					lr.Put("/{id}", h.Loan.EditLoan)
					lr.Delete("/{id}", h.Loan.DeleteLoan)
					lr.Get("/{id}/installments", h.Loan.ListInstallments)
					lr.Post("/{id}/installments", h.Loan.RecordInstallment)
					lr.Post("/{id}/installments/{installmentID}/reverse", h.Loan.ReverseInstallment)
				})

				ar.Route("/debts", func(dr chi.Router) {
					dr.Post("/", h.Debt.CreateEntry)
					dr.Get("/", h.Debt.ListEntries)
					dr.Get("/{id}", h.Debt.GetEntry)
					dr.Put("/{id}", h.Debt.EditEntry)
					dr.Delete("/{id}", h.Debt.DeleteEntry)
					dr.Get("/{id}/payments", h.Debt.ListPayments)
					dr.Post("/{id}/payments", h.Debt.RecordPayment)
					dr.Post("/{id}/payments/{paymentID}/reverse", h.Debt.ReversePayment)
					dr.Post("/{id}/write-off", h.Debt.WriteOff)
				})

				ar.Route("/savings", func(gr chi.Router) {
					gr.Post("/", h.Savings.CreateGoal)
					gr.Get("/", h.Savings.ListGoals)
					gr.Get("/{id}", h.Savings.GetGoal)
					gr.Put("/{id}", h.Savings.EditGoal)
					gr.Delete("/{id}", h.Savings.DeleteGoal)
					gr.Get("/{id}/transactions", h.Savings.ListTransactions)
					gr.Post("/{id}/transactions", h.Savings.RecordTransaction)
					gr.Get("/{id}/projection", h.Savings.EstimateCompletion)
				})

				ar.Route("/supplier-orders", func(or chi.Router) {
					or.Post("/", h.Purchasing.CreateOrder)
					or.Get("/", h.Purchasing.ListOrders)
					or.Get("/{id}", h.Purchasing.GetOrder)
					or.Post("/{id}/place", h.Purchasing.PlaceOrder)
					or.Post("/{id}/cancel", h.Purchasing.CancelOrder)
					or.Post("/{id}/receipts", h.Purchasing.ReceiveGoods)
				})

				ar.Route("/reports", func(rr chi.Router) {
					rr.Get("/debts", h.Report.Debts)
					rr.Get("/loans", h.Report.Loans)
					rr.Get("/low-stock", h.Report.LowStock)
				})
			})
		})
	})
}
