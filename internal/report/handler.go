package report

import (
	"context"
	"net/http"

	"github.com/frahmantamala/bengkelku/internal/transport"
)

type ServiceAPI interface {
	Debts(ctx context.Context) (*DebtReport, error)
	Loans(ctx context.Context) ([]LoanSummary, error)
	LowStock(ctx context.Context) ([]LowStockItem, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) Debts(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Service.Debts(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rep)
}

func (h *Handler) Loans(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.Loans(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"employees": rows,
	})
}

func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.LowStock(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"products": rows,
	})
}
