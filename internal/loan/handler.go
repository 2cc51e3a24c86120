package loan

import (
	"context"
	"net/http"
	"strconv"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/ledger"
	"github.com/frahmantamala/bengkelku/internal/transport"
)

type ServiceAPI interface {
	CreateLoan(ctx context.Context, dto CreateLoanDTO) (*Loan, error)
	GetLoan(ctx context.Context, id int64) (*Loan, error)
	ListLoans(ctx context.Context, dto ListLoansDTO) ([]*Loan, error)
	EditLoan(ctx context.Context, id int64, dto EditLoanDTO) (*Loan, error)
	DeleteLoan(ctx context.Context, id int64) error
	ListInstallments(ctx context.Context, loanID int64) ([]*Installment, error)
	RecordInstallment(ctx context.Context, loanID int64, dto RecordInstallmentDTO) (*InstallmentResult, error)
	ReverseInstallment(ctx context.Context, loanID, installmentID int64, dto ReverseInstallmentDTO) (*InstallmentResult, error)
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

func (h *Handler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var dto CreateLoanDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	l, err := h.Service.CreateLoan(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, l)
}

func (h *Handler) GetLoan(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	l, err := h.Service.GetLoan(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, l)
}

func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	dto := ListLoansDTO{Status: ledger.Status(r.URL.Query().Get("status"))}
	if raw := r.URL.Query().Get("employee_id"); raw != "" {
		employeeID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.HandleServiceError(w, r, errors.NewValidationFieldError("employee_id", "invalid employee_id", errors.ErrCodeValidationFailed))
			return
		}
		dto.EmployeeID = employeeID
	}

	loans, err := h.Service.ListLoans(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"loans": loans,
	})
}

func (h *Handler) EditLoan(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto EditLoanDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	l, err := h.Service.EditLoan(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, l)
}

func (h *Handler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.DeleteLoan(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListInstallments(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	installments, err := h.Service.ListInstallments(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"installments": installments,
	})
}

func (h *Handler) RecordInstallment(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto RecordInstallmentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	result, err := h.Service.RecordInstallment(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) ReverseInstallment(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	installmentID, err := h.ParseIDParam(r, "installmentID")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto ReverseInstallmentDTO
	if r.ContentLength != 0 {
		if err := h.DecodeJSON(r, &dto); err != nil {
			h.HandleServiceError(w, r, err)
			return
		}
	}

	result, err := h.Service.ReverseInstallment(r.Context(), id, installmentID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, result)
}
