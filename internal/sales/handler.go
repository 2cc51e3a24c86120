package sales

import (
	"context"
	"net/http"

	"github.com/frahmantamala/bengkelku/internal/transport"
)

type ServiceAPI interface {
	RecordSale(ctx context.Context, dto RecordSaleDTO) (*Sale, error)
	GetSale(ctx context.Context, id int64) (*Sale, error)
	ListSales(ctx context.Context, dto ListSalesDTO) ([]*Sale, error)
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

func (h *Handler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var dto RecordSaleDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	sale, err := h.Service.RecordSale(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, sale)
}

func (h *Handler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	sale, err := h.Service.GetSale(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, sale)
}

func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	from, err := h.ParseDateQuery(r, "from")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	to, err := h.ParseDateQuery(r, "to")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	sales, err := h.Service.ListSales(r.Context(), ListSalesDTO{
		From:    from,
		To:      to,
		Segment: Segment(r.URL.Query().Get("segment")),
	})
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"sales": sales,
	})
}
