package purchasing

import (
	"context"
	"net/http"

	"github.com/frahmantamala/bengkelku/internal/transport"
)

type ServiceAPI interface {
	CreateOrder(ctx context.Context, dto CreateOrderDTO) (*Order, error)
	GetOrder(ctx context.Context, id int64) (*Order, error)
	ListOrders(ctx context.Context, dto ListOrdersDTO) ([]*Order, error)
	PlaceOrder(ctx context.Context, id int64) (*Order, error)
	CancelOrder(ctx context.Context, id int64) (*Order, error)
	ReceiveGoods(ctx context.Context, orderID int64, dto ReceiveGoodsDTO) (*ReceiptResult, error)
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

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var dto CreateOrderDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	order, err := h.Service.CreateOrder(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, order)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	order, err := h.Service.GetOrder(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	dto := ListOrdersDTO{
		Status:         Status(r.URL.Query().Get("status")),
		ReceivableOnly: r.URL.Query().Get("receivable") == "true",
	}

	orders, err := h.Service.ListOrders(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
	})
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.Service.PlaceOrder)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.Service.CancelOrder)
}

func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request, change func(context.Context, int64) (*Order, error)) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	order, err := change(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) ReceiveGoods(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto ReceiveGoodsDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	result, err := h.Service.ReceiveGoods(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}
