package auth

import (
	"net/http"

	errors "github.com/frahmantamala/bengkelku/internal"
	"github.com/frahmantamala/bengkelku/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
}

func NewHandler(baseHandler *transport.BaseHandler) *Handler {
	return &Handler{BaseHandler: baseHandler}
}

// Me echoes the authenticated caller.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := errors.ActorFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, errors.ErrInvalidToken)
		return
	}
	h.WriteJSON(w, http.StatusOK, actor)
}
