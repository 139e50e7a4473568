package handler

import "net/http"

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.health.Ping(r.Context()); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.messageResponse(w, r, http.StatusOK, "ok")
}
