package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/taskflow-dev/taskflow/backend/internal/domain"
	"github.com/taskflow-dev/taskflow/backend/internal/service"
)

func queryInt(r *http.Request, name string, def int64) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return v, nil
}

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Limit int64 `json:"limit" validate:"min=1"`
		Skip  int64 `json:"skip" validate:"min=0"`
	}

	var err error
	if req.Limit, err = queryInt(r, "limit", service.DefaultUserLimit); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.Skip, err = queryInt(r, "skip", service.DefaultUserSkip); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	users, err := h.userService.List(r.Context(), myInfo, req.Limit, req.Skip)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, users)
}
