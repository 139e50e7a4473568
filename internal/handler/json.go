package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/taskflow-dev/taskflow/backend/internal/domain"
)

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("服务器内部错误", "request_id", r.Context().Value(RequestIDCtx), "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
	}
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.writeJSON(w, r, status, ErrorResponse{Detail: msg})
}

func (h *Handler) messageResponse(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.writeJSON(w, r, status, MessageResponse{Message: msg})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		h.errorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.errorResponse(w, r, http.StatusBadRequest, validationErrors[0].Translate(h.translator))
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.errorResponse(w, r, http.StatusInternalServerError, "Internal server error")
}

// serviceError 将业务层的错误映射为 HTTP 响应
func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.errorResponse(w, r, http.StatusNotFound, "Task not found")
	case errors.Is(err, domain.ErrForbidden):
		h.errorResponse(w, r, http.StatusForbidden, "Not allowed")
	case errors.Is(err, domain.ErrFieldForbidden):
		h.errorResponse(w, r, http.StatusForbidden, "Users can only update task status")
	case errors.Is(err, domain.ErrEmptyUpdate):
		h.errorResponse(w, r, http.StatusBadRequest, "No fields to update")
	case errors.Is(err, domain.ErrSelfAssignment):
		h.errorResponse(w, r, http.StatusBadRequest, "Admin cannot assign a task to themselves")
	case errors.Is(err, domain.ErrConflict):
		h.errorResponse(w, r, http.StatusBadRequest, "User already exists")
	case errors.Is(err, domain.ErrUnknownEmail):
		h.errorResponse(w, r, http.StatusUnauthorized, "User not found With this email")
	case errors.Is(err, domain.ErrInvalidPassword):
		h.errorResponse(w, r, http.StatusUnauthorized, "Invalid password")
	case errors.Is(err, domain.ErrTooManyAttempts):
		h.errorResponse(w, r, http.StatusTooManyRequests, "Too many failed login attempts, try again later")
	default:
		h.internalServerError(w, r, err)
	}
}
