package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taskflow-dev/taskflow/backend/internal/domain"
)

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string  `json:"title" validate:"required"`
		Priority    string  `json:"priority" validate:"required"`
		Status      string  `json:"status" validate:"omitempty,oneof=todo in_progress done"`
		Description *string `json:"description"`
		AssignedTo  string  `json:"assigned_to" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	task, err := h.taskService.Create(r.Context(), myInfo, domain.TaskDraft{
		Title:       req.Title,
		Priority:    req.Priority,
		Status:      domain.TaskStatus(req.Status),
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, task)
}

func (h *Handler) GetTasks(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	tasks, err := h.taskService.List(r.Context(), myInfo)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, tasks)
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req domain.TaskUpdate

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	if err := h.taskService.Update(r.Context(), myInfo, chi.URLParam(r, "taskID"), req); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.messageResponse(w, r, http.StatusOK, "Task updated successfully")
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.taskService.Delete(r.Context(), chi.URLParam(r, "taskID")); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.messageResponse(w, r, http.StatusOK, "Task deleted successfully")
}
