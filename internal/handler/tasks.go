package handler

import (
	"net/http"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
)

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title         string `json:"title" validate:"required"`
		Category      string `json:"category"`
		Difficulty    int32  `json:"difficulty" validate:"required,min=1,max=5"`
		Duration      int32  `json:"duration" validate:"required,min=1"`
		BreakDuration int32  `json:"breakDuration" validate:"min=0"`
		Priority      int32  `json:"priority" validate:"min=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	task := &domain.Task{
		Title:         req.Title,
		Category:      req.Category,
		Difficulty:    req.Difficulty,
		Duration:      req.Duration,
		BreakDuration: req.BreakDuration,
		Priority:      req.Priority,
		Status:        domain.TaskStatusPending,
	}

	if err := h.repository.CreateTask(task); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建任务成功", task)
}

func (h *Handler) GetAllTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.repository.GetAllTasks()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取任务列表成功", tasks)
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	task := r.Context().Value(TaskCtxKey).(*domain.Task)
	h.successResponse(w, r, "获取任务成功", task)
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	task := r.Context().Value(TaskCtxKey).(*domain.Task)

	var req struct {
		Title         *string `json:"title" validate:"omitempty,min=1"`
		Category      *string `json:"category"`
		Difficulty    *int32  `json:"difficulty" validate:"omitempty,min=1,max=5"`
		Duration      *int32  `json:"duration" validate:"omitempty,min=1"`
		BreakDuration *int32  `json:"breakDuration" validate:"omitempty,min=0"`
		Priority      *int32  `json:"priority" validate:"omitempty,min=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Category != nil {
		task.Category = *req.Category
	}
	if req.Difficulty != nil {
		task.Difficulty = *req.Difficulty
	}
	if req.Duration != nil {
		task.Duration = *req.Duration
	}
	if req.BreakDuration != nil {
		task.BreakDuration = *req.BreakDuration
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}

	if err := h.repository.UpdateTask(task); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新任务成功", task)
}

func (h *Handler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	task := r.Context().Value(TaskCtxKey).(*domain.Task)

	var req struct {
		Status string `json:"status" validate:"required,oneof=pending in_progress completed failed"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateTaskStatus(task.ID, domain.TaskStatus(req.Status)); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新任务状态成功", nil)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	task := r.Context().Value(TaskCtxKey).(*domain.Task)

	if err := h.repository.DeleteTask(task.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除任务成功", nil)
}
