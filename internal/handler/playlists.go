package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
)

func (h *Handler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	playlist := &domain.Playlist{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := h.repository.CreatePlaylist(playlist); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建清单成功", playlist)
}

func (h *Handler) GetAllPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.repository.GetAllPlaylists()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取清单列表成功", playlists)
}

func (h *Handler) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	playlist := r.Context().Value(PlaylistCtxKey).(*domain.Playlist)
	h.successResponse(w, r, "获取清单成功", playlist)
}

func (h *Handler) DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	playlist := r.Context().Value(PlaylistCtxKey).(*domain.Playlist)

	if err := h.repository.DeletePlaylist(playlist.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除清单成功", nil)
}

func (h *Handler) GetPlaylistTasks(w http.ResponseWriter, r *http.Request) {
	playlist := r.Context().Value(PlaylistCtxKey).(*domain.Playlist)

	tasks, err := h.repository.GetPlaylistTasks(playlist.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取清单任务成功", tasks)
}

func (h *Handler) AddTaskToPlaylist(w http.ResponseWriter, r *http.Request) {
	playlist := r.Context().Value(PlaylistCtxKey).(*domain.Playlist)

	var req struct {
		TaskID   int64 `json:"taskID" validate:"required"`
		Position int32 `json:"position" validate:"min=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 确认任务存在，避免清单里挂上悬空的任务ID
	if _, err := h.repository.GetTaskByID(req.TaskID); err != nil {
		h.errorResponse(w, r, "任务不存在")
		return
	}

	if err := h.repository.AddTaskToPlaylist(playlist.ID, req.TaskID, req.Position); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 清单内容变化后，缓存的优化结果随之失效
	h.invalidateScheduleCache(r, playlist.ID)

	h.successResponse(w, r, "添加任务到清单成功", nil)
}

func (h *Handler) RemoveTaskFromPlaylist(w http.ResponseWriter, r *http.Request) {
	playlist := r.Context().Value(PlaylistCtxKey).(*domain.Playlist)

	taskIDParam := chi.URLParam(r, "taskID")
	taskID, err := strconv.ParseInt(taskIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "任务ID无效")
		return
	}

	if err := h.repository.RemoveTaskFromPlaylist(playlist.ID, taskID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.invalidateScheduleCache(r, playlist.ID)

	h.successResponse(w, r, "从清单移除任务成功", nil)
}
