package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("已处理请求", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // 这里如果用 slog 的话会很乱
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) taskCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		taskIDParam := chi.URLParam(r, "id")
		taskID, err := strconv.ParseInt(taskIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "任务ID无效")
			return
		}

		task, err := h.repository.GetTaskByID(taskID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "任务不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), TaskCtxKey, task)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) playlistCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		playlistIDParam := chi.URLParam(r, "id")
		playlistID, err := strconv.ParseInt(playlistIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "清单ID无效")
			return
		}

		playlist, err := h.repository.GetPlaylistByID(playlistID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "清单不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), PlaylistCtxKey, playlist)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) moonCycleCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cycleIDParam := chi.URLParam(r, "id")
		cycleID, err := strconv.ParseInt(cycleIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "周期ID无效")
			return
		}

		// 周期操作不多，直接全量查出来再找
		cycles, err := h.repository.GetAllMoonCycles()
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		for _, cycle := range cycles {
			if cycle.ID == cycleID {
				ctx := context.WithValue(r.Context(), MoonCycleCtxKey, cycle)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		h.errorResponse(w, r, "周期不存在")
	})
}
