package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/clock"
)

// Response: 所有接口统一的响应信封。业务上的失败通过 success=false 表达，
// HTTP 状态码只区分「处理完成」和「服务器内部错误」
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
		http.Error(w, "服务器内部错误", http.StatusInternalServerError)
	}
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, msg string) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: false,
		Message: msg,
		Data:    nil,
	})
}

// badRequest 把请求里的问题翻译成中文提示：字段校验错误取第一条的 zh 译文，
// 作息设置里的时刻格式错误用 clock.ConfigError 自带的字段名提示
func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.errorResponse(w, r, validationErrors[0].Translate(h.translator))
		return
	}

	var configErr *clock.ConfigError
	if errors.As(err, &configErr) {
		slog.Warn("作息设置中的时刻无法解析", "field", configErr.Field, "value", configErr.Value)
		h.errorResponse(w, r, configErr.Error())
		return
	}

	h.errorResponse(w, r, err.Error())
}

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("服务器内部错误", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, Response{
		Success: false,
		Message: "服务器内部错误",
		Data:    nil,
	})
}
