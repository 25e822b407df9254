package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/optimizer"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/timer"
	amqp "github.com/rabbitmq/amqp091-go"
)

// publishTaskEvent 把事件发到任务事件队列。回调在计时器持锁时触发，
// 网络 I/O 放到独立协程里做，不阻塞节拍
func (h *Handler) publishTaskEvent(event domain.TaskEvent) {
	if h.eventChannel == nil {
		slog.Info("任务事件（未接入消息队列）", "type", event.Type, "runID", event.RunID, "taskID", event.TaskID)
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		slog.Error("序列化任务事件失败", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.eventChannel.PublishWithContext(
		ctx,
		"",
		h.config.RabbitMQ.TaskEventQueue,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		slog.Error("发布任务事件失败", "type", event.Type, "error", err)
	}
}

func (h *Handler) StartTimer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlaylistID int64  `json:"playlistID" validate:"required"`
		Mode       string `json:"mode" validate:"omitempty,oneof=budget balanced genetic"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if _, err := h.repository.GetPlaylistByID(req.PlaylistID); err != nil {
		h.errorResponse(w, r, "清单不存在")
		return
	}

	tasks, err := h.repository.GetPlaylistTasks(req.PlaylistID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 指定了优化模式时先重排，否则按清单顺序倒计时
	if req.Mode != "" {
		lifestyle, err := h.repository.GetLifestyleSettings()
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		tasks, err = optimizer.Optimize(tasks, optimizer.Mode(req.Mode), lifestyle, nil, h.schedulerParameters())
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	runID := uuid.NewString()
	callbacks := timer.Callbacks{
		OnTaskComplete: func(task *domain.Task, taskIndex, taskTotal int) {
			event := domain.TaskEvent{
				Type:       domain.TaskEventCompleted,
				RunID:      runID,
				TaskID:     task.ID,
				Difficulty: task.Difficulty,
				TaskIndex:  taskIndex,
				TaskTotal:  taskTotal,
				OccurredAt: time.Now().UTC(),
			}
			go h.publishTaskEvent(event)
		},
		OnRunComplete: func() {
			event := domain.TaskEvent{
				Type:       domain.TaskEventRunCompleted,
				RunID:      runID,
				OccurredAt: time.Now().UTC(),
			}
			go h.publishTaskEvent(event)
			go h.clearRunID(runID)
		},
	}

	h.runMu.Lock()
	defer h.runMu.Unlock()

	if err := h.timer.Start(tasks, callbacks); err != nil {
		switch {
		case errors.Is(err, timer.ErrEmptyTaskList):
			h.errorResponse(w, r, "清单里没有任务")
		case errors.Is(err, timer.ErrAlreadyRunning):
			h.errorResponse(w, r, "已有进行中的倒计时")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	h.runID = runID

	h.successResponse(w, r, "开始倒计时", map[string]any{
		"runID": runID,
		"tasks": tasks,
	})
}

// clearRunID 在一轮自然结束后清掉标识。回调里不能直接拿 runMu 之外的
// 计时器锁，所以放在独立协程
func (h *Handler) clearRunID(runID string) {
	h.runMu.Lock()
	defer h.runMu.Unlock()
	if h.runID == runID {
		h.runID = ""
	}
}

func (h *Handler) PauseTimer(w http.ResponseWriter, r *http.Request) {
	if err := h.timer.Pause(); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}
	h.successResponse(w, r, "已暂停", nil)
}

func (h *Handler) ResumeTimer(w http.ResponseWriter, r *http.Request) {
	if err := h.timer.Resume(); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}
	h.successResponse(w, r, "已恢复", nil)
}

func (h *Handler) StopTimer(w http.ResponseWriter, r *http.Request) {
	h.runMu.Lock()
	defer h.runMu.Unlock()

	if err := h.timer.Stop(); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}
	h.runID = ""

	h.successResponse(w, r, "已停止", nil)
}

func (h *Handler) GetTimerStatus(w http.ResponseWriter, r *http.Request) {
	status := h.timer.Status()

	h.runMu.Lock()
	runID := h.runID
	h.runMu.Unlock()

	h.successResponse(w, r, "获取计时状态成功", map[string]any{
		"runID":  runID,
		"status": status,
	})
}
