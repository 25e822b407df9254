package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/optimizer"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/schedule"
)

// scheduleData: 优化/预览接口共同的响应载荷
type scheduleData struct {
	Tasks   []*domain.Task         `json:"tasks"`
	Entries []domain.ScheduleEntry `json:"entries"`
}

func (h *Handler) schedulerParameters() *optimizer.Parameters {
	return &optimizer.Parameters{
		PopulationSize: int32(h.config.Scheduler.PopulationSize),
		MaxGenerations: int32(h.config.Scheduler.MaxGenerations),
		MutationRate:   h.config.Scheduler.MutationRate,
		EliteCount:     int32(h.config.Scheduler.EliteCount),
		TournamentSize: int32(h.config.Scheduler.TournamentSize),
		DayStartHour:   h.config.Scheduler.DayStartHour,
	}
}

func scheduleCacheKey(playlistID int64, mode optimizer.Mode) string {
	return fmt.Sprintf("schedule_%d_%s", playlistID, mode)
}

// 缓存只是锦上添花，redis 不可用时照常现算
func (h *Handler) getCachedSchedule(r *http.Request, key string) (*scheduleData, bool) {
	if h.redisClient == nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.ConnectTimeout)*time.Second)
	defer cancel()

	cached, err := h.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	data := &scheduleData{}
	if err := json.Unmarshal(cached, data); err != nil {
		return nil, false
	}
	return data, true
}

func (h *Handler) setCachedSchedule(r *http.Request, key string, data *scheduleData) {
	if h.redisClient == nil {
		return
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.ConnectTimeout)*time.Second)
	defer cancel()

	expiration := time.Duration(h.config.Redis.CacheExpiration) * time.Second
	if err := h.redisClient.Set(ctx, key, payload, expiration).Err(); err != nil {
		slog.Warn("写入排程缓存失败", "key", key, "error", err)
	}
}

func (h *Handler) invalidateScheduleCache(r *http.Request, playlistID int64) {
	if h.redisClient == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.ConnectTimeout)*time.Second)
	defer cancel()

	keys := make([]string, 0, 3)
	for _, mode := range []optimizer.Mode{optimizer.ModeBudget, optimizer.ModeBalanced, optimizer.ModeGenetic} {
		keys = append(keys, scheduleCacheKey(playlistID, mode))
	}
	if err := h.redisClient.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("清除排程缓存失败", "playlistID", playlistID, "error", err)
	}
}

// optimizeParameters: 请求体里可选的遗传算法参数，覆盖配置里的默认值
type optimizeParameters struct {
	PopulationSize int32   `json:"populationSize" validate:"omitempty,min=2"`
	MaxGenerations int32   `json:"maxGenerations" validate:"omitempty,min=1"`
	MutationRate   float64 `json:"mutationRate" validate:"omitempty,gt=0,lte=1"`
	EliteCount     int32   `json:"eliteCount" validate:"omitempty,min=0"`
	TournamentSize int32   `json:"tournamentSize" validate:"omitempty,min=1"`
}

func (h *Handler) mergeParameters(override *optimizeParameters) *optimizer.Parameters {
	parameters := h.schedulerParameters()
	if override == nil {
		return parameters
	}
	if override.PopulationSize > 0 {
		parameters.PopulationSize = override.PopulationSize
	}
	if override.MaxGenerations > 0 {
		parameters.MaxGenerations = override.MaxGenerations
	}
	if override.MutationRate > 0 {
		parameters.MutationRate = override.MutationRate
	}
	if override.EliteCount > 0 {
		parameters.EliteCount = override.EliteCount
	}
	if override.TournamentSize > 0 {
		parameters.TournamentSize = override.TournamentSize
	}
	return parameters
}

func (h *Handler) OptimizeSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlaylistID int64               `json:"playlistID" validate:"required"`
		Mode       string              `json:"mode" validate:"required,oneof=budget balanced genetic"`
		Parameters *optimizeParameters `json:"parameters"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	mode := optimizer.Mode(req.Mode)

	// 遗传算法不便宜，同一清单同一模式的结果短期内直接复用；
	// 自定义参数的请求不走缓存，避免不同参数共享同一个键
	cacheKey := scheduleCacheKey(req.PlaylistID, mode)
	if req.Parameters == nil {
		if cached, ok := h.getCachedSchedule(r, cacheKey); ok {
			h.successResponse(w, r, "优化排程成功（缓存）", cached)
			return
		}
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
	lifestyle, err := h.repository.GetLifestyleSettings()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	ordered, err := optimizer.Optimize(tasks, mode, lifestyle, nil, h.mergeParameters(req.Parameters))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	renderer := schedule.NewRenderer(lifestyle, h.config.Scheduler.DayStartHour)
	entries, err := renderer.Render(ordered, time.Now())
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	data := &scheduleData{Tasks: ordered, Entries: entries}
	if req.Parameters == nil {
		h.setCachedSchedule(r, cacheKey, data)
	}

	h.successResponse(w, r, "优化排程成功", data)
}

// PreviewSchedule 按清单现有顺序渲染时间表，不做任何优化
func (h *Handler) PreviewSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlaylistID int64 `json:"playlistID" validate:"required"`
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
	lifestyle, err := h.repository.GetLifestyleSettings()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	renderer := schedule.NewRenderer(lifestyle, h.config.Scheduler.DayStartHour)
	entries, err := renderer.Render(tasks, time.Now())
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	h.successResponse(w, r, "生成时间表成功", &scheduleData{Tasks: tasks, Entries: entries})
}
