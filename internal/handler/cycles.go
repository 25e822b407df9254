package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/moon"
)

func (h *Handler) CreateMoonCycle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Goal            string `json:"goal" validate:"required"`
		TargetTaskCount int32  `json:"targetTaskCount" validate:"required,min=1"`
		ParentCycleID   *int64 `json:"parentCycleID"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 同一时间只允许一个进行中的周期
	if _, err := h.repository.GetActiveMoonCycle(); err == nil {
		h.errorResponse(w, r, "已存在进行中的周期，请先完成它")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		h.internalServerError(w, r, err)
		return
	}

	// 周期跟随月相：从今天开始，到下一个新月结束
	now := time.Now()
	cycle := &domain.MoonCycle{
		CycleStart:      now.Format("2006-01-02"),
		CycleEnd:        moon.NextNewMoon(now).Format("2006-01-02"),
		Goal:            req.Goal,
		TargetTaskCount: req.TargetTaskCount,
		Status:          domain.MoonCycleActive,
		ParentCycleID:   req.ParentCycleID,
	}

	if err := h.repository.CreateMoonCycle(cycle); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "开启新周期成功", cycle)
}

func (h *Handler) GetAllMoonCycles(w http.ResponseWriter, r *http.Request) {
	cycles, err := h.repository.GetAllMoonCycles()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取周期列表成功", cycles)
}

func (h *Handler) GetActiveMoonCycle(w http.ResponseWriter, r *http.Request) {
	cycle, err := h.repository.GetActiveMoonCycle()
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.successResponse(w, r, "当前没有进行中的周期", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取当前周期成功", cycle)
}

func (h *Handler) UpdateMoonCycleReview(w http.ResponseWriter, r *http.Request) {
	cycle := r.Context().Value(MoonCycleCtxKey).(*domain.MoonCycle)

	var req struct {
		Review            string `json:"review"`
		SelfRating        int32  `json:"selfRating" validate:"omitempty,min=1,max=5"`
		GoodPoints        string `json:"goodPoints"`
		ImprovementPoints string `json:"improvementPoints"`
		NextActions       string `json:"nextActions"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	cycle.Review = req.Review
	cycle.SelfRating = req.SelfRating
	cycle.GoodPoints = req.GoodPoints
	cycle.ImprovementPoints = req.ImprovementPoints
	cycle.NextActions = req.NextActions

	if err := h.repository.UpdateMoonCycleReview(cycle); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "保存复盘成功", cycle)
}

func (h *Handler) CompleteMoonCycle(w http.ResponseWriter, r *http.Request) {
	cycle := r.Context().Value(MoonCycleCtxKey).(*domain.MoonCycle)

	if cycle.Status == domain.MoonCycleCompleted {
		h.errorResponse(w, r, "周期已经完成")
		return
	}

	if err := h.repository.CompleteMoonCycle(cycle.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "完成周期成功", nil)
}
