package handler

import (
	"net/http"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/clock"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
)

func (h *Handler) GetLifestyleSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.repository.GetLifestyleSettings()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取作息设置成功", settings)
}

func (h *Handler) UpdateLifestyleSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WakeTime      string `json:"wakeTime" validate:"required,datetime=15:04"`
		SleepTime     string `json:"sleepTime" validate:"required,datetime=15:04"`
		MinSleepHours int32  `json:"minSleepHours" validate:"required,min=1,max=16"`
		BathTime      string `json:"bathTime" validate:"required,datetime=15:04"`
		BathDuration  int32  `json:"bathDuration" validate:"min=0,max=180"`
		BreakfastTime string `json:"breakfastTime" validate:"required,datetime=15:04"`
		LunchTime     string `json:"lunchTime" validate:"required,datetime=15:04"`
		DinnerTime    string `json:"dinnerTime" validate:"required,datetime=15:04"`
		MealDuration  int32  `json:"mealDuration" validate:"min=0,max=180"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	settings := &domain.LifestyleSettings{
		WakeTime:      req.WakeTime,
		SleepTime:     req.SleepTime,
		MinSleepHours: req.MinSleepHours,
		BathTime:      req.BathTime,
		BathDuration:  req.BathDuration,
		BreakfastTime: req.BreakfastTime,
		LunchTime:     req.LunchTime,
		DinnerTime:    req.DinnerTime,
		MealDuration:  req.MealDuration,
	}

	// 固定日程可能占满甚至超出清醒时间，这不算错误，但提醒一下调用方
	available, err := clock.AvailableMinutes(settings, h.config.Scheduler.DayStartHour)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.SaveLifestyleSettings(settings); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	message := "更新作息设置成功"
	if available <= 0 {
		message = "更新作息设置成功，但固定日程已占满全部清醒时间"
	}
	h.successResponse(w, r, message, settings)
}
