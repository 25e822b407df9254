package handler

import (
	"net/http"
	"time"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/moon"
)

func (h *Handler) GetMoonStatus(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	h.successResponse(w, r, "获取月相成功", map[string]any{
		"phase":            moon.Phase(now),
		"phaseName":        moon.PhaseName(now),
		"emoji":            moon.Emoji(now),
		"isNewMoonPeriod":  moon.IsNewMoonPeriod(now),
		"isFullMoonPeriod": moon.IsFullMoonPeriod(now),
		"nextNewMoon":      moon.NextNewMoon(now),
		"nextFullMoon":     moon.NextFullMoon(now),
	})
}
