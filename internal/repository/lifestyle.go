package repository

import (
	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
)

// 作息设置是单行表，主键固定为 1

func (r *repository) GetLifestyleSettings() (*domain.LifestyleSettings, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := `
		SELECT id, wake_time, sleep_time, min_sleep_hours, bath_time, bath_duration,
			breakfast_time, lunch_time, dinner_time, meal_duration
		FROM lifestyle_settings
		WHERE id = 1
	`

	settings := &domain.LifestyleSettings{}
	dst := []any{
		&settings.ID,
		&settings.WakeTime,
		&settings.SleepTime,
		&settings.MinSleepHours,
		&settings.BathTime,
		&settings.BathDuration,
		&settings.BreakfastTime,
		&settings.LunchTime,
		&settings.DinnerTime,
		&settings.MealDuration,
	}
	if err := r.dbpool.QueryRowContext(ctx, query).Scan(dst...); err != nil {
		return nil, err
	}

	return settings, nil
}

func (r *repository) SaveLifestyleSettings(settings *domain.LifestyleSettings) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	settings.ID = 1

	query := r.rebind(`
		INSERT INTO lifestyle_settings (id, wake_time, sleep_time, min_sleep_hours, bath_time, bath_duration,
			breakfast_time, lunch_time, dinner_time, meal_duration)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			wake_time = EXCLUDED.wake_time,
			sleep_time = EXCLUDED.sleep_time,
			min_sleep_hours = EXCLUDED.min_sleep_hours,
			bath_time = EXCLUDED.bath_time,
			bath_duration = EXCLUDED.bath_duration,
			breakfast_time = EXCLUDED.breakfast_time,
			lunch_time = EXCLUDED.lunch_time,
			dinner_time = EXCLUDED.dinner_time,
			meal_duration = EXCLUDED.meal_duration
	`)

	params := []any{
		settings.WakeTime,
		settings.SleepTime,
		settings.MinSleepHours,
		settings.BathTime,
		settings.BathDuration,
		settings.BreakfastTime,
		settings.LunchTime,
		settings.DinnerTime,
		settings.MealDuration,
	}
	if _, err := r.dbpool.ExecContext(ctx, query, params...); err != nil {
		return err
	}

	return nil
}
