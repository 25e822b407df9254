package repository

import (
	"time"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
)

func (r *repository) CreateMoonCycle(cycle *domain.MoonCycle) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	cycle.CreatedAt = time.Now().UTC()
	if cycle.Status == "" {
		cycle.Status = domain.MoonCycleActive
	}

	query := r.rebind(`
		INSERT INTO moon_cycles (cycle_start, cycle_end, goal, review, target_task_count, completed_task_count,
			status, self_rating, good_points, improvement_points, next_actions, parent_cycle_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	params := []any{
		cycle.CycleStart,
		cycle.CycleEnd,
		cycle.Goal,
		cycle.Review,
		cycle.TargetTaskCount,
		cycle.CompletedTaskCount,
		cycle.Status,
		cycle.SelfRating,
		cycle.GoodPoints,
		cycle.ImprovementPoints,
		cycle.NextActions,
		cycle.ParentCycleID,
		cycle.CreatedAt,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&cycle.ID); err != nil {
		return err
	}

	return nil
}

const moonCycleColumns = `
	id, cycle_start, cycle_end, goal, review, target_task_count, completed_task_count,
	status, self_rating, good_points, improvement_points, next_actions, parent_cycle_id, created_at
`

func scanMoonCycle(scan func(dst ...any) error) (*domain.MoonCycle, error) {
	cycle := &domain.MoonCycle{}
	dst := []any{
		&cycle.ID,
		&cycle.CycleStart,
		&cycle.CycleEnd,
		&cycle.Goal,
		&cycle.Review,
		&cycle.TargetTaskCount,
		&cycle.CompletedTaskCount,
		&cycle.Status,
		&cycle.SelfRating,
		&cycle.GoodPoints,
		&cycle.ImprovementPoints,
		&cycle.NextActions,
		&cycle.ParentCycleID,
		&cycle.CreatedAt,
	}
	if err := scan(dst...); err != nil {
		return nil, err
	}
	return cycle, nil
}

// GetActiveMoonCycle 返回最近开启的进行中周期；同一时间理应只有一个
func (r *repository) GetActiveMoonCycle() (*domain.MoonCycle, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := r.rebind(`
		SELECT ` + moonCycleColumns + `
		FROM moon_cycles
		WHERE status = ?
		ORDER BY id DESC
		LIMIT 1
	`)

	return scanMoonCycle(r.dbpool.QueryRowContext(ctx, query, domain.MoonCycleActive).Scan)
}

func (r *repository) GetAllMoonCycles() ([]*domain.MoonCycle, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := `
		SELECT ` + moonCycleColumns + `
		FROM moon_cycles
		ORDER BY id DESC
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cycles := make([]*domain.MoonCycle, 0)
	for rows.Next() {
		cycle, err := scanMoonCycle(rows.Scan)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, cycle)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cycles, nil
}

// UpdateMoonCycleReview 写入复盘内容（回顾、自评与改进项）
func (r *repository) UpdateMoonCycleReview(cycle *domain.MoonCycle) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := r.rebind(`
		UPDATE moon_cycles
		SET review = ?, self_rating = ?, good_points = ?, improvement_points = ?, next_actions = ?
		WHERE id = ?
	`)

	params := []any{cycle.Review, cycle.SelfRating, cycle.GoodPoints, cycle.ImprovementPoints, cycle.NextActions, cycle.ID}
	if _, err := r.dbpool.ExecContext(ctx, query, params...); err != nil {
		return err
	}

	return nil
}

// IncrementMoonCycleProgress 把完成计数加一并返回更新后的周期，
// 调用方据此判断是否达成目标
func (r *repository) IncrementMoonCycleProgress(id int64) (*domain.MoonCycle, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := r.rebind(`
		UPDATE moon_cycles
		SET completed_task_count = completed_task_count + 1
		WHERE id = ?
		RETURNING ` + moonCycleColumns + `
	`)

	return scanMoonCycle(r.dbpool.QueryRowContext(ctx, query, id).Scan)
}

func (r *repository) CompleteMoonCycle(id int64) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := r.rebind(`
		UPDATE moon_cycles
		SET status = ?
		WHERE id = ?
	`)

	if _, err := r.dbpool.ExecContext(ctx, query, domain.MoonCycleCompleted, id); err != nil {
		return err
	}

	return nil
}
