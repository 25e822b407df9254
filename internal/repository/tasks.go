package repository

import (
	"time"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
)

func (r *repository) CreateTask(task *domain.Task) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	task.CreatedAt = time.Now().UTC()
	if task.Status == "" {
		task.Status = domain.TaskStatusPending
	}

	query := r.rebind(`
		INSERT INTO tasks (title, category, difficulty, duration, break_duration, priority, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	params := []any{task.Title, task.Category, task.Difficulty, task.Duration, task.BreakDuration, task.Priority, task.Status, task.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&task.ID); err != nil {
		return err
	}

	return nil
}

func (r *repository) GetAllTasks() ([]*domain.Task, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := `
		SELECT id, title, category, difficulty, duration, break_duration, priority, status, created_at, completed_at
		FROM tasks
		ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task := &domain.Task{}
		dst := []any{
			&task.ID,
			&task.Title,
			&task.Category,
			&task.Difficulty,
			&task.Duration,
			&task.BreakDuration,
			&task.Priority,
			&task.Status,
			&task.CreatedAt,
			&task.CompletedAt,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *repository) GetTaskByID(id int64) (*domain.Task, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := r.rebind(`
		SELECT id, title, category, difficulty, duration, break_duration, priority, status, created_at, completed_at
		FROM tasks
		WHERE id = ?
	`)

	task := &domain.Task{}
	dst := []any{
		&task.ID,
		&task.Title,
		&task.Category,
		&task.Difficulty,
		&task.Duration,
		&task.BreakDuration,
		&task.Priority,
		&task.Status,
		&task.CreatedAt,
		&task.CompletedAt,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *repository) UpdateTask(task *domain.Task) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := r.rebind(`
		UPDATE tasks
		SET title = ?, category = ?, difficulty = ?, duration = ?, break_duration = ?, priority = ?
		WHERE id = ?
	`)

	params := []any{task.Title, task.Category, task.Difficulty, task.Duration, task.BreakDuration, task.Priority, task.ID}
	if _, err := r.dbpool.ExecContext(ctx, query, params...); err != nil {
		return err
	}

	return nil
}

// UpdateTaskStatus 同步维护 completed_at：完成时写入当前时间，
// 状态改回其他值时清空
func (r *repository) UpdateTaskStatus(id int64, status domain.TaskStatus) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	var completedAt *time.Time
	if status == domain.TaskStatusCompleted {
		now := time.Now().UTC()
		completedAt = &now
	}

	query := r.rebind(`
		UPDATE tasks
		SET status = ?, completed_at = ?
		WHERE id = ?
	`)

	if _, err := r.dbpool.ExecContext(ctx, query, status, completedAt, id); err != nil {
		return err
	}

	return nil
}

func (r *repository) DeleteTask(id int64) error {
	ctx, cancel := r.txCtx()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, r.rebind(`DELETE FROM playlist_tasks WHERE task_id = ?`), id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, r.rebind(`DELETE FROM tasks WHERE id = ?`), id); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) GetCompletedTaskCount() (int64, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := r.rebind(`SELECT COUNT(*) FROM tasks WHERE status = ?`)

	var count int64
	if err := r.dbpool.QueryRowContext(ctx, query, domain.TaskStatusCompleted).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
