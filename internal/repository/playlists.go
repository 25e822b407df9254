package repository

import (
	"time"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
)

func (r *repository) CreatePlaylist(playlist *domain.Playlist) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	playlist.CreatedAt = time.Now().UTC()

	query := r.rebind(`
		INSERT INTO playlists (name, description, created_at)
		VALUES (?, ?, ?)
		RETURNING id
	`)

	if err := r.dbpool.QueryRowContext(ctx, query, playlist.Name, playlist.Description, playlist.CreatedAt).Scan(&playlist.ID); err != nil {
		return err
	}

	return nil
}

func (r *repository) GetAllPlaylists() ([]*domain.Playlist, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := `
		SELECT id, name, description, created_at
		FROM playlists
		ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	playlists := make([]*domain.Playlist, 0)
	for rows.Next() {
		playlist := &domain.Playlist{}
		if err := rows.Scan(&playlist.ID, &playlist.Name, &playlist.Description, &playlist.CreatedAt); err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return playlists, nil
}

func (r *repository) GetPlaylistByID(id int64) (*domain.Playlist, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := r.rebind(`
		SELECT id, name, description, created_at
		FROM playlists
		WHERE id = ?
	`)

	playlist := &domain.Playlist{}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&playlist.ID, &playlist.Name, &playlist.Description, &playlist.CreatedAt); err != nil {
		return nil, err
	}

	return playlist, nil
}

func (r *repository) DeletePlaylist(id int64) error {
	ctx, cancel := r.txCtx()
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, r.rebind(`DELETE FROM playlist_tasks WHERE playlist_id = ?`), id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, r.rebind(`DELETE FROM playlists WHERE id = ?`), id); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) AddTaskToPlaylist(playlistID, taskID int64, position int32) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := r.rebind(`
		INSERT INTO playlist_tasks (playlist_id, task_id, position)
		VALUES (?, ?, ?)
	`)

	if _, err := r.dbpool.ExecContext(ctx, query, playlistID, taskID, position); err != nil {
		return err
	}

	return nil
}

func (r *repository) RemoveTaskFromPlaylist(playlistID, taskID int64) error {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := r.rebind(`DELETE FROM playlist_tasks WHERE playlist_id = ? AND task_id = ?`)

	if _, err := r.dbpool.ExecContext(ctx, query, playlistID, taskID); err != nil {
		return err
	}

	return nil
}

// GetPlaylistTasks 按清单内的 position 升序返回任务
func (r *repository) GetPlaylistTasks(playlistID int64) ([]*domain.Task, error) {
	ctx, cancel := r.queryCtx()
	defer cancel()

	query := r.rebind(`
		SELECT t.id, t.title, t.category, t.difficulty, t.duration, t.break_duration, t.priority, t.status, t.created_at, t.completed_at
		FROM playlist_tasks pt
		JOIN tasks t ON t.id = pt.task_id
		WHERE pt.playlist_id = ?
		ORDER BY pt.position, t.id
	`)

	rows, err := r.dbpool.QueryContext(ctx, query, playlistID)
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
