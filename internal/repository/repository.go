package repository

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/config"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
)

// Repository: 持久层的统一入口。local 后端存在单机 SQLite 文件里，
// cloud 后端存在 PostgreSQL 里，两者行为一致。
type Repository interface {
	Init() error

	CreateTask(task *domain.Task) error
	GetAllTasks() ([]*domain.Task, error)
	GetTaskByID(id int64) (*domain.Task, error)
	UpdateTask(task *domain.Task) error
	UpdateTaskStatus(id int64, status domain.TaskStatus) error
	DeleteTask(id int64) error
	GetCompletedTaskCount() (int64, error)

	CreatePlaylist(playlist *domain.Playlist) error
	GetAllPlaylists() ([]*domain.Playlist, error)
	GetPlaylistByID(id int64) (*domain.Playlist, error)
	DeletePlaylist(id int64) error
	AddTaskToPlaylist(playlistID, taskID int64, position int32) error
	RemoveTaskFromPlaylist(playlistID, taskID int64) error
	GetPlaylistTasks(playlistID int64) ([]*domain.Task, error)

	GetLifestyleSettings() (*domain.LifestyleSettings, error)
	SaveLifestyleSettings(settings *domain.LifestyleSettings) error

	CreateMoonCycle(cycle *domain.MoonCycle) error
	GetActiveMoonCycle() (*domain.MoonCycle, error)
	GetAllMoonCycles() ([]*domain.MoonCycle, error)
	UpdateMoonCycleReview(cycle *domain.MoonCycle) error
	IncrementMoonCycleProgress(id int64) (*domain.MoonCycle, error)
	CompleteMoonCycle(id int64) error
}

type repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) Repository {
	return &repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

// rebind 把 "?" 占位符改写成 PostgreSQL 的 "$n" 形式；SQLite 原样返回
func (r *repository) rebind(query string) string {
	if r.cfg.Repository.Backend != config.BackendCloud {
		return query
	}

	var sb strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
		} else {
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}

func (r *repository) queryCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
}

func (r *repository) txCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
}

// Init 建表并确保单行的作息设置存在。两种后端都用 IF NOT EXISTS，
// 重复启动是幂等的。
func (r *repository) Init() error {
	ctx, cancel := r.txCtx()
	defer cancel()

	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if r.cfg.Repository.Backend == config.BackendCloud {
		idColumn = "BIGINT PRIMARY KEY GENERATED ALWAYS AS IDENTITY"
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id ` + idColumn + `,
			title TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			difficulty INTEGER NOT NULL DEFAULT 3,
			duration INTEGER NOT NULL,
			break_duration INTEGER NOT NULL DEFAULT 5,
			priority INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP NOT NULL,
			completed_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS playlists (
			id ` + idColumn + `,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS playlist_tasks (
			playlist_id BIGINT NOT NULL,
			task_id BIGINT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (playlist_id, task_id)
		)`,
		`CREATE TABLE IF NOT EXISTS lifestyle_settings (
			id BIGINT PRIMARY KEY,
			wake_time TEXT NOT NULL,
			sleep_time TEXT NOT NULL,
			min_sleep_hours INTEGER NOT NULL,
			bath_time TEXT NOT NULL,
			bath_duration INTEGER NOT NULL,
			breakfast_time TEXT NOT NULL,
			lunch_time TEXT NOT NULL,
			dinner_time TEXT NOT NULL,
			meal_duration INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS moon_cycles (
			id ` + idColumn + `,
			cycle_start TEXT NOT NULL,
			cycle_end TEXT NOT NULL,
			goal TEXT NOT NULL DEFAULT '',
			review TEXT NOT NULL DEFAULT '',
			target_task_count INTEGER NOT NULL DEFAULT 0,
			completed_task_count INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'active',
			self_rating INTEGER NOT NULL DEFAULT 0,
			good_points TEXT NOT NULL DEFAULT '',
			improvement_points TEXT NOT NULL DEFAULT '',
			next_actions TEXT NOT NULL DEFAULT '',
			parent_cycle_id BIGINT,
			created_at TIMESTAMP NOT NULL
		)`,
	}

	for _, statement := range statements {
		if _, err := r.dbpool.ExecContext(ctx, statement); err != nil {
			return err
		}
	}

	// 作息设置是单行表，不存在时写入默认值
	var count int
	if err := r.dbpool.QueryRowContext(ctx, `SELECT COUNT(*) FROM lifestyle_settings`).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		defaults := domain.DefaultLifestyleSettings()
		defaults.ID = 1
		if err := r.SaveLifestyleSettings(defaults); err != nil {
			return err
		}
	}

	return nil
}
