package domain

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

type Task struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Category      string     `json:"category"`
	Difficulty    int32      `json:"difficulty"`    // 1-5
	Duration      int32      `json:"duration"`      // 专注时长（分钟）
	BreakDuration int32      `json:"breakDuration"` // 任务后的休息时长（分钟）
	Priority      int32      `json:"priority"`      // 数字越大越紧急
	Status        TaskStatus `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	CompletedAt   *time.Time `json:"completedAt"`
}
