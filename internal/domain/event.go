package domain

import "time"

type TaskEventType string

const (
	TaskEventCompleted    TaskEventType = "task_completed"
	TaskEventRunCompleted TaskEventType = "run_completed"
)

// TaskEvent: 倒计时控制器完成一个任务或整个序列时发往消息队列的事件，
// 由 worker 消费并完成周期进度等外围状态更新。
type TaskEvent struct {
	Type       TaskEventType `json:"type"`
	RunID      string        `json:"runID"`
	TaskID     int64         `json:"taskID,omitempty"`
	Difficulty int32         `json:"difficulty,omitempty"`
	TaskIndex  int           `json:"taskIndex"`
	TaskTotal  int           `json:"taskTotal"`
	OccurredAt time.Time     `json:"occurredAt"`
}
