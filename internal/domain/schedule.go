package domain

import "time"

type ScheduleEntryKind string

const (
	ScheduleEntryTask ScheduleEntryKind = "task"
	ScheduleEntryMeal ScheduleEntryKind = "meal"
	ScheduleEntryBath ScheduleEntryKind = "bath"
)

// ScheduleEntry: 渲染后的一个时间块。固定日程（用餐/入浴）的条目由渲染器
// 自动插入，调用方只提供任务列表。
type ScheduleEntry struct {
	Kind     ScheduleEntryKind `json:"kind"`
	Label    string            `json:"label"`
	TaskID   *int64            `json:"taskID,omitempty"`
	StartsAt time.Time         `json:"startsAt"`
	EndsAt   time.Time         `json:"endsAt"`
	Start    string            `json:"start"` // HH:MM，供界面直接展示
	End      string            `json:"end"`
}
