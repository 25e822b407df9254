package domain

import "time"

type MoonCycleStatus string

const (
	MoonCycleActive    MoonCycleStatus = "active"
	MoonCycleCompleted MoonCycleStatus = "completed"
)

// MoonCycle: 一个目标周期（以月相周期为单位的 PDCA 循环），
// 进度以完成的任务数衡量。
type MoonCycle struct {
	ID                 int64           `json:"id"`
	CycleStart         string          `json:"cycleStart"` // YYYY-MM-DD
	CycleEnd           string          `json:"cycleEnd"`   // YYYY-MM-DD
	Goal               string          `json:"goal"`
	Review             string          `json:"review"`
	TargetTaskCount    int32           `json:"targetTaskCount"`
	CompletedTaskCount int32           `json:"completedTaskCount"`
	Status             MoonCycleStatus `json:"status"`
	SelfRating         int32           `json:"selfRating"` // 1-5，0 表示未评价
	GoodPoints         string          `json:"goodPoints"`
	ImprovementPoints  string          `json:"improvementPoints"`
	NextActions        string          `json:"nextActions"`
	ParentCycleID      *int64          `json:"parentCycleID"`
	CreatedAt          time.Time       `json:"createdAt"`
}
