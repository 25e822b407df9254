package seed

import (
	"log/slog"
	"time"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/moon"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/repository"
)

// 一套可以直接上手体验的数据：默认作息、一天的任务、一个清单和一个进行中的周期

var sampleTasks = []*domain.Task{
	{Title: "晨间写作", Category: "学习", Difficulty: 4, Duration: 50, BreakDuration: 10, Priority: 8},
	{Title: "回复邮件", Category: "工作", Difficulty: 1, Duration: 25, BreakDuration: 5, Priority: 3},
	{Title: "读《月の満ち欠け》", Category: "生活", Difficulty: 2, Duration: 30, BreakDuration: 5, Priority: 4},
	{Title: "准备季度汇报", Category: "工作", Difficulty: 5, Duration: 90, BreakDuration: 15, Priority: 9},
	{Title: "拉伸运动", Category: "健康", Difficulty: 1, Duration: 15, BreakDuration: 5, Priority: 5},
	{Title: "复习日语语法", Category: "学习", Difficulty: 3, Duration: 45, BreakDuration: 10, Priority: 6},
}

func SeedSampleData(repo repository.Repository) {
	// 作息使用默认值
	if err := repo.SaveLifestyleSettings(domain.DefaultLifestyleSettings()); err != nil {
		slog.Error("写入默认作息设置失败", "error", err)
		return
	}

	// 插入示例任务
	taskIDs := make([]int64, 0, len(sampleTasks))
	for _, task := range sampleTasks {
		if err := repo.CreateTask(task); err != nil {
			slog.Error("插入示例任务失败", "title", task.Title, "error", err)
			continue
		}
		taskIDs = append(taskIDs, task.ID)
	}

	// 建一个包含全部示例任务的清单
	playlist := &domain.Playlist{
		Name:        "今日清单",
		Description: "示例数据：一天的专注安排",
	}
	if err := repo.CreatePlaylist(playlist); err != nil {
		slog.Error("插入示例清单失败", "error", err)
		return
	}
	for position, taskID := range taskIDs {
		if err := repo.AddTaskToPlaylist(playlist.ID, taskID, int32(position)); err != nil {
			slog.Error("添加任务到清单失败", "taskID", taskID, "error", err)
		}
	}

	// 开一个到下个新月为止的周期
	now := time.Now()
	cycle := &domain.MoonCycle{
		CycleStart:      now.Format("2006-01-02"),
		CycleEnd:        moon.NextNewMoon(now).Format("2006-01-02"),
		Goal:            "本月完成 20 个专注任务",
		TargetTaskCount: 20,
		Status:          domain.MoonCycleActive,
	}
	if err := repo.CreateMoonCycle(cycle); err != nil {
		slog.Error("插入示例周期失败", "error", err)
		return
	}

	slog.Info("示例数据插入完成", "tasks", len(taskIDs), "playlistID", playlist.ID, "cycleID", cycle.ID)
}
