package utils

import (
	"fmt"
	"math/rand"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
)

var taskTitles = []string{
	"背单词", "读论文", "写周报", "整理笔记", "练习算法题",
	"复习错题", "写博客", "学习日语", "健身", "读书",
}

var taskCategories = []string{"学习", "工作", "生活", "健康"}

// GenerateRandomTask 生成一个随机任务，只用于 seed 工具
func GenerateRandomTask() *domain.Task {
	return &domain.Task{
		Title:         fmt.Sprintf("%s #%d", taskTitles[rand.Intn(len(taskTitles))], rand.Intn(100)),
		Category:      taskCategories[rand.Intn(len(taskCategories))],
		Difficulty:    int32(1 + rand.Intn(5)),
		Duration:      int32((1 + rand.Intn(6)) * 15), // 15 至 90 分钟
		BreakDuration: int32(rand.Intn(4) * 5),
		Priority:      int32(rand.Intn(10)),
		Status:        domain.TaskStatusPending,
	}
}
