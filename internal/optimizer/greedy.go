package optimizer

import (
	"sort"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
)

// priorityScore 计算单个任务的贪心得分：优先级和难度加分，过长的任务小幅减分
func priorityScore(task *domain.Task) float64 {
	score := float64(task.Priority)*10 + float64(task.Difficulty)*5
	if task.Duration > 60 {
		score -= float64(task.Duration-60) / 10
	}
	return score
}

// OptimizeByBudget 按得分从高到低扫描任务，装得下就收进结果，装不下就跳过
// 继续尝试得分更低的任务（更短的任务可能仍然放得进剩余预算）。
// 结果按选中顺序（即得分顺序）排列，总耗时绝不超过 availableMinutes。
func OptimizeByBudget(tasks []*domain.Task, availableMinutes int) []*domain.Task {
	selected := make([]*domain.Task, 0, len(tasks))
	if len(tasks) == 0 || availableMinutes <= 0 {
		return selected
	}

	// 用下标排序保证得分相同的任务维持输入顺序
	order := make([]int, len(tasks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return priorityScore(tasks[order[i]]) > priorityScore(tasks[order[j]])
	})

	total := 0
	for _, idx := range order {
		task := tasks[idx]
		span := int(task.Duration + task.BreakDuration)
		if total+span > availableMinutes {
			continue
		}
		selected = append(selected, task)
		total += span
	}

	return selected
}

// BalancedSchedule 把任务按难度分成难/中/易三档（各档内按优先级稳定降序），
// 再按 难→易→中 的节奏轮流取出，让难度交替变化而不是单调递减。
func BalancedSchedule(tasks []*domain.Task) []*domain.Task {
	var easy, medium, hard []*domain.Task
	for _, task := range tasks {
		switch {
		case task.Difficulty <= 2:
			easy = append(easy, task)
		case task.Difficulty == 3:
			medium = append(medium, task)
		default:
			hard = append(hard, task)
		}
	}

	byPriority := func(bucket []*domain.Task) {
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Priority > bucket[j].Priority
		})
	}
	byPriority(easy)
	byPriority(medium)
	byPriority(hard)

	rounds := max(len(hard), max(len(easy), len(medium)))
	balanced := make([]*domain.Task, 0, len(tasks))
	for i := 0; i < rounds; i++ {
		if i < len(hard) {
			balanced = append(balanced, hard[i])
		}
		if i < len(easy) {
			balanced = append(balanced, easy[i])
		}
		if i < len(medium) {
			balanced = append(balanced, medium[i])
		}
	}

	return balanced
}
