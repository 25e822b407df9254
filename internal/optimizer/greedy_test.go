package optimizer

import (
	"testing"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
)

func TestOptimizeByBudgetNeverExceedsBudget(t *testing.T) {
	tasks := []*domain.Task{
		{ID: 1, Duration: 60, BreakDuration: 10, Difficulty: 5, Priority: 3},
		{ID: 2, Duration: 120, BreakDuration: 15, Difficulty: 4, Priority: 5},
		{ID: 3, Duration: 25, BreakDuration: 5, Difficulty: 2, Priority: 1},
		{ID: 4, Duration: 90, BreakDuration: 10, Difficulty: 3, Priority: 4},
		{ID: 5, Duration: 15, BreakDuration: 5, Difficulty: 1, Priority: 2},
	}

	for _, budget := range []int{0, 30, 60, 120, 180, 300, 1000} {
		selected := OptimizeByBudget(tasks, budget)
		total := 0
		for _, task := range selected {
			total += int(task.Duration + task.BreakDuration)
		}
		if total > budget {
			t.Errorf("budget=%d: 选中任务总耗时 %d 超出预算", budget, total)
		}
	}
}

func TestOptimizeByBudgetSkipsAndKeepsScanning(t *testing.T) {
	// 得分最高的任务装不下时应跳过它，继续收更短的低分任务
	tasks := []*domain.Task{
		{ID: 1, Duration: 200, BreakDuration: 0, Difficulty: 5, Priority: 10},
		{ID: 2, Duration: 30, BreakDuration: 0, Difficulty: 1, Priority: 1},
		{ID: 3, Duration: 40, BreakDuration: 0, Difficulty: 1, Priority: 1},
	}

	selected := OptimizeByBudget(tasks, 80)
	if len(selected) != 2 {
		t.Fatalf("选中 %d 个任务, want 2", len(selected))
	}
	if selected[0].ID != 2 || selected[1].ID != 3 {
		t.Errorf("选中顺序 = [%d, %d], want [2, 3]", selected[0].ID, selected[1].ID)
	}
}

func TestOptimizeByBudgetOrdersByScore(t *testing.T) {
	tasks := []*domain.Task{
		{ID: 1, Duration: 25, Difficulty: 1, Priority: 1},
		{ID: 2, Duration: 25, Difficulty: 5, Priority: 9},
		{ID: 3, Duration: 25, Difficulty: 3, Priority: 5},
	}

	selected := OptimizeByBudget(tasks, 1000)
	want := []int64{2, 3, 1}
	for i, task := range selected {
		if task.ID != want[i] {
			t.Fatalf("第 %d 个任务 = %d, want %v", i, task.ID, want)
		}
	}
}

func TestOptimizeByBudgetEmptyAndNonPositiveBudget(t *testing.T) {
	if got := OptimizeByBudget(nil, 100); len(got) != 0 {
		t.Errorf("空输入应返回空结果, got %d 个", len(got))
	}
	tasks := []*domain.Task{{ID: 1, Duration: 25}}
	if got := OptimizeByBudget(tasks, -10); len(got) != 0 {
		t.Errorf("非正预算应返回空结果, got %d 个", len(got))
	}
}

func TestBalancedScheduleInterleaving(t *testing.T) {
	// 3 难 2 易 1 中 -> 难,易,中,难,易,难
	tasks := []*domain.Task{
		{ID: 1, Difficulty: 5, Priority: 3},
		{ID: 2, Difficulty: 4, Priority: 2},
		{ID: 3, Difficulty: 5, Priority: 1},
		{ID: 4, Difficulty: 1, Priority: 2},
		{ID: 5, Difficulty: 2, Priority: 1},
		{ID: 6, Difficulty: 3, Priority: 1},
	}

	balanced := BalancedSchedule(tasks)
	if len(balanced) != len(tasks) {
		t.Fatalf("结果长度 %d, want %d", len(balanced), len(tasks))
	}

	// 各档内按优先级降序：难 = [1, 2, 3]，易 = [4, 5]，中 = [6]
	want := []int64{1, 4, 6, 2, 5, 3}
	for i, task := range balanced {
		if task.ID != want[i] {
			t.Fatalf("交替顺序 = %v 位置 %d 上是任务 %d", want, i, task.ID)
		}
	}
}

func TestBalancedSchedulePreservesTaskSet(t *testing.T) {
	tasks := []*domain.Task{
		{ID: 1, Difficulty: 1},
		{ID: 2, Difficulty: 3},
		{ID: 3, Difficulty: 5},
		{ID: 4, Difficulty: 2},
	}

	balanced := BalancedSchedule(tasks)
	seen := make(map[int64]bool)
	for _, task := range balanced {
		if seen[task.ID] {
			t.Fatalf("任务 %d 出现了两次", task.ID)
		}
		seen[task.ID] = true
	}
	if len(seen) != len(tasks) {
		t.Fatalf("结果包含 %d 个任务, want %d", len(seen), len(tasks))
	}
}
