package optimizer

import (
	"fmt"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/clock"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/utils"
)

type Mode string

const (
	ModeBudget   Mode = "budget"   // 贪心装箱：按得分收进时间预算内的任务
	ModeBalanced Mode = "balanced" // 难度交替：难/易/中轮流排列
	ModeGenetic  Mode = "genetic"  // 遗传算法：搜索全部任务的最优顺序
)

// Optimize 是优化子系统的统一入口。纯函数，不做任何 I/O。
//
// availableMinutes 只在 budget 模式下生效，传 nil 时按作息设置计算；
// parameters 只在 genetic 模式下生效，传 nil 时使用默认参数。
// 空任务列表直接返回空结果。
func Optimize(tasks []*domain.Task, mode Mode, lifestyle *domain.LifestyleSettings, availableMinutes *int, parameters *Parameters) ([]*domain.Task, error) {
	if len(tasks) == 0 {
		return []*domain.Task{}, nil
	}

	switch mode {
	case ModeBudget:
		budget := 0
		if availableMinutes != nil {
			budget = *availableMinutes
		} else {
			var err error
			budget, err = clock.AvailableMinutes(lifestyle, clock.DefaultDayStartHour)
			if err != nil {
				return nil, err
			}
		}
		return OptimizeByBudget(tasks, budget), nil

	case ModeBalanced:
		return BalancedSchedule(tasks), nil

	case ModeGenetic:
		if parameters == nil {
			parameters = DefaultParameters()
		}
		ordered, err := NewGeneticOptimizer(parameters, lifestyle).Optimize(tasks)
		if err != nil {
			return nil, err
		}
		// 遗传算法的输出必须是输入的一个排列，任何任务都不允许丢失或重复
		if err := utils.EnsurePermutation(tasks, ordered); err != nil {
			return nil, err
		}
		return ordered, nil

	default:
		return nil, fmt.Errorf("不支持的优化模式: %s", mode)
	}
}
