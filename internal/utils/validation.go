package utils

import (
	"fmt"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
)

// EnsurePermutation 校验优化结果恰好是输入任务的一个重排：
// 任何任务都不允许被优化器丢弃或复制。
func EnsurePermutation(input []*domain.Task, output []*domain.Task) error {
	if len(input) != len(output) {
		return fmt.Errorf("优化结果的任务数量不一致: 期望 %d 个, 实际 %d 个", len(input), len(output))
	}

	counts := make(map[int64]int, len(input))
	for _, task := range input {
		counts[task.ID]++
	}
	for _, task := range output {
		counts[task.ID]--
		if counts[task.ID] < 0 {
			return fmt.Errorf("优化结果中任务 %d 出现了多余的副本", task.ID)
		}
	}
	for id, count := range counts {
		if count > 0 {
			return fmt.Errorf("优化结果中丢失了任务 %d", id)
		}
	}

	return nil
}
