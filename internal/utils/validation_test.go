package utils

import (
	"testing"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
)

func tasksWithIDs(ids ...int64) []*domain.Task {
	tasks := make([]*domain.Task, 0, len(ids))
	for _, id := range ids {
		tasks = append(tasks, &domain.Task{ID: id})
	}
	return tasks
}

func TestEnsurePermutation(t *testing.T) {
	cases := []struct {
		name    string
		input   []*domain.Task
		output  []*domain.Task
		wantErr bool
	}{
		{"相同顺序", tasksWithIDs(1, 2, 3), tasksWithIDs(1, 2, 3), false},
		{"重排", tasksWithIDs(1, 2, 3), tasksWithIDs(3, 1, 2), false},
		{"空列表", tasksWithIDs(), tasksWithIDs(), false},
		{"丢失任务", tasksWithIDs(1, 2, 3), tasksWithIDs(1, 2), true},
		{"复制任务", tasksWithIDs(1, 2, 3), tasksWithIDs(1, 2, 2), true},
		{"替换任务", tasksWithIDs(1, 2, 3), tasksWithIDs(1, 2, 4), true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := EnsurePermutation(c.input, c.output)
			if (err != nil) != c.wantErr {
				t.Errorf("EnsurePermutation = %v, wantErr = %v", err, c.wantErr)
			}
		})
	}
}
