package schedule

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/clock"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
)

func rendererLifestyle() *domain.LifestyleSettings {
	return &domain.LifestyleSettings{
		WakeTime:      "07:00",
		SleepTime:     "23:00",
		BathTime:      "21:00",
		BathDuration:  30,
		BreakfastTime: "07:00", // 与起床重合，不插入条目
		LunchTime:     "12:00",
		DinnerTime:    "19:00",
		MealDuration:  30,
	}
}

// 开始时刻取在日界（04:00），此时游标落在起床时刻
var renderDay = time.Date(2026, 3, 1, 4, 0, 0, 0, time.UTC)

func assertEntry(t *testing.T, entry domain.ScheduleEntry, kind domain.ScheduleEntryKind, start, end string) {
	t.Helper()
	if entry.Kind != kind || entry.Start != start || entry.End != end {
		t.Fatalf("条目 = {%s %s-%s}, want {%s %s-%s}", entry.Kind, entry.Start, entry.End, kind, start, end)
	}
}

func TestRenderObligationAtTaskBoundary(t *testing.T) {
	// 300 分钟的任务恰好在午餐开始时结束：任务完整播出后紧跟午餐，
	// 合计占用 330 分钟
	r := NewRenderer(rendererLifestyle(), clock.DefaultDayStartHour)
	tasks := []*domain.Task{{ID: 1, Title: "写论文", Duration: 300}}

	entries, err := r.Render(tasks, renderDay)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("条目数 = %d, want 2", len(entries))
	}
	assertEntry(t, entries[0], domain.ScheduleEntryTask, "07:00", "12:00")
	assertEntry(t, entries[1], domain.ScheduleEntryMeal, "12:00", "12:30")
	if entries[1].Label != "午餐" {
		t.Errorf("Label = %q, want 午餐", entries[1].Label)
	}

	wantStart := time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)
	if !entries[0].StartsAt.Equal(wantStart) {
		t.Errorf("StartsAt = %v, want %v", entries[0].StartsAt, wantStart)
	}
}

func TestRenderSplitsTaskAroundObligation(t *testing.T) {
	lifestyle := rendererLifestyle()
	lifestyle.BreakfastTime = "07:30"
	r := NewRenderer(lifestyle, clock.DefaultDayStartHour)
	tasks := []*domain.Task{{ID: 1, Title: "背单词", Duration: 120}}

	entries, err := r.Render(tasks, renderDay)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("条目数 = %d, want 3", len(entries))
	}
	assertEntry(t, entries[0], domain.ScheduleEntryTask, "07:00", "07:30")
	assertEntry(t, entries[1], domain.ScheduleEntryMeal, "07:30", "08:00")
	assertEntry(t, entries[2], domain.ScheduleEntryTask, "08:00", "09:30")

	// 切开的两段指向同一个任务
	if entries[0].TaskID == nil || entries[2].TaskID == nil || *entries[0].TaskID != 1 || *entries[2].TaskID != 1 {
		t.Error("切开的任务段应带有原任务 ID")
	}
}

func TestRenderBreakAdvancesCursorWithoutEntry(t *testing.T) {
	r := NewRenderer(rendererLifestyle(), clock.DefaultDayStartHour)
	tasks := []*domain.Task{
		{ID: 1, Title: "晨读", Duration: 25, BreakDuration: 5},
		{ID: 2, Title: "做题", Duration: 30, BreakDuration: 10},
	}

	entries, err := r.Render(tasks, renderDay)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("条目数 = %d, want 2", len(entries))
	}
	assertEntry(t, entries[0], domain.ScheduleEntryTask, "07:00", "07:25")
	// 休息 5 分钟后开始，末尾任务自己的休息不再追加
	assertEntry(t, entries[1], domain.ScheduleEntryTask, "07:30", "08:00")
}

func TestRenderObligationDuringBreak(t *testing.T) {
	lifestyle := rendererLifestyle()
	lifestyle.BreakfastTime = "07:30"
	r := NewRenderer(lifestyle, clock.DefaultDayStartHour)
	tasks := []*domain.Task{
		{ID: 1, Title: "晨读", Duration: 25, BreakDuration: 10},
		{ID: 2, Title: "做题", Duration: 20},
	}

	entries, err := r.Render(tasks, renderDay)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("条目数 = %d, want 3", len(entries))
	}
	assertEntry(t, entries[0], domain.ScheduleEntryTask, "07:00", "07:25")
	assertEntry(t, entries[1], domain.ScheduleEntryMeal, "07:30", "08:00")
	// 早餐吃完已经超过休息结束点，下一个任务紧随其后
	assertEntry(t, entries[2], domain.ScheduleEntryTask, "08:00", "08:20")
}

func TestRenderAfternoonStartBeginsAtStartTime(t *testing.T) {
	// 下午三点发起渲染：任务从 15:00 开始，而不是回到早上的起床时刻；
	// 已经过去的午餐不再插入
	r := NewRenderer(rendererLifestyle(), clock.DefaultDayStartHour)
	tasks := []*domain.Task{{ID: 1, Title: "下午专注", Duration: 60}}

	start := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	entries, err := r.Render(tasks, start)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("条目数 = %d, want 1", len(entries))
	}
	assertEntry(t, entries[0], domain.ScheduleEntryTask, "15:00", "16:00")
	if !entries[0].StartsAt.Equal(start) {
		t.Errorf("StartsAt = %v, want %v", entries[0].StartsAt, start)
	}
}

func TestRenderEachObligationConsumedOnce(t *testing.T) {
	r := NewRenderer(rendererLifestyle(), clock.DefaultDayStartHour)
	// 铺满一整天，午餐/晚餐/入浴都应恰好出现一次
	tasks := []*domain.Task{
		{ID: 1, Title: "上午块", Duration: 360},
		{ID: 2, Title: "下午块", Duration: 360},
		{ID: 3, Title: "晚上块", Duration: 180},
	}

	entries, err := r.Render(tasks, renderDay)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	counts := map[string]int{}
	for _, entry := range entries {
		if entry.Kind != domain.ScheduleEntryTask {
			counts[entry.Label]++
		}
	}
	for _, label := range []string{"午餐", "晚餐", "入浴"} {
		if counts[label] != 1 {
			t.Errorf("%s 出现了 %d 次, want 1", label, counts[label])
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	r := NewRenderer(rendererLifestyle(), clock.DefaultDayStartHour)
	tasks := []*domain.Task{
		{ID: 1, Title: "a", Duration: 200, BreakDuration: 10},
		{ID: 2, Title: "b", Duration: 150, BreakDuration: 5},
	}

	first, err := r.Render(tasks, renderDay)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	second, err := r.Render(tasks, renderDay)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("同样的输入应渲染出完全相同的时间表")
	}
}

func TestRenderEmptyTasks(t *testing.T) {
	r := NewRenderer(rendererLifestyle(), clock.DefaultDayStartHour)
	entries, err := r.Render(nil, renderDay)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("空任务列表应渲染出空时间表, got %d 个条目", len(entries))
	}
}

func TestRenderMalformedLifestyle(t *testing.T) {
	lifestyle := rendererLifestyle()
	lifestyle.LunchTime = "正午"
	r := NewRenderer(lifestyle, clock.DefaultDayStartHour)

	_, err := r.Render([]*domain.Task{{ID: 1, Duration: 30}}, renderDay)
	if err == nil {
		t.Fatal("作息设置不合法时应返回错误")
	}
	var configErr *clock.ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("错误类型 = %T, want *clock.ConfigError", err)
	}
}
