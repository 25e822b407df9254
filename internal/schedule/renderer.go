package schedule

import (
	"time"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/clock"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
)

// 固定日程（三餐和入浴）在日分钟刻度上的占用
type obligation struct {
	kind     domain.ScheduleEntryKind
	label    string
	start    int
	duration int
	consumed bool
}

// Renderer 把已排序的任务列表铺排成带起止时刻的时间表。
// 渲染是纯函数：同样的输入总是产出同样的时间表。
//
// 任务从起床时刻和给定开始时刻中较晚者起依次铺排，下午发起的预览不会把
// 任务排进已经过去的上午；当某个固定日程的开始时刻落在当前任务（含任务
// 后的休息）的时间窗内时，任务在该时刻被切开，固定日程插入后任务的剩余
// 部分继续。最后一个任务之后的休息不计入时间表。
type Renderer struct {
	lifestyle    *domain.LifestyleSettings
	dayStartHour int
}

func NewRenderer(lifestyle *domain.LifestyleSettings, dayStartHour int) *Renderer {
	return &Renderer{lifestyle: lifestyle, dayStartHour: dayStartHour}
}

// Render 从 start 时刻开始铺排 tasks，返回时间表条目。
// 空任务列表返回空时间表，不插入任何固定日程。
func (r *Renderer) Render(tasks []*domain.Task, start time.Time) ([]domain.ScheduleEntry, error) {
	entries := []domain.ScheduleEntry{}
	if len(tasks) == 0 {
		return entries, nil
	}

	wake, err := clock.ToDayMinutes(r.lifestyle.WakeTime, r.dayStartHour)
	if err != nil {
		return nil, &clock.ConfigError{Field: "起床时间", Value: r.lifestyle.WakeTime}
	}
	obligations, err := r.obligations()
	if err != nil {
		return nil, err
	}

	// 游标从起床时刻和 start 的钟点中较晚者出发
	cursor := max(wake, r.startMinutes(start))

	base := time.Date(start.Year(), start.Month(), start.Day(), r.dayStartHour, 0, 0, 0, start.Location())
	if start.Hour() < r.dayStartHour {
		// 凌晨属于前一天的刻度
		base = base.AddDate(0, 0, -1)
	}

	for i, task := range tasks {
		remaining := int(task.Duration)
		breakMinutes := 0
		if i < len(tasks)-1 {
			breakMinutes = int(task.BreakDuration)
		}
		taskEnd := cursor

		for remaining > 0 {
			obIdx := matchObligation(obligations, cursor, remaining+breakMinutes)
			if obIdx < 0 {
				entries = append(entries, r.taskEntry(task, base, cursor, cursor+remaining))
				cursor += remaining
				taskEnd = cursor
				remaining = 0
				continue
			}

			ob := &obligations[obIdx]
			segment := min(ob.start-cursor, remaining)
			if segment > 0 {
				entries = append(entries, r.taskEntry(task, base, cursor, cursor+segment))
				remaining -= segment
				taskEnd = cursor + segment
			}

			entries = append(entries, r.entry(ob.kind, ob.label, nil, base, ob.start, ob.start+ob.duration))
			ob.consumed = true
			cursor = ob.start + ob.duration
		}

		// 任务间休息只推进游标，不产生条目；
		// 若固定日程已把游标推过了休息结束点则无需再等
		cursor = max(cursor, taskEnd+breakMinutes)
	}

	return entries, nil
}

// startMinutes 把时间戳的钟点换算到日分钟刻度上
func (r *Renderer) startMinutes(start time.Time) int {
	minutes := start.Hour()*60 + start.Minute() - r.dayStartHour*60
	if minutes < 0 {
		minutes += clock.MinutesPerDay
	}
	return minutes
}

// matchObligation 在未消费的固定日程中找开始时刻落在 (cursor, cursor+needed]
// 内的最早一项，没有则返回 -1
func matchObligation(obligations []obligation, cursor, needed int) int {
	found := -1
	for i, ob := range obligations {
		if ob.consumed || ob.start <= cursor || ob.start > cursor+needed {
			continue
		}
		if found == -1 || ob.start < obligations[found].start {
			found = i
		}
	}
	return found
}

func (r *Renderer) obligations() ([]obligation, error) {
	meals := []struct {
		label string
		at    string
	}{
		{"早餐", r.lifestyle.BreakfastTime},
		{"午餐", r.lifestyle.LunchTime},
		{"晚餐", r.lifestyle.DinnerTime},
	}

	obligations := make([]obligation, 0, 4)
	for _, meal := range meals {
		start, err := clock.ToDayMinutes(meal.at, r.dayStartHour)
		if err != nil {
			return nil, &clock.ConfigError{Field: meal.label + "时间", Value: meal.at}
		}
		obligations = append(obligations, obligation{
			kind:     domain.ScheduleEntryMeal,
			label:    meal.label,
			start:    start,
			duration: int(r.lifestyle.MealDuration),
		})
	}

	bathStart, err := clock.ToDayMinutes(r.lifestyle.BathTime, r.dayStartHour)
	if err != nil {
		return nil, &clock.ConfigError{Field: "入浴时间", Value: r.lifestyle.BathTime}
	}
	obligations = append(obligations, obligation{
		kind:     domain.ScheduleEntryBath,
		label:    "入浴",
		start:    bathStart,
		duration: int(r.lifestyle.BathDuration),
	})

	return obligations, nil
}

func (r *Renderer) taskEntry(task *domain.Task, base time.Time, start, end int) domain.ScheduleEntry {
	taskID := task.ID
	return r.entry(domain.ScheduleEntryTask, task.Title, &taskID, base, start, end)
}

func (r *Renderer) entry(kind domain.ScheduleEntryKind, label string, taskID *int64, base time.Time, start, end int) domain.ScheduleEntry {
	return domain.ScheduleEntry{
		Kind:     kind,
		Label:    label,
		TaskID:   taskID,
		StartsAt: base.Add(time.Duration(start) * time.Minute),
		EndsAt:   base.Add(time.Duration(end) * time.Minute),
		Start:    clock.FromDayMinutes(start, r.dayStartHour),
		End:      clock.FromDayMinutes(end, r.dayStartHour),
	}
}
