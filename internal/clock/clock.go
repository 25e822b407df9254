package clock

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
)

// 日分钟刻度：以每天的 DayStartHour 点为 0 分钟，凌晨（4 点前）的活动
// 因此会排在前一天的末尾，避免跨午夜的区间计算出错。
const (
	DefaultDayStartHour = 4
	MinutesPerDay       = 24 * 60
)

// ConfigError: 作息设置中的时刻字符串无法解析或超出范围
type ConfigError struct {
	Field string
	Value string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("无效的时刻格式: %q（应为 HH:MM）", e.Value)
	}
	return fmt.Sprintf("%s的时刻格式无效: %q（应为 HH:MM）", e.Field, e.Value)
}

// ParseClock 解析 HH:MM 格式的时刻字符串
func ParseClock(clockStr string) (hour int, minute int, err error) {
	parts := strings.Split(clockStr, ":")
	if len(parts) != 2 {
		return 0, 0, &ConfigError{Value: clockStr}
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, &ConfigError{Value: clockStr}
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, &ConfigError{Value: clockStr}
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, &ConfigError{Value: clockStr}
	}

	return hour, minute, nil
}

// ToDayMinutes 将时刻字符串换算到日分钟刻度上，结果总在 [0, 1439] 内
func ToDayMinutes(clockStr string, dayStartHour int) (int, error) {
	hour, minute, err := ParseClock(clockStr)
	if err != nil {
		return 0, err
	}

	minutes := hour*60 + minute - dayStartHour*60
	if minutes < 0 {
		minutes += MinutesPerDay
	}

	return minutes, nil
}

// FromDayMinutes 将日分钟换算回 HH:MM 字符串，是 ToDayMinutes 的逆运算
func FromDayMinutes(dayMinutes int, dayStartHour int) string {
	minutes := (dayMinutes + dayStartHour*60) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AvailableMinutes 计算起床到就寝之间扣除三餐和入浴后的可支配分钟数。
// 就寝时间早于起床时间表示跨过午夜。结果可能为非正数（固定日程多于清醒时间），
// 调用方应将非正结果视为没有空闲时间，而不是错误。
func AvailableMinutes(settings *domain.LifestyleSettings, dayStartHour int) (int, error) {
	wakeMinutes, err := ToDayMinutes(settings.WakeTime, dayStartHour)
	if err != nil {
		return 0, &ConfigError{Field: "起床时间", Value: settings.WakeTime}
	}
	sleepMinutes, err := ToDayMinutes(settings.SleepTime, dayStartHour)
	if err != nil {
		return 0, &ConfigError{Field: "就寝时间", Value: settings.SleepTime}
	}

	var total int
	if sleepMinutes < wakeMinutes {
		total = MinutesPerDay - wakeMinutes + sleepMinutes
	} else {
		total = sleepMinutes - wakeMinutes
	}

	total -= int(settings.MealDuration) * 3
	total -= int(settings.BathDuration)

	return total, nil
}
