package domain

// LifestyleSettings: 用户的固定作息设置。
// 所有时刻字段都是 24 小时制的 HH:MM 字符串；就寝时间允许在数值上早于起床时间，
// 表示跨过了午夜，由 clock 包在日分钟刻度上处理。
type LifestyleSettings struct {
	ID            int64  `json:"id"`
	WakeTime      string `json:"wakeTime"`
	SleepTime     string `json:"sleepTime"`
	MinSleepHours int32  `json:"minSleepHours"`
	BathTime      string `json:"bathTime"`
	BathDuration  int32  `json:"bathDuration"` // 分钟
	BreakfastTime string `json:"breakfastTime"`
	LunchTime     string `json:"lunchTime"`
	DinnerTime    string `json:"dinnerTime"`
	MealDuration  int32  `json:"mealDuration"` // 分钟，三餐共用
}

func DefaultLifestyleSettings() *LifestyleSettings {
	return &LifestyleSettings{
		WakeTime:      "07:00",
		SleepTime:     "23:00",
		MinSleepHours: 7,
		BathTime:      "21:00",
		BathDuration:  30,
		BreakfastTime: "07:30",
		LunchTime:     "12:00",
		DinnerTime:    "19:00",
		MealDuration:  30,
	}
}
