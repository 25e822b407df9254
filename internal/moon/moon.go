// Package moon 提供月相计算。任务周期（起/承/转/合）跟随月相推进，
// 新月前后开启新周期，满月前后进入复盘阶段。
package moon

import "time"

// 以 2000-01-06 18:14 UTC 的新月为锚点，按平均朔望月周期外推。
// 对日级别的展示用途误差足够小，不做摄动修正。
const SynodicPeriodDays = 29.53058867

var anchorNewMoon = time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC)

const (
	newMoonThreshold  = 0.07 // 距新月 ±0.07 周期内算新月期
	fullMoonLow       = 0.43
	fullMoonHigh      = 0.57
	synodicPeriodSecs = SynodicPeriodDays * 24 * 60 * 60
)

// Phase 返回 t 时刻的月相，取值 [0, 1)：0 为新月，0.5 为满月
func Phase(t time.Time) float64 {
	elapsed := t.Sub(anchorNewMoon).Seconds()
	phase := elapsed / synodicPeriodSecs
	phase -= float64(int64(phase))
	if phase < 0 {
		phase += 1
	}
	return phase
}

// PhaseName 返回月相的中文名称，按八等分划分
func PhaseName(t time.Time) string {
	names := []string{"新月", "娥眉月", "上弦月", "盈凸月", "满月", "亏凸月", "下弦月", "残月"}
	return names[phaseOctant(t)]
}

// Emoji 返回月相对应的表情符号，与 PhaseName 同一划分
func Emoji(t time.Time) string {
	emojis := []string{"🌑", "🌒", "🌓", "🌔", "🌕", "🌖", "🌗", "🌘"}
	return emojis[phaseOctant(t)]
}

// 八等分区间以各相位为中心：新月占 [15/16, 1) ∪ [0, 1/16)，其余依次类推
func phaseOctant(t time.Time) int {
	phase := Phase(t)
	return int((phase+1.0/16)*8) % 8
}

// IsNewMoonPeriod 判断 t 是否处于新月期（适合开启新的任务周期）
func IsNewMoonPeriod(t time.Time) bool {
	phase := Phase(t)
	return phase < newMoonThreshold || phase > 1-newMoonThreshold
}

// IsFullMoonPeriod 判断 t 是否处于满月期（适合复盘）
func IsFullMoonPeriod(t time.Time) bool {
	phase := Phase(t)
	return phase >= fullMoonLow && phase <= fullMoonHigh
}

// NextNewMoon 返回 t 之后的第一个新月时刻
func NextNewMoon(t time.Time) time.Time {
	return nextPhaseInstant(t, 0)
}

// NextFullMoon 返回 t 之后的第一个满月时刻
func NextFullMoon(t time.Time) time.Time {
	return nextPhaseInstant(t, 0.5)
}

func nextPhaseInstant(t time.Time, target float64) time.Time {
	phase := Phase(t)
	delta := target - phase
	if delta <= 0 {
		delta += 1
	}
	return t.Add(time.Duration(delta * synodicPeriodSecs * float64(time.Second)))
}
