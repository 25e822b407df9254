package optimizer

// Individual: 一个任务顺序的候选解，内容是 0..n-1 的一个排列，
// 每个下标恰好出现一次
type Individual []int

// 带适应度的个体，按代排序用
type scored struct {
	fitness    float64
	individual Individual
}

// 遗传算法参数
type Parameters struct {
	PopulationSize int32   // 种群大小
	MaxGenerations int32   // 最大迭代次数
	MutationRate   float64 // 变异概率
	EliteCount     int32   // 精英数量
	TournamentSize int32   // 锦标赛采样数量
	DayStartHour   int     // 日分钟刻度的起点小时
}

func DefaultParameters() *Parameters {
	return &Parameters{
		PopulationSize: 50,
		MaxGenerations: 100,
		MutationRate:   0.1,
		EliteCount:     5,
		TournamentSize: 3,
		DayStartHour:   4,
	}
}
