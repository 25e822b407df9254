package optimizer

import (
	"math/rand"
	"slices"
	"sort"
	"time"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/clock"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
)

// 收敛判定阈值：最优个体与第 5 名的适应度差小于该值时认为已收敛
const convergenceEpsilon = 0.001

// 固定日程在日分钟刻度上占用的区间 [start, end)
type blockedInterval struct {
	start int
	end   int
}

// GeneticOptimizer 用遗传算法搜索任务的执行顺序。
// 算法只重排任务引用，从不修改任务本身；对退化输入（n<=1、完全相同的任务、
// 可用时间为零）不会报错，而是退化为返回某一个合法排列。
type GeneticOptimizer struct {
	parameters *Parameters
	lifestyle  *domain.LifestyleSettings
	rng        *rand.Rand
}

func NewGeneticOptimizer(parameters *Parameters, lifestyle *domain.LifestyleSettings) *GeneticOptimizer {
	return &GeneticOptimizer{
		parameters: parameters,
		lifestyle:  lifestyle,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Optimize 返回 tasks 的一个重排副本。只有作息设置解析失败时才返回错误。
func (g *GeneticOptimizer) Optimize(tasks []*domain.Task) ([]*domain.Task, error) {
	if len(tasks) <= 1 {
		return slices.Clone(tasks), nil
	}

	availableMinutes, err := clock.AvailableMinutes(g.lifestyle, g.parameters.DayStartHour)
	if err != nil {
		return nil, err
	}
	wakeMinutes, err := clock.ToDayMinutes(g.lifestyle.WakeTime, g.parameters.DayStartHour)
	if err != nil {
		return nil, err
	}
	blocked, err := g.blockedIntervals()
	if err != nil {
		return nil, err
	}

	// 初始种群：随机排列
	population := make([]Individual, g.parameters.PopulationSize)
	for i := range population {
		population[i] = Individual(g.rng.Perm(len(tasks)))
	}

	var best Individual
	for generation := 0; ; generation++ {
		ranked := make([]scored, len(population))
		for i, individual := range population {
			ranked[i] = scored{
				fitness:    g.fitness(individual, tasks, wakeMinutes, availableMinutes, blocked),
				individual: individual,
			}
		}
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].fitness > ranked[j].fitness
		})

		if generation >= int(g.parameters.MaxGenerations) || g.converged(generation, ranked) {
			best = ranked[0].individual
			break
		}

		population = g.nextGeneration(ranked)
	}

	ordered := make([]*domain.Task, len(tasks))
	for position, taskIdx := range best {
		ordered[position] = tasks[taskIdx]
	}

	return ordered, nil
}

// 第 20 代之后，如果最优与第 5 名之间的适应度差足够小则提前终止
func (g *GeneticOptimizer) converged(generation int, ranked []scored) bool {
	if generation <= 20 || len(ranked) < 5 {
		return false
	}
	return ranked[0].fitness-ranked[4].fitness < convergenceEpsilon
}

// nextGeneration 保留精英，其余位置由 锦标赛选择 -> 顺序交叉 -> 交换变异 填满
func (g *GeneticOptimizer) nextGeneration(ranked []scored) []Individual {
	next := make([]Individual, 0, g.parameters.PopulationSize)

	eliteCount := min(int(g.parameters.EliteCount), len(ranked))
	for i := 0; i < eliteCount; i++ {
		next = append(next, slices.Clone(ranked[i].individual))
	}

	for len(next) < int(g.parameters.PopulationSize) {
		parent1 := g.tournament(ranked)
		parent2 := g.tournament(ranked)
		child := g.crossover(parent1, parent2)
		g.mutate(child)
		next = append(next, child)
	}

	return next
}

/**
 * 适应度计算（越大越好）:
 * 		1. 难度前置: 难的任务排得越靠前得分越高
 * 		2. 连续奖励: 第一个位置之后的每个位置固定 +5
 * 		3. 日程冲突: 从起床时间向后铺排，与三餐/入浴区间每重叠一分钟扣 0.5
 * 		4. 超时惩罚: 总耗时超出可用时间的部分每分钟扣 2
 */
func (g *GeneticOptimizer) fitness(individual Individual, tasks []*domain.Task, wakeMinutes, availableMinutes int, blocked []blockedInterval) float64 {
	n := len(individual)
	score := 0.0
	cursor := wakeMinutes
	total := 0

	for position, taskIdx := range individual {
		task := tasks[taskIdx]

		positionScore := 1.0 - float64(position)/float64(n)
		score += positionScore * float64(task.Difficulty) * 2

		if position > 0 {
			score += 5
		}

		span := int(task.Duration + task.BreakDuration)
		for _, interval := range blocked {
			overlap := min(cursor+span, interval.end) - max(cursor, interval.start)
			if overlap > 0 {
				score -= float64(overlap) * 0.5
			}
		}

		cursor += span
		total += span
	}

	if total > availableMinutes {
		score -= float64(total-availableMinutes) * 2
	}

	return score
}

// 锦标赛选择：随机抽取 TournamentSize 个互不相同的个体，取其中适应度最高者
func (g *GeneticOptimizer) tournament(ranked []scored) Individual {
	sampleSize := min(int(g.parameters.TournamentSize), len(ranked))
	best := -1
	for _, idx := range g.rng.Perm(len(ranked))[:sampleSize] {
		if best == -1 || ranked[idx].fitness > ranked[best].fitness {
			best = idx
		}
	}
	return ranked[best].individual
}

// crossover 顺序交叉（OX）：随机选取两个切点，把 parent1 的切片原位复制到
// 子代，剩余位置按 parent2 的相对顺序填充，保证子代仍是合法排列
func (g *GeneticOptimizer) crossover(parent1, parent2 Individual) Individual {
	size := len(parent1)
	if size < 2 {
		return slices.Clone(parent1)
	}

	start := g.rng.Intn(size)
	end := g.rng.Intn(size)
	for end == start {
		end = g.rng.Intn(size)
	}
	if start > end {
		start, end = end, start
	}

	child := make(Individual, size)
	used := make([]bool, size)
	for i := range child {
		child[i] = -1
	}
	for i := start; i < end; i++ {
		child[i] = parent1[i]
		used[parent1[i]] = true
	}

	fill := 0
	for _, value := range parent2 {
		if used[value] {
			continue
		}
		for child[fill] != -1 {
			fill++
		}
		child[fill] = value
	}

	return child
}

// mutate 交换变异：以 MutationRate 的概率交换两个随机位置，只作用于新生子代
func (g *GeneticOptimizer) mutate(individual Individual) {
	if len(individual) < 2 || g.rng.Float64() >= g.parameters.MutationRate {
		return
	}
	i := g.rng.Intn(len(individual))
	j := g.rng.Intn(len(individual))
	for j == i {
		j = g.rng.Intn(len(individual))
	}
	individual[i], individual[j] = individual[j], individual[i]
}

// blockedIntervals 生成三餐和入浴在日分钟刻度上占用的区间
func (g *GeneticOptimizer) blockedIntervals() ([]blockedInterval, error) {
	blocked := make([]blockedInterval, 0, 4)

	meals := []string{g.lifestyle.BreakfastTime, g.lifestyle.LunchTime, g.lifestyle.DinnerTime}
	for _, mealTime := range meals {
		start, err := clock.ToDayMinutes(mealTime, g.parameters.DayStartHour)
		if err != nil {
			return nil, err
		}
		blocked = append(blocked, blockedInterval{start: start, end: start + int(g.lifestyle.MealDuration)})
	}

	bathStart, err := clock.ToDayMinutes(g.lifestyle.BathTime, g.parameters.DayStartHour)
	if err != nil {
		return nil, err
	}
	blocked = append(blocked, blockedInterval{start: bathStart, end: bathStart + int(g.lifestyle.BathDuration)})

	return blocked, nil
}
