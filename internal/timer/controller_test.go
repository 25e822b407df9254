package timer

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
)

type tickEvent struct {
	remaining int
	isBreak   bool
}

type completeEvent struct {
	taskID    int64
	taskIndex int
	taskTotal int
}

// recorder 收集回调事件。回调在控制器持锁时触发，这里用自己的锁保护，
// 绝不回调控制器方法
type recorder struct {
	mu          sync.Mutex
	ticks       []tickEvent
	started     []int64 // OnTaskStart / OnNextTaskStart 的任务 ID，按触发顺序
	breakStarts int
	completed   []completeEvent
	runDone     int
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnTick: func(remaining int, isBreak bool) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.ticks = append(r.ticks, tickEvent{remaining, isBreak})
		},
		OnTaskStart: func(task *domain.Task, taskIndex, taskTotal int) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.started = append(r.started, task.ID)
		},
		OnNextTaskStart: func(task *domain.Task, taskIndex, taskTotal int) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.started = append(r.started, task.ID)
		},
		OnBreakStart: func(breakSeconds int) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.breakStarts++
		},
		OnTaskComplete: func(task *domain.Task, taskIndex, taskTotal int) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.completed = append(r.completed, completeEvent{task.ID, taskIndex, taskTotal})
		},
		OnRunComplete: func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.runDone++
		},
	}
}

func (r *recorder) snapshot() (ticks []tickEvent, completed []completeEvent, runDone int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]tickEvent(nil), r.ticks...), append([]completeEvent(nil), r.completed...), r.runDone
}

// 手动驱动节拍：把节拍间隔调成不会触发的长度，直接调用 step 推进，
// 整个倒计时序列因此是确定性的
func driveToCompletion(t *testing.T, c *Controller) {
	t.Helper()
	c.mu.Lock()
	generation := c.generation
	c.mu.Unlock()

	for i := 0; i < 1_000_000; i++ {
		if !c.step(generation) {
			return
		}
	}
	t.Fatal("倒计时没有在预期步数内结束")
}

func TestControllerFullRunSequence(t *testing.T) {
	c := NewController()
	c.interval = time.Hour

	tasks := []*domain.Task{
		{ID: 1, Title: "专注", Duration: 1, BreakDuration: 1},
		{ID: 2, Title: "复盘", Duration: 1, BreakDuration: 5},
	}
	rec := &recorder{}
	if err := c.Start(tasks, rec.callbacks()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	driveToCompletion(t, c)

	ticks, completed, runDone := rec.snapshot()

	if runDone != 1 {
		t.Fatalf("OnRunComplete 触发 %d 次, want 1", runDone)
	}
	wantCompleted := []completeEvent{{1, 0, 2}, {2, 1, 2}}
	if len(completed) != 2 || completed[0] != wantCompleted[0] || completed[1] != wantCompleted[1] {
		t.Fatalf("任务完成事件 = %v, want %v", completed, wantCompleted)
	}

	// 初始 tick 是第一个任务的完整时长
	if ticks[0] != (tickEvent{60, false}) {
		t.Errorf("首个 tick = %v, want {60 false}", ticks[0])
	}
	// 收尾 tick 归零且不处于休息
	last := ticks[len(ticks)-1]
	if last != (tickEvent{0, false}) {
		t.Errorf("末个 tick = %v, want {0 false}", last)
	}

	// 第一个任务后的休息产生 60 个休息 tick；
	// 最后一个任务的 5 分钟休息被跳过，不产生任何休息 tick
	breakTicks := 0
	for _, tick := range ticks {
		if tick.isBreak {
			breakTicks++
		}
	}
	if breakTicks != 60 {
		t.Errorf("休息 tick = %d, want 60", breakTicks)
	}

	rec.mu.Lock()
	started := append([]int64(nil), rec.started...)
	breakStarts := rec.breakStarts
	rec.mu.Unlock()
	if len(started) != 2 || started[0] != 1 || started[1] != 2 {
		t.Errorf("任务开始事件 = %v, want [1 2]", started)
	}
	if breakStarts != 1 {
		t.Errorf("休息开始事件 = %d, want 1", breakStarts)
	}

	if got := c.Status(); got.State != StateIdle {
		t.Errorf("结束后状态 = %s, want idle", got.State)
	}
}

func TestControllerZeroBreakSkipsToNextTask(t *testing.T) {
	c := NewController()
	c.interval = time.Hour

	tasks := []*domain.Task{
		{ID: 1, Duration: 1, BreakDuration: 0},
		{ID: 2, Duration: 1},
	}
	rec := &recorder{}
	if err := c.Start(tasks, rec.callbacks()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	driveToCompletion(t, c)

	ticks, _, _ := rec.snapshot()
	for _, tick := range ticks {
		if tick.isBreak {
			t.Fatal("休息时长为零时不应出现休息 tick")
		}
	}
}

func TestControllerStartValidation(t *testing.T) {
	c := NewController()
	c.interval = time.Hour

	if err := c.Start(nil, Callbacks{}); !errors.Is(err, ErrEmptyTaskList) {
		t.Fatalf("空任务列表: err = %v, want ErrEmptyTaskList", err)
	}

	tasks := []*domain.Task{{ID: 1, Duration: 25}}
	if err := c.Start(tasks, Callbacks{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := c.Start(tasks, Callbacks{}); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("重复开始: err = %v, want ErrAlreadyRunning", err)
	}
}

func TestControllerPauseResumeStop(t *testing.T) {
	c := NewController()
	c.interval = time.Hour

	if err := c.Pause(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("空闲时暂停: err = %v, want ErrNotRunning", err)
	}
	if err := c.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("空闲时停止: err = %v, want ErrNotRunning", err)
	}
	if err := c.Resume(); !errors.Is(err, ErrNotPaused) {
		t.Fatalf("空闲时恢复: err = %v, want ErrNotPaused", err)
	}

	tasks := []*domain.Task{{ID: 1, Duration: 25, BreakDuration: 5}}
	if err := c.Start(tasks, Callbacks{}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// 运行中恢复是幂等的无操作：不报错，也不更换节拍协程
	c.mu.Lock()
	generationBefore := c.generation
	c.mu.Unlock()
	if err := c.Resume(); err != nil {
		t.Fatalf("运行中恢复: err = %v, want nil", err)
	}
	c.mu.Lock()
	if c.generation != generationBefore {
		t.Error("运行中恢复不应更换节拍协程")
	}
	c.mu.Unlock()
	if got := c.Status(); got.State != StateRunning {
		t.Fatalf("运行中恢复后状态 = %s, want running", got.State)
	}

	if err := c.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if got := c.Status(); got.State != StatePaused {
		t.Fatalf("暂停后状态 = %s, want paused", got.State)
	}
	// 重复暂停同样是幂等的无操作
	if err := c.Pause(); err != nil {
		t.Fatalf("重复暂停: err = %v, want nil", err)
	}
	if got := c.Status(); got.State != StatePaused {
		t.Fatalf("重复暂停后状态 = %s, want paused", got.State)
	}

	if err := c.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if got := c.Status(); got.State != StateRunning {
		t.Fatalf("恢复后状态 = %s, want running", got.State)
	}

	if err := c.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if got := c.Status(); got.State != StateIdle || got.TaskTotal != 0 {
		t.Fatalf("停止后状态 = %+v, want 空闲且无任务", got)
	}
}

func TestControllerPausePreservesRemaining(t *testing.T) {
	c := NewController()
	c.interval = time.Hour

	tasks := []*domain.Task{{ID: 1, Duration: 2}}
	rec := &recorder{}
	if err := c.Start(tasks, rec.callbacks()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	c.mu.Lock()
	generation := c.generation
	c.mu.Unlock()
	for i := 0; i < 10; i++ {
		c.step(generation)
	}

	if err := c.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	paused := c.Status()
	if paused.RemainingSeconds != 110 {
		t.Fatalf("暂停时剩余 %d 秒, want 110", paused.RemainingSeconds)
	}

	// 旧代号的节拍在暂停后不再推进
	if c.step(generation) {
		t.Fatal("暂停后旧节拍仍在推进")
	}
	if got := c.Status(); got.RemainingSeconds != 110 {
		t.Fatalf("剩余 %d 秒, want 110", got.RemainingSeconds)
	}

	if err := c.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if got := c.Status(); got.RemainingSeconds != 110 {
		t.Fatalf("恢复后剩余 %d 秒, want 110", got.RemainingSeconds)
	}
}

func TestControllerStopCancelsPendingEvents(t *testing.T) {
	c := NewController()
	c.interval = time.Millisecond

	tasks := []*domain.Task{{ID: 1, Duration: 1, BreakDuration: 1}}
	rec := &recorder{}
	if err := c.Start(tasks, rec.callbacks()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// 等节拍协程真正跑起来
	deadline := time.Now().Add(2 * time.Second)
	for {
		ticks, _, _ := rec.snapshot()
		if len(ticks) >= 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("节拍协程没有产生事件")
		}
		time.Sleep(time.Millisecond)
	}

	if err := c.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	ticksAtStop, _, _ := rec.snapshot()

	time.Sleep(50 * time.Millisecond)
	ticks, _, runDone := rec.snapshot()
	if len(ticks) != len(ticksAtStop) {
		t.Errorf("Stop 返回后又收到了 %d 个 tick", len(ticks)-len(ticksAtStop))
	}
	if runDone != 0 {
		t.Error("停止的一轮不应触发 OnRunComplete")
	}
}

func TestControllerRunToCompletionWithRealTicker(t *testing.T) {
	c := NewController()
	c.interval = time.Millisecond

	tasks := []*domain.Task{{ID: 1, Duration: 1}}
	rec := &recorder{}
	if err := c.Start(tasks, rec.callbacks()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		_, _, runDone := rec.snapshot()
		if runDone == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("真实节拍下倒计时没有结束")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if got := c.Status(); got.State != StateIdle {
		t.Errorf("结束后状态 = %s, want idle", got.State)
	}
}
