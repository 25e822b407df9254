package timer

import (
	"errors"
	"sync"
	"time"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
)

var (
	ErrEmptyTaskList  = errors.New("任务列表为空，无法开始计时")
	ErrAlreadyRunning = errors.New("计时器已在运行中")
	ErrNotRunning     = errors.New("计时器未在运行")
	ErrNotPaused      = errors.New("计时器未处于暂停状态")
)

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

// Callbacks: 计时器的事件出口。所有回调都在持有控制器内部锁的情况下调用，
// 回调里不允许再调用控制器的任何方法，否则会死锁。
type Callbacks struct {
	OnTick          func(remainingSeconds int, isBreak bool)
	OnTaskStart     func(task *domain.Task, taskIndex, taskTotal int) // 第一个任务开始
	OnNextTaskStart func(task *domain.Task, taskIndex, taskTotal int) // 后续任务开始
	OnBreakStart    func(breakSeconds int)
	OnTaskComplete  func(task *domain.Task, taskIndex, taskTotal int)
	OnRunComplete   func()
}

// Status: 计时器某一时刻的状态快照
type Status struct {
	State            State        `json:"state"`
	CurrentTask      *domain.Task `json:"currentTask,omitempty"`
	TaskIndex        int          `json:"taskIndex"`
	TaskTotal        int          `json:"taskTotal"`
	RemainingSeconds int          `json:"remainingSeconds"`
	InBreak          bool         `json:"inBreak"`
}

// Controller 按列表顺序依次为每个任务倒计时：先是任务本身的时长，然后是
// 任务后的休息；最后一个任务没有休息段，倒数到零直接结束整轮。
//
// generation 在每次状态切换（开始/暂停/恢复/停止）时递增，节拍协程发现
// 自己携带的代号过期后立即退出，因此 Stop 返回之后保证不会再有任何回调。
type Controller struct {
	mu       sync.Mutex
	interval time.Duration

	state      State
	generation uint64
	tasks      []*domain.Task
	taskIndex  int
	inBreak    bool
	remaining  int // 秒
	callbacks  Callbacks
}

func NewController() *Controller {
	return &Controller{
		interval: time.Second,
		state:    StateIdle,
	}
}

// Start 从第一个任务开始倒计时，并立即推送一次初始的 OnTick
func (c *Controller) Start(tasks []*domain.Task, callbacks Callbacks) error {
	if len(tasks) == 0 {
		return ErrEmptyTaskList
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return ErrAlreadyRunning
	}

	c.state = StateRunning
	c.generation++
	c.tasks = tasks
	c.taskIndex = 0
	c.inBreak = false
	c.remaining = int(tasks[0].Duration) * 60
	c.callbacks = callbacks

	if c.callbacks.OnTaskStart != nil {
		c.callbacks.OnTaskStart(tasks[0], 0, len(tasks))
	}
	c.emitTick()
	go c.run(c.generation)

	return nil
}

// Pause 暂停倒计时。已经暂停时什么都不做
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StatePaused {
		return nil
	}
	if c.state != StateRunning {
		return ErrNotRunning
	}
	c.state = StatePaused
	c.generation++
	return nil
}

// Resume 恢复倒计时。正在运行时什么都不做
func (c *Controller) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateRunning {
		return nil
	}
	if c.state != StatePaused {
		return ErrNotPaused
	}
	c.state = StateRunning
	c.generation++
	go c.run(c.generation)
	return nil
}

// Stop 终止当前一轮。返回后不会再触发任何回调，包括 OnRunComplete
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateIdle {
		return ErrNotRunning
	}
	c.reset()
	return nil
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := Status{
		State:            c.state,
		TaskIndex:        c.taskIndex,
		TaskTotal:        len(c.tasks),
		RemainingSeconds: c.remaining,
		InBreak:          c.inBreak,
	}
	if c.state != StateIdle && c.taskIndex < len(c.tasks) {
		status.CurrentTask = c.tasks[c.taskIndex]
	}
	return status
}

func (c *Controller) run(generation uint64) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for range ticker.C {
		if !c.step(generation) {
			return
		}
	}
}

// step 推进一个节拍。返回 false 表示节拍协程应当退出
func (c *Controller) step(generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 代号过期说明这轮已被暂停或停止
	if generation != c.generation || c.state != StateRunning {
		return false
	}

	c.remaining--
	if c.remaining > 0 {
		c.emitTick()
		return true
	}
	return c.advance()
}

// advance 在当前倒计时段归零时切换到下一段，必须在持锁状态下调用
func (c *Controller) advance() bool {
	if c.inBreak {
		c.inBreak = false
		c.taskIndex++
		c.remaining = int(c.tasks[c.taskIndex].Duration) * 60
		if c.callbacks.OnNextTaskStart != nil {
			c.callbacks.OnNextTaskStart(c.tasks[c.taskIndex], c.taskIndex, len(c.tasks))
		}
		c.emitTick()
		return true
	}

	task := c.tasks[c.taskIndex]
	if c.callbacks.OnTaskComplete != nil {
		c.callbacks.OnTaskComplete(task, c.taskIndex, len(c.tasks))
	}

	// 最后一个任务结束后没有休息段，直接收尾
	if c.taskIndex == len(c.tasks)-1 {
		if c.callbacks.OnTick != nil {
			c.callbacks.OnTick(0, false)
		}
		if c.callbacks.OnRunComplete != nil {
			c.callbacks.OnRunComplete()
		}
		c.reset()
		return false
	}

	if task.BreakDuration > 0 {
		c.inBreak = true
		c.remaining = int(task.BreakDuration) * 60
		if c.callbacks.OnBreakStart != nil {
			c.callbacks.OnBreakStart(c.remaining)
		}
	} else {
		c.taskIndex++
		c.remaining = int(c.tasks[c.taskIndex].Duration) * 60
		if c.callbacks.OnNextTaskStart != nil {
			c.callbacks.OnNextTaskStart(c.tasks[c.taskIndex], c.taskIndex, len(c.tasks))
		}
	}
	c.emitTick()
	return true
}

func (c *Controller) emitTick() {
	if c.callbacks.OnTick != nil {
		c.callbacks.OnTick(c.remaining, c.inBreak)
	}
}

func (c *Controller) reset() {
	c.state = StateIdle
	c.generation++
	c.tasks = nil
	c.taskIndex = 0
	c.inBreak = false
	c.remaining = 0
	c.callbacks = Callbacks{}
}
