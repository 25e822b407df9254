package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/config"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// worker 消费倒计时控制器发出的任务事件：把完成的任务落库，
// 并推进当前月相周期的进度。

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 读取配置文件
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		return
	}
	if cfg.RabbitMQ.DSN == "" {
		logger.Error("worker 需要配置 RABBITMQ_DSN")
		return
	}

	/**********************************************
	 * 连接数据库
	 **********************************************/
	var dbpool *sql.DB
	switch cfg.Repository.Backend {
	case config.BackendCloud:
		dbpool, err = sql.Open("pgx", cfg.Database.DSN)
	default:
		dbpool, err = sql.Open("sqlite", cfg.SQLite.Path)
	}
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	if err := dbpool.PingContext(ctx); err != nil {
		cancel()
		logger.Error("无法连接到数据库", "error", err)
		return
	}
	cancel()

	repo := repository.NewRepository(cfg, dbpool)
	if err := repo.Init(); err != nil {
		logger.Error("无法初始化数据库表结构", "error", err)
		return
	}

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	// 创建通道
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	// 声明队列
	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.TaskEventQueue, // 队列名称
		true,                        // 是否持久化
		false,                       // 是否自动删除，设置为 false 可以避免没有消费者的时候自动删除队列
		false,                       // 是否独占，即是否允许多个消费者访问这个队列
		false,                       // 是否不等待，设置为 false，即等待 RabbitMQ 确认队列是否创建成功
		nil,                         // 额外参数
	)
	if err != nil {
		logger.Error("无法声明队列", slog.String("error", err.Error()))
		return
	}

	// 监听 CTRL+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// 消费消息
	msgs, err := ch.Consume(
		q.Name, // 队列
		"",     // 消费者标识，设置为空字符串，表示由 RabbitMQ 自动分配
		false,  // 是否自动确认消息
		false,  // 是否独占队列
		false,  // 是否禁止消费者接受自己发送的消息，必须设置为 false，因为 RabbitMQ 不支持这个参数
		false,  // 是否不等待，等待 RabbitMQ 响应
		nil,    // 额外参数
	)
	if err != nil {
		logger.Error("无法消费消息", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 用于关闭 goroutine 的上下文
	workerCtx, workerCancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-workerCtx.Done():
				return
			case msg := <-msgs:
				logger.Info("收到任务事件", slog.String("message", string(msg.Body)))

				event := domain.TaskEvent{}
				if err := json.Unmarshal(msg.Body, &event); err != nil {
					logger.Error("任务事件反序列化失败", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				switch event.Type {
				case domain.TaskEventCompleted:
					if err := handleTaskCompleted(repo, event); err != nil {
						logger.Error("处理任务完成事件失败", slog.String("error", err.Error()))
						_ = msg.Nack(false, true) // 将消息重新入队
						continue
					}
				case domain.TaskEventRunCompleted:
					logger.Info("一轮倒计时已完成", slog.String("runID", event.RunID))
				default:
					logger.Error("不支持的事件类型", slog.String("type", string(event.Type)))
					_ = msg.Nack(false, false)
					continue
				}

				// 确认消息
				_ = msg.Ack(false)
			}
		}
	}()

	// 等待 CTRL+C 信号
	logger.Info("等待任务事件...（按 CTRL+C 退出）")
	<-sigChan

	// 优雅退出
	slog.Info("正在关闭 worker...")
	workerCancel()
	wg.Wait() // 等待所有 goroutine 完成
	slog.Info("worker 已成功关闭")
}

// handleTaskCompleted 把任务标记为已完成，并推进当前进行中的周期；
// 进度达到目标后自动把周期置为已完成
func handleTaskCompleted(repo repository.Repository, event domain.TaskEvent) error {
	if err := repo.UpdateTaskStatus(event.TaskID, domain.TaskStatusCompleted); err != nil {
		return err
	}

	cycle, err := repo.GetActiveMoonCycle()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// 没有进行中的周期时只落库任务状态
			return nil
		}
		return err
	}

	updated, err := repo.IncrementMoonCycleProgress(cycle.ID)
	if err != nil {
		return err
	}

	if updated.TargetTaskCount > 0 && updated.CompletedTaskCount >= updated.TargetTaskCount {
		if err := repo.CompleteMoonCycle(updated.ID); err != nil {
			return err
		}
		slog.Info("周期目标达成", slog.Int64("cycleID", updated.ID), slog.String("goal", updated.Goal))
	}

	return nil
}
