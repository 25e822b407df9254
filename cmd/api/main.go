package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/config"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/handler"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", "error", err)
		return
	}

	/**********************************************
	 * 连接数据库（local: SQLite 文件，cloud: PostgreSQL）
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

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	/**********************************************
	 * 创建 repository 并初始化表结构
	 **********************************************/
	repo := repository.NewRepository(cfg, dbpool)
	if err := repo.Init(); err != nil {
		logger.Error("无法初始化数据库表结构", "error", err)
		return
	}

	/**********************************************
	 * 连接 rabbitmq（未配置时跳过，任务事件只写日志）
	 **********************************************/
	var eventCh *amqp.Channel
	if cfg.RabbitMQ.DSN != "" {
		conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
		if err != nil {
			logger.Error("无法连接到 rabbitmq", "error", err)
			return
		}
		defer conn.Close()

		// 建立通道
		eventCh, err = conn.Channel()
		if err != nil {
			logger.Error("无法建立通道", "error", err)
			return
		}
		defer eventCh.Close()

		// 声明队列
		_, err = eventCh.QueueDeclare(
			cfg.RabbitMQ.TaskEventQueue,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			logger.Error("无法声明队列", "error", err)
			return
		}
	} else {
		logger.Warn("未配置 rabbitmq，任务事件不会发往消息队列")
	}

	/**********************************************
	 * 连接 redis（连不上时关闭缓存，不影响主流程）
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	pingCtx, pingCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.ConnectTimeout)*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("无法连接到 redis，排程缓存已关闭", "error", err)
		rdb = nil
	}
	pingCancel()

	/**********************************************
	 * 创建 handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, repo, eventCh, rdb)
	if err != nil {
		logger.Error("无法创建 handler", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * 启动 HTTP 服务器
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("正在启动服务器...", "port", cfg.Server.Port, "backend", cfg.Repository.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("无法启动服务器", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("正在关闭服务器...")

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("关闭服务器失败", slog.String("error", err.Error()))
	}
	logger.Info("服务器已成功关闭")
}
