package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/lunaworks-dev/moon-tasker/backend/internal/config"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/domain"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/repository"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/seed"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 重置作息设置, 2: 插入随机任务, 3: 插入示例数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
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
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)
	if err := repo.Init(); err != nil {
		logger.Error("无法初始化数据库表结构", "error", err)
		return
	}

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if err := repo.SaveLifestyleSettings(domain.DefaultLifestyleSettings()); err != nil {
			slog.Error("无法重置作息设置", slog.String("error", err.Error()))
			return
		}
		slog.Info("作息设置已重置为默认值")
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的任务数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				task := utils.GenerateRandomTask()
				if err := repo.CreateTask(task); err != nil {
					slog.Error("无法插入任务", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入任务成功", slog.Int("count", n-cnt))
		}
	case 3:
		seed.SeedSampleData(repo)
	default:
		slog.Error("指定的操作非法")
	}
}
