package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type RepositoryBackend string

const (
	BackendLocal RepositoryBackend = "local" // 单机 SQLite
	BackendCloud RepositoryBackend = "cloud" // PostgreSQL
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Repository struct {
		Backend RepositoryBackend `env:"BACKEND" envDefault:"local"`
	} `envPrefix:"REPOSITORY_"`
	SQLite struct {
		Path string `env:"PATH" envDefault:"moon_tasker.db"`
	} `envPrefix:"SQLITE_"`
	Database struct {
		DSN                string `env:"DSN"` // 仅 cloud 后端需要
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	RabbitMQ struct {
		DSN            string `env:"DSN"`
		TaskEventQueue string `env:"TASK_EVENT_QUEUE" envDefault:"task_event_queue"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host            string `env:"HOST" envDefault:"localhost"`
		Port            int    `env:"PORT" envDefault:"6379"`
		Password        string `env:"PASSWORD"`
		ConnectTimeout  int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		CacheExpiration int    `env:"CACHE_EXPIRATION" envDefault:"300"` // 优化结果缓存，秒
	} `envPrefix:"REDIS_"`
	Scheduler struct {
		DayStartHour   int     `env:"DAY_START_HOUR" envDefault:"4"`
		PopulationSize int     `env:"POPULATION_SIZE" envDefault:"50"`
		MaxGenerations int     `env:"MAX_GENERATIONS" envDefault:"100"`
		MutationRate   float64 `env:"MUTATION_RATE" envDefault:"0.1"`
		EliteCount     int     `env:"ELITE_COUNT" envDefault:"5"`
		TournamentSize int     `env:"TOURNAMENT_SIZE" envDefault:"3"`
	} `envPrefix:"SCHEDULER_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	if cfg.Repository.Backend == BackendCloud && cfg.Database.DSN == "" {
		return nil, errors.New("cloud 后端需要设置 DATABASE_DSN")
	}

	return cfg, nil
}
