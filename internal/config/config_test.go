package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Repository.Backend != BackendLocal {
		t.Errorf("默认后端 = %s, want local", cfg.Repository.Backend)
	}
	if cfg.Scheduler.PopulationSize != 50 || cfg.Scheduler.MaxGenerations != 100 {
		t.Errorf("调度器默认参数 = %d/%d, want 50/100", cfg.Scheduler.PopulationSize, cfg.Scheduler.MaxGenerations)
	}
	if cfg.Scheduler.DayStartHour != 4 {
		t.Errorf("默认日界 = %d, want 4", cfg.Scheduler.DayStartHour)
	}
}

func TestLoadConfigRejectsBadValue(t *testing.T) {
	t.Setenv("SCHEDULER_MUTATION_RATE", "很高")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("无法解析的环境变量应返回错误")
	}
}

func TestLoadConfigCloudRequiresDSN(t *testing.T) {
	t.Setenv("REPOSITORY_BACKEND", "cloud")
	t.Setenv("DATABASE_DSN", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("cloud 后端缺少 DATABASE_DSN 时应返回错误")
	}
}
