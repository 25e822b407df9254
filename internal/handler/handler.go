package handler

import (
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/config"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/repository"
	"github.com/lunaworks-dev/moon-tasker/backend/internal/timer"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	validate     *validator.Validate
	config       *config.Config
	repository   repository.Repository
	translator   ut.Translator
	eventChannel *amqp.Channel // 为 nil 时任务事件只写日志，不发队列
	redisClient  *redis.Client // 为 nil 时不启用优化结果缓存
	timer        *timer.Controller

	runMu sync.Mutex
	runID string // 当前倒计时这一轮的标识，空串表示没有进行中的一轮

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo repository.Repository, eventCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:     validate,
		config:       cfg,
		repository:   repo,
		translator:   trans,
		eventChannel: eventCh,
		redisClient:  rdb,
		timer:        timer.NewController(),

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 任务管理
	h.Mux.Route("/tasks", func(r chi.Router) {
		r.Post("/", h.CreateTask)
		r.Get("/", h.GetAllTasks)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.taskCtx)
			r.Get("/", h.GetTask)
			r.Patch("/", h.UpdateTask)
			r.Patch("/status", h.UpdateTaskStatus)
			r.Delete("/", h.DeleteTask)
		})
	})

	// 任务清单
	h.Mux.Route("/playlists", func(r chi.Router) {
		r.Post("/", h.CreatePlaylist)
		r.Get("/", h.GetAllPlaylists)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.playlistCtx)
			r.Get("/", h.GetPlaylist)
			r.Delete("/", h.DeletePlaylist)
			r.Get("/tasks", h.GetPlaylistTasks)
			r.Post("/tasks", h.AddTaskToPlaylist)
			r.Delete("/tasks/{taskID}", h.RemoveTaskFromPlaylist)
		})
	})

	// 作息设置
	h.Mux.Route("/lifestyle", func(r chi.Router) {
		r.Get("/", h.GetLifestyleSettings)
		r.Put("/", h.UpdateLifestyleSettings)
	})

	// 排程优化与时间表渲染
	h.Mux.Route("/schedule", func(r chi.Router) {
		r.Post("/optimize", h.OptimizeSchedule)
		r.Post("/preview", h.PreviewSchedule)
	})

	// 连续倒计时
	h.Mux.Route("/timer", func(r chi.Router) {
		r.Post("/start", h.StartTimer)
		r.Post("/pause", h.PauseTimer)
		r.Post("/resume", h.ResumeTimer)
		r.Post("/stop", h.StopTimer)
		r.Get("/status", h.GetTimerStatus)
	})

	// 月相
	h.Mux.Get("/moon", h.GetMoonStatus)

	// 目标周期
	h.Mux.Route("/cycles", func(r chi.Router) {
		r.Post("/", h.CreateMoonCycle)
		r.Get("/", h.GetAllMoonCycles)
		r.Get("/active", h.GetActiveMoonCycle)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.moonCycleCtx)
			r.Patch("/review", h.UpdateMoonCycleReview)
			r.Post("/complete", h.CompleteMoonCycle)
		})
	})
}
