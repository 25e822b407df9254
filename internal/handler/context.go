package handler

type ContextKey string

var (
	TaskCtxKey      ContextKey = "task"
	PlaylistCtxKey  ContextKey = "playlist"
	MoonCycleCtxKey ContextKey = "moonCycle"
)
