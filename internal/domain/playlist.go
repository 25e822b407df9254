package domain

import "time"

// Playlist: 一组按顺序执行的任务，对应连续倒计时的一次运行
type Playlist struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
