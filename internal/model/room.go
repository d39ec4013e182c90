package model

import "time"

// Room физическая аудитория. Множество комнат конечно и управляется
// админом, внутреннего состояния кроме имени нет.
type Room struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
