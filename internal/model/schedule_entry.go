package model

import "time"

// ScheduleEntry запланированное занятие: комната занята durationHours часов
// начиная с Hour. Date всегда хранится в каноническом виде "YYYY. MM. DD.".
type ScheduleEntry struct {
	ID            int64     `json:"id"`
	Date          string    `json:"date"`
	Hour          int       `json:"hour"` // 0-23
	DurationHours int       `json:"duration_hours"`
	RoomName      string    `json:"room_name"`
	TeacherName   string    `json:"teacher_name"`
	StudentName   string    `json:"student_name"`
	CreatedAt     time.Time `json:"created_at"`
}
