package model

import "time"

// ClassNoteEntry запись о фактически прошедшем занятии. Заметка пишется
// учителем после урока; само её наличие на дату и означает "занятие было",
// независимо от того, есть ли на эту дату ScheduleEntry.
type ClassNoteEntry struct {
	ID          int64     `json:"id"`
	StudentName string    `json:"student_name"`
	TeacherName string    `json:"teacher_name"`
	Date        string    `json:"date"` // канонический вид "YYYY. MM. DD."
	BodyText    string    `json:"body_text"`
	CreatedAt   time.Time `json:"created_at"`
}
