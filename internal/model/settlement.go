package model

import "time"

// DefaultFeePerClass цена занятия по умолчанию (в вонах), применяется
// когда тариф не задан или задан некорректно
const DefaultFeePerClass = 50000

// BillingRow строка сверки за месяц: одна строка на уникальную дату заметки.
// ScheduleDate пустая, если занятие прошло, но в расписании его не было.
// Не сохраняется, пересоздаётся при каждой генерации.
type BillingRow struct {
	ID           int    `json:"id"`
	NoteDate     string `json:"note_date"`
	ScheduleDate string `json:"schedule_date"`
}

// SettlementLine одна строка детализации в снимке расчёта
type SettlementLine struct {
	Date     string `json:"date"`
	RoomName string `json:"room_name,omitempty"`
}

// MonthlySettlement снимок расчёта за месяц по одному студенту.
// После установки FinalSave документ неизменяем: правки создают новую
// действующую версию, а не мутируют старую.
type MonthlySettlement struct {
	ID                     string           `json:"id"` // uuid
	StudentName            string           `json:"student_name"`
	TeacherName            string           `json:"teacher_name"`
	YYYYMM                 string           `json:"yyyymm"`
	CarryInCredit          int              `json:"carry_in_credit"`
	ThisMonthActualClasses int              `json:"this_month_actual_classes"`
	NextMonthPlanned       int              `json:"next_month_planned_classes"`
	TotalCreditsAvailable  int              `json:"total_credits_available"`
	NextToPayClasses       int              `json:"next_to_pay_classes"` // может быть отрицательным
	FeePerClass            int              `json:"fee_per_class"`
	AmountDueNext          int              `json:"amount_due_next"` // знак сохраняется
	ThisMonthLines         []SettlementLine `json:"this_month_lines"`
	NextMonthLines         []SettlementLine `json:"next_month_lines"`
	FinalSave              bool             `json:"final_save"`
	SavedAt                time.Time        `json:"saved_at"`
}
