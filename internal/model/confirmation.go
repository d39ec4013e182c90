package model

import "time"

// Stage этап месячного подтверждения оплаты
type Stage string

const (
	StageTeacherConfirm Stage = "teacher_confirm"
	StageAdminConfirm   Stage = "admin_confirm"
	StageMessageConfirm Stage = "message_confirm"
	StagePaymentConfirm Stage = "payment_confirm"
)

// StageOrder фиксированный порядок этапов:
// подтверждение учителя -> подтверждение админа -> сообщение отправлено -> оплата
var StageOrder = []Stage{
	StageTeacherConfirm,
	StageAdminConfirm,
	StageMessageConfirm,
	StagePaymentConfirm,
}

// StageSet множество достигнутых этапов по одному студенту за месяц
type StageSet map[Stage]bool

// DoneCount возвращает число достигнутых этапов (4 = терминальное состояние)
func (s StageSet) DoneCount() int {
	n := 0
	for _, stage := range StageOrder {
		if s[stage] {
			n++
		}
	}
	return n
}

// ConfirmationStatusDocument событие перехода этапа. Документы только
// добавляются (по документу на переход) и никогда не удаляются; текущее
// состояние выводится заново при каждой загрузке как объединение по всем
// документам месяца.
type ConfirmationStatusDocument struct {
	ID           string            `json:"id"` // uuid
	Step         string            `json:"step"` // имя этапа в любом из принимаемых написаний
	StudentNames []string          `json:"student_names"`
	YYYYMM       string            `json:"yyyymm"`
	SavedAt      time.Time         `json:"saved_at"`
	Meta         map[string]string `json:"meta,omitempty"`
}
