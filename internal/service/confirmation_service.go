package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Edu-Form/fluent-portal/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// stepSynonyms таблица канонизации имён этапов. Имена приходят из разных
// источников в разных написаниях (camelCase, подчёркивания, дефисы,
// порядковые "1st"/"2nd"), все должны сходиться в четыре идентификатора.
// Ключ — уже приведённое к нижнему регистру имя с подчёркиваниями.
var stepSynonyms = map[string]model.Stage{
	"teacher_confirm":   model.StageTeacherConfirm,
	"teacherconfirm":    model.StageTeacherConfirm,
	"teacher":           model.StageTeacherConfirm,
	"1st_confirm":       model.StageTeacherConfirm,
	"first_confirm":     model.StageTeacherConfirm,
	"admin_confirm":     model.StageAdminConfirm,
	"adminconfirm":      model.StageAdminConfirm,
	"admin":             model.StageAdminConfirm,
	"2nd_confirm":       model.StageAdminConfirm,
	"second_confirm":    model.StageAdminConfirm,
	"message_confirm":   model.StageMessageConfirm,
	"messageconfirm":    model.StageMessageConfirm,
	"message":           model.StageMessageConfirm,
	"message_sent":      model.StageMessageConfirm,
	"payment_confirm":   model.StagePaymentConfirm,
	"paymentconfirm":    model.StagePaymentConfirm,
	"payment":           model.StagePaymentConfirm,
	"paid":              model.StagePaymentConfirm,
	"payment_completed": model.StagePaymentConfirm,
}

// NormalizeStep канонизирует имя этапа через таблицу синонимов
func NormalizeStep(raw string) (model.Stage, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, "-", "_")
	key = strings.ReplaceAll(key, " ", "_")
	stage, ok := stepSynonyms[key]
	return stage, ok
}

// NormalizeStudentName приводит имя студента к виду для сравнения: обрезает
// пробелы, срезает гонорифик "님" и опускает регистр. Два разных написания
// одного студента обязаны сливаться в одно.
func NormalizeStudentName(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.TrimSuffix(name, "님")
	name = strings.TrimSpace(name)
	return strings.ToLower(name)
}

// FirstNotDone возвращает самый ранний в фиксированном порядке этап, который
// ещё не отмечен, и ok=false когда отмечены все четыре
func FirstNotDone(set model.StageSet) (model.Stage, bool) {
	for _, stage := range model.StageOrder {
		if !set[stage] {
			return stage, true
		}
	}
	return "", false
}

// ConfirmationService ведёт четырёхэтапный статус месячного подтверждения
// по студентам как журнал событий
type ConfirmationService struct {
	store  ConfirmationStore
	logger *zap.Logger
}

func NewConfirmationService(store ConfirmationStore, logger *zap.Logger) *ConfirmationService {
	return &ConfirmationService{store: store, logger: logger}
}

// RecordTransition добавляет документ перехода этапа для списка студентов.
// Документы только добавляются; повторный переход того же этапа безвреден —
// свёртка при чтении это объединение множеств.
func (s *ConfirmationService) RecordTransition(ctx context.Context, studentNames []string, stage model.Stage, yyyymm string, meta map[string]string) (*model.ConfirmationStatusDocument, error) {
	if _, ok := NormalizeStep(string(stage)); !ok {
		return nil, fmt.Errorf("record transition %q: %w", stage, ErrUnknownStage)
	}

	doc := &model.ConfirmationStatusDocument{
		ID:           uuid.NewString(),
		Step:         string(stage),
		StudentNames: studentNames,
		YYYYMM:       yyyymm,
		Meta:         meta,
	}

	if err := s.store.Insert(ctx, doc); err != nil {
		return nil, fmt.Errorf("record transition: %w", err)
	}

	s.logger.Info("Confirmation stage recorded",
		zap.String("doc_id", doc.ID),
		zap.String("stage", string(stage)),
		zap.String("yyyymm", yyyymm),
		zap.Int("students", len(studentNames)),
	)

	return doc, nil
}

// ToggleStage отмечает один этап одному студенту (обёртка над RecordTransition
// для покликового UI)
func (s *ConfirmationService) ToggleStage(ctx context.Context, studentName string, stage model.Stage, yyyymm string) (*model.ConfirmationStatusDocument, error) {
	return s.RecordTransition(ctx, []string{studentName}, stage, yyyymm, nil)
}

// DeriveStages заново выводит состояние этапов по всем студентам месяца из
// полного набора документов. Свёртка — чистое объединение множеств, поэтому
// она идемпотентна и не зависит от порядка документов: конкурентные записи
// разных админских сессий сливаются без координации.
func (s *ConfirmationService) DeriveStages(ctx context.Context, yyyymm string) (map[string]model.StageSet, error) {
	docs, err := s.store.ListByMonth(ctx, yyyymm)
	if err != nil {
		return nil, fmt.Errorf("list confirmation documents: %w", err)
	}

	return FoldDocuments(docs), nil
}

// FoldDocuments сворачивает документы в состояние по студентам. Документ с
// неканонизируемым именем этапа пропускается.
func FoldDocuments(docs []*model.ConfirmationStatusDocument) map[string]model.StageSet {
	result := make(map[string]model.StageSet)
	for _, doc := range docs {
		stage, ok := NormalizeStep(doc.Step)
		if !ok {
			continue
		}
		for _, rawName := range doc.StudentNames {
			name := NormalizeStudentName(rawName)
			if name == "" {
				continue
			}
			set, exists := result[name]
			if !exists {
				set = make(model.StageSet)
				result[name] = set
			}
			set[stage] = true
		}
	}
	return result
}
