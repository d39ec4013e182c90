package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/Edu-Form/fluent-portal/internal/dateutil"
	"github.com/Edu-Form/fluent-portal/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BillingService сверяет заметки о занятиях с расписанием и собирает
// месячные снимки расчёта
type BillingService struct {
	notes       ClassNoteStore
	schedules   ScheduleStore
	settlements SettlementStore
	allocator   *AllocationService
	logger      *zap.Logger
}

func NewBillingService(
	notes ClassNoteStore,
	schedules ScheduleStore,
	settlements SettlementStore,
	allocator *AllocationService,
	logger *zap.Logger,
) *BillingService {
	return &BillingService{
		notes:       notes,
		schedules:   schedules,
		settlements: settlements,
		allocator:   allocator,
		logger:      logger,
	}
}

// ReconcileMonth строит таблицу сверки за месяц: по строке на каждую
// уникальную дату заметки, в возрастающем порядке. ScheduleDate заполнена,
// если на ту же дату есть запись расписания, иначе пустая — "занятие
// прошло, но запланировано не было".
//
// Заметка с нечитаемой датой молча выпадает из рассмотрения (строка просто
// не появляется). Ошибки чтения истории деградируют до пустого результата,
// чтобы не ронять весь экран.
func (s *BillingService) ReconcileMonth(ctx context.Context, studentName, monthAnchor string) ([]model.BillingRow, error) {
	anchor, ok := dateutil.Parse(monthAnchor)
	if !ok {
		return nil, fmt.Errorf("parse month anchor %q: %w", monthAnchor, ErrInvalidDate)
	}

	noteDates := s.noteDatesInMonth(ctx, studentName, anchor)
	scheduleSet := s.scheduleDateSet(ctx, studentName, anchor)

	rows := make([]model.BillingRow, 0, len(noteDates))
	for i, date := range noteDates {
		row := model.BillingRow{ID: i + 1, NoteDate: date}
		if scheduleSet[date] {
			row.ScheduleDate = date
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// noteDatesInMonth собирает уникальные нормализованные даты заметок студента
// за месяц, по возрастанию
func (s *BillingService) noteDatesInMonth(ctx context.Context, studentName string, anchor dateutil.CalendarDate) []string {
	notes, err := s.notes.GetByStudent(ctx, studentName)
	if err != nil {
		s.logger.Warn("Failed to load class notes, treating as empty",
			zap.String("student", studentName),
			zap.Error(err),
		)
		return nil
	}

	seen := make(map[string]bool)
	var dates []string
	for _, note := range notes {
		d, ok := dateutil.Parse(note.Date)
		if !ok || !d.SameMonth(anchor) {
			continue
		}
		canonical := d.Format()
		if seen[canonical] {
			continue
		}
		seen[canonical] = true
		dates = append(dates, canonical)
	}

	// канонический формат сортируется лексикографически как дата
	sort.Strings(dates)
	return dates
}

// scheduleDateSet собирает множество нормализованных дат расписания студента
// за месяц
func (s *BillingService) scheduleDateSet(ctx context.Context, studentName string, anchor dateutil.CalendarDate) map[string]bool {
	entries, err := s.schedules.GetByStudent(ctx, studentName)
	if err != nil {
		s.logger.Warn("Failed to load schedule entries, treating as empty",
			zap.String("student", studentName),
			zap.Error(err),
		)
		return nil
	}

	set := make(map[string]bool)
	for _, entry := range entries {
		d, ok := dateutil.Parse(entry.Date)
		if ok && d.SameMonth(anchor) {
			set[d.Format()] = true
		}
	}
	return set
}

// MatchOrCreate закрывает строку сверки без расписания: если запись на эту
// дату у студента всё-таки есть — привязывает её, иначе синтезирует новую
// через аллокатор с переданными по умолчанию часом и длительностью.
func (s *BillingService) MatchOrCreate(ctx context.Context, studentName, teacherName string, row model.BillingRow, defaultHour, defaultDuration int) (*model.ScheduleEntry, error) {
	date, ok := dateutil.Normalize(row.NoteDate)
	if !ok {
		return nil, fmt.Errorf("parse row date %q: %w", row.NoteDate, ErrInvalidDate)
	}

	entries, err := s.schedules.GetByStudent(ctx, studentName)
	if err != nil {
		return nil, fmt.Errorf("get schedule entries: %w", err)
	}
	for _, entry := range entries {
		if normalized, ok := dateutil.Normalize(entry.Date); ok && normalized == date {
			return entry, nil
		}
	}

	entry, err := s.allocator.Allocate(ctx, date, defaultHour, defaultDuration, teacherName, studentName)
	if err != nil {
		return nil, fmt.Errorf("synthesize schedule entry: %w", err)
	}

	s.logger.Info("Schedule entry synthesized for unmatched class note",
		zap.String("student", studentName),
		zap.String("date", date),
	)

	return entry, nil
}

// BuildSettlementRequest параметры сборки месячного снимка
type BuildSettlementRequest struct {
	StudentName string
	TeacherName string
	MonthAnchor string // любая дата целевого месяца в принимаемом формате
	FeePerClass int    // 0 = тариф по умолчанию
	// CarryInCredit перекрывает перенос кредитов. Если nil, перенос берётся
	// из последнего снимка предыдущего месяца (оплаченный план на этот месяц).
	CarryInCredit *int
	FinalSave     bool
}

// BuildMonthlySettlement собирает снимок расчёта в режиме carryover:
// фактические занятия месяца из сверки, план следующего месяца из
// расписания, перенос кредитов из прошлого снимка (или переопределения).
func (s *BillingService) BuildMonthlySettlement(ctx context.Context, req BuildSettlementRequest) (*model.MonthlySettlement, error) {
	anchor, ok := dateutil.Parse(req.MonthAnchor)
	if !ok {
		return nil, fmt.Errorf("parse month anchor %q: %w", req.MonthAnchor, ErrInvalidDate)
	}
	nextMonth := anchor.AddMonths(1)

	rows, err := s.ReconcileMonth(ctx, req.StudentName, req.MonthAnchor)
	if err != nil {
		return nil, err
	}

	thisLines := make([]model.SettlementLine, 0, len(rows))
	for _, row := range rows {
		thisLines = append(thisLines, model.SettlementLine{Date: row.NoteDate})
	}

	nextLines := s.plannedLines(ctx, req.StudentName, nextMonth)

	carryIn := 0
	if req.CarryInCredit != nil {
		carryIn = *req.CarryInCredit
	} else {
		prev, err := s.settlements.GetLatest(ctx, req.StudentName, anchor.AddMonths(-1).YYYYMM())
		if err != nil {
			return nil, fmt.Errorf("get previous settlement: %w", err)
		}
		if prev != nil {
			// прошлый снимок оплатил план на текущий месяц целиком
			carryIn = prev.NextMonthPlanned
		}
	}

	result := ComputeCarryover(carryIn, len(thisLines), len(nextLines), req.FeePerClass)

	return &model.MonthlySettlement{
		StudentName:            req.StudentName,
		TeacherName:            req.TeacherName,
		YYYYMM:                 anchor.YYYYMM(),
		CarryInCredit:          carryIn,
		ThisMonthActualClasses: len(thisLines),
		NextMonthPlanned:       len(nextLines),
		TotalCreditsAvailable:  result.TotalCreditsAvailable,
		NextToPayClasses:       result.NextToPayClasses,
		FeePerClass:            result.FeePerClass,
		AmountDueNext:          result.AmountDueNext,
		ThisMonthLines:         thisLines,
		NextMonthLines:         nextLines,
		FinalSave:              req.FinalSave,
	}, nil
}

// plannedLines собирает строки плана студента на месяц
func (s *BillingService) plannedLines(ctx context.Context, studentName string, month dateutil.CalendarDate) []model.SettlementLine {
	entries, err := s.schedules.GetByStudent(ctx, studentName)
	if err != nil {
		s.logger.Warn("Failed to load planned entries, treating as empty",
			zap.String("student", studentName),
			zap.Error(err),
		)
		return nil
	}

	var lines []model.SettlementLine
	for _, entry := range entries {
		d, ok := dateutil.Parse(entry.Date)
		if ok && d.SameMonth(month) {
			lines = append(lines, model.SettlementLine{Date: d.Format(), RoomName: entry.RoomName})
		}
	}

	sort.Slice(lines, func(i, j int) bool { return lines[i].Date < lines[j].Date })
	return lines
}

// SaveSettlement сохраняет снимок расчёта. Запись всегда добавляется, а не
// перезаписывается: финализированный снимок неизменяем, правка создаёт
// новую действующую версию.
func (s *BillingService) SaveSettlement(ctx context.Context, settlement *model.MonthlySettlement) (string, error) {
	settlement.ID = uuid.NewString()

	if err := s.settlements.Insert(ctx, settlement); err != nil {
		return "", fmt.Errorf("save settlement: %w", err)
	}

	s.logger.Info("Settlement saved",
		zap.String("settlement_id", settlement.ID),
		zap.String("student", settlement.StudentName),
		zap.String("yyyymm", settlement.YYYYMM),
		zap.Int("amount_due_next", settlement.AmountDueNext),
		zap.Bool("final_save", settlement.FinalSave),
	)

	return settlement.ID, nil
}

// GetLatestSettlement отдаёт действующий снимок студента за месяц
func (s *BillingService) GetLatestSettlement(ctx context.Context, studentName, yyyymm string) (*model.MonthlySettlement, error) {
	return s.settlements.GetLatest(ctx, studentName, yyyymm)
}

// ListSettlements отдаёт действующие снимки всех студентов за месяц
func (s *BillingService) ListSettlements(ctx context.Context, yyyymm string) ([]*model.MonthlySettlement, error) {
	return s.settlements.ListByMonth(ctx, yyyymm)
}
