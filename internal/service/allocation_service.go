package service

import (
	"context"
	"fmt"

	"github.com/Edu-Form/fluent-portal/internal/dateutil"
	"github.com/Edu-Form/fluent-portal/internal/model"
	"go.uber.org/zap"
)

// AllocationService подбирает и бронирует комнаты под запрошенные занятия
type AllocationService struct {
	rooms     RoomStore
	schedules ScheduleStore
	logger    *zap.Logger
}

func NewAllocationService(rooms RoomStore, schedules ScheduleStore, logger *zap.Logger) *AllocationService {
	return &AllocationService{
		rooms:     rooms,
		schedules: schedules,
		logger:    logger,
	}
}

// AvailableRooms возвращает свободные комнаты на дату и час: полный ростер
// минус комнаты, у которых уже есть запись с точно совпадающими датой и
// часом начала. Пересечение по длительности дальше часа начала намеренно
// не проверяется (поведение исходной системы сохранено).
func (s *AllocationService) AvailableRooms(ctx context.Context, rawDate string, hour int) ([]*model.Room, error) {
	date, ok := dateutil.Normalize(rawDate)
	if !ok {
		return nil, fmt.Errorf("parse date %q: %w", rawDate, ErrInvalidDate)
	}

	roster, err := s.rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	booked, err := s.schedules.GetByDateHour(ctx, date, hour)
	if err != nil {
		return nil, fmt.Errorf("get booked entries: %w", err)
	}

	taken := make(map[string]bool, len(booked))
	for _, entry := range booked {
		taken[entry.RoomName] = true
	}

	var free []*model.Room
	for _, room := range roster {
		if !taken[room.Name] {
			free = append(free, room)
		}
	}

	return free, nil
}

// Allocate бронирует первую свободную комнату в порядке ростера и сразу
// сохраняет запись расписания. Балансировки нагрузки нет: выбор детерминирован.
func (s *AllocationService) Allocate(ctx context.Context, rawDate string, hour, durationHours int, teacherName, studentName string) (*model.ScheduleEntry, error) {
	date, ok := dateutil.Normalize(rawDate)
	if !ok {
		return nil, fmt.Errorf("parse date %q: %w", rawDate, ErrInvalidDate)
	}

	free, err := s.AvailableRooms(ctx, date, hour)
	if err != nil {
		return nil, err
	}

	if len(free) == 0 {
		return nil, fmt.Errorf("allocate %s %02d:00: %w", date, hour, ErrNoAvailableRoom)
	}

	entry := &model.ScheduleEntry{
		Date:          date,
		Hour:          hour,
		DurationHours: durationHours,
		RoomName:      free[0].Name,
		TeacherName:   teacherName,
		StudentName:   studentName,
	}

	if err := s.schedules.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("persist schedule entry: %w", err)
	}

	s.logger.Info("Room allocated",
		zap.Int64("entry_id", entry.ID),
		zap.String("date", date),
		zap.Int("hour", hour),
		zap.String("room", entry.RoomName),
		zap.String("student", studentName),
	)

	return entry, nil
}

// AllocateBatch бронирует комнаты под пачку дат в порядке их следования.
// Каждая успешная аллокация сохраняется сразу, транзакции поверх пачки нет:
// если на пятой дате комнат не осталось, первые четыре остаются
// забронированными. Частичное выполнение — ожидаемый исход, не исключение;
// вызвавший получает уже созданные записи вместе с ошибкой.
func (s *AllocationService) AllocateBatch(ctx context.Context, rawDates []string, hour, durationHours int, teacherName, studentName string) ([]*model.ScheduleEntry, error) {
	var allocated []*model.ScheduleEntry

	for _, rawDate := range rawDates {
		entry, err := s.Allocate(ctx, rawDate, hour, durationHours, teacherName, studentName)
		if err != nil {
			s.logger.Warn("Batch allocation stopped",
				zap.String("date", rawDate),
				zap.Int("allocated_so_far", len(allocated)),
				zap.Error(err),
			)
			return allocated, err
		}
		allocated = append(allocated, entry)
	}

	s.logger.Info("Batch allocation complete",
		zap.Int("count", len(allocated)),
		zap.String("student", studentName),
	)

	return allocated, nil
}
