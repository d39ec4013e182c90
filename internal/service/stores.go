package service

import (
	"context"

	"github.com/Edu-Form/fluent-portal/internal/model"
)

// Интерфейсы хранилищ, которыми пользуются сервисы. Реализуются
// репозиториями из internal/repository, в тестах подменяются фейками.

type RoomStore interface {
	List(ctx context.Context) ([]*model.Room, error)
}

type ScheduleStore interface {
	Create(ctx context.Context, entry *model.ScheduleEntry) error
	GetByDateHour(ctx context.Context, date string, hour int) ([]*model.ScheduleEntry, error)
	GetByStudent(ctx context.Context, studentName string) ([]*model.ScheduleEntry, error)
}

type ClassNoteStore interface {
	GetByStudent(ctx context.Context, studentName string) ([]*model.ClassNoteEntry, error)
}

type SettlementStore interface {
	Insert(ctx context.Context, s *model.MonthlySettlement) error
	GetLatest(ctx context.Context, studentName, yyyymm string) (*model.MonthlySettlement, error)
	ListByMonth(ctx context.Context, yyyymm string) ([]*model.MonthlySettlement, error)
}

type ConfirmationStore interface {
	Insert(ctx context.Context, doc *model.ConfirmationStatusDocument) error
	ListByMonth(ctx context.Context, yyyymm string) ([]*model.ConfirmationStatusDocument, error)
}
