package service

import (
	"context"
	"errors"
	"time"

	"github.com/Edu-Form/fluent-portal/internal/model"
)

// Фейки хранилищ для юнит-тестов сервисов (база в тестах не поднимается)

type fakeRoomStore struct {
	rooms []*model.Room
	err   error
}

func (f *fakeRoomStore) List(ctx context.Context) ([]*model.Room, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rooms, nil
}

type fakeScheduleStore struct {
	entries []*model.ScheduleEntry
	nextID  int64
	err     error
}

func (f *fakeScheduleStore) Create(ctx context.Context, entry *model.ScheduleEntry) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	entry.ID = f.nextID
	entry.CreatedAt = time.Now()
	clone := *entry
	f.entries = append(f.entries, &clone)
	return nil
}

func (f *fakeScheduleStore) GetByDateHour(ctx context.Context, date string, hour int) ([]*model.ScheduleEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.ScheduleEntry
	for _, entry := range f.entries {
		if entry.Date == date && entry.Hour == hour {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeScheduleStore) GetByStudent(ctx context.Context, studentName string) ([]*model.ScheduleEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.ScheduleEntry
	for _, entry := range f.entries {
		if entry.StudentName == studentName {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeNoteStore struct {
	notes []*model.ClassNoteEntry
	err   error
}

func (f *fakeNoteStore) GetByStudent(ctx context.Context, studentName string) ([]*model.ClassNoteEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.ClassNoteEntry
	for _, note := range f.notes {
		if note.StudentName == studentName {
			out = append(out, note)
		}
	}
	return out, nil
}

type fakeSettlementStore struct {
	settlements []*model.MonthlySettlement
	err         error
}

func (f *fakeSettlementStore) Insert(ctx context.Context, s *model.MonthlySettlement) error {
	if f.err != nil {
		return f.err
	}
	s.SavedAt = time.Now()
	clone := *s
	f.settlements = append(f.settlements, &clone)
	return nil
}

func (f *fakeSettlementStore) GetLatest(ctx context.Context, studentName, yyyymm string) (*model.MonthlySettlement, error) {
	if f.err != nil {
		return nil, f.err
	}
	var latest *model.MonthlySettlement
	for _, s := range f.settlements {
		if s.StudentName == studentName && s.YYYYMM == yyyymm {
			if latest == nil || s.SavedAt.After(latest.SavedAt) {
				latest = s
			}
		}
	}
	return latest, nil
}

func (f *fakeSettlementStore) ListByMonth(ctx context.Context, yyyymm string) ([]*model.MonthlySettlement, error) {
	if f.err != nil {
		return nil, f.err
	}
	latest := make(map[string]*model.MonthlySettlement)
	for _, s := range f.settlements {
		if s.YYYYMM != yyyymm {
			continue
		}
		if prev, ok := latest[s.StudentName]; !ok || s.SavedAt.After(prev.SavedAt) {
			latest[s.StudentName] = s
		}
	}
	var out []*model.MonthlySettlement
	for _, s := range latest {
		out = append(out, s)
	}
	return out, nil
}

type fakeConfirmationStore struct {
	docs []*model.ConfirmationStatusDocument
	err  error
}

func (f *fakeConfirmationStore) Insert(ctx context.Context, doc *model.ConfirmationStatusDocument) error {
	if f.err != nil {
		return f.err
	}
	doc.SavedAt = time.Now()
	clone := *doc
	f.docs = append(f.docs, &clone)
	return nil
}

func (f *fakeConfirmationStore) ListByMonth(ctx context.Context, yyyymm string) ([]*model.ConfirmationStatusDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.ConfirmationStatusDocument
	for _, doc := range f.docs {
		if doc.YYYYMM == yyyymm {
			out = append(out, doc)
		}
	}
	return out, nil
}

var errStore = errors.New("store unavailable")

func rooms(names ...string) []*model.Room {
	out := make([]*model.Room, 0, len(names))
	for i, name := range names {
		out = append(out, &model.Room{ID: int64(i + 1), Name: name})
	}
	return out
}
