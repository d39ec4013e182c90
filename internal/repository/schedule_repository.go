package repository

import (
	"context"
	"fmt"

	"github.com/Edu-Form/fluent-portal/internal/model"
	"github.com/Edu-Form/fluent-portal/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ScheduleRepository struct {
	pool *pgxpool.Pool
}

func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

// Create создаёт новую запись расписания
func (r *ScheduleRepository) Create(ctx context.Context, entry *model.ScheduleEntry) error {
	query := `
		INSERT INTO schedule_entries (date, hour, duration_hours, room_name, teacher_name, student_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		entry.Date,
		entry.Hour,
		entry.DurationHours,
		entry.RoomName,
		entry.TeacherName,
		entry.StudentName,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("create schedule entry: %w", err)
	}

	return nil
}

// GetByID получает запись по ID
func (r *ScheduleRepository) GetByID(ctx context.Context, id int64) (*model.ScheduleEntry, error) {
	query := `
		SELECT id, date, hour, duration_hours, room_name, teacher_name, student_name, created_at
		FROM schedule_entries
		WHERE id = $1
	`

	var entry model.ScheduleEntry
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.Date,
		&entry.Hour,
		&entry.DurationHours,
		&entry.RoomName,
		&entry.TeacherName,
		&entry.StudentName,
		&entry.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get schedule entry by id: %w", err)
	}

	return &entry, nil
}

// GetByDateHour получает все записи с точным совпадением даты и часа начала.
// Дата сравнивается как каноническая строка.
func (r *ScheduleRepository) GetByDateHour(ctx context.Context, date string, hour int) ([]*model.ScheduleEntry, error) {
	query := `
		SELECT id, date, hour, duration_hours, room_name, teacher_name, student_name, created_at
		FROM schedule_entries
		WHERE date = $1 AND hour = $2
	`

	rows, err := r.pool.Query(ctx, query, date, hour)
	if err != nil {
		return nil, fmt.Errorf("get schedule entries by date/hour: %w", err)
	}
	defer rows.Close()

	return scanScheduleEntries(rows)
}

// GetByDate получает все записи на дату
func (r *ScheduleRepository) GetByDate(ctx context.Context, date string) ([]*model.ScheduleEntry, error) {
	query := `
		SELECT id, date, hour, duration_hours, room_name, teacher_name, student_name, created_at
		FROM schedule_entries
		WHERE date = $1
		ORDER BY hour
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("get schedule entries by date: %w", err)
	}
	defer rows.Close()

	return scanScheduleEntries(rows)
}

// GetByStudent получает все записи студента. Фильтрация по месяцу делается
// выше, после нормализации дат (в базе могут лежать даты в разных форматах).
func (r *ScheduleRepository) GetByStudent(ctx context.Context, studentName string) ([]*model.ScheduleEntry, error) {
	query := `
		SELECT id, date, hour, duration_hours, room_name, teacher_name, student_name, created_at
		FROM schedule_entries
		WHERE student_name = $1
		ORDER BY date, hour
	`

	rows, err := r.pool.Query(ctx, query, studentName)
	if err != nil {
		return nil, fmt.Errorf("get schedule entries by student: %w", err)
	}
	defer rows.Close()

	return scanScheduleEntries(rows)
}

// GetByDateRange получает все записи в диапазоне канонических дат [from, to].
// Канонический формат сортируется лексикографически как дата.
func (r *ScheduleRepository) GetByDateRange(ctx context.Context, from, to string) ([]*model.ScheduleEntry, error) {
	query := `
		SELECT id, date, hour, duration_hours, room_name, teacher_name, student_name, created_at
		FROM schedule_entries
		WHERE date >= $1 AND date <= $2
		ORDER BY date, hour
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("get schedule entries by range: %w", err)
	}
	defer rows.Close()

	return scanScheduleEntries(rows)
}

// Delete удаляет запись расписания
func (r *ScheduleRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM schedule_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete schedule entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("schedule entry not found")
	}
	return nil
}

// scanScheduleEntries вычитывает записи из курсора
func scanScheduleEntries(rows pgx.Rows) ([]*model.ScheduleEntry, error) {
	var entries []*model.ScheduleEntry
	for rows.Next() {
		var entry model.ScheduleEntry
		err := rows.Scan(
			&entry.ID,
			&entry.Date,
			&entry.Hour,
			&entry.DurationHours,
			&entry.RoomName,
			&entry.TeacherName,
			&entry.StudentName,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan schedule entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	return entries, nil
}
