package repository

import (
	"context"
	"fmt"

	"github.com/Edu-Form/fluent-portal/internal/model"
	"github.com/Edu-Form/fluent-portal/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClassNoteRepository struct {
	pool *pgxpool.Pool
}

func NewClassNoteRepository(pool *pgxpool.Pool) *ClassNoteRepository {
	return &ClassNoteRepository{pool: pool}
}

// Create создаёт заметку о прошедшем занятии
func (r *ClassNoteRepository) Create(ctx context.Context, note *model.ClassNoteEntry) error {
	query := `
		INSERT INTO class_notes (student_name, teacher_name, date, body_text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		note.StudentName,
		note.TeacherName,
		note.Date,
		note.BodyText,
	).Scan(&note.ID, &note.CreatedAt)

	if err != nil {
		return fmt.Errorf("create class note: %w", err)
	}

	return nil
}

// GetByID получает заметку по ID
func (r *ClassNoteRepository) GetByID(ctx context.Context, id int64) (*model.ClassNoteEntry, error) {
	query := `
		SELECT id, student_name, teacher_name, date, body_text, created_at
		FROM class_notes
		WHERE id = $1
	`

	var note model.ClassNoteEntry
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&note.ID,
		&note.StudentName,
		&note.TeacherName,
		&note.Date,
		&note.BodyText,
		&note.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get class note by id: %w", err)
	}

	return &note, nil
}

// GetByStudent получает все заметки студента. Даты в заметках исторически
// лежат в разных форматах, месяц отфильтровывается выше после нормализации.
func (r *ClassNoteRepository) GetByStudent(ctx context.Context, studentName string) ([]*model.ClassNoteEntry, error) {
	query := `
		SELECT id, student_name, teacher_name, date, body_text, created_at
		FROM class_notes
		WHERE student_name = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, studentName)
	if err != nil {
		return nil, fmt.Errorf("get class notes by student: %w", err)
	}
	defer rows.Close()

	var notes []*model.ClassNoteEntry
	for rows.Next() {
		var note model.ClassNoteEntry
		err := rows.Scan(
			&note.ID,
			&note.StudentName,
			&note.TeacherName,
			&note.Date,
			&note.BodyText,
			&note.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan class note: %w", err)
		}
		notes = append(notes, &note)
	}

	return notes, nil
}

// Delete удаляет заметку
func (r *ClassNoteRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM class_notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete class note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("class note not found")
	}
	return nil
}
