package repository

import (
	"context"
	"fmt"

	"github.com/Edu-Form/fluent-portal/internal/model"
	"github.com/Edu-Form/fluent-portal/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoomRepository struct {
	pool *pgxpool.Pool
}

func NewRoomRepository(pool *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{pool: pool}
}

// Create создаёт новую комнату
func (r *RoomRepository) Create(ctx context.Context, room *model.Room) error {
	query := `
		INSERT INTO rooms (name)
		VALUES ($1)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, room.Name).Scan(&room.ID, &room.CreatedAt)
	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}

	return nil
}

// List возвращает все комнаты в порядке добавления.
// Этот порядок и есть порядок обхода при подборе свободной комнаты.
func (r *RoomRepository) List(ctx context.Context) ([]*model.Room, error) {
	query := `
		SELECT id, name, created_at
		FROM rooms
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*model.Room
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(&room.ID, &room.Name, &room.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, &room)
	}

	return rooms, nil
}

// GetByName получает комнату по имени
func (r *RoomRepository) GetByName(ctx context.Context, name string) (*model.Room, error) {
	query := `
		SELECT id, name, created_at
		FROM rooms
		WHERE name = $1
	`

	var room model.Room
	err := r.pool.QueryRow(ctx, query, name).Scan(&room.ID, &room.Name, &room.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get room by name: %w", err)
	}

	return &room, nil
}

// Delete удаляет комнату
func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("room not found")
	}
	return nil
}
