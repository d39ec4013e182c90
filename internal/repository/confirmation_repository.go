package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Edu-Form/fluent-portal/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ConfirmationRepository struct {
	pool *pgxpool.Pool
}

func NewConfirmationRepository(pool *pgxpool.Pool) *ConfirmationRepository {
	return &ConfirmationRepository{pool: pool}
}

// Insert добавляет документ перехода этапа. Документы никогда не удаляются
// и не изменяются: текущее состояние каждый раз выводится заново из всех
// документов месяца.
func (r *ConfirmationRepository) Insert(ctx context.Context, doc *model.ConfirmationStatusDocument) error {
	meta, err := json.Marshal(doc.Meta)
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}

	query := `
		INSERT INTO confirmation_status_documents (id, step, student_names, yyyymm, meta)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING saved_at
	`

	err = r.pool.QueryRow(
		ctx, query,
		doc.ID,
		doc.Step,
		doc.StudentNames,
		doc.YYYYMM,
		meta,
	).Scan(&doc.SavedAt)

	if err != nil {
		return fmt.Errorf("insert confirmation document: %w", err)
	}

	return nil
}

// ListByMonth получает все документы за месяц. Порядок не важен:
// свёртка по документам коммутативна.
func (r *ConfirmationRepository) ListByMonth(ctx context.Context, yyyymm string) ([]*model.ConfirmationStatusDocument, error) {
	query := `
		SELECT id, step, student_names, yyyymm, meta, saved_at
		FROM confirmation_status_documents
		WHERE yyyymm = $1
	`

	rows, err := r.pool.Query(ctx, query, yyyymm)
	if err != nil {
		return nil, fmt.Errorf("list confirmation documents: %w", err)
	}
	defer rows.Close()

	var docs []*model.ConfirmationStatusDocument
	for rows.Next() {
		var doc model.ConfirmationStatusDocument
		var meta []byte

		err := rows.Scan(
			&doc.ID,
			&doc.Step,
			&doc.StudentNames,
			&doc.YYYYMM,
			&meta,
			&doc.SavedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan confirmation document: %w", err)
		}

		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &doc.Meta); err != nil {
				return nil, fmt.Errorf("unmarshal meta: %w", err)
			}
		}

		docs = append(docs, &doc)
	}

	return docs, nil
}
