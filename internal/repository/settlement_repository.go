package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Edu-Form/fluent-portal/internal/model"
	"github.com/Edu-Form/fluent-portal/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SettlementRepository struct {
	pool *pgxpool.Pool
}

func NewSettlementRepository(pool *pgxpool.Pool) *SettlementRepository {
	return &SettlementRepository{pool: pool}
}

// Insert добавляет снимок расчёта. Снимки только добавляются, перезаписи нет:
// каждое сохранение — новая строка со своим uuid.
func (r *SettlementRepository) Insert(ctx context.Context, s *model.MonthlySettlement) error {
	thisLines, err := json.Marshal(s.ThisMonthLines)
	if err != nil {
		return fmt.Errorf("marshal this month lines: %w", err)
	}
	nextLines, err := json.Marshal(s.NextMonthLines)
	if err != nil {
		return fmt.Errorf("marshal next month lines: %w", err)
	}

	query := `
		INSERT INTO monthly_settlements (
			id, student_name, teacher_name, yyyymm,
			carry_in_credit, this_month_actual_classes, next_month_planned_classes,
			total_credits_available, next_to_pay_classes, fee_per_class, amount_due_next,
			this_month_lines, next_month_lines, final_save
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING saved_at
	`

	err = r.pool.QueryRow(
		ctx, query,
		s.ID,
		s.StudentName,
		s.TeacherName,
		s.YYYYMM,
		s.CarryInCredit,
		s.ThisMonthActualClasses,
		s.NextMonthPlanned,
		s.TotalCreditsAvailable,
		s.NextToPayClasses,
		s.FeePerClass,
		s.AmountDueNext,
		thisLines,
		nextLines,
		s.FinalSave,
	).Scan(&s.SavedAt)

	if err != nil {
		return fmt.Errorf("insert settlement: %w", err)
	}

	return nil
}

// GetLatest получает последний действующий снимок по студенту за месяц
func (r *SettlementRepository) GetLatest(ctx context.Context, studentName, yyyymm string) (*model.MonthlySettlement, error) {
	query := settlementSelect + `
		WHERE student_name = $1 AND yyyymm = $2
		ORDER BY saved_at DESC
		LIMIT 1
	`

	s, err := r.scanOne(r.pool.QueryRow(ctx, query, studentName, yyyymm))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest settlement: %w", err)
	}

	return s, nil
}

// ListByMonth получает последние снимки всех студентов за месяц.
// DISTINCT ON отбирает действующую (самую свежую) версию на студента.
func (r *SettlementRepository) ListByMonth(ctx context.Context, yyyymm string) ([]*model.MonthlySettlement, error) {
	query := `
		SELECT DISTINCT ON (student_name)
			id, student_name, teacher_name, yyyymm,
			carry_in_credit, this_month_actual_classes, next_month_planned_classes,
			total_credits_available, next_to_pay_classes, fee_per_class, amount_due_next,
			this_month_lines, next_month_lines, final_save, saved_at
		FROM monthly_settlements
		WHERE yyyymm = $1
		ORDER BY student_name, saved_at DESC
	`

	rows, err := r.pool.Query(ctx, query, yyyymm)
	if err != nil {
		return nil, fmt.Errorf("list settlements by month: %w", err)
	}
	defer rows.Close()

	var settlements []*model.MonthlySettlement
	for rows.Next() {
		s, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}
		settlements = append(settlements, s)
	}

	return settlements, nil
}

const settlementSelect = `
		SELECT id, student_name, teacher_name, yyyymm,
			carry_in_credit, this_month_actual_classes, next_month_planned_classes,
			total_credits_available, next_to_pay_classes, fee_per_class, amount_due_next,
			this_month_lines, next_month_lines, final_save, saved_at
		FROM monthly_settlements
`

// scanOne вычитывает один снимок из строки результата
func (r *SettlementRepository) scanOne(row pgx.Row) (*model.MonthlySettlement, error) {
	var s model.MonthlySettlement
	var thisLines, nextLines []byte

	err := row.Scan(
		&s.ID,
		&s.StudentName,
		&s.TeacherName,
		&s.YYYYMM,
		&s.CarryInCredit,
		&s.ThisMonthActualClasses,
		&s.NextMonthPlanned,
		&s.TotalCreditsAvailable,
		&s.NextToPayClasses,
		&s.FeePerClass,
		&s.AmountDueNext,
		&thisLines,
		&nextLines,
		&s.FinalSave,
		&s.SavedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(thisLines) > 0 {
		if err := json.Unmarshal(thisLines, &s.ThisMonthLines); err != nil {
			return nil, fmt.Errorf("unmarshal this month lines: %w", err)
		}
	}
	if len(nextLines) > 0 {
		if err := json.Unmarshal(nextLines, &s.NextMonthLines); err != nil {
			return nil, fmt.Errorf("unmarshal next month lines: %w", err)
		}
	}

	return &s, nil
}
