package repository

import (
	"context"
	"time"

	"github.com/damario-dev/turni-manager/backend/internal/domain"
)

func (r *Repository) GetAllShiftLimits() ([]*domain.ShiftLimit, error) {
	query := `
		SELECT id, day_of_week, shift_type, role, min_staff, max_staff, version
		FROM shift_limits
		ORDER BY day_of_week, shift_type, role
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	limits := make([]*domain.ShiftLimit, 0)
	for rows.Next() {
		limit := &domain.ShiftLimit{}
		dst := []any{&limit.ID, &limit.DayOfWeek, &limit.ShiftType, &limit.Role, &limit.MinStaff, &limit.MaxStaff, &limit.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		limits = append(limits, limit)
	}

	return limits, rows.Err()
}

// ReplaceShiftLimits riscrive l'intera configurazione dell'organico:
// come per la disponibilità, la tabella è trattata come un unico blocco
// coerente sostituito transazionalmente.
func (r *Repository) ReplaceShiftLimits(limits []*domain.ShiftLimit) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM shift_limits`); err != nil {
		return err
	}

	for _, limit := range limits {
		query := `
			INSERT INTO shift_limits (day_of_week, shift_type, role, min_staff, max_staff)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, version
		`
		args := []any{limit.DayOfWeek, limit.ShiftType, limit.Role, limit.MinStaff, limit.MaxStaff}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&limit.ID, &limit.Version); err != nil {
			return err
		}
	}

	return tx.Commit()
}
