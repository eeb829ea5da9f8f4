package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/damario-dev/turni-manager/backend/internal/domain"
)

// ReplaceWeekAvailability riscrive in blocco la disponibilità di un
// dipendente per una settimana: prima cancella le righe esistenti, poi
// inserisce quelle nuove, tutto nella stessa transazione. Non esistono
// aggiornamenti parziali osservabili dall'esterno.
func (r *Repository) ReplaceWeekAvailability(userID int64, weekStart time.Time, entries []*domain.Availability) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `DELETE FROM availabilities WHERE user_id = $1 AND week_start = $2`
	if _, err := tx.ExecContext(ctx, query, userID, weekStart); err != nil {
		return err
	}

	for _, entry := range entries {
		query := `
			INSERT INTO availabilities (user_id, week_start, day_of_week, shift_type, is_available, is_absent_week)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`
		args := []any{userID, weekStart, entry.DayOfWeek, entry.ShiftType, entry.IsAvailable, entry.IsAbsentWeek}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
			return err
		}
		entry.UserID = userID
		entry.WeekStart = weekStart
	}

	return tx.Commit()
}

func (r *Repository) scanAvailabilityRows(rows *sql.Rows) ([]*domain.Availability, error) {
	entries := make([]*domain.Availability, 0)

	for rows.Next() {
		entry := &domain.Availability{}
		dst := []any{
			&entry.ID,
			&entry.UserID,
			&entry.WeekStart,
			&entry.DayOfWeek,
			&entry.ShiftType,
			&entry.IsAvailable,
			&entry.IsAbsentWeek,
			&entry.CreatedAt,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (r *Repository) GetWeekAvailability(userID int64, weekStart time.Time) ([]*domain.Availability, error) {
	query := `
		SELECT id, user_id, week_start, day_of_week, shift_type, is_available, is_absent_week, created_at
		FROM availabilities
		WHERE user_id = $1 AND week_start = $2
		ORDER BY day_of_week, shift_type
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID, weekStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanAvailabilityRows(rows)
}

// GetWeekAvailabilityForAllUsers alimenta la schermata di
// pianificazione dell'amministratore.
func (r *Repository) GetWeekAvailabilityForAllUsers(weekStart time.Time) ([]*domain.Availability, error) {
	query := `
		SELECT id, user_id, week_start, day_of_week, shift_type, is_available, is_absent_week, created_at
		FROM availabilities
		WHERE week_start = $1
		ORDER BY user_id, day_of_week, shift_type
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, weekStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanAvailabilityRows(rows)
}
