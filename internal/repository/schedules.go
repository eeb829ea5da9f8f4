package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/damario-dev/turni-manager/backend/internal/domain"
)

// ensureSchedule restituisce l'id della schedule della settimana,
// creandola se non esiste ancora: le settimane nascono pigramente al
// primo turno piazzato.
func (r *Repository) ensureSchedule(ctx context.Context, tx *sql.Tx, weekStart time.Time) (int64, error) {
	var id int64

	query := `
		INSERT INTO schedules (week_start) VALUES ($1)
		ON CONFLICT (week_start) DO NOTHING
		RETURNING id
	`
	err := tx.QueryRowContext(ctx, query, weekStart).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	// La schedule esisteva già
	if err := tx.QueryRowContext(ctx, `SELECT id FROM schedules WHERE week_start = $1`, weekStart).Scan(&id); err != nil {
		return 0, err
	}

	return id, nil
}

func (r *Repository) GetScheduleByWeekStart(weekStart time.Time) (*domain.Schedule, error) {
	query := `
		SELECT id, created_at, version FROM schedules WHERE week_start = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	schedule := &domain.Schedule{
		WeekStart: weekStart,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, weekStart).Scan(&schedule.ID, &schedule.CreatedAt, &schedule.Version); err != nil {
		return nil, err
	}

	return schedule, nil
}

func (r *Repository) CreateShift(weekStart time.Time, shift *domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	scheduleID, err := r.ensureSchedule(ctx, tx, weekStart)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO shifts (schedule_id, user_id, day_of_week, shift_type, role, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, version
	`

	args := []any{scheduleID, shift.UserID, shift.DayOfWeek, shift.ShiftType, shift.Role, shift.StartTime, shift.EndTime}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&shift.ID, &shift.CreatedAt, &shift.Version); err != nil {
		return err
	}

	shift.ScheduleID = scheduleID
	shift.WeekStart = weekStart

	return tx.Commit()
}

func (r *Repository) GetShiftByID(id int64) (*domain.Shift, error) {
	query := `
		SELECT s.schedule_id, s.user_id, sc.week_start, s.day_of_week, s.shift_type, s.role,
			s.start_time, s.end_time, s.created_at, s.version
		FROM shifts s
		JOIN schedules sc ON sc.id = s.schedule_id
		WHERE s.id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	shift := &domain.Shift{
		ID: id,
	}

	dst := []any{
		&shift.ScheduleID,
		&shift.UserID,
		&shift.WeekStart,
		&shift.DayOfWeek,
		&shift.ShiftType,
		&shift.Role,
		&shift.StartTime,
		&shift.EndTime,
		&shift.CreatedAt,
		&shift.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return shift, nil
}

func (r *Repository) scanShiftRows(rows *sql.Rows) ([]*domain.Shift, error) {
	shifts := make([]*domain.Shift, 0)

	for rows.Next() {
		shift := &domain.Shift{}
		var wh struct {
			id        sql.NullInt64
			hours     sql.NullFloat64
			note      sql.NullString
			createdAt sql.NullTime
			version   sql.NullInt32
		}

		dst := []any{
			&shift.ID,
			&shift.ScheduleID,
			&shift.UserID,
			&shift.WeekStart,
			&shift.DayOfWeek,
			&shift.ShiftType,
			&shift.Role,
			&shift.StartTime,
			&shift.EndTime,
			&shift.CreatedAt,
			&shift.Version,
			&wh.id,
			&wh.hours,
			&wh.note,
			&wh.createdAt,
			&wh.version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if wh.id.Valid {
			shift.WorkedHours = &domain.WorkedHours{
				ID:        wh.id.Int64,
				ShiftID:   shift.ID,
				Hours:     wh.hours.Float64,
				Note:      wh.note.String,
				CreatedAt: wh.createdAt.Time,
				Version:   wh.version.Int32,
			}
		}

		shifts = append(shifts, shift)
	}

	return shifts, rows.Err()
}

const shiftListQuery = `
	SELECT s.id, s.schedule_id, s.user_id, sc.week_start, s.day_of_week, s.shift_type, s.role,
		s.start_time, s.end_time, s.created_at, s.version,
		wh.id, wh.hours, wh.note, wh.created_at, wh.version
	FROM shifts s
	JOIN schedules sc ON sc.id = s.schedule_id
	LEFT JOIN worked_hours wh ON wh.shift_id = s.id
`

func (r *Repository) GetShiftsByWeekStart(weekStart time.Time) ([]*domain.Shift, error) {
	query := shiftListQuery + `
		WHERE sc.week_start = $1
		ORDER BY s.day_of_week, s.shift_type, s.role, s.id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, weekStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanShiftRows(rows)
}

func (r *Repository) GetShiftsByUserAndWeek(userID int64, weekStart time.Time) ([]*domain.Shift, error) {
	query := shiftListQuery + `
		WHERE s.user_id = $1 AND sc.week_start = $2
		ORDER BY s.day_of_week, s.shift_type, s.id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID, weekStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanShiftRows(rows)
}

// DeleteScheduleByWeekStart elimina la settimana e, in cascata, i suoi
// turni, le richieste di sostituzione e le ore lavorate. Irreversibile.
func (r *Repository) DeleteScheduleByWeekStart(weekStart time.Time) error {
	query := `
		DELETE FROM schedules WHERE week_start = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, weekStart)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *Repository) DeleteShift(id int64) error {
	query := `
		DELETE FROM shifts WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *Repository) UpsertWorkedHours(wh *domain.WorkedHours) error {
	query := `
		INSERT INTO worked_hours (shift_id, hours, note)
		VALUES ($1, $2, $3)
		ON CONFLICT (shift_id) DO UPDATE
		SET hours = EXCLUDED.hours, note = EXCLUDED.note, version = worked_hours.version + 1
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, wh.ShiftID, wh.Hours, wh.Note).Scan(&wh.ID, &wh.CreatedAt, &wh.Version); err != nil {
		return err
	}

	return nil
}
