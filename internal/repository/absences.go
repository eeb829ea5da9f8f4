package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/damario-dev/turni-manager/backend/internal/calendar"
	"github.com/damario-dev/turni-manager/backend/internal/domain"
)

// CreateAbsence inserisce l'assenza e azzera la disponibilità già
// dichiarata nei giorni coperti, per entrambi i servizi, nella stessa
// transazione: o tutto o niente. Le righe di disponibilità di settimane
// mai compilate non vengono fabbricate.
func (r *Repository) CreateAbsence(absence *domain.Absence) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Le assenze dello stesso dipendente non possono sovrapporsi
	var overlaps bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM absences
			WHERE user_id = $1 AND start_date <= $3 AND end_date >= $2
		)
	`
	if err := tx.QueryRowContext(ctx, query, absence.UserID, absence.StartDate, absence.EndDate).Scan(&overlaps); err != nil {
		return err
	}
	if overlaps {
		return domain.ErrOverlap
	}

	query = `
		INSERT INTO absences (user_id, start_date, end_date)
		VALUES ($1, $2, $3)
		RETURNING id, status, created_at, version
	`
	if err := tx.QueryRowContext(ctx, query, absence.UserID, absence.StartDate, absence.EndDate).Scan(&absence.ID, &absence.Status, &absence.CreatedAt, &absence.Version); err != nil {
		return err
	}

	for day := absence.StartDate; !day.After(absence.EndDate); day = day.AddDate(0, 0, 1) {
		weekStart := calendar.NormalizeWeekStart(day)
		dayOfWeek := calendar.ToDayIndex(day.Weekday())

		query := `
			UPDATE availabilities
			SET is_available = FALSE
			WHERE user_id = $1 AND week_start = $2 AND day_of_week = $3
		`
		if _, err := tx.ExecContext(ctx, query, absence.UserID, weekStart, dayOfWeek); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) GetAbsenceByID(id int64) (*domain.Absence, error) {
	query := `
		SELECT user_id, start_date, end_date, status, created_at, version
		FROM absences WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	absence := &domain.Absence{
		ID: id,
	}

	dst := []any{&absence.UserID, &absence.StartDate, &absence.EndDate, &absence.Status, &absence.CreatedAt, &absence.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return absence, nil
}

func (r *Repository) scanAbsenceRows(rows *sql.Rows) ([]*domain.Absence, error) {
	absences := make([]*domain.Absence, 0)

	for rows.Next() {
		absence := &domain.Absence{}
		dst := []any{&absence.ID, &absence.UserID, &absence.StartDate, &absence.EndDate, &absence.Status, &absence.CreatedAt, &absence.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		absences = append(absences, absence)
	}

	return absences, rows.Err()
}

func (r *Repository) GetAbsencesByUser(userID int64) ([]*domain.Absence, error) {
	query := `
		SELECT id, user_id, start_date, end_date, status, created_at, version
		FROM absences
		WHERE user_id = $1
		ORDER BY start_date
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanAbsenceRows(rows)
}

func (r *Repository) GetAllAbsences() ([]*domain.Absence, error) {
	query := `
		SELECT id, user_id, start_date, end_date, status, created_at, version
		FROM absences
		ORDER BY start_date, user_id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanAbsenceRows(rows)
}

func (r *Repository) ApproveAbsence(absence *domain.Absence) error {
	query := `
		UPDATE absences
		SET status = 'APPROVED', version = version + 1
		WHERE id = $1 AND status = 'PENDING'
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, absence.ID).Scan(&absence.Version); err != nil {
		return err
	}
	absence.Status = domain.AbsenceStatusApproved

	return nil
}

// DeleteAbsence cancella un'assenza del dipendente indicato, ma solo
// finché è ancora PENDING.
func (r *Repository) DeleteAbsence(id int64, userID int64) error {
	query := `
		DELETE FROM absences WHERE id = $1 AND user_id = $2 AND status = 'PENDING'
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, id, userID)
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
