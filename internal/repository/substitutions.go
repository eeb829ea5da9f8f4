package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/damario-dev/turni-manager/backend/internal/domain"
)

// expireStaleSubstitutions materializza la scadenza pigra: le richieste
// del turno ancora PENDING o APPLIED con deadline passata diventano
// EXPIRED, liberando l'indice parziale che ammette una sola richiesta
// attiva per turno. Non esiste nessun processo in background che lo
// faccia.
func (r *Repository) expireStaleSubstitutions(ctx context.Context, tx *sql.Tx, shiftID int64) error {
	query := `
		UPDATE substitutions
		SET status = 'EXPIRED', version = version + 1
		WHERE shift_id = $1 AND status IN ('PENDING', 'APPLIED') AND deadline <= NOW()
	`
	_, err := tx.ExecContext(ctx, query, shiftID)
	return err
}

func (r *Repository) CreateSubstitution(sub *domain.Substitution) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := r.expireStaleSubstitutions(ctx, tx, sub.ShiftID); err != nil {
		return err
	}

	query := `
		INSERT INTO substitutions (shift_id, requester_id, request_note, deadline)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, created_at, version
	`

	args := []any{sub.ShiftID, sub.RequesterID, sub.RequestNote, sub.Deadline}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&sub.ID, &sub.Status, &sub.CreatedAt, &sub.Version); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) GetSubstitutionByID(id int64) (*domain.Substitution, error) {
	query := `
		SELECT shift_id, requester_id, substitute_id, status, request_note, response_note, deadline, created_at, version
		FROM substitutions WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	sub := &domain.Substitution{
		ID: id,
	}

	var substituteID sql.NullInt64
	dst := []any{&sub.ShiftID, &sub.RequesterID, &substituteID, &sub.Status, &sub.RequestNote, &sub.ResponseNote, &sub.Deadline, &sub.CreatedAt, &sub.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}
	if substituteID.Valid {
		sub.SubstituteID = &substituteID.Int64
	}

	return sub, nil
}

const substitutionDetailQuery = `
	SELECT sub.id, sub.shift_id, sub.requester_id, sub.substitute_id, sub.status,
		sub.request_note, sub.response_note, sub.deadline, sub.created_at, sub.version,
		s.schedule_id, s.user_id, sc.week_start, s.day_of_week, s.shift_type, s.role,
		s.start_time, s.end_time, s.created_at, s.version
	FROM substitutions sub
	JOIN shifts s ON s.id = sub.shift_id
	JOIN schedules sc ON sc.id = s.schedule_id
`

func (r *Repository) scanSubstitutionDetailRows(rows *sql.Rows) ([]*domain.SubstitutionDetail, error) {
	details := make([]*domain.SubstitutionDetail, 0)

	for rows.Next() {
		detail := &domain.SubstitutionDetail{Shift: &domain.Shift{}}
		var substituteID sql.NullInt64

		dst := []any{
			&detail.ID,
			&detail.ShiftID,
			&detail.RequesterID,
			&substituteID,
			&detail.Status,
			&detail.RequestNote,
			&detail.ResponseNote,
			&detail.Deadline,
			&detail.CreatedAt,
			&detail.Version,
			&detail.Shift.ScheduleID,
			&detail.Shift.UserID,
			&detail.Shift.WeekStart,
			&detail.Shift.DayOfWeek,
			&detail.Shift.ShiftType,
			&detail.Shift.Role,
			&detail.Shift.StartTime,
			&detail.Shift.EndTime,
			&detail.Shift.CreatedAt,
			&detail.Shift.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		detail.Shift.ID = detail.ShiftID
		if substituteID.Valid {
			detail.SubstituteID = &substituteID.Int64
		}

		details = append(details, detail)
	}

	return details, rows.Err()
}

// GetOpenSubstitutions restituisce le richieste ancora aperte alle
// candidature. Il filtro sulla deadline rende la scadenza effettiva
// anche senza materializzarla.
func (r *Repository) GetOpenSubstitutions() ([]*domain.SubstitutionDetail, error) {
	query := substitutionDetailQuery + `
		WHERE sub.status = 'PENDING' AND sub.deadline > NOW()
		ORDER BY sub.deadline
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanSubstitutionDetailRows(rows)
}

func (r *Repository) GetSubstitutionsByRequester(userID int64) ([]*domain.SubstitutionDetail, error) {
	query := substitutionDetailQuery + `
		WHERE sub.requester_id = $1
		ORDER BY sub.created_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanSubstitutionDetailRows(rows)
}

// ApplyToSubstitution esegue la transizione PENDING -> APPLIED come
// singolo aggiornamento condizionato: vince esattamente il primo
// candidato valido, chi perde la corsa riceve ErrNotAvailable. Niente
// read-then-write separati.
func (r *Repository) ApplyToSubstitution(subID int64, substituteID int64) error {
	query := `
		UPDATE substitutions
		SET substitute_id = $1, status = 'APPLIED', version = version + 1
		WHERE id = $2 AND status = 'PENDING' AND deadline > NOW()
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, substituteID, subID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotAvailable
	}

	return nil
}

// ApproveSubstitution chiude la richiesta e riassegna il turno al
// sostituto nella stessa transazione. Valida solo da APPLIED;
// irreversibile.
func (r *Repository) ApproveSubstitution(sub *domain.Substitution, responseNote string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE substitutions
		SET status = 'APPROVED', response_note = $1, version = version + 1
		WHERE id = $2 AND status = 'APPLIED' AND deadline > NOW() AND substitute_id IS NOT NULL
		RETURNING substitute_id, shift_id, version
	`

	var substituteID, shiftID int64
	if err := tx.QueryRowContext(ctx, query, responseNote, sub.ID).Scan(&substituteID, &shiftID, &sub.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotAvailable
		}
		return err
	}

	query = `
		UPDATE shifts SET user_id = $1, version = version + 1 WHERE id = $2
	`
	if _, err := tx.ExecContext(ctx, query, substituteID, shiftID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	sub.Status = domain.SubstitutionStatusApproved
	sub.ResponseNote = responseNote
	sub.SubstituteID = &substituteID

	return nil
}

// RejectSubstitution chiude la richiesta senza toccare il turno: la
// titolarità non era mai cambiata. Il titolare potrà aprirne una nuova.
func (r *Repository) RejectSubstitution(sub *domain.Substitution, responseNote string) error {
	query := `
		UPDATE substitutions
		SET status = 'REJECTED', response_note = $1, version = version + 1
		WHERE id = $2 AND status IN ('PENDING', 'APPLIED') AND deadline > NOW()
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, responseNote, sub.ID).Scan(&sub.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotAvailable
		}
		return err
	}

	sub.Status = domain.SubstitutionStatusRejected
	sub.ResponseNote = responseNote

	return nil
}
