package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/damario-dev/turni-manager/backend/internal/calendar"
	"github.com/damario-dev/turni-manager/backend/internal/coverage"
	"github.com/damario-dev/turni-manager/backend/internal/domain"
	"github.com/damario-dev/turni-manager/backend/internal/utils"
)

func (h *Handler) GetWeekSchedule(w http.ResponseWriter, r *http.Request) {
	weekStart := r.Context().Value(WeekStartCtx).(time.Time)

	shifts, err := h.repository.GetShiftsByWeekStart(weekStart)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "turni della settimana recuperati", shifts)
}

func (h *Handler) PlaceShift(w http.ResponseWriter, r *http.Request) {
	weekStart := r.Context().Value(WeekStartCtx).(time.Time)

	var req struct {
		UserID    int64  `json:"userID" validate:"required"`
		DayOfWeek *int32 `json:"dayOfWeek" validate:"required,min=0,max=6"`
		ShiftType string `json:"shiftType" validate:"required,oneof=PRANZO CENA"`
		Role      string `json:"role" validate:"required,oneof=FATTORINO CUCINA SALA PIZZAIOLO"`
		StartTime string `json:"startTime" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if _, err := time.Parse(calendar.TimeLayout, req.StartTime); err != nil {
		h.errorResponse(w, r, "orario di inizio non valido, formato atteso HH:MM")
		return
	}

	endTime := domain.ShiftEndTimes[domain.ShiftType(req.ShiftType)]
	if req.StartTime >= endTime {
		h.errorResponse(w, r, "l'orario di inizio deve precedere la fine del servizio ("+endTime+")")
		return
	}

	user, err := h.repository.GetUserByID(req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "utente non trovato")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := utils.CheckShiftPlacement(user, domain.Role(req.Role)); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotActive), errors.Is(err, domain.ErrNotEligible):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	shift := &domain.Shift{
		UserID:    req.UserID,
		DayOfWeek: *req.DayOfWeek,
		ShiftType: domain.ShiftType(req.ShiftType),
		Role:      domain.Role(req.Role),
		StartTime: req.StartTime,
		EndTime:   endTime,
	}

	if err := h.repository.CreateShift(weekStart, shift); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "shifts_user_slot_key":
			h.errorResponse(w, r, "il dipendente è già assegnato a questa fascia")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "turno assegnato", shift)
}

// DeleteSchedule rimuove l'intera settimana con tutto quello che ci sta
// appeso. L'operazione viene loggata perché è irreversibile.
func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	weekStart := r.Context().Value(WeekStartCtx).(time.Time)
	sub := r.Context().Value(SubCtxKey).(string)

	if err := h.repository.DeleteScheduleByWeekStart(weekStart); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.errorResponse(w, r, "nessuna settimana di turni da eliminare")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	slog.Info("settimana di turni eliminata", "weekStart", weekStart.Format(calendar.DateLayout), "sub", sub)

	h.successResponse(w, r, "settimana di turni eliminata", nil)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	if err := h.repository.DeleteShift(shift.ID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.errorResponse(w, r, "turno non trovato")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "turno eliminato", nil)
}

func (h *Handler) RecordWorkedHours(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	var req struct {
		Hours float64 `json:"hours" validate:"required,gt=0,lte=24"`
		Note  string  `json:"note"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	wh := &domain.WorkedHours{
		ShiftID: shift.ID,
		Hours:   req.Hours,
		Note:    req.Note,
	}

	if err := h.repository.UpsertWorkedHours(wh); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "ore lavorate registrate", wh)
}

func (h *Handler) GetWeekCoverage(w http.ResponseWriter, r *http.Request) {
	weekStart := r.Context().Value(WeekStartCtx).(time.Time)

	limits, err := h.repository.GetAllShiftLimits()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	shifts, err := h.repository.GetShiftsByWeekStart(weekStart)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	report := coverage.Reconcile(weekStart, limits, shifts)

	h.successResponse(w, r, "report di copertura calcolato", report)
}

func (h *Handler) GetWeekAvailabilityForAllUsers(w http.ResponseWriter, r *http.Request) {
	weekStart := r.Context().Value(WeekStartCtx).(time.Time)

	entries, err := h.repository.GetWeekAvailabilityForAllUsers(weekStart)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "disponibilità della settimana recuperate", entries)
}
