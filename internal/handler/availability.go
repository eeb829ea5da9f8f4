package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/damario-dev/turni-manager/backend/internal/domain"
	"github.com/damario-dev/turni-manager/backend/internal/utils"
)

func (h *Handler) GetMyWeekAvailability(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	weekStart := r.Context().Value(WeekStartCtx).(time.Time)

	entries, err := h.repository.GetWeekAvailability(myInfo.ID, weekStart)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "disponibilità recuperata", entries)
}

// SetMyWeekAvailability riscrive in blocco la disponibilità della
// settimana. Se la settimana interseca un'assenza registrata si può
// salvare solo il segnaposto di settimana assente.
func (h *Handler) SetMyWeekAvailability(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	weekStart := r.Context().Value(WeekStartCtx).(time.Time)

	var req struct {
		IsAbsentWeek bool `json:"isAbsentWeek"`
		Entries      []struct {
			DayOfWeek   *int32 `json:"dayOfWeek" validate:"required,min=0,max=6"`
			ShiftType   string `json:"shiftType" validate:"required,oneof=PRANZO CENA"`
			IsAvailable bool   `json:"isAvailable"`
		} `json:"entries" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	absences, err := h.repository.GetAbsencesByUser(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := utils.CheckAvailabilityAgainstAbsences(absences, weekStart, req.IsAbsentWeek); err != nil {
		switch {
		case errors.Is(err, domain.ErrOverlap):
			h.errorResponse(w, r, "la settimana interseca un'assenza registrata")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	entries := make([]*domain.Availability, 0, len(req.Entries))
	for _, e := range req.Entries {
		available := e.IsAvailable
		if req.IsAbsentWeek {
			available = false
		}
		entries = append(entries, &domain.Availability{
			DayOfWeek:    *e.DayOfWeek,
			ShiftType:    domain.ShiftType(e.ShiftType),
			IsAvailable:  available,
			IsAbsentWeek: req.IsAbsentWeek,
		})
	}

	if err := h.repository.ReplaceWeekAvailability(myInfo.ID, weekStart, entries); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "availabilities_user_slot_key":
			h.errorResponse(w, r, "la stessa fascia compare più volte nella disponibilità")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "disponibilità salvata", entries)
}
