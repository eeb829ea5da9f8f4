package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/damario-dev/turni-manager/backend/internal/calendar"
	"github.com/damario-dev/turni-manager/backend/internal/domain"
	"github.com/damario-dev/turni-manager/backend/internal/utils"
)

func (h *Handler) RequestSubstitution(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	var req struct {
		Note string `json:"note"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	lead := time.Duration(h.config.Substitution.DeadlineLeadHours) * time.Hour
	deadline, err := utils.SubstitutionDeadline(shift, lead)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := utils.CheckSubstitutionRequest(shift, myInfo, deadline, time.Now()); err != nil {
		switch {
		case errors.Is(err, domain.ErrPermission):
			h.errorResponse(w, r, "solo il titolare del turno può chiedere un sostituto")
		case errors.Is(err, domain.ErrPastShift), errors.Is(err, domain.ErrDeadlinePassed):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	sub := &domain.Substitution{
		ShiftID:     shift.ID,
		RequesterID: myInfo.ID,
		RequestNote: req.Note,
		Deadline:    deadline,
	}

	if err := h.repository.CreateSubstitution(sub); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "substitutions_one_active_per_shift":
			h.errorResponse(w, r, "esiste già una richiesta attiva per questo turno")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.notify(domain.NotificationMessage{
		Type: "substitution_requested",
		To:   h.config.Notification.GroupEmail,
		Data: domain.SubstitutionRequestedNotificationData{
			RequesterName: myInfo.FullName,
			ShiftDate:     calendar.ShiftDate(shift.WeekStart, shift.DayOfWeek).Format(calendar.DateLayout),
			ShiftType:     string(shift.ShiftType),
			Role:          string(shift.Role),
			StartTime:     shift.StartTime,
			Deadline:      deadline.Format(time.RFC3339),
			Note:          req.Note,
		},
	})

	h.successResponse(w, r, "richiesta di sostituzione creata", sub)
}

// GetSubstitutions restituisce le richieste aperte a cui ci si può
// candidare (escluse le proprie) e le richieste fatte da chi chiama.
// Lo stato mostrato è sempre quello effettivo al momento della lettura.
func (h *Handler) GetSubstitutions(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	now := time.Now()

	open, err := h.repository.GetOpenSubstitutions()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	available := make([]*domain.SubstitutionDetail, 0, len(open))
	for _, detail := range open {
		if detail.RequesterID == myInfo.ID {
			continue
		}
		detail.Status = detail.EffectiveStatus(now)
		available = append(available, detail)
	}

	mine, err := h.repository.GetSubstitutionsByRequester(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	for _, detail := range mine {
		detail.Status = detail.EffectiveStatus(now)
	}

	h.successResponse(w, r, "richieste di sostituzione recuperate", map[string]any{
		"open": available,
		"mine": mine,
	})
}

func (h *Handler) GetSubstitution(w http.ResponseWriter, r *http.Request) {
	sub := r.Context().Value(SubstitutionCtx).(*domain.Substitution)
	sub.Status = sub.EffectiveStatus(time.Now())

	h.successResponse(w, r, "richiesta di sostituzione recuperata", sub)
}

func (h *Handler) ApplyForSubstitution(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	sub := r.Context().Value(SubstitutionCtx).(*domain.Substitution)

	shift, err := h.repository.GetShiftByID(sub.ShiftID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	candidateShifts, err := h.repository.GetShiftsByUserAndWeek(myInfo.ID, shift.WeekStart)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := utils.CheckSubstitutionApplication(sub, shift, myInfo, candidateShifts, time.Now()); err != nil {
		switch {
		case errors.Is(err, domain.ErrSelfSubstitute),
			errors.Is(err, domain.ErrExpired),
			errors.Is(err, domain.ErrNotAvailable),
			errors.Is(err, domain.ErrDeadlinePassed),
			errors.Is(err, domain.ErrNotActive),
			errors.Is(err, domain.ErrNotEligible),
			errors.Is(err, domain.ErrConflict):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// L'aggiornamento condizionato chiude la corsa tra più candidati:
	// vince il primo, gli altri ricevono ErrNotAvailable.
	if err := h.repository.ApplyToSubstitution(sub.ID, myInfo.ID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotAvailable):
			h.errorResponse(w, r, "un collega si è già candidato per questo turno")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	sub.Status = domain.SubstitutionStatusApplied
	sub.SubstituteID = &myInfo.ID

	requester, err := h.repository.GetUserByID(sub.RequesterID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.notify(domain.NotificationMessage{
		Type: "substitution_applied",
		To:   h.config.Notification.GroupEmail,
		Data: domain.SubstitutionAppliedNotificationData{
			SubstituteName: myInfo.FullName,
			RequesterName:  requester.FullName,
			ShiftDate:      calendar.ShiftDate(shift.WeekStart, shift.DayOfWeek).Format(calendar.DateLayout),
			ShiftType:      string(shift.ShiftType),
			Role:           string(shift.Role),
		},
	})

	h.successResponse(w, r, "candidatura registrata", sub)
}

func (h *Handler) ApproveSubstitution(w http.ResponseWriter, r *http.Request) {
	sub := r.Context().Value(SubstitutionCtx).(*domain.Substitution)

	var req struct {
		Note string `json:"note"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := utils.CheckSubstitutionApproval(sub, time.Now()); err != nil {
		switch {
		case errors.Is(err, domain.ErrExpired), errors.Is(err, domain.ErrNotAvailable):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.repository.ApproveSubstitution(sub, req.Note); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotAvailable):
			h.errorResponse(w, r, "la richiesta non è più approvabile")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "sostituzione approvata, il turno è stato riassegnato", sub)
}

func (h *Handler) RejectSubstitution(w http.ResponseWriter, r *http.Request) {
	sub := r.Context().Value(SubstitutionCtx).(*domain.Substitution)

	var req struct {
		Note string `json:"note"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := utils.CheckSubstitutionRejection(sub, time.Now()); err != nil {
		switch {
		case errors.Is(err, domain.ErrExpired), errors.Is(err, domain.ErrNotAvailable):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.repository.RejectSubstitution(sub, req.Note); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotAvailable):
			h.errorResponse(w, r, "la richiesta non è più rifiutabile")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "sostituzione rifiutata", sub)
}
