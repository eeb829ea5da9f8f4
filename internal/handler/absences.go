package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/damario-dev/turni-manager/backend/internal/calendar"
	"github.com/damario-dev/turni-manager/backend/internal/domain"
	"github.com/damario-dev/turni-manager/backend/internal/utils"
)

func (h *Handler) RecordAbsence(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		StartDate string `json:"startDate" validate:"required"`
		EndDate   string `json:"endDate" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	startDate, err := calendar.ParseDate(req.StartDate)
	if err != nil {
		h.errorResponse(w, r, "data di inizio non valida, formato atteso YYYY-MM-DD")
		return
	}
	endDate, err := calendar.ParseDate(req.EndDate)
	if err != nil {
		h.errorResponse(w, r, "data di fine non valida, formato atteso YYYY-MM-DD")
		return
	}

	if err := utils.ValidateAbsencePeriod(startDate, endDate, time.Now()); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	absence := &domain.Absence{
		UserID:    myInfo.ID,
		StartDate: startDate,
		EndDate:   endDate,
	}

	if err := h.repository.CreateAbsence(absence); err != nil {
		switch {
		case errors.Is(err, domain.ErrOverlap):
			h.errorResponse(w, r, "il periodo si sovrappone a un'assenza già registrata")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "assenza registrata", absence)
}

func (h *Handler) GetMyAbsences(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	absences, err := h.repository.GetAbsencesByUser(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "assenze recuperate", absences)
}

func (h *Handler) GetAllAbsences(w http.ResponseWriter, r *http.Request) {
	absences, err := h.repository.GetAllAbsences()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "assenze dello staff recuperate", absences)
}

func (h *Handler) ApproveAbsence(w http.ResponseWriter, r *http.Request) {
	absence := r.Context().Value(AbsenceCtx).(*domain.Absence)

	if err := h.repository.ApproveAbsence(absence); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "l'assenza è già stata approvata")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "assenza approvata", absence)
}

// DeleteMyAbsence cancella un'assenza propria, ma solo finché è ancora
// in attesa di approvazione.
func (h *Handler) DeleteMyAbsence(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	absence := r.Context().Value(AbsenceCtx).(*domain.Absence)

	if absence.UserID != myInfo.ID {
		h.errorResponse(w, r, "non puoi cancellare l'assenza di un collega")
		return
	}

	if err := h.repository.DeleteAbsence(absence.ID, myInfo.ID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.errorResponse(w, r, "l'assenza è già stata approvata e non può essere cancellata")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "assenza cancellata", nil)
}
