package handler

import (
	"net/http"

	"github.com/damario-dev/turni-manager/backend/internal/domain"
)

func (h *Handler) GetShiftLimits(w http.ResponseWriter, r *http.Request) {
	limits, err := h.repository.GetAllShiftLimits()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "configurazione dell'organico recuperata", limits)
}

func (h *Handler) ReplaceShiftLimits(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Limits []struct {
			DayOfWeek *int32 `json:"dayOfWeek" validate:"required,min=0,max=6"`
			ShiftType string `json:"shiftType" validate:"required,oneof=PRANZO CENA"`
			Role      string `json:"role" validate:"required,oneof=FATTORINO CUCINA SALA PIZZAIOLO"`
			MinStaff  int32  `json:"minStaff" validate:"min=0"`
			MaxStaff  int32  `json:"maxStaff" validate:"min=0,gtefield=MinStaff"`
		} `json:"limits" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// La stessa fascia non può comparire due volte
	type slot struct {
		day       int32
		shiftType string
		role      string
	}
	seen := make(map[slot]bool)
	for _, l := range req.Limits {
		k := slot{day: *l.DayOfWeek, shiftType: l.ShiftType, role: l.Role}
		if seen[k] {
			h.errorResponse(w, r, "la stessa fascia compare più volte nella configurazione")
			return
		}
		seen[k] = true
	}

	limits := make([]*domain.ShiftLimit, 0, len(req.Limits))
	for _, l := range req.Limits {
		limits = append(limits, &domain.ShiftLimit{
			DayOfWeek: *l.DayOfWeek,
			ShiftType: domain.ShiftType(l.ShiftType),
			Role:      domain.Role(l.Role),
			MinStaff:  l.MinStaff,
			MaxStaff:  l.MaxStaff,
		})
	}

	if err := h.repository.ReplaceShiftLimits(limits); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "configurazione dell'organico aggiornata", limits)
}
