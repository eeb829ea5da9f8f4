package utils

import (
	"fmt"
	"time"

	"github.com/damario-dev/turni-manager/backend/internal/calendar"
	"github.com/damario-dev/turni-manager/backend/internal/domain"
)

// Le guardie di questo file sono funzioni pure: ricevono lo stato già
// letto e l'istante corrente, e restituiscono l'errore di dominio della
// prima regola violata. Le corse tra richieste concorrenti non si
// chiudono qui ma con gli aggiornamenti condizionati del repository:
// queste guardie servono a dare all'utente l'errore giusto.

func ValidateAbsencePeriod(startDate, endDate, now time.Time) error {
	if endDate.Before(startDate) {
		return fmt.Errorf("%w: la data di fine precede quella di inizio", domain.ErrValidation)
	}
	if startDate.Before(calendar.Today(now)) {
		return fmt.Errorf("%w: la data di inizio è nel passato", domain.ErrValidation)
	}
	return nil
}

// AbsenceCoversWeek riporta se l'assenza tocca almeno un giorno della
// settimana che inizia a weekStart.
func AbsenceCoversWeek(absence *domain.Absence, weekStart time.Time) bool {
	weekEnd := calendar.ShiftDate(weekStart, 6)
	return !absence.StartDate.After(weekEnd) && !absence.EndDate.Before(weekStart)
}

// CheckAvailabilityAgainstAbsences blocca il salvataggio della
// disponibilità di una settimana che interseca un'assenza PENDING o
// APPROVED, a meno che l'intera settimana non sia dichiarata come
// segnaposto di assenza.
func CheckAvailabilityAgainstAbsences(absences []*domain.Absence, weekStart time.Time, isAbsentWeek bool) error {
	if isAbsentWeek {
		return nil
	}
	for _, absence := range absences {
		if AbsenceCoversWeek(absence, weekStart) {
			return domain.ErrOverlap
		}
	}
	return nil
}

// CheckShiftPlacement verifica mansione e stato del dipendente prima di
// piazzare un turno. Il doppione sulla stessa fascia non si controlla
// qui: lo chiude il vincolo di unicità a livello di store.
func CheckShiftPlacement(user *domain.User, role domain.Role) error {
	if !user.IsActive {
		return domain.ErrNotActive
	}
	if !user.HasRole(role) {
		return domain.ErrNotEligible
	}
	return nil
}

// SubstitutionDeadline calcola la scadenza della richiesta: l'inizio
// del turno meno l'anticipo configurato. L'invariante portante è che la
// scadenza preceda sempre l'inizio del turno.
func SubstitutionDeadline(shift *domain.Shift, lead time.Duration) (time.Time, error) {
	start, err := calendar.ShiftStart(shift.WeekStart, shift.DayOfWeek, shift.StartTime)
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(-lead), nil
}

// CheckSubstitutionRequest fa da guardia alla creazione: solo il
// titolare corrente del turno può chiedere un sostituto, il turno non
// deve essere già passato e la scadenza calcolata deve essere ancora
// nel futuro.
func CheckSubstitutionRequest(shift *domain.Shift, requester *domain.User, deadline, now time.Time) error {
	if shift.UserID != requester.ID {
		return domain.ErrPermission
	}

	start, err := calendar.ShiftStart(shift.WeekStart, shift.DayOfWeek, shift.StartTime)
	if err != nil {
		return err
	}
	if !now.Before(start) {
		return domain.ErrPastShift
	}
	if !now.Before(deadline) {
		return domain.ErrDeadlinePassed
	}

	return nil
}

// CheckSubstitutionApplication fa da guardia alla candidatura.
// candidateShifts sono i turni del candidato nella settimana del turno
// da coprire.
func CheckSubstitutionApplication(sub *domain.Substitution, shift *domain.Shift, candidate *domain.User, candidateShifts []*domain.Shift, now time.Time) error {
	if candidate.ID == sub.RequesterID {
		return domain.ErrSelfSubstitute
	}

	switch status := sub.EffectiveStatus(now); status {
	case domain.SubstitutionStatusPending:
		// si può procedere
	case domain.SubstitutionStatusExpired:
		return domain.ErrExpired
	default:
		return domain.ErrNotAvailable
	}

	start, err := calendar.ShiftStart(shift.WeekStart, shift.DayOfWeek, shift.StartTime)
	if err != nil {
		return err
	}
	if !now.Before(start) {
		return domain.ErrDeadlinePassed
	}

	if !candidate.IsActive {
		return domain.ErrNotActive
	}
	if !candidate.HasRole(shift.Role) {
		return domain.ErrNotEligible
	}

	for _, cs := range candidateShifts {
		if cs.DayOfWeek == shift.DayOfWeek && cs.ShiftType == shift.ShiftType {
			return domain.ErrConflict
		}
	}

	return nil
}

// CheckSubstitutionApproval: l'approvazione è valida solo da APPLIED.
func CheckSubstitutionApproval(sub *domain.Substitution, now time.Time) error {
	switch sub.EffectiveStatus(now) {
	case domain.SubstitutionStatusApplied:
		return nil
	case domain.SubstitutionStatusExpired:
		return domain.ErrExpired
	default:
		return domain.ErrNotAvailable
	}
}

// CheckSubstitutionRejection: il rifiuto è valido da PENDING o APPLIED.
func CheckSubstitutionRejection(sub *domain.Substitution, now time.Time) error {
	switch sub.EffectiveStatus(now) {
	case domain.SubstitutionStatusPending, domain.SubstitutionStatusApplied:
		return nil
	case domain.SubstitutionStatusExpired:
		return domain.ErrExpired
	default:
		return domain.ErrNotAvailable
	}
}
