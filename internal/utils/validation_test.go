package utils

import (
	"testing"
	"time"

	"github.com/damario-dev/turni-manager/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Settimana di riferimento: lunedì 2025-09-29.
var weekStart = time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func activeUser(id int64, roles ...domain.Role) *domain.User {
	return &domain.User{ID: id, IsActive: true, Roles: roles, PrimaryRole: roles[0]}
}

func mondayLunchShift(userID int64) *domain.Shift {
	return &domain.Shift{
		ID:        10,
		UserID:    userID,
		WeekStart: weekStart,
		DayOfWeek: 0,
		ShiftType: domain.ShiftTypePranzo,
		Role:      domain.RoleFattorino,
		StartTime: "12:00",
		EndTime:   "14:00",
	}
}

func TestValidateAbsencePeriod(t *testing.T) {
	now := time.Date(2025, 9, 20, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{"periodo valido", date(2025, 9, 22), date(2025, 9, 24), nil},
		{"un solo giorno", date(2025, 9, 22), date(2025, 9, 22), nil},
		{"inizia oggi", date(2025, 9, 20), date(2025, 9, 21), nil},
		{"fine prima dell'inizio", date(2025, 9, 24), date(2025, 9, 22), domain.ErrValidation},
		{"inizio nel passato", date(2025, 9, 19), date(2025, 9, 22), domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAbsencePeriod(tt.start, tt.end, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestAbsenceCoversWeek(t *testing.T) {
	tests := []struct {
		name string
		abs  *domain.Absence
		want bool
	}{
		{"dentro la settimana", &domain.Absence{StartDate: date(2025, 9, 30), EndDate: date(2025, 10, 2)}, true},
		{"a cavallo dell'inizio", &domain.Absence{StartDate: date(2025, 9, 25), EndDate: date(2025, 9, 29)}, true},
		{"a cavallo della fine", &domain.Absence{StartDate: date(2025, 10, 5), EndDate: date(2025, 10, 8)}, true},
		{"settimana precedente", &domain.Absence{StartDate: date(2025, 9, 22), EndDate: date(2025, 9, 28)}, false},
		{"settimana successiva", &domain.Absence{StartDate: date(2025, 10, 6), EndDate: date(2025, 10, 7)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AbsenceCoversWeek(tt.abs, weekStart))
		})
	}
}

func TestCheckAvailabilityAgainstAbsences(t *testing.T) {
	overlapping := []*domain.Absence{{StartDate: date(2025, 9, 30), EndDate: date(2025, 10, 1), Status: domain.AbsenceStatusPending}}

	assert.ErrorIs(t, CheckAvailabilityAgainstAbsences(overlapping, weekStart, false), domain.ErrOverlap)
	// il segnaposto di settimana assente bypassa il controllo
	assert.NoError(t, CheckAvailabilityAgainstAbsences(overlapping, weekStart, true))
	assert.NoError(t, CheckAvailabilityAgainstAbsences(nil, weekStart, false))
}

func TestCheckShiftPlacement(t *testing.T) {
	fattorino := activeUser(1, domain.RoleFattorino)
	inactive := &domain.User{ID: 2, IsActive: false, Roles: []domain.Role{domain.RoleFattorino}}

	assert.NoError(t, CheckShiftPlacement(fattorino, domain.RoleFattorino))
	assert.ErrorIs(t, CheckShiftPlacement(fattorino, domain.RoleCucina), domain.ErrNotEligible)
	assert.ErrorIs(t, CheckShiftPlacement(inactive, domain.RoleFattorino), domain.ErrNotActive)
}

func TestSubstitutionDeadline(t *testing.T) {
	shift := mondayLunchShift(1)

	deadline, err := SubstitutionDeadline(shift, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 9, 28, 12, 0, 0, 0, time.UTC), deadline)

	// la scadenza precede sempre l'inizio del turno
	start := time.Date(2025, 9, 29, 12, 0, 0, 0, time.UTC)
	assert.True(t, deadline.Before(start))
}

func TestCheckSubstitutionRequest(t *testing.T) {
	owner := activeUser(1, domain.RoleFattorino)
	other := activeUser(2, domain.RoleFattorino)
	shift := mondayLunchShift(owner.ID)
	deadline := time.Date(2025, 9, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		requester *domain.User
		now       time.Time
		wantErr   error
	}{
		{"titolare in tempo", owner, time.Date(2025, 9, 26, 9, 0, 0, 0, time.UTC), nil},
		{"non titolare", other, time.Date(2025, 9, 26, 9, 0, 0, 0, time.UTC), domain.ErrPermission},
		{"turno già iniziato", owner, time.Date(2025, 9, 29, 12, 0, 0, 0, time.UTC), domain.ErrPastShift},
		{"turno già passato", owner, time.Date(2025, 10, 2, 9, 0, 0, 0, time.UTC), domain.ErrPastShift},
		{"dentro la finestra di anticipo", owner, time.Date(2025, 9, 28, 20, 0, 0, 0, time.UTC), domain.ErrDeadlinePassed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSubstitutionRequest(shift, tt.requester, deadline, tt.now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCheckSubstitutionApplication(t *testing.T) {
	requester := activeUser(1, domain.RoleFattorino)
	shift := mondayLunchShift(requester.ID)
	deadline := time.Date(2025, 9, 28, 12, 0, 0, 0, time.UTC)
	now := time.Date(2025, 9, 27, 9, 0, 0, 0, time.UTC)

	pending := func() *domain.Substitution {
		return &domain.Substitution{
			ID:          5,
			ShiftID:     shift.ID,
			RequesterID: requester.ID,
			Status:      domain.SubstitutionStatusPending,
			Deadline:    deadline,
		}
	}

	t.Run("candidato idoneo", func(t *testing.T) {
		candidate := activeUser(2, domain.RoleFattorino)
		assert.NoError(t, CheckSubstitutionApplication(pending(), shift, candidate, nil, now))
	})

	t.Run("richiedente che si auto-candida", func(t *testing.T) {
		assert.ErrorIs(t, CheckSubstitutionApplication(pending(), shift, requester, nil, now), domain.ErrSelfSubstitute)
	})

	t.Run("richiesta già candidata", func(t *testing.T) {
		sub := pending()
		sub.Status = domain.SubstitutionStatusApplied
		candidate := activeUser(3, domain.RoleFattorino)
		assert.ErrorIs(t, CheckSubstitutionApplication(sub, shift, candidate, nil, now), domain.ErrNotAvailable)
	})

	t.Run("richiesta risolta", func(t *testing.T) {
		sub := pending()
		sub.Status = domain.SubstitutionStatusRejected
		candidate := activeUser(3, domain.RoleFattorino)
		assert.ErrorIs(t, CheckSubstitutionApplication(sub, shift, candidate, nil, now), domain.ErrNotAvailable)
	})

	t.Run("deadline passata: scaduta in lettura", func(t *testing.T) {
		candidate := activeUser(2, domain.RoleFattorino)
		late := time.Date(2025, 9, 28, 12, 0, 0, 0, time.UTC)
		assert.ErrorIs(t, CheckSubstitutionApplication(pending(), shift, candidate, nil, late), domain.ErrExpired)
	})

	t.Run("mansione mancante", func(t *testing.T) {
		candidate := activeUser(2, domain.RoleCucina)
		assert.ErrorIs(t, CheckSubstitutionApplication(pending(), shift, candidate, nil, now), domain.ErrNotEligible)
	})

	t.Run("candidato non attivo", func(t *testing.T) {
		candidate := &domain.User{ID: 2, IsActive: false, Roles: []domain.Role{domain.RoleFattorino}}
		assert.ErrorIs(t, CheckSubstitutionApplication(pending(), shift, candidate, nil, now), domain.ErrNotActive)
	})

	t.Run("turno in conflitto nella stessa fascia", func(t *testing.T) {
		candidate := activeUser(2, domain.RoleFattorino)
		conflicting := []*domain.Shift{{
			UserID: candidate.ID, WeekStart: weekStart, DayOfWeek: 0,
			ShiftType: domain.ShiftTypePranzo, Role: domain.RoleSala,
		}}
		assert.ErrorIs(t, CheckSubstitutionApplication(pending(), shift, candidate, conflicting, now), domain.ErrConflict)
	})

	t.Run("turno in altra fascia non è un conflitto", func(t *testing.T) {
		candidate := activeUser(2, domain.RoleFattorino)
		elsewhere := []*domain.Shift{{
			UserID: candidate.ID, WeekStart: weekStart, DayOfWeek: 0,
			ShiftType: domain.ShiftTypeCena, Role: domain.RoleFattorino,
		}}
		assert.NoError(t, CheckSubstitutionApplication(pending(), shift, candidate, elsewhere, now))
	})
}

func TestCheckSubstitutionApprovalAndRejection(t *testing.T) {
	deadline := time.Date(2025, 9, 28, 12, 0, 0, 0, time.UTC)
	now := time.Date(2025, 9, 27, 9, 0, 0, 0, time.UTC)

	sub := func(status domain.SubstitutionStatus) *domain.Substitution {
		return &domain.Substitution{Status: status, Deadline: deadline}
	}

	// approvazione: solo da APPLIED
	assert.NoError(t, CheckSubstitutionApproval(sub(domain.SubstitutionStatusApplied), now))
	assert.ErrorIs(t, CheckSubstitutionApproval(sub(domain.SubstitutionStatusPending), now), domain.ErrNotAvailable)
	assert.ErrorIs(t, CheckSubstitutionApproval(sub(domain.SubstitutionStatusApproved), now), domain.ErrNotAvailable)
	assert.ErrorIs(t, CheckSubstitutionApproval(sub(domain.SubstitutionStatusApplied), deadline), domain.ErrExpired)

	// rifiuto: da PENDING o APPLIED
	assert.NoError(t, CheckSubstitutionRejection(sub(domain.SubstitutionStatusPending), now))
	assert.NoError(t, CheckSubstitutionRejection(sub(domain.SubstitutionStatusApplied), now))
	assert.ErrorIs(t, CheckSubstitutionRejection(sub(domain.SubstitutionStatusRejected), now), domain.ErrNotAvailable)
	assert.ErrorIs(t, CheckSubstitutionRejection(sub(domain.SubstitutionStatusPending), deadline), domain.ErrExpired)
}

// Scenario completo: la settimana inizia lunedì 2025-09-29. X ha un
// turno PRANZO/FATTORINO il lunedì e chiede un sostituto; Y (idoneo e
// libero) si candida; l'amministratore approva; Z arriva dopo e trova
// la richiesta non più disponibile.
func TestSubstitutionScenario(t *testing.T) {
	x := activeUser(1, domain.RoleFattorino)
	y := activeUser(2, domain.RoleFattorino)
	z := activeUser(3, domain.RoleFattorino)
	shift := mondayLunchShift(x.ID)

	now := time.Date(2025, 9, 26, 15, 0, 0, 0, time.UTC)

	deadline, err := SubstitutionDeadline(shift, 24*time.Hour)
	require.NoError(t, err)
	require.NoError(t, CheckSubstitutionRequest(shift, x, deadline, now))

	sub := &domain.Substitution{
		ID:          7,
		ShiftID:     shift.ID,
		RequesterID: x.ID,
		Status:      domain.SubstitutionStatusPending,
		Deadline:    deadline,
	}

	// Y si candida
	require.NoError(t, CheckSubstitutionApplication(sub, shift, y, nil, now))
	sub.Status = domain.SubstitutionStatusApplied
	sub.SubstituteID = &y.ID

	// l'amministratore approva e il turno passa a Y
	require.NoError(t, CheckSubstitutionApproval(sub, now))
	sub.Status = domain.SubstitutionStatusApproved
	shift.UserID = y.ID

	// Z arriva tardi
	err = CheckSubstitutionApplication(sub, shift, z, nil, now)
	assert.ErrorIs(t, err, domain.ErrNotAvailable)

	assert.Equal(t, y.ID, shift.UserID)
	assert.Equal(t, domain.SubstitutionStatusApproved, sub.EffectiveStatus(now))
}
