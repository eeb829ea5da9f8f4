package coverage

import (
	"testing"
	"time"

	"github.com/damario-dev/turni-manager/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var weekStart = time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC)

func limit(day int32, st domain.ShiftType, role domain.Role, minStaff, maxStaff int32) *domain.ShiftLimit {
	return &domain.ShiftLimit{DayOfWeek: day, ShiftType: st, Role: role, MinStaff: minStaff, MaxStaff: maxStaff}
}

func shift(userID int64, day int32, st domain.ShiftType, role domain.Role) *domain.Shift {
	return &domain.Shift{UserID: userID, WeekStart: weekStart, DayOfWeek: day, ShiftType: st, Role: role, StartTime: "12:00", EndTime: "14:00"}
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name          string
		limits        []*domain.ShiftLimit
		shifts        []*domain.Shift
		wantGaps      []Gap
		wantSurpluses []Surplus
		wantRequired  int32
		wantFilled    int32
		wantPercent   float64
	}{
		{
			name:         "nessun limite configurato",
			limits:       nil,
			shifts:       []*domain.Shift{shift(1, 0, domain.ShiftTypePranzo, domain.RoleFattorino)},
			wantGaps:     []Gap{},
			wantRequired: 0,
			wantFilled:   0,
			wantPercent:  0, // mai divisione per zero
		},
		{
			name:   "minimo due e nessun assegnato",
			limits: []*domain.ShiftLimit{limit(0, domain.ShiftTypePranzo, domain.RoleFattorino, 2, 4)},
			shifts: nil,
			wantGaps: []Gap{
				{DayOfWeek: 0, ShiftType: domain.ShiftTypePranzo, Role: domain.RoleFattorino, Missing: 2},
			},
			wantRequired: 2,
			wantFilled:   0,
			wantPercent:  0,
		},
		{
			name:   "tre assegnati su minimo due: nessuna scopertura, mai negativa",
			limits: []*domain.ShiftLimit{limit(0, domain.ShiftTypePranzo, domain.RoleFattorino, 2, 4)},
			shifts: []*domain.Shift{
				shift(1, 0, domain.ShiftTypePranzo, domain.RoleFattorino),
				shift(2, 0, domain.ShiftTypePranzo, domain.RoleFattorino),
				shift(3, 0, domain.ShiftTypePranzo, domain.RoleFattorino),
			},
			wantGaps:     []Gap{},
			wantRequired: 2,
			wantFilled:   2,
			wantPercent:  100,
		},
		{
			name:   "sopra il massimo",
			limits: []*domain.ShiftLimit{limit(5, domain.ShiftTypeCena, domain.RoleSala, 1, 2)},
			shifts: []*domain.Shift{
				shift(1, 5, domain.ShiftTypeCena, domain.RoleSala),
				shift(2, 5, domain.ShiftTypeCena, domain.RoleSala),
				shift(3, 5, domain.ShiftTypeCena, domain.RoleSala),
			},
			wantGaps: []Gap{},
			wantSurpluses: []Surplus{
				{DayOfWeek: 5, ShiftType: domain.ShiftTypeCena, Role: domain.RoleSala, Extra: 1},
			},
			wantRequired: 1,
			wantFilled:   1,
			wantPercent:  100,
		},
		{
			name: "turni di altra mansione o fascia non contano",
			limits: []*domain.ShiftLimit{
				limit(0, domain.ShiftTypePranzo, domain.RoleFattorino, 1, 3),
			},
			shifts: []*domain.Shift{
				shift(1, 0, domain.ShiftTypePranzo, domain.RoleCucina),
				shift(2, 0, domain.ShiftTypeCena, domain.RoleFattorino),
				shift(3, 1, domain.ShiftTypePranzo, domain.RoleFattorino),
			},
			wantGaps: []Gap{
				{DayOfWeek: 0, ShiftType: domain.ShiftTypePranzo, Role: domain.RoleFattorino, Missing: 1},
			},
			wantRequired: 1,
			wantFilled:   0,
			wantPercent:  0,
		},
		{
			name: "copertura parziale su più combinazioni",
			limits: []*domain.ShiftLimit{
				limit(0, domain.ShiftTypePranzo, domain.RoleFattorino, 2, 4),
				limit(0, domain.ShiftTypeCena, domain.RolePizzaiolo, 1, 2),
				limit(6, domain.ShiftTypeCena, domain.RoleSala, 2, 3),
			},
			shifts: []*domain.Shift{
				shift(1, 0, domain.ShiftTypePranzo, domain.RoleFattorino),
				shift(2, 0, domain.ShiftTypeCena, domain.RolePizzaiolo),
				shift(3, 6, domain.ShiftTypeCena, domain.RoleSala),
			},
			wantGaps: []Gap{
				{DayOfWeek: 0, ShiftType: domain.ShiftTypePranzo, Role: domain.RoleFattorino, Missing: 1},
				{DayOfWeek: 6, ShiftType: domain.ShiftTypeCena, Role: domain.RoleSala, Missing: 1},
			},
			wantRequired: 5,
			wantFilled:   3,
			wantPercent:  60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Reconcile(weekStart, tt.limits, tt.shifts)

			assert.Equal(t, tt.wantGaps, report.Gaps)
			if tt.wantSurpluses == nil {
				assert.Empty(t, report.Surpluses)
			} else {
				assert.Equal(t, tt.wantSurpluses, report.Surpluses)
			}
			assert.Equal(t, tt.wantRequired, report.RequiredSlots)
			assert.Equal(t, tt.wantFilled, report.FilledSlots)
			assert.InDelta(t, tt.wantPercent, report.CoveragePercent, 0.001)
			assert.True(t, report.WeekStart.Equal(weekStart))

			for _, g := range report.Gaps {
				assert.Positive(t, g.Missing)
			}
		})
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	limits := []*domain.ShiftLimit{
		limit(2, domain.ShiftTypePranzo, domain.RoleCucina, 2, 3),
		limit(2, domain.ShiftTypeCena, domain.RoleCucina, 2, 3),
	}
	shifts := []*domain.Shift{
		shift(1, 2, domain.ShiftTypePranzo, domain.RoleCucina),
	}

	first := Reconcile(weekStart, limits, shifts)
	second := Reconcile(weekStart, limits, shifts)

	require.Equal(t, first, second)
	// l'input non viene modificato
	assert.Equal(t, int32(2), limits[0].DayOfWeek)
	assert.Len(t, shifts, 1)
}
