// Il package coverage confronta l'organico minimo configurato
// (ShiftLimit) con i turni effettivamente assegnati in una settimana e
// produce il rapporto delle scoperture per il pannello amministrativo.
// È puramente funzionale: nessun effetto collaterale, ricalcolabile in
// qualunque momento dallo stato corrente.
package coverage

import (
	"sort"
	"time"

	"github.com/damario-dev/turni-manager/backend/internal/domain"
)

// Gap è una scopertura: per la combinazione indicata mancano Missing
// persone rispetto al minimo configurato. Missing è sempre > 0.
type Gap struct {
	DayOfWeek int32            `json:"dayOfWeek"`
	ShiftType domain.ShiftType `json:"shiftType"`
	Role      domain.Role      `json:"role"`
	Missing   int32            `json:"missing"`
}

// Surplus segnala una combinazione con più assegnati del massimo
// configurato.
type Surplus struct {
	DayOfWeek int32            `json:"dayOfWeek"`
	ShiftType domain.ShiftType `json:"shiftType"`
	Role      domain.Role      `json:"role"`
	Extra     int32            `json:"extra"`
}

type Report struct {
	WeekStart time.Time `json:"weekStart"`
	Gaps      []Gap     `json:"gaps"`
	Surpluses []Surplus `json:"surpluses"`
	// RequiredSlots è il totale dei posti minimi configurati,
	// FilledSlots quanti di quei posti risultano coperti (un turno in
	// eccesso rispetto al minimo non copre un posto di un'altra
	// combinazione).
	RequiredSlots   int32   `json:"requiredSlots"`
	FilledSlots     int32   `json:"filledSlots"`
	CoveragePercent float64 `json:"coveragePercent"`
}

type slotKey struct {
	day       int32
	shiftType domain.ShiftType
	role      domain.Role
}

// Reconcile calcola il rapporto di copertura della settimana weekStart
// a partire dai limiti globali e dai turni assegnati. I turni di
// mansioni o fasce senza limite configurato non producono voci.
func Reconcile(weekStart time.Time, limits []*domain.ShiftLimit, shifts []*domain.Shift) *Report {
	assigned := make(map[slotKey]int32)
	for _, s := range shifts {
		k := slotKey{day: s.DayOfWeek, shiftType: s.ShiftType, role: s.Role}
		assigned[k]++
	}

	report := &Report{
		WeekStart: weekStart,
		Gaps:      []Gap{},
		Surpluses: []Surplus{},
	}

	sorted := make([]*domain.ShiftLimit, len(limits))
	copy(sorted, limits)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].DayOfWeek != sorted[j].DayOfWeek {
			return sorted[i].DayOfWeek < sorted[j].DayOfWeek
		}
		if sorted[i].ShiftType != sorted[j].ShiftType {
			return sorted[i].ShiftType < sorted[j].ShiftType
		}
		return sorted[i].Role < sorted[j].Role
	})

	for _, limit := range sorted {
		k := slotKey{day: limit.DayOfWeek, shiftType: limit.ShiftType, role: limit.Role}
		count := assigned[k]

		report.RequiredSlots += limit.MinStaff
		report.FilledSlots += min(count, limit.MinStaff)

		if missing := limit.MinStaff - count; missing > 0 {
			report.Gaps = append(report.Gaps, Gap{
				DayOfWeek: limit.DayOfWeek,
				ShiftType: limit.ShiftType,
				Role:      limit.Role,
				Missing:   missing,
			})
		}

		if extra := count - limit.MaxStaff; extra > 0 {
			report.Surpluses = append(report.Surpluses, Surplus{
				DayOfWeek: limit.DayOfWeek,
				ShiftType: limit.ShiftType,
				Role:      limit.Role,
				Extra:     extra,
			})
		}
	}

	if report.RequiredSlots > 0 {
		report.CoveragePercent = float64(report.FilledSlots) / float64(report.RequiredSlots) * 100
	}

	return report
}
