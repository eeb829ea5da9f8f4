package domain

import "time"

// Availability è la disponibilità dichiarata da un dipendente per una
// combinazione (settimana, giorno, tipo di servizio). Le righe di una
// settimana vengono sempre riscritte in blocco, mai modificate una a
// una.
type Availability struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userID"`
	WeekStart    time.Time `json:"weekStart"`
	DayOfWeek    int32     `json:"dayOfWeek"` // 0 = lunedì ... 6 = domenica
	ShiftType    ShiftType `json:"shiftType"`
	IsAvailable  bool      `json:"isAvailable"`
	IsAbsentWeek bool      `json:"isAbsentWeek"`
	CreatedAt    time.Time `json:"createdAt"`
}

type AbsenceStatus string

const (
	AbsenceStatusPending  AbsenceStatus = "PENDING"
	AbsenceStatusApproved AbsenceStatus = "APPROVED"
)

// Absence è un periodo di assenza a granularità giornaliera, estremi
// inclusi. Le assenze di uno stesso dipendente non possono sovrapporsi.
type Absence struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"userID"`
	StartDate time.Time     `json:"startDate"`
	EndDate   time.Time     `json:"endDate"`
	Status    AbsenceStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	Version   int32         `json:"-"`
}
