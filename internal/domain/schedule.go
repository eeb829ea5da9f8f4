package domain

import "time"

type ShiftType string

const (
	ShiftTypePranzo ShiftType = "PRANZO"
	ShiftTypeCena   ShiftType = "CENA"
)

var ShiftTypes = []ShiftType{ShiftTypePranzo, ShiftTypeCena}

// L'orario di fine di un turno è derivato dal tipo di servizio e non
// viene mai accettato in input: così i conteggi di copertura lavorano
// su confini uniformi.
var ShiftEndTimes = map[ShiftType]string{
	ShiftTypePranzo: "14:00",
	ShiftTypeCena:   "22:00",
}

// Schedule rappresenta una settimana di turni, identificata dal lunedì
// a mezzanotte UTC. Viene creata pigramente al primo turno piazzato.
type Schedule struct {
	ID        int64     `json:"id"`
	WeekStart time.Time `json:"weekStart"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

type Shift struct {
	ID         int64     `json:"id"`
	ScheduleID int64     `json:"scheduleID"`
	UserID     int64     `json:"userID"`
	// WeekStart è denormalizzato dalla schedule di appartenenza per
	// comodità di chi consuma il turno.
	WeekStart   time.Time    `json:"weekStart"`
	DayOfWeek   int32        `json:"dayOfWeek"` // 0 = lunedì ... 6 = domenica
	ShiftType   ShiftType    `json:"shiftType"`
	Role        Role         `json:"role"`
	StartTime   string       `json:"startTime"` // HH:MM
	EndTime     string       `json:"endTime"`   // HH:MM
	WorkedHours *WorkedHours `json:"workedHours,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	Version     int32        `json:"-"`
}

type WorkedHours struct {
	ID        int64     `json:"id"`
	ShiftID   int64     `json:"shiftID"`
	Hours     float64   `json:"hours"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}
