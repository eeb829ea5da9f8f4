package domain

// ShiftLimit è la configurazione globale dell'organico richiesto per
// una combinazione (giorno, tipo di servizio, mansione). Non appartiene
// a nessuna settimana specifica.
type ShiftLimit struct {
	ID        int64     `json:"id"`
	DayOfWeek int32     `json:"dayOfWeek"` // 0 = lunedì ... 6 = domenica
	ShiftType ShiftType `json:"shiftType"`
	Role      Role      `json:"role"`
	MinStaff  int32     `json:"minStaff"`
	MaxStaff  int32     `json:"maxStaff"`
	Version   int32     `json:"-"`
}
