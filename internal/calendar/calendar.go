// Il package calendar è l'unico punto dell'applicazione autorizzato a
// fare aritmetica su date e giorni della settimana. La convenzione è:
// la settimana inizia il lunedì a mezzanotte UTC e i giorni sono
// indicizzati 0 = lunedì ... 6 = domenica, mentre time.Weekday parte
// dalla domenica. Usare time.Weekday direttamente negli altri package è
// la fonte classica di errori di un giorno.
package calendar

import (
	"fmt"
	"time"

	"github.com/damario-dev/turni-manager/backend/internal/domain"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// NormalizeWeekStart restituisce il lunedì a mezzanotte UTC della
// settimana che contiene t. Il calcolo usa solo i campi di calendario
// UTC per evitare derive dovute al fuso locale. La funzione è
// idempotente.
func NormalizeWeekStart(t time.Time) time.Time {
	u := t.UTC()
	day := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -int(ToDayIndex(day.Weekday())))
}

// ToDayIndex converte il giorno nativo (0 = domenica ... 6 = sabato)
// nell'indice dell'applicazione (0 = lunedì ... 6 = domenica).
func ToDayIndex(w time.Weekday) int32 {
	if w == time.Sunday {
		return 6
	}
	return int32(w) - 1
}

// ShiftDate restituisce la data del giorno dayOfWeek della settimana
// che inizia a weekStart, con addizione di giorni UTC-safe.
func ShiftDate(weekStart time.Time, dayOfWeek int32) time.Time {
	return weekStart.AddDate(0, 0, int(dayOfWeek))
}

// ShiftStart combina la data del turno con il suo orario di inizio.
func ShiftStart(weekStart time.Time, dayOfWeek int32, startTime string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, startTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: orario %q non valido", domain.ErrValidation, startTime)
	}
	d := ShiftDate(weekStart, dayOfWeek)
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

// ParseDate interpreta una data YYYY-MM-DD come mezzanotte UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: data %q non valida", domain.ErrValidation, s)
	}
	return t, nil
}

// Today tronca l'istante corrente alla mezzanotte UTC.
func Today(now time.Time) time.Time {
	u := now.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
