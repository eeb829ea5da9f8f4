package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			name: "lunedì resta invariato",
			in:   time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC),
			want: "2025-09-29",
		},
		{
			name: "mercoledì torna al lunedì precedente",
			in:   time.Date(2025, 10, 1, 18, 30, 0, 0, time.UTC),
			want: "2025-09-29",
		},
		{
			name: "domenica appartiene alla settimana iniziata sei giorni prima",
			in:   time.Date(2025, 10, 5, 23, 59, 59, 0, time.UTC),
			want: "2025-09-29",
		},
		{
			name: "cavallo di fine anno",
			in:   time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
			want: "2025-12-29",
		},
		{
			// le 01:00 CEST del lunedì sono ancora domenica in UTC:
			// conta il calendario UTC, non quello locale
			name: "fuso locale avanti rispetto a UTC",
			in:   time.Date(2025, 9, 29, 1, 0, 0, 0, time.FixedZone("CEST", 2*60*60)),
			want: "2025-09-22",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeWeekStart(tt.in)
			assert.Equal(t, tt.want, got.Format(DateLayout))
			assert.Equal(t, time.Monday, got.Weekday())
			// idempotenza
			assert.True(t, NormalizeWeekStart(got).Equal(got))
		})
	}
}

func TestNormalizeWeekStartAlwaysMonday(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 400; i++ {
		d := start.AddDate(0, 0, i)
		ws := NormalizeWeekStart(d)
		require.Equal(t, time.Monday, ws.Weekday(), "giorno %s", d.Format(DateLayout))
		require.True(t, NormalizeWeekStart(ws).Equal(ws))
		require.False(t, ws.After(d))
	}
}

func TestToDayIndex(t *testing.T) {
	tests := []struct {
		native time.Weekday
		want   int32
	}{
		{time.Sunday, 6},
		{time.Monday, 0},
		{time.Tuesday, 1},
		{time.Wednesday, 2},
		{time.Thursday, 3},
		{time.Friday, 4},
		{time.Saturday, 5},
	}

	seen := map[int32]bool{}
	for _, tt := range tests {
		got := ToDayIndex(tt.native)
		assert.Equal(t, tt.want, got, "nativo %d", tt.native)
		assert.False(t, seen[got], "indice %d duplicato", got)
		seen[got] = true
	}
	// biezione su 0..6
	assert.Len(t, seen, 7)
}

func TestShiftDate(t *testing.T) {
	weekStart := time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-09-29", ShiftDate(weekStart, 0).Format(DateLayout))
	assert.Equal(t, "2025-10-01", ShiftDate(weekStart, 2).Format(DateLayout))
	assert.Equal(t, "2025-10-05", ShiftDate(weekStart, 6).Format(DateLayout))
}

func TestShiftStart(t *testing.T) {
	weekStart := time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC)

	start, err := ShiftStart(weekStart, 0, "12:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 9, 29, 12, 0, 0, 0, time.UTC), start)

	_, err = ShiftStart(weekStart, 0, "25:99")
	require.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-09-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("29/09/2025")
	require.Error(t, err)
}
