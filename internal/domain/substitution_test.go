package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveStatus(t *testing.T) {
	deadline := time.Date(2025, 10, 3, 18, 0, 0, 0, time.UTC)
	before := deadline.Add(-time.Hour)
	after := deadline.Add(time.Hour)

	tests := []struct {
		name   string
		status SubstitutionStatus
		now    time.Time
		want   SubstitutionStatus
	}{
		{name: "pending prima della scadenza", status: SubstitutionStatusPending, now: before, want: SubstitutionStatusPending},
		{name: "pending dopo la scadenza", status: SubstitutionStatusPending, now: after, want: SubstitutionStatusExpired},
		{name: "pending esattamente alla scadenza", status: SubstitutionStatusPending, now: deadline, want: SubstitutionStatusExpired},
		{name: "applied dopo la scadenza", status: SubstitutionStatusApplied, now: after, want: SubstitutionStatusExpired},
		{name: "approved resta approved anche dopo la scadenza", status: SubstitutionStatusApproved, now: after, want: SubstitutionStatusApproved},
		{name: "rejected resta rejected anche dopo la scadenza", status: SubstitutionStatusRejected, now: after, want: SubstitutionStatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &Substitution{Status: tt.status, Deadline: deadline}
			assert.Equal(t, tt.want, sub.EffectiveStatus(tt.now))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, SubstitutionStatusPending.IsTerminal())
	assert.False(t, SubstitutionStatusApplied.IsTerminal())
	assert.True(t, SubstitutionStatusApproved.IsTerminal())
	assert.True(t, SubstitutionStatusRejected.IsTerminal())
	assert.True(t, SubstitutionStatusExpired.IsTerminal())
}
