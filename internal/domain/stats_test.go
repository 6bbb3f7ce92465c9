package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatsPeriod_Cutoff(t *testing.T) {
	now := time.Date(2026, 3, 15, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		period StatsPeriod
		want   time.Time
	}{
		{StatsPeriod7Days, time.Date(2026, 3, 8, 8, 30, 0, 0, time.UTC)},
		{StatsPeriod30Days, time.Date(2026, 2, 13, 8, 30, 0, 0, time.UTC)},
		{StatsPeriod90Days, time.Date(2025, 12, 15, 8, 30, 0, 0, time.UTC)},
		{StatsPeriodYear, time.Date(2025, 3, 15, 8, 30, 0, 0, time.UTC)},
		{StatsPeriodAll, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			assert.True(t, tt.period.Valid())
			assert.Equal(t, tt.want, tt.period.Cutoff(now))
		})
	}

	assert.False(t, StatsPeriod("2w").Valid())
}

func TestProgressWindowStart(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	// 02:00 local on March 15 is still March 14 in UTC.
	now := time.Date(2026, 3, 15, 2, 0, 0, 0, loc)

	assert.Equal(t, time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC), ProgressWindowStart(now))
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 72.35, Round2(72.349), 1e-9)
	assert.InDelta(t, 0.0, Round2(0), 1e-9)
	assert.InDelta(t, 99.99, Round2(99.994), 1e-9)
}
