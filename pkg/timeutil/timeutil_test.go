package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekStartIsMonday(t *testing.T) {
	tests := []struct {
		name string
		day  time.Time
	}{
		{"monday", time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)},
		{"wednesday", time.Date(2025, 3, 12, 0, 30, 0, 0, time.UTC)},
		{"sunday", time.Date(2025, 3, 16, 23, 59, 0, 0, time.UTC)},
	}

	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, want, WeekStart(tt.day))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 12, 1, 0, 0, 0, time.UTC)

	days := DaysBetween(start, end)
	require.Len(t, days, 3)
	assert.Equal(t, "2025-03-10", DayKey(days[0]))
	assert.Equal(t, "2025-03-12", DayKey(days[2]))

	assert.Len(t, DaysBetween(start, start), 1)
	assert.Nil(t, DaysBetween(end, start))
}

func TestDayLabels(t *testing.T) {
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Mon", DayLabel(monday))
	assert.Equal(t, "Sun", DayLabel(monday.AddDate(0, 0, 6)))
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 3, 10, 0, 0, 1, 0, time.UTC)
	b := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(a, b.AddDate(0, 0, 1)))
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "45s", FormatSeconds(45))
	assert.Equal(t, "2m", FormatSeconds(150))
	assert.Equal(t, "3h", FormatSeconds(3*3600+120))
	assert.Equal(t, "10s", FormatSeconds(-10))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatClock(0))
	assert.Equal(t, "01:10:05", FormatClock(3600+600+5))
	assert.Equal(t, "00:00:00", FormatClock(-5))
}
