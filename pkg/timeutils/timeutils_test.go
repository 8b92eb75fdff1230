package timeutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTimeFormat(t *testing.T) {
	cases := map[string]string{
		"6":     "06:00",
		"0":     "00:00",
		"23":    "23:00",
		"19:30": "19:30",
		"7:05":  "7:05",
		"":      "",
		"24":    "24",
		"-1":    "-1",
		"abc":   "abc",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, NormalizeTimeFormat(input), "input %q", input)
	}
}

func TestDayName_SundayFirst(t *testing.T) {
	// 2026-10-11 es domingo
	sunday := time.Date(2026, 10, 11, 12, 0, 0, 0, time.UTC)
	for i, expected := range DayNames() {
		assert.Equal(t, expected, DayName(sunday.AddDate(0, 0, i)))
	}
	assert.Equal(t, "Domingo", DayName(sunday))
	assert.Equal(t, "Sabado", DayName(sunday.AddDate(0, 0, 6)))
}

func TestCurrentTimeString(t *testing.T) {
	assert.Equal(t, "07:05", CurrentTimeString(time.Date(2026, 1, 1, 7, 5, 0, 0, time.UTC)))
	assert.Equal(t, "19:30", CurrentTimeString(time.Date(2026, 1, 1, 19, 30, 59, 0, time.UTC)))
}

func TestFormatAccessDay_UsesLocation(t *testing.T) {
	loc, err := LoadLocation("America/Montevideo")
	require.NoError(t, err)

	// 01:30 UTC del 16 sigue siendo el 15 en Montevideo (UTC-3)
	instant := time.Date(2026, 10, 16, 1, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-10-15", FormatAccessDay(instant, loc))
	assert.Equal(t, "2026-10-16", FormatAccessDay(instant, time.UTC))
}

func TestPreviousAccessDay(t *testing.T) {
	prev, err := PreviousAccessDay("2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-28", prev)

	_, err = PreviousAccessDay("not-a-day")
	assert.Error(t, err)
}

func TestParseHour(t *testing.T) {
	h, err := ParseHour("19")
	require.NoError(t, err)
	assert.Equal(t, 19, h)

	h, err = ParseHour("07:30")
	require.NoError(t, err)
	assert.Equal(t, 7, h)

	_, err = ParseHour("")
	assert.Error(t, err)
	_, err = ParseHour("25:00")
	assert.Error(t, err)
}

func TestMinutesOfDay(t *testing.T) {
	m, err := MinutesOfDay("19:00")
	require.NoError(t, err)
	assert.Equal(t, 19*60, m)

	m, err = MinutesOfDay("6")
	require.NoError(t, err)
	assert.Equal(t, 6*60, m)

	_, err = MinutesOfDay("19:75")
	assert.Error(t, err)
	_, err = MinutesOfDay("tarde")
	assert.Error(t, err)
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "18:50", FormatMinutes(18*60+50))
	assert.Equal(t, "23:50", FormatMinutes(-10))
}

func TestAccessWindow_Boundaries(t *testing.T) {
	w, err := NewAccessWindow("19:00", 10*time.Minute, 30*time.Minute)
	require.NoError(t, err)

	at := func(h, m int) int { return h*60 + m }

	assert.True(t, w.Contains(at(18, 50)), "18:50 debe estar permitido")
	assert.True(t, w.TooEarly(at(18, 49)), "18:49 es temprano")
	assert.True(t, w.Contains(at(19, 30)), "19:30 debe estar permitido")
	assert.True(t, w.Expired(at(19, 31)), "19:31 ya no está disponible")
	assert.Equal(t, "18:50", FormatMinutes(w.Opens))
}

func TestNextHour(t *testing.T) {
	assert.Equal(t, 20, NextHour(19))
	assert.Equal(t, 24, NextHour(23))

	cur, next := RelevantHours(time.Date(2026, 1, 1, 7, 59, 0, 0, time.UTC))
	assert.Equal(t, 7, cur)
	assert.Equal(t, 8, next)
}

func TestHourRangeLabel(t *testing.T) {
	assert.Equal(t, "19:00 - 20:00", HourRangeLabel(19))
	assert.Equal(t, "7:00 - 8:00", HourRangeLabel(7))
}
