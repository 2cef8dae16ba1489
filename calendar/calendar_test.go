package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/leave-workflow/calendar"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// BUSINESS DAY COUNTING
// =============================================================================

func TestBusinessDays_SingleWeekday(t *testing.T) {
	// 2024-01-01 is a Monday
	days, err := calendar.BusinessDays(date(2024, time.January, 1), date(2024, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, days)
}

func TestBusinessDays_SingleWeekendDay(t *testing.T) {
	// 2024-01-06 is a Saturday
	days, err := calendar.BusinessDays(date(2024, time.January, 6), date(2024, time.January, 6))
	require.NoError(t, err)
	assert.Equal(t, 0, days)

	// 2024-01-07 is a Sunday
	days, err = calendar.BusinessDays(date(2024, time.January, 7), date(2024, time.January, 7))
	require.NoError(t, err)
	assert.Equal(t, 0, days)
}

func TestBusinessDays_FullWeek(t *testing.T) {
	// Monday through Friday
	days, err := calendar.BusinessDays(date(2024, time.January, 1), date(2024, time.January, 5))
	require.NoError(t, err)
	assert.Equal(t, 5, days)
}

func TestBusinessDays_WeekendOnly(t *testing.T) {
	days, err := calendar.BusinessDays(date(2024, time.January, 6), date(2024, time.January, 7))
	require.NoError(t, err)
	assert.Equal(t, 0, days)
}

func TestBusinessDays_SpanningWeekend(t *testing.T) {
	// Friday through Monday: Fri + Mon
	days, err := calendar.BusinessDays(date(2024, time.January, 5), date(2024, time.January, 8))
	require.NoError(t, err)
	assert.Equal(t, 2, days)
}

func TestBusinessDays_EndBeforeStart(t *testing.T) {
	_, err := calendar.BusinessDays(date(2024, time.January, 5), date(2024, time.January, 1))
	assert.ErrorIs(t, err, calendar.ErrInvalidRange)
}

func TestBusinessDays_NormalizesTimeOfDay(t *testing.T) {
	// A late-evening start must not shift the day window
	start := time.Date(2024, time.March, 4, 23, 30, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 6, 1, 0, 0, 0, time.UTC)
	days, err := calendar.BusinessDays(start, end)
	require.NoError(t, err)
	assert.Equal(t, 3, days)
}

// =============================================================================
// DURATION ADJUSTMENT
// =============================================================================

func TestAdjustForDuration_HalfIsFlat(t *testing.T) {
	// Half always charges 0.5, whatever the raw count says
	for _, raw := range []int{0, 1, 5, 10} {
		got := calendar.AdjustForDuration(raw, calendar.DurationHalf)
		assert.Equal(t, "0.5", got.String())
	}
}

func TestAdjustForDuration_FullPassesThrough(t *testing.T) {
	got := calendar.AdjustForDuration(3, calendar.DurationFull)
	assert.Equal(t, "3", got.String())
}

func TestParseDuration(t *testing.T) {
	d, err := calendar.ParseDuration("full")
	require.NoError(t, err)
	assert.Equal(t, calendar.DurationFull, d)

	d, err = calendar.ParseDuration("half")
	require.NoError(t, err)
	assert.Equal(t, calendar.DurationHalf, d)

	// Empty defaults to full (form default)
	d, err = calendar.ParseDuration("")
	require.NoError(t, err)
	assert.Equal(t, calendar.DurationFull, d)

	_, err = calendar.ParseDuration("quarter")
	assert.ErrorIs(t, err, calendar.ErrUnknownDuration)
}

func TestParseDate(t *testing.T) {
	d, err := calendar.ParseDate("2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.March, 4), d)

	_, err = calendar.ParseDate("04/03/2024")
	assert.Error(t, err)
}
