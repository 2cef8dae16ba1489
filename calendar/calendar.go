/*
Package calendar provides business-day arithmetic for leave requests.

PURPOSE:
  Pure date computations with no I/O. The workflow asks this package two
  questions: how many working days does a date range cover, and what is the
  charged amount once the requested duration type is applied.

WORK-WEEK RULE:
  Monday through Friday count as business days. Public holidays are NOT
  considered; the company calendar is handled outside this system.

HALF DAYS:
  A half-day request is only valid for a single calendar date and always
  charges exactly 0.5 days, regardless of the raw count. This is a flat
  override, not a fractional subtraction.

PRECISION:
  Charged amounts use decimal.Decimal so 0.5 round-trips exactly through
  storage and display.

SEE ALSO:
  - workflow/workflow.go: Caller that maps these errors to validation failures
*/
package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

var (
	// ErrInvalidRange is returned when the end date falls before the start date.
	// Callers must treat this as a rejection, never as a usable count.
	ErrInvalidRange = errors.New("invalid range: end before start")

	// ErrUnknownDuration is returned for a duration type outside {full, half}.
	ErrUnknownDuration = errors.New("unknown duration type")
)

// =============================================================================
// DURATION TYPE
// =============================================================================

// Duration is the requested granularity of a leave day.
type Duration string

const (
	DurationFull Duration = "full"
	DurationHalf Duration = "half"
)

// ParseDuration validates a duration type string. The empty string defaults
// to a full day, matching the intake form's default selection.
func ParseDuration(s string) (Duration, error) {
	switch Duration(s) {
	case DurationFull, "":
		return DurationFull, nil
	case DurationHalf:
		return DurationHalf, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDuration, s)
	}
}

// =============================================================================
// DATES
// =============================================================================

// ParseDate parses a YYYY-MM-DD date and normalizes it to UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Normalize(t), nil
}

// Normalize truncates a time to day granularity in UTC.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsWorkday reports whether the date is a Monday-Friday working day.
func IsWorkday(t time.Time) bool { return !IsWeekend(t) }

// =============================================================================
// COUNTING
// =============================================================================

// BusinessDays counts Monday-Friday days in [start, end] inclusive.
// Returns ErrInvalidRange when end is before start. A weekend-only range
// yields 0; whether that is acceptable is the caller's decision.
func BusinessDays(start, end time.Time) (int, error) {
	start, end = Normalize(start), Normalize(end)
	if end.Before(start) {
		return 0, ErrInvalidRange
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if IsWorkday(d) {
			days++
		}
	}
	return days, nil
}

// AdjustForDuration applies the duration type to a raw business-day count.
// Half days charge a flat 0.5; full days pass the count through unchanged.
func AdjustForDuration(days int, d Duration) decimal.Decimal {
	if d == DurationHalf {
		return decimal.NewFromFloat(0.5)
	}
	return decimal.NewFromInt(int64(days))
}
