// Package domain contains the core data types for the travel journal.
// Apart from uuid and decimal it has no external dependencies and is
// imported by every other internal package (ordinal, timeline, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus marks a trip as live or soft-deleted.
type TripStatus string

const (
	TripUsable  TripStatus = "USABLE"
	TripDeleted TripStatus = "DELETED"
)

// MaxTripDays caps the inclusive length of a trip, which bounds the number of
// DayLogs generated for it.
const MaxTripDays = 60

// Trip is the top-level aggregate. It owns one DayLog per calendar day in
// [StartDate, EndDate] plus a single dateless overflow DayLog.
type Trip struct {
	ID          uuid.UUID
	Title       string
	StartDate   time.Time
	EndDate     time.Time
	Description string
	ImageName   string
	Status      TripStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Cities are the destinations of the trip in the order the traveller chose.
	// On Update a nil slice keeps the stored cities; a non-nil one replaces them.
	Cities []City

	// DayLogs is only populated by detail reads.
	DayLogs []DayLog
}

// Period returns the inclusive number of days between StartDate and EndDate.
func (t Trip) Period() int {
	return PeriodOf(t.StartDate, t.EndDate)
}

// PeriodOf returns the inclusive day count of [start, end]. Both values are
// truncated to their calendar date first, so time-of-day never shifts the count.
func PeriodOf(start, end time.Time) int {
	s := DateOnly(start)
	e := DateOnly(end)
	return int(e.Sub(s).Hours()/24) + 1
}

// DateOnly strips the clock part of t and normalises it to UTC midnight.
// Calendar dates are always compared and stored in this form.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
