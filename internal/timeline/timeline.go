// Package timeline derives a trip's DayLogs from its date range and reshapes
// them when the range changes.
//
// Everything here is computed in memory. The service layer persists the result
// inside one transaction, so a Change is either applied as a whole or not at all.
package timeline

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/hanglog/internal/domain"
	"github.com/pkordes/hanglog/internal/ordinal"
)

// ValidateRange rejects an inverted range and trips longer than domain.MaxTripDays.
func ValidateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", domain.ErrValidation)
	}
	if domain.DateOnly(end).Before(domain.DateOnly(start)) {
		return fmt.Errorf("%w: endDate must not be before startDate", domain.ErrValidation)
	}
	if domain.PeriodOf(start, end) > domain.MaxTripDays {
		return fmt.Errorf("%w: a trip may span at most %d days", domain.ErrValidation, domain.MaxTripDays)
	}
	return nil
}

// Initialize generates the DayLogs of a freshly created trip: one per day of
// [StartDate, EndDate] followed by the dateless overflow DayLog. The returned
// DayLogs have no IDs yet.
func Initialize(trip domain.Trip) ([]domain.DayLog, error) {
	if err := ValidateRange(trip.StartDate, trip.EndDate); err != nil {
		return nil, err
	}

	period := trip.Period()
	start := domain.DateOnly(trip.StartDate)

	logs := make([]domain.DayLog, 0, period+1)
	for ord := 1; ord <= period; ord++ {
		logs = append(logs, dated(trip.ID, ord, start))
	}
	logs = append(logs, domain.DayLog{TripID: trip.ID, Ordinal: period + 1})
	return logs, nil
}

// Change describes how a Resize reshaped a timeline.
type Change struct {
	// DayLogs is the full resulting timeline in ordinal order.
	DayLogs []domain.DayLog

	// Added are new DayLogs without IDs, to be inserted.
	Added []domain.DayLog

	// Removed are existing DayLogs to delete. Their items have already been
	// moved onto the overflow DayLog (see MovedItems).
	Removed []domain.DayLog

	// Updated are existing DayLogs whose ordinal or date changed.
	Updated []domain.DayLog

	// MovedItems are items re-parented onto the overflow DayLog, carrying their
	// new DayLogID and ordinal.
	MovedItems []domain.Item
}

// Resize reshapes the current timeline of trip to cover [start, end].
//
// current must be the trip's complete DayLog set. Items are only needed on the
// DayLogs that may be removed and on the overflow DayLog; DayLogs without items
// loaded are treated as empty. current is not modified.
//
// The overflow DayLog is never deleted: it is detached, and re-attached at the
// new final ordinal. When the trip shrinks, the items of every removed DayLog
// are appended to the overflow DayLog in (day ordinal, item ordinal) order.
// Every remaining dated DayLog is re-stamped with start+(ordinal-1), so a pure
// start-date shift also yields correct dates.
func Resize(trip domain.Trip, current []domain.DayLog, start, end time.Time) (Change, error) {
	if err := ValidateRange(start, end); err != nil {
		return Change{}, err
	}

	logs := cloneLogs(current)
	ordinal.Sort(logs)

	currentPeriod := trip.Period()
	if len(logs) != currentPeriod+1 {
		return Change{}, fmt.Errorf("timeline.Resize: trip %s has %d day logs, want %d",
			trip.ID, len(logs), currentPeriod+1)
	}
	if err := ordinal.Check(logs); err != nil {
		return Change{}, fmt.Errorf("timeline.Resize: trip %s: %w", trip.ID, err)
	}

	overflow := logs[currentPeriod]
	if !overflow.IsOverflow() {
		return Change{}, fmt.Errorf("timeline.Resize: trip %s: day log at ordinal %d is not the overflow",
			trip.ID, overflow.Ordinal)
	}
	days := logs[:currentPeriod]

	requestPeriod := domain.PeriodOf(start, end)
	newStart := domain.DateOnly(start)

	var ch Change

	if requestPeriod < currentPeriod {
		removed := days[requestPeriod:]
		days = days[:requestPeriod]
		ch.MovedItems = migrateItems(removed, overflow)
		for _, d := range removed {
			ch.Removed = append(ch.Removed, *d)
		}
	}

	updated := make(map[uuid.UUID]*domain.DayLog)
	for _, d := range days {
		want := newStart.AddDate(0, 0, d.Ordinal-1)
		if d.Date == nil || !d.Date.Equal(want) {
			d.Date = &want
			updated[d.ID] = d
		}
	}

	var added []*domain.DayLog
	for ord := currentPeriod + 1; ord <= requestPeriod; ord++ {
		d := dated(trip.ID, ord, newStart)
		added = append(added, &d)
		ch.Added = append(ch.Added, d)
	}

	if overflow.Ordinal != requestPeriod+1 {
		overflow.Ordinal = requestPeriod + 1
		updated[overflow.ID] = overflow
	}

	result := make([]*domain.DayLog, 0, requestPeriod+1)
	result = append(result, days...)
	result = append(result, added...)
	result = append(result, overflow)
	for _, d := range result {
		ch.DayLogs = append(ch.DayLogs, *d)
		if _, ok := updated[d.ID]; ok && d.ID != uuid.Nil {
			ch.Updated = append(ch.Updated, *d)
		}
	}

	return ch, nil
}

// migrateItems appends every item of removed onto overflow and returns the moved
// items with their new parent and ordinal.
func migrateItems(removed []*domain.DayLog, overflow *domain.DayLog) []domain.Item {
	sortItems(overflow.Items)
	next := len(overflow.Items) + 1

	var moved []domain.Item
	for _, d := range removed {
		sortItems(d.Items)
		for _, it := range d.Items {
			it.DayLogID = overflow.ID
			it.Ordinal = next
			next++
			moved = append(moved, it)
			overflow.Items = append(overflow.Items, it)
		}
		d.Items = nil
	}
	return moved
}

func sortItems(items []domain.Item) {
	slices.SortStableFunc(items, func(a, b domain.Item) int { return a.Ordinal - b.Ordinal })
}

func dated(tripID uuid.UUID, ord int, start time.Time) domain.DayLog {
	date := start.AddDate(0, 0, ord-1)
	return domain.DayLog{TripID: tripID, Ordinal: ord, Date: &date}
}

// cloneLogs copies current deeply enough that Resize can mutate ordinals, dates
// and item slices without touching the caller's values.
func cloneLogs(current []domain.DayLog) []*domain.DayLog {
	out := make([]*domain.DayLog, len(current))
	for i, d := range current {
		c := d
		if d.Date != nil {
			date := *d.Date
			c.Date = &date
		}
		c.Items = slices.Clone(d.Items)
		out[i] = &c
	}
	return out
}
