package domain

import (
	"time"

	"github.com/google/uuid"
)

// DayLog is one slot of a trip's timeline. Ordinals 1..D are dated
// StartDate+(ordinal-1); the last ordinal is the overflow DayLog with a nil Date.
type DayLog struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	Ordinal   int
	Date      *time.Time
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Items is only populated by detail reads, ordered by Item.Ordinal.
	Items []Item
}

// IsOverflow reports whether d is the trip's dateless overflow slot.
func (d *DayLog) IsOverflow() bool {
	return d.Date == nil
}

// SequenceID and friends let a DayLog take part in an ordinal.Sequence.
func (d *DayLog) SequenceID() uuid.UUID { return d.ID }
func (d *DayLog) Position() int         { return d.Ordinal }
func (d *DayLog) SetPosition(n int)     { d.Ordinal = n }
