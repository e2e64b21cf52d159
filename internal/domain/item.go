package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemType distinguishes items tied to a visited place from expense-only items.
type ItemType string

const (
	ItemSpot    ItemType = "SPOT"
	ItemNonSpot ItemType = "NON_SPOT"
)

// ItemTypeFromSpot maps the client's "is this a spot" flag to an ItemType.
func ItemTypeFromSpot(isSpot bool) ItemType {
	if isSpot {
		return ItemSpot
	}
	return ItemNonSpot
}

// Item is a single entry inside a DayLog. Within one DayLog the ordinals of all
// items form the contiguous sequence 1..N.
type Item struct {
	ID        uuid.UUID
	DayLogID  uuid.UUID
	Type      ItemType
	Title     string
	Ordinal   int
	Rating    *decimal.Decimal // nil when unrated
	Memo      string
	Place     *Place
	Expense   *Expense
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (i *Item) SequenceID() uuid.UUID { return i.ID }
func (i *Item) Position() int         { return i.Ordinal }
func (i *Item) SetPosition(n int)     { i.Ordinal = n }

// Place is the location visited by a SPOT item.
type Place struct {
	Name      string
	Address   string
	Latitude  decimal.Decimal
	Longitude decimal.Decimal
	Category  Category
}

// Expense is the money spent on an item. Amount is never negative.
type Expense struct {
	Currency string
	Amount   decimal.Decimal
	Category Category
}
