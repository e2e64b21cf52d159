package domain

import "github.com/shopspring/decimal"

// City is a destination a trip can be tagged with. Cities are reference data
// seeded by migration.
type City struct {
	ID        int64
	Name      string
	Country   string
	Latitude  decimal.Decimal
	Longitude decimal.Decimal
}
