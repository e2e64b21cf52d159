package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/pkordes/hanglog/internal/domain"
	"github.com/pkordes/hanglog/internal/timeline"
)

const (
	maxTitleLen = 50
	maxTextLen  = 255

	// Decimal places kept by the items table; finer values would be rounded.
	amountPlaces     = 2
	coordinatePlaces = 7
)

var (
	maxRating  = decimal.NewFromInt(5)
	ratingStep = decimal.NewFromInt(2)
	maxLat     = decimal.NewFromInt(90)
	maxLng     = decimal.NewFromInt(180)

	// maxAmount is the first value that no longer fits NUMERIC(14, 2).
	maxAmount = decimal.New(1, 12)
)

// validateTrip enforces the rules shared by Create and Update.
func validateTrip(trip domain.Trip) error {
	if utf8.RuneCountInString(trip.Title) > maxTitleLen {
		return fmt.Errorf("%w: title must be at most %d characters", domain.ErrValidation, maxTitleLen)
	}
	if utf8.RuneCountInString(trip.Description) > maxTextLen {
		return fmt.Errorf("%w: description must be at most %d characters", domain.ErrValidation, maxTextLen)
	}
	return timeline.ValidateRange(trip.StartDate, trip.EndDate)
}

// validateDayLogTitle allows an empty title, which clears it.
func validateDayLogTitle(title string) error {
	if utf8.RuneCountInString(title) > maxTitleLen {
		return fmt.Errorf("%w: title must be at most %d characters", domain.ErrValidation, maxTitleLen)
	}
	return nil
}

// normalizeItem trims free text and upper-cases the currency code in place.
func normalizeItem(item *domain.Item) {
	item.Title = strings.TrimSpace(item.Title)
	item.Memo = strings.TrimSpace(item.Memo)
	if item.Place != nil {
		item.Place.Name = strings.TrimSpace(item.Place.Name)
		item.Place.Address = strings.TrimSpace(item.Place.Address)
	}
	if item.Expense != nil {
		item.Expense.Currency = strings.ToUpper(strings.TrimSpace(item.Expense.Currency))
	}
}

// validateItem enforces the content rules of an item. Category references are
// checked separately against the repo.
//   - Title is 1..50 characters, memo at most 255.
//   - Rating, if set, is between 0 and 5 in steps of 0.5.
//   - A SPOT item has a place; a NON_SPOT item has none.
//   - An expense has a three-letter currency and a non-negative amount with
//     at most two decimal places.
func validateItem(item domain.Item) error {
	if item.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(item.Title) > maxTitleLen {
		return fmt.Errorf("%w: title must be at most %d characters", domain.ErrValidation, maxTitleLen)
	}
	if utf8.RuneCountInString(item.Memo) > maxTextLen {
		return fmt.Errorf("%w: memo must be at most %d characters", domain.ErrValidation, maxTextLen)
	}

	if r := item.Rating; r != nil {
		if r.IsNegative() || r.GreaterThan(maxRating) || !r.Mul(ratingStep).IsInteger() {
			return fmt.Errorf("%w: rating must be between 0 and 5 in steps of 0.5", domain.ErrValidation)
		}
	}

	switch item.Type {
	case domain.ItemSpot:
		if item.Place == nil {
			return fmt.Errorf("%w: a spot item requires a place", domain.ErrValidation)
		}
		if err := validatePlace(*item.Place); err != nil {
			return err
		}
	case domain.ItemNonSpot:
		if item.Place != nil {
			return fmt.Errorf("%w: a non-spot item must not have a place", domain.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown item type %q", domain.ErrValidation, item.Type)
	}

	if e := item.Expense; e != nil {
		if !isCurrencyCode(e.Currency) {
			return fmt.Errorf("%w: currency must be a three-letter code", domain.ErrValidation)
		}
		if e.Amount.IsNegative() {
			return fmt.Errorf("%w: amount must not be negative", domain.ErrValidation)
		}
		if !hasPlaces(e.Amount, amountPlaces) {
			return fmt.Errorf("%w: amount must have at most %d decimal places", domain.ErrValidation, amountPlaces)
		}
		if e.Amount.GreaterThanOrEqual(maxAmount) {
			return fmt.Errorf("%w: amount is too large", domain.ErrValidation)
		}
	}
	return nil
}

func validatePlace(p domain.Place) error {
	if p.Name == "" {
		return fmt.Errorf("%w: place name is required", domain.ErrValidation)
	}
	if p.Latitude.Abs().GreaterThan(maxLat) || p.Longitude.Abs().GreaterThan(maxLng) {
		return fmt.Errorf("%w: place coordinates are out of range", domain.ErrValidation)
	}
	if !hasPlaces(p.Latitude, coordinatePlaces) || !hasPlaces(p.Longitude, coordinatePlaces) {
		return fmt.Errorf("%w: place coordinates must have at most %d decimal places", domain.ErrValidation, coordinatePlaces)
	}
	return nil
}

// hasPlaces reports whether d is exact at n decimal places. Trailing zeros
// beyond n are accepted, so "1.500" passes for n=2.
func hasPlaces(d decimal.Decimal, n int32) bool {
	return d.Equal(d.Truncate(n))
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
