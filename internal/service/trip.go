// Package service contains the business logic of the travel journal.
// Services validate inputs, keep the timeline and ordinal invariants, and run
// every structural edit inside one repo.Store transaction.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/hanglog/internal/domain"
	"github.com/pkordes/hanglog/internal/repo"
	"github.com/pkordes/hanglog/internal/timeline"
)

// DefaultTripTitle is used when a trip is created with neither a title nor a city.
const DefaultTripTitle = "New trip"

// cityTitleSuffix follows the first city's name in a generated title.
const cityTitleSuffix = " trip"

// defaultTitle names a trip after its first city, e.g. "Tokyo trip".
func defaultTitle(cities []domain.City) string {
	if len(cities) == 0 {
		return DefaultTripTitle
	}
	return cities[0].Name + cityTitleSuffix
}

// TripService owns a trip and the shape of its timeline.
type TripService struct {
	store  repo.Store
	logger *slog.Logger
}

// NewTripService constructs a TripService backed by the provided Store.
func NewTripService(store repo.Store, logger *slog.Logger) *TripService {
	return &TripService{store: store, logger: logger}
}

// Create validates the trip, persists it with its cities and generates its
// DayLogs, all in one transaction. Only the IDs of trip.Cities are read. A trip
// without a title is named after its first city. The returned trip carries its
// cities and DayLogs.
// Returns domain.ErrValidation if input violates business rules or names an
// unknown city.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip.Title = strings.TrimSpace(trip.Title)
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	var result domain.Trip
	err := s.store.WithinTx(ctx, func(tx repo.Store) error {
		cities, err := resolveCities(ctx, tx.Cities(), trip.Cities)
		if err != nil {
			return err
		}
		if trip.Title == "" {
			trip.Title = defaultTitle(cities)
		}

		created, err := tx.Trips().Create(ctx, trip)
		if err != nil {
			return err
		}
		if err := tx.Cities().SetForTrip(ctx, created.ID, cityIDs(cities)); err != nil {
			return err
		}
		created.Cities = cities

		logs, err := timeline.Initialize(created)
		if err != nil {
			return err
		}
		created.DayLogs, err = tx.DayLogs().CreateBatch(ctx, logs)
		if err != nil {
			return err
		}
		result = created
		return nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	s.logger.InfoContext(ctx, "trip created",
		slog.String("trip_id", result.ID.String()),
		slog.Int("day_logs", len(result.DayLogs)),
	)
	return result, nil
}

// GetDetail returns a trip with its DayLogs in ordinal order, each carrying its
// items in ordinal order.
// Returns domain.ErrNotFound if the trip does not exist or was deleted.
func (s *TripService) GetDetail(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := loadDetail(ctx, s.store, id, false)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetDetail: %w", err)
	}
	return trip, nil
}

// List returns one page of trips with their cities, most recent start date
// first, and the total number of trips. Always returns a non-nil slice.
func (s *TripService) List(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.store.Trips().ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}

	ids := make([]uuid.UUID, len(trips))
	for i, t := range trips {
		ids[i] = t.ID
	}
	byTrip, err := s.store.Cities().ListByTripIDs(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.List: %w", err)
	}
	for i := range trips {
		trips[i].Cities = nonNilCities(byTrip[trips[i].ID])
	}
	return trips, total, nil
}

// Update replaces the trip's metadata and, when the date range changed,
// reshapes its timeline. The trip row is locked for the whole transaction.
// A non-nil trip.Cities replaces the trip's cities; nil keeps them.
//
// Shrinking moves the items of every removed day onto the overflow DayLog;
// nothing the traveller wrote is ever deleted by a resize.
// Returns domain.ErrNotFound if the trip does not exist or was deleted, and
// domain.ErrValidation for invalid input.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip.Title = strings.TrimSpace(trip.Title)
	if trip.Title == "" {
		return domain.Trip{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	var (
		result domain.Trip
		ch     timeline.Change
	)
	err := s.store.WithinTx(ctx, func(tx repo.Store) error {
		current, err := loadDetail(ctx, tx, trip.ID, true)
		if err != nil {
			return err
		}

		ch, err = timeline.Resize(current, current.DayLogs, trip.StartDate, trip.EndDate)
		if err != nil {
			return err
		}

		if _, err := tx.Trips().Update(ctx, trip); err != nil {
			return err
		}
		if trip.Cities != nil {
			cities, err := resolveCities(ctx, tx.Cities(), trip.Cities)
			if err != nil {
				return err
			}
			if err := tx.Cities().SetForTrip(ctx, trip.ID, cityIDs(cities)); err != nil {
				return err
			}
		}
		if err := applyChange(ctx, tx, trip.ID, ch); err != nil {
			return err
		}

		result, err = loadDetail(ctx, tx, trip.ID, false)
		return err
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	if len(ch.Added)+len(ch.Removed)+len(ch.Updated) > 0 {
		s.logger.InfoContext(ctx, "trip timeline resized",
			slog.String("trip_id", trip.ID.String()),
			slog.Int("period", result.Period()),
			slog.Int("added", len(ch.Added)),
			slog.Int("removed", len(ch.Removed)),
			slog.Int("updated", len(ch.Updated)),
			slog.Int("moved_items", len(ch.MovedItems)),
		)
	}
	return result, nil
}

// Delete soft-deletes a trip. Its DayLogs and items stay in storage but are no
// longer reachable.
// Returns domain.ErrNotFound if the trip does not exist or was already deleted.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Trips().Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// applyChange persists a timeline.Change. Items leave the removed DayLogs before
// those are deleted, since deleting a DayLog cascades to its items.
func applyChange(ctx context.Context, tx repo.Store, tripID uuid.UUID, ch timeline.Change) error {
	if len(ch.MovedItems) > 0 {
		if err := tx.Items().UpdatePositions(ctx, ch.MovedItems); err != nil {
			return err
		}
	}
	if len(ch.Removed) > 0 {
		ids := make([]uuid.UUID, len(ch.Removed))
		for i, d := range ch.Removed {
			ids[i] = d.ID
		}
		if err := tx.DayLogs().DeleteByIDs(ctx, tripID, ids); err != nil {
			return err
		}
	}
	for _, d := range ch.Updated {
		if _, err := tx.DayLogs().Update(ctx, d); err != nil {
			return err
		}
	}
	if len(ch.Added) > 0 {
		if _, err := tx.DayLogs().CreateBatch(ctx, ch.Added); err != nil {
			return err
		}
	}
	return nil
}

// loadDetail reads a trip with its DayLogs and items. With forUpdate set the
// trip row is locked until the surrounding transaction ends.
func loadDetail(ctx context.Context, st repo.Store, id uuid.UUID, forUpdate bool) (domain.Trip, error) {
	var (
		trip domain.Trip
		err  error
	)
	if forUpdate {
		trip, err = st.Trips().GetForUpdate(ctx, id)
	} else {
		trip, err = st.Trips().GetByID(ctx, id)
	}
	if err != nil {
		return domain.Trip{}, err
	}

	logs, err := st.DayLogs().ListByTripID(ctx, id)
	if err != nil {
		return domain.Trip{}, err
	}
	items, err := st.Items().ListByTripID(ctx, id)
	if err != nil {
		return domain.Trip{}, err
	}
	cities, err := st.Cities().ListByTripIDs(ctx, []uuid.UUID{id})
	if err != nil {
		return domain.Trip{}, err
	}

	trip.Cities = nonNilCities(cities[id])
	trip.DayLogs = attachItems(logs, items)
	return trip, nil
}

// resolveCities loads every requested city, keeping the request order.
// Duplicates and unknown ids are validation errors since they come from the
// request body.
func resolveCities(ctx context.Context, lookup repo.CityRepo, requested []domain.City) ([]domain.City, error) {
	cities := make([]domain.City, 0, len(requested))
	seen := make(map[int64]struct{}, len(requested))
	for _, c := range requested {
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("%w: city %d is listed twice", domain.ErrValidation, c.ID)
		}
		seen[c.ID] = struct{}{}

		city, err := lookup.GetByID(ctx, c.ID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown city %d", domain.ErrValidation, c.ID)
		}
		if err != nil {
			return nil, err
		}
		cities = append(cities, city)
	}
	return cities, nil
}

func cityIDs(cities []domain.City) []int64 {
	ids := make([]int64, len(cities))
	for i, c := range cities {
		ids[i] = c.ID
	}
	return ids
}

func nonNilCities(cities []domain.City) []domain.City {
	if cities == nil {
		return []domain.City{}
	}
	return cities
}

// attachItems distributes items onto their DayLogs, keeping the order of items.
// Every DayLog gets a non-nil Items slice.
func attachItems(logs []domain.DayLog, items []domain.Item) []domain.DayLog {
	byLog := make(map[uuid.UUID][]domain.Item, len(logs))
	for _, it := range items {
		byLog[it.DayLogID] = append(byLog[it.DayLogID], it)
	}
	for i := range logs {
		logs[i].Items = byLog[logs[i].ID]
		if logs[i].Items == nil {
			logs[i].Items = []domain.Item{}
		}
	}
	return logs
}
