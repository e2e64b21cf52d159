package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/hanglog/internal/domain"
	"github.com/pkordes/hanglog/internal/repo"
	"github.com/pkordes/hanglog/internal/service"
)

// ---- test doubles ----------------------------------------------------------

// faultyStore wraps a MemoryStore and lets a test fail selected item writes.
// WithinTx hands the wrapper, not the inner store, to the callback so the
// overrides stay in effect inside transactions.
type faultyStore struct {
	*repo.MemoryStore
	updatePositions func(ctx context.Context, items []domain.Item) error
}

func (f *faultyStore) Items() repo.ItemRepo {
	return &faultyItemRepo{ItemRepo: f.MemoryStore.Items(), updatePositions: f.updatePositions}
}

func (f *faultyStore) WithinTx(ctx context.Context, fn func(repo.Store) error) error {
	return f.MemoryStore.WithinTx(ctx, func(repo.Store) error { return fn(f) })
}

// faultyItemRepo delegates to the embedded repo unless a function field is set.
type faultyItemRepo struct {
	repo.ItemRepo
	updatePositions func(ctx context.Context, items []domain.Item) error
}

func (r *faultyItemRepo) UpdatePositions(ctx context.Context, items []domain.Item) error {
	if r.updatePositions != nil {
		return r.updatePositions(ctx, items)
	}
	return r.ItemRepo.UpdatePositions(ctx, items)
}

// compile-time check: faultyStore must satisfy repo.Store.
var _ repo.Store = (*faultyStore)(nil)

// ---- fixture ---------------------------------------------------------------

type fixture struct {
	store   repo.Store
	trips   *service.TripService
	dayLogs *service.DayLogService
	items   *service.ItemService
}

func newFixture(store repo.Store) fixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return fixture{
		store:   store,
		trips:   service.NewTripService(store, logger),
		dayLogs: service.NewDayLogService(store, logger),
		items:   service.NewItemService(store, logger),
	}
}

func newMemoryFixture() fixture {
	return newFixture(repo.NewMemoryStore())
}

func july(d int) time.Time {
	return time.Date(2023, 7, d, 0, 0, 0, 0, time.UTC)
}

// createTrip creates a trip spanning July <from> to July <to> 2023.
func (f fixture) createTrip(t *testing.T, from, to int) domain.Trip {
	t.Helper()
	trip, err := f.trips.Create(context.Background(), domain.Trip{
		Title:     "London",
		StartDate: july(from),
		EndDate:   july(to),
	})
	require.NoError(t, err, "create trip")
	return trip
}

func (f fixture) addItem(t *testing.T, tripID, dayLogID uuid.UUID, title string) domain.Item {
	t.Helper()
	it, err := f.items.Create(context.Background(), tripID, domain.Item{
		DayLogID: dayLogID,
		Type:     domain.ItemNonSpot,
		Title:    title,
	})
	require.NoError(t, err, "add item %q", title)
	return it
}

func (f fixture) detail(t *testing.T, tripID uuid.UUID) domain.Trip {
	t.Helper()
	trip, err := f.trips.GetDetail(context.Background(), tripID)
	require.NoError(t, err, "trip detail")
	return trip
}

func (f fixture) itemsOf(t *testing.T, tripID, dayLogID uuid.UUID) []domain.Item {
	t.Helper()
	log, err := f.dayLogs.Get(context.Background(), tripID, dayLogID)
	require.NoError(t, err, "day log detail")
	return log.Items
}

func titles(items []domain.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func ordinals(items []domain.Item) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.Ordinal
	}
	return out
}

func ids(items ...domain.Item) []uuid.UUID {
	out := make([]uuid.UUID, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
