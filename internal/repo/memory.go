package repo

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pkordes/hanglog/internal/domain"
)

// SeedCategories mirrors the rows inserted by migrations/00001_create_categories.sql.
var SeedCategories = []domain.Category{
	{ID: 100, Code: "food", Name: "음식", Kind: domain.CategoryExpense},
	{ID: 200, Code: "culture", Name: "문화", Kind: domain.CategoryExpense},
	{ID: 300, Code: "shopping", Name: "쇼핑", Kind: domain.CategoryExpense},
	{ID: 400, Code: "accommodation", Name: "숙박", Kind: domain.CategoryExpense},
	{ID: 500, Code: "transportation", Name: "교통", Kind: domain.CategoryExpense},
	{ID: 600, Code: "etc", Name: "기타", Kind: domain.CategoryExpense},
	{ID: 101, Code: "restaurant", Name: "음식점", Kind: domain.CategoryPlace},
	{ID: 102, Code: "cafe", Name: "카페", Kind: domain.CategoryPlace},
	{ID: 201, Code: "museum", Name: "박물관", Kind: domain.CategoryPlace},
	{ID: 202, Code: "tourist_attraction", Name: "관광명소", Kind: domain.CategoryPlace},
	{ID: 301, Code: "shopping_mall", Name: "쇼핑몰", Kind: domain.CategoryPlace},
	{ID: 401, Code: "lodging", Name: "숙소", Kind: domain.CategoryPlace},
	{ID: 501, Code: "train_station", Name: "기차역", Kind: domain.CategoryPlace},
	{ID: 601, Code: "point_of_interest", Name: "기타", Kind: domain.CategoryPlace},
}

// SeedCities mirrors the rows inserted by migrations/00005_create_cities.sql.
var SeedCities = []domain.City{
	{ID: 1, Name: "London", Country: "United Kingdom", Latitude: decimal.RequireFromString("51.5072178"), Longitude: decimal.RequireFromString("-0.1275862")},
	{ID: 2, Name: "Paris", Country: "France", Latitude: decimal.RequireFromString("48.8566140"), Longitude: decimal.RequireFromString("2.3522219")},
	{ID: 3, Name: "Tokyo", Country: "Japan", Latitude: decimal.RequireFromString("35.6761919"), Longitude: decimal.RequireFromString("139.6503106")},
	{ID: 4, Name: "Seoul", Country: "South Korea", Latitude: decimal.RequireFromString("37.5665350"), Longitude: decimal.RequireFromString("126.9779692")},
	{ID: 5, Name: "New York", Country: "United States", Latitude: decimal.RequireFromString("40.7127753"), Longitude: decimal.RequireFromString("-74.0059728")},
	{ID: 6, Name: "Barcelona", Country: "Spain", Latitude: decimal.RequireFromString("41.3873974"), Longitude: decimal.RequireFromString("2.1685990")},
	{ID: 7, Name: "Rome", Country: "Italy", Latitude: decimal.RequireFromString("41.9027835"), Longitude: decimal.RequireFromString("12.4963655")},
	{ID: 8, Name: "Bangkok", Country: "Thailand", Latitude: decimal.RequireFromString("13.7563309"), Longitude: decimal.RequireFromString("100.5017651")},
}

type memoryData struct {
	trips      map[uuid.UUID]domain.Trip
	dayLogs    map[uuid.UUID]domain.DayLog
	items      map[uuid.UUID]domain.Item
	tripCities map[uuid.UUID][]int64
	categories map[int64]domain.Category
	cities     map[int64]domain.City
}

// clone copies every mutable map. Slices stored in them are replaced, never
// modified in place, so sharing them is safe.
func (d *memoryData) clone() *memoryData {
	return &memoryData{
		trips:      maps.Clone(d.trips),
		dayLogs:    maps.Clone(d.dayLogs),
		items:      maps.Clone(d.items),
		tripCities: maps.Clone(d.tripCities),
		categories: d.categories,
		cities:     d.cities,
	}
}

// MemoryStore is an in-process Store for local development and service tests.
//
// WithinTx calls are serialised and roll back by restoring a snapshot taken
// when the transaction started. Calls made outside WithinTx are individually
// atomic but may observe the state of a running transaction. WithinTx must not
// be nested.
type MemoryStore struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data *memoryData
	now  func() time.Time
}

// NewMemoryStore returns an empty MemoryStore seeded with SeedCategories and
// SeedCities.
func NewMemoryStore() *MemoryStore {
	cats := make(map[int64]domain.Category, len(SeedCategories))
	for _, c := range SeedCategories {
		cats[c.ID] = c
	}
	cities := make(map[int64]domain.City, len(SeedCities))
	for _, c := range SeedCities {
		cities[c.ID] = c
	}
	return &MemoryStore{
		data: &memoryData{
			trips:      map[uuid.UUID]domain.Trip{},
			dayLogs:    map[uuid.UUID]domain.DayLog{},
			items:      map[uuid.UUID]domain.Item{},
			tripCities: map[uuid.UUID][]int64{},
			categories: cats,
			cities:     cities,
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Trips() TripRepo { return memTripRepo{s} }

func (s *MemoryStore) DayLogs() DayLogRepo { return memDayLogRepo{s} }

func (s *MemoryStore) Items() ItemRepo { return memItemRepo{s} }

func (s *MemoryStore) Categories() CategoryRepo { return memCategoryRepo{s} }

func (s *MemoryStore) Cities() CityRepo { return memCityRepo{s} }

func (s *MemoryStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("repo.MemoryStore.WithinTx: %w", err)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// usableTrip reports whether tripID names a trip that is not soft-deleted.
// Callers must hold s.mu.
func (s *MemoryStore) usableTrip(tripID uuid.UUID) bool {
	t, ok := s.data.trips[tripID]
	return ok && t.Status == domain.TripUsable
}

// ---- trips -----------------------------------------------------------------

type memTripRepo struct{ s *MemoryStore }

func (r memTripRepo) Create(_ context.Context, trip domain.Trip) (domain.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	trip.ID = uuid.New()
	trip.StartDate = domain.DateOnly(trip.StartDate)
	trip.EndDate = domain.DateOnly(trip.EndDate)
	trip.Status = domain.TripUsable
	trip.CreatedAt, trip.UpdatedAt = now, now
	trip.DayLogs = nil
	trip.Cities = nil
	r.s.data.trips[trip.ID] = trip
	return trip, nil
}

func (r memTripRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Trip, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if !r.s.usableTrip(id) {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", domain.ErrNotFound)
	}
	return r.s.data.trips[id], nil
}

// GetForUpdate needs no extra locking: WithinTx already serialises writers.
func (r memTripRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return r.GetByID(ctx, id)
}

func (r memTripRepo) GetForShare(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return r.GetByID(ctx, id)
}

func (r memTripRepo) ListPaged(_ context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var all []domain.Trip
	for _, t := range r.s.data.trips {
		if t.Status == domain.TripUsable {
			all = append(all, t)
		}
	}
	slices.SortFunc(all, func(a, b domain.Trip) int {
		if c := b.StartDate.Compare(a.StartDate); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	total := int64(len(all))
	from := min(p.Offset(), len(all))
	to := min(from+p.Limit, len(all))
	return append([]domain.Trip{}, all[from:to]...), total, nil
}

func (r memTripRepo) Update(_ context.Context, trip domain.Trip) (domain.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.usableTrip(trip.ID) {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", domain.ErrNotFound)
	}
	stored := r.s.data.trips[trip.ID]
	stored.Title = trip.Title
	stored.StartDate = domain.DateOnly(trip.StartDate)
	stored.EndDate = domain.DateOnly(trip.EndDate)
	stored.Description = trip.Description
	stored.ImageName = trip.ImageName
	stored.UpdatedAt = r.s.now()
	r.s.data.trips[trip.ID] = stored
	return stored, nil
}

func (r memTripRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.usableTrip(id) {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	t := r.s.data.trips[id]
	t.Status = domain.TripDeleted
	t.UpdatedAt = r.s.now()
	r.s.data.trips[id] = t
	return nil
}

// ---- day logs --------------------------------------------------------------

type memDayLogRepo struct{ s *MemoryStore }

func (r memDayLogRepo) CreateBatch(_ context.Context, logs []domain.DayLog) ([]domain.DayLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	out := make([]domain.DayLog, 0, len(logs))
	for _, l := range logs {
		if _, ok := r.s.data.trips[l.TripID]; !ok {
			return nil, fmt.Errorf("repo.DayLogRepo.CreateBatch: trip %s: %w", l.TripID, domain.ErrNotFound)
		}
		l.ID = uuid.New()
		l.CreatedAt, l.UpdatedAt = now, now
		l.Items = nil
		r.s.data.dayLogs[l.ID] = l
		out = append(out, l)
	}
	return out, nil
}

func (r memDayLogRepo) GetByID(_ context.Context, tripID, dayLogID uuid.UUID) (domain.DayLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.data.dayLogs[dayLogID]
	if !ok || l.TripID != tripID || !r.s.usableTrip(tripID) {
		return domain.DayLog{}, fmt.Errorf("repo.DayLogRepo.GetByID: %w", domain.ErrNotFound)
	}
	return l, nil
}

func (r memDayLogRepo) GetForUpdate(ctx context.Context, tripID, dayLogID uuid.UUID) (domain.DayLog, error) {
	return r.GetByID(ctx, tripID, dayLogID)
}

func (r memDayLogRepo) ListByTripID(_ context.Context, tripID uuid.UUID) ([]domain.DayLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	logs := []domain.DayLog{}
	for _, l := range r.s.data.dayLogs {
		if l.TripID == tripID {
			logs = append(logs, l)
		}
	}
	slices.SortFunc(logs, func(a, b domain.DayLog) int { return cmp.Compare(a.Ordinal, b.Ordinal) })
	return logs, nil
}

func (r memDayLogRepo) Update(_ context.Context, log domain.DayLog) (domain.DayLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.data.dayLogs[log.ID]
	if !ok || stored.TripID != log.TripID {
		return domain.DayLog{}, fmt.Errorf("repo.DayLogRepo.Update: %w", domain.ErrNotFound)
	}
	stored.Ordinal = log.Ordinal
	stored.Date = log.Date
	stored.Title = log.Title
	stored.UpdatedAt = r.s.now()
	r.s.data.dayLogs[log.ID] = stored
	return stored, nil
}

func (r memDayLogRepo) DeleteByIDs(_ context.Context, tripID uuid.UUID, ids []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, id := range ids {
		if l, ok := r.s.data.dayLogs[id]; !ok || l.TripID != tripID {
			return fmt.Errorf("repo.DayLogRepo.DeleteByIDs: %s: %w", id, domain.ErrNotFound)
		}
	}
	for _, id := range ids {
		delete(r.s.data.dayLogs, id)
		for itemID, it := range r.s.data.items {
			if it.DayLogID == id {
				delete(r.s.data.items, itemID)
			}
		}
	}
	return nil
}

// ---- items -----------------------------------------------------------------

type memItemRepo struct{ s *MemoryStore }

func (r memItemRepo) Create(_ context.Context, item domain.Item) (domain.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.dayLogs[item.DayLogID]; !ok {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.Create: day log %s: %w", item.DayLogID, domain.ErrNotFound)
	}
	now := r.s.now()
	item.ID = uuid.New()
	item.CreatedAt, item.UpdatedAt = now, now
	r.s.data.items[item.ID] = item
	return item, nil
}

func (r memItemRepo) GetByID(_ context.Context, tripID, itemID uuid.UUID) (domain.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	it, ok := r.s.data.items[itemID]
	if !ok {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.GetByID: %w", domain.ErrNotFound)
	}
	l, ok := r.s.data.dayLogs[it.DayLogID]
	if !ok || l.TripID != tripID || !r.s.usableTrip(tripID) {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.GetByID: %w", domain.ErrNotFound)
	}
	return it, nil
}

func (r memItemRepo) ListByDayLogID(_ context.Context, dayLogID uuid.UUID) ([]domain.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := []domain.Item{}
	for _, it := range r.s.data.items {
		if it.DayLogID == dayLogID {
			items = append(items, it)
		}
	}
	slices.SortFunc(items, func(a, b domain.Item) int { return cmp.Compare(a.Ordinal, b.Ordinal) })
	return items, nil
}

func (r memItemRepo) ListByTripID(_ context.Context, tripID uuid.UUID) ([]domain.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := []domain.Item{}
	for _, it := range r.s.data.items {
		if l, ok := r.s.data.dayLogs[it.DayLogID]; ok && l.TripID == tripID {
			items = append(items, it)
		}
	}
	slices.SortFunc(items, func(a, b domain.Item) int {
		la, lb := r.s.data.dayLogs[a.DayLogID], r.s.data.dayLogs[b.DayLogID]
		if c := cmp.Compare(la.Ordinal, lb.Ordinal); c != 0 {
			return c
		}
		return cmp.Compare(a.Ordinal, b.Ordinal)
	})
	return items, nil
}

func (r memItemRepo) Update(_ context.Context, item domain.Item) (domain.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.data.items[item.ID]
	if !ok {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.Update: %w", domain.ErrNotFound)
	}
	stored.Type = item.Type
	stored.Title = item.Title
	stored.Rating = item.Rating
	stored.Memo = item.Memo
	stored.Place = item.Place
	stored.Expense = item.Expense
	stored.UpdatedAt = r.s.now()
	r.s.data.items[item.ID] = stored
	return stored, nil
}

func (r memItemRepo) UpdatePositions(_ context.Context, items []domain.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, it := range items {
		if _, ok := r.s.data.items[it.ID]; !ok {
			return fmt.Errorf("repo.ItemRepo.UpdatePositions: %s: %w", it.ID, domain.ErrNotFound)
		}
	}
	now := r.s.now()
	for _, it := range items {
		stored := r.s.data.items[it.ID]
		stored.DayLogID = it.DayLogID
		stored.Ordinal = it.Ordinal
		stored.UpdatedAt = now
		r.s.data.items[it.ID] = stored
	}
	return nil
}

func (r memItemRepo) Delete(_ context.Context, itemID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.items[itemID]; !ok {
		return fmt.Errorf("repo.ItemRepo.Delete: %w", domain.ErrNotFound)
	}
	delete(r.s.data.items, itemID)
	return nil
}

// ---- categories ------------------------------------------------------------

type memCategoryRepo struct{ s *MemoryStore }

func (r memCategoryRepo) GetByID(_ context.Context, id int64) (domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.data.categories[id]
	if !ok {
		return domain.Category{}, fmt.Errorf("repo.CategoryRepo.GetByID: %w", domain.ErrNotFound)
	}
	return c, nil
}

func (r memCategoryRepo) GetByCode(_ context.Context, code string) (domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.data.categories {
		if c.Code == code {
			return c, nil
		}
	}
	return domain.Category{}, fmt.Errorf("repo.CategoryRepo.GetByCode: %w", domain.ErrNotFound)
}

func (r memCategoryRepo) List(_ context.Context, kind domain.CategoryKind) ([]domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []domain.Category{}
	for _, c := range r.s.data.categories {
		if kind == "" || c.Kind == kind {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b domain.Category) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// ---- cities ----------------------------------------------------------------

type memCityRepo struct{ s *MemoryStore }

func (r memCityRepo) GetByID(_ context.Context, id int64) (domain.City, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.data.cities[id]
	if !ok {
		return domain.City{}, fmt.Errorf("repo.CityRepo.GetByID: %w", domain.ErrNotFound)
	}
	return c, nil
}

func (r memCityRepo) List(_ context.Context) ([]domain.City, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := slices.Collect(maps.Values(r.s.data.cities))
	slices.SortFunc(out, func(a, b domain.City) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (r memCityRepo) ListByTripIDs(_ context.Context, tripIDs []uuid.UUID) (map[uuid.UUID][]domain.City, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[uuid.UUID][]domain.City, len(tripIDs))
	for _, tripID := range tripIDs {
		for _, cityID := range r.s.data.tripCities[tripID] {
			out[tripID] = append(out[tripID], r.s.data.cities[cityID])
		}
	}
	return out, nil
}

func (r memCityRepo) SetForTrip(_ context.Context, tripID uuid.UUID, cityIDs []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.data.trips[tripID]; !ok {
		return fmt.Errorf("repo.CityRepo.SetForTrip: trip %s: %w", tripID, domain.ErrNotFound)
	}
	for _, id := range cityIDs {
		if _, ok := r.s.data.cities[id]; !ok {
			return fmt.Errorf("repo.CityRepo.SetForTrip: city %d: %w", id, domain.ErrNotFound)
		}
	}
	if len(cityIDs) == 0 {
		delete(r.s.data.tripCities, tripID)
		return nil
	}
	r.s.data.tripCities[tripID] = slices.Clone(cityIDs)
	return nil
}

// compile-time checks
var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*pgStore)(nil)
)
