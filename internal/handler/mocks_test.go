package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/hanglog/internal/domain"
	"github.com/pkordes/hanglog/internal/handler"
)

// The mocks below are hand-written test doubles for the servicer interfaces.
// Set only the method fields your test needs.

type mockTripServicer struct {
	create    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getDetail func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	list      func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripServicer) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripServicer) GetDetail(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getDetail(ctx, id)
}
func (m *mockTripServicer) List(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.list(ctx, p)
}
func (m *mockTripServicer) Update(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.update(ctx, t)
}
func (m *mockTripServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockDayLogServicer struct {
	get          func(ctx context.Context, tripID, dayLogID uuid.UUID) (domain.DayLog, error)
	updateTitle  func(ctx context.Context, tripID, dayLogID uuid.UUID, title string) error
	reorderItems func(ctx context.Context, tripID, dayLogID uuid.UUID, itemIDs []uuid.UUID) error
}

func (m *mockDayLogServicer) Get(ctx context.Context, tripID, dayLogID uuid.UUID) (domain.DayLog, error) {
	return m.get(ctx, tripID, dayLogID)
}
func (m *mockDayLogServicer) UpdateTitle(ctx context.Context, tripID, dayLogID uuid.UUID, title string) error {
	return m.updateTitle(ctx, tripID, dayLogID, title)
}
func (m *mockDayLogServicer) ReorderItems(ctx context.Context, tripID, dayLogID uuid.UUID, itemIDs []uuid.UUID) error {
	return m.reorderItems(ctx, tripID, dayLogID, itemIDs)
}

type mockItemServicer struct {
	create func(ctx context.Context, tripID uuid.UUID, item domain.Item) (domain.Item, error)
	update func(ctx context.Context, tripID uuid.UUID, item domain.Item) (domain.Item, error)
	delete func(ctx context.Context, tripID, itemID uuid.UUID) error
}

func (m *mockItemServicer) Create(ctx context.Context, tripID uuid.UUID, item domain.Item) (domain.Item, error) {
	return m.create(ctx, tripID, item)
}
func (m *mockItemServicer) Update(ctx context.Context, tripID uuid.UUID, item domain.Item) (domain.Item, error) {
	return m.update(ctx, tripID, item)
}
func (m *mockItemServicer) Delete(ctx context.Context, tripID, itemID uuid.UUID) error {
	return m.delete(ctx, tripID, itemID)
}

type mockCategoryServicer struct {
	list func(ctx context.Context, kind domain.CategoryKind) ([]domain.Category, error)
}

func (m *mockCategoryServicer) List(ctx context.Context, kind domain.CategoryKind) ([]domain.Category, error) {
	return m.list(ctx, kind)
}

type mockCityServicer struct {
	list func(ctx context.Context) ([]domain.City, error)
}

func (m *mockCityServicer) List(ctx context.Context) ([]domain.City, error) {
	return m.list(ctx)
}

type mockExpenseServicer struct {
	summary func(ctx context.Context, tripID uuid.UUID) (domain.ExpenseSummary, error)
}

func (m *mockExpenseServicer) Summary(ctx context.Context, tripID uuid.UUID) (domain.ExpenseSummary, error) {
	return m.summary(ctx, tripID)
}

// compile-time checks: mocks must satisfy the handler interfaces.
var (
	_ handler.TripServicer     = (*mockTripServicer)(nil)
	_ handler.DayLogServicer   = (*mockDayLogServicer)(nil)
	_ handler.ItemServicer     = (*mockItemServicer)(nil)
	_ handler.CategoryServicer = (*mockCategoryServicer)(nil)
	_ handler.CityServicer     = (*mockCityServicer)(nil)
	_ handler.ExpenseServicer  = (*mockExpenseServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// services groups the mocks a test wants wired; nil fields stay unwired.
type services struct {
	trips      *mockTripServicer
	dayLogs    *mockDayLogServicer
	items      *mockItemServicer
	categories *mockCategoryServicer
	cities     *mockCityServicer
	expenses   *mockExpenseServicer
}

// newHTTPHandler wires the mocks into the router exactly as main.go wires the
// real services.
func newHTTPHandler(s services) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := handler.NewServer(handler.Services{
		Trips:      s.trips,
		DayLogs:    s.dayLogs,
		Items:      s.items,
		Categories: s.categories,
		Cities:     s.cities,
		Expenses:   s.expenses,
	}, logger)
	return handler.Handler(srv)
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}
